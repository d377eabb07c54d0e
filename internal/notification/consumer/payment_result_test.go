// Copyright 2024 foodsnap
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package consumer

import (
	"context"
	"errors"
	"testing"

	"github.com/gotomicro/ego/core/elog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodsnap/foodsnap-server/internal/notification/event"
	"github.com/foodsnap/foodsnap-server/internal/sms/client"
	"github.com/foodsnap/foodsnap-server/internal/user"
)

type fakeUserService struct {
	users map[int64]user.User
}

func (f *fakeUserService) Profile(_ context.Context, uid int64) (user.User, error) {
	u, ok := f.users[uid]
	if !ok {
		return user.User{}, errors.New("用户不存在")
	}
	return u, nil
}

func (f *fakeUserService) FindOrCreateByWechat(_ context.Context, _ user.WechatInfo) (user.User, error) {
	return user.User{}, nil
}

func (f *fakeUserService) UpdateProfile(_ context.Context, _ user.User) error {
	return nil
}

func (f *fakeUserService) UpdateVipStatus(_ context.Context, _ int64, _ bool, _ int64) error {
	return nil
}

type fakeSMSClient struct {
	reqs []client.SendReq
	err  error
}

func (f *fakeSMSClient) Send(req client.SendReq) (client.SendResp, error) {
	if f.err != nil {
		return client.SendResp{}, f.err
	}
	f.reqs = append(f.reqs, req)
	return client.SendResp{RequestID: "req-1"}, nil
}

func newTestConsumer(userSvc *fakeUserService, smsClient *fakeSMSClient) *PaymentResultConsumer {
	return &PaymentResultConsumer{
		userSvc:   userSvc,
		smsClient: smsClient,
		cfg: &Config{
			PaymentTemplateID: "SMS_PAY_001",
			RefundTemplateID:  "SMS_REFUND_001",
		},
		logger: elog.DefaultLogger,
	}
}

func TestPaymentResultConsumer_HandleEvent(t *testing.T) {
	t.Parallel()

	t.Run("支付成功事件发送支付模板短信", func(t *testing.T) {
		t.Parallel()
		userSvc := &fakeUserService{users: map[int64]user.User{
			7: {ID: 7, Phone: "13800001111"},
		}}
		smsClient := &fakeSMSClient{}
		c := newTestConsumer(userSvc, smsClient)

		err := c.handleEvent(context.Background(), event.PaymentResultEvent{
			OrderSN:  "sn-1",
			Uid:      7,
			Type:     event.TypePaymentSucceeded,
			Amount:   990,
			PlanName: "月付会员",
		})
		require.NoError(t, err)
		require.Len(t, smsClient.reqs, 1)
		assert.Equal(t, []string{"13800001111"}, smsClient.reqs[0].PhoneNumbers)
		assert.Equal(t, "SMS_PAY_001", smsClient.reqs[0].TemplateID)
		assert.Equal(t, map[string]string{
			"plan":   "月付会员",
			"amount": "9.90",
		}, smsClient.reqs[0].TemplateParam)
	})

	t.Run("退款事件使用退款模板", func(t *testing.T) {
		t.Parallel()
		userSvc := &fakeUserService{users: map[int64]user.User{
			7: {ID: 7, Phone: "13800001111"},
		}}
		smsClient := &fakeSMSClient{}
		c := newTestConsumer(userSvc, smsClient)

		err := c.handleEvent(context.Background(), event.PaymentResultEvent{
			OrderSN: "sn-1",
			Uid:     7,
			Type:    event.TypeRefundSucceeded,
			Amount:  990,
		})
		require.NoError(t, err)
		require.Len(t, smsClient.reqs, 1)
		assert.Equal(t, "SMS_REFUND_001", smsClient.reqs[0].TemplateID)
	})

	t.Run("没有手机号跳过通知", func(t *testing.T) {
		t.Parallel()
		userSvc := &fakeUserService{users: map[int64]user.User{
			7: {ID: 7},
		}}
		smsClient := &fakeSMSClient{}
		c := newTestConsumer(userSvc, smsClient)

		err := c.handleEvent(context.Background(), event.PaymentResultEvent{Uid: 7})
		require.NoError(t, err)
		assert.Empty(t, smsClient.reqs)
	})

	t.Run("用户不存在返回错误", func(t *testing.T) {
		t.Parallel()
		c := newTestConsumer(&fakeUserService{users: map[int64]user.User{}}, &fakeSMSClient{})

		err := c.handleEvent(context.Background(), event.PaymentResultEvent{Uid: 404})
		assert.Error(t, err)
	})

	t.Run("短信发送失败返回错误", func(t *testing.T) {
		t.Parallel()
		userSvc := &fakeUserService{users: map[int64]user.User{
			7: {ID: 7, Phone: "13800001111"},
		}}
		c := newTestConsumer(userSvc, &fakeSMSClient{err: errors.New("网关超时")})

		err := c.handleEvent(context.Background(), event.PaymentResultEvent{Uid: 7})
		assert.Error(t, err)
	})
}
