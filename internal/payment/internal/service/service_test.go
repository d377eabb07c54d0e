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

package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodsnap/foodsnap-server/internal/member"
	"github.com/foodsnap/foodsnap-server/internal/payment/internal/domain"
	"github.com/foodsnap/foodsnap-server/internal/payment/internal/event"
	"github.com/foodsnap/foodsnap-server/internal/plan"
)

// fakeReconciler 内存实现, 保留条件更新语义
type fakeReconciler struct {
	orders  map[string]*domain.Order
	pays    map[string]int64        // sn -> payTime
	refunds map[string]refundRecord // sn -> 退款落库内容
	findErr error
	markErr error
}

type refundRecord struct {
	refundNo   string
	refundID   string
	refundFee  int64
	refundTime int64
}

func newFakeReconciler() *fakeReconciler {
	return &fakeReconciler{
		orders:  map[string]*domain.Order{},
		pays:    map[string]int64{},
		refunds: map[string]refundRecord{},
	}
}

func (f *fakeReconciler) FindBySN(_ context.Context, sn string) (domain.Order, error) {
	if f.findErr != nil {
		return domain.Order{}, f.findErr
	}
	o, ok := f.orders[sn]
	if !ok {
		return domain.Order{}, ErrOrderNotFound
	}
	return *o, nil
}

func (f *fakeReconciler) MarkPaymentSucceeded(_ context.Context, sn string, transactionID string, payTime int64) (bool, error) {
	if f.markErr != nil {
		return false, f.markErr
	}
	o, ok := f.orders[sn]
	if !ok || o.Paid || o.Refunded {
		return false, nil
	}
	o.Paid = true
	f.pays[sn] = payTime
	return true, nil
}

func (f *fakeReconciler) MarkRefundSucceeded(_ context.Context, sn string, refundNo, refundID string, refundFee, refundTime int64) (bool, error) {
	if f.markErr != nil {
		return false, f.markErr
	}
	o, ok := f.orders[sn]
	if !ok || !o.Paid || o.Refunded {
		return false, nil
	}
	o.Refunded = true
	f.refunds[sn] = refundRecord{
		refundNo:   refundNo,
		refundID:   refundID,
		refundFee:  refundFee,
		refundTime: refundTime,
	}
	return true, nil
}

type grantCall struct {
	uid      int64
	planType string
	baseDays uint64
}

// fakeMemberService 记录权益变更调用
type fakeMemberService struct {
	grants    []grantCall
	revokes   []int64
	grantErr  error
	revokeErr error
}

func (f *fakeMemberService) MembershipInfo(_ context.Context, _ int64) (member.Member, error) {
	return member.Member{}, nil
}

func (f *fakeMemberService) Grant(_ context.Context, uid int64, planType string, baseDays uint64) error {
	if f.grantErr != nil {
		return f.grantErr
	}
	f.grants = append(f.grants, grantCall{uid: uid, planType: planType, baseDays: baseDays})
	return nil
}

func (f *fakeMemberService) RevokeIfExpired(_ context.Context, uid int64) error {
	if f.revokeErr != nil {
		return f.revokeErr
	}
	f.revokes = append(f.revokes, uid)
	return nil
}

type fakeProducer struct {
	events []event.PaymentEvent
	err    error
}

func (f *fakeProducer) Produce(_ context.Context, evt event.PaymentEvent) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, evt)
	return nil
}

type fakePrepay struct{}

func (fakePrepay) Prepay(_ context.Context, _ domain.PrepayReq) (domain.PayParams, error) {
	return domain.PayParams{PrepayID: "prepay-1"}, nil
}

type fixture struct {
	reconciler *fakeReconciler
	memberSvc  *fakeMemberService
	producer   *fakeProducer
	svc        Service
	now        time.Time
}

func newFixture() *fixture {
	f := &fixture{
		reconciler: newFakeReconciler(),
		memberSvc:  &fakeMemberService{},
		producer:   &fakeProducer{},
		now:        time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	f.svc = NewServiceWith(fakePrepay{}, f.reconciler, f.memberSvc,
		plan.NewService(), f.producer, func() time.Time { return f.now })
	return f
}

func paymentNotification() domain.PaymentNotification {
	return domain.PaymentNotification{
		OrderSN:       "sn-1",
		TransactionID: "4200001234",
		TotalFee:      990,
		PayTime:       "20240601200000",
	}
}

func TestService_HandlePaymentNotification(t *testing.T) {
	t.Parallel()

	t.Run("首次回调标记已支付并开通会员", func(t *testing.T) {
		t.Parallel()
		f := newFixture()
		f.reconciler.orders["sn-1"] = &domain.Order{
			SN: "sn-1", Uid: 7, PlanType: plan.TypeMonthly, Amount: 990,
		}

		err := f.svc.HandlePaymentNotification(context.Background(), paymentNotification())
		require.NoError(t, err)
		assert.True(t, f.reconciler.orders["sn-1"].Paid)
		// 北京时间 2024-06-01 20:00:00
		wantPayTime := time.Date(2024, 6, 1, 20, 0, 0, 0, beijing).UnixMilli()
		assert.Equal(t, wantPayTime, f.reconciler.pays["sn-1"])
		require.Len(t, f.memberSvc.grants, 1)
		assert.Equal(t, grantCall{uid: 7, planType: plan.TypeMonthly, baseDays: 30}, f.memberSvc.grants[0])
		require.Len(t, f.producer.events, 1)
		assert.Equal(t, event.TypePaymentSucceeded, f.producer.events[0].Type)
		assert.Equal(t, "月付会员", f.producer.events[0].PlanName)
	})

	t.Run("重复回调幂等", func(t *testing.T) {
		t.Parallel()
		f := newFixture()
		f.reconciler.orders["sn-1"] = &domain.Order{
			SN: "sn-1", Uid: 7, PlanType: plan.TypeMonthly, Amount: 990, Paid: true,
		}

		err := f.svc.HandlePaymentNotification(context.Background(), paymentNotification())
		require.NoError(t, err)
		assert.Empty(t, f.memberSvc.grants)
		assert.Empty(t, f.producer.events)
	})

	t.Run("金额不一致时拒绝标记", func(t *testing.T) {
		t.Parallel()
		f := newFixture()
		f.reconciler.orders["sn-1"] = &domain.Order{
			SN: "sn-1", Uid: 7, PlanType: plan.TypeMonthly, Amount: 9900,
		}

		err := f.svc.HandlePaymentNotification(context.Background(), paymentNotification())
		assert.ErrorIs(t, err, ErrAmountMismatch)
		assert.False(t, f.reconciler.orders["sn-1"].Paid)
		assert.Empty(t, f.memberSvc.grants)
		assert.Empty(t, f.producer.events)
	})

	t.Run("订单不存在应答成功", func(t *testing.T) {
		t.Parallel()
		f := newFixture()

		err := f.svc.HandlePaymentNotification(context.Background(), paymentNotification())
		require.NoError(t, err)
		assert.Empty(t, f.memberSvc.grants)
	})

	t.Run("查询订单失败应答失败等待重试", func(t *testing.T) {
		t.Parallel()
		f := newFixture()
		f.reconciler.findErr = errors.New("连接超时")

		err := f.svc.HandlePaymentNotification(context.Background(), paymentNotification())
		assert.Error(t, err)
	})

	t.Run("更新支付状态失败应答失败等待重试", func(t *testing.T) {
		t.Parallel()
		f := newFixture()
		f.reconciler.orders["sn-1"] = &domain.Order{
			SN: "sn-1", Uid: 7, PlanType: plan.TypeMonthly, Amount: 990,
		}
		f.reconciler.markErr = errors.New("连接超时")

		err := f.svc.HandlePaymentNotification(context.Background(), paymentNotification())
		assert.Error(t, err)
		assert.Empty(t, f.memberSvc.grants)
	})

	t.Run("开通会员失败仍应答成功", func(t *testing.T) {
		t.Parallel()
		f := newFixture()
		f.reconciler.orders["sn-1"] = &domain.Order{
			SN: "sn-1", Uid: 7, PlanType: plan.TypeMonthly, Amount: 990,
		}
		f.memberSvc.grantErr = errors.New("会员服务不可用")

		err := f.svc.HandlePaymentNotification(context.Background(), paymentNotification())
		require.NoError(t, err)
		assert.True(t, f.reconciler.orders["sn-1"].Paid)
		require.Len(t, f.producer.events, 1)
	})

	t.Run("事件发送失败仍应答成功", func(t *testing.T) {
		t.Parallel()
		f := newFixture()
		f.reconciler.orders["sn-1"] = &domain.Order{
			SN: "sn-1", Uid: 7, PlanType: plan.TypeMonthly, Amount: 990,
		}
		f.producer.err = errors.New("broker 不可用")

		err := f.svc.HandlePaymentNotification(context.Background(), paymentNotification())
		require.NoError(t, err)
		assert.True(t, f.reconciler.orders["sn-1"].Paid)
	})

	t.Run("支付时间非法时按当前时间兜底", func(t *testing.T) {
		t.Parallel()
		f := newFixture()
		f.reconciler.orders["sn-1"] = &domain.Order{
			SN: "sn-1", Uid: 7, PlanType: plan.TypeMonthly, Amount: 990,
		}
		n := paymentNotification()
		n.PayTime = "not-a-time"

		err := f.svc.HandlePaymentNotification(context.Background(), n)
		require.NoError(t, err)
		assert.Equal(t, f.now.UnixMilli(), f.reconciler.pays["sn-1"])
	})
}

func refundNotification() domain.RefundNotification {
	return domain.RefundNotification{
		OrderSN:     "sn-1",
		RefundNo:    "refund-1",
		RefundID:    "50000001",
		RefundFee:   990,
		SuccessTime: "20240602090000",
	}
}

func TestService_HandleRefundNotification(t *testing.T) {
	t.Parallel()

	t.Run("退款成功标记订单并回收过期会员", func(t *testing.T) {
		t.Parallel()
		f := newFixture()
		f.reconciler.orders["sn-1"] = &domain.Order{
			SN: "sn-1", Uid: 7, PlanType: plan.TypeMonthly, Amount: 990, Paid: true,
		}

		err := f.svc.HandleRefundNotification(context.Background(), refundNotification())
		require.NoError(t, err)
		assert.True(t, f.reconciler.orders["sn-1"].Refunded)
		// 北京时间 2024-06-02 09:00:00
		assert.Equal(t, refundRecord{
			refundNo:   "refund-1",
			refundID:   "50000001",
			refundFee:  990,
			refundTime: time.Date(2024, 6, 2, 9, 0, 0, 0, beijing).UnixMilli(),
		}, f.reconciler.refunds["sn-1"])
		assert.Equal(t, []int64{7}, f.memberSvc.revokes)
		require.Len(t, f.producer.events, 1)
		assert.Equal(t, event.TypeRefundSucceeded, f.producer.events[0].Type)
	})

	t.Run("退款时间非法时按当前时间兜底", func(t *testing.T) {
		t.Parallel()
		f := newFixture()
		f.reconciler.orders["sn-1"] = &domain.Order{
			SN: "sn-1", Uid: 7, PlanType: plan.TypeMonthly, Amount: 990, Paid: true,
		}
		n := refundNotification()
		n.SuccessTime = "not-a-time"

		err := f.svc.HandleRefundNotification(context.Background(), n)
		require.NoError(t, err)
		assert.Equal(t, f.now.UnixMilli(), f.reconciler.refunds["sn-1"].refundTime)
	})

	t.Run("重复退款回调幂等", func(t *testing.T) {
		t.Parallel()
		f := newFixture()
		f.reconciler.orders["sn-1"] = &domain.Order{
			SN: "sn-1", Uid: 7, PlanType: plan.TypeMonthly, Amount: 990,
			Paid: true, Refunded: true,
		}

		err := f.svc.HandleRefundNotification(context.Background(), refundNotification())
		require.NoError(t, err)
		assert.Empty(t, f.memberSvc.revokes)
		assert.Empty(t, f.producer.events)
	})

	t.Run("未支付订单的退款回调不做任何处理", func(t *testing.T) {
		t.Parallel()
		f := newFixture()
		f.reconciler.orders["sn-1"] = &domain.Order{
			SN: "sn-1", Uid: 7, PlanType: plan.TypeMonthly, Amount: 990,
		}

		err := f.svc.HandleRefundNotification(context.Background(), refundNotification())
		require.NoError(t, err)
		assert.False(t, f.reconciler.orders["sn-1"].Refunded)
		assert.Empty(t, f.memberSvc.revokes)
	})

	t.Run("订单不存在应答成功", func(t *testing.T) {
		t.Parallel()
		f := newFixture()

		err := f.svc.HandleRefundNotification(context.Background(), refundNotification())
		require.NoError(t, err)
	})

	t.Run("回收会员失败仍应答成功", func(t *testing.T) {
		t.Parallel()
		f := newFixture()
		f.reconciler.orders["sn-1"] = &domain.Order{
			SN: "sn-1", Uid: 7, PlanType: plan.TypeMonthly, Amount: 990, Paid: true,
		}
		f.memberSvc.revokeErr = errors.New("会员服务不可用")

		err := f.svc.HandleRefundNotification(context.Background(), refundNotification())
		require.NoError(t, err)
		assert.True(t, f.reconciler.orders["sn-1"].Refunded)
	})
}
