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

package wechat

import (
	"context"
	"fmt"
	"time"

	"github.com/gotomicro/ego/core/elog"
	"github.com/wechatpay-apiv3/wechatpay-go/core"
	"github.com/wechatpay-apiv3/wechatpay-go/services/payments/jsapi"

	"github.com/foodsnap/foodsnap-server/internal/payment/internal/domain"
	"github.com/foodsnap/foodsnap-server/internal/user"
)

//go:generate mockgen -source=./jsapi.go -package=wechatmocks -destination=./mocks/jsapi.mock.go -typed JSAPIService
type JSAPIService interface {
	PrepayWithRequestPayment(ctx context.Context, req jsapi.PrepayRequest) (resp *jsapi.PrepayWithRequestPaymentResponse, result *core.APIResult, err error)
}

// PrepayService 微信小程序 JSAPI 预支付
type PrepayService struct {
	svc       JSAPIService
	userSvc   user.UserService
	l         *elog.Component
	appID     string
	mchID     string
	notifyURL string
}

func NewPrepayService(svc JSAPIService, userSvc user.UserService, appid, mchid, notifyURL string) *PrepayService {
	return &PrepayService{
		svc:       svc,
		userSvc:   userSvc,
		l:         elog.DefaultLogger,
		appID:     appid,
		mchID:     mchid,
		notifyURL: notifyURL,
	}
}

func (p *PrepayService) Prepay(ctx context.Context, req domain.PrepayReq) (domain.PayParams, error) {
	profile, err := p.userSvc.Profile(ctx, req.Uid)
	if err != nil {
		return domain.PayParams{}, fmt.Errorf("查找用户的小程序 open id 失败: %w", err)
	}
	if profile.WechatMiniOpenID == "" {
		return domain.PayParams{}, fmt.Errorf("用户 %d 缺少小程序 open id", req.Uid)
	}

	resp, _, err := p.svc.PrepayWithRequestPayment(ctx,
		jsapi.PrepayRequest{
			Appid:       core.String(p.appID),
			Mchid:       core.String(p.mchID),
			Description: core.String(req.Description),
			OutTradeNo:  core.String(req.OrderSN),
			TimeExpire:  core.Time(time.Now().Add(time.Minute * 30)),
			NotifyUrl:   core.String(p.notifyURL),
			Amount: &jsapi.Amount{
				Currency: core.String("CNY"),
				Total:    core.Int64(req.Amount),
			},
			Payer: &jsapi.Payer{Openid: core.String(profile.WechatMiniOpenID)},
		},
	)
	if err != nil {
		return domain.PayParams{}, fmt.Errorf("微信预支付失败: %w", err)
	}

	return domain.PayParams{
		PrepayID:  *resp.PrepayId,
		AppID:     *resp.Appid,
		TimeStamp: *resp.TimeStamp,
		NonceStr:  *resp.NonceStr,
		Package:   *resp.Package,
		SignType:  *resp.SignType,
		PaySign:   *resp.PaySign,
	}, nil
}
