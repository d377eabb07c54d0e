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

//go:build wireinject

package payment

import (
	"github.com/ecodeclub/mq-api"
	"github.com/google/wire"
	"github.com/wechatpay-apiv3/wechatpay-go/services/payments/jsapi"

	"github.com/foodsnap/foodsnap-server/internal/member"
	"github.com/foodsnap/foodsnap-server/internal/payment/internal/service"
	"github.com/foodsnap/foodsnap-server/internal/payment/internal/service/wechat"
	"github.com/foodsnap/foodsnap-server/internal/payment/internal/web"
	"github.com/foodsnap/foodsnap-server/internal/payment/ioc"
	"github.com/foodsnap/foodsnap-server/internal/plan"
	"github.com/foodsnap/foodsnap-server/internal/user"
)

func InitModule(q mq.MQ,
	userSvc user.UserService,
	memberSvc member.Service,
	reconciler OrderReconciler) (*Module, error) {
	wire.Build(
		ioc.InitWechatConfig,
		ioc.InitWechatClient,
		ioc.InitJSApiService,
		wire.Bind(new(wechat.JSAPIService), new(*jsapi.JsapiApiService)),
		ioc.InitPrepayService,
		wire.Bind(new(service.PrepayProvider), new(*wechat.PrepayService)),
		ioc.InitSigner,
		ioc.InitPaymentEventProducer,
		plan.NewService,
		service.NewService,
		web.NewHandler,
		wire.Struct(new(Module), "*"),
	)
	return new(Module), nil
}
