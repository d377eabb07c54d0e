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

package ioc

import (
	"github.com/google/wire"

	"github.com/foodsnap/foodsnap-server/internal/member"
	"github.com/foodsnap/foodsnap-server/internal/order"
	"github.com/foodsnap/foodsnap-server/internal/payment"
	"github.com/foodsnap/foodsnap-server/internal/user"
)

var BaseSet = wire.NewSet(InitDB, InitRedis, InitCache, InitMQ)

func InitApp() (*App, error) {
	wire.Build(wire.Struct(new(App), "*"),
		BaseSet,
		user.InitService,
		member.InitService,
		order.InitService,
		newOrderReconciler,
		payment.InitModule,
		wire.FieldsOf(new(*payment.Module), "Svc", "Hdl"),
		order.InitHandler,
		InitWechatMiniService,
		newMembershipFinder,
		user.InitHandler,
		InitSession,
		initGinxServer,
		InitSMSClient,
		initMQConsumers,
		initCronJobs)
	return new(App), nil
}
