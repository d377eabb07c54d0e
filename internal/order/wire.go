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

package order

import (
	"github.com/ecodeclub/ecache"
	"github.com/ego-component/egorm"
	"github.com/google/wire"

	"github.com/foodsnap/foodsnap-server/internal/order/internal/repository"
	"github.com/foodsnap/foodsnap-server/internal/order/internal/service"
	"github.com/foodsnap/foodsnap-server/internal/order/internal/web"
	"github.com/foodsnap/foodsnap-server/internal/payment"
	"github.com/foodsnap/foodsnap-server/internal/pkg/ordersn"
	"github.com/foodsnap/foodsnap-server/internal/plan"
)

func InitService(db *egorm.Component) Service {
	wire.Build(
		InitTablesOnce,
		repository.NewRepository,
		ordersn.NewGenerator,
		plan.NewService,
		service.NewService,
	)
	return nil
}

func InitHandler(svc Service, paymentSvc payment.Service, cache ecache.Cache) *Handler {
	wire.Build(
		plan.NewService,
		web.NewHandler,
	)
	return new(Handler)
}
