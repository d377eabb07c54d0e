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

package payment

import (
	"github.com/foodsnap/foodsnap-server/internal/payment/internal/domain"
	"github.com/foodsnap/foodsnap-server/internal/payment/internal/service"
	"github.com/foodsnap/foodsnap-server/internal/payment/internal/web"
)

type (
	Handler   = web.Handler
	Service   = service.Service
	PrepayReq = domain.PrepayReq
	PayParams = domain.PayParams
	// Order 对账视角的订单快照
	Order = domain.Order
	// OrderReconciler 由 order 模块适配实现, 见 ioc
	OrderReconciler = service.OrderReconciler
)

var (
	ErrOrderNotFound  = service.ErrOrderNotFound
	ErrAmountMismatch = service.ErrAmountMismatch
)

type Module struct {
	Svc Service
	Hdl *Handler
}
