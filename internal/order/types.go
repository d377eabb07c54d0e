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

package order

import (
	"time"

	"github.com/foodsnap/foodsnap-server/internal/order/internal/domain"
	"github.com/foodsnap/foodsnap-server/internal/order/internal/job"
	"github.com/foodsnap/foodsnap-server/internal/order/internal/service"
	"github.com/foodsnap/foodsnap-server/internal/order/internal/web"
)

type Order = domain.Order

type PayStatus = domain.PayStatus

type OrderStatus = domain.OrderStatus

const (
	PayStatusPending  = domain.PayStatusPending
	PayStatusPaid     = domain.PayStatusPaid
	PayStatusRefunded = domain.PayStatusRefunded
	PayStatusCanceled = domain.PayStatusCanceled
)

type Service = service.Service

type Handler = web.Handler

type CloseExpiredOrdersJob = job.CloseExpiredOrdersJob

func NewCloseExpiredOrdersJob(svc Service, limit int, timeout time.Duration) *CloseExpiredOrdersJob {
	return job.NewCloseExpiredOrdersJob(svc, limit, timeout)
}

var (
	ErrOrderNotFound    = service.ErrOrderNotFound
	ErrInvalidStatus    = service.ErrInvalidStatus
	ErrAmountMismatch   = service.ErrAmountMismatch
	ErrEmptyDescription = service.ErrEmptyDescription
	ErrPaymentNotMade   = service.ErrPaymentNotMade
)
