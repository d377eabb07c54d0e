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

package ioc

import (
	"context"
	"errors"

	"github.com/foodsnap/foodsnap-server/internal/order"
	"github.com/foodsnap/foodsnap-server/internal/payment"
)

func newOrderReconciler(svc order.Service) payment.OrderReconciler {
	return &orderReconciler{svc: svc}
}

// orderReconciler 把 order 模块适配成 payment 对账需要的窄接口,
// 避免 payment 直接依赖 order 形成环
type orderReconciler struct {
	svc order.Service
}

func (r *orderReconciler) FindBySN(ctx context.Context, sn string) (payment.Order, error) {
	o, err := r.svc.FindOrderBySN(ctx, sn)
	if err != nil {
		if errors.Is(err, order.ErrOrderNotFound) {
			return payment.Order{}, payment.ErrOrderNotFound
		}
		return payment.Order{}, err
	}
	return payment.Order{
		SN:       o.SN,
		Uid:      o.Uid,
		PlanType: o.PlanType,
		Amount:   o.Amount,
		Paid:     o.PayStatus == order.PayStatusPaid,
		Refunded: o.PayStatus == order.PayStatusRefunded,
	}, nil
}

func (r *orderReconciler) MarkPaymentSucceeded(ctx context.Context, sn string, transactionID string, payTime int64) (bool, error) {
	return r.svc.MarkPaymentSucceeded(ctx, sn, transactionID, payTime)
}

func (r *orderReconciler) MarkRefundSucceeded(ctx context.Context, sn string, refundNo, refundID string, refundFee, refundTime int64) (bool, error) {
	return r.svc.MarkRefundSucceeded(ctx, sn, refundNo, refundID, refundFee, refundTime)
}
