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

package repository

import (
	"context"

	"github.com/ecodeclub/ekit/slice"

	"github.com/foodsnap/foodsnap-server/internal/order/internal/domain"
	"github.com/foodsnap/foodsnap-server/internal/order/internal/repository/dao"
)

var (
	ErrOrderNotFound    = dao.ErrOrderNotFound
	ErrDuplicateOrderSN = dao.ErrDuplicateOrderSN
	ErrInvalidStatus    = dao.ErrInvalidStatus
)

type OrderRepository interface {
	CreateOrder(ctx context.Context, order domain.Order) (domain.Order, error)
	FindOrderByUIDAndID(ctx context.Context, uid, id int64) (domain.Order, error)
	FindOrderByUIDAndSN(ctx context.Context, uid int64, sn string) (domain.Order, error)
	FindOrderBySN(ctx context.Context, sn string) (domain.Order, error)
	FindLatestPendingOrder(ctx context.Context, uid int64, planType string, since int64) (domain.Order, error)
	ListOrdersByUID(ctx context.Context, uid int64, offset, limit int, payStatus domain.PayStatus) ([]domain.Order, error)
	TotalOrders(ctx context.Context, uid int64, payStatus domain.PayStatus) (int64, error)
	// MarkPaid 条件更新: 只有待支付订单会被标记为已支付,
	// 没有命中任何行时返回 (false, nil), 由调用方结合当前状态判断是否重复回调
	MarkPaid(ctx context.Context, sn string, transactionID string, payTime int64) (bool, error)
	MarkRefunded(ctx context.Context, sn string, refundNo, refundID string, refundFee, refundTime int64) (bool, error)
	CancelOrder(ctx context.Context, uid, id int64) (bool, error)
	DeleteOrder(ctx context.Context, uid, id int64) (bool, error)
	FindExpiredPendingOrders(ctx context.Context, offset, limit int, before int64) ([]domain.Order, error)
	// CloseExpiredOrders 批量取消过期的待支付订单, 返回实际取消的数量
	CloseExpiredOrders(ctx context.Context, ids []int64) (int64, error)
}

func NewRepository(d dao.OrderDAO) OrderRepository {
	return &orderRepository{dao: d}
}

type orderRepository struct {
	dao dao.OrderDAO
}

func (r *orderRepository) CreateOrder(ctx context.Context, order domain.Order) (domain.Order, error) {
	id, err := r.dao.Create(ctx, r.toEntity(order))
	if err != nil {
		return domain.Order{}, err
	}
	order.ID = id
	return order, nil
}

func (r *orderRepository) FindOrderByUIDAndID(ctx context.Context, uid, id int64) (domain.Order, error) {
	o, err := r.dao.FindByUIDAndID(ctx, uid, id)
	if err != nil {
		return domain.Order{}, err
	}
	return r.toDomain(o), nil
}

func (r *orderRepository) FindOrderByUIDAndSN(ctx context.Context, uid int64, sn string) (domain.Order, error) {
	o, err := r.dao.FindByUIDAndSN(ctx, uid, sn)
	if err != nil {
		return domain.Order{}, err
	}
	return r.toDomain(o), nil
}

func (r *orderRepository) FindOrderBySN(ctx context.Context, sn string) (domain.Order, error) {
	o, err := r.dao.FindBySN(ctx, sn)
	if err != nil {
		return domain.Order{}, err
	}
	return r.toDomain(o), nil
}

func (r *orderRepository) FindLatestPendingOrder(ctx context.Context, uid int64, planType string, since int64) (domain.Order, error) {
	o, err := r.dao.FindLatestPendingByUID(ctx, uid, planType, since)
	if err != nil {
		return domain.Order{}, err
	}
	return r.toDomain(o), nil
}

func (r *orderRepository) ListOrdersByUID(ctx context.Context, uid int64, offset, limit int, payStatus domain.PayStatus) ([]domain.Order, error) {
	os, err := r.dao.List(ctx, uid, offset, limit, payStatus.ToUint8())
	if err != nil {
		return nil, err
	}
	return slice.Map(os, func(idx int, src dao.Order) domain.Order {
		return r.toDomain(src)
	}), nil
}

func (r *orderRepository) TotalOrders(ctx context.Context, uid int64, payStatus domain.PayStatus) (int64, error) {
	return r.dao.Count(ctx, uid, payStatus.ToUint8())
}

func (r *orderRepository) MarkPaid(ctx context.Context, sn string, transactionID string, payTime int64) (bool, error) {
	rows, err := r.dao.MarkPaid(ctx, sn, transactionID, payTime)
	return rows > 0, err
}

func (r *orderRepository) MarkRefunded(ctx context.Context, sn string, refundNo, refundID string, refundFee, refundTime int64) (bool, error) {
	rows, err := r.dao.MarkRefunded(ctx, sn, refundNo, refundID, refundFee, refundTime)
	return rows > 0, err
}

func (r *orderRepository) CancelOrder(ctx context.Context, uid, id int64) (bool, error) {
	rows, err := r.dao.Cancel(ctx, uid, id)
	return rows > 0, err
}

func (r *orderRepository) DeleteOrder(ctx context.Context, uid, id int64) (bool, error) {
	rows, err := r.dao.Delete(ctx, uid, id)
	return rows > 0, err
}

func (r *orderRepository) FindExpiredPendingOrders(ctx context.Context, offset, limit int, before int64) ([]domain.Order, error) {
	os, err := r.dao.FindExpiredPending(ctx, offset, limit, before)
	if err != nil {
		return nil, err
	}
	return slice.Map(os, func(idx int, src dao.Order) domain.Order {
		return r.toDomain(src)
	}), nil
}

func (r *orderRepository) CloseExpiredOrders(ctx context.Context, ids []int64) (int64, error) {
	return r.dao.CloseExpired(ctx, ids)
}

func (r *orderRepository) toEntity(o domain.Order) dao.Order {
	return dao.Order{
		Id:            o.ID,
		SN:            o.SN,
		Uid:           o.Uid,
		PlanType:      o.PlanType,
		PlanName:      o.PlanName,
		Description:   o.Description,
		Amount:        o.Amount,
		PayStatus:     o.PayStatus.ToUint8(),
		Status:        o.Status.ToUint8(),
		PayTime:       o.PayTime,
		TransactionID: o.TransactionID,
		RefundNo:      o.RefundNo,
		RefundID:      o.RefundID,
		RefundFee:     o.RefundFee,
		RefundTime:    o.RefundTime,
		ExpireAt:      o.ExpireAt,
	}
}

func (r *orderRepository) toDomain(o dao.Order) domain.Order {
	return domain.Order{
		ID:            o.Id,
		SN:            o.SN,
		Uid:           o.Uid,
		PlanType:      o.PlanType,
		PlanName:      o.PlanName,
		Description:   o.Description,
		Amount:        o.Amount,
		PayStatus:     domain.PayStatus(o.PayStatus),
		Status:        domain.OrderStatus(o.Status),
		PayTime:       o.PayTime,
		TransactionID: o.TransactionID,
		RefundNo:      o.RefundNo,
		RefundID:      o.RefundID,
		RefundFee:     o.RefundFee,
		RefundTime:    o.RefundTime,
		ExpireAt:      o.ExpireAt,
		Ctime:         o.Ctime,
		Utime:         o.Utime,
	}
}
