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
	"fmt"
	"strings"
	"time"

	"github.com/gotomicro/ego/core/elog"
	"golang.org/x/sync/errgroup"

	"github.com/foodsnap/foodsnap-server/internal/order/internal/domain"
	"github.com/foodsnap/foodsnap-server/internal/order/internal/repository"
	"github.com/foodsnap/foodsnap-server/internal/pkg/ordersn"
	"github.com/foodsnap/foodsnap-server/internal/plan"
)

var (
	ErrOrderNotFound = repository.ErrOrderNotFound
	ErrInvalidStatus = repository.ErrInvalidStatus
	// ErrAmountMismatch 下单金额与套餐目录价格不一致
	ErrAmountMismatch = errors.New("订单金额与套餐价格不一致")
	// ErrEmptyDescription 下单时没有传订单描述
	ErrEmptyDescription = errors.New("订单描述为空")
	// ErrPaymentNotMade 订单尚未支付成功, 或交易单号对不上
	ErrPaymentNotMade = errors.New("订单未支付")
)

// duplicateWindow 同一用户同一套餐在该窗口内重复下单时直接复用已有的待支付订单
const duplicateWindow = 5 * time.Minute

// payDeadline 待支付订单的支付截止时长
const payDeadline = 30 * time.Minute

//go:generate mockgen -source=./service.go -package=ordermocks -destination=../../mocks/order.mock.go -typed Service
type Service interface {
	// CreateOrder 创建订单。五分钟内存在同套餐的待支付订单时直接返回该订单
	CreateOrder(ctx context.Context, uid int64, planType string, amount int64, description string) (domain.Order, error)
	FindOrder(ctx context.Context, uid, id int64) (domain.Order, error)
	FindOrderBySN(ctx context.Context, sn string) (domain.Order, error)
	ListOrders(ctx context.Context, uid int64, offset, limit int, payStatus domain.PayStatus) ([]domain.Order, int64, error)
	CancelOrder(ctx context.Context, uid, id int64) error
	// VerifyPayment 供小程序轮询: 订单已支付且交易单号一致时返回订单快照
	VerifyPayment(ctx context.Context, uid, id int64, transactionID string) (domain.Order, error)
	// DeleteOrder 从用户订单列表中删除终态订单
	DeleteOrder(ctx context.Context, uid, id int64) error
	// MarkPaymentSucceeded 对账专用: 条件更新待支付订单为已支付,
	// 返回是否真的发生了状态转换
	MarkPaymentSucceeded(ctx context.Context, sn string, transactionID string, payTime int64) (bool, error)
	// MarkRefundSucceeded 对账专用: 条件更新已支付订单为已退款,
	// 退款单号/金额/成功时间来自微信退款回调
	MarkRefundSucceeded(ctx context.Context, sn string, refundNo, refundID string, refundFee, refundTime int64) (bool, error)
	// FindExpiredOrders 定时任务专用: 查询支付截止时间早于 before 的待支付订单
	FindExpiredOrders(ctx context.Context, offset, limit int, before int64) ([]domain.Order, error)
	// CloseExpiredOrders 定时任务专用: 批量取消过期的待支付订单
	CloseExpiredOrders(ctx context.Context, ids []int64) error
}

func NewService(repo repository.OrderRepository, planSvc plan.Service, sn *ordersn.Generator) Service {
	return &service{
		repo:    repo,
		planSvc: planSvc,
		sn:      sn,
		nowFunc: time.Now,
		logger:  elog.DefaultLogger,
	}
}

// NewServiceWith 测试用, 允许注入时间
func NewServiceWith(repo repository.OrderRepository, planSvc plan.Service, sn *ordersn.Generator, nowFunc func() time.Time) Service {
	return &service{
		repo:    repo,
		planSvc: planSvc,
		sn:      sn,
		nowFunc: nowFunc,
		logger:  elog.DefaultLogger,
	}
}

type service struct {
	repo    repository.OrderRepository
	planSvc plan.Service
	sn      *ordersn.Generator
	nowFunc func() time.Time
	logger  *elog.Component
}

func (s *service) CreateOrder(ctx context.Context, uid int64, planType string, amount int64, description string) (domain.Order, error) {
	p, err := s.planSvc.FindByType(planType)
	if err != nil {
		return domain.Order{}, err
	}
	if amount != p.Price {
		return domain.Order{}, fmt.Errorf("%w: 期望 %d, 实际 %d", ErrAmountMismatch, p.Price, amount)
	}
	if strings.TrimSpace(description) == "" {
		return domain.Order{}, ErrEmptyDescription
	}

	now := s.nowFunc()
	// 防重复提交。查询失败按"没有重复"降级处理, 最坏结果是多出一笔待支付订单
	since := now.Add(-duplicateWindow).UnixMilli()
	pending, err := s.repo.FindLatestPendingOrder(ctx, uid, planType, since)
	if err == nil {
		return pending, nil
	}
	if !errors.Is(err, ErrOrderNotFound) {
		s.logger.Warn("查询近期待支付订单失败",
			elog.FieldErr(err),
			elog.Int64("uid", uid))
	}

	sn, err := s.sn.Generate(uid)
	if err != nil {
		return domain.Order{}, fmt.Errorf("生成订单号失败: %w", err)
	}
	return s.repo.CreateOrder(ctx, domain.Order{
		SN:          sn,
		Uid:         uid,
		PlanType:    p.Type,
		PlanName:    p.Name,
		Description: description,
		Amount:      amount,
		PayStatus:   domain.PayStatusPending,
		Status:      domain.StatusCreated,
		ExpireAt:    now.Add(payDeadline).UnixMilli(),
	})
}

func (s *service) FindOrder(ctx context.Context, uid, id int64) (domain.Order, error) {
	return s.repo.FindOrderByUIDAndID(ctx, uid, id)
}

func (s *service) FindOrderBySN(ctx context.Context, sn string) (domain.Order, error) {
	return s.repo.FindOrderBySN(ctx, sn)
}

func (s *service) ListOrders(ctx context.Context, uid int64, offset, limit int, payStatus domain.PayStatus) ([]domain.Order, int64, error) {
	var (
		eg    errgroup.Group
		os    []domain.Order
		total int64
	)
	eg.Go(func() error {
		var err error
		os, err = s.repo.ListOrdersByUID(ctx, uid, offset, limit, payStatus)
		return err
	})
	eg.Go(func() error {
		var err error
		total, err = s.repo.TotalOrders(ctx, uid, payStatus)
		return err
	})
	return os, total, eg.Wait()
}

func (s *service) CancelOrder(ctx context.Context, uid, id int64) error {
	cancelled, err := s.repo.CancelOrder(ctx, uid, id)
	if err != nil {
		return err
	}
	if cancelled {
		return nil
	}
	// 没有命中任何行: 要么订单不存在, 要么不在待支付状态
	_, err = s.repo.FindOrderByUIDAndID(ctx, uid, id)
	if err != nil {
		return err
	}
	return ErrInvalidStatus
}

func (s *service) VerifyPayment(ctx context.Context, uid, id int64, transactionID string) (domain.Order, error) {
	o, err := s.repo.FindOrderByUIDAndID(ctx, uid, id)
	if err != nil {
		return domain.Order{}, err
	}
	if o.PayStatus != domain.PayStatusPaid {
		return domain.Order{}, ErrPaymentNotMade
	}
	if transactionID != "" && o.TransactionID != transactionID {
		return domain.Order{}, fmt.Errorf("%w: 交易单号不一致", ErrPaymentNotMade)
	}
	return o, nil
}

func (s *service) DeleteOrder(ctx context.Context, uid, id int64) error {
	deleted, err := s.repo.DeleteOrder(ctx, uid, id)
	if err != nil {
		return err
	}
	if deleted {
		return nil
	}
	_, err = s.repo.FindOrderByUIDAndID(ctx, uid, id)
	if err != nil {
		return err
	}
	return ErrInvalidStatus
}

func (s *service) MarkPaymentSucceeded(ctx context.Context, sn string, transactionID string, payTime int64) (bool, error) {
	return s.repo.MarkPaid(ctx, sn, transactionID, payTime)
}

func (s *service) MarkRefundSucceeded(ctx context.Context, sn string, refundNo, refundID string, refundFee, refundTime int64) (bool, error) {
	return s.repo.MarkRefunded(ctx, sn, refundNo, refundID, refundFee, refundTime)
}

func (s *service) FindExpiredOrders(ctx context.Context, offset, limit int, before int64) ([]domain.Order, error) {
	return s.repo.FindExpiredPendingOrders(ctx, offset, limit, before)
}

func (s *service) CloseExpiredOrders(ctx context.Context, ids []int64) error {
	closed, err := s.repo.CloseExpiredOrders(ctx, ids)
	if err != nil {
		return err
	}
	if closed < int64(len(ids)) {
		// 差值是在查询和取消之间被支付回调抢先标记的订单
		s.logger.Info("部分过期订单已被支付, 跳过取消",
			elog.Int64("expected", int64(len(ids))),
			elog.Int64("closed", closed))
	}
	return nil
}
