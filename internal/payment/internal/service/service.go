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
	"time"

	"github.com/gotomicro/ego/core/elog"

	"github.com/foodsnap/foodsnap-server/internal/member"
	"github.com/foodsnap/foodsnap-server/internal/payment/internal/domain"
	"github.com/foodsnap/foodsnap-server/internal/payment/internal/event"
	"github.com/foodsnap/foodsnap-server/internal/pkg/metrics"
	"github.com/foodsnap/foodsnap-server/internal/plan"
)

var (
	// ErrOrderNotFound 回调里的订单号在本地找不到对应订单
	ErrOrderNotFound = errors.New("订单不存在")
	// ErrAmountMismatch 回调金额与订单金额不一致, 疑似伪造或配置错误
	ErrAmountMismatch = errors.New("回调金额与订单金额不一致")
)

// 微信回调里的时间都是北京时间
var beijing = time.FixedZone("CST", 8*60*60)

const payTimeLayout = "20060102150405"

// OrderReconciler 对账需要的订单操作, 由 order 模块适配实现。
// 标记操作都是条件更新, 返回 false 表示订单已不在可转换状态
type OrderReconciler interface {
	FindBySN(ctx context.Context, sn string) (domain.Order, error)
	MarkPaymentSucceeded(ctx context.Context, sn string, transactionID string, payTime int64) (bool, error)
	MarkRefundSucceeded(ctx context.Context, sn string, refundNo, refundID string, refundFee, refundTime int64) (bool, error)
}

// PrepayProvider 预支付通道
type PrepayProvider interface {
	Prepay(ctx context.Context, req domain.PrepayReq) (domain.PayParams, error)
}

//go:generate mockgen -source=./service.go -package=paymentmocks -destination=../../mocks/payment.mock.go -typed Service
type Service interface {
	Prepay(ctx context.Context, req domain.PrepayReq) (domain.PayParams, error)
	// HandlePaymentNotification 处理验签通过的支付成功回调。
	// 返回 nil 表示可以向微信应答 SUCCESS, 返回错误则应答 FAIL 等待重试
	HandlePaymentNotification(ctx context.Context, n domain.PaymentNotification) error
	// HandleRefundNotification 处理验签通过的退款成功回调
	HandleRefundNotification(ctx context.Context, n domain.RefundNotification) error
}

func NewService(prepay PrepayProvider,
	reconciler OrderReconciler,
	memberSvc member.Service,
	planSvc plan.Service,
	producer event.PaymentEventProducer) Service {
	return &service{
		prepay:     prepay,
		reconciler: reconciler,
		memberSvc:  memberSvc,
		planSvc:    planSvc,
		producer:   producer,
		nowFunc:    time.Now,
		logger:     elog.DefaultLogger,
	}
}

// NewServiceWith 测试用, 允许注入时间
func NewServiceWith(prepay PrepayProvider,
	reconciler OrderReconciler,
	memberSvc member.Service,
	planSvc plan.Service,
	producer event.PaymentEventProducer,
	nowFunc func() time.Time) Service {
	svc := NewService(prepay, reconciler, memberSvc, planSvc, producer).(*service)
	svc.nowFunc = nowFunc
	return svc
}

type service struct {
	prepay     PrepayProvider
	reconciler OrderReconciler
	memberSvc  member.Service
	planSvc    plan.Service
	producer   event.PaymentEventProducer
	nowFunc    func() time.Time
	logger     *elog.Component
}

func (s *service) Prepay(ctx context.Context, req domain.PrepayReq) (domain.PayParams, error) {
	return s.prepay.Prepay(ctx, req)
}

func (s *service) HandlePaymentNotification(ctx context.Context, n domain.PaymentNotification) error {
	o, err := s.reconciler.FindBySN(ctx, n.OrderSN)
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			// 本地没有这笔订单, 重试也无济于事, 记录后应答成功
			metrics.PaymentCallbackTotal.WithLabelValues("order_not_found").Inc()
			s.logger.Warn("支付回调订单不存在",
				elog.String("orderSN", n.OrderSN),
				elog.String("transactionID", n.TransactionID))
			return nil
		}
		metrics.PaymentCallbackTotal.WithLabelValues("store_error").Inc()
		return fmt.Errorf("查询订单失败: %w", err)
	}

	if o.Paid || o.Refunded {
		// 重复回调, 幂等处理
		metrics.PaymentCallbackTotal.WithLabelValues("duplicate").Inc()
		return nil
	}

	if o.Amount != n.TotalFee {
		// 金额对不上绝不能把订单标记为已支付
		metrics.PaymentCallbackTotal.WithLabelValues("amount_mismatch").Inc()
		s.logger.Error("支付回调金额与订单金额不一致",
			elog.String("orderSN", n.OrderSN),
			elog.Int64("orderAmount", o.Amount),
			elog.Int64("totalFee", n.TotalFee))
		return fmt.Errorf("%w: 订单 %d, 回调 %d", ErrAmountMismatch, o.Amount, n.TotalFee)
	}

	updated, err := s.reconciler.MarkPaymentSucceeded(ctx, n.OrderSN, n.TransactionID, s.parseNotifyTime(n.PayTime))
	if err != nil {
		metrics.PaymentCallbackTotal.WithLabelValues("store_error").Inc()
		return fmt.Errorf("更新订单支付状态失败: %w", err)
	}
	if !updated {
		// 条件更新没有命中, 并发的重复回调已经处理过了
		metrics.PaymentCallbackTotal.WithLabelValues("duplicate").Inc()
		return nil
	}

	// 开通会员失败不回滚支付状态: 回调重放是幂等 no-op, 重试救不回来,
	// 只能靠告警人工介入
	if err := s.memberSvc.Grant(ctx, o.Uid, o.PlanType, s.planDays(o.PlanType)); err != nil {
		s.logger.Error("支付成功但开通会员失败",
			elog.FieldErr(err),
			elog.Int64("uid", o.Uid),
			elog.String("orderSN", n.OrderSN))
	}

	s.produce(ctx, event.PaymentEvent{
		OrderSN:  o.SN,
		Uid:      o.Uid,
		Type:     event.TypePaymentSucceeded,
		Amount:   n.TotalFee,
		PlanName: s.planName(o.PlanType),
	})
	metrics.PaymentCallbackTotal.WithLabelValues("success").Inc()
	return nil
}

func (s *service) HandleRefundNotification(ctx context.Context, n domain.RefundNotification) error {
	o, err := s.reconciler.FindBySN(ctx, n.OrderSN)
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			metrics.PaymentCallbackTotal.WithLabelValues("order_not_found").Inc()
			s.logger.Warn("退款回调订单不存在",
				elog.String("orderSN", n.OrderSN),
				elog.String("refundNo", n.RefundNo))
			return nil
		}
		metrics.PaymentCallbackTotal.WithLabelValues("store_error").Inc()
		return fmt.Errorf("查询订单失败: %w", err)
	}

	if o.Refunded {
		metrics.PaymentCallbackTotal.WithLabelValues("duplicate").Inc()
		return nil
	}

	updated, err := s.reconciler.MarkRefundSucceeded(ctx, n.OrderSN,
		n.RefundNo, n.RefundID, n.RefundFee, s.parseNotifyTime(n.SuccessTime))
	if err != nil {
		metrics.PaymentCallbackTotal.WithLabelValues("store_error").Inc()
		return fmt.Errorf("更新订单退款状态失败: %w", err)
	}
	if !updated {
		// 订单不在已支付状态, 没有可退的支付
		metrics.PaymentCallbackTotal.WithLabelValues("duplicate").Inc()
		s.logger.Warn("退款回调命中了非已支付状态的订单",
			elog.String("orderSN", n.OrderSN))
		return nil
	}

	// 只回收已经到期的会员, 未到期的付费权益保留到期满
	if err := s.memberSvc.RevokeIfExpired(ctx, o.Uid); err != nil {
		s.logger.Error("退款成功但回收会员失败",
			elog.FieldErr(err),
			elog.Int64("uid", o.Uid),
			elog.String("orderSN", n.OrderSN))
	}

	s.produce(ctx, event.PaymentEvent{
		OrderSN:  o.SN,
		Uid:      o.Uid,
		Type:     event.TypeRefundSucceeded,
		Amount:   n.RefundFee,
		PlanName: s.planName(o.PlanType),
	})
	metrics.PaymentCallbackTotal.WithLabelValues("success").Inc()
	return nil
}

// parseNotifyTime 解析回调里的北京时间 (支付的 time_end 和退款的
// success_time 都是同一种格式), 解析失败退化为当前时间
func (s *service) parseNotifyTime(v string) int64 {
	t, err := time.ParseInLocation(payTimeLayout, v, beijing)
	if err != nil {
		s.logger.Warn("解析回调时间失败",
			elog.String("value", v))
		return s.nowFunc().UnixMilli()
	}
	return t.UnixMilli()
}

// planDays 套餐天数, 未知套餐按月卡天数兜底
func (s *service) planDays(planType string) uint64 {
	p, err := s.planSvc.FindByType(planType)
	if err != nil {
		return 30
	}
	return p.Days
}

func (s *service) planName(planType string) string {
	p, err := s.planSvc.FindByType(planType)
	if err != nil {
		return planType
	}
	return p.Name
}

// produce 通知事件尽力而为, 发不出去不影响对账结果
func (s *service) produce(ctx context.Context, evt event.PaymentEvent) {
	if err := s.producer.Produce(ctx, evt); err != nil {
		s.logger.Error("发送支付结果事件失败",
			elog.FieldErr(err),
			elog.String("orderSN", evt.OrderSN))
	}
}
