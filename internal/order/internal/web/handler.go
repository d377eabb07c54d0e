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

package web

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ecodeclub/ecache"
	"github.com/ecodeclub/ekit/slice"
	"github.com/ecodeclub/ginx"
	"github.com/ecodeclub/ginx/session"
	"github.com/gin-gonic/gin"

	"github.com/foodsnap/foodsnap-server/internal/order/internal/domain"
	"github.com/foodsnap/foodsnap-server/internal/order/internal/service"
	"github.com/foodsnap/foodsnap-server/internal/payment"
	"github.com/foodsnap/foodsnap-server/internal/plan"
)

var _ ginx.Handler = &Handler{}

type Handler struct {
	svc        service.Service
	paymentSvc payment.Service
	planSvc    plan.Service
	cache      ecache.Cache
}

func NewHandler(svc service.Service, paymentSvc payment.Service, planSvc plan.Service, cache ecache.Cache) *Handler {
	return &Handler{svc: svc, paymentSvc: paymentSvc, planSvc: planSvc, cache: cache}
}

func (h *Handler) PrivateRoutes(server *gin.Engine) {
	g := server.Group("/order")
	g.POST("/plans", ginx.W(h.ListPlans))
	g.POST("/create", ginx.BS[CreateOrderReq](h.CreateOrderAndPayment))
	g.POST("/detail", ginx.BS[RetrieveOrderDetailReq](h.RetrieveOrderDetail))
	g.POST("/list", ginx.BS[ListOrdersReq](h.ListOrders))
	g.POST("/cancel", ginx.BS[CancelOrderReq](h.CancelOrder))
	g.POST("/verify", ginx.BS[VerifyPaymentReq](h.VerifyPayment))
	g.POST("/delete", ginx.BS[DeleteOrderReq](h.DeleteOrder))
}

func (h *Handler) PublicRoutes(_ *gin.Engine) {}

// ListPlans 返回在售套餐目录, 小程序购买页用
func (h *Handler) ListPlans(ctx *ginx.Context) (ginx.Result, error) {
	return ginx.Result{
		Data: ListPlansResp{
			Plans: slice.Map(h.planSvc.List(), func(idx int, src plan.Plan) Plan {
				return Plan{
					Type:     src.Type,
					Name:     src.Name,
					Price:    src.Price,
					Features: src.Features,
				}
			}),
		},
	}, nil
}

// CreateOrderAndPayment 创建订单并发起微信预支付
func (h *Handler) CreateOrderAndPayment(ctx *ginx.Context, req CreateOrderReq, sess session.Session) (ginx.Result, error) {
	if err := h.checkRequestID(ctx.Request.Context(), req.RequestID); err != nil {
		return systemErrorResult, fmt.Errorf("请求ID错误: %w", err)
	}

	uid := sess.Claims().Uid
	order, err := h.svc.CreateOrder(ctx.Request.Context(), uid, req.PlanType, req.Amount, req.Description)
	if err != nil {
		switch {
		case errors.Is(err, plan.ErrUnknownPlanType):
			return invalidParamResult, err
		case errors.Is(err, service.ErrEmptyDescription):
			return invalidParamResult, err
		case errors.Is(err, service.ErrAmountMismatch):
			return amountMismatchResult, err
		default:
			return systemErrorResult, fmt.Errorf("创建订单失败: %w", err)
		}
	}

	payParams, err := h.paymentSvc.Prepay(ctx.Request.Context(), payment.PrepayReq{
		Uid:         uid,
		OrderSN:     order.SN,
		Amount:      order.Amount,
		Description: order.Description,
	})
	if err != nil {
		return systemErrorResult, fmt.Errorf("发起预支付失败: %w", err)
	}

	return ginx.Result{
		Data: CreateOrderResp{
			Order:   h.toOrderVO(order),
			PayData: h.toPayDataVO(payParams),
		},
	}, nil
}

func (h *Handler) checkRequestID(ctx context.Context, requestID string) error {
	if requestID == "" {
		return fmt.Errorf("请求ID为空")
	}
	key := h.createOrderRequestKey(requestID)
	val := h.cache.Get(ctx, key)
	if !val.KeyNotFound() {
		return fmt.Errorf("重复请求")
	}
	if err := h.cache.Set(ctx, key, requestID, 10*time.Minute); err != nil {
		return fmt.Errorf("缓存请求ID失败: %w", err)
	}
	return nil
}

func (h *Handler) createOrderRequestKey(requestID string) string {
	return fmt.Sprintf("order:create:%s", requestID)
}

// RetrieveOrderDetail 查看订单详情
func (h *Handler) RetrieveOrderDetail(ctx *ginx.Context, req RetrieveOrderDetailReq, sess session.Session) (ginx.Result, error) {
	order, err := h.svc.FindOrder(ctx.Request.Context(), sess.Claims().Uid, req.ID)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			return orderNotFoundResult, err
		}
		return systemErrorResult, fmt.Errorf("查找订单失败: %w", err)
	}
	return ginx.Result{
		Data: RetrieveOrderDetailResp{Order: h.toOrderVO(order)},
	}, nil
}

// ListOrders 分页查询用户订单
func (h *Handler) ListOrders(ctx *ginx.Context, req ListOrdersReq, sess session.Session) (ginx.Result, error) {
	orders, total, err := h.svc.ListOrders(ctx.Request.Context(), sess.Claims().Uid,
		req.Offset, req.Limit, domain.PayStatus(req.PayStatus))
	if err != nil {
		return systemErrorResult, err
	}
	return ginx.Result{
		Data: ListOrdersResp{
			Total: total,
			Orders: slice.Map(orders, func(idx int, src domain.Order) Order {
				return h.toOrderVO(src)
			}),
		},
	}, nil
}

// CancelOrder 取消订单
func (h *Handler) CancelOrder(ctx *ginx.Context, req CancelOrderReq, sess session.Session) (ginx.Result, error) {
	err := h.svc.CancelOrder(ctx.Request.Context(), sess.Claims().Uid, req.ID)
	switch {
	case err == nil:
		return ginx.Result{Msg: "OK"}, nil
	case errors.Is(err, service.ErrOrderNotFound):
		return orderNotFoundResult, err
	case errors.Is(err, service.ErrInvalidStatus):
		return orderInvalidStateResult, err
	default:
		return systemErrorResult, fmt.Errorf("取消订单失败: %w", err)
	}
}

// VerifyPayment 支付结果核验
func (h *Handler) VerifyPayment(ctx *ginx.Context, req VerifyPaymentReq, sess session.Session) (ginx.Result, error) {
	order, err := h.svc.VerifyPayment(ctx.Request.Context(), sess.Claims().Uid, req.ID, req.TransactionID)
	switch {
	case err == nil:
		return ginx.Result{
			Data: VerifyPaymentResp{Order: h.toOrderVO(order)},
		}, nil
	case errors.Is(err, service.ErrOrderNotFound):
		return orderNotFoundResult, err
	case errors.Is(err, service.ErrPaymentNotMade):
		return paymentNotMadeResult, err
	default:
		return systemErrorResult, fmt.Errorf("核验支付结果失败: %w", err)
	}
}

// DeleteOrder 从订单列表删除终态订单
func (h *Handler) DeleteOrder(ctx *ginx.Context, req DeleteOrderReq, sess session.Session) (ginx.Result, error) {
	err := h.svc.DeleteOrder(ctx.Request.Context(), sess.Claims().Uid, req.ID)
	switch {
	case err == nil:
		return ginx.Result{Msg: "OK"}, nil
	case errors.Is(err, service.ErrOrderNotFound):
		return orderNotFoundResult, err
	case errors.Is(err, service.ErrInvalidStatus):
		return orderInvalidStateResult, err
	default:
		return systemErrorResult, fmt.Errorf("删除订单失败: %w", err)
	}
}

func (h *Handler) toOrderVO(order domain.Order) Order {
	return Order{
		ID:            order.ID,
		SN:            order.SN,
		PlanType:      order.PlanType,
		PlanName:      order.PlanName,
		Description:   order.Description,
		Amount:        order.Amount,
		PayStatus:     order.PayStatus.ToUint8(),
		Status:        order.Status.ToUint8(),
		Payable:       order.Payable(),
		PayTime:       order.PayTime,
		TransactionID: order.TransactionID,
		ExpireAt:      order.ExpireAt,
		Ctime:         order.Ctime,
		Utime:         order.Utime,
	}
}

func (h *Handler) toPayDataVO(p payment.PayParams) PayData {
	return PayData{
		TimeStamp: p.TimeStamp,
		NonceStr:  p.NonceStr,
		Package:   p.Package,
		SignType:  p.SignType,
		PaySign:   p.PaySign,
	}
}
