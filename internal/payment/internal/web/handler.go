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
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/clbanning/mxj/v2"
	"github.com/ecodeclub/ginx"
	"github.com/gin-gonic/gin"
	"github.com/gotomicro/ego/core/elog"

	"github.com/foodsnap/foodsnap-server/internal/payment/internal/domain"
	"github.com/foodsnap/foodsnap-server/internal/payment/internal/service"
	"github.com/foodsnap/foodsnap-server/internal/payment/internal/service/sign"
	"github.com/foodsnap/foodsnap-server/internal/pkg/metrics"
)

var _ ginx.Handler = &Handler{}

const ackTemplate = `<xml><return_code><![CDATA[%s]]></return_code><return_msg><![CDATA[%s]]></return_msg></xml>`

// Handler 微信支付 v2 回调入口。应答 SUCCESS 表示处理完毕,
// 应答 FAIL 微信会按退避策略重放通知
type Handler struct {
	svc    service.Service
	signer *sign.Signer
	l      *elog.Component
}

func NewHandler(svc service.Service, signer *sign.Signer) *Handler {
	return &Handler{
		svc:    svc,
		signer: signer,
		l:      elog.DefaultLogger,
	}
}

func (h *Handler) PrivateRoutes(_ *gin.Engine) {}

func (h *Handler) PublicRoutes(server *gin.Engine) {
	server.Any("/pay/callback", h.HandleWechatCallback)
}

func (h *Handler) HandleWechatCallback(ctx *gin.Context) {
	body, err := io.ReadAll(ctx.Request.Body)
	if err != nil {
		h.l.Warn("读取回调报文失败", elog.FieldErr(err))
		h.ack(ctx, false, "read body failed")
		return
	}
	params, err := parseNotifyParams(body)
	if err != nil {
		h.l.Warn("解析回调报文失败", elog.FieldErr(err))
		h.ack(ctx, false, "invalid xml")
		return
	}

	// 先验签, 验签不过的报文一律不碰存储
	if !h.signer.Verify(params) {
		metrics.PaymentCallbackTotal.WithLabelValues("signature_invalid").Inc()
		h.l.Warn("回调验签失败",
			elog.String("orderSN", params["out_trade_no"]))
		h.ack(ctx, false, "invalid signature")
		return
	}

	if code, ok := params["return_code"]; ok && code != "SUCCESS" {
		// 非成功通知没有可对账的内容
		h.l.Warn("收到非成功状态的回调",
			elog.String("returnCode", code),
			elog.String("orderSN", params["out_trade_no"]))
		h.ack(ctx, true, "OK")
		return
	}

	if _, ok := params["out_refund_no"]; ok {
		err = h.handleRefund(ctx, params)
	} else {
		err = h.handlePayment(ctx, params)
	}
	if err != nil {
		h.l.Error("处理回调失败",
			elog.FieldErr(err),
			elog.String("orderSN", params["out_trade_no"]))
		h.ack(ctx, false, "process failed")
		return
	}
	h.ack(ctx, true, "OK")
}

func (h *Handler) handlePayment(ctx *gin.Context, params map[string]string) error {
	totalFee, err := strconv.ParseInt(params["total_fee"], 10, 64)
	if err != nil {
		return fmt.Errorf("解析回调金额失败: %w", err)
	}
	return h.svc.HandlePaymentNotification(ctx.Request.Context(), domain.PaymentNotification{
		OrderSN:       params["out_trade_no"],
		TransactionID: params["transaction_id"],
		TotalFee:      totalFee,
		PayTime:       params["time_end"],
	})
}

func (h *Handler) handleRefund(ctx *gin.Context, params map[string]string) error {
	refundFee, err := strconv.ParseInt(params["refund_fee"], 10, 64)
	if err != nil {
		return fmt.Errorf("解析退款金额失败: %w", err)
	}
	return h.svc.HandleRefundNotification(ctx.Request.Context(), domain.RefundNotification{
		OrderSN:     params["out_trade_no"],
		RefundNo:    params["out_refund_no"],
		RefundID:    params["refund_id"],
		RefundFee:   refundFee,
		SuccessTime: params["success_time"],
	})
}

func (h *Handler) ack(ctx *gin.Context, ok bool, msg string) {
	code := "SUCCESS"
	if !ok {
		code = "FAIL"
	}
	ctx.Data(http.StatusOK, "application/xml; charset=utf-8",
		[]byte(fmt.Sprintf(ackTemplate, code, msg)))
}

// parseNotifyParams 把微信 v2 回调的 XML 报文拍平成参与签名的键值对
func parseNotifyParams(body []byte) (map[string]string, error) {
	mv, err := mxj.NewMapXml(body)
	if err != nil {
		return nil, fmt.Errorf("XML 反序列化失败: %w", err)
	}
	root, ok := mv["xml"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("缺少 xml 根节点")
	}
	params := make(map[string]string, len(root))
	for k, v := range root {
		s, ok := v.(string)
		if !ok {
			// 嵌套节点不参与 v2 签名
			continue
		}
		params[k] = s
	}
	return params, nil
}
