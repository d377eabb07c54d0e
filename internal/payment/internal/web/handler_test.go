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
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodsnap/foodsnap-server/internal/payment/internal/domain"
	"github.com/foodsnap/foodsnap-server/internal/payment/internal/service/sign"
)

const testMchKey = "testkey123"

type fakeService struct {
	payments []domain.PaymentNotification
	refunds  []domain.RefundNotification
	err      error
}

func (f *fakeService) Prepay(_ context.Context, _ domain.PrepayReq) (domain.PayParams, error) {
	return domain.PayParams{}, nil
}

func (f *fakeService) HandlePaymentNotification(_ context.Context, n domain.PaymentNotification) error {
	if f.err != nil {
		return f.err
	}
	f.payments = append(f.payments, n)
	return nil
}

func (f *fakeService) HandleRefundNotification(_ context.Context, n domain.RefundNotification) error {
	if f.err != nil {
		return f.err
	}
	f.refunds = append(f.refunds, n)
	return nil
}

func newCallbackServer(t *testing.T, svc *fakeService) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	server := gin.New()
	NewHandler(svc, sign.NewSigner(testMchKey)).PublicRoutes(server)
	return server
}

// toNotifyXML 按微信 v2 报文格式拼 XML, 并附带签名
func toNotifyXML(t *testing.T, params map[string]string, signed bool) []byte {
	t.Helper()
	if signed {
		s, err := sign.NewSigner(testMchKey).Sign(params)
		require.NoError(t, err)
		params["sign"] = s
	}
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b bytes.Buffer
	b.WriteString("<xml>")
	for _, k := range keys {
		fmt.Fprintf(&b, "<%s><![CDATA[%s]]></%s>", k, params[k], k)
	}
	b.WriteString("</xml>")
	return b.Bytes()
}

func postCallback(t *testing.T, server *gin.Engine, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/pay/callback", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/xml")
	recorder := httptest.NewRecorder()
	server.ServeHTTP(recorder, req)
	return recorder
}

func paymentParams() map[string]string {
	return map[string]string{
		"return_code":    "SUCCESS",
		"out_trade_no":   "20240601120000123",
		"transaction_id": "4200001234",
		"total_fee":      "990",
		"time_end":       "20240601200000",
	}
}

func TestHandler_HandleWechatCallback(t *testing.T) {
	t.Parallel()

	t.Run("支付成功回调应答SUCCESS", func(t *testing.T) {
		t.Parallel()
		svc := &fakeService{}
		server := newCallbackServer(t, svc)

		recorder := postCallback(t, server, toNotifyXML(t, paymentParams(), true))

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "<return_code><![CDATA[SUCCESS]]></return_code>")
		require.Len(t, svc.payments, 1)
		assert.Equal(t, domain.PaymentNotification{
			OrderSN:       "20240601120000123",
			TransactionID: "4200001234",
			TotalFee:      990,
			PayTime:       "20240601200000",
		}, svc.payments[0])
	})

	t.Run("验签失败应答FAIL且不触发对账", func(t *testing.T) {
		t.Parallel()
		svc := &fakeService{}
		server := newCallbackServer(t, svc)

		params := paymentParams()
		params["sign"] = "FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFF"
		recorder := postCallback(t, server, toNotifyXML(t, params, false))

		assert.Contains(t, recorder.Body.String(), "<return_code><![CDATA[FAIL]]></return_code>")
		assert.Empty(t, svc.payments)
	})

	t.Run("缺少签名应答FAIL", func(t *testing.T) {
		t.Parallel()
		svc := &fakeService{}
		server := newCallbackServer(t, svc)

		recorder := postCallback(t, server, toNotifyXML(t, paymentParams(), false))

		assert.Contains(t, recorder.Body.String(), "FAIL")
		assert.Empty(t, svc.payments)
	})

	t.Run("退款回调路由到退款对账", func(t *testing.T) {
		t.Parallel()
		svc := &fakeService{}
		server := newCallbackServer(t, svc)

		params := map[string]string{
			"return_code":   "SUCCESS",
			"out_trade_no":  "20240601120000123",
			"out_refund_no": "refund-1",
			"refund_id":     "50000001",
			"refund_fee":    "990",
			"success_time":  "20240602090000",
		}
		recorder := postCallback(t, server, toNotifyXML(t, params, true))

		assert.Contains(t, recorder.Body.String(), "SUCCESS")
		require.Len(t, svc.refunds, 1)
		assert.Equal(t, domain.RefundNotification{
			OrderSN:     "20240601120000123",
			RefundNo:    "refund-1",
			RefundID:    "50000001",
			RefundFee:   990,
			SuccessTime: "20240602090000",
		}, svc.refunds[0])
		assert.Empty(t, svc.payments)
	})

	t.Run("非法XML应答FAIL", func(t *testing.T) {
		t.Parallel()
		svc := &fakeService{}
		server := newCallbackServer(t, svc)

		recorder := postCallback(t, server, []byte("not-xml"))

		assert.Contains(t, recorder.Body.String(), "FAIL")
		assert.Empty(t, svc.payments)
	})

	t.Run("对账失败应答FAIL等待微信重放", func(t *testing.T) {
		t.Parallel()
		svc := &fakeService{err: errors.New("存储不可用")}
		server := newCallbackServer(t, svc)

		recorder := postCallback(t, server, toNotifyXML(t, paymentParams(), true))

		assert.Contains(t, recorder.Body.String(), "FAIL")
	})

	t.Run("非成功状态的通知直接应答SUCCESS", func(t *testing.T) {
		t.Parallel()
		svc := &fakeService{}
		server := newCallbackServer(t, svc)

		params := paymentParams()
		params["return_code"] = "FAIL"
		recorder := postCallback(t, server, toNotifyXML(t, params, true))

		assert.Contains(t, recorder.Body.String(), "SUCCESS")
		assert.Empty(t, svc.payments)
	})

	t.Run("金额字段非法应答FAIL", func(t *testing.T) {
		t.Parallel()
		svc := &fakeService{}
		server := newCallbackServer(t, svc)

		params := paymentParams()
		params["total_fee"] = "abc"
		recorder := postCallback(t, server, toNotifyXML(t, params, true))

		assert.Contains(t, recorder.Body.String(), "FAIL")
		assert.Empty(t, svc.payments)
	})
}
