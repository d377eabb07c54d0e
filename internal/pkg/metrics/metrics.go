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

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// 支付回调的处理结果统计, result 取值:
// success / duplicate / order_not_found / amount_mismatch / signature_invalid / store_error
var PaymentCallbackTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
	Namespace: "foodsnap",
	Subsystem: "payment",
	Name:      "callback_total",
	Help:      "支付回调处理结果计数",
}, []string{"result"})

// NotificationFailureTotal 通知发送失败计数, 通知失败只记录不阻断业务
var NotificationFailureTotal = prometheus.NewCounter(prometheus.CounterOpts{
	Namespace: "foodsnap",
	Subsystem: "notification",
	Name:      "failure_total",
	Help:      "支付结果通知发送失败计数",
})

func init() {
	prometheus.MustRegister(PaymentCallbackTotal, NotificationFailureTotal)
}
