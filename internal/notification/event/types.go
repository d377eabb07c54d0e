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

package event

const PaymentResultEventName = "payment_result_events"

const (
	TypePaymentSucceeded = "payment_succeeded"
	TypeRefundSucceeded  = "refund_succeeded"
)

// PaymentResultEvent 与 payment 模块发出的事件结构保持一致
type PaymentResultEvent struct {
	OrderSN  string `json:"orderSN"`
	Uid      int64  `json:"uid"`
	Type     string `json:"type"`
	// Amount 单位为分
	Amount   int64  `json:"amount"`
	PlanName string `json:"planName"`
}
