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

package domain

// PrepayReq 发起微信小程序预支付
type PrepayReq struct {
	Uid         int64
	OrderSN     string
	// Amount 单位为分
	Amount      int64
	Description string
}

// PayParams 小程序 wx.requestPayment 所需的全部参数
type PayParams struct {
	PrepayID  string
	AppID     string
	TimeStamp string
	NonceStr  string
	Package   string
	SignType  string
	PaySign   string
}

// PaymentNotification 支付成功回调, 字段来自微信支付 v2 通知报文
type PaymentNotification struct {
	OrderSN       string
	TransactionID string
	// TotalFee 实付金额, 单位为分
	TotalFee      int64
	// PayTime 形如 20060102150405 的北京时间字符串
	PayTime       string
}

// RefundNotification 退款成功回调
type RefundNotification struct {
	OrderSN     string
	RefundNo    string
	RefundID    string
	// RefundFee 退款金额, 单位为分
	RefundFee   int64
	// SuccessTime 形如 20060102150405 的北京时间字符串
	SuccessTime string
}

// Order 对账视角的订单快照, 由 order 模块适配提供
type Order struct {
	SN       string
	Uid      int64
	PlanType string
	// Amount 下单金额, 单位为分
	Amount   int64
	Paid     bool
	Refunded bool
}
