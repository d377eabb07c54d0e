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

type PayStatus uint8

func (s PayStatus) ToUint8() uint8 {
	return uint8(s)
}

const (
	PayStatusPending  PayStatus = 1
	PayStatusPaid     PayStatus = 2
	PayStatusRefunded PayStatus = 3
	PayStatusCanceled PayStatus = 4
)

type OrderStatus uint8

func (s OrderStatus) ToUint8() uint8 {
	return uint8(s)
}

const (
	StatusCreated   OrderStatus = 1
	StatusPaid      OrderStatus = 2
	StatusCompleted OrderStatus = 3
	StatusCanceled  OrderStatus = 4
	StatusRefunded  OrderStatus = 5
)

type Order struct {
	ID            int64
	SN            string
	Uid           int64
	PlanType      string
	PlanName      string
	// Description 订单描述, 下单时由小程序传入, 微信支付收银台展示用
	Description   string
	// Amount 单位为分, 999 表示 9.99 元
	Amount        int64
	PayStatus     PayStatus
	Status        OrderStatus
	// PayTime 支付成功时间, UTC Unix 毫秒数, 未支付为 0
	PayTime       int64
	TransactionID string
	// RefundNo 商户退款单号, RefundID 微信退款单号
	RefundNo      string
	RefundID      string
	RefundFee     int64
	// RefundTime 退款成功时间, UTC Unix 毫秒数
	RefundTime    int64
	// ExpireAt 超过该时间未支付的订单会被定时任务关闭
	ExpireAt      int64
	Ctime         int64
	Utime         int64
}

// Payable 订单当前是否还能发起支付
func (o Order) Payable() bool {
	return o.PayStatus == PayStatusPending
}
