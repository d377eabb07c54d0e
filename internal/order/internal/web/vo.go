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

// CreateOrderReq 创建订单请求
type CreateOrderReq struct {
	RequestID   string `json:"requestID"` // 请求去重, 防止订单重复提交
	PlanType    string `json:"planType"`
	Amount      int64  `json:"amount"`      // 单位为分, 必须与套餐目录价一致
	Description string `json:"description"` // 微信支付收银台展示的商品描述
}

type CreateOrderResp struct {
	Order   Order   `json:"order"`
	PayData PayData `json:"payData"` // 小程序拉起支付所需参数
}

// PayData 微信小程序 wx.requestPayment 参数
type PayData struct {
	TimeStamp string `json:"timeStamp"`
	NonceStr  string `json:"nonceStr"`
	Package   string `json:"package"`
	SignType  string `json:"signType"`
	PaySign   string `json:"paySign"`
}

// RetrieveOrderDetailReq 获取订单详情
type RetrieveOrderDetailReq struct {
	ID int64 `json:"id"`
}

type RetrieveOrderDetailResp struct {
	Order Order `json:"order"`
}

// ListOrdersReq 分页查询用户订单, payStatus 为 0 时查全部
type ListOrdersReq struct {
	Offset    int   `json:"offset,omitempty"`
	Limit     int   `json:"limit,omitempty"`
	PayStatus uint8 `json:"payStatus,omitempty"`
}

type ListOrdersResp struct {
	Total  int64   `json:"total,omitempty"`
	Orders []Order `json:"orders,omitempty"`
}

// CancelOrderReq 取消订单
type CancelOrderReq struct {
	ID int64 `json:"id"`
}

// VerifyPaymentReq 支付结果核验, 小程序支付完成后轮询用
type VerifyPaymentReq struct {
	ID            int64  `json:"id"`
	TransactionID string `json:"transactionId,omitempty"`
}

type VerifyPaymentResp struct {
	Order Order `json:"order"`
}

// DeleteOrderReq 从订单列表删除终态订单
type DeleteOrderReq struct {
	ID int64 `json:"id"`
}

type ListPlansResp struct {
	Plans []Plan `json:"plans"`
}

type Plan struct {
	Type     string   `json:"type"`
	Name     string   `json:"name"`
	Price    int64    `json:"price"`
	Features []string `json:"features"`
}

type Order struct {
	ID            int64  `json:"id"`
	SN            string `json:"sn"`
	PlanType      string `json:"planType"`
	PlanName      string `json:"planName"`
	Description   string `json:"description"`
	Amount        int64  `json:"amount"`
	PayStatus     uint8  `json:"payStatus"`
	Status        uint8  `json:"status"`
	// Payable 小程序据此决定是否展示"去支付"入口
	Payable       bool   `json:"payable"`
	PayTime       int64  `json:"payTime,omitempty"`
	TransactionID string `json:"transactionId,omitempty"`
	ExpireAt      int64  `json:"expireAt"`
	Ctime         int64  `json:"ctime"`
	Utime         int64  `json:"utime"`
}
