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

package errs

type ErrorCode struct {
	Code int
	Msg  string
}

var (
	SystemError       = ErrorCode{Code: 504001, Msg: "系统错误"}
	InvalidParam      = ErrorCode{Code: 404001, Msg: "参数错误"}
	OrderNotFound     = ErrorCode{Code: 404002, Msg: "订单不存在"}
	OrderInvalidState = ErrorCode{Code: 404003, Msg: "订单状态不允许该操作"}
	AmountMismatch    = ErrorCode{Code: 404004, Msg: "订单金额与套餐价格不一致"}
	PaymentNotMade    = ErrorCode{Code: 404005, Msg: "订单未支付"}
)
