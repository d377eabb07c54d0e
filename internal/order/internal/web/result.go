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
	"github.com/ecodeclub/ginx"

	"github.com/foodsnap/foodsnap-server/internal/order/internal/errs"
)

var (
	systemErrorResult = ginx.Result{
		Code: errs.SystemError.Code,
		Msg:  errs.SystemError.Msg,
	}
	invalidParamResult = ginx.Result{
		Code: errs.InvalidParam.Code,
		Msg:  errs.InvalidParam.Msg,
	}
	orderNotFoundResult = ginx.Result{
		Code: errs.OrderNotFound.Code,
		Msg:  errs.OrderNotFound.Msg,
	}
	orderInvalidStateResult = ginx.Result{
		Code: errs.OrderInvalidState.Code,
		Msg:  errs.OrderInvalidState.Msg,
	}
	amountMismatchResult = ginx.Result{
		Code: errs.AmountMismatch.Code,
		Msg:  errs.AmountMismatch.Msg,
	}
	paymentNotMadeResult = ginx.Result{
		Code: errs.PaymentNotMade.Code,
		Msg:  errs.PaymentNotMade.Msg,
	}
)
