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

// LoginReq 小程序登录, code 来自 wx.login
type LoginReq struct {
	Code string `json:"code"`
}

// EditReq 更新个人资料, 零值字段不更新
type EditReq struct {
	Nickname string `json:"nickname"`
	Avatar   string `json:"avatar"`
}

type Profile struct {
	Nickname string `json:"nickname"`
	Avatar   string `json:"avatar"`
	Phone    string `json:"phone,omitempty"`
	// 会员状态, 来自 member 模块的实时数据
	Vip         bool  `json:"vip"`
	VipExpireAt int64 `json:"vipExpireAt,omitempty"`
}
