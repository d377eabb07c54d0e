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

type User struct {
	ID       int64
	Nickname string
	Avatar   string
	Phone    string
	// 小程序侧的 open id, 微信支付下单时作为 payer 使用
	WechatMiniOpenID string
	// 会员状态镜像, 真实数据以 member 模块为准
	IsVip       bool
	VipExpireAt int64
}

// WechatInfo 小程序 code2Session 的结果
type WechatInfo struct {
	MiniOpenID string
	UnionID    string
}
