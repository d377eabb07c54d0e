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

package user

import (
	"github.com/foodsnap/foodsnap-server/internal/user/internal/domain"
	"github.com/foodsnap/foodsnap-server/internal/user/internal/service"
	"github.com/foodsnap/foodsnap-server/internal/user/internal/web"
)

type User = domain.User

type WechatInfo = domain.WechatInfo

type UserService = service.UserService

// OAuth2Service 小程序登录凭证校验, ioc 里根据配置构造
type OAuth2Service = service.OAuth2Service

type Handler = web.Handler

// Membership / MembershipFinder 资料页的会员视图, 由 member 模块适配实现
type (
	Membership       = web.Membership
	MembershipFinder = web.MembershipFinder
)

func NewWechatMiniService(appID, appSecret string) OAuth2Service {
	return service.NewWechatMiniService(appID, appSecret)
}

var ErrUserNotFound = service.ErrUserNotFound
