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
	"context"
	"fmt"

	"github.com/ecodeclub/ginx"
	"github.com/ecodeclub/ginx/session"
	"github.com/gin-gonic/gin"

	"github.com/foodsnap/foodsnap-server/internal/user/internal/domain"
	"github.com/foodsnap/foodsnap-server/internal/user/internal/service"
)

// Membership 会员权益视图, 资料页展示用
type Membership struct {
	Vip   bool
	EndAt int64
}

// MembershipFinder 由 member 模块适配实现, 见 ioc。
// 没有会员记录时返回零值而不是错误
type MembershipFinder interface {
	FindMembership(ctx context.Context, uid int64) (Membership, error)
}

var _ ginx.Handler = &Handler{}

type Handler struct {
	svc       service.UserService
	weSvc     service.OAuth2Service
	memFinder MembershipFinder
}

func NewHandler(svc service.UserService, weSvc service.OAuth2Service, memFinder MembershipFinder) *Handler {
	return &Handler{svc: svc, weSvc: weSvc, memFinder: memFinder}
}

func (h *Handler) PublicRoutes(server *gin.Engine) {
	server.POST("/user/login", ginx.B[LoginReq](h.Login))
}

func (h *Handler) PrivateRoutes(server *gin.Engine) {
	g := server.Group("/user")
	g.GET("/profile", ginx.S(h.Profile))
	g.POST("/profile", ginx.BS[EditReq](h.Edit))
}

// Login 小程序登录: code 换 openid, 静默注册, 下发登录态
func (h *Handler) Login(ctx *ginx.Context, req LoginReq) (ginx.Result, error) {
	if req.Code == "" {
		return invalidParamResult, fmt.Errorf("登录凭证为空")
	}
	info, err := h.weSvc.VerifyCode(ctx.Request.Context(), req.Code)
	if err != nil {
		return loginFailedResult, fmt.Errorf("校验登录凭证失败: %w", err)
	}
	u, err := h.svc.FindOrCreateByWechat(ctx.Request.Context(), info)
	if err != nil {
		return systemErrorResult, fmt.Errorf("查找或初始化用户失败: %w", err)
	}
	_, err = session.NewSessionBuilder(ctx, u.ID).Build()
	if err != nil {
		return systemErrorResult, fmt.Errorf("创建会话失败: %w", err)
	}
	return h.profileResult(ctx.Request.Context(), u)
}

// Profile 个人资料, 会员状态取 member 模块的实时数据
func (h *Handler) Profile(ctx *ginx.Context, sess session.Session) (ginx.Result, error) {
	u, err := h.svc.Profile(ctx.Request.Context(), sess.Claims().Uid)
	if err != nil {
		return systemErrorResult, fmt.Errorf("查询用户失败: %w", err)
	}
	return h.profileResult(ctx.Request.Context(), u)
}

// Edit 更新昵称和头像
func (h *Handler) Edit(ctx *ginx.Context, req EditReq, sess session.Session) (ginx.Result, error) {
	err := h.svc.UpdateProfile(ctx.Request.Context(), domain.User{
		ID:       sess.Claims().Uid,
		Nickname: req.Nickname,
		Avatar:   req.Avatar,
	})
	if err != nil {
		return systemErrorResult, fmt.Errorf("更新资料失败: %w", err)
	}
	return ginx.Result{Msg: "OK"}, nil
}

func (h *Handler) profileResult(ctx context.Context, u domain.User) (ginx.Result, error) {
	m, err := h.memFinder.FindMembership(ctx, u.ID)
	if err != nil {
		return systemErrorResult, fmt.Errorf("查询会员状态失败: %w", err)
	}
	return ginx.Result{
		Data: Profile{
			Nickname:    u.Nickname,
			Avatar:      u.Avatar,
			Phone:       u.Phone,
			Vip:         m.Vip,
			VipExpireAt: m.EndAt,
		},
	}, nil
}
