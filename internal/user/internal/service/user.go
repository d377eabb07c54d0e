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

package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/lithammer/shortuuid/v4"

	"github.com/foodsnap/foodsnap-server/internal/user/internal/domain"
	"github.com/foodsnap/foodsnap-server/internal/user/internal/repository"
)

var ErrUserNotFound = repository.ErrUserNotFound

//go:generate mockgen -source=./user.go -package=usermocks -destination=../../mocks/user.mock.go -typed UserService
type UserService interface {
	Profile(ctx context.Context, uid int64) (domain.User, error)
	// FindOrCreateByWechat 小程序登录: 大多数情况用户已经存在, 不存在时静默注册
	FindOrCreateByWechat(ctx context.Context, info domain.WechatInfo) (domain.User, error)
	UpdateProfile(ctx context.Context, u domain.User) error
	// UpdateVipStatus 同步会员状态镜像, 只允许 member 模块调用
	UpdateVipStatus(ctx context.Context, uid int64, isVip bool, expireAt int64) error
}

func NewUserService(repo repository.UserRepository) UserService {
	return &userService{repo: repo}
}

type userService struct {
	repo repository.UserRepository
}

func (s *userService) FindOrCreateByWechat(ctx context.Context, info domain.WechatInfo) (domain.User, error) {
	u, err := s.repo.FindByWechat(ctx, info.MiniOpenID)
	if !errors.Is(err, ErrUserNotFound) {
		return u, err
	}
	u = domain.User{
		// 默认昵称, 用户可以在资料页改掉
		Nickname:         "食客" + shortuuid.New()[:6],
		WechatMiniOpenID: info.MiniOpenID,
	}
	id, err := s.repo.Create(ctx, u)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateUser) {
			// 同一个 openid 并发登录, 另一个请求抢先注册了
			return s.repo.FindByWechat(ctx, info.MiniOpenID)
		}
		return domain.User{}, fmt.Errorf("初始化用户失败: %w", err)
	}
	u.ID = id
	return u, nil
}

func (s *userService) Profile(ctx context.Context, uid int64) (domain.User, error) {
	return s.repo.FindByID(ctx, uid)
}

func (s *userService) UpdateProfile(ctx context.Context, u domain.User) error {
	return s.repo.Update(ctx, u)
}

func (s *userService) UpdateVipStatus(ctx context.Context, uid int64, isVip bool, expireAt int64) error {
	return s.repo.UpdateVipStatus(ctx, uid, isVip, expireAt)
}
