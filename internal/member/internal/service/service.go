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
	"time"

	"github.com/foodsnap/foodsnap-server/internal/member/internal/domain"
	"github.com/foodsnap/foodsnap-server/internal/member/internal/repository"
	"github.com/foodsnap/foodsnap-server/internal/plan"
	"github.com/foodsnap/foodsnap-server/internal/user"
)

var (
	ErrMemberNotFound   = repository.ErrMemberNotFound
	ErrConcurrentUpdate = repository.ErrConcurrentUpdate
)

//go:generate mockgen -source=./service.go -package=membermocks -destination=../../mocks/member.mock.go -typed Service
type Service interface {
	MembershipInfo(ctx context.Context, uid int64) (domain.Member, error)
	// Grant 授予或续期会员。有效期只会前进:
	// 新计算出的到期时间不晚于现有到期时间时不做任何修改。
	Grant(ctx context.Context, uid int64, planType string, baseDays uint64) error
	// RevokeIfExpired 仅当会员已到期时回收会员标记, 未到期的已付费会员不受影响
	RevokeIfExpired(ctx context.Context, uid int64) error
}

func NewMemberService(repo repository.MemberRepository, userSvc user.UserService) Service {
	return &service{
		repo:    repo,
		userSvc: userSvc,
		nowFunc: time.Now,
	}
}

// NewMemberServiceWith 测试用, 允许注入时间
func NewMemberServiceWith(repo repository.MemberRepository, userSvc user.UserService, nowFunc func() time.Time) Service {
	return &service{
		repo:    repo,
		userSvc: userSvc,
		nowFunc: nowFunc,
	}
}

type service struct {
	repo    repository.MemberRepository
	userSvc user.UserService
	nowFunc func() time.Time
}

func (s *service) MembershipInfo(ctx context.Context, uid int64) (domain.Member, error) {
	return s.repo.FindByUID(ctx, uid)
}

func (s *service) Grant(ctx context.Context, uid int64, planType string, baseDays uint64) error {
	now := s.nowFunc()
	endAt := s.expiryFor(now, planType, baseDays)
	err := s.repo.ExtendTo(ctx, uid, planType, endAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("更新会员有效期失败: %w", err)
	}
	return s.mirrorToUser(ctx, uid)
}

// expiryFor 按套餐规则从 now 计算新的到期时间
func (s *service) expiryFor(now time.Time, planType string, baseDays uint64) time.Time {
	switch planType {
	case plan.TypeMonthly:
		return now.AddDate(0, 1, 0)
	case plan.TypeYearly:
		return now.AddDate(1, 0, 0)
	case plan.TypeLifetime:
		return now.AddDate(100, 0, 0)
	default:
		return now.Add(time.Hour * 24 * time.Duration(baseDays))
	}
}

func (s *service) RevokeIfExpired(ctx context.Context, uid int64) error {
	now := s.nowFunc().UnixMilli()
	revoked, err := s.repo.Revoke(ctx, uid, now)
	if err != nil {
		return fmt.Errorf("回收会员标记失败: %w", err)
	}
	if !revoked {
		return nil
	}
	return s.mirrorToUser(ctx, uid)
}

// mirrorToUser 把会员状态镜像到用户主表, 镜像与会员记录不一致视为缺陷,
// 所以镜像失败要向上传播, 由调用方重试
func (s *service) mirrorToUser(ctx context.Context, uid int64) error {
	m, err := s.repo.FindByUID(ctx, uid)
	if err != nil {
		if errors.Is(err, ErrMemberNotFound) {
			return nil
		}
		return fmt.Errorf("读取会员记录失败: %w", err)
	}
	if err := s.userSvc.UpdateVipStatus(ctx, uid, m.IsVip, m.EndAt); err != nil {
		return fmt.Errorf("同步会员状态到用户主表失败: %w", err)
	}
	return nil
}
