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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodsnap/foodsnap-server/internal/member/internal/domain"
	"github.com/foodsnap/foodsnap-server/internal/member/internal/repository"
	"github.com/foodsnap/foodsnap-server/internal/user"
)

// fakeMemberRepository 内存实现, 保留"有效期只前进不后退"的语义
type fakeMemberRepository struct {
	members map[int64]domain.Member
}

func newFakeMemberRepository() *fakeMemberRepository {
	return &fakeMemberRepository{members: map[int64]domain.Member{}}
}

func (f *fakeMemberRepository) FindByUID(_ context.Context, uid int64) (domain.Member, error) {
	m, ok := f.members[uid]
	if !ok {
		return domain.Member{}, repository.ErrMemberNotFound
	}
	return m, nil
}

func (f *fakeMemberRepository) ExtendTo(_ context.Context, uid int64, planType string, endAt int64) error {
	m, ok := f.members[uid]
	if !ok {
		f.members[uid] = domain.Member{
			Uid:      uid,
			PlanType: planType,
			IsVip:    true,
			StartAt:  time.Now().UnixMilli(),
			EndAt:    endAt,
		}
		return nil
	}
	if endAt <= m.EndAt {
		return nil
	}
	m.PlanType = planType
	m.IsVip = true
	m.EndAt = endAt
	f.members[uid] = m
	return nil
}

func (f *fakeMemberRepository) Revoke(_ context.Context, uid int64, now int64) (bool, error) {
	m, ok := f.members[uid]
	if !ok || !m.IsVip || m.EndAt > now {
		return false, nil
	}
	m.IsVip = false
	f.members[uid] = m
	return true, nil
}

// fakeUserService 记录镜像调用, 便于断言会员状态同步到了用户主表
type fakeUserService struct {
	vip      map[int64]bool
	expireAt map[int64]int64
	calls    int
}

func newFakeUserService() *fakeUserService {
	return &fakeUserService{vip: map[int64]bool{}, expireAt: map[int64]int64{}}
}

func (f *fakeUserService) Profile(_ context.Context, _ int64) (user.User, error) {
	return user.User{}, nil
}

func (f *fakeUserService) FindOrCreateByWechat(_ context.Context, _ user.WechatInfo) (user.User, error) {
	return user.User{}, nil
}

func (f *fakeUserService) UpdateProfile(_ context.Context, _ user.User) error {
	return nil
}

func (f *fakeUserService) UpdateVipStatus(_ context.Context, uid int64, isVip bool, expireAt int64) error {
	f.vip[uid] = isVip
	f.expireAt[uid] = expireAt
	f.calls++
	return nil
}

func TestService_Grant(t *testing.T) {
	t.Parallel()
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	testCases := []struct {
		name     string
		before   func(t *testing.T, repo *fakeMemberRepository)
		uid      int64
		planType string
		baseDays uint64

		wantEndAt int64
		wantVip   bool
	}{
		{
			name:      "首次开通月卡",
			before:    func(t *testing.T, repo *fakeMemberRepository) {},
			uid:       100,
			planType:  "monthly",
			baseDays:  30,
			wantEndAt: now.AddDate(0, 1, 0).UnixMilli(),
			wantVip:   true,
		},
		{
			name: "续费年卡覆盖月卡有效期",
			before: func(t *testing.T, repo *fakeMemberRepository) {
				repo.members[101] = domain.Member{
					Uid:      101,
					PlanType: "monthly",
					IsVip:    true,
					EndAt:    now.AddDate(0, 1, 0).UnixMilli(),
				}
			},
			uid:       101,
			planType:  "yearly",
			baseDays:  365,
			wantEndAt: now.AddDate(1, 0, 0).UnixMilli(),
			wantVip:   true,
		},
		{
			name: "有效期只前进不后退",
			before: func(t *testing.T, repo *fakeMemberRepository) {
				// 已持有年卡, 再买月卡不能把到期时间拉回来
				repo.members[102] = domain.Member{
					Uid:      102,
					PlanType: "yearly",
					IsVip:    true,
					EndAt:    now.AddDate(1, 0, 0).UnixMilli(),
				}
			},
			uid:       102,
			planType:  "monthly",
			baseDays:  30,
			wantEndAt: now.AddDate(1, 0, 0).UnixMilli(),
			wantVip:   true,
		},
		{
			name:      "未知套餐类型按天数兜底",
			before:    func(t *testing.T, repo *fakeMemberRepository) {},
			uid:       103,
			planType:  "weekly",
			baseDays:  7,
			wantEndAt: now.Add(7 * 24 * time.Hour).UnixMilli(),
			wantVip:   true,
		},
		{
			name: "过期老会员重新开通",
			before: func(t *testing.T, repo *fakeMemberRepository) {
				repo.members[104] = domain.Member{
					Uid:      104,
					PlanType: "monthly",
					IsVip:    false,
					EndAt:    now.AddDate(0, -3, 0).UnixMilli(),
				}
			},
			uid:       104,
			planType:  "monthly",
			baseDays:  30,
			wantEndAt: now.AddDate(0, 1, 0).UnixMilli(),
			wantVip:   true,
		},
	}
	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			repo := newFakeMemberRepository()
			tc.before(t, repo)
			userSvc := newFakeUserService()
			svc := NewMemberServiceWith(repo, userSvc, func() time.Time { return now })

			err := svc.Grant(context.Background(), tc.uid, tc.planType, tc.baseDays)
			require.NoError(t, err)

			m, err := svc.MembershipInfo(context.Background(), tc.uid)
			require.NoError(t, err)
			assert.Equal(t, tc.wantEndAt, m.EndAt)
			assert.Equal(t, tc.wantVip, m.IsVip)
			// 镜像到用户主表
			assert.Equal(t, tc.wantVip, userSvc.vip[tc.uid])
			assert.Equal(t, tc.wantEndAt, userSvc.expireAt[tc.uid])
		})
	}
}

func TestService_RevokeIfExpired(t *testing.T) {
	t.Parallel()
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	testCases := []struct {
		name   string
		before func(t *testing.T, repo *fakeMemberRepository)
		uid    int64

		wantVip      bool
		wantMirrored bool
	}{
		{
			name: "已过期会员被回收",
			before: func(t *testing.T, repo *fakeMemberRepository) {
				repo.members[200] = domain.Member{
					Uid:   200,
					IsVip: true,
					EndAt: now.AddDate(0, 0, -1).UnixMilli(),
				}
			},
			uid:          200,
			wantVip:      false,
			wantMirrored: true,
		},
		{
			name: "未过期会员不受影响",
			before: func(t *testing.T, repo *fakeMemberRepository) {
				repo.members[201] = domain.Member{
					Uid:   201,
					IsVip: true,
					EndAt: now.AddDate(0, 1, 0).UnixMilli(),
				}
			},
			uid:          201,
			wantVip:      true,
			wantMirrored: false,
		},
		{
			name:         "没有会员记录时静默返回",
			before:       func(t *testing.T, repo *fakeMemberRepository) {},
			uid:          202,
			wantVip:      false,
			wantMirrored: false,
		},
	}
	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			repo := newFakeMemberRepository()
			tc.before(t, repo)
			userSvc := newFakeUserService()
			svc := NewMemberServiceWith(repo, userSvc, func() time.Time { return now })

			err := svc.RevokeIfExpired(context.Background(), tc.uid)
			require.NoError(t, err)

			if _, ok := repo.members[tc.uid]; ok {
				assert.Equal(t, tc.wantVip, repo.members[tc.uid].IsVip)
			}
			if tc.wantMirrored {
				assert.Equal(t, 1, userSvc.calls)
				assert.Equal(t, tc.wantVip, userSvc.vip[tc.uid])
			} else {
				assert.Equal(t, 0, userSvc.calls)
			}
		})
	}
}
