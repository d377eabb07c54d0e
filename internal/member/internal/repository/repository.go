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

package repository

import (
	"context"

	"github.com/foodsnap/foodsnap-server/internal/member/internal/domain"
	"github.com/foodsnap/foodsnap-server/internal/member/internal/repository/dao"
)

var (
	ErrMemberNotFound   = dao.ErrMemberNotFound
	ErrConcurrentUpdate = dao.ErrConcurrentUpdate
)

type MemberRepository interface {
	FindByUID(ctx context.Context, uid int64) (domain.Member, error)
	ExtendTo(ctx context.Context, uid int64, planType string, endAt int64) error
	Revoke(ctx context.Context, uid int64, now int64) (bool, error)
}

func NewMemberRepository(d dao.MemberDAO) MemberRepository {
	return &memberRepository{dao: d}
}

type memberRepository struct {
	dao dao.MemberDAO
}

func (m *memberRepository) FindByUID(ctx context.Context, uid int64) (domain.Member, error) {
	d, err := m.dao.FindByUID(ctx, uid)
	if err != nil {
		return domain.Member{}, err
	}
	return domain.Member{
		Uid:      d.Uid,
		PlanType: d.PlanType,
		IsVip:    d.Vip == 1,
		StartAt:  d.StartAt,
		EndAt:    d.EndAt,
	}, nil
}

func (m *memberRepository) ExtendTo(ctx context.Context, uid int64, planType string, endAt int64) error {
	return m.dao.ExtendTo(ctx, uid, planType, endAt)
}

func (m *memberRepository) Revoke(ctx context.Context, uid int64, now int64) (bool, error) {
	return m.dao.Revoke(ctx, uid, now)
}
