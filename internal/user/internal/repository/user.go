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
	"database/sql"

	"github.com/foodsnap/foodsnap-server/internal/user/internal/domain"
	"github.com/foodsnap/foodsnap-server/internal/user/internal/repository/dao"
)

var (
	ErrUserNotFound  = dao.ErrUserNotFound
	ErrDuplicateUser = dao.ErrDuplicateUser
)

type UserRepository interface {
	Create(ctx context.Context, u domain.User) (int64, error)
	FindByID(ctx context.Context, id int64) (domain.User, error)
	FindByWechat(ctx context.Context, openID string) (domain.User, error)
	Update(ctx context.Context, u domain.User) error
	UpdateVipStatus(ctx context.Context, uid int64, isVip bool, expireAt int64) error
}

func NewUserRepository(d dao.UserDAO) UserRepository {
	return &userRepository{dao: d}
}

type userRepository struct {
	dao dao.UserDAO
}

func (u *userRepository) Create(ctx context.Context, usr domain.User) (int64, error) {
	return u.dao.Insert(ctx, u.toEntity(usr))
}

func (u *userRepository) FindByID(ctx context.Context, id int64) (domain.User, error) {
	usr, err := u.dao.FindByID(ctx, id)
	if err != nil {
		return domain.User{}, err
	}
	return u.toDomain(usr), nil
}

func (u *userRepository) FindByWechat(ctx context.Context, openID string) (domain.User, error) {
	usr, err := u.dao.FindByWechatMiniOpenID(ctx, openID)
	if err != nil {
		return domain.User{}, err
	}
	return u.toDomain(usr), nil
}

func (u *userRepository) Update(ctx context.Context, usr domain.User) error {
	return u.dao.UpdateNonZeroFields(ctx, u.toEntity(usr))
}

func (u *userRepository) UpdateVipStatus(ctx context.Context, uid int64, isVip bool, expireAt int64) error {
	var vip uint8
	if isVip {
		vip = 1
	}
	return u.dao.UpdateVipStatus(ctx, uid, vip, expireAt)
}

func (u *userRepository) toEntity(usr domain.User) dao.User {
	var vip uint8
	if usr.IsVip {
		vip = 1
	}
	return dao.User{
		Id:               usr.ID,
		Nickname:         usr.Nickname,
		Avatar:           usr.Avatar,
		Phone:            sqlNullString(usr.Phone),
		WechatMiniOpenId: sqlNullString(usr.WechatMiniOpenID),
		Vip:              vip,
		VipExpireAt:      usr.VipExpireAt,
	}
}

func (u *userRepository) toDomain(usr dao.User) domain.User {
	return domain.User{
		ID:               usr.Id,
		Nickname:         usr.Nickname,
		Avatar:           usr.Avatar,
		Phone:            usr.Phone.String,
		WechatMiniOpenID: usr.WechatMiniOpenId.String,
		IsVip:            usr.Vip == 1,
		VipExpireAt:      usr.VipExpireAt,
	}
}

func sqlNullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
