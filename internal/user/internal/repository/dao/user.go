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

package dao

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/ego-component/egorm"
	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

var (
	// ErrUserNotFound 通用的用户未找到
	ErrUserNotFound = gorm.ErrRecordNotFound
	// ErrDuplicateUser 并发注册时撞上了 openid 唯一索引
	ErrDuplicateUser = errors.New("用户已存在")
)

//go:generate mockgen -source=./user.go -package=daomocks -destination=mocks/user.mock.go UserDAO
type UserDAO interface {
	Insert(ctx context.Context, u User) (int64, error)
	FindByID(ctx context.Context, id int64) (User, error)
	FindByWechatMiniOpenID(ctx context.Context, openID string) (User, error)
	UpdateNonZeroFields(ctx context.Context, u User) error
	UpdateVipStatus(ctx context.Context, uid int64, vip uint8, expireAt int64) error
}

type GORMUserDAO struct {
	db *egorm.Component
}

func NewGORMUserDAO(db *egorm.Component) UserDAO {
	return &GORMUserDAO{db: db}
}

func (ud *GORMUserDAO) Insert(ctx context.Context, u User) (int64, error) {
	now := time.Now().UnixMilli()
	u.Ctime = now
	u.Utime = now
	err := ud.db.WithContext(ctx).Create(&u).Error
	if err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) {
			const uniqueIndexConflict uint16 = 1062
			if me.Number == uniqueIndexConflict {
				return 0, ErrDuplicateUser
			}
		}
		return 0, err
	}
	return u.Id, nil
}

func (ud *GORMUserDAO) FindByWechatMiniOpenID(ctx context.Context, openID string) (User, error) {
	var u User
	err := ud.db.WithContext(ctx).First(&u, "wechat_mini_open_id = ?", openID).Error
	return u, err
}

func (ud *GORMUserDAO) FindByID(ctx context.Context, id int64) (User, error) {
	var u User
	err := ud.db.WithContext(ctx).First(&u, "id = ?", id).Error
	return u, err
}

func (ud *GORMUserDAO) UpdateNonZeroFields(ctx context.Context, u User) error {
	u.Utime = time.Now().UnixMilli()
	return ud.db.WithContext(ctx).Updates(&u).Error
}

// UpdateVipStatus 会员状态镜像字段, 由 member 模块在授予/回收会员时同步
func (ud *GORMUserDAO) UpdateVipStatus(ctx context.Context, uid int64, vip uint8, expireAt int64) error {
	return ud.db.WithContext(ctx).Model(&User{}).
		Where("id = ?", uid).
		Updates(map[string]any{
			"vip":           vip,
			"vip_expire_at": expireAt,
			"utime":         time.Now().UnixMilli(),
		}).Error
}

type User struct {
	Id               int64 `gorm:"primaryKey,autoIncrement"`
	Nickname         string
	Avatar           string
	Phone            sql.NullString `gorm:"type:varchar(32);index:idx_phone"`
	WechatMiniOpenId sql.NullString `gorm:"type:varchar(256);unique"`
	// 会员状态镜像, 方便首页一次查询出用户信息
	Vip         uint8 `gorm:"type:tinyint unsigned;not null;default:0;comment:是否会员 0=否 1=是"`
	VipExpireAt int64 `gorm:"not null;default:0;comment:会员到期时间,UTC Unix毫秒数"`
	// 创建时间
	Ctime int64
	// 更新时间
	Utime int64
}
