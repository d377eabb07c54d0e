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
	"errors"
	"time"

	"github.com/ego-component/egorm"
	"gorm.io/gorm"
)

var (
	ErrMemberNotFound = gorm.ErrRecordNotFound
	// ErrConcurrentUpdate version 被其他并发事务更新
	ErrConcurrentUpdate = errors.New("更新会员记录时版本冲突")
)

type MemberDAO interface {
	FindByUID(ctx context.Context, uid int64) (Member, error)
	// ExtendTo 把 uid 的会员有效期推进到 endAt。记录不存在则创建;
	// endAt 不晚于现有有效期时不做任何修改(有效期只前进不后退)。
	ExtendTo(ctx context.Context, uid int64, planType string, endAt int64) error
	// Revoke 仅当有效期已过时将会员标记为失效, 未过期时不动
	Revoke(ctx context.Context, uid int64, now int64) (bool, error)
}

type memberGORMDAO struct {
	db *egorm.Component
}

func NewMemberGORMDAO(db *egorm.Component) MemberDAO {
	return &memberGORMDAO{db: db}
}

func (g *memberGORMDAO) FindByUID(ctx context.Context, uid int64) (Member, error) {
	var m Member
	err := g.db.WithContext(ctx).First(&m, "uid = ?", uid).Error
	return m, err
}

func (g *memberGORMDAO) ExtendTo(ctx context.Context, uid int64, planType string, endAt int64) error {
	return g.db.WithContext(ctx).Transaction(func(tx *egorm.Component) error {
		now := time.Now().UnixMilli()
		m := Member{
			Uid:      uid,
			PlanType: planType,
			Vip:      1,
			StartAt:  now,
			EndAt:    endAt,
			Version:  1,
			Ctime:    now,
			Utime:    now,
		}
		res := tx.Where(Member{Uid: uid}).Attrs(m).FirstOrCreate(&m)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			// 新建成功
			return nil
		}
		if endAt <= m.EndAt {
			// 有效期只前进不后退
			return nil
		}
		res = tx.Model(&Member{}).
			Where("uid = ? AND version = ?", uid, m.Version).
			Updates(map[string]any{
				"plan_type": planType,
				"vip":       1,
				"end_at":    endAt,
				"version":   m.Version + 1,
				"utime":     now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrConcurrentUpdate
		}
		return nil
	})
}

func (g *memberGORMDAO) Revoke(ctx context.Context, uid int64, now int64) (bool, error) {
	res := g.db.WithContext(ctx).Model(&Member{}).
		Where("uid = ? AND vip = 1 AND end_at <= ?", uid, now).
		Updates(map[string]any{
			"vip":   0,
			"utime": time.Now().UnixMilli(),
		})
	return res.RowsAffected > 0, res.Error
}

// Member 会员表, 每个用户只有一条记录, 续费只推进结束日期
type Member struct {
	Id       int64  `gorm:"primaryKey;autoIncrement;comment:会员表自增ID"`
	Uid      int64  `gorm:"not null;uniqueIndex:unq_user_id;comment:用户ID"`
	PlanType string `gorm:"type:varchar(32);not null;comment:最近一次生效的套餐类型"`
	Vip      uint8  `gorm:"type:tinyint unsigned;not null;default:0;comment:是否会员 0=否 1=是"`
	StartAt  int64  `gorm:"not null;comment:会员开始日期,UTC Unix毫秒数"`
	EndAt    int64  `gorm:"not null;comment:会员结束日期,UTC Unix毫秒数"`
	Version  int64  `gorm:"not null;default:1;comment:版本号"`
	Ctime    int64
	Utime    int64
}
