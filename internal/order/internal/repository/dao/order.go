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
	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

var (
	ErrOrderNotFound    = gorm.ErrRecordNotFound
	ErrDuplicateOrderSN = errors.New("订单序列号重复")
	// ErrInvalidStatus 条件更新没有命中任何行, 订单当前状态不允许该转换
	ErrInvalidStatus = errors.New("订单状态非法")
)

type OrderDAO interface {
	Create(ctx context.Context, o Order) (int64, error)
	FindByUIDAndID(ctx context.Context, uid, id int64) (Order, error)
	FindByUIDAndSN(ctx context.Context, uid int64, sn string) (Order, error)
	FindBySN(ctx context.Context, sn string) (Order, error)
	// FindLatestPendingByUID 查询 uid 在 since 之后创建的最新一笔待支付订单
	FindLatestPendingByUID(ctx context.Context, uid int64, planType string, since int64) (Order, error)
	List(ctx context.Context, uid int64, offset, limit int, payStatus uint8) ([]Order, error)
	Count(ctx context.Context, uid int64, payStatus uint8) (int64, error)
	// MarkPaid 仅当订单处于待支付状态时将其标记为已支付,
	// 返回本次更新命中的行数, 0 行表示状态不满足
	MarkPaid(ctx context.Context, sn string, transactionID string, payTime int64) (int64, error)
	// MarkRefunded 仅当订单处于已支付状态时将其标记为已退款,
	// 同时落库微信侧的退款单号/退款金额/退款成功时间
	MarkRefunded(ctx context.Context, sn string, refundNo, refundID string, refundFee, refundTime int64) (int64, error)
	// Cancel 仅当订单处于待支付状态时取消
	Cancel(ctx context.Context, uid, id int64) (int64, error)
	// Delete 从用户列表中软删除终态订单
	Delete(ctx context.Context, uid, id int64) (int64, error)
	// FindExpiredPending 查询支付截止时间早于 before 的待支付订单
	FindExpiredPending(ctx context.Context, offset, limit int, before int64) ([]Order, error)
	// CloseExpired 批量取消待支付订单, 已被支付回调抢先标记的订单不受影响
	CloseExpired(ctx context.Context, ids []int64) (int64, error)
}

type orderGORMDAO struct {
	db *egorm.Component
}

func NewOrderGORMDAO(db *egorm.Component) OrderDAO {
	return &orderGORMDAO{db: db}
}

func (g *orderGORMDAO) Create(ctx context.Context, o Order) (int64, error) {
	now := time.Now().UnixMilli()
	o.Ctime, o.Utime = now, now
	err := g.db.WithContext(ctx).Create(&o).Error
	if err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) {
			const uniqueIndexConflict uint16 = 1062
			if me.Number == uniqueIndexConflict {
				return 0, ErrDuplicateOrderSN
			}
		}
		return 0, err
	}
	return o.Id, nil
}

func (g *orderGORMDAO) FindByUIDAndID(ctx context.Context, uid, id int64) (Order, error) {
	var o Order
	err := g.db.WithContext(ctx).
		Where("uid = ? AND id = ? AND deleted = 0", uid, id).
		First(&o).Error
	return o, err
}

func (g *orderGORMDAO) FindByUIDAndSN(ctx context.Context, uid int64, sn string) (Order, error) {
	var o Order
	err := g.db.WithContext(ctx).
		Where("uid = ? AND sn = ? AND deleted = 0", uid, sn).
		First(&o).Error
	return o, err
}

func (g *orderGORMDAO) FindBySN(ctx context.Context, sn string) (Order, error) {
	var o Order
	err := g.db.WithContext(ctx).Where("sn = ?", sn).First(&o).Error
	return o, err
}

func (g *orderGORMDAO) FindLatestPendingByUID(ctx context.Context, uid int64, planType string, since int64) (Order, error) {
	var o Order
	err := g.db.WithContext(ctx).
		Where("uid = ? AND plan_type = ? AND pay_status = ? AND deleted = 0 AND ctime >= ?",
			uid, planType, PayStatusPending, since).
		Order("ctime DESC").
		First(&o).Error
	return o, err
}

func (g *orderGORMDAO) List(ctx context.Context, uid int64, offset, limit int, payStatus uint8) ([]Order, error) {
	var os []Order
	query := g.db.WithContext(ctx).Where("uid = ? AND deleted = 0", uid)
	if payStatus != 0 {
		query = query.Where("pay_status = ?", payStatus)
	}
	err := query.Order("ctime DESC").Offset(offset).Limit(limit).Find(&os).Error
	return os, err
}

func (g *orderGORMDAO) Count(ctx context.Context, uid int64, payStatus uint8) (int64, error) {
	var total int64
	query := g.db.WithContext(ctx).Model(&Order{}).Where("uid = ? AND deleted = 0", uid)
	if payStatus != 0 {
		query = query.Where("pay_status = ?", payStatus)
	}
	err := query.Count(&total).Error
	return total, err
}

func (g *orderGORMDAO) MarkPaid(ctx context.Context, sn string, transactionID string, payTime int64) (int64, error) {
	res := g.db.WithContext(ctx).Model(&Order{}).
		Where("sn = ? AND pay_status = ?", sn, PayStatusPending).
		Updates(map[string]any{
			"pay_status":     PayStatusPaid,
			"status":         StatusPaid,
			"transaction_id": transactionID,
			"pay_time":       payTime,
			"utime":          time.Now().UnixMilli(),
		})
	return res.RowsAffected, res.Error
}

func (g *orderGORMDAO) MarkRefunded(ctx context.Context, sn string, refundNo, refundID string, refundFee, refundTime int64) (int64, error) {
	res := g.db.WithContext(ctx).Model(&Order{}).
		Where("sn = ? AND pay_status = ?", sn, PayStatusPaid).
		Updates(map[string]any{
			"pay_status":  PayStatusRefunded,
			"status":      StatusRefunded,
			"refund_no":   refundNo,
			"refund_id":   refundID,
			"refund_fee":  refundFee,
			"refund_time": refundTime,
			"utime":       time.Now().UnixMilli(),
		})
	return res.RowsAffected, res.Error
}

func (g *orderGORMDAO) Cancel(ctx context.Context, uid, id int64) (int64, error) {
	res := g.db.WithContext(ctx).Model(&Order{}).
		Where("uid = ? AND id = ? AND pay_status = ? AND deleted = 0", uid, id, PayStatusPending).
		Updates(map[string]any{
			"pay_status": PayStatusCanceled,
			"status":     StatusCanceled,
			"utime":      time.Now().UnixMilli(),
		})
	return res.RowsAffected, res.Error
}

func (g *orderGORMDAO) Delete(ctx context.Context, uid, id int64) (int64, error) {
	res := g.db.WithContext(ctx).Model(&Order{}).
		Where("uid = ? AND id = ? AND pay_status IN ? AND deleted = 0",
			uid, id, []uint8{PayStatusRefunded, PayStatusCanceled}).
		Updates(map[string]any{
			"deleted": 1,
			"utime":   time.Now().UnixMilli(),
		})
	return res.RowsAffected, res.Error
}

func (g *orderGORMDAO) FindExpiredPending(ctx context.Context, offset, limit int, before int64) ([]Order, error) {
	var os []Order
	err := g.db.WithContext(ctx).
		Where("pay_status = ? AND expire_at <= ?", PayStatusPending, before).
		Order("id ASC").
		Offset(offset).Limit(limit).
		Find(&os).Error
	return os, err
}

func (g *orderGORMDAO) CloseExpired(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := g.db.WithContext(ctx).Model(&Order{}).
		Where("id IN ? AND pay_status = ?", ids, PayStatusPending).
		Updates(map[string]any{
			"pay_status": PayStatusCanceled,
			"status":     StatusCanceled,
			"utime":      time.Now().UnixMilli(),
		})
	return res.RowsAffected, res.Error
}

const (
	PayStatusPending  uint8 = 1
	PayStatusPaid     uint8 = 2
	PayStatusRefunded uint8 = 3
	PayStatusCanceled uint8 = 4

	StatusCreated   uint8 = 1
	StatusPaid      uint8 = 2
	StatusCompleted uint8 = 3
	StatusCanceled  uint8 = 4
	StatusRefunded  uint8 = 5
)

type Order struct {
	Id            int64  `gorm:"primaryKey;autoIncrement;comment:订单自增ID"`
	SN            string `gorm:"type:varchar(64);not null;uniqueIndex:uniq_order_sn;comment:订单号"`
	Uid           int64  `gorm:"not null;index:idx_uid_ctime,priority:1;comment:下单用户ID"`
	PlanType      string `gorm:"type:varchar(32);not null;comment:套餐类型"`
	PlanName      string `gorm:"type:varchar(64);not null;comment:套餐名称快照"`
	Description   string `gorm:"type:varchar(128);not null;comment:订单描述, 微信支付展示用"`
	Amount        int64  `gorm:"not null;comment:订单金额;单位为分, 999表示9.99元"`
	PayStatus     uint8  `gorm:"type:tinyint unsigned;not null;default:1;comment:支付状态 1=待支付 2=已支付 3=已退款 4=已取消"`
	Status        uint8  `gorm:"type:tinyint unsigned;not null;default:1;comment:订单状态 1=已创建 2=已支付 3=已完成 4=已取消 5=已退款"`
	PayTime       int64  `gorm:"comment:支付成功时间,UTC Unix毫秒数"`
	TransactionID string `gorm:"type:varchar(64);not null;default:'';comment:微信支付交易单号"`
	RefundNo      string `gorm:"type:varchar(64);not null;default:'';comment:商户退款单号"`
	RefundID      string `gorm:"type:varchar(64);not null;default:'';comment:微信退款单号"`
	RefundFee     int64  `gorm:"not null;default:0;comment:退款金额,单位为分"`
	RefundTime    int64  `gorm:"not null;default:0;comment:退款成功时间,UTC Unix毫秒数"`
	ExpireAt      int64  `gorm:"not null;comment:未支付订单的关闭时间,UTC Unix毫秒数"`
	Deleted       uint8  `gorm:"type:tinyint unsigned;not null;default:0;comment:是否已从用户列表删除"`
	Ctime         int64  `gorm:"index:idx_uid_ctime,priority:2,sort:desc"`
	Utime         int64
}
