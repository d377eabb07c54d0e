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

package job

import (
	"context"
	"fmt"
	"time"

	"github.com/ecodeclub/ekit/slice"

	"github.com/foodsnap/foodsnap-server/internal/order/internal/domain"
	"github.com/foodsnap/foodsnap-server/internal/order/internal/service"
)

// CloseExpiredOrdersJob 定时取消超过支付截止时间仍未支付的订单
type CloseExpiredOrdersJob struct {
	svc     service.Service
	limit   int
	timeout time.Duration
}

func NewCloseExpiredOrdersJob(svc service.Service, limit int, timeout time.Duration) *CloseExpiredOrdersJob {
	return &CloseExpiredOrdersJob{svc: svc, limit: limit, timeout: timeout}
}

func (c *CloseExpiredOrdersJob) Name() string {
	return "CloseExpiredOrdersJob"
}

func (c *CloseExpiredOrdersJob) Run(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	// 冗余10秒, 避免和刚好到期订单的支付回调竞争
	before := time.Now().Add(-10 * time.Second).UnixMilli()

	for {
		orders, err := c.svc.FindExpiredOrders(ctx, 0, c.limit, before)
		if err != nil {
			return fmt.Errorf("获取过期订单失败: %w", err)
		}

		ids := slice.Map(orders, func(idx int, src domain.Order) int64 {
			return src.ID
		})

		err = c.svc.CloseExpiredOrders(ctx, ids)
		if err != nil {
			return fmt.Errorf("关闭过期订单失败: %w", err)
		}

		// 取消后订单离开待支付集合, 每轮都从头查询即可
		if len(orders) < c.limit {
			return nil
		}
	}
}
