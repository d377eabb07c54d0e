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

package consumer

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ecodeclub/mq-api"
	"github.com/gotomicro/ego/core/elog"

	"github.com/foodsnap/foodsnap-server/internal/notification/event"
	"github.com/foodsnap/foodsnap-server/internal/pkg/metrics"
	"github.com/foodsnap/foodsnap-server/internal/sms/client"
	"github.com/foodsnap/foodsnap-server/internal/user"
)

// Config 支付结果短信的模板配置
type Config struct {
	PaymentTemplateID string `yaml:"paymentTemplateID"`
	RefundTemplateID  string `yaml:"refundTemplateID"`
}

// PaymentResultConsumer 消费支付结果事件, 给用户发结果短信。
// 通知是尽力而为的: 任何失败只记日志和指标, 不影响支付对账结果
type PaymentResultConsumer struct {
	consumer  mq.Consumer
	userSvc   user.UserService
	smsClient client.Client
	cfg       *Config
	logger    *elog.Component
}

func NewPaymentResultConsumer(q mq.MQ,
	userSvc user.UserService,
	smsClient client.Client,
	cfg *Config) (*PaymentResultConsumer, error) {
	groupID := "notification.payment"
	consumer, err := q.Consumer(event.PaymentResultEventName, groupID)
	if err != nil {
		return nil, err
	}
	return &PaymentResultConsumer{
		consumer:  consumer,
		userSvc:   userSvc,
		smsClient: smsClient,
		cfg:       cfg,
		logger:    elog.DefaultLogger.With(elog.FieldComponent("notification.payment.consumer")),
	}, nil
}

// Start 后面要考虑借助 ctx 来优雅退出
func (c *PaymentResultConsumer) Start(ctx context.Context) {
	go func() {
		for {
			err := c.Consume(ctx)
			if err != nil {
				metrics.NotificationFailureTotal.Inc()
				c.logger.Error("消费支付结果事件失败", elog.FieldErr(err))
			}
			if ctx.Err() != nil {
				return
			}
		}
	}()
}

func (c *PaymentResultConsumer) Consume(ctx context.Context) error {
	msg, err := c.consumer.Consume(ctx)
	if err != nil {
		return fmt.Errorf("获取消息失败: %w", err)
	}
	var evt event.PaymentResultEvent
	err = json.Unmarshal(msg.Value, &evt)
	if err != nil {
		return fmt.Errorf("解析消息失败: %w", err)
	}
	return c.handleEvent(ctx, evt)
}

func (c *PaymentResultConsumer) handleEvent(ctx context.Context, evt event.PaymentResultEvent) error {
	profile, err := c.userSvc.Profile(ctx, evt.Uid)
	if err != nil {
		return fmt.Errorf("查找用户失败: %w", err)
	}
	if profile.Phone == "" {
		// 小程序用户不强制绑手机号, 没有手机号就没法发短信
		c.logger.Warn("用户没有手机号, 跳过短信通知",
			elog.Int64("uid", evt.Uid),
			elog.String("orderSN", evt.OrderSN))
		return nil
	}

	templateID := c.cfg.PaymentTemplateID
	if evt.Type == event.TypeRefundSucceeded {
		templateID = c.cfg.RefundTemplateID
	}
	_, err = c.smsClient.Send(client.SendReq{
		PhoneNumbers: []string{profile.Phone},
		TemplateID:   templateID,
		TemplateParam: map[string]string{
			"plan":   evt.PlanName,
			"amount": fmt.Sprintf("%.2f", float64(evt.Amount)/100),
		},
	})
	if err != nil {
		return fmt.Errorf("发送短信失败: %w", err)
	}
	return nil
}
