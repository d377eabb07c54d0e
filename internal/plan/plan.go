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

package plan

import "errors"

var ErrUnknownPlanType = errors.New("未知的套餐类型")

const (
	TypeMonthly  = "monthly"
	TypeYearly   = "yearly"
	TypeLifetime = "lifetime"
)

// Plan 会员套餐元信息, 价格单位为分
type Plan struct {
	Type     string
	Name     string
	Days     uint64
	Price    int64
	Features []string
}

// 套餐目前是写死的, 调价需要发版。后续如果要支持运营侧改价再落库
var plans = map[string]Plan{
	TypeMonthly: {
		Type:     TypeMonthly,
		Name:     "月付会员",
		Days:     30,
		Price:    990,
		Features: []string{"不限次食物识别", "营养成分分析", "每日饮食报告"},
	},
	TypeYearly: {
		Type:     TypeYearly,
		Name:     "年付会员",
		Days:     365,
		Price:    9900,
		Features: []string{"不限次食物识别", "营养成分分析", "每日饮食报告", "专属客服"},
	},
	TypeLifetime: {
		Type:     TypeLifetime,
		Name:     "终身会员",
		Days:     36500,
		Price:    29900,
		Features: []string{"不限次食物识别", "营养成分分析", "每日饮食报告", "专属客服", "新功能抢先体验"},
	},
}

// FindByType 按套餐类型查找套餐元信息
func FindByType(planType string) (Plan, error) {
	p, ok := plans[planType]
	if !ok {
		return Plan{}, ErrUnknownPlanType
	}
	return p, nil
}

// List 返回全部在售套餐
func List() []Plan {
	return []Plan{plans[TypeMonthly], plans[TypeYearly], plans[TypeLifetime]}
}
