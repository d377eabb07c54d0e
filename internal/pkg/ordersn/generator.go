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

package ordersn

import (
	"fmt"
	"time"

	"github.com/lithammer/shortuuid/v4"
)

// DatetimeFunc 提供订单号日期前缀的时间来源
type DatetimeFunc func() time.Time

// SuffixFunc 提供订单号的随机后缀
type SuffixFunc func() string

// Generator 生成订单号: 14位日期前缀 + 用户ID后四位 + 随机后缀, 共32位。
// 随机后缀只保证碰撞概率足够小, 唯一性由存储层的唯一索引兜底。
type Generator struct {
	datetimeFunc DatetimeFunc
	suffixFunc   SuffixFunc
}

func NewGeneratorWith(datetimeFunc DatetimeFunc, suffixFunc SuffixFunc) *Generator {
	return &Generator{
		datetimeFunc: datetimeFunc,
		suffixFunc:   suffixFunc,
	}
}

func NewGenerator() *Generator {
	return NewGeneratorWith(time.Now, func() string { return shortuuid.New() })
}

// Generate 使用用户ID生成订单号
func (g *Generator) Generate(uid int64) (string, error) {
	prefix := g.datetimeFunc().Format("20060102150405")
	lastFour := fmt.Sprintf("%04d", uid%10000)
	suffix := g.suffixFunc()
	sn := prefix + lastFour + suffix
	if len(sn) < 32 {
		return "", fmt.Errorf("订单号长度不足: %s", sn)
	}
	return sn[:32], nil
}
