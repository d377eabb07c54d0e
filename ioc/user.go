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

package ioc

import (
	"context"
	"errors"

	"github.com/gotomicro/ego/core/econf"

	"github.com/foodsnap/foodsnap-server/internal/member"
	"github.com/foodsnap/foodsnap-server/internal/user"
)

func InitWechatMiniService() user.OAuth2Service {
	type Config struct {
		AppID     string `yaml:"appID"`
		AppSecret string `yaml:"appSecret"`
	}
	var cfg Config
	err := econf.UnmarshalKey("wechat.mini", &cfg)
	if err != nil {
		panic(err)
	}
	return user.NewWechatMiniService(cfg.AppID, cfg.AppSecret)
}

func newMembershipFinder(svc member.Service) user.MembershipFinder {
	return &membershipFinder{svc: svc}
}

// membershipFinder 把 member 模块适配成资料页需要的窄接口,
// member 依赖 user 的状态镜像, 反向依赖只能走 ioc 适配
type membershipFinder struct {
	svc member.Service
}

func (f *membershipFinder) FindMembership(ctx context.Context, uid int64) (user.Membership, error) {
	m, err := f.svc.MembershipInfo(ctx, uid)
	if err != nil {
		if errors.Is(err, member.ErrMemberNotFound) {
			// 从未购买过会员
			return user.Membership{}, nil
		}
		return user.Membership{}, err
	}
	return user.Membership{
		Vip:   m.IsVip,
		EndAt: m.EndAt,
	}, nil
}
