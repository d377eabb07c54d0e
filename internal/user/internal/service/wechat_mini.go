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

package service

import (
	"context"
	"fmt"
	"net/http"

	"github.com/ecodeclub/ekit/net/httpx"
	"github.com/gotomicro/ego/core/elog"

	"github.com/foodsnap/foodsnap-server/internal/user/internal/domain"
)

// OAuth2Service 把小程序登录凭证换成微信身份
type OAuth2Service interface {
	VerifyCode(ctx context.Context, code string) (domain.WechatInfo, error)
}

type WechatMiniService struct {
	appID     string
	appSecret string
	logger    *elog.Component
	client    *http.Client
}

func NewWechatMiniService(appID string, appSecret string) *WechatMiniService {
	return &WechatMiniService{
		appID:     appID,
		appSecret: appSecret,
		logger:    elog.DefaultLogger,
		client:    http.DefaultClient,
	}
}

func (s *WechatMiniService) VerifyCode(ctx context.Context, code string) (domain.WechatInfo, error) {
	const baseURL = "https://api.weixin.qq.com/sns/jscode2session"
	var res code2SessionResult
	err := httpx.NewRequest(ctx, http.MethodGet, baseURL).
		Client(s.client).
		AddParam("appid", s.appID).
		AddParam("secret", s.appSecret).AddParam("js_code", code).
		AddParam("grant_type", "authorization_code").Do().
		JSONScan(&res)
	if err != nil {
		return domain.WechatInfo{}, err
	}
	if res.ErrCode != 0 {
		return domain.WechatInfo{},
			fmt.Errorf("小程序登录失败 %d, %s", res.ErrCode, res.ErrMsg)
	}
	return domain.WechatInfo{
		MiniOpenID: res.OpenID,
		UnionID:    res.UnionID,
	}, nil
}

type code2SessionResult struct {
	ErrCode int64  `json:"errcode"`
	ErrMsg  string `json:"errmsg"`
	OpenID  string `json:"openid"`
	UnionID string `json:"unionid"`
}
