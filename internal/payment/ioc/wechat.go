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

	"github.com/gotomicro/ego/core/econf"
	"github.com/wechatpay-apiv3/wechatpay-go/core"
	"github.com/wechatpay-apiv3/wechatpay-go/core/option"
	"github.com/wechatpay-apiv3/wechatpay-go/services/payments/jsapi"
	"github.com/wechatpay-apiv3/wechatpay-go/utils"

	"github.com/foodsnap/foodsnap-server/internal/payment/internal/service/sign"
	"github.com/foodsnap/foodsnap-server/internal/payment/internal/service/wechat"
	"github.com/foodsnap/foodsnap-server/internal/user"
)

type WechatConfig struct {
	AppID        string
	MchID        string
	MchSerialNum string
	// MchKey APIv3 密钥, 预支付接口用
	MchKey string
	// MchV2Key v2 API 密钥, 回调报文 MD5 验签用
	MchV2Key string

	// KeyPath 商户私钥文件路径
	KeyPath string

	PaymentNotifyURL string
}

func InitWechatConfig() WechatConfig {
	var cfg WechatConfig
	err := econf.UnmarshalKey("wechat.payment", &cfg)
	if err != nil {
		panic(err)
	}
	return cfg
}

func InitWechatClient(cfg WechatConfig) *core.Client {
	// 商户私钥用来生成请求签名
	mchPrivateKey, err := utils.LoadPrivateKeyWithPath(cfg.KeyPath)
	if err != nil {
		panic(err)
	}

	client, err := core.NewClient(
		context.Background(),
		option.WithWechatPayAutoAuthCipher(
			cfg.MchID, cfg.MchSerialNum,
			mchPrivateKey, cfg.MchKey),
	)
	if err != nil {
		panic(err)
	}
	return client
}

func InitJSApiService(cli *core.Client) *jsapi.JsapiApiService {
	return &jsapi.JsapiApiService{
		Client: cli,
	}
}

func InitPrepayService(js wechat.JSAPIService, usr user.UserService, cfg WechatConfig) *wechat.PrepayService {
	return wechat.NewPrepayService(js, usr, cfg.AppID, cfg.MchID, cfg.PaymentNotifyURL)
}

func InitSigner(cfg WechatConfig) *sign.Signer {
	return sign.NewSigner(cfg.MchV2Key)
}
