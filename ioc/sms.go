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
	"github.com/gotomicro/ego/core/econf"

	"github.com/foodsnap/foodsnap-server/internal/sms/client"
)

func InitSMSClient() client.Client {
	type Config struct {
		Provider string `yaml:"provider"`
		Aliyun   struct {
			AccessKeyID     string `yaml:"accessKeyID"`
			AccessKeySecret string `yaml:"accessKeySecret"`
			SignName        string `yaml:"signName"`
		} `yaml:"aliyun"`
	}
	var cfg Config
	err := econf.UnmarshalKey("sms", &cfg)
	if err != nil {
		panic(err)
	}
	// 本地开发没有短信配置, 打到日志里
	if cfg.Provider != "aliyun" {
		return client.NewConsoleClient()
	}
	aliClient, err := client.NewAliyunSMS(cfg.Aliyun.AccessKeyID, cfg.Aliyun.AccessKeySecret, cfg.Aliyun.SignName)
	if err != nil {
		panic(err)
	}
	return aliClient
}
