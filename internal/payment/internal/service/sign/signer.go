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

package sign

import (
	"crypto/md5"
	"fmt"
	"sort"
	"strings"
)

const signField = "sign"

// Signer 微信支付 v2 风格的 MD5 签名。
// 签名串由除 sign 外的非空参数按键名字典序拼成 k=v&k=v 形式,
// 末尾追加 &key=商户密钥, 取 MD5 后转大写十六进制。
type Signer struct {
	key string
}

func NewSigner(key string) *Signer {
	return &Signer{key: key}
}

// Sign 计算参数签名。密钥为空时拒绝签名
func (s *Signer) Sign(params map[string]string) (string, error) {
	if s.key == "" {
		return "", fmt.Errorf("商户密钥为空")
	}
	keys := make([]string, 0, len(params))
	for k, v := range params {
		if k == signField || v == "" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(params[k])
		b.WriteByte('&')
	}
	b.WriteString("key=")
	b.WriteString(s.key)

	sum := md5.Sum([]byte(b.String()))
	return strings.ToUpper(fmt.Sprintf("%x", sum)), nil
}

// Verify 校验参数携带的签名。缺少签名或任何规整化失败一律视为验签不通过,
// 比较不区分大小写
func (s *Signer) Verify(params map[string]string) bool {
	got := params[signField]
	if got == "" {
		return false
	}
	want, err := s.Sign(params)
	if err != nil {
		return false
	}
	return strings.EqualFold(got, want)
}
