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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSigner_Sign(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		name    string
		key     string
		params  map[string]string
		want    string
		wantErr bool
	}{
		{
			name: "按键名字典序拼接后取MD5大写",
			key:  "testkey123",
			params: map[string]string{
				"transaction_id": "4200001234",
				"out_trade_no":   "20240601120000123",
				"total_fee":      "990",
			},
			want: "746440E0E00B64D725B4F967341139D1",
		},
		{
			name: "空值参数不参与签名",
			key:  "secret",
			params: map[string]string{
				"a": "1",
				"b": "",
				"c": "2",
			},
			want: "8C37F98DDC418381D5B64F85FE786F9C",
		},
		{
			name: "sign字段本身不参与签名",
			key:  "secret",
			params: map[string]string{
				"out_trade_no": "SN1",
				"nonce_str":    "abc",
				"sign":         "FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFF",
			},
			want: "B5D8074122A9182560805F094442C310",
		},
		{
			name:    "密钥为空拒绝签名",
			key:     "",
			params:  map[string]string{"a": "1"},
			wantErr: true,
		},
	}
	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := NewSigner(tc.key).Sign(tc.params)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestSigner_Verify(t *testing.T) {
	t.Parallel()
	signer := NewSigner("testkey123")
	signed := func() map[string]string {
		params := map[string]string{
			"transaction_id": "4200001234",
			"out_trade_no":   "20240601120000123",
			"total_fee":      "990",
		}
		s, err := signer.Sign(params)
		require.NoError(t, err)
		params["sign"] = s
		return params
	}

	t.Run("签名正确", func(t *testing.T) {
		t.Parallel()
		assert.True(t, signer.Verify(signed()))
	})

	t.Run("签名比较不区分大小写", func(t *testing.T) {
		t.Parallel()
		params := signed()
		params["sign"] = strings.ToLower(params["sign"])
		assert.True(t, signer.Verify(params))
	})

	t.Run("缺少签名字段", func(t *testing.T) {
		t.Parallel()
		params := signed()
		delete(params, "sign")
		assert.False(t, signer.Verify(params))
	})

	t.Run("参数被篡改", func(t *testing.T) {
		t.Parallel()
		params := signed()
		params["total_fee"] = "1"
		assert.False(t, signer.Verify(params))
	})

	t.Run("密钥不一致", func(t *testing.T) {
		t.Parallel()
		assert.False(t, NewSigner("otherkey").Verify(signed()))
	})

	t.Run("密钥为空一律不通过", func(t *testing.T) {
		t.Parallel()
		assert.False(t, NewSigner("").Verify(signed()))
	})
}
