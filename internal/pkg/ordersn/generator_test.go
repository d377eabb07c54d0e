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
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

const expectedSNLength = 32

func TestGenerateWith(t *testing.T) {
	datetime := time.Date(2024, 1, 1, 12, 30, 45, 0, time.Local)
	sng := NewGeneratorWith(func() time.Time { return datetime }, func() string { return "nUfojcH2M5j2j3Tk5A1mf2" })

	testCases := []struct {
		name       string
		uid        int64
		wantPrefix string
	}{
		{
			name:       "用户ID不足四位则补零",
			uid:        1,
			wantPrefix: "202401011230450001",
		},
		{
			name:       "用户ID超过四位只取后四位",
			uid:        123456789,
			wantPrefix: "202401011230456789",
		},
		{
			name:       "用户ID后四位恰好为零",
			uid:        123450000,
			wantPrefix: "202401011230450000",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			sn, err := sng.Generate(tc.uid)

			assert.NoError(t, err)
			assert.True(t, strings.HasPrefix(sn, tc.wantPrefix))
			assert.Equal(t, expectedSNLength, len(sn))
		})
	}
}

func TestGenerate(t *testing.T) {
	sn, err := NewGenerator().Generate(123456789)
	assert.NoError(t, err)
	assert.Contains(t, sn, "6789")
	assert.Equal(t, expectedSNLength, len(sn))
}

func TestGenerateSuffixTooShort(t *testing.T) {
	sng := NewGeneratorWith(time.Now, func() string { return "abc" })
	_, err := sng.Generate(1)
	assert.Error(t, err)
}
