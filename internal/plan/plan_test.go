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

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFindByType(t *testing.T) {
	testCases := []struct {
		name      string
		planType  string
		wantName  string
		wantDays  uint64
		wantPrice int64
		wantErr   error
	}{
		{
			name:      "月付套餐",
			planType:  TypeMonthly,
			wantName:  "月付会员",
			wantDays:  30,
			wantPrice: 990,
		},
		{
			name:      "年付套餐",
			planType:  TypeYearly,
			wantName:  "年付会员",
			wantDays:  365,
			wantPrice: 9900,
		},
		{
			name:      "终身套餐",
			planType:  TypeLifetime,
			wantName:  "终身会员",
			wantDays:  36500,
			wantPrice: 29900,
		},
		{
			name:     "未知套餐",
			planType: "weekly",
			wantErr:  ErrUnknownPlanType,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := FindByType(tc.planType)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.wantName, p.Name)
			assert.Equal(t, tc.wantDays, p.Days)
			assert.Equal(t, tc.wantPrice, p.Price)
			assert.NotEmpty(t, p.Features)
		})
	}
}

func TestList(t *testing.T) {
	assert.Len(t, List(), 3)
}
