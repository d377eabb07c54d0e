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

type Service interface {
	FindByType(planType string) (Plan, error)
	List() []Plan
}

func NewService() Service {
	return catalogService{}
}

type catalogService struct{}

func (catalogService) FindByType(planType string) (Plan, error) {
	return FindByType(planType)
}

func (catalogService) List() []Plan {
	return List()
}
