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

//go:build wireinject

package user

import (
	"github.com/ego-component/egorm"
	"github.com/google/wire"

	"github.com/foodsnap/foodsnap-server/internal/user/internal/repository"
	"github.com/foodsnap/foodsnap-server/internal/user/internal/service"
	"github.com/foodsnap/foodsnap-server/internal/user/internal/web"
)

func InitService(db *egorm.Component) UserService {
	wire.Build(
		InitTablesOnce,
		repository.NewUserRepository,
		service.NewUserService,
	)
	return nil
}

func InitHandler(svc UserService, weSvc OAuth2Service, memFinder MembershipFinder) *Handler {
	wire.Build(web.NewHandler)
	return nil
}
