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
	"github.com/ecodeclub/mq-api"

	"github.com/foodsnap/foodsnap-server/internal/payment/internal/event"
)

func InitPaymentEventProducer(q mq.MQ) (event.PaymentEventProducer, error) {
	p, err := q.Producer(event.PaymentEvent{}.Topic())
	if err != nil {
		return nil, err
	}
	return event.NewPaymentEventProducer(p)
}
