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

package database

import (
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
)

const instrumentationName = "internal/pkg/database"

// TracingPlugin 给所有 GORM 操作加上 OpenTelemetry span
type TracingPlugin struct {
	tracer trace.Tracer
}

func NewTracingPlugin() *TracingPlugin {
	return &TracingPlugin{
		tracer: otel.GetTracerProvider().Tracer(instrumentationName),
	}
}

func (p *TracingPlugin) Name() string {
	return "opentelemetry:tracing"
}

func (p *TracingPlugin) Initialize(db *gorm.DB) error {
	cb := db.Callback()
	return errors.Join(
		cb.Create().Before("gorm:create").Register("tracing:create_start", p.start("gorm.create")),
		cb.Create().After("gorm:create").Register("tracing:create_end", p.end),
		cb.Query().Before("gorm:query").Register("tracing:query_start", p.start("gorm.query")),
		cb.Query().After("gorm:query").Register("tracing:query_end", p.end),
		cb.Update().Before("gorm:update").Register("tracing:update_start", p.start("gorm.update")),
		cb.Update().After("gorm:update").Register("tracing:update_end", p.end),
		cb.Delete().Before("gorm:delete").Register("tracing:delete_start", p.start("gorm.delete")),
		cb.Delete().After("gorm:delete").Register("tracing:delete_end", p.end),
		cb.Row().Before("gorm:row").Register("tracing:row_start", p.start("gorm.row")),
		cb.Row().After("gorm:row").Register("tracing:row_end", p.end),
		cb.Raw().Before("gorm:raw").Register("tracing:raw_start", p.start("gorm.raw")),
		cb.Raw().After("gorm:raw").Register("tracing:raw_end", p.end),
	)
}

func (p *TracingPlugin) start(spanName string) func(*gorm.DB) {
	return func(db *gorm.DB) {
		ctx, _ := p.tracer.Start(db.Statement.Context, spanName,
			trace.WithSpanKind(trace.SpanKindClient))
		db.Statement.Context = ctx
	}
}

func (p *TracingPlugin) end(db *gorm.DB) {
	span := trace.SpanFromContext(db.Statement.Context)
	if !span.IsRecording() {
		return
	}
	span.SetAttributes(
		attribute.String("db.system", "mysql"),
		attribute.String("db.table", db.Statement.Table),
	)
	// ErrRecordNotFound 是正常的业务分支, 不算异常
	if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
		span.RecordError(db.Error)
		span.SetStatus(codes.Error, db.Error.Error())
	}
	span.End()
}
