// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package log_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/momeni/campus-parking/pkg/core/log"
	"github.com/momeni/campus-parking/pkg/core/model"
	"github.com/stretchr/testify/assert"
)

func TestAttrs(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	defer slog.SetDefault(prev)
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{
		AddSource: true,
	})))

	id := uuid.MustParse("8b0a4b35-9a2b-4a4c-8f34-0d1c0f8f2b4e")
	log.Warn(
		context.Background(), "notification failed",
		log.ID("session", id),
		log.Stringer("status", model.SessionActive),
		log.Err("err", errors.New("smtp down")),
		log.Err("none", nil),
	)
	out := buf.String()
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, `msg="notification failed"`)
	assert.Contains(t, out, "session="+id.String())
	assert.Contains(t, out, "status=ACTIVE")
	assert.Contains(t, out, `err="smtp down"`)
	assert.Contains(t, out, "none=no-error")
	assert.Contains(t, out, "log_test.go", "caller must be reported")

	buf.Reset()
	log.Debug(context.Background(), "hidden")
	assert.Empty(t, buf.String(), "debug is disabled by default")
}
