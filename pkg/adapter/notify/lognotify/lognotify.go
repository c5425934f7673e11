// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package lognotify provides a notify.Sender which only logs the
// notifications. It is used by the development server and whenever
// no message queue is configured.
package lognotify

import (
	"context"
	"log/slog"

	"github.com/momeni/campus-parking/pkg/core/log"
	"github.com/momeni/campus-parking/pkg/core/notify"
)

// Sender logs every message at the info level. The HTML body is only
// logged when Verbose is set.
type Sender struct {
	Verbose bool
}

// New returns a log based notify.Sender.
func New(verbose bool) *Sender {
	return &Sender{Verbose: verbose}
}

// Send implements the notify.Sender interface and never fails.
func (s *Sender) Send(ctx context.Context, msg notify.Message) error {
	attrs := []slog.Attr{
		slog.String("to", msg.To),
		slog.String("subject", msg.Subject),
	}
	if s.Verbose {
		attrs = append(attrs, slog.String("html", msg.HTML))
	}
	log.Info(ctx, "notification", attrs...)
	return nil
}
