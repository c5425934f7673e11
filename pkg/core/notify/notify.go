// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package notify exports the notification sender port. Notifications
// are best-effort: use cases send them after their transactions are
// committed and only log the failures. The actual delivery (e.g., via
// a message queue and an email worker) is realized in the adapters
// layer.
package notify

import "context"

// Message is an email-like notification.
type Message struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

// Sender delivers notifications. Send may return before the message
// is actually delivered, so a nil error only means that it is accepted.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Discard is a Sender which drops all messages.
var Discard Sender = discard{}

type discard struct{}

func (discard) Send(context.Context, Message) error {
	return nil
}
