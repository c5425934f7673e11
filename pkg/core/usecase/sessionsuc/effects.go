// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package sessionsuc

import (
	"context"
	"html/template"
	"strings"

	"github.com/momeni/campus-parking/pkg/core/log"
	"github.com/momeni/campus-parking/pkg/core/model"
	"github.com/momeni/campus-parking/pkg/core/notify"
)

// effects collects the side effects of a transaction, so they can be
// performed after its commitment and be dropped after its rollback.
type effects struct {
	slots  []model.Slot
	audits []auditRecord
	msgs   []notify.Message

	activated int // number of activated reservations
}

type auditRecord struct {
	action  string
	actorID model.UserID
	details map[string]any
}

func (eff *effects) slotChanged(s model.Slot) {
	for i := range eff.slots {
		if eff.slots[i].ID == s.ID {
			eff.slots[i] = s
			return
		}
	}
	eff.slots = append(eff.slots, s)
}

func (eff *effects) audit(action string, actorID model.UserID, details map[string]any) {
	eff.audits = append(eff.audits, auditRecord{
		action: action, actorID: actorID, details: details,
	})
}

func (eff *effects) notify(msg notify.Message) {
	if msg.To == "" {
		return
	}
	eff.msgs = append(eff.msgs, msg)
}

// flush performs the collected side effects. Failures are only logged
// because the transaction is already committed.
func (uc *UseCase) flush(ctx context.Context, eff *effects) {
	for _, s := range eff.slots {
		for _, o := range uc.observers {
			o.SlotChanged(ctx, s)
		}
	}
	for _, a := range eff.audits {
		uc.auditor.Record(ctx, a.action, a.actorID, a.details)
	}
	for _, m := range eff.msgs {
		if err := uc.notifier.Send(ctx, m); err != nil {
			log.Warn(
				ctx, "sending notification failed",
				log.Err("err", err),
			)
		}
	}
}

var mailTmpl = template.Must(template.New("mail").Parse(`
{{- define "started" -}}
<p>Hello {{.Name}},</p>
<p>Your parking session for <b>{{.Plate}}</b> at slot <b>{{.Slot}}</b> has started.</p>
<p>Expected exit: {{.Exit}}. Estimated amount: {{.Amount}}.</p>
{{- end -}}
{{- define "reserved" -}}
<p>Hello {{.Name}},</p>
<p>Slot <b>{{.Slot}}</b> is reserved for <b>{{.Plate}}</b> from {{.Entry}} to {{.Exit}}.</p>
<p>Estimated amount: {{.Amount}}.</p>
{{- end -}}
{{- define "cancelled" -}}
<p>Hello {{.Name}},</p>
<p>Your booking of slot <b>{{.Slot}}</b> for <b>{{.Plate}}</b> is cancelled.</p>
<p>Billed amount: {{.Amount}}.</p>
{{- end -}}`))

type mailData struct {
	Name, Plate, Slot string
	Entry, Exit       string
	Amount            string
}

// mail renders the tmpl template. A rendering failure is logged and an
// empty message is returned, which is ignored by effects.notify.
func mail(ctx context.Context, to, subject, tmpl string, d mailData) notify.Message {
	var sb strings.Builder
	if err := mailTmpl.ExecuteTemplate(&sb, tmpl, d); err != nil {
		log.Warn(ctx, "rendering notification failed", log.Err("err", err))
		return notify.Message{}
	}
	return notify.Message{To: to, Subject: subject, HTML: sb.String()}
}

const timeLayout = "2006-01-02 15:04 MST"
