// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package sessionsuc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/momeni/campus-parking/pkg/core/cerr"
	"github.com/momeni/campus-parking/pkg/core/log"
	"github.com/momeni/campus-parking/pkg/core/model"
	"github.com/momeni/campus-parking/pkg/core/repo"
)

// Sweep use case activates all reservations whose entry time is
// reached and re-derives their slots states. Each slot is refreshed in
// its own transaction. It returns the number of activated sessions and
// the joined errors of the failed slots (if any).
func (uc *UseCase) Sweep(ctx context.Context) (int, error) {
	now := uc.now()
	var due []model.SlotID
	err := uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		var err error
		due, err = uc.sessions.Conn(c).DueSlots(ctx, now)
		return err
	})
	if err != nil {
		return 0, cerr.Classify(fmt.Errorf("finding due slots: %w", err))
	}
	activated := 0
	var errs []error
	for _, id := range due {
		var eff effects
		err := uc.inTx(ctx, func(ctx context.Context, tx repo.Tx) error {
			return uc.refreshSlots(ctx, tx, []model.SlotID{id}, now, &eff)
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("slot %s: %w", id, err))
			continue
		}
		activated += eff.activated
		uc.flush(ctx, &eff)
	}
	return activated, errors.Join(errs...)
}

// RunSweeper calls Sweep every interval until ctx is done.
// Sweep failures are logged and do not stop the sweeper.
func (uc *UseCase) RunSweeper(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
		}
		n, err := uc.Sweep(ctx)
		if err != nil {
			log.Warn(ctx, "sweeping reservations failed", log.Err("err", err))
		}
		if n > 0 {
			log.Info(ctx, "activated due reservations", slog.Int("count", n))
		}
	}
}
