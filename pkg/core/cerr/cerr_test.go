// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package cerr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/momeni/campus-parking/pkg/core/cerr"
	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	err := fmt.Errorf("handler: %w", cerr.Conflict(cerr.ErrAlreadyPaid))
	assert.Equal(t, cerr.KindConflict, cerr.KindOf(err))
	assert.ErrorIs(t, err, cerr.ErrAlreadyPaid)
	assert.Equal(t, cerr.KindUnknown, cerr.KindOf(errors.New("boom")))
	assert.Equal(t, cerr.KindUnknown, cerr.KindOf(nil))
	assert.Equal(t, "[conflict] invoice is already paid",
		cerr.Conflict(cerr.ErrAlreadyPaid).Error())
}

func TestClassify(t *testing.T) {
	assert.NoError(t, cerr.Classify(nil))
	nf := cerr.NotFound(cerr.ErrSlotNotFound)
	assert.Same(t, nf, cerr.Classify(nf))
	err := cerr.Classify(errors.New("connection reset"))
	assert.Equal(t, cerr.KindPersistence, cerr.KindOf(err))
	assert.Equal(t, "kind(42)", cerr.Kind(42).String())
}
