// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package settings_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momeni/campus-parking/pkg/adapter/config/settings"
)

func TestDuration(t *testing.T) {
	for s, want := range map[string]string{
		"2h":      "2h",
		"90m":     "1h30m",
		"1m":      "1m",
		"45s":     "45s",
		"1h0m30s": "1h0m30s",
		"0s":      "0s",
	} {
		var d settings.Duration
		require.NoError(t, d.UnmarshalText([]byte(s)), s)
		b, err := d.MarshalText()
		require.NoError(t, err)
		assert.Equal(t, want, string(b), s)
	}
	var d settings.Duration
	assert.Error(t, d.UnmarshalText([]byte("soon")))

	var nilD *settings.Duration
	assert.Equal(t, time.Minute, nilD.Std(time.Minute))
	_, err := nilD.MarshalText()
	assert.Error(t, err)
}

func TestDefault(t *testing.T) {
	var p *int
	settings.Default(&p, 3)
	require.NotNil(t, p)
	assert.Equal(t, 3, *p)
	settings.Default(&p, 5)
	assert.Equal(t, 3, *p, "existing values are kept")

	var b *bool
	settings.Nil2Zero(&b)
	require.NotNil(t, b)
	assert.False(t, *b)

}
