// Copyright 2026 The Virtflash Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSize(t *testing.T) {
	cases := []struct {
		in   string
		want uint64
	}{
		{"0", 0},
		{"4096", 4096},
		{"0x1FE0000", 0x1FE0000},
		{"128K", 128 * 1024},
		{"128k", 128 * 1024},
		{"32M", 32 * 1024 * 1024},
		{"1G", 1 << 30},
	}
	for _, c := range cases {
		got, err := ParseSize(c.in)
		require.NoError(t, err, c.in)
		assert.Equal(t, c.want, got, c.in)
	}

	for _, bad := range []string{"", "x", "12Q", "-1", "99999999999G"} {
		_, err := ParseSize(bad)
		assert.Error(t, err, bad)
	}
}
