// Copyright 2026 The Virtflash Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package flash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	tTotal = 32 * 1024 * 1024 // QEMU virt pflash size
	tBlock = 128 * 1024
	tMeta  = tTotal - tBlock // 33423360, 0x1FE0000
)

func TestPlanBadGeometry(t *testing.T) {
	cases := []struct {
		name  string
		total uint64
		block uint64
	}{
		{"zero total", 0, tBlock},
		{"zero block", tTotal, 0},
		{"both zero", 0, 0},
		{"not a multiple", tTotal + 1, tBlock},
		{"single block", tBlock, tBlock},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := Plan(Geometry{c.total, c.block}, 0)
			var ge *GeometryError
			require.ErrorAs(t, err, &ge)
			assert.Equal(t, c.total, ge.TotalSize)
			assert.Equal(t, c.block, ge.EraseBlock)
		})
	}
}

func TestPlanLayout(t *testing.T) {
	l, err := Plan(Geometry{tTotal, tBlock}, 4096)
	require.NoError(t, err)

	assert.Equal(t, uint64(0), l.Code.Offset)
	assert.Equal(t, uint64(tMeta), l.Code.Size)
	assert.Equal(t, uint64(tMeta), l.Meta.Offset)
	assert.Equal(t, uint64(0x1FE0000), l.Meta.Offset)
	assert.Equal(t, uint64(tBlock), l.Meta.Size)

	// Disjoint regions covering the whole device.
	assert.Equal(t, l.Code.End(), l.Meta.Offset)
	assert.Equal(t, uint64(tTotal), l.Meta.End())
}

func TestPlanLayoutCoversDevice(t *testing.T) {
	geometries := []Geometry{
		{2 * 4096, 4096},
		{1 << 20, 64 * 1024},
		{tTotal, tBlock},
		{64 * 1024 * 1024, tBlock},
	}
	for _, g := range geometries {
		l, err := Plan(g, 0)
		require.NoError(t, err)
		assert.Equal(t, g.TotalSize, l.Code.Size+l.Meta.Size)
		assert.Equal(t, g.TotalSize, l.Meta.End())
	}
}

func TestPlanOverlap(t *testing.T) {
	_, err := Plan(Geometry{tTotal, tBlock}, tMeta+1)
	var oe *OverlapError
	require.ErrorAs(t, err, &oe)
	assert.Equal(t, uint64(tMeta+1), oe.ArtifactSize)
	assert.Equal(t, uint64(tMeta), oe.Capacity)
	assert.Equal(t, uint64(1), oe.Deficit())
}

func TestPlanBoundaryFit(t *testing.T) {
	// The binary fills the code region completely, zero gap.
	l, err := Plan(Geometry{tTotal, tBlock}, tMeta)
	require.NoError(t, err)
	assert.Equal(t, uint64(tMeta), l.Meta.Offset)
}
