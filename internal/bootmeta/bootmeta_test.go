// Copyright 2026 The Virtflash Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bootmeta

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/virtflash/virtflash/internal/flash"
)

func tImage(metaWords int) ([]byte, flash.Region) {
	img := bytes.Repeat([]byte{flash.Erased}, 64+metaWords*4)
	return img, flash.Region{Offset: 64, Size: uint64(metaWords * 4)}
}

func TestOpenValidation(t *testing.T) {
	img, _ := tImage(4)

	_, err := Open(img, flash.Region{Offset: 64, Size: 0})
	assert.ErrorIs(t, err, ErrBadRegion)

	_, err = Open(img, flash.Region{Offset: 64, Size: 6})
	assert.ErrorIs(t, err, ErrBadRegion)

	_, err = Open(img, flash.Region{Offset: 64, Size: 1024})
	assert.ErrorIs(t, err, ErrBounds)
}

func TestScanErased(t *testing.T) {
	img, meta := tImage(8)
	log, err := Open(img, meta)
	require.NoError(t, err)

	a, b, next := log.Scan()
	assert.Zero(t, a)
	assert.Zero(t, b)
	assert.Zero(t, next)
	assert.True(t, log.TailErased())
}

func TestRecordAndScan(t *testing.T) {
	img, meta := tImage(8)
	log, err := Open(img, meta)
	require.NoError(t, err)

	require.NoError(t, log.Record(BankB))
	require.NoError(t, log.Record(BankB))
	require.NoError(t, log.Record(BankA))

	a, b, next := log.Scan()
	assert.Equal(t, uint32(1), a)
	assert.Equal(t, uint32(2), b)
	assert.Equal(t, 3, next)
	assert.True(t, log.TailErased())

	// Tokens as the loader programs them, little-endian.
	assert.Equal(t, []byte{0x00, 0x00, 0x00, 0x00}, img[64:68])
	assert.Equal(t, []byte{0x11, 0x11, 0x11, 0x11}, img[72:76])
}

func TestRecordFullLog(t *testing.T) {
	img, meta := tImage(2)
	log, err := Open(img, meta)
	require.NoError(t, err)

	require.NoError(t, log.Record(BankA))
	require.NoError(t, log.Record(BankA))
	assert.ErrorIs(t, log.Record(BankA), ErrLogFull)
}

func TestRecordNORSemantics(t *testing.T) {
	img, meta := tImage(4)
	log, err := Open(img, meta)
	require.NoError(t, err)

	// A stray programmed byte makes the first word unrecognized; bank A's
	// token would need 0->1 transitions there, which NOR flash forbids.
	img[64] = 0x00
	err = log.Record(BankA)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "program conflict")
	assert.False(t, log.TailErased())
}

func TestScanStopsAtGarbage(t *testing.T) {
	img, meta := tImage(4)
	log, err := Open(img, meta)
	require.NoError(t, err)

	require.NoError(t, log.Record(BankA))
	copy(img[68:72], []byte{0xDE, 0xAD, 0xBE, 0xEF})

	a, b, next := log.Scan()
	assert.Equal(t, uint32(1), a)
	assert.Zero(t, b)
	assert.Equal(t, 1, next)
	assert.False(t, log.TailErased())
}

func TestComposedImageLogIsEmpty(t *testing.T) {
	g := flash.Geometry{TotalSize: 8 * 4096, EraseBlock: 4096}
	l, err := flash.Plan(g, 16)
	require.NoError(t, err)
	img, err := flash.Compose(g, l, bytes.Repeat([]byte{0x55}, 16))
	require.NoError(t, err)

	log, err := Open(img, l.Meta)
	require.NoError(t, err)
	a, b, next := log.Scan()
	assert.Zero(t, a)
	assert.Zero(t, b)
	assert.Zero(t, next)
	assert.True(t, log.TailErased())
}

func TestParseBank(t *testing.T) {
	b, err := ParseBank("A")
	require.NoError(t, err)
	assert.Equal(t, BankA, b)
	assert.Equal(t, "A", b.String())

	b, err = ParseBank("b")
	require.NoError(t, err)
	assert.Equal(t, BankB, b)

	_, err = ParseBank("C")
	assert.Error(t, err)
}
