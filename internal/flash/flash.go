// Copyright 2026 The Virtflash Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package flash partitions a NOR flash address space into an XIP code
// region and a trailing metadata block and composes the corresponding
// flash image.
package flash

// Erased is the value every byte of a NOR flash device reads as after a
// bulk erase, before any byte is programmed.
const Erased = 0xFF

// Geometry describes the flash device an image is composed for. It is
// built once from configuration and never mutated.
type Geometry struct {
	TotalSize  uint64 // device size in bytes
	EraseBlock uint64 // erase block size in bytes
}

// Region is a contiguous byte range within the flash address space.
type Region struct {
	Offset uint64
	Size   uint64
}

// End returns the first offset past the region.
func (r Region) End() uint64 { return r.Offset + r.Size }

// Layout partitions the flash address space into the executable region,
// starting at offset 0, and the last erase block, reserved for the boot
// metadata the loader maintains at runtime. The two regions are disjoint.
type Layout struct {
	Code Region
	Meta Region
}

// Check validates the geometry. The total size must be a multiple of the
// erase block size and leave at least one block for code besides the
// metadata block.
func (g Geometry) Check() error {
	if g.TotalSize == 0 || g.EraseBlock == 0 {
		return &GeometryError{g.TotalSize, g.EraseBlock, "zero size"}
	}
	if g.TotalSize%g.EraseBlock != 0 {
		return &GeometryError{
			g.TotalSize, g.EraseBlock,
			"total size is not a multiple of the erase block size",
		}
	}
	if g.TotalSize/g.EraseBlock < 2 {
		return &GeometryError{
			g.TotalSize, g.EraseBlock,
			"metadata block would leave a zero-length code region",
		}
	}
	return nil
}

// Plan derives the region layout for the given geometry and artifact size.
// Plan is pure and deterministic: any later tool given the same geometry
// locates the metadata region at the same offset.
func Plan(g Geometry, artifactSize uint64) (Layout, error) {
	if err := g.Check(); err != nil {
		return Layout{}, err
	}
	metaOffset := g.TotalSize - g.EraseBlock
	if artifactSize > metaOffset {
		return Layout{}, &OverlapError{artifactSize, metaOffset}
	}
	return Layout{
		Code: Region{Offset: 0, Size: metaOffset},
		Meta: Region{Offset: metaOffset, Size: g.EraseBlock},
	}, nil
}
