// Copyright 2026 The Virtflash Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package flash

import "fmt"

// GeometryError indicates a flash geometry that cannot be partitioned.
// This is a configuration problem, never a transient one.
type GeometryError struct {
	TotalSize  uint64
	EraseBlock uint64
	Reason     string
}

func (e *GeometryError) Error() string {
	return fmt.Sprintf("bad flash geometry (total %d, erase block %d): %s",
		e.TotalSize, e.EraseBlock, e.Reason)
}

// OverlapError indicates an artifact too large for the code region: its
// tail would spill into the metadata block.
type OverlapError struct {
	ArtifactSize uint64 // bytes in the artifact
	Capacity     uint64 // bytes available before the metadata region
}

// Deficit returns how many bytes the artifact is over capacity.
func (e *OverlapError) Deficit() uint64 { return e.ArtifactSize - e.Capacity }

func (e *OverlapError) Error() string {
	return fmt.Sprintf(
		"artifact (%d bytes) overlaps the metadata region: code region holds %d bytes, %d over",
		e.ArtifactSize, e.Capacity, e.Deficit(),
	)
}
