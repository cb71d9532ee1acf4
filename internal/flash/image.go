// Copyright 2026 The Virtflash Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package flash

// Compose builds the complete flash image for the layout: erased
// background, artifact at offset 0, metadata block erased. Either the
// whole image is returned or an error and no image.
func Compose(g Geometry, l Layout, artifact []byte) ([]byte, error) {
	if err := g.Check(); err != nil {
		return nil, err
	}
	if l.Meta.End() != g.TotalSize {
		return nil, &GeometryError{
			g.TotalSize, g.EraseBlock,
			"layout does not match geometry",
		}
	}
	if uint64(len(artifact)) > l.Meta.Offset {
		return nil, &OverlapError{uint64(len(artifact)), l.Meta.Offset}
	}
	img := make([]byte, g.TotalSize)
	for i := range img {
		img[i] = Erased
	}
	copy(img, artifact)
	// The full fill above already erased the metadata block. Erase it
	// again anyway: a freshly composed image must deliver the block
	// erased as a property of its own, not as a side effect of how the
	// rest of the buffer was filled.
	EraseRegion(img, l.Meta)
	return img, nil
}

// EraseRegion resets every byte of r within img to the erased value.
func EraseRegion(img []byte, r Region) {
	for i := r.Offset; i < r.End() && i < uint64(len(img)); i++ {
		img[i] = Erased
	}
}

// CheckErased reports the offset of the first byte of r within img that
// is not in the erased state. The second result is false when the whole
// region reads as erased.
func CheckErased(img []byte, r Region) (uint64, bool) {
	for i := r.Offset; i < r.End() && i < uint64(len(img)); i++ {
		if img[i] != Erased {
			return i, true
		}
	}
	return 0, false
}
