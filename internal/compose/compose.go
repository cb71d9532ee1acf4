// Copyright 2026 The Virtflash Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package compose drives one flash image composition from artifact to
// persisted file.
package compose

import (
	"fmt"
	"strings"

	"github.com/juju/errors"
	"go.uber.org/zap"

	"github.com/virtflash/virtflash/internal/artifact"
	"github.com/virtflash/virtflash/internal/flash"
)

// Composer composes one flash image: obtain the artifact, plan the
// layout, write the image, move it into place. One-shot and synchronous;
// the first error aborts the run and leaves the destination untouched.
type Composer struct {
	Geometry flash.Geometry
	BaseAddr uint64 // XIP base the image is flashed at, report only
	Source   artifact.Provider
}

// Report summarizes a completed composition. Beyond the image file it is
// the only observable result.
type Report struct {
	Output       string
	Geometry     flash.Geometry
	BaseAddr     uint64
	ArtifactSize uint64
	Layout       flash.Layout
	Margin       uint64 // erased slack between artifact end and metadata
}

func (r *Report) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "image:           %s (%d bytes)\n",
		r.Output, r.Geometry.TotalSize)
	fmt.Fprintf(&b, "base address:    0x%08x\n", r.BaseAddr)
	fmt.Fprintf(&b, "artifact:        %d bytes\n", r.ArtifactSize)
	fmt.Fprintf(&b, "code region:     %d bytes max\n", r.Layout.Code.Size)
	fmt.Fprintf(&b, "metadata offset: %d (0x%x)\n",
		r.Layout.Meta.Offset, r.Layout.Meta.Offset)
	fmt.Fprintf(&b, "margin:          %d bytes\n", r.Margin)
	return b.String()
}

// Compose runs the whole pipeline and persists the image at out. An out
// name ending in .hex selects the Intel HEX format, anything else gets
// the raw image.
func (c *Composer) Compose(out string) (*Report, error) {
	log := Logger()
	data, err := c.Source.Bytes()
	if err != nil {
		return nil, errors.Trace(err)
	}
	log.Debug("artifact obtained", zap.Int("size", len(data)))
	l, err := flash.Plan(c.Geometry, uint64(len(data)))
	if err != nil {
		return nil, errors.Trace(err)
	}
	log.Debug("layout validated",
		zap.Uint64("metaOffset", l.Meta.Offset),
		zap.Uint64("metaSize", l.Meta.Size))
	img, err := flash.Compose(c.Geometry, l, data)
	if err != nil {
		return nil, errors.Trace(err)
	}
	log.Debug("image composed", zap.Int("bytes", len(img)))
	if strings.HasSuffix(out, ".hex") {
		if uint64(uint32(c.BaseAddr)) != c.BaseAddr {
			return nil, errors.Errorf(
				"base address %#x does not fit in 32 bits", c.BaseAddr,
			)
		}
		err = flash.WriteHexFile(out, uint32(c.BaseAddr), img)
	} else {
		err = flash.WriteFile(out, img)
	}
	if err != nil {
		return nil, errors.Trace(err)
	}
	log.Debug("image persisted", zap.String("path", out))
	return &Report{
		Output:       out,
		Geometry:     c.Geometry,
		BaseAddr:     c.BaseAddr,
		ArtifactSize: uint64(len(data)),
		Layout:       l,
		Margin:       l.Meta.Offset - uint64(len(data)),
	}, nil
}
