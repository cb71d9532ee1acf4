// Copyright 2026 The Virtflash Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package plan

import (
	"flag"
	"fmt"
	"os"

	"github.com/virtflash/virtflash/internal/flash"
	"github.com/virtflash/virtflash/internal/util"
)

const Descr = "print the flash layout for an artifact and geometry"

func Main(args []string) {
	fs := flag.NewFlagSet(args[0], flag.ExitOnError)
	fs.Usage = func() {
		os.Stderr.WriteString("Usage:\n  plan [OPTIONS] [ARTIFACT]\nOptions:\n")
		fs.PrintDefaults()
	}
	size := fs.String("size", "32M", "total flash `size`")
	block := fs.String("block", "128K", "erase block `size`")
	n := fs.String("n", "", "hypothetical artifact `size` instead of a file")
	fs.Parse(args[1:])
	if fs.NArg() > 1 || (fs.NArg() == 0 && *n == "") {
		fs.Usage()
		os.Exit(1)
	}
	total, err := util.ParseSize(*size)
	util.FatalErr("size", err)
	blockSize, err := util.ParseSize(*block)
	util.FatalErr("block", err)

	var artifactSize uint64
	if *n != "" {
		artifactSize, err = util.ParseSize(*n)
		util.FatalErr("n", err)
	} else {
		fi, err := os.Stat(fs.Arg(0))
		util.FatalErr("artifact", err)
		artifactSize = uint64(fi.Size())
	}
	g := flash.Geometry{TotalSize: total, EraseBlock: blockSize}
	l, err := flash.Plan(g, artifactSize)
	util.FatalErr("plan", err)
	fmt.Printf("flash:           %d bytes, %d byte blocks\n",
		g.TotalSize, g.EraseBlock)
	fmt.Printf("artifact:        %d bytes\n", artifactSize)
	fmt.Printf("code region:     %d bytes max\n", l.Code.Size)
	fmt.Printf("metadata offset: %d (0x%x)\n", l.Meta.Offset, l.Meta.Offset)
	fmt.Printf("margin:          %d bytes\n", l.Meta.Offset-artifactSize)
}
