// Copyright 2026 The Virtflash Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compose

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/virtflash/virtflash/internal/artifact"
	composer "github.com/virtflash/virtflash/internal/compose"
	"github.com/virtflash/virtflash/internal/flash"
	"github.com/virtflash/virtflash/internal/util"
)

const Descr = "compose a bootable NOR flash image from an SPL binary"

func Main(args []string) {
	fs := flag.NewFlagSet(args[0], flag.ExitOnError)
	fs.Usage = func() {
		os.Stderr.WriteString("Usage:\n  compose [OPTIONS] INPUT [IMG]\nOptions:\n")
		fs.PrintDefaults()
	}
	size := fs.String("size", "32M", "total flash `size`")
	block := fs.String("block", "128K", "erase block `size`")
	base := fs.String(
		"base", "0x20000000",
		"XIP base `address`, informational and for .hex output",
	)
	build := fs.String(
		"build", "",
		"external build `command` to run (via sh -c) before reading INPUT",
	)
	raw := fs.Bool(
		"raw", false,
		"treat INPUT as a flat binary even with an .elf suffix",
	)
	verbose := fs.Bool("v", false, "log the composition steps")
	fs.Parse(args[1:])
	if fs.NArg() < 1 || fs.NArg() > 2 {
		fs.Usage()
		os.Exit(1)
	}
	total, err := util.ParseSize(*size)
	util.FatalErr("size", err)
	blockSize, err := util.ParseSize(*block)
	util.FatalErr("block", err)
	baseAddr, err := strconv.ParseUint(*base, 0, 64)
	util.FatalErr("base", err)

	in := fs.Arg(0)
	out := fs.Arg(1)
	if out == "" {
		out = strings.TrimSuffix(in, filepath.Ext(in)) + ".img"
	}
	var src artifact.Provider
	if strings.HasSuffix(in, ".elf") && !*raw {
		src = artifact.ELF(in)
	} else {
		src = artifact.File(in)
	}
	if *build != "" {
		src = artifact.Build([]string{"sh", "-c", *build}, src)
	}
	if *verbose {
		log, err := zap.NewDevelopment()
		util.FatalErr("", err)
		composer.SetLogger(log)
		defer log.Sync()
	}
	c := &composer.Composer{
		Geometry: flash.Geometry{TotalSize: total, EraseBlock: blockSize},
		BaseAddr: baseAddr,
		Source:   src,
	}
	rep, err := c.Compose(out)
	util.FatalErr("compose", err)
	fmt.Print(rep)
}
