// Copyright 2026 The Virtflash Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inspect

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/virtflash/virtflash/internal/bootmeta"
	"github.com/virtflash/virtflash/internal/flash"
	"github.com/virtflash/virtflash/internal/util"
)

const Descr = "inspect the boot metadata of a composed flash image"

func Main(args []string) {
	fs := flag.NewFlagSet(args[0], flag.ExitOnError)
	fs.Usage = func() {
		os.Stderr.WriteString("Usage:\n  inspect [OPTIONS] IMG\nOptions:\n")
		fs.PrintDefaults()
	}
	size := fs.String("size", "32M", "total flash `size`")
	block := fs.String("block", "128K", "erase block `size`")
	base := fs.String("base", "0x20000000", "XIP base `address` for .hex input")
	record := fs.String(
		"record", "",
		"append one boot trial for `bank` (A or B), simulating the loader",
	)
	fs.Parse(args[1:])
	if fs.NArg() != 1 {
		fs.Usage()
		os.Exit(1)
	}
	total, err := util.ParseSize(*size)
	util.FatalErr("size", err)
	blockSize, err := util.ParseSize(*block)
	util.FatalErr("block", err)
	g := flash.Geometry{TotalSize: total, EraseBlock: blockSize}
	l, err := flash.Plan(g, 0)
	util.FatalErr("plan", err)

	path := fs.Arg(0)
	hex := strings.HasSuffix(path, ".hex")
	var img []byte
	if hex {
		baseAddr, err := strconv.ParseUint(*base, 0, 32)
		util.FatalErr("base", err)
		if total >= 1<<32 {
			util.Fatal("inspect: %d byte image too large for Intel HEX", total)
		}
		img, err = flash.ReadHexFile(path, uint32(baseAddr), uint32(total))
		util.FatalErr("inspect", err)
	} else {
		img, err = os.ReadFile(path)
		util.FatalErr("inspect", err)
		if uint64(len(img)) != total {
			util.Fatal("inspect: image is %d bytes, geometry says %d",
				len(img), total)
		}
	}

	log, err := bootmeta.Open(img, l.Meta)
	util.FatalErr("inspect", err)
	if *record != "" {
		if hex {
			util.Fatal("inspect: -record supports raw images only")
		}
		bank, err := bootmeta.ParseBank(*record)
		util.FatalErr("record", err)
		util.FatalErr("record", log.Record(bank))
		util.FatalErr("record", flash.WriteFile(path, img))
	}
	a, b, next := log.Scan()
	fmt.Printf("metadata region: %d bytes at %d (0x%x)\n",
		l.Meta.Size, l.Meta.Offset, l.Meta.Offset)
	fmt.Printf("boot trials:     bank A = %d, bank B = %d, next word = %d\n",
		a, b, next)
	if log.TailErased() {
		fmt.Printf("tail:            erased\n")
	} else {
		fmt.Printf("tail:            NOT erased (stray programmed bytes)\n")
	}
}
