// Copyright 2026 The Virtflash Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package flash

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/juju/errors"
	"github.com/marcinbor85/gohex"
)

// WriteFile persists img at path. The bytes land in a temporary file in
// the destination directory first and are renamed over path only after a
// successful write and close, so a torn image is never visible at path
// and a failed rebuild never clobbers a previously valid one.
func WriteFile(path string, img []byte) error {
	return writeAtomic(path, img)
}

// WriteHexFile persists img at path in the Intel HEX format, with the
// records addressed relative to base (the XIP address the flash device is
// mapped at). The same temporary-then-rename discipline as WriteFile.
func WriteHexFile(path string, base uint32, img []byte) error {
	mem := gohex.NewMemory()
	if err := mem.AddBinary(base, img); err != nil {
		return errors.Trace(err)
	}
	var buf bytes.Buffer
	if err := mem.DumpIntelHex(&buf, 16); err != nil {
		return errors.Trace(err)
	}
	return writeAtomic(path, buf.Bytes())
}

// ReadHexFile reads an Intel HEX image back into a flat buffer of size
// bytes, with unprogrammed holes reading as erased.
func ReadHexFile(path string, base uint32, size uint32) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer f.Close()
	mem := gohex.NewMemory()
	if err := mem.ParseIntelHex(f); err != nil {
		return nil, errors.Annotate(err, path)
	}
	return mem.ToBinary(base, size, Erased), nil
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp")
	if err != nil {
		return errors.Trace(err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return errors.Annotate(err, path)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return errors.Annotate(err, path)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return errors.Trace(err)
	}
	return nil
}
