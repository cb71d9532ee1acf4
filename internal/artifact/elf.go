// Copyright 2026 The Virtflash Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package artifact

import (
	"bytes"
	"debug/elf"
	"os"
	"sort"

	"github.com/juju/errors"
)

// ELF returns a provider that flattens the loadable sections of an ELF
// file into a raw image. Sections are placed by physical address relative
// to the lowest one and the gaps between them are filled with the flash
// erased value, so the result can go into the image as-is.
func ELF(path string) Provider { return elfProvider(path) }

type elfProvider string

func (p elfProvider) Bytes() ([]byte, error) {
	r, err := os.Open(string(p))
	if err != nil {
		return nil, &MissingError{string(p), err}
	}
	defer r.Close()
	f, err := elf.NewFile(r)
	if err != nil {
		return nil, errors.Annotate(err, string(p))
	}
	defer f.Close()
	ss, err := loadSections(f)
	if err != nil {
		return nil, errors.Annotate(err, string(p))
	}
	if len(ss) == 0 {
		return nil, errors.Errorf("%s: no loadable sections", string(p))
	}
	return flatten(ss)
}

type section struct {
	paddr uint64 // physical location in the flash
	data  []byte
}

func loadSections(f *elf.File) ([]section, error) {
	ss := make([]section, 0, 16)
	for _, s := range f.Sections {
		if s.Type != elf.SHT_PROGBITS || s.Flags&elf.SHF_ALLOC == 0 {
			continue
		}
		data, err := s.Data()
		if err != nil {
			return nil, err
		}
		if len(data) == 0 {
			continue
		}
		paddr := ^uint64(0)
		for _, p := range f.Progs {
			if p.Type != elf.PT_LOAD {
				continue
			}
			if p.Off <= s.Offset && s.Offset < p.Off+p.Filesz {
				paddr = p.Paddr + s.Offset - p.Off
				break
			}
		}
		if paddr == ^uint64(0) {
			return nil, errors.Errorf(
				"section %s is outside of any PT_LOAD segment", s.Name,
			)
		}
		ss = append(ss, section{paddr, data})
	}
	return ss, nil
}

// flatten writes the sections out in physical-address order, starting at
// the lowest address, padding inter-section gaps with 0xFF.
func flatten(ss []section) ([]byte, error) {
	sort.Slice(ss, func(i, j int) bool { return ss[i].paddr < ss[j].paddr })
	var buf bytes.Buffer
	pa := ss[0].paddr
	for _, s := range ss {
		if s.paddr < pa {
			return nil, errors.New("flatten: overlapping sections")
		}
		for ; pa < s.paddr; pa++ {
			buf.WriteByte(0xFF)
		}
		buf.Write(s.data)
		pa += uint64(len(s.data))
	}
	return buf.Bytes(), nil
}
