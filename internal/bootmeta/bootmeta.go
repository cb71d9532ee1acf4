// Copyright 2026 The Virtflash Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package bootmeta reads and simulates the boot-trial log the loader
// keeps in the metadata block: one little-endian u32 token per boot
// attempt, appended into erased words. The composer never writes this
// log; the package exists for inspection and for exercising loader
// behavior against composed images.
package bootmeta

import (
	"encoding/binary"

	"github.com/juju/errors"

	"github.com/virtflash/virtflash/internal/flash"
)

const (
	erasedWord = 0xFFFFFFFF
	tokenBankA = 0x11111111
	tokenBankB = 0x00000000

	wordSize = 4
)

// Bank identifies a boot slot in the trial log.
type Bank int

const (
	BankA Bank = iota
	BankB
)

func (b Bank) String() string {
	if b == BankA {
		return "A"
	}
	return "B"
}

// ParseBank converts an operator-facing bank name.
func ParseBank(s string) (Bank, error) {
	switch s {
	case "A", "a":
		return BankA, nil
	case "B", "b":
		return BankB, nil
	}
	return 0, errors.Errorf("unknown bank %q", s)
}

var (
	ErrLogFull   = errors.New("boot-trial log full, block erase required")
	ErrBadRegion = errors.New("metadata region empty or not word aligned")
	ErrBounds    = errors.New("metadata region outside the image")
)

// Log is a view of the boot-trial log within a flash image buffer.
// Mutations go through NOR programming rules: bits only clear.
type Log struct {
	words []byte
}

// Open places a log view over the meta region of img.
func Open(img []byte, meta flash.Region) (*Log, error) {
	if meta.Size == 0 || meta.Size%wordSize != 0 {
		return nil, ErrBadRegion
	}
	if meta.End() > uint64(len(img)) {
		return nil, ErrBounds
	}
	return &Log{img[meta.Offset:meta.End()]}, nil
}

func (l *Log) capacity() int { return len(l.words) / wordSize }

func (l *Log) word(i int) uint32 {
	return binary.LittleEndian.Uint32(l.words[i*wordSize:])
}

// Scan walks the log from the start and stops at the first erased or
// unrecognized word. It returns the per-bank trial counts and the index
// of the first word not holding a valid token.
func (l *Log) Scan() (a, b uint32, next int) {
	for next < l.capacity() {
		switch l.word(next) {
		case tokenBankA:
			a++
		case tokenBankB:
			b++
		default:
			return
		}
		next++
	}
	return
}

// TailErased reports whether everything past the scanned log prefix still
// reads as erased. A false result means leftover programmed bytes the
// loader would misread as records.
func (l *Log) TailErased() bool {
	_, _, next := l.Scan()
	for _, c := range l.words[next*wordSize:] {
		if c != flash.Erased {
			return false
		}
	}
	return true
}

// Record appends one boot trial for bank. The token is programmed into
// the first free word; a full log needs a block erase, which only the
// device (or a recompose) can perform.
func (l *Log) Record(bank Bank) error {
	_, _, next := l.Scan()
	if next >= l.capacity() {
		return ErrLogFull
	}
	token := uint32(tokenBankA)
	if bank == BankB {
		token = tokenBankB
	}
	return l.program(next, token)
}

// program writes one word enforcing NOR semantics: a programmed bit
// cannot be set back to 1 without an erase.
func (l *Log) program(i int, v uint32) error {
	var buf [wordSize]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	off := i * wordSize
	for k, nb := range buf {
		if cur := l.words[off+k]; nb|cur != cur {
			return errors.Errorf(
				"program conflict at word %d: 0x%02x -> 0x%02x sets bits",
				i, cur, nb,
			)
		}
	}
	copy(l.words[off:off+wordSize], buf[:])
	return nil
}
