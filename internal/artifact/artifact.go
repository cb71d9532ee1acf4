// Copyright 2026 The Virtflash Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package artifact supplies the loader binary to the composer as a flat,
// opaque byte sequence.
package artifact

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/juju/errors"
)

// Provider supplies the compiled loader. Building the loader is someone
// else's job; a provider only obtains the resulting bytes.
type Provider interface {
	Bytes() ([]byte, error)
}

// MissingError indicates that the artifact cannot be located or read.
// Not retried: the caller is expected to (re)run the build step first.
type MissingError struct {
	Path string
	Err  error
}

func (e *MissingError) Error() string {
	return fmt.Sprintf("artifact %s: %v", e.Path, e.Err)
}

func (e *MissingError) Unwrap() error { return e.Err }

// File returns a provider reading a flat, already converted binary.
func File(path string) Provider { return fileProvider(path) }

type fileProvider string

func (p fileProvider) Bytes() ([]byte, error) {
	data, err := os.ReadFile(string(p))
	if err != nil {
		return nil, &MissingError{string(p), err}
	}
	return data, nil
}

// Build returns a provider that runs an external build command once and
// then delegates to inner for the produced bytes. The command's output
// goes straight to the user; a failed build aborts without retry.
func Build(argv []string, inner Provider) Provider {
	return &buildProvider{argv, inner}
}

type buildProvider struct {
	argv  []string
	inner Provider
}

func (p *buildProvider) Bytes() ([]byte, error) {
	if len(p.argv) == 0 {
		return nil, errors.New("build: empty command")
	}
	cmd := exec.Command(p.argv[0], p.argv[1:]...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return nil, errors.Annotate(err, "build "+p.argv[0])
	}
	return p.inner.Bytes()
}
