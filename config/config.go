// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config loads default tooltip props from TOML and YAML
// files, and watches those files for changes.
package config

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"cogentcore.org/popover/base/errors"
	"cogentcore.org/popover/tooltip"
	"github.com/pelletier/go-toml/v2"
	"golang.org/x/exp/maps"
	"gopkg.in/yaml.v3"
)

// Decoder is an interface for standard decoder types.
type Decoder interface {
	// Decode decodes from the io.Reader specified at creation.
	Decode(v any) error
}

// DecoderFunc is a function that creates a new Decoder for the given reader.
type DecoderFunc func(r io.Reader) Decoder

// NewDecoderFunc returns a DecoderFunc for a specific Decoder type.
func NewDecoderFunc[T Decoder](f func(r io.Reader) T) DecoderFunc {
	return func(r io.Reader) Decoder { return f(r) }
}

// Decoders are the decoders of the supported file extensions.
var Decoders = map[string]DecoderFunc{
	".toml": NewDecoderFunc(toml.NewDecoder),
	".yaml": NewDecoderFunc(yaml.NewDecoder),
	".yml":  NewDecoderFunc(yaml.NewDecoder),
}

// DecoderFor returns the decoder for the extension of the given file name.
func DecoderFor(filename string) (DecoderFunc, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	f, ok := Decoders[ext]
	if !ok {
		return nil, fmt.Errorf("config: unsupported props file extension %q for %q", ext, filename)
	}
	return f, nil
}

// Load reads the props file with the given name, applying its
// options onto [tooltip.DefaultProps]. Options have the names of
// [tooltip.PropNames]; unknown names are an error.
func Load(filename string) (tooltip.Props, error) {
	f, err := DecoderFor(filename)
	if err != nil {
		return tooltip.Props{}, err
	}
	fp, err := os.Open(filename)
	if err != nil {
		return tooltip.Props{}, err
	}
	defer fp.Close()
	p, err := Read(bufio.NewReader(fp), f)
	if err != nil {
		return p, fmt.Errorf("config: %s: %w", filename, err)
	}
	return p, nil
}

// ReadBytes reads props from the given bytes with the given [DecoderFunc].
func ReadBytes(data []byte, f DecoderFunc) (tooltip.Props, error) {
	return Read(bytes.NewReader(data), f)
}

// Read reads props from the given reader with the given [DecoderFunc].
// The options are decoded into a map first, so that TOML and YAML
// files go through the same checks.
func Read(r io.Reader, f DecoderFunc) (tooltip.Props, error) {
	p := tooltip.DefaultProps()
	raw := map[string]any{}
	if err := f(r).Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return p, err
	}
	if err := CheckNames(raw); err != nil {
		return p, err
	}
	if len(raw) == 0 {
		return p, nil
	}
	b, err := yaml.Marshal(raw)
	if err != nil {
		return p, err
	}
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil {
		return p, optionErrors(err)
	}
	return p, p.Validate()
}

// optionErrors drops the line numbers from yaml type errors, since
// they refer to the re-encoded options and not to the file.
func optionErrors(err error) error {
	var te *yaml.TypeError
	if !errors.As(err, &te) {
		return err
	}
	errs := make([]error, len(te.Errors))
	for i, msg := range te.Errors {
		if strings.HasPrefix(msg, "line ") {
			if _, after, ok := strings.Cut(msg, ": "); ok {
				msg = after
			}
		}
		errs[i] = errors.New(msg)
	}
	return errors.Join(errs...)
}

// CheckNames returns an error for each option name that is not a prop name.
func CheckNames(raw map[string]any) error {
	names := tooltip.PropNames()
	var errs []error
	keys := maps.Keys(raw)
	slices.Sort(keys)
	for _, k := range keys {
		if !slices.Contains(names, k) {
			errs = append(errs, fmt.Errorf("unknown option %q", k))
		}
	}
	return errors.Join(errs...)
}

// Marshal returns the YAML encoding of the file options of the props.
func Marshal(p *tooltip.Props) ([]byte, error) {
	return yaml.Marshal(p)
}
