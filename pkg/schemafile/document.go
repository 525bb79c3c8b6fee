// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package schemafile loads argv schemas from TOML, YAML, JSON and HCL
// documents.
//
// Every document is validated against an embedded JSON Schema before it is
// compiled, so structural mistakes are reported the same way regardless of
// the source format. Slot types are type expressions (see package
// typeexpr). Defaults are written as the literal tokens a user would type
// and are decoded by the slot's own decoder when the document is compiled.
package schemafile

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/yeetrun/argv/pkg/argv"
	"github.com/yeetrun/argv/pkg/typeexpr"
)

var (
	// ErrInvalidDocument wraps JSON Schema validation failures.
	ErrInvalidDocument = errors.New("invalid schema document")
	// ErrBadDefault is returned when a default does not decode with the
	// slot's type.
	ErrBadDefault = errors.New("bad default")
)

// Document is the declarative form of an argv schema.
type Document struct {
	Name        string          `json:"name,omitempty" toml:"name,omitempty" yaml:"name,omitempty"`
	Description string          `json:"description,omitempty" toml:"description,omitempty" yaml:"description,omitempty"`
	Positional  *PositionalSpec `json:"positional,omitempty" toml:"positional,omitempty" yaml:"positional,omitempty"`
	Slots       []SlotSpec      `json:"slots,omitempty" toml:"slots,omitempty" yaml:"slots,omitempty"`
}

// SlotSpec declares one named slot.
type SlotSpec struct {
	Name        string   `json:"name" toml:"name" yaml:"name"`
	Aliases     []string `json:"aliases,omitempty" toml:"aliases,omitempty" yaml:"aliases,omitempty"`
	Description string   `json:"description,omitempty" toml:"description,omitempty" yaml:"description,omitempty"`
	// Type is a type expression. Empty declares a switch.
	Type string `json:"type,omitempty" toml:"type,omitempty" yaml:"type,omitempty"`
	// Display overrides the type's display name.
	Display  string `json:"display,omitempty" toml:"display,omitempty" yaml:"display,omitempty"`
	Required bool   `json:"required,omitempty" toml:"required,omitempty" yaml:"required,omitempty"`
	// Default is a token or a list of tokens.
	Default    any    `json:"default,omitempty" toml:"default,omitempty" yaml:"default,omitempty"`
	Accumulate string `json:"accumulate,omitempty" toml:"accumulate,omitempty" yaml:"accumulate,omitempty"`
}

// PositionalSpec declares the positional slot.
type PositionalSpec struct {
	Type       string `json:"type" toml:"type" yaml:"type"`
	Display    string `json:"display,omitempty" toml:"display,omitempty" yaml:"display,omitempty"`
	Accumulate string `json:"accumulate,omitempty" toml:"accumulate,omitempty" yaml:"accumulate,omitempty"`
}

//go:embed schema.json
var documentSchemaJSON string

const documentSchemaURL = "schema://argv/document.json"

var documentSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource(documentSchemaURL, strings.NewReader(documentSchemaJSON)); err != nil {
		return nil, err
	}
	return compiler.Compile(documentSchemaURL)
})

// fromValue validates a generic decoded document and converts it into a
// Document. raw must be made of maps, slices and scalars.
func fromValue(raw any) (*Document, error) {
	b, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("encoding document: %w", err)
	}
	return fromJSON(b)
}

func fromJSON(b []byte) (*Document, error) {
	var v any
	if err := decodeJSON(b, &v); err != nil {
		return nil, err
	}
	sch, err := documentSchema()
	if err != nil {
		return nil, fmt.Errorf("compiling document schema: %w", err)
	}
	if err := sch.Validate(v); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	var doc Document
	if err := decodeJSON(b, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// decodeJSON keeps numbers as json.Number so defaults keep their spelling.
func decodeJSON(b []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decoding document: %w", err)
	}
	return nil
}

// Options tune Compile.
type Options struct {
	// Env resolves type names. Nil uses the built-in types.
	Env *typeexpr.Env
	// Logger is passed to the compiled schema.
	Logger *slog.Logger
}

// Compile turns the document into a validated argv schema.
func (d *Document) Compile(opts Options) (*argv.Schema, error) {
	env := opts.Env
	if env == nil {
		env = typeexpr.NewEnv()
	}
	cfg := argv.Config{
		Name:        d.Name,
		Description: d.Description,
		Slots:       make([]argv.Slot, 0, len(d.Slots)),
		Logger:      opts.Logger,
	}
	for _, s := range d.Slots {
		slot, err := s.compile(env)
		if err != nil {
			return nil, fmt.Errorf("slot %q: %w", s.Name, err)
		}
		cfg.Slots = append(cfg.Slots, slot)
	}
	if p := d.Positional; p != nil {
		dec, err := compileType(env, p.Type, p.Display)
		if err != nil {
			return nil, fmt.Errorf("positional: %w", err)
		}
		cfg.Positional = &argv.Positional{Decoder: dec}
		if p.Accumulate != "" {
			c, err := container(p.Accumulate)
			if err != nil {
				return nil, fmt.Errorf("positional: %w", err)
			}
			cfg.Positional.Modifier = argv.Accumulate(c)
		}
	}
	return argv.NewSchema(cfg)
}

func compileType(env *typeexpr.Env, expr, display string) (argv.Decoder, error) {
	if expr == "" {
		return nil, nil
	}
	dec, err := env.Parse(expr)
	if err != nil {
		return nil, err
	}
	if display != "" {
		dec = argv.Rename(dec, display)
	}
	return dec, nil
}

func (s SlotSpec) compile(env *typeexpr.Env) (argv.Slot, error) {
	dec, err := compileType(env, s.Type, s.Display)
	if err != nil {
		return argv.Slot{}, err
	}
	slot := argv.Slot{
		Name:        s.Name,
		Aliases:     s.Aliases,
		Description: s.Description,
		Decoder:     dec,
	}
	switch {
	case s.Required:
		slot.Modifier = argv.Required()
	case s.Accumulate != "":
		c, err := container(s.Accumulate)
		if err != nil {
			return argv.Slot{}, err
		}
		slot.Modifier = argv.Accumulate(c)
	case s.Default != nil:
		if dec == nil {
			return argv.Slot{}, fmt.Errorf("%w: a switch cannot have a default", ErrBadDefault)
		}
		v, err := decodeDefault(dec, s.Default)
		if err != nil {
			return argv.Slot{}, err
		}
		slot.Modifier = argv.Default(v)
	}
	return slot, nil
}

func container(name string) (argv.Container, error) {
	switch name {
	case "list":
		return argv.List, nil
	case "counter":
		return argv.Counter, nil
	case "set":
		return argv.Set, nil
	}
	return 0, fmt.Errorf("%w: unknown accumulate kind %q", argv.ErrInvalidModifier, name)
}

// decodeDefault runs dec over the default's tokens, which must all be
// consumed.
func decodeDefault(dec argv.Decoder, raw any) (any, error) {
	texts, err := defaultTokens(raw)
	if err != nil {
		return nil, err
	}
	tokens := make([]argv.Token, len(texts))
	for i, t := range texts {
		tokens[i] = argv.Token{Text: t}
	}
	c := argv.NewCursor(tokens)
	o := dec.Decode(c)
	if !o.OK() {
		return nil, fmt.Errorf("%w: %q is not a valid %s", ErrBadDefault, texts, o.Expected())
	}
	if c.Index() != len(tokens) {
		return nil, fmt.Errorf("%w: %q has unused tokens after %d", ErrBadDefault, texts, c.Index())
	}
	return o.Value(), nil
}

func defaultTokens(raw any) ([]string, error) {
	if list, ok := raw.([]any); ok {
		out := make([]string, 0, len(list))
		for _, v := range list {
			s, err := scalarText(v)
			if err != nil {
				return nil, err
			}
			out = append(out, s)
		}
		return out, nil
	}
	s, err := scalarText(raw)
	if err != nil {
		return nil, err
	}
	return []string{s}, nil
}

func scalarText(v any) (string, error) {
	switch v := v.(type) {
	case string:
		return v, nil
	case json.Number:
		return v.String(), nil
	case bool:
		return fmt.Sprint(v), nil
	}
	return "", fmt.Errorf("%w: unsupported value %v (%T)", ErrBadDefault, v, v)
}
