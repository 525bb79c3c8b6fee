// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argv

import (
	"errors"
	"fmt"
	"log/slog"

	"tailscale.com/util/mak"
)

var (
	// ErrNameCollision is returned when two slots share a name or alias.
	ErrNameCollision = errors.New("name collision")
	// ErrEmptyName is returned for a slot with an empty name or alias.
	ErrEmptyName = errors.New("empty name")
	// ErrInvalidModifier is returned for a modifier that cannot apply to the
	// slot it is attached to.
	ErrInvalidModifier = errors.New("invalid modifier")
	// ErrNilDecoder is returned for a positional slot without a decoder.
	ErrNilDecoder = errors.New("nil decoder")
)

// SchemaError describes why a schema could not be built.
type SchemaError struct {
	// Slot is the index of the offending slot, or -1 for the positional slot.
	Slot int
	// Name is the offending name or alias, if any.
	Name string
	Err  error
}

func (e *SchemaError) Error() string {
	who := "positional slot"
	if e.Slot >= 0 {
		who = fmt.Sprintf("slot %d", e.Slot)
	}
	if e.Name != "" {
		return fmt.Sprintf("argv: %s: %v: %q", who, e.Err, e.Name)
	}
	return fmt.Sprintf("argv: %s: %v", who, e.Err)
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}

type modifierKind int

const (
	plain modifierKind = iota
	required
	defaulted
	accumulating
)

// Modifier controls how a slot stores decoded values and what happens to
// it when the input runs out. The zero Modifier is a plain slot that holds
// at most one value.
type Modifier struct {
	kind      modifierKind
	provide   func() any
	container Container
}

// Required makes a missing slot a parse error.
func Required() Modifier {
	return Modifier{kind: required}
}

// Default fills an empty slot with v once input is exhausted.
func Default(v any) Modifier {
	return Modifier{kind: defaulted, provide: func() any { return v }}
}

// DefaultFunc is like Default but calls fn for the value.
func DefaultFunc(fn func() any) Modifier {
	return Modifier{kind: defaulted, provide: fn}
}

// Accumulate lets the slot receive any number of values, merged into the
// given container.
func Accumulate(c Container) Modifier {
	return Modifier{kind: accumulating, container: c}
}

// IsRequired reports whether the modifier was built by Required.
func (m Modifier) IsRequired() bool { return m.kind == required }

// HasDefault reports whether the modifier was built by Default or
// DefaultFunc.
func (m Modifier) HasDefault() bool { return m.kind == defaulted }

// Accumulates reports the container kind of an accumulating modifier.
func (m Modifier) Accumulates() (Container, bool) {
	return m.container, m.kind == accumulating
}

func (m Modifier) String() string {
	switch m.kind {
	case required:
		return "required"
	case defaulted:
		return "default"
	case accumulating:
		return "accumulate(" + m.container.String() + ")"
	}
	return "plain"
}

func (m Modifier) check() error {
	switch m.kind {
	case defaulted:
		if m.provide == nil {
			return ErrInvalidModifier
		}
	case accumulating:
		if !m.container.valid() {
			return ErrInvalidModifier
		}
	}
	return nil
}

// Slot declares one named argument.
type Slot struct {
	// Name is the primary token that selects the slot, e.g. "--output".
	Name    string
	Aliases []string
	// Description is free text for help and listings.
	Description string
	// Decoder reads the slot's value. A nil Decoder declares a switch that
	// takes no value and records true when present.
	Decoder  Decoder
	Modifier Modifier
}

// TypeName returns the display name of the slot's value type.
func (s Slot) TypeName() string {
	if s.Decoder == nil {
		return emptyName
	}
	return s.Decoder.Name()
}

// Names returns the name followed by the aliases.
func (s Slot) Names() []string {
	return append([]string{s.Name}, s.Aliases...)
}

// Positional declares the slot that receives tokens not naming any slot.
type Positional struct {
	Decoder  Decoder
	Modifier Modifier
}

// TypeName returns the display name of the positional value type.
func (p Positional) TypeName() string {
	if p.Decoder == nil {
		return emptyName
	}
	return p.Decoder.Name()
}

// Config describes a schema to build with NewSchema.
type Config struct {
	// Name and Description identify the program in listings.
	Name        string
	Description string
	Slots       []Slot
	// Positional is optional. Without it an untagged token is a stray value.
	Positional *Positional
	// Logger receives debug records for every dispatch step. Nil disables
	// logging.
	Logger *slog.Logger
}

// Schema is an immutable, validated set of slots. It is safe to call Parse
// from multiple goroutines.
type Schema struct {
	name        string
	description string
	slots       []Slot
	positional  *Positional
	index       map[string]int
	logger      *slog.Logger
}

// NewSchema validates cfg and returns the schema. Names and aliases are
// compared exactly and must be unique across all slots.
func NewSchema(cfg Config) (*Schema, error) {
	s := &Schema{
		name:        cfg.Name,
		description: cfg.Description,
		slots:       make([]Slot, len(cfg.Slots)),
		logger:      cfg.Logger,
	}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}
	for i, slot := range cfg.Slots {
		slot.Aliases = append([]string(nil), slot.Aliases...)
		for _, n := range slot.Names() {
			if n == "" {
				return nil, &SchemaError{Slot: i, Err: ErrEmptyName}
			}
			if _, dup := s.index[n]; dup {
				return nil, &SchemaError{Slot: i, Name: n, Err: ErrNameCollision}
			}
			mak.Set(&s.index, n, i)
		}
		if err := slot.Modifier.check(); err != nil {
			return nil, &SchemaError{Slot: i, Name: slot.Name, Err: err}
		}
		if slot.Decoder == nil && slot.Modifier.kind == accumulating && slot.Modifier.container != Counter {
			// A switch carries no value to collect, only a count.
			return nil, &SchemaError{Slot: i, Name: slot.Name, Err: fmt.Errorf("%w: switch with %v", ErrInvalidModifier, slot.Modifier)}
		}
		s.slots[i] = slot
	}
	if p := cfg.Positional; p != nil {
		if p.Decoder == nil {
			return nil, &SchemaError{Slot: -1, Err: ErrNilDecoder}
		}
		switch p.Modifier.kind {
		case plain, accumulating:
		default:
			return nil, &SchemaError{Slot: -1, Err: fmt.Errorf("%w: %v", ErrInvalidModifier, p.Modifier)}
		}
		if err := p.Modifier.check(); err != nil {
			return nil, &SchemaError{Slot: -1, Err: err}
		}
		pc := *p
		s.positional = &pc
	}
	return s, nil
}

// MustSchema is like NewSchema but panics on error. It is meant for schemas
// declared as package-level variables.
func MustSchema(cfg Config) *Schema {
	s, err := NewSchema(cfg)
	if err != nil {
		panic(err)
	}
	return s
}

// Name returns the program name from the Config.
func (s *Schema) Name() string { return s.name }

// Description returns the program description from the Config.
func (s *Schema) Description() string { return s.description }

// Slots returns a copy of the declared slots in order.
func (s *Schema) Slots() []Slot {
	out := make([]Slot, len(s.slots))
	for i, slot := range s.slots {
		slot.Aliases = append([]string(nil), slot.Aliases...)
		out[i] = slot
	}
	return out
}

// Positional returns the positional slot, if declared.
func (s *Schema) Positional() (Positional, bool) {
	if s.positional == nil {
		return Positional{}, false
	}
	return *s.positional, true
}

// Lookup finds the slot selected by name, which may be an alias, and
// returns it together with its index.
func (s *Schema) Lookup(name string) (Slot, int, bool) {
	i, ok := s.index[name]
	if !ok {
		return Slot{}, -1, false
	}
	slot := s.slots[i]
	slot.Aliases = append([]string(nil), slot.Aliases...)
	return slot, i, true
}

// tag classifies every argument against the slot names.
func (s *Schema) tag(args []string) []Token {
	tokens := make([]Token, len(args))
	for i, a := range args {
		tokens[i].Text = a
		if j, ok := s.index[a]; ok {
			tokens[i].Slot = j + 1
		}
	}
	return tokens
}
