// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argv

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies a parse failure.
type ErrorKind int

const (
	// StrayValue is an untagged token with no positional slot to take it.
	StrayValue ErrorKind = iota + 1
	// AmbiguousArgumentValue is a second value for a non-accumulating slot.
	AmbiguousArgumentValue
	// InvalidArgumentValue is a slot whose decoder rejected the input.
	InvalidArgumentValue
	// MissingArgument is a required slot left empty.
	MissingArgument
)

var (
	ErrStrayValue      = errors.New("stray value")
	ErrAmbiguousValue  = errors.New("ambiguous argument value")
	ErrInvalidValue    = errors.New("invalid argument value")
	ErrMissingArgument = errors.New("missing argument")
)

func (k ErrorKind) sentinel() error {
	switch k {
	case StrayValue:
		return ErrStrayValue
	case AmbiguousArgumentValue:
		return ErrAmbiguousValue
	case InvalidArgumentValue:
		return ErrInvalidValue
	case MissingArgument:
		return ErrMissingArgument
	}
	return nil
}

func (k ErrorKind) String() string {
	switch k {
	case StrayValue:
		return "stray_value"
	case AmbiguousArgumentValue:
		return "ambiguous_arg_value"
	case InvalidArgumentValue:
		return "invalid_arg_value"
	case MissingArgument:
		return "missing_arg"
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// ParseError is the single error a parse can end with.
type ParseError struct {
	Kind ErrorKind
	// TokenIndex is the input position the error refers to. For an invalid
	// value it is where the value was expected; it equals the number of
	// tokens when the input ended early. For a missing argument it is the
	// number of tokens.
	TokenIndex int
	// Token is the text at TokenIndex, empty past the end of input.
	Token string
	// SlotIndex is the declaration index of the slot involved, or -1 for
	// stray and positional errors.
	SlotIndex int
	SlotName  string
	// SlotType is the display name of the slot's value type.
	SlotType string
	// Expected is the display name of what the failing decoder wanted.
	Expected string

	eoi bool
}

func (e *ParseError) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.sentinel().Error())
	switch e.Kind {
	case StrayValue:
		fmt.Fprintf(&b, " %q at position %d", e.Token, e.TokenIndex)
	case AmbiguousArgumentValue:
		fmt.Fprintf(&b, " for %s at position %d", e.slotLabel(), e.TokenIndex)
	case InvalidArgumentValue:
		fmt.Fprintf(&b, " for %s at position %d", e.slotLabel(), e.TokenIndex)
		if e.eoi {
			fmt.Fprintf(&b, ": expected %s, got end of input", e.Expected)
		} else {
			fmt.Fprintf(&b, ": expected %s, got %q", e.Expected, e.Token)
		}
	case MissingArgument:
		fmt.Fprintf(&b, " %s", e.slotLabel())
	}
	return b.String()
}

func (e *ParseError) slotLabel() string {
	if e.SlotIndex < 0 {
		return "positional " + e.SlotType
	}
	return e.SlotName + " " + e.SlotType
}

// Is matches the sentinel for the error's kind.
func (e *ParseError) Is(target error) bool {
	return target != nil && target == e.Kind.sentinel()
}

// Result holds what one Parse produced. It is not modified after Parse
// returns.
type Result struct {
	schema     *Schema
	path       string
	values     []slotValue
	positional slotValue
	err        *ParseError
}

type slotValue struct {
	value any
	// count is the number of successful decodes stored.
	count     int
	defaulted bool
}

func newResult(s *Schema) *Result {
	r := &Result{schema: s, values: make([]slotValue, len(s.slots))}
	for i, slot := range s.slots {
		if k, ok := slot.Modifier.Accumulates(); ok {
			r.values[i].value = k.empty()
		}
	}
	if p := s.positional; p != nil {
		if k, ok := p.Modifier.Accumulates(); ok {
			r.positional.value = k.empty()
		}
	}
	return r
}

// insert stores v according to m and reports false when a single-value slot
// already holds a value.
func (sv *slotValue) insert(m Modifier, v any) bool {
	if k, ok := m.Accumulates(); ok {
		sv.value = k.add(sv.value, v)
		sv.count++
		return true
	}
	if sv.count > 0 {
		return false
	}
	sv.value = v
	sv.count = 1
	return true
}

// Path returns the first input token, usually the program path.
func (r *Result) Path() string { return r.path }

// Schema returns the schema the result was parsed against.
func (r *Result) Schema() *Schema { return r.schema }

// Err returns the parse error as a *ParseError, or nil.
func (r *Result) Err() error {
	if r.err == nil {
		return nil
	}
	return r.err
}

// Lookup returns the value stored for the slot selected by name or alias.
// The boolean is false when the slot received no value and has no default.
// Accumulating slots always return their container, which is empty when
// the boolean is false. Lookup panics if no slot has that name.
func (r *Result) Lookup(name string) (any, bool) {
	_, i, ok := r.schema.Lookup(name)
	if !ok {
		panic(fmt.Sprintf("argv: no slot named %q", name))
	}
	sv := r.values[i]
	return sv.value, sv.count > 0 || sv.defaulted
}

// Count returns how many values the named slot received from input.
func (r *Result) Count(name string) int {
	_, i, ok := r.schema.Lookup(name)
	if !ok {
		panic(fmt.Sprintf("argv: no slot named %q", name))
	}
	return r.values[i].count
}

// PositionalValue returns the positional slot's value. For an accumulating
// positional slot it is the container.
func (r *Result) PositionalValue() (any, bool) {
	return r.positional.value, r.positional.count > 0
}

// Get returns the named slot's value as a T. It reports false if the slot
// is empty or holds a value of another type.
func Get[T any](r *Result, name string) (T, bool) {
	v, ok := r.Lookup(name)
	if !ok {
		var zero T
		return zero, false
	}
	t, ok := v.(T)
	return t, ok
}

// Entry is one slot's state in a Result.
type Entry struct {
	Slot  Slot
	Value any
	// Present is true when the slot received input or a default.
	Present bool
	// Count is the number of values read from input.
	Count int
	// Defaulted is true when the value came from a Default modifier.
	Defaulted bool
}

// Entries returns every slot's state in declaration order.
func (r *Result) Entries() []Entry {
	slots := r.schema.Slots()
	out := make([]Entry, len(slots))
	for i, slot := range slots {
		sv := r.values[i]
		out[i] = Entry{
			Slot:      slot,
			Value:     sv.value,
			Present:   sv.count > 0 || sv.defaulted,
			Count:     sv.count,
			Defaulted: sv.defaulted,
		}
	}
	return out
}
