// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argv

import "strings"

// Decoder attempts to read a value from a cursor.
//
// A decoder that fails must leave the cursor where it found it, with the
// exception of Validate, whose rejection happens after the token was read.
type Decoder interface {
	Decode(c *Cursor) Outcome
	// Name is the display name used in error reports, e.g. "integer" or
	// "<integer, number>".
	Name() string
}

// Outcome is the result of one decode attempt: either a value, marked as read
// from input (explicit) or synthesized, or a failure carrying the display
// name of what was expected.
type Outcome struct {
	value    any
	explicit bool
	expected string
	failed   bool
	// at is the token index where a failure was detected, when it lies
	// past the point the decode started from.
	at      int
	located bool
}

// Decoded returns a successful outcome. explicit must be true only when the
// value was read from input tokens.
func Decoded(v any, explicit bool) Outcome {
	return Outcome{value: v, explicit: explicit}
}

// Failed returns a failed outcome expecting the named type.
func Failed(expected string) Outcome {
	return Outcome{expected: expected, failed: true}
}

// OK reports whether the decode produced a value.
func (o Outcome) OK() bool { return !o.failed }

// Value returns the decoded value, or nil for a failed outcome.
func (o Outcome) Value() any { return o.value }

// Explicit reports whether the value was read from input. It is false for
// failures and for synthesized defaults.
func (o Outcome) Explicit() bool { return !o.failed && o.explicit }

// Expected returns the expected type name of a failed outcome.
func (o Outcome) Expected() string { return o.expected }

// failedAt records the token index that caused a failure. An index
// recorded by an inner decoder is kept.
func (o Outcome) failedAt(i int) Outcome {
	if o.failed && !o.located {
		o.at, o.located = i, true
	}
	return o
}

// position returns the recorded failure index, if any.
func (o Outcome) position() (int, bool) { return o.at, o.located }

// withValue keeps the explicitness of o and replaces its value.
func (o Outcome) withValue(v any) Outcome {
	o.value = v
	return o
}

const emptyName = "<>"

// wrapName surrounds name with angle brackets unless it already is a single
// bracketed group.
func wrapName(name string) string {
	if name == "" {
		return emptyName
	}
	if isBracketed(name) {
		return name
	}
	return "<" + name + ">"
}

func isBracketed(name string) bool {
	if len(name) < 2 || name[0] != '<' || name[len(name)-1] != '>' {
		return false
	}
	depth := 0
	for i := 0; i < len(name); i++ {
		switch name[i] {
		case '<':
			depth++
		case '>':
			depth--
			if depth == 0 && i != len(name)-1 {
				return false
			}
		}
	}
	return depth == 0
}

func optionalName(name string) string {
	if name == emptyName || strings.HasSuffix(name, "?") {
		return name
	}
	return wrapName(name) + "?"
}

func arrayElemName(name string) string {
	if strings.HasSuffix(name, "]") {
		return name
	}
	return wrapName(name)
}

func joinNames(names []string, sep string) string {
	if len(names) == 0 {
		return emptyName
	}
	return "<" + strings.Join(names, sep) + ">"
}
