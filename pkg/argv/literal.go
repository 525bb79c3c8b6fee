// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argv

import (
	"fmt"
	"strings"
)

// EnumLabel maps one literal token to a value.
type EnumLabel struct {
	Name  string
	Value any
	// Fold makes the label match case-insensitively.
	Fold bool
}

func (l EnumLabel) matches(s string) bool {
	if l.Fold {
		return strings.EqualFold(l.Name, s)
	}
	return l.Name == s
}

func (l EnumLabel) collides(o EnumLabel) bool {
	if l.Fold || o.Fold {
		return strings.EqualFold(l.Name, o.Name)
	}
	return l.Name == o.Name
}

// EnumDecoder matches the next token against a closed list of labels.
type EnumDecoder struct {
	labels []EnumLabel
	// open is consulted when no label matches; nil for a strict enum.
	open Decoder
}

// Enum returns a strict enumeration: a token must match one of labels.
// Labels are tried in order. Overlapping labels panic.
func Enum(labels ...EnumLabel) *EnumDecoder {
	checkLabels(labels)
	return &EnumDecoder{labels: labels}
}

// OpenEnum is like Enum but, when no label matches, decodes the token with
// underlying instead and returns that value unchanged.
func OpenEnum(underlying Decoder, labels ...EnumLabel) *EnumDecoder {
	if underlying == nil {
		panic("argv: OpenEnum needs an underlying decoder")
	}
	checkLabels(labels)
	return &EnumDecoder{labels: labels, open: underlying}
}

func checkLabels(labels []EnumLabel) {
	for i, a := range labels {
		for _, b := range labels[i+1:] {
			if a.collides(b) {
				panic(fmt.Sprintf("argv: enum labels %q and %q collide", a.Name, b.Name))
			}
		}
	}
}

// Labels returns the declared labels in order.
func (d *EnumDecoder) Labels() []EnumLabel {
	return append([]EnumLabel(nil), d.labels...)
}

func (d *EnumDecoder) Name() string {
	names := make([]string, 0, len(d.labels)+1)
	for _, l := range d.labels {
		names = append(names, "'"+l.Name+"'")
	}
	if d.open != nil {
		names = append(names, d.open.Name())
	}
	switch len(names) {
	case 0:
		return emptyName
	case 1:
		return names[0]
	}
	return joinNames(names, "|")
}

func (d *EnumDecoder) Decode(c *Cursor) Outcome {
	if len(d.labels) == 0 && d.open == nil {
		return Decoded(nil, false)
	}
	text, ok := c.Peek()
	if !ok {
		return Failed(d.Name())
	}
	for _, l := range d.labels {
		if l.matches(text) {
			c.Consume()
			return Decoded(l.Value, true)
		}
	}
	if d.open != nil {
		if o := d.open.Decode(c); o.OK() {
			return o
		}
	}
	return Failed(d.Name())
}

// Choice is a case-sensitive literal set whose value is the ordinal (int) of
// the matched label. A Choice without labels yields a non-explicit -1.
func Choice(labels ...string) Decoder {
	if len(labels) == 0 {
		return choiceNone{}
	}
	ls := make([]EnumLabel, len(labels))
	for i, name := range labels {
		ls[i] = EnumLabel{Name: name, Value: i}
	}
	return Enum(ls...)
}

type choiceNone struct{}

func (choiceNone) Name() string { return emptyName }

func (choiceNone) Decode(*Cursor) Outcome { return Decoded(-1, false) }
