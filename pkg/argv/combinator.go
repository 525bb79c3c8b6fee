// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argv

import "fmt"

type optional struct {
	inner Decoder
}

// Optional decodes inner and absorbs its failure as a non-explicit nil.
func Optional(inner Decoder) Decoder {
	return optional{inner: inner}
}

func (d optional) Name() string { return optionalName(d.inner.Name()) }

func (d optional) Decode(c *Cursor) Outcome {
	o := d.inner.Decode(c)
	if !o.OK() {
		return Decoded(nil, false)
	}
	return o
}

type sequence struct {
	elem Decoder
}

// Sequence decodes elem repeatedly into a []any for as long as each decode
// reads input. It stops at the first failure, the first non-explicit
// element, or the first explicit element that consumed nothing. An empty
// sequence is a non-explicit empty slice.
func Sequence(elem Decoder) Decoder {
	return sequence{elem: elem}
}

func (d sequence) Name() string { return arrayElemName(d.elem.Name()) + "[]" }

func (d sequence) Decode(c *Cursor) Outcome {
	values := []any{}
	for {
		start := c.Index()
		o := d.elem.Decode(c)
		if !o.Explicit() || c.Index() == start {
			break
		}
		values = append(values, o.Value())
	}
	return Decoded(values, len(values) > 0)
}

type array struct {
	elem Decoder
	n    int
}

// Array decodes exactly n elements into a []any. Any element failure fails
// the array with that element's expectation and position, and rewinds the
// cursor. When
// every element was a default the array itself is non-explicit.
func Array(elem Decoder, n int) Decoder {
	if n < 0 {
		panic(fmt.Sprintf("argv: negative array size %d", n))
	}
	return array{elem: elem, n: n}
}

func (d array) Name() string {
	if d.n == 0 {
		return emptyName
	}
	return fmt.Sprintf("%s[%d]", arrayElemName(d.elem.Name()), d.n)
}

func (d array) Decode(c *Cursor) Outcome {
	start := c.Index()
	values := make([]any, d.n)
	explicit := false
	for i := range values {
		o := d.elem.Decode(c)
		if !o.OK() {
			o = o.failedAt(c.Index())
			c.Seek(start)
			return o
		}
		explicit = explicit || o.Explicit()
		values[i] = o.Value()
	}
	return Decoded(values, explicit)
}

type tuple struct {
	elems []Decoder
}

// Tuple decodes a fixed heterogeneous sequence into a []any with one entry
// per element.
//
// The first element is tried under the largest limit first; whenever it or
// the remainder fails, the limit given to the first element shrinks by one
// token and both are tried again. The first split where both sides succeed
// wins. If no split works the cursor is restored and the tuple fails.
func Tuple(elems ...Decoder) Decoder {
	return tuple{elems: elems}
}

func (d tuple) Name() string {
	if len(d.elems) == 1 {
		return d.elems[0].Name()
	}
	names := make([]string, len(d.elems))
	for i, e := range d.elems {
		names[i] = e.Name()
	}
	return joinNames(names, ", ")
}

func (d tuple) Decode(c *Cursor) Outcome {
	values, explicit, ok := decodeSplit(c, d.elems)
	if !ok {
		return Failed(d.Name())
	}
	return Decoded(values, explicit)
}

// decodeSplit decodes elems in order using the backtracking split search.
func decodeSplit(c *Cursor, elems []Decoder) ([]any, bool, bool) {
	switch len(elems) {
	case 0:
		return []any{}, false, true
	case 1:
		o := elems[0].Decode(c)
		if !o.OK() {
			return nil, false, false
		}
		return []any{o.Value()}, o.Explicit(), true
	}

	from, to := c.Index(), c.Limit()
	for l := to; l >= from; l-- {
		c.Seek(from)
		head := c.WithLimit(l, func() Outcome {
			return elems[0].Decode(c)
		})
		if !head.OK() {
			continue
		}
		rest, restExplicit, ok := decodeSplit(c, elems[1:])
		if !ok {
			continue
		}
		values := make([]any, 0, len(elems))
		values = append(values, head.Value())
		values = append(values, rest...)
		return values, head.Explicit() || restExplicit, true
	}
	c.Seek(from)
	return nil, false, false
}

// Variant is the value produced by Union: the index of the alternative that
// matched and its value.
type Variant struct {
	Index int
	Value any
}

type union struct {
	alts []Decoder
}

// Union tries each alternative in order. The first explicit result wins;
// otherwise the first non-explicit result is returned as a default. Include
// Empty as an alternative to make the union optional.
func Union(alts ...Decoder) Decoder {
	if len(alts) == 0 {
		panic("argv: Union needs at least one alternative")
	}
	return union{alts: alts}
}

func (d union) Name() string {
	names := make([]string, 0, len(d.alts))
	optional := false
	for _, a := range d.alts {
		if _, ok := a.(emptyDecoder); ok {
			optional = true
			continue
		}
		names = append(names, a.Name())
	}
	var name string
	switch len(names) {
	case 0:
		return emptyName
	case 1:
		name = names[0]
	default:
		name = joinNames(names, "|")
	}
	if optional {
		return optionalName(name)
	}
	return name
}

func (d union) Decode(c *Cursor) Outcome {
	var (
		fallback Outcome
		found    bool
	)
	for i, alt := range d.alts {
		o := alt.Decode(c)
		if !o.OK() {
			continue
		}
		if o.Explicit() {
			return Decoded(Variant{Index: i, Value: o.Value()}, true)
		}
		if !found {
			fallback = Decoded(Variant{Index: i, Value: o.Value()}, false)
			found = true
		}
	}
	if found {
		return fallback
	}
	return Failed(d.Name())
}
