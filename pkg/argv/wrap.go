// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argv

import "fmt"

type renamed struct {
	Decoder
	name string
}

// Rename changes the display name of d without altering how it decodes.
func Rename(d Decoder, name string) Decoder {
	return renamed{Decoder: d, name: name}
}

func (d renamed) Name() string { return d.name }

type forced struct {
	inner Decoder
}

// Force lets d read tokens that match a declared slot name or alias.
func Force(d Decoder) Decoder {
	return forced{inner: d}
}

func (d forced) Name() string { return d.inner.Name() }

func (d forced) Decode(c *Cursor) Outcome {
	return c.WithForce(func() Outcome {
		return d.inner.Decode(c)
	})
}

type fallback struct {
	inner   Decoder
	provide func() any
}

// Fallback decodes d and, only if it fails, yields v as an explicit value.
// A non-explicit success from d is passed through untouched.
func Fallback(d Decoder, v any) Decoder {
	return fallback{inner: d, provide: func() any { return v }}
}

// FallbackFunc is like Fallback but calls fn for the substitute value each
// time it is needed.
func FallbackFunc(d Decoder, fn func() any) Decoder {
	return fallback{inner: d, provide: fn}
}

func (d fallback) Name() string { return d.inner.Name() }

func (d fallback) Decode(c *Cursor) Outcome {
	o := d.inner.Decode(c)
	if o.OK() {
		return o
	}
	return Decoded(d.provide(), true)
}

type transformed[T, U any] struct {
	inner Decoder
	fn    func(T) U
}

// Transform maps every successful value of d through fn, keeping its
// explicitness. Failures pass through unchanged. A nil value (such as that of
// an absent Optional) reaches fn as T's zero value; any other value that is
// not a T panics.
func Transform[T, U any](d Decoder, fn func(T) U) Decoder {
	return transformed[T, U]{inner: d, fn: fn}
}

func (d transformed[T, U]) Name() string { return d.inner.Name() }

func (d transformed[T, U]) Decode(c *Cursor) Outcome {
	o := d.inner.Decode(c)
	if !o.OK() {
		return o
	}
	return o.withValue(d.fn(valueAs[T]("Transform", o.Value())))
}

type validated[T any] struct {
	inner Decoder
	pred  func(T) bool
}

// Validate fails a successful decode of d whose value does not satisfy
// pred. Tokens already read are not given back: the rejection is final for
// this attempt. Values reach pred as in Transform.
func Validate[T any](d Decoder, pred func(T) bool) Decoder {
	return validated[T]{inner: d, pred: pred}
}

func (d validated[T]) Name() string { return d.inner.Name() }

func (d validated[T]) Decode(c *Cursor) Outcome {
	o := d.inner.Decode(c)
	if !o.OK() {
		return o
	}
	if !d.pred(valueAs[T]("Validate", o.Value())) {
		return Failed(d.Name())
	}
	return o
}

func valueAs[T any](op string, v any) T {
	if v == nil {
		var zero T
		return zero
	}
	t, ok := v.(T)
	if !ok {
		panic(fmt.Sprintf("argv: %s: got %T, want %T", op, v, t))
	}
	return t
}
