// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argv

import (
	"reflect"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Signed is the set of signed integer types Int can decode.
type Signed interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64
}

// Unsigned is the set of unsigned integer types Uint can decode.
type Unsigned interface {
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

// Floating is the set of floating point types Float can decode.
type Floating interface {
	~float32 | ~float64
}

// tokenDecoder is the shape shared by every primitive: peek one token, parse
// it, consume only on success.
type tokenDecoder struct {
	name  string
	parse func(string) (any, bool)
}

func (d tokenDecoder) Name() string { return d.name }

func (d tokenDecoder) Decode(c *Cursor) Outcome {
	text, ok := c.Peek()
	if !ok {
		return Failed(d.name)
	}
	v, ok := d.parse(text)
	if !ok {
		return Failed(d.name)
	}
	c.Consume()
	return Decoded(v, true)
}

// Bool decodes "true" or "false", case-insensitively.
func Bool() Decoder {
	return tokenDecoder{name: "boolean", parse: func(s string) (any, bool) {
		switch {
		case strings.EqualFold(s, "true"):
			return true, true
		case strings.EqualFold(s, "false"):
			return false, true
		}
		return nil, false
	}}
}

// Int decodes an optionally negative run of decimal digits into T.
// Values outside T's range fail.
func Int[T Signed]() Decoder {
	bits := reflect.TypeFor[T]().Bits()
	return tokenDecoder{name: "integer", parse: func(s string) (any, bool) {
		digits := strings.TrimPrefix(s, "-")
		if !allDigits(digits) {
			return nil, false
		}
		n, err := strconv.ParseInt(s, 10, bits)
		if err != nil {
			return nil, false
		}
		return T(n), true
	}}
}

// Uint decodes a run of decimal digits into T. Signs are rejected and
// values outside T's range fail.
func Uint[T Unsigned]() Decoder {
	bits := reflect.TypeFor[T]().Bits()
	return tokenDecoder{name: "+integer", parse: func(s string) (any, bool) {
		if !allDigits(s) {
			return nil, false
		}
		n, err := strconv.ParseUint(s, 10, bits)
		if err != nil {
			return nil, false
		}
		return T(n), true
	}}
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Float decodes an optionally negative decimal number with at most one
// point. Fraction digits are accumulated with weights 0.1, 0.01, ... in T's
// precision, so the result may differ from strconv.ParseFloat in the last
// bits.
func Float[T Floating]() Decoder {
	return tokenDecoder{name: "number", parse: func(s string) (any, bool) {
		v, ok := parseWeighted[T](s)
		return v, ok
	}}
}

func parseWeighted[T Floating](s string) (T, bool) {
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}
	var (
		result T
		scale  = T(0.1)
		dotted bool
		digits int
	)
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if ch == '.' {
			if dotted {
				return 0, false
			}
			dotted = true
			continue
		}
		if ch < '0' || ch > '9' {
			return 0, false
		}
		digits++
		d := T(ch - '0')
		if dotted {
			result += scale * d
			scale /= 10
			continue
		}
		result = result*10 + d
	}
	if digits == 0 {
		return 0, false
	}
	if neg {
		result = -result
	}
	return result, true
}

// singleRune returns the only code point of s.
func singleRune(s string) (rune, int, bool) {
	if s == "" {
		return 0, 0, false
	}
	r, size := utf8.DecodeRuneInString(s)
	if size != len(s) {
		return 0, 0, false
	}
	return r, size, true
}

// Char decodes a token holding exactly one code point into a rune.
// Invalid UTF-8 fails.
func Char() Decoder {
	return tokenDecoder{name: "char", parse: func(s string) (any, bool) {
		r, size, ok := singleRune(s)
		if !ok || (r == utf8.RuneError && size == 1) {
			return nil, false
		}
		return r, true
	}}
}

// Char16 decodes a single code point into one UTF-16 code unit. Code points
// outside the basic multilingual plane are read as U+FFFD.
func Char16() Decoder {
	return tokenDecoder{name: "char", parse: func(s string) (any, bool) {
		r, _, ok := singleRune(s)
		if !ok {
			return nil, false
		}
		if r > 0xFFFF || (r >= 0xD800 && r <= 0xDFFF) {
			r = utf8.RuneError
		}
		return uint16(r), true
	}}
}

// Byte decodes a single code point into a byte. Code points above 0xFF are
// read as 0.
func Byte() Decoder {
	return tokenDecoder{name: "char", parse: func(s string) (any, bool) {
		r, _, ok := singleRune(s)
		if !ok {
			return nil, false
		}
		if r > 0xFF {
			return byte(0), true
		}
		return byte(r), true
	}}
}

// CharBuf decodes a single code point into its zero padded UTF-8 encoding.
// A lone invalid byte is stored as the encoding of U+FFFD.
func CharBuf() Decoder {
	return tokenDecoder{name: "char", parse: func(s string) (any, bool) {
		r, _, ok := singleRune(s)
		if !ok {
			return nil, false
		}
		var buf [4]byte
		utf8.EncodeRune(buf[:], r)
		return buf, true
	}}
}

// Text decodes any token verbatim.
func Text() Decoder {
	return tokenDecoder{name: "text", parse: func(s string) (any, bool) {
		return s, true
	}}
}

// Path decodes any token as an opaque filesystem path.
func Path() Decoder {
	return tokenDecoder{name: "path", parse: func(s string) (any, bool) {
		return s, true
	}}
}

type emptyDecoder struct{}

// Empty never reads input and always yields a non-explicit nil. As a Union
// alternative it makes the union optional.
func Empty() Decoder { return emptyDecoder{} }

func (emptyDecoder) Name() string { return emptyName }

func (emptyDecoder) Decode(*Cursor) Outcome { return Decoded(nil, false) }
