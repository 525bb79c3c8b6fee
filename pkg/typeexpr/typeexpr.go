// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package typeexpr compiles textual type expressions into argv decoders.
//
// The grammar, loosest binding first:
//
//	expr    = term { "|" term }                 union, values are argv.Variant
//	term    = prefix { "[" [N] "]" | "?" }      sequence, array, optional
//	prefix  = "!" prefix | primary              force
//	primary = name [ "(" N "," N ")" ]          named type, e.g. port(1, 1024)
//	        | "(" expr { "," expr } ")"         grouping or tuple
//	        | "{" label { "," label } [ "," "..." term ] "}"
//	        | "<>"                              empty
//	label   = "'" chars "'" [ "i" ]
//
// A literal set such as {'on'i, 'off'i} decodes to the matched label text;
// the trailing i makes that label case-insensitive. A final ...T entry turns
// the set into an open enumeration that falls back to T.
package typeexpr

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/yeetrun/argv/pkg/argv"
	"github.com/yeetrun/argv/pkg/suggest"
)

// SyntaxError reports where a type expression went wrong.
type SyntaxError struct {
	Src    string
	Offset int
	Msg    string
	// Suggestion is a known type name close to an unknown one.
	Suggestion string
}

func (e *SyntaxError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "type expression: %s at offset %d", e.Msg, e.Offset)
	if e.Suggestion != "" {
		fmt.Fprintf(&b, " (did you mean %q?)", e.Suggestion)
	}
	if e.Src != "" && !strings.Contains(e.Src, "\n") {
		fmt.Fprintf(&b, "\n  | %s\n  | %s^", e.Src, strings.Repeat(" ", e.Offset))
	}
	return b.String()
}

// Ctor builds a fresh decoder for a named type.
type Ctor func() argv.Decoder

// Env holds the named types an expression may use.
type Env struct {
	types map[string]Ctor
}

var builtins = map[string]Ctor{
	"bool":     argv.Bool,
	"boolean":  argv.Bool,
	"int":      argv.Int[int],
	"integer":  argv.Int[int],
	"int8":     argv.Int[int8],
	"int16":    argv.Int[int16],
	"int32":    argv.Int[int32],
	"int64":    argv.Int[int64],
	"uint":     argv.Uint[uint],
	"uint8":    argv.Uint[uint8],
	"uint16":   argv.Uint[uint16],
	"uint32":   argv.Uint[uint32],
	"uint64":   argv.Uint[uint64],
	"float":    argv.Float[float64],
	"float32":  argv.Float[float32],
	"float64":  argv.Float[float64],
	"number":   argv.Float[float64],
	"char":     argv.Char,
	"rune":     argv.Char,
	"char16":   argv.Char16,
	"byte":     argv.Byte,
	"charbuf":  argv.CharBuf,
	"text":     argv.Text,
	"string":   argv.Text,
	"path":     argv.Path,
	"duration": argv.Duration,
	"url":      argv.URL,
	"uuid":     argv.UUID,
	"semver":   argv.SemVer,
	"port":     func() argv.Decoder { return argv.Port(1, 65535) },
	"empty":    argv.Empty,
}

// NewEnv returns an environment with the built-in types.
func NewEnv() *Env {
	return &Env{types: maps.Clone(builtins)}
}

// Define adds or replaces a named type.
func (e *Env) Define(name string, fn Ctor) {
	e.types[name] = fn
}

// Names lists the defined type names in sorted order.
func (e *Env) Names() []string {
	return slices.Sorted(maps.Keys(e.types))
}

var defaultEnv = NewEnv()

const maxArray = 4096

// Parse compiles src using the built-in types.
func Parse(src string) (argv.Decoder, error) {
	return defaultEnv.Parse(src)
}

// MustParse is like Parse but panics on error.
func MustParse(src string) argv.Decoder {
	d, err := Parse(src)
	if err != nil {
		panic(err)
	}
	return d
}

// Parse compiles src into a decoder.
func (e *Env) Parse(src string) (argv.Decoder, error) {
	toks, err := lex(src)
	if err != nil {
		return nil, err
	}
	p := &parser{env: e, src: src, toks: toks}
	d, err := p.expr()
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t.kind != tokEOF {
		return nil, p.errorf(t, "unexpected %v", t.kind)
	}
	return d, nil
}

type parser struct {
	env  *Env
	src  string
	toks []token
	pos  int
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) accept(k tokenKind) bool {
	if p.peek().kind == k {
		p.next()
		return true
	}
	return false
}

func (p *parser) expect(k tokenKind) (token, error) {
	t := p.next()
	if t.kind != k {
		return t, p.errorf(t, "expected %v, got %v", k, t.kind)
	}
	return t, nil
}

func (p *parser) errorf(t token, format string, args ...any) *SyntaxError {
	return &SyntaxError{Src: p.src, Offset: t.pos, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) expr() (argv.Decoder, error) {
	first, err := p.term()
	if err != nil {
		return nil, err
	}
	if p.peek().kind != tokPipe {
		return first, nil
	}
	alts := []argv.Decoder{first}
	for p.accept(tokPipe) {
		d, err := p.term()
		if err != nil {
			return nil, err
		}
		alts = append(alts, d)
	}
	return argv.Union(alts...), nil
}

func (p *parser) term() (argv.Decoder, error) {
	d, err := p.prefix()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.accept(tokQuestion):
			d = argv.Optional(d)
		case p.accept(tokLSquare):
			if p.accept(tokRSquare) {
				d = argv.Sequence(d)
				continue
			}
			at := p.peek()
			n, err := p.number()
			if err != nil {
				return nil, err
			}
			if n > maxArray {
				return nil, p.errorf(at, "array size %d exceeds %d", n, maxArray)
			}
			if _, err := p.expect(tokRSquare); err != nil {
				return nil, err
			}
			d = argv.Array(d, n)
		default:
			return d, nil
		}
	}
}

func (p *parser) prefix() (argv.Decoder, error) {
	if p.accept(tokBang) {
		d, err := p.prefix()
		if err != nil {
			return nil, err
		}
		return argv.Force(d), nil
	}
	return p.primary()
}

func (p *parser) primary() (argv.Decoder, error) {
	t := p.next()
	switch t.kind {
	case tokEmpty:
		return argv.Empty(), nil
	case tokIdent:
		return p.named(t)
	case tokLParen:
		elems := []argv.Decoder{}
		for {
			d, err := p.expr()
			if err != nil {
				return nil, err
			}
			elems = append(elems, d)
			if !p.accept(tokComma) {
				break
			}
		}
		if _, err := p.expect(tokRParen); err != nil {
			return nil, err
		}
		if len(elems) == 1 {
			return elems[0], nil
		}
		return argv.Tuple(elems...), nil
	case tokLBrace:
		return p.literalSet()
	}
	return nil, p.errorf(t, "unexpected %v", t.kind)
}

func (p *parser) named(t token) (argv.Decoder, error) {
	if t.text == "port" && p.accept(tokLParen) {
		lo, err := p.number()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokComma); err != nil {
			return nil, err
		}
		hi, err := p.number()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokRParen); err != nil {
			return nil, err
		}
		if lo > 65535 || hi > 65535 || lo > hi {
			return nil, p.errorf(t, "invalid port range %d-%d", lo, hi)
		}
		return argv.Port(uint16(lo), uint16(hi)), nil
	}
	fn, ok := p.env.types[t.text]
	if !ok {
		err := p.errorf(t, "unknown type %q", t.text)
		err.Suggestion = suggest.Closest(t.text, p.env.Names())
		return nil, err
	}
	return fn(), nil
}

func (p *parser) literalSet() (argv.Decoder, error) {
	var (
		labels []argv.EnumLabel
		under  argv.Decoder
	)
	for {
		t := p.next()
		switch t.kind {
		case tokString:
			l := argv.EnumLabel{Name: t.text, Value: t.text, Fold: t.fold}
			for _, prev := range labels {
				if collides(prev, l) {
					return nil, p.errorf(t, "label %q repeats %q", l.Name, prev.Name)
				}
			}
			labels = append(labels, l)
		case tokEllipsis:
			d, err := p.term()
			if err != nil {
				return nil, err
			}
			under = d
		default:
			return nil, p.errorf(t, "expected %v, got %v", tokString, t.kind)
		}
		if under != nil || !p.accept(tokComma) {
			break
		}
	}
	if _, err := p.expect(tokRBrace); err != nil {
		return nil, err
	}
	if under != nil {
		return argv.OpenEnum(under, labels...), nil
	}
	return argv.Enum(labels...), nil
}

// collides mirrors argv's label overlap rule so that a bad set is reported
// as a syntax error rather than a panic.
func collides(a, b argv.EnumLabel) bool {
	if a.Fold || b.Fold {
		return strings.EqualFold(a.Name, b.Name)
	}
	return a.Name == b.Name
}

func (p *parser) number() (int, error) {
	t, err := p.expect(tokNumber)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(t.text)
	if err != nil {
		return 0, p.errorf(t, "number %s out of range", t.text)
	}
	return n, nil
}
