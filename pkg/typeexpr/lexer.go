// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package typeexpr

import (
	"fmt"
	"strings"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokNumber
	tokString
	tokPipe     // |
	tokLSquare  // [
	tokRSquare  // ]
	tokQuestion // ?
	tokBang     // !
	tokLParen   // (
	tokRParen   // )
	tokLBrace   // {
	tokRBrace   // }
	tokComma    // ,
	tokEllipsis // ...
	tokEmpty    // <>
)

func (k tokenKind) String() string {
	switch k {
	case tokEOF:
		return "end of expression"
	case tokIdent:
		return "type name"
	case tokNumber:
		return "number"
	case tokString:
		return "quoted label"
	case tokPipe:
		return "'|'"
	case tokLSquare:
		return "'['"
	case tokRSquare:
		return "']'"
	case tokQuestion:
		return "'?'"
	case tokBang:
		return "'!'"
	case tokLParen:
		return "'('"
	case tokRParen:
		return "')'"
	case tokLBrace:
		return "'{'"
	case tokRBrace:
		return "'}'"
	case tokComma:
		return "','"
	case tokEllipsis:
		return "'...'"
	case tokEmpty:
		return "'<>'"
	}
	return fmt.Sprintf("token(%d)", int(k))
}

type token struct {
	kind tokenKind
	// text is the identifier, digits, or unquoted label.
	text string
	// fold marks a label written with a trailing i, as in 'on'i.
	fold bool
	pos  int
}

var punct = map[byte]tokenKind{
	'|': tokPipe,
	'[': tokLSquare,
	']': tokRSquare,
	'?': tokQuestion,
	'!': tokBang,
	'(': tokLParen,
	')': tokRParen,
	'{': tokLBrace,
	'}': tokRBrace,
	',': tokComma,
}

// lex splits src into tokens, ending with tokEOF.
func lex(src string) ([]token, error) {
	var toks []token
	i := 0
	for i < len(src) {
		ch := src[i]
		switch {
		case ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r':
			i++
		case isIdentStart(ch):
			start := i
			for i < len(src) && isIdentPart(src[i]) {
				i++
			}
			toks = append(toks, token{kind: tokIdent, text: src[start:i], pos: start})
		case ch >= '0' && ch <= '9':
			start := i
			for i < len(src) && src[i] >= '0' && src[i] <= '9' {
				i++
			}
			toks = append(toks, token{kind: tokNumber, text: src[start:i], pos: start})
		case ch == '\'':
			tok, next, err := lexLabel(src, i)
			if err != nil {
				return nil, err
			}
			toks = append(toks, tok)
			i = next
		case strings.HasPrefix(src[i:], "..."):
			toks = append(toks, token{kind: tokEllipsis, pos: i})
			i += 3
		case strings.HasPrefix(src[i:], "<>"):
			toks = append(toks, token{kind: tokEmpty, pos: i})
			i += 2
		default:
			kind, ok := punct[ch]
			if !ok {
				return nil, &SyntaxError{Src: src, Offset: i, Msg: fmt.Sprintf("unexpected character %q", ch)}
			}
			toks = append(toks, token{kind: kind, pos: i})
			i++
		}
	}
	return append(toks, token{kind: tokEOF, pos: len(src)}), nil
}

// lexLabel reads a single-quoted label starting at src[start]. A backslash
// escapes the next byte. A trailing i marks the label case-insensitive.
func lexLabel(src string, start int) (token, int, error) {
	var b strings.Builder
	i := start + 1
	for {
		if i >= len(src) {
			return token{}, 0, &SyntaxError{Src: src, Offset: start, Msg: "unterminated label"}
		}
		ch := src[i]
		if ch == '\\' && i+1 < len(src) {
			b.WriteByte(src[i+1])
			i += 2
			continue
		}
		if ch == '\'' {
			i++
			break
		}
		b.WriteByte(ch)
		i++
	}
	tok := token{kind: tokString, text: b.String(), pos: start}
	if i < len(src) && src[i] == 'i' && (i+1 == len(src) || !isIdentPart(src[i+1])) {
		tok.fold = true
		i++
	}
	return tok, i, nil
}

func isIdentStart(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isIdentPart(ch byte) bool {
	return isIdentStart(ch) || (ch >= '0' && ch <= '9')
}
