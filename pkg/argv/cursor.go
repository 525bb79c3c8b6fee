// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argv

// Token is one raw input token together with the schema slot it names.
// Slot is 1-based; 0 means the token does not exactly match any declared
// slot name or alias.
type Token struct {
	Text string
	Slot int
}

// Cursor walks a token list on behalf of decoders.
//
// The readable window is [Index, Limit). Tokens tagged with a slot are
// reserved: Peek hides them unless the cursor is in forced mode. Limit and
// force are only changed through WithLimit and WithForce, which restore the
// previous value when the body returns.
type Cursor struct {
	tokens []Token
	index  int
	limit  int
	force  bool
}

// NewCursor returns a cursor positioned at the first token with the limit set
// to the end of the list.
func NewCursor(tokens []Token) *Cursor {
	return &Cursor{tokens: tokens, limit: len(tokens)}
}

// Peek returns the text of the current token if it is inside the limit and
// either untagged or the cursor is forced. It never advances the cursor.
func (c *Cursor) Peek() (string, bool) {
	if c.index >= c.limit || c.index >= len(c.tokens) {
		return "", false
	}
	tok := c.tokens[c.index]
	if tok.Slot != 0 && !c.force {
		return "", false
	}
	return tok.Text, true
}

// Consume advances past the current token. Callers must have observed the
// token through Peek (or the dispatch loop's tag read) first.
func (c *Cursor) Consume() {
	c.index++
}

// Index reports the position of the next unread token.
func (c *Cursor) Index() int { return c.index }

// Limit reports the exclusive upper bound of the readable window.
func (c *Cursor) Limit() int { return c.limit }

// Len reports the total number of tokens.
func (c *Cursor) Len() int { return len(c.tokens) }

// Forced reports whether reserved tokens are currently readable.
func (c *Cursor) Forced() bool { return c.force }

// Seek moves the read position. It is used by backtracking decoders to
// rewind to a position they previously observed.
func (c *Cursor) Seek(i int) {
	if i < 0 {
		i = 0
	}
	if i > c.limit {
		i = c.limit
	}
	c.index = i
}

// token returns the token at i without applying the reservation rule.
func (c *Cursor) token(i int) Token {
	return c.tokens[i]
}

// WithLimit runs body with the limit shrunk to n and restores the previous
// limit on return. n is clamped to [Index, Limit].
func (c *Cursor) WithLimit(n int, body func() Outcome) Outcome {
	prev := c.limit
	defer func() { c.limit = prev }()
	if n > prev {
		n = prev
	}
	if n < c.index {
		n = c.index
	}
	c.limit = n
	return body()
}

// WithForce runs body with reserved tokens readable and restores the previous
// mode on return.
func (c *Cursor) WithForce(body func() Outcome) Outcome {
	prev := c.force
	defer func() { c.force = prev }()
	c.force = true
	return body()
}
