// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argv

import "testing"

// untagged builds a cursor over plain tokens.
func untagged(texts ...string) *Cursor {
	tokens := make([]Token, len(texts))
	for i, s := range texts {
		tokens[i] = Token{Text: s}
	}
	return NewCursor(tokens)
}

func TestCursorPeekSkipsTaggedTokens(t *testing.T) {
	c := NewCursor([]Token{{Text: "1"}, {Text: "--flag", Slot: 1}})

	if got, ok := c.Peek(); !ok || got != "1" {
		t.Fatalf("Peek() = %q, %v, want %q, true", got, ok, "1")
	}
	c.Consume()
	if got, ok := c.Peek(); ok {
		t.Fatalf("Peek() on tagged token = %q, true, want false", got)
	}
	c.WithForce(func() Outcome {
		if got, ok := c.Peek(); !ok || got != "--flag" {
			t.Fatalf("forced Peek() = %q, %v, want %q, true", got, ok, "--flag")
		}
		return Decoded(nil, false)
	})
	if c.Forced() {
		t.Error("Forced() = true after WithForce returned")
	}
	if _, ok := c.Peek(); ok {
		t.Error("Peek() on tagged token succeeded after WithForce returned")
	}
}

func TestCursorWithLimit(t *testing.T) {
	c := untagged("a", "b", "c")

	c.WithLimit(1, func() Outcome {
		if c.Limit() != 1 {
			t.Fatalf("Limit() = %d, want 1", c.Limit())
		}
		c.Consume()
		if _, ok := c.Peek(); ok {
			t.Fatal("Peek() past limit succeeded")
		}
		c.WithLimit(3, func() Outcome {
			if c.Limit() != 1 {
				t.Errorf("nested Limit() = %d, want it clamped to 1", c.Limit())
			}
			return Decoded(nil, false)
		})
		return Decoded(nil, false)
	})
	if c.Limit() != 3 {
		t.Fatalf("Limit() = %d after WithLimit, want 3", c.Limit())
	}
	if got, ok := c.Peek(); !ok || got != "b" {
		t.Fatalf("Peek() = %q, %v, want %q, true", got, ok, "b")
	}
}

func TestCursorWithLimitRestoresOnPanic(t *testing.T) {
	c := untagged("a", "b")
	func() {
		defer func() { recover() }()
		c.WithLimit(0, func() Outcome { panic("boom") })
	}()
	if c.Limit() != 2 {
		t.Errorf("Limit() = %d after panic, want 2", c.Limit())
	}
}

func TestCursorSeekClamps(t *testing.T) {
	c := untagged("a", "b", "c")
	tests := []struct {
		seek, want int
	}{
		{-4, 0},
		{2, 2},
		{9, 3},
	}
	for _, tt := range tests {
		c.Seek(tt.seek)
		if c.Index() != tt.want {
			t.Errorf("Seek(%d): Index() = %d, want %d", tt.seek, c.Index(), tt.want)
		}
	}
}
