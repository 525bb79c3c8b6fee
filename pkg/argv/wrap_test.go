// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argv

import (
	"path/filepath"
	"testing"
)

func TestRenameKeepsBehavior(t *testing.T) {
	d := Rename(Int[int](), "float100%")
	o := d.Decode(untagged("12"))
	if o.Value() != 12 {
		t.Errorf("Decode = %v, want 12", o.Value())
	}
	if o := d.Decode(untagged("x")); o.Expected() != "integer" {
		t.Errorf("Expected() = %q, want %q", o.Expected(), "integer")
	}
}

func TestForceRestoresMode(t *testing.T) {
	c := NewCursor([]Token{{Text: "--version", Slot: 2}, {Text: "--version", Slot: 2}})
	o := Force(Text()).Decode(c)
	if o.Value() != "--version" {
		t.Fatalf("Force(Text()).Decode = %v, want --version", o.Value())
	}
	if c.Forced() {
		t.Error("cursor still forced after Force returned")
	}
	if o := Text().Decode(c); o.OK() {
		t.Errorf("Text().Decode read a tagged token after Force returned")
	}
}

func TestFallback(t *testing.T) {
	c := untagged("x")
	o := Fallback(Int[int](), 42).Decode(c)
	if !o.Explicit() || o.Value() != 42 {
		t.Fatalf("Fallback on failure = %v explicit=%v, want 42 explicit", o.Value(), o.Explicit())
	}
	if c.Index() != 0 {
		t.Errorf("Index() = %d, want 0", c.Index())
	}

	// A non-explicit success is not a failure and passes through.
	o = Fallback(Optional(Int[int]()), 42).Decode(untagged("x"))
	if o.Explicit() || o.Value() != nil {
		t.Errorf("Fallback over Optional = %v explicit=%v, want nil non-explicit", o.Value(), o.Explicit())
	}

	calls := 0
	d := FallbackFunc(Int[int](), func() any {
		calls++
		return calls
	})
	d.Decode(untagged("x"))
	o = d.Decode(untagged("x"))
	if o.Value() != 2 {
		t.Errorf("FallbackFunc second value = %v, want 2", o.Value())
	}
	if d.Decode(untagged("7")).Value() != 7 || calls != 2 {
		t.Errorf("FallbackFunc called on success, calls = %d", calls)
	}
}

func TestTransform(t *testing.T) {
	tenth := Transform(Int[int64](), func(v int64) float64 { return float64(v) / 10 })
	o := tenth.Decode(untagged("25"))
	if !o.Explicit() || o.Value() != 2.5 {
		t.Errorf("Transform = %v explicit=%v, want 2.5 explicit", o.Value(), o.Explicit())
	}
	if o := tenth.Decode(untagged("x")); o.OK() || o.Expected() != "integer" {
		t.Errorf("Transform on bad token: ok=%v expected=%q", o.OK(), o.Expected())
	}

	// Non-explicit values keep their flag and reach fn as the zero value.
	o = Transform(Optional(Int[int]()), func(v int) int { return v + 1 }).Decode(untagged())
	if o.Explicit() || o.Value() != 1 {
		t.Errorf("Transform over default = %v explicit=%v, want 1 non-explicit", o.Value(), o.Explicit())
	}
}

func TestValidateDoesNotRewind(t *testing.T) {
	abs := Validate(Path(), filepath.IsAbs)
	c := untagged("relative/dir", "next")
	o := abs.Decode(c)
	if o.OK() {
		t.Fatalf("Validate accepted %v", o.Value())
	}
	if o.Expected() != "path" {
		t.Errorf("Expected() = %q, want %q", o.Expected(), "path")
	}
	if c.Index() != 1 {
		t.Errorf("Index() = %d, want 1", c.Index())
	}
	if o := abs.Decode(untagged("/abs")); o.Value() != "/abs" {
		t.Errorf("Validate on absolute path = %v", o.Value())
	}
}

func TestTransformValidateTypeMismatchPanics(t *testing.T) {
	tests := []struct {
		name string
		d    Decoder
		want string
	}{
		{
			name: "transform",
			d:    Transform(Int[int](), func(v int64) int64 { return v * 10 }),
			want: "argv: Transform: got int, want int64",
		},
		{
			name: "validate",
			d:    Validate(Int[int](), func(v string) bool { return v != "" }),
			want: "argv: Validate: got int, want string",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if got := recover(); got != tt.want {
					t.Errorf("recover() = %v, want %q", got, tt.want)
				}
			}()
			o := tt.d.Decode(untagged("7"))
			t.Errorf("Decode() = %v, want panic", o.Value())
		})
	}
}

func TestValidateNilReachesPredAsZero(t *testing.T) {
	var got []int
	d := Validate(Optional(Int[int]()), func(v int) bool {
		got = append(got, v)
		return true
	})
	if o := d.Decode(untagged()); !o.OK() || o.Value() != nil {
		t.Fatalf("Validate over absent optional: ok=%v value=%v, want ok nil", o.OK(), o.Value())
	}
	if len(got) != 1 || got[0] != 0 {
		t.Errorf("pred saw %v, want [0]", got)
	}
}
