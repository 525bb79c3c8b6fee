// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argv

import (
	"errors"
	"testing"
)

func TestNewSchemaErrors(t *testing.T) {
	tests := []struct {
		name     string
		cfg      Config
		wantErr  error
		wantSlot int
		wantName string
	}{
		{
			name: "duplicate names",
			cfg: Config{Slots: []Slot{
				{Name: "--a"},
				{Name: "--a"},
			}},
			wantErr:  ErrNameCollision,
			wantSlot: 1,
			wantName: "--a",
		},
		{
			name: "alias collides with later name",
			cfg: Config{Slots: []Slot{
				{Name: "--all", Aliases: []string{"-a"}},
				{Name: "-a"},
			}},
			wantErr:  ErrNameCollision,
			wantSlot: 1,
			wantName: "-a",
		},
		{
			name: "alias repeats own name",
			cfg: Config{Slots: []Slot{
				{Name: "--x", Aliases: []string{"--x"}},
			}},
			wantErr:  ErrNameCollision,
			wantSlot: 0,
			wantName: "--x",
		},
		{
			name:     "empty name",
			cfg:      Config{Slots: []Slot{{Name: ""}}},
			wantErr:  ErrEmptyName,
			wantSlot: 0,
		},
		{
			name:     "empty alias",
			cfg:      Config{Slots: []Slot{{Name: "--a"}, {Name: "--b", Aliases: []string{""}}}},
			wantErr:  ErrEmptyName,
			wantSlot: 1,
		},
		{
			name:     "unknown container",
			cfg:      Config{Slots: []Slot{{Name: "--a", Modifier: Accumulate(Container(9))}}},
			wantErr:  ErrInvalidModifier,
			wantSlot: 0,
			wantName: "--a",
		},
		{
			name:     "nil default provider",
			cfg:      Config{Slots: []Slot{{Name: "--a", Decoder: Int[int](), Modifier: DefaultFunc(nil)}}},
			wantErr:  ErrInvalidModifier,
			wantSlot: 0,
			wantName: "--a",
		},
		{
			name:     "switch collected as list",
			cfg:      Config{Slots: []Slot{{Name: "--flag", Modifier: Accumulate(List)}}},
			wantErr:  ErrInvalidModifier,
			wantSlot: 0,
			wantName: "--flag",
		},
		{
			name:     "switch collected as set",
			cfg:      Config{Slots: []Slot{{Name: "--a"}, {Name: "--flag", Modifier: Accumulate(Set)}}},
			wantErr:  ErrInvalidModifier,
			wantSlot: 1,
			wantName: "--flag",
		},
		{
			name:     "required positional",
			cfg:      Config{Positional: &Positional{Decoder: Path(), Modifier: Required()}},
			wantErr:  ErrInvalidModifier,
			wantSlot: -1,
		},
		{
			name:     "positional without decoder",
			cfg:      Config{Positional: &Positional{}},
			wantErr:  ErrNilDecoder,
			wantSlot: -1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewSchema(tt.cfg)
			if err == nil {
				t.Fatalf("NewSchema() = %v, want error", s)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("NewSchema() error = %v, want %v", err, tt.wantErr)
			}
			var se *SchemaError
			if !errors.As(err, &se) {
				t.Fatalf("NewSchema() error type = %T, want *SchemaError", err)
			}
			if se.Slot != tt.wantSlot {
				t.Errorf("Slot = %d, want %d", se.Slot, tt.wantSlot)
			}
			if se.Name != tt.wantName {
				t.Errorf("Name = %q, want %q", se.Name, tt.wantName)
			}
		})
	}
}

func TestNewSchemaDistinctNames(t *testing.T) {
	// Names are compared exactly, so case variants are distinct slots.
	s, err := NewSchema(Config{
		Slots: []Slot{
			{Name: "--version", Aliases: []string{"-V", "-version"}},
			{Name: "--verbose", Aliases: []string{"-v"}},
			{Name: "--help", Aliases: []string{"-h", "?", "-help"}, Decoder: Optional(Force(Text()))},
		},
		Positional: &Positional{Decoder: Path(), Modifier: Accumulate(List)},
	})
	if err != nil {
		t.Fatalf("NewSchema() error = %v", err)
	}

	slot, i, ok := s.Lookup("?")
	if !ok || i != 2 || slot.Name != "--help" {
		t.Errorf("Lookup(?) = %q, %d, %v, want --help, 2, true", slot.Name, i, ok)
	}
	if _, _, ok := s.Lookup("--nope"); ok {
		t.Error("Lookup(--nope) found a slot")
	}
	if got := slot.TypeName(); got != "<text>?" {
		t.Errorf("TypeName() = %q, want %q", got, "<text>?")
	}
	if got := s.Slots()[0].TypeName(); got != "<>" {
		t.Errorf("switch TypeName() = %q, want %q", got, "<>")
	}
	if p, ok := s.Positional(); !ok || p.TypeName() != "path" {
		t.Errorf("Positional() = %v, %v", p.TypeName(), ok)
	}
}

func TestSchemaSlotsAreCopies(t *testing.T) {
	aliases := []string{"-a"}
	s := MustSchema(Config{Slots: []Slot{{Name: "--a", Aliases: aliases}}})
	aliases[0] = "-z"
	got := s.Slots()
	got[0].Aliases[0] = "-y"
	if _, _, ok := s.Lookup("-a"); !ok {
		t.Error("Lookup(-a) failed after caller mutated its slices")
	}
	if a := s.Slots()[0].Aliases[0]; a != "-a" {
		t.Errorf("Aliases[0] = %q, want %q", a, "-a")
	}
}

func TestMustSchemaPanics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("MustSchema did not panic on a colliding schema")
		}
	}()
	MustSchema(Config{Slots: []Slot{{Name: "-a"}, {Name: "-a"}}})
}

func TestModifierString(t *testing.T) {
	tests := []struct {
		m    Modifier
		want string
	}{
		{Modifier{}, "plain"},
		{Required(), "required"},
		{Default(1), "default"},
		{Accumulate(Set), "accumulate(set)"},
	}
	for _, tt := range tests {
		if got := tt.m.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
