// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package typeexpr

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/yeetrun/argv/pkg/argv"
)

func TestParseNames(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"int", "integer"},
		{"uint", "+integer"},
		{"float[]", "<number>[]"},
		{"bool[3]", "<boolean>[3]"},
		{"(int, float)", "<integer, number>"},
		{"(int, float)[]", "<integer, number>[]"},
		{"(int)", "integer"},
		{"bool|float", "<boolean|number>"},
		{"text?", "<text>?"},
		{"!text?", "<text>?"},
		{"<>|int", "<integer>?"},
		{"{'y', 'n'}", "<'y'|'n'>"},
		{"{'low', 'high', ...int}", "<'low'|'high'|integer>"},
		{"port(1, 1024)", "port"},
		{"  path  ", "path"},
	}
	for _, tt := range tests {
		d, err := Parse(tt.src)
		if err != nil {
			t.Errorf("Parse(%q) error = %v", tt.src, err)
			continue
		}
		if got := d.Name(); got != tt.want {
			t.Errorf("Parse(%q).Name() = %q, want %q", tt.src, got, tt.want)
		}
	}
}

func decode(t *testing.T, src string, tokens ...argv.Token) argv.Outcome {
	t.Helper()
	return MustParse(src).Decode(argv.NewCursor(tokens))
}

func TestParsedDecoders(t *testing.T) {
	o := decode(t, "{'on'i, 'off'i}", argv.Token{Text: "ON"})
	if o.Value() != "on" {
		t.Errorf("folded label = %v, want on", o.Value())
	}

	o = decode(t, "{'low', ...int}", argv.Token{Text: "5"})
	if o.Value() != 5 {
		t.Errorf("open enum fallback = %v, want 5", o.Value())
	}

	o = decode(t, "!text?", argv.Token{Text: "--flag", Slot: 1})
	if o.Value() != "--flag" {
		t.Errorf("forced text = %v, want --flag", o.Value())
	}

	o = decode(t, "(float[], int)", argv.Token{Text: "1.5"}, argv.Token{Text: "2"}, argv.Token{Text: "3"})
	if diff := cmp.Diff([]any{[]any{1.5, 2.0}, 3}, o.Value()); diff != "" {
		t.Errorf("tuple mismatch (-want +got):\n%s", diff)
	}

	o = decode(t, "bool|float", argv.Token{Text: "0.5"})
	if diff := cmp.Diff(argv.Variant{Index: 1, Value: 0.5}, o.Value()); diff != "" {
		t.Errorf("union mismatch (-want +got):\n%s", diff)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		src         string
		wantOffset  int
		wantMsg     string
		wantSuggest string
	}{
		{"integr", 0, `unknown type "integr"`, "integer"},
		{"bool|flaot", 5, `unknown type "flaot"`, "float"},
		{"int[", 4, "expected number, got end of expression", ""},
		{"int int", 4, "unexpected type name", ""},
		{"{'a'i, 'A'}", 7, `label "A" repeats "a"`, ""},
		{"{}", 1, "expected quoted label, got '}'", ""},
		{"port(10, 1)", 0, "invalid port range 10-1", ""},
		{"'abc", 0, "unterminated label", ""},
		{"int$", 3, `unexpected character '$'`, ""},
		{"bool[5000]", 5, "array size 5000 exceeds 4096", ""},
		{"(int, float", 11, "expected ')', got end of expression", ""},
	}
	for _, tt := range tests {
		_, err := Parse(tt.src)
		var se *SyntaxError
		if !errors.As(err, &se) {
			t.Errorf("Parse(%q) error = %v, want *SyntaxError", tt.src, err)
			continue
		}
		if se.Offset != tt.wantOffset || se.Msg != tt.wantMsg || se.Suggestion != tt.wantSuggest {
			t.Errorf("Parse(%q) = {%d %q %q}, want {%d %q %q}", tt.src,
				se.Offset, se.Msg, se.Suggestion, tt.wantOffset, tt.wantMsg, tt.wantSuggest)
		}
	}
}

func TestSyntaxErrorMessage(t *testing.T) {
	_, err := Parse("bool|integr")
	if err == nil {
		t.Fatal("Parse succeeded")
	}
	want := "type expression: unknown type \"integr\" at offset 5 (did you mean \"integer\"?)\n" +
		"  | bool|integr\n" +
		"  |      ^"
	if err.Error() != want {
		t.Errorf("Error() =\n%s\nwant\n%s", err.Error(), want)
	}
}

func TestEnvDefine(t *testing.T) {
	env := NewEnv()
	env.Define("level", func() argv.Decoder { return argv.Choice("debug", "info", "warn") })
	d, err := env.Parse("level[]")
	if err != nil {
		t.Fatalf("Parse error = %v", err)
	}
	o := d.Decode(argv.NewCursor([]argv.Token{{Text: "warn"}, {Text: "info"}}))
	if diff := cmp.Diff([]any{2, 1}, o.Value()); diff != "" {
		t.Errorf("level[] mismatch (-want +got):\n%s", diff)
	}
	if _, err := Parse("level"); err == nil {
		t.Error("Define leaked into the default environment")
	}
	if !strings.Contains(strings.Join(env.Names(), ","), "level") {
		t.Error("Names() is missing level")
	}
}
