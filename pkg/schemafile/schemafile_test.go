// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package schemafile

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yeetrun/argv/pkg/argv"
	"github.com/yeetrun/argv/pkg/typeexpr"
)

const serveTOML = `
name = "serve"
description = "serve files"

[positional]
type = "path"
accumulate = "list"

[[slots]]
name = "--port"
aliases = ["-p"]
type = "port"
default = 8080

[[slots]]
name = "--verbose"
aliases = ["-v"]
accumulate = "counter"

[[slots]]
name = "--root"
type = "path"
required = true

[[slots]]
name = "--scale"
type = "float[2]"
default = ["1", "0.5"]
`

const serveYAML = `
name: serve
description: serve files
positional:
  type: path
  accumulate: list
slots:
  - name: --port
    aliases: [-p]
    type: port
    default: 8080
  - name: --verbose
    aliases: [-v]
    accumulate: counter
  - name: --root
    type: path
    required: true
  - name: --scale
    type: float[2]
    default: ["1", 0.5]
`

const serveJSON = `{
  "name": "serve",
  "description": "serve files",
  "positional": {"type": "path", "accumulate": "list"},
  "slots": [
    {"name": "--port", "aliases": ["-p"], "type": "port", "default": 8080},
    {"name": "--verbose", "aliases": ["-v"], "accumulate": "counter"},
    {"name": "--root", "type": "path", "required": true},
    {"name": "--scale", "type": "float[2]", "default": [1, "0.5"]}
  ]
}`

const serveHCL = `
name        = "serve"
description = "serve files"

positional {
  type       = "path"
  accumulate = "list"
}

slot "--port" {
  aliases = ["-p"]
  type    = "port"
  default = 8080
}

slot "--verbose" {
  aliases    = ["-v"]
  accumulate = "counter"
}

slot "--root" {
  type     = "path"
  required = true
}

slot "--scale" {
  type    = "float[2]"
  default = [1, 0.5]
}
`

func TestLoadAllFormats(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"serve.toml": serveTOML,
		"serve.yaml": serveYAML,
		"serve.json": serveJSON,
		"serve.hcl":  serveHCL,
	}
	for name, content := range files {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

			s, err := LoadSchema(path, Options{})
			require.NoError(t, err)
			require.Equal(t, "serve", s.Name())
			require.Equal(t, "serve files", s.Description())

			slots := s.Slots()
			require.Len(t, slots, 4)
			require.Equal(t, []string{"--port", "-p"}, slots[0].Names())
			require.Equal(t, "port", slots[0].TypeName())
			require.Equal(t, "<>", slots[1].TypeName())
			require.True(t, slots[2].Modifier.IsRequired())
			require.Equal(t, "<number>[2]", slots[3].TypeName())

			r := s.Parse([]string{"serve", "-v", "-v", "--root", "/srv", "a.txt", "b.txt"})
			require.NoError(t, r.Err())

			port, ok := argv.Get[uint16](r, "--port")
			require.True(t, ok)
			require.Equal(t, uint16(8080), port)

			verbose, _ := argv.Get[int](r, "-v")
			require.Equal(t, 2, verbose)

			scale, _ := r.Lookup("--scale")
			require.Equal(t, []any{1.0, 0.5}, scale)

			paths, _ := r.PositionalValue()
			require.Equal(t, []any{"a.txt", "b.txt"}, paths)
		})
	}
}

func TestParseRejectsInvalidDocuments(t *testing.T) {
	tests := []struct {
		name    string
		format  Format
		content string
	}{
		{"unknown key", YAML, "slots:\n  - name: --a\n    colour: red\n"},
		{"missing name", JSON, `{"slots": [{"type": "int"}]}`},
		{"bad accumulate", TOML, "[[slots]]\nname = \"--a\"\naccumulate = \"bag\"\n"},
		{"required with default", JSON, `{"slots": [{"name": "--a", "type": "int", "required": true, "default": 1}]}`},
		{"switch collected as list", TOML, "[[slots]]\nname = \"--a\"\naccumulate = \"list\"\n"},
		{"default with accumulate", JSON, `{"slots": [{"name": "--a", "type": "int", "accumulate": "list", "default": 1}]}`},
		{"display without type", JSON, `{"slots": [{"name": "--a", "display": "thing"}]}`},
		{"positional without type", HCL, "positional {\n  accumulate = \"list\"\n}\n"},
		{"object default", JSON, `{"slots": [{"name": "--a", "type": "int", "default": {"x": 1}}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.content), tt.format, "test."+string(tt.format))
			require.Error(t, err)
		})
	}

	_, err := Parse([]byte(`{"slots": [{"name": ""}]}`), JSON, "")
	require.ErrorIs(t, err, ErrInvalidDocument)
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		name    string
		doc     Document
		wantErr error
	}{
		{
			name:    "bad default",
			doc:     Document{Slots: []SlotSpec{{Name: "--n", Type: "int", Default: "ten"}}},
			wantErr: ErrBadDefault,
		},
		{
			name:    "default with leftover tokens",
			doc:     Document{Slots: []SlotSpec{{Name: "--n", Type: "int", Default: []any{"1", "2"}}}},
			wantErr: ErrBadDefault,
		},
		{
			name:    "switch default",
			doc:     Document{Slots: []SlotSpec{{Name: "--n", Default: "true"}}},
			wantErr: ErrBadDefault,
		},
		{
			name:    "switch collected as set",
			doc:     Document{Slots: []SlotSpec{{Name: "--n", Accumulate: "set"}}},
			wantErr: argv.ErrInvalidModifier,
		},
		{
			name:    "collision",
			doc:     Document{Slots: []SlotSpec{{Name: "--n"}, {Name: "-n", Aliases: []string{"--n"}}}},
			wantErr: argv.ErrNameCollision,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.doc.Compile(Options{})
			require.ErrorIs(t, err, tt.wantErr)
		})
	}

	doc := Document{Slots: []SlotSpec{{Name: "--n", Type: "integr"}}}
	_, err := doc.Compile(Options{})
	var se *typeexpr.SyntaxError
	require.True(t, errors.As(err, &se), "error %v is not a *typeexpr.SyntaxError", err)
	require.Equal(t, "integer", se.Suggestion)
}

func TestCompileUsesEnv(t *testing.T) {
	env := typeexpr.NewEnv()
	env.Define("level", func() argv.Decoder { return argv.Choice("debug", "info") })
	doc := Document{Slots: []SlotSpec{{Name: "--level", Type: "level", Display: "log level", Default: "info"}}}
	s, err := doc.Compile(Options{Env: env})
	require.NoError(t, err)
	require.Equal(t, "log level", s.Slots()[0].TypeName())

	r := s.Parse([]string{"prog"})
	v, ok := r.Lookup("--level")
	require.True(t, ok)
	require.Equal(t, 1, v)
}

func TestEncodeRoundTrip(t *testing.T) {
	doc, err := Parse([]byte(serveYAML), YAML, "serve.yaml")
	require.NoError(t, err)
	for _, format := range []Format{TOML, YAML, JSON} {
		t.Run(string(format), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, doc.Encode(&buf, format))
			again, err := Parse(buf.Bytes(), format, "")
			require.NoError(t, err)
			s, err := again.Compile(Options{})
			require.NoError(t, err)
			r := s.Parse([]string{"serve", "--root", "/"})
			require.NoError(t, r.Err())
			port, _ := argv.Get[uint16](r, "--port")
			require.Equal(t, uint16(8080), port)
		})
	}
	require.ErrorIs(t, doc.Encode(&bytes.Buffer{}, HCL), ErrUnknownFormat)
}

func TestFormatFromPath(t *testing.T) {
	for path, want := range map[string]Format{
		"a.toml": TOML, "b.YML": YAML, "c.yaml": YAML, "d.json": JSON, "e.hcl": HCL,
	} {
		got, err := FormatFromPath(path)
		require.NoError(t, err)
		require.Equal(t, want, got, path)
	}
	_, err := FormatFromPath("schema.ini")
	require.ErrorIs(t, err, ErrUnknownFormat)
}
