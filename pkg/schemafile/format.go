// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package schemafile

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/yeetrun/argv/pkg/argv"
	"gopkg.in/yaml.v3"
)

// Format is a document syntax.
type Format string

const (
	TOML Format = "toml"
	YAML Format = "yaml"
	JSON Format = "json"
	HCL  Format = "hcl"
)

// ErrUnknownFormat is returned for a file extension or format name that no
// loader handles.
var ErrUnknownFormat = errors.New("unknown schema format")

// ParseFormat maps a name such as "yml" to a Format.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(name, ".")) {
	case "toml":
		return TOML, nil
	case "yaml", "yml":
		return YAML, nil
	case "json":
		return JSON, nil
	case "hcl":
		return HCL, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
}

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	return ParseFormat(filepath.Ext(path))
}

// Load reads and validates the document at path.
func Load(path string) (*Document, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc, err := Parse(data, format, path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// LoadSchema loads the document at path and compiles it.
func LoadSchema(path string, opts Options) (*argv.Schema, error) {
	doc, err := Load(path)
	if err != nil {
		return nil, err
	}
	s, err := doc.Compile(opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Parse validates a document held in memory. filename is only used in HCL
// diagnostics.
func Parse(data []byte, format Format, filename string) (*Document, error) {
	switch format {
	case TOML:
		var raw map[string]any
		if err := toml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parsing TOML: %w", err)
		}
		return fromValue(raw)
	case YAML:
		var raw any
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parsing YAML: %w", err)
		}
		if raw == nil {
			raw = map[string]any{}
		}
		return fromValue(raw)
	case JSON:
		return fromJSON(data)
	case HCL:
		return parseHCL(data, filename)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// Decode reads a whole document from r.
func Decode(r io.Reader, format Format) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Parse(data, format, "<input>")
}

// Encode writes doc to w. HCL output is not supported.
func (d *Document) Encode(w io.Writer, format Format) error {
	switch format {
	case TOML:
		return toml.NewEncoder(w).Encode(d)
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(d); err != nil {
			return err
		}
		return enc.Close()
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(d)
	}
	return fmt.Errorf("%w: cannot encode %q", ErrUnknownFormat, format)
}
