// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package describe

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/yeetrun/argv/pkg/argv"
	"gopkg.in/yaml.v3"
)

// Format selects how a result is rendered.
type Format string

const (
	Text Format = "text"
	JSON Format = "json"
	YAML Format = "yaml"
)

var ErrUnknownFormat = errors.New("unknown output format")

// ParseFormat maps a user-supplied name to a Format. Empty selects Text.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "text", "plain":
		return Text, nil
	case "json":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	}
	return "", fmt.Errorf("%w %q (expected text, json, or yaml)", ErrUnknownFormat, name)
}

// Report is the plain-data form of a parse result.
type Report struct {
	Path       string       `json:"path" yaml:"path"`
	Slots      []SlotReport `json:"slots" yaml:"slots"`
	Positional any          `json:"positional,omitempty" yaml:"positional,omitempty"`
	Error      *ErrorReport `json:"error,omitempty" yaml:"error,omitempty"`
}

type SlotReport struct {
	Name      string `json:"name" yaml:"name"`
	Type      string `json:"type" yaml:"type"`
	Present   bool   `json:"present" yaml:"present"`
	Count     int    `json:"count,omitempty" yaml:"count,omitempty"`
	Defaulted bool   `json:"defaulted,omitempty" yaml:"defaulted,omitempty"`
	Value     any    `json:"value,omitempty" yaml:"value,omitempty"`
}

type ErrorReport struct {
	Kind     string `json:"kind" yaml:"kind"`
	Position int    `json:"position" yaml:"position"`
	Token    string `json:"token,omitempty" yaml:"token,omitempty"`
	Slot     string `json:"slot,omitempty" yaml:"slot,omitempty"`
	Type     string `json:"type,omitempty" yaml:"type,omitempty"`
	Expected string `json:"expected,omitempty" yaml:"expected,omitempty"`
	Message  string `json:"message" yaml:"message"`
}

// NewReport converts r into a Report. Values of slots that are not present
// are left out.
func NewReport(r *argv.Result) Report {
	rep := Report{Path: r.Path()}
	for _, e := range r.Entries() {
		sr := SlotReport{
			Name:      e.Slot.Name,
			Type:      e.Slot.TypeName(),
			Present:   e.Present,
			Count:     e.Count,
			Defaulted: e.Defaulted,
		}
		if e.Present {
			sr.Value = Plain(e.Value)
		}
		rep.Slots = append(rep.Slots, sr)
	}
	if v, ok := r.PositionalValue(); ok {
		rep.Positional = Plain(v)
	}
	var perr *argv.ParseError
	if errors.As(r.Err(), &perr) {
		rep.Error = &ErrorReport{
			Kind:     perr.Kind.String(),
			Position: perr.TokenIndex,
			Token:    perr.Token,
			Slot:     perr.SlotName,
			Type:     perr.SlotType,
			Expected: perr.Expected,
			Message:  perr.Error(),
		}
	}
	return rep
}

// Plain converts a decoded value into maps, slices and scalars that encode
// cleanly as JSON or YAML.
func Plain(v any) any {
	switch v := v.(type) {
	case nil:
		return nil
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = Plain(e)
		}
		return out
	case *argv.ValueSet:
		return Plain(v.Values())
	case argv.Variant:
		return map[string]any{"index": v.Index, "value": Plain(v.Value)}
	case [4]byte:
		return string(bytes.TrimRight(v[:], "\x00"))
	case string, bool, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64, float32, float64:
		return v
	case fmt.Stringer:
		return v.String()
	}
	return v
}

// Result writes r in the given format.
func Result(w io.Writer, r *argv.Result, format Format) error {
	rep := NewReport(r)
	switch format {
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(rep); err != nil {
			return err
		}
		return enc.Close()
	case Text, "":
		return writeText(w, rep)
	}
	return fmt.Errorf("%w %q", ErrUnknownFormat, format)
}

func writeText(w io.Writer, rep Report) error {
	fmt.Fprintf(w, "path: %s\n", rep.Path)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, s := range rep.Slots {
		fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\n", s.Name, s.Type, textValue(s), source(s))
	}
	if rep.Positional != nil {
		fmt.Fprintf(tw, "  (positional)\t\t%s\t\n", compact(rep.Positional))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if rep.Error != nil {
		_, err := fmt.Fprintf(w, "error: %s\n", rep.Error.Message)
		return err
	}
	return nil
}

func textValue(s SlotReport) string {
	if !s.Present {
		return "-"
	}
	return compact(s.Value)
}

func source(s SlotReport) string {
	switch {
	case s.Defaulted:
		return "default"
	case s.Count == 1:
		return "input"
	case s.Count > 1:
		return fmt.Sprintf("input x%d", s.Count)
	}
	return ""
}

// compact renders a plain value as single-line JSON.
func compact(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}
