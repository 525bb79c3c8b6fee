// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/yeetrun/argv/pkg/argv"
	"github.com/yeetrun/argv/pkg/describe"
	"tailscale.com/util/must"
)

type demoState int

const (
	stateNone     demoState = 0
	stateActive   demoState = 1
	stateInactive demoState = 17
)

func (s demoState) String() string {
	switch s {
	case stateActive:
		return "active"
	case stateInactive:
		return "inactive"
	}
	return "none"
}

func demoConfig() argv.Config {
	return argv.Config{
		Name: "demo",
		Slots: []argv.Slot{
			{
				Name:        "--help",
				Aliases:     []string{"-h", "?", "-help"},
				Description: "show help, or help for the named argument",
				Decoder:     argv.Optional(argv.Force(argv.Text())),
			},
			{Name: "--version", Aliases: []string{"-V", "-version"}, Description: "print the version and executable path"},
			{Name: "--flag"},
			{Name: "--positive-int", Decoder: argv.Uint[uint]()},
			{Name: "--float", Decoder: argv.Float[float32]()},
			{Name: "--array", Decoder: argv.Array(argv.Bool(), 3)},
			{Name: "--dynamic-array", Decoder: argv.Sequence(argv.Float[float64]())},
			{Name: "--variant", Decoder: argv.Union(argv.Bool(), argv.Float[float32]())},
			{Name: "--tuple", Decoder: argv.Tuple(argv.Int[int](), argv.Float[float32]())},
			{Name: "--optional", Decoder: argv.Optional(argv.Text())},
			{Name: "--enum", Decoder: argv.Enum(
				argv.EnumLabel{Name: "on", Value: stateActive, Fold: true},
				argv.EnumLabel{Name: "off", Value: stateInactive, Fold: true},
				argv.EnumLabel{Name: "enable", Value: stateActive},
				argv.EnumLabel{Name: "disable", Value: stateInactive},
			)},
			{Name: "--option", Decoder: argv.Choice("y", "n")},
			{Name: "--rename", Decoder: argv.Rename(argv.Int[int](), "float100%")},
			{Name: "--transform", Decoder: argv.Transform(argv.Int[int64](), func(v int64) float32 {
				return float32(v) / 10
			})},
			{Name: "--validate", Decoder: argv.Validate(argv.Rename(argv.Path(), "abs path"), filepath.IsAbs)},
			{Name: "--accumulate", Modifier: argv.Accumulate(argv.Counter)},
			{Name: "--required", Decoder: argv.Bool(), Modifier: argv.Required()},
			{Name: "--default-value", Decoder: argv.Int[int](), Modifier: argv.Default(2137)},
		},
		Positional: &argv.Positional{Decoder: argv.Path(), Modifier: argv.Accumulate(argv.List)},
	}
}

func newDemoSchema(logger *slog.Logger) *argv.Schema {
	cfg := demoConfig()
	cfg.Logger = logger
	return must.Get(argv.NewSchema(cfg))
}

// handleDemo runs the example application on the command line after "--".
// Help wins over a parse error, as does the version switch over output.
func (a *app) handleDemo(_ context.Context, _ []string) error {
	s := newDemoSchema(a.logger)
	if len(a.tail) == 0 {
		return describe.Slots(a.stdout, s)
	}
	r := s.Parse(a.tail)
	if r.Count("--help") > 0 {
		if name, ok := argv.Get[string](r, "--help"); ok {
			return describe.SlotHelp(a.stdout, s, name)
		}
		return describe.Slots(a.stdout, s)
	}
	if r.Err() == nil && r.Count("--version") > 0 {
		fmt.Fprintf(a.stdout, "%s-%s\nExecutable: %s\n", s.Name(), version, r.Path())
		return nil
	}
	err := a.report(s, a.tail, r)
	if errors.Is(err, errParseFailed) {
		fmt.Fprintln(a.stderr, "run with -- demo --help to list the arguments")
	}
	return err
}
