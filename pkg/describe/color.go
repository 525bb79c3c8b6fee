// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package describe

import (
	"os"

	"github.com/fatih/color"
)

// Style colors report output. The zero value writes plain text.
type Style struct {
	enabled bool
	err     *color.Color
	slot    *color.Color
	token   *color.Color
	hint    *color.Color
	dim     *color.Color
}

// NewStyle returns a Style that colors output when enabled is set, NO_COLOR
// is empty and TERM names a terminal that is not dumb.
func NewStyle(enabled bool) Style {
	if !enabled {
		return Style{}
	}
	if os.Getenv("NO_COLOR") != "" {
		return Style{}
	}
	term := os.Getenv("TERM")
	if term == "" || term == "dumb" {
		return Style{}
	}
	return forcedStyle()
}

// forcedStyle colors regardless of the environment. fatih/color disables
// itself when stdout is not a terminal, so every color is enabled
// explicitly; the caller has already decided.
func forcedStyle() Style {
	s := Style{
		enabled: true,
		err:     color.New(color.FgRed, color.Bold),
		slot:    color.New(color.FgCyan),
		token:   color.New(color.FgYellow),
		hint:    color.New(color.FgGreen),
		dim:     color.New(color.FgHiBlack),
	}
	for _, c := range []*color.Color{s.err, s.slot, s.token, s.hint, s.dim} {
		c.EnableColor()
	}
	return s
}

// Enabled reports whether s emits escape codes.
func (s Style) Enabled() bool { return s.enabled }

func (s Style) paint(c *color.Color, text string) string {
	if !s.enabled || c == nil || text == "" {
		return text
	}
	return c.Sprint(text)
}
