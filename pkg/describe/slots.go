// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package describe

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/yeetrun/argv/pkg/argv"
	"github.com/yeetrun/argv/pkg/suggest"
)

// ErrUnknownSlot is returned by SlotHelp for a name no slot answers to.
var ErrUnknownSlot = errors.New("unknown argument")

// Slots writes a table of the schema's slots followed by the positional
// slot, if any.
func Slots(w io.Writer, s *argv.Schema) error {
	if s.Name() != "" {
		fmt.Fprintf(w, "%s", s.Name())
		if s.Description() != "" {
			fmt.Fprintf(w, " - %s", s.Description())
		}
		fmt.Fprintln(w)
		fmt.Fprintln(w)
	}
	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	fmt.Fprintln(tw, "NAME\tALIASES\tTYPE\tMODIFIER\tDESCRIPTION")
	for _, slot := range s.Slots() {
		aliases := strings.Join(slot.Aliases, ", ")
		if aliases == "" {
			aliases = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", slot.Name, aliases, slot.TypeName(), slot.Modifier, slot.Description)
	}
	if p, ok := s.Positional(); ok {
		fmt.Fprintf(tw, "(positional)\t-\t%s\t%s\t\n", p.TypeName(), p.Modifier)
	}
	return tw.Flush()
}

// SlotHelp writes the help entry for the slot selected by name or alias.
func SlotHelp(w io.Writer, s *argv.Schema, name string) error {
	slot, _, ok := s.Lookup(name)
	if !ok {
		if guess := suggest.Closest(name, slotNames(s)); guess != "" {
			return fmt.Errorf("%w %q (did you mean %s?)", ErrUnknownSlot, name, guess)
		}
		return fmt.Errorf("%w %q", ErrUnknownSlot, name)
	}
	fmt.Fprintln(w, strings.Join(slot.Names(), ", "))
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "  type:\t%s\n", slot.TypeName())
	fmt.Fprintf(tw, "  modifier:\t%s\n", slot.Modifier)
	if slot.Description != "" {
		fmt.Fprintf(tw, "  description:\t%s\n", slot.Description)
	}
	return tw.Flush()
}
