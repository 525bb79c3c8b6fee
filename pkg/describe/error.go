// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package describe

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/yeetrun/argv/pkg/argv"
	"github.com/yeetrun/argv/pkg/suggest"
)

// Error writes a report for err, which must have come from parsing args
// with s. The report shows the error message, the command line with the
// offending token underlined and, when one applies, a hint.
//
//	error: stray value "--verbos" at position 1
//	  prog --verbos
//	       ^^^^^^^^
//	hint: did you mean --verbose?
func Error(w io.Writer, s *argv.Schema, args []string, err *argv.ParseError, st Style) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", st.paint(st.err, "error:"), err.Error())
	if err.Kind != argv.MissingArgument && len(args) > 0 {
		line, caret := underline(args, err.TokenIndex)
		fmt.Fprintf(&b, "  %s\n  %s\n", line, st.paint(st.err, caret))
	}
	if h := Hint(s, err); h != "" {
		fmt.Fprintf(&b, "%s %s\n", st.paint(st.hint, "hint:"), h)
	}
	_, werr := io.WriteString(w, b.String())
	return werr
}

// Hint returns advice for err, or "" when there is none.
func Hint(s *argv.Schema, err *argv.ParseError) string {
	switch err.Kind {
	case argv.StrayValue:
		if guess := suggest.Closest(err.Token, slotNames(s)); guess != "" {
			return fmt.Sprintf("did you mean %s?", guess)
		}
		if _, ok := s.Positional(); !ok {
			return "this command takes no positional values"
		}
	case argv.AmbiguousArgumentValue:
		if err.SlotIndex < 0 {
			return "only one positional value is accepted"
		}
		return fmt.Sprintf("%s may be given only once", err.SlotName)
	case argv.InvalidArgumentValue:
		if err.Token == "" {
			return fmt.Sprintf("a %s value is needed here", err.Expected)
		}
	case argv.MissingArgument:
		slot, _, _ := s.Lookup(err.SlotName)
		if slot.Decoder == nil {
			return fmt.Sprintf("add %s", err.SlotName)
		}
		return fmt.Sprintf("add %s %s", err.SlotName, err.SlotType)
	}
	return ""
}

func slotNames(s *argv.Schema) []string {
	var names []string
	for _, slot := range s.Slots() {
		names = append(names, slot.Names()...)
	}
	return names
}

// underline renders args on one line and a caret line marking args[at].
// An index past the end marks the position after the last token.
func underline(args []string, at int) (string, string) {
	var line strings.Builder
	col, width := -1, 1
	for i, a := range args {
		if i > 0 {
			line.WriteByte(' ')
		}
		text := quoteArg(a)
		if i == at {
			col = utf8.RuneCountInString(line.String())
			width = max(utf8.RuneCountInString(text), 1)
		}
		line.WriteString(text)
	}
	if col < 0 {
		col = utf8.RuneCountInString(line.String()) + 1
	}
	return line.String(), strings.Repeat(" ", col) + strings.Repeat("^", width)
}

func quoteArg(a string) string {
	if a == "" || strings.ContainsAny(a, " \t\n\"'") {
		return strconv.Quote(a)
	}
	return a
}
