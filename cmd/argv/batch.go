// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/yeetrun/argv/pkg/argv"
	"github.com/yeetrun/argv/pkg/describe"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

// batchLine is one command line read from a batch input.
type batchLine struct {
	Source string
	Line   int
	Args   []string
}

type batchEntry struct {
	Source string          `json:"source" yaml:"source"`
	Line   int             `json:"line" yaml:"line"`
	Report describe.Report `json:"report" yaml:"report"`
}

// readBatch splits r into command lines. Blank lines and lines starting
// with # are skipped; tokens are separated by whitespace.
func readBatch(r io.Reader, source string) ([]batchLine, error) {
	var out []batchLine
	sc := bufio.NewScanner(r)
	n := 0
	for sc.Scan() {
		n++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		out = append(out, batchLine{Source: source, Line: n, Args: strings.Fields(text)})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", source, err)
	}
	return out, nil
}

func openBatch(name string) ([]batchLine, error) {
	if name == "-" {
		return readBatch(os.Stdin, "<stdin>")
	}
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return readBatch(f, name)
}

// decodeAll parses every line against s concurrently. Results keep input
// order.
func decodeAll(ctx context.Context, s *argv.Schema, lines []batchLine) ([]*argv.Result, error) {
	results := make([]*argv.Result, len(lines))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, l := range lines {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = s.Parse(l.Args)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (a *app) handleBatch(ctx context.Context, args []string) error {
	files := stripCommand(args, "batch")
	files = append(files, a.tail...)
	if len(files) == 0 {
		return errors.New("batch needs at least one file (- reads stdin)")
	}
	s, _, err := a.loadSchema()
	if err != nil {
		return err
	}
	var lines []batchLine
	for _, f := range files {
		ls, err := openBatch(f)
		if err != nil {
			return err
		}
		lines = append(lines, ls...)
	}
	results, err := decodeAll(ctx, s, lines)
	if err != nil {
		return err
	}

	failed := 0
	entries := make([]batchEntry, len(lines))
	for i, r := range results {
		if r.Err() != nil {
			failed++
		}
		entries[i] = batchEntry{Source: lines[i].Source, Line: lines[i].Line, Report: describe.NewReport(r)}
	}
	if err := a.writeBatch(entries); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d command lines failed", failed, len(lines))
	}
	return nil
}

func (a *app) writeBatch(entries []batchEntry) error {
	switch a.format {
	case describe.JSON:
		enc := json.NewEncoder(a.stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	case describe.YAML:
		enc := yaml.NewEncoder(a.stdout)
		enc.SetIndent(2)
		if err := enc.Encode(entries); err != nil {
			return err
		}
		return enc.Close()
	}
	for _, e := range entries {
		status := "ok"
		if e.Report.Error != nil {
			status = e.Report.Error.Message
		}
		fmt.Fprintf(a.stdout, "%s:%d: %s\n", e.Source, e.Line, status)
	}
	return nil
}
