// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command argv decodes command lines against declarative argv schemas.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"slices"

	"github.com/shayne/yargs"
	"github.com/yeetrun/argv/pkg/argv"
	"github.com/yeetrun/argv/pkg/describe"
	"github.com/yeetrun/argv/pkg/schemafile"
	"golang.org/x/term"
)

var version = "dev"

// errParseFailed reports a decode failure that has already been described
// on stderr.
var errParseFailed = errors.New("parse failed")

type globalFlags struct {
	Schema  string `flag:"schema" short:"s" help:"Schema document: .toml, .yaml, .json or .hcl (ARGV_SCHEMA)"`
	Format  string `flag:"format" short:"f" help:"Output format: text, json or yaml"`
	Verbose bool   `flag:"verbose" short:"v" help:"Log decoder steps to stderr"`
	NoColor bool   `flag:"no-color" help:"Never color error reports (NO_COLOR)"`
}

var isTerminalFn = term.IsTerminal

type app struct {
	flags  globalFlags
	format describe.Format
	// tail holds the arguments after "--": the command line to decode.
	tail   []string
	stdout io.Writer
	stderr io.Writer
	logger *slog.Logger
	style  describe.Style
}

func newApp(flags globalFlags, tail []string, stdout, stderr io.Writer) (*app, error) {
	format, err := describe.ParseFormat(flags.Format)
	if err != nil {
		return nil, err
	}
	if flags.Schema == "" {
		flags.Schema = os.Getenv("ARGV_SCHEMA")
	}
	a := &app{
		flags:  flags,
		format: format,
		tail:   tail,
		stdout: stdout,
		stderr: stderr,
	}
	if flags.Verbose {
		a.logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	if f, ok := stderr.(*os.File); ok && !flags.NoColor {
		a.style = describe.NewStyle(isTerminalFn(int(f.Fd())))
	}
	return a, nil
}

// splitArgs separates the CLI's own arguments from the command line after
// the first "--".
func splitArgs(args []string) (own, tail []string) {
	i := slices.Index(args, "--")
	if i < 0 {
		return args, nil
	}
	return args[:i], args[i+1:]
}

// stripCommand drops the subcommand name yargs leaves in args.
func stripCommand(args []string, name string) []string {
	if i := slices.Index(args, name); i >= 0 {
		return slices.Delete(slices.Clone(args), i, i+1)
	}
	return args
}

// loadSchema compiles the configured schema document. Without one it
// returns the built-in demo schema and a nil document.
func (a *app) loadSchema() (*argv.Schema, *schemafile.Document, error) {
	if a.flags.Schema == "" {
		return newDemoSchema(a.logger), nil, nil
	}
	doc, err := schemafile.Load(a.flags.Schema)
	if err != nil {
		return nil, nil, err
	}
	s, err := doc.Compile(schemafile.Options{Logger: a.logger})
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", a.flags.Schema, err)
	}
	return s, doc, nil
}

// report writes r in the configured format and describes its error, if
// any, on stderr. Text output of a failed parse is the error report alone.
func (a *app) report(s *argv.Schema, args []string, r *argv.Result) error {
	var perr *argv.ParseError
	failed := errors.As(r.Err(), &perr)
	if !failed || a.format != describe.Text {
		if err := describe.Result(a.stdout, r, a.format); err != nil {
			return err
		}
	}
	if !failed {
		return nil
	}
	if err := describe.Error(a.stderr, s, args, perr, a.style); err != nil {
		return err
	}
	return errParseFailed
}

func (a *app) handleDecode(_ context.Context, args []string) error {
	if extra := stripCommand(args, "decode"); len(extra) > 0 {
		return fmt.Errorf("unexpected arguments %q; put the command line after --", extra)
	}
	if len(a.tail) == 0 {
		return errors.New("nothing to decode; put the command line after --")
	}
	s, _, err := a.loadSchema()
	if err != nil {
		return err
	}
	return a.report(s, a.tail, s.Parse(a.tail))
}

type checkFlags struct {
	Export string `flag:"export" help:"Re-encode the schema document as toml, yaml or json"`
}

func (a *app) handleCheck(_ context.Context, args []string) error {
	res, err := yargs.ParseFlags[checkFlags](stripCommand(args, "check"))
	if err != nil {
		return err
	}
	s, doc, err := a.loadSchema()
	if err != nil {
		return err
	}
	if res.Flags.Export == "" {
		return describe.Slots(a.stdout, s)
	}
	if doc == nil {
		return errors.New("--export needs a schema document (--schema or ARGV_SCHEMA)")
	}
	format, err := schemafile.ParseFormat(res.Flags.Export)
	if err != nil {
		return err
	}
	return doc.Encode(a.stdout, format)
}

func buildHelpConfig() yargs.HelpConfig {
	return yargs.HelpConfig{
		Command: yargs.CommandInfo{
			Name:        "argv",
			Description: "Decode command lines against declarative argv schemas.",
			Examples: []string{
				"argv check --schema serve.toml",
				"argv decode --schema serve.toml -- serve -p 8080 --root /srv",
				"argv batch --schema serve.toml --format json lines.txt",
				"argv demo -- demo --positive-int 42 --enum ON a.txt",
			},
		},
		SubCommands: map[string]yargs.SubCommandInfo{
			"decode": {
				Name:        "decode",
				Description: "Decode one command line and print the result",
				Usage:       "-- PROGRAM [ARGS...]",
			},
			"check": {
				Name:        "check",
				Description: "Validate a schema document and list its slots",
				Usage:       "[--export=FORMAT]",
			},
			"batch": {
				Name:        "batch",
				Description: "Decode every line of the given files concurrently",
				Usage:       "FILE [FILE...]",
				Examples:    []string{"argv batch --schema serve.yaml cmds.txt -"},
			},
			"demo": {
				Name:        "demo",
				Description: "Run the built-in example application",
				Usage:       "[-- demo ARGS...]",
			},
		},
	}
}

func printCLIError(w io.Writer, err error) {
	if err == nil || errors.Is(err, errParseFailed) {
		return
	}
	fmt.Fprintf(w, "argv: %v\n", err)
}

func main() {
	own, tail := splitArgs(os.Args[1:])
	log.SetFlags(0)
	res, err := yargs.ParseKnownFlags[globalFlags](own, yargs.KnownFlagsOptions{})
	if err != nil {
		log.Fatalf("argv: %v", err)
	}
	a, err := newApp(res.Flags, tail, os.Stdout, os.Stderr)
	if err != nil {
		log.Fatalf("argv: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	handlers := map[string]yargs.SubcommandHandler{
		"decode": a.handleDecode,
		"check":  a.handleCheck,
		"batch":  a.handleBatch,
		"demo":   a.handleDemo,
	}
	if err := yargs.RunSubcommands(ctx, res.RemainingArgs, buildHelpConfig(), globalFlags{}, handlers); err != nil {
		printCLIError(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
