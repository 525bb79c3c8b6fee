// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package argv decodes command-line tokens against a declared schema of
// named slots.
//
// A Schema is an ordered list of Slots. Each slot has a name, optional
// aliases, a Decoder for its value and a Modifier that decides how values
// are stored. Tokens that exactly match a slot name or alias select that
// slot; every other token goes to the optional Positional slot.
//
// # Decoders
//
// A Decoder reads zero or more tokens from a Cursor and returns an Outcome:
// either a value, flagged as read from input (explicit) or synthesized, or a
// failure naming the expected type. Primitives (Bool, Int, Uint, Float,
// Char, Text, Path, ...) read one token. Combinators build larger shapes:
//
//	argv.Optional(argv.Text())                          // <text>?
//	argv.Sequence(argv.Float[float64]())                // <number>[]
//	argv.Array(argv.Bool(), 3)                          // <boolean>[3]
//	argv.Tuple(argv.Int[int](), argv.Float[float64]())  // <integer, number>
//	argv.Union(argv.Bool(), argv.Float[float64]())      // <boolean|number>
//	argv.Choice("y", "n")                               // <'y'|'n'>
//
// Decoders never read a token that names a slot, so "--a 1 2 --b" gives
// "--a" two values and leaves "--b" alone. Wrap a decoder in Force to lift
// that restriction.
//
// # Basic Usage
//
//	schema := argv.MustSchema(argv.Config{
//	    Name: "demo",
//	    Slots: []argv.Slot{
//	        {Name: "--verbose", Aliases: []string{"-v"}, Modifier: argv.Accumulate(argv.Counter)},
//	        {Name: "--port", Decoder: argv.Port(1, 65535), Modifier: argv.Default(uint16(8080))},
//	        {Name: "--name", Decoder: argv.Text(), Modifier: argv.Required()},
//	    },
//	    Positional: &argv.Positional{Decoder: argv.Path(), Modifier: argv.Accumulate(argv.List)},
//	})
//
//	res := schema.Parse(os.Args)
//	if err := res.Err(); err != nil {
//	    log.Fatal(err)
//	}
//	port, _ := argv.Get[uint16](res, "--port")
//
// # Errors
//
// Parsing stops at the first problem. Result.Err returns a *ParseError
// whose Kind is one of StrayValue, AmbiguousArgumentValue,
// InvalidArgumentValue or MissingArgument; errors.Is matches the
// corresponding Err sentinel.
package argv
