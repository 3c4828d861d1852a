// Spell
// Copyright (C) James Shubin and the project contributors
// Written by James Shubin <james@shubin.ca> and the project contributors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package cli handles all of the core command line parsing. It's the first
// entry point after the real main function, and it runs the spells.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	cliUtil "github.com/purpleidea/spell/cli/util"
	_ "github.com/purpleidea/spell/lang/core" // import so the tricks register
	"github.com/purpleidea/spell/util/errwrap"

	"github.com/alexflint/go-arg"
	"github.com/spf13/afero"
)

// CLI is the entry point for using spell normally from the CLI.
func CLI(ctx context.Context, data *cliUtil.Data) error {
	// test for sanity
	if data == nil {
		return fmt.Errorf("this CLI was not run correctly")
	}
	if data.Program == "" || data.Version == "" {
		return fmt.Errorf("program was not compiled correctly")
	}
	if data.Copying == "" {
		return fmt.Errorf("program copyrights were removed, can't run")
	}
	if len(data.Args) == 0 {
		return fmt.Errorf("missing program name in the args")
	}

	args := Args{}
	args.version = data.Version // copy this in
	args.description = data.Tagline

	config := arg.Config{
		Program: data.Program,
	}
	parser, err := arg.NewParser(config, &args)
	if err != nil {
		// programming error
		return errwrap.Wrapf(err, "cli config error")
	}
	err = parser.Parse(data.Args[1:]) // XXX: args[0] needs to be dropped
	if err == arg.ErrHelp {
		parser.WriteHelp(os.Stdout)
		return nil
	}
	if err == arg.ErrVersion {
		fmt.Printf("%s\n", data.Version) // byon: bring your own newline
		return nil
	}
	if err != nil {
		return cliUtil.CliParseError(err) // consistent errors
	}

	// display the license
	if args.License {
		fmt.Printf("%s", data.Copying) // file comes with a trailing nl
		return nil
	}

	if ok, err := args.Run(ctx, data); err != nil {
		return err
	} else if ok { // did we activate one of the commands?
		return nil
	}

	// print help if no subcommands are set
	parser.WriteHelp(os.Stdout)

	return nil
}

// Args is the CLI parsing structure and type of the parsed result. This
// particular struct is the top-most one.
type Args struct {
	License bool `arg:"--license" help:"display the license and exit"`

	RunCmd *RunArgs `arg:"subcommand:run" help:"run a spell"`

	FmtCmd *FmtArgs `arg:"subcommand:fmt" help:"display a spell or rewrite it in canonical form"`

	StripCmd *StripArgs `arg:"subcommand:strip" help:"remove the ephemeral values from a spell"`

	TricksCmd *TricksArgs `arg:"subcommand:tricks" help:"list the available tricks"`

	StoreCmd *StoreArgs `arg:"subcommand:store" help:"manage a directory of stored spells"`

	// version is a private handle for our version string.
	version string `arg:"-"` // ignored from parsing

	// description is a private handle for our description string.
	description string `arg:"-"` // ignored from parsing
}

// Version returns the version string. Implementing this signature is part of
// the API for the cli library.
func (obj *Args) Version() string {
	return obj.version
}

// Description returns a description string. Implementing this signature is part
// of the API for the cli library.
func (obj *Args) Description() string {
	return obj.description
}

// Run executes the correct subcommand. It errors if there's ever an error. It
// returns true if we did activate one of the subcommands. It returns false if
// we did not. This information is used so that the top-level parser can return
// usage or help information if no subcommand activates.
func (obj *Args) Run(ctx context.Context, data *cliUtil.Data) (bool, error) {
	if cmd := obj.RunCmd; cmd != nil {
		return cmd.Run(ctx, data)
	}

	if cmd := obj.FmtCmd; cmd != nil {
		return cmd.Run(ctx, data)
	}

	if cmd := obj.StripCmd; cmd != nil {
		return cmd.Run(ctx, data)
	}

	if cmd := obj.TricksCmd; cmd != nil {
		return cmd.Run(ctx, data)
	}

	if cmd := obj.StoreCmd; cmd != nil {
		return cmd.Run(ctx, data)
	}

	// NOTE: we could return true, fmt.Errorf("...") if more than one did
	return false, nil // nobody activated
}

// environ is what the subcommands read from and write to. The tests swap these
// out for in memory versions.
type environ struct {
	fs     afero.Fs
	stdout io.Writer
	stderr io.Writer

	debug bool
	logf  func(format string, v ...interface{})
}

// newEnviron returns the environment of the real operating system.
func newEnviron(data *cliUtil.Data) *environ {
	return &environ{
		fs:     afero.NewOsFs(),
		stdout: os.Stdout,
		stderr: os.Stderr,

		debug: data.Flags.Debug,
		logf: func(format string, v ...interface{}) {
			data.Flags.Logf("cli: "+format, v...)
		},
	}
}
