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

package cli

import (
	"context"
	"fmt"

	cliUtil "github.com/purpleidea/spell/cli/util"
	"github.com/purpleidea/spell/lang/funcs"
	"github.com/purpleidea/spell/lang/spell"
	"github.com/purpleidea/spell/store"
)

// FmtArgs is the CLI parsing structure and type of the parsed result. This
// particular one contains all the flags for the `fmt` subcommand.
type FmtArgs struct {
	cliUtil.SpellArgs // embedded (can't be a pointer)

	Yaml  bool `arg:"--yaml" help:"print the canonical yaml form instead of the text form"`
	Write bool `arg:"--write" help:"rewrite the file in its canonical yaml form"`
}

// Run executes the `fmt` subcommand.
func (obj *FmtArgs) Run(ctx context.Context, data *cliUtil.Data) (bool, error) {
	cliUtil.Hello(data.Program, data.Version, data.Flags) // say hello!
	return true, obj.format(newEnviron(data))
}

func (obj *FmtArgs) format(env *environ) error {
	node, err := store.ReadFile(env.fs, obj.Input, &funcs.Registry{})
	if err != nil {
		return err
	}

	if obj.Write {
		return store.WriteFile(env.fs, obj.Input, node)
	}

	if obj.Yaml {
		b, err := spell.Encode(node)
		if err != nil {
			return err
		}
		_, err = env.stdout.Write(b)
		return err
	}

	p := &printer{color: useColor(obj.Color, env.stdout)}
	fmt.Fprintln(env.stdout, p.node(node))
	return nil
}

// StripArgs is the CLI parsing structure and type of the parsed result. This
// particular one contains all the flags for the `strip` subcommand.
type StripArgs struct {
	cliUtil.SpellArgs // embedded (can't be a pointer)

	Output string `arg:"--output" help:"write the stripped spell here instead of back into the input"`
}

// Run executes the `strip` subcommand.
func (obj *StripArgs) Run(ctx context.Context, data *cliUtil.Data) (bool, error) {
	cliUtil.Hello(data.Program, data.Version, data.Flags) // say hello!
	return true, obj.strip(newEnviron(data))
}

func (obj *StripArgs) strip(env *environ) error {
	node, err := store.ReadFile(env.fs, obj.Input, nil) // no need to resolve
	if err != nil {
		return err
	}
	before := node.String()
	node.StripEphemerals()

	output := obj.Output
	if output == "" {
		output = obj.Input
	}
	if err := store.WriteFile(env.fs, output, node); err != nil {
		return err
	}

	if after := node.String(); after != before {
		p := &printer{color: useColor(obj.Color, env.stdout)}
		fmt.Fprintln(env.stdout, p.diff(before, after))
	}
	env.logf("stripped: %s", output)
	return nil
}
