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
	"github.com/purpleidea/spell/lang/types"
	"github.com/purpleidea/spell/store"
)

// StoreArgs is the CLI parsing structure and type of the parsed result. This
// particular one contains the flags and subcommands of the `store` subcommand.
type StoreArgs struct {
	Dir string `arg:"--dir,env:SPELL_STORE" default:"." help:"directory of the stored spells"`

	StoreList   *cliUtil.EmptyArgs     `arg:"subcommand:list" help:"list the stored spells"`
	StoreAdd    *cliUtil.StoreAddArgs  `arg:"subcommand:add" help:"copy a spell file into the store"`
	StoreShow   *cliUtil.StoreNameArgs `arg:"subcommand:show" help:"display a stored spell"`
	StoreDelete *cliUtil.StoreNameArgs `arg:"subcommand:delete" help:"remove a stored spell"`
}

// Run executes the correct store subcommand. It returns false if none of them
// were activated, so that the help gets shown.
func (obj *StoreArgs) Run(ctx context.Context, data *cliUtil.Data) (bool, error) {
	var name string
	var args interface{}
	if cmd := obj.StoreList; cmd != nil {
		name = cliUtil.LookupSubcommand(obj, cmd) // "list"
		args = cmd
	}
	if cmd := obj.StoreAdd; cmd != nil {
		name = cliUtil.LookupSubcommand(obj, cmd) // "add"
		args = cmd
	}
	if cmd := obj.StoreShow; cmd != nil {
		name = cliUtil.LookupSubcommand(obj, cmd) // "show"
		args = cmd
	}
	if cmd := obj.StoreDelete; cmd != nil {
		name = cliUtil.LookupSubcommand(obj, cmd) // "delete"
		args = cmd
	}
	if name == "" {
		return false, nil // did not activate
	}
	return true, obj.run(newEnviron(data), name, args)
}

func (obj *StoreArgs) run(env *environ, name string, args interface{}) error {
	s := &store.Store{
		Fs:     env.fs,
		Prefix: obj.Dir,

		Debug: env.debug,
		Logf: func(format string, v ...interface{}) {
			env.logf("store: "+format, v...)
		},
	}

	switch name {
	case "list":
		names, err := s.List()
		if err != nil {
			return err
		}
		type stored struct {
			name string
			node *spell.Node
		}
		seed := types.MakeSeed()
		seen := make(map[types.Hash][]stored) // identical spells hash alike
	Loop:
		for _, x := range names {
			node, err := s.Load(x, &funcs.Registry{})
			if err != nil {
				env.logf("could not load %s: %+v", x, err)
				fmt.Fprintln(env.stdout, x)
				continue
			}
			h := node.Hash(seed)
			for _, other := range seen[h] {
				if spell.Equal(node, other.node) {
					fmt.Fprintf(env.stdout, "%s (same as %s)\n", x, other.name)
					continue Loop
				}
			}
			seen[h] = append(seen[h], stored{name: x, node: node})
			fmt.Fprintln(env.stdout, x)
		}
		return nil

	case "add":
		a := args.(*cliUtil.StoreAddArgs)
		node, err := store.ReadFile(env.fs, a.Input, &funcs.Registry{})
		if err != nil {
			return err
		}
		return s.Save(a.Name, node)

	case "show":
		a := args.(*cliUtil.StoreNameArgs)
		node, err := s.Load(a.Name, &funcs.Registry{})
		if err != nil {
			return err
		}
		p := &printer{color: useColor(false, env.stdout)}
		fmt.Fprintln(env.stdout, p.node(node))
		return nil

	case "delete":
		a := args.(*cliUtil.StoreNameArgs)
		return s.Delete(a.Name)
	}

	return fmt.Errorf("unknown store command: %s", name)
}
