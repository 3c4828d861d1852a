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
	"strings"

	cliUtil "github.com/purpleidea/spell/cli/util"
	"github.com/purpleidea/spell/lang/funcs"
	"github.com/purpleidea/spell/util"
)

// TricksArgs is the CLI parsing structure and type of the parsed result. This
// particular one contains all the flags for the `tricks` subcommand.
type TricksArgs struct {
	// Module limits the listing to the tricks of one module, eg: math.
	Module string `arg:"positional" help:"only list the tricks of this module"`
}

// Run executes the `tricks` subcommand. It lists the registered tricks and the
// patterns which they are drawn as.
func (obj *TricksArgs) Run(ctx context.Context, data *cliUtil.Data) (bool, error) {
	return true, obj.list(newEnviron(data))
}

func (obj *TricksArgs) list(env *environ) error {
	if obj.Module != "" && !util.StrInList(obj.Module, funcs.Modules()) {
		return fmt.Errorf("no tricks in module `%s`", obj.Module)
	}
	for _, trick := range funcs.Tricks() {
		if obj.Module != "" && !strings.HasPrefix(trick.Name, obj.Module+funcs.ModuleSep) {
			continue
		}
		fmt.Fprintf(env.stdout, "%-24s %s\n", trick.Name, trick.P)
	}
	return nil
}
