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

// Package corebasic contains the tricks that deal with spells themselves.
package corebasic

import (
	"math"

	"github.com/purpleidea/spell/lang/funcs"
	"github.com/purpleidea/spell/lang/interfaces"
	"github.com/purpleidea/spell/lang/pattern"
	"github.com/purpleidea/spell/lang/spell"
	"github.com/purpleidea/spell/lang/types"
)

const (
	// ModuleName is the prefix given to all the tricks in this module.
	ModuleName = "basic"
)

func init() {
	funcs.ModuleRegister(ModuleName, "void", pattern.New(4), Void)
	funcs.ModuleRegister(ModuleName, "argument", pattern.New(4, 1), Argument)
	funcs.ModuleRegister(ModuleName, "execute", pattern.New(4, 3, 0, 1, 2, 5, 8, 7, 6, 3), Execute)
	funcs.ModuleRegister(ModuleName, "closure", pattern.New(1, 3, 4, 5, 7), Closure)
}

// Void ignores its args and returns nothing.
func Void(ctx *interfaces.Context, args []interfaces.Value) (interfaces.Value, error) {
	return types.Void, nil
}

// Argument returns an argument of the spell that is currently being executed.
// The index is the only arg, and it defaults to zero.
func Argument(ctx *interfaces.Context, args []interfaces.Value) (interfaces.Value, error) {
	n, exists, err := funcs.OptionalArg[*types.NumberValue](nil, args, 0)
	if err != nil {
		return nil, err
	}
	index := 0
	if exists {
		if n.V < 0 || n.V != math.Trunc(n.V) || n.V > math.MaxInt32 {
			return nil, interfaces.NewBlunder(interfaces.KindIncorrectFragment, nil, "argument index %s is not a whole number", n)
		}
		index = int(n.V)
	}
	return ctx.Argument(nil, index)
}

// Execute runs the spell which is the first arg, with the remaining args as its
// arguments. A copy is run, so the spell can be executed again.
func Execute(ctx *interfaces.Context, args []interfaces.Value) (interfaces.Value, error) {
	node, err := funcs.Arg[*spell.Node](nil, args, 0)
	if err != nil {
		return nil, err
	}
	node = node.DeepClone()

	if err := ctx.PushStackTrace(interfaces.InvocationMarker); err != nil {
		return nil, err
	}
	ctx.PushFrame(args[1:])
	value, err := node.Run(ctx)
	if err != nil {
		return nil, err
	}
	ctx.PopFrame()
	ctx.PopStackTrace()

	return value, nil
}

// Closure returns a copy of the spell which is the first arg, with some of its
// holes bound. The remaining args come in pairs of a pattern and the value that
// the leaves drawn with it get replaced with.
func Closure(ctx *interfaces.Context, args []interfaces.Value) (interfaces.Value, error) {
	node, err := funcs.Arg[*spell.Node](nil, args, 0)
	if err != nil {
		return nil, err
	}
	if len(args)%2 == 0 {
		return nil, interfaces.NewBlunder(interfaces.KindMissingFragment, nil, "no value for the pattern at index %d", len(args)-1)
	}

	bindings := make(map[pattern.Pattern]interfaces.Value)
	for i := 1; i < len(args); i += 2 {
		p, err := funcs.Arg[*types.PatternValue](nil, args, i)
		if err != nil {
			return nil, err
		}
		bindings[p.P] = args[i+1]
	}

	clone := node.DeepClone()
	clone.BuildClosure(bindings)
	return clone, nil
}
