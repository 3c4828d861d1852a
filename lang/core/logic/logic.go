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

// Package corelogic contains the tricks that make decisions.
package corelogic

import (
	"github.com/purpleidea/spell/lang/funcs"
	"github.com/purpleidea/spell/lang/interfaces"
	"github.com/purpleidea/spell/lang/pattern"
	"github.com/purpleidea/spell/lang/types"
)

const (
	// ModuleName is the prefix given to all the tricks in this module.
	ModuleName = "logic"
)

func init() {
	funcs.ModuleRegister(ModuleName, "if_else", pattern.New(3, 0, 4, 2, 5), IfElse)
	funcs.ModuleRegister(ModuleName, "equals", pattern.New(3, 5, 6, 8), Equals)
	funcs.ModuleRegister(ModuleName, "not", pattern.New(0, 4, 8), Not)
	funcs.ModuleRegister(ModuleName, "all", pattern.New(6, 4, 2, 5, 8), All)
	funcs.ModuleRegister(ModuleName, "any", pattern.New(0, 4, 6, 3, 0), Any)
}

// IfElse takes pairs of a condition and a value, and optionally a final value.
// It returns the value of the first true condition, otherwise the final value,
// or void if there is none.
func IfElse(ctx *interfaces.Context, args []interfaces.Value) (interfaces.Value, error) {
	if _, err := funcs.Arg[interfaces.Value](nil, args, 1); err != nil {
		return nil, err
	}
	for i := 0; i+1 < len(args); i += 2 {
		if args[i].Bool() {
			return args[i+1], nil
		}
	}
	if len(args)%2 == 1 {
		return args[len(args)-1], nil
	}
	return types.Void, nil
}

// Equals returns true if all of the args are the same.
func Equals(ctx *interfaces.Context, args []interfaces.Value) (interfaces.Value, error) {
	for i := 1; i < len(args); i++ {
		if err := args[0].Cmp(args[i]); err != nil {
			return types.NewBool(false), nil
		}
	}
	return types.NewBool(true), nil
}

// Not inverts the truth of its only arg.
func Not(ctx *interfaces.Context, args []interfaces.Value) (interfaces.Value, error) {
	v, err := funcs.Arg[interfaces.Value](nil, args, 0)
	if err != nil {
		return nil, err
	}
	return types.NewBool(!v.Bool()), nil
}

// All returns true if every arg is true.
func All(ctx *interfaces.Context, args []interfaces.Value) (interfaces.Value, error) {
	for _, arg := range args {
		if !arg.Bool() {
			return types.NewBool(false), nil
		}
	}
	return types.NewBool(true), nil
}

// Any returns true if at least one arg is true.
func Any(ctx *interfaces.Context, args []interfaces.Value) (interfaces.Value, error) {
	for _, arg := range args {
		if arg.Bool() {
			return types.NewBool(true), nil
		}
	}
	return types.NewBool(false), nil
}
