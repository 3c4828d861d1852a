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

// Package coremath contains the arithmetic tricks. The arithmetic itself is
// done by small compiled formulas.
package coremath

import (
	"fmt"
	"math"
	"strconv"

	"github.com/purpleidea/spell/lang/funcs"
	"github.com/purpleidea/spell/lang/interfaces"
	"github.com/purpleidea/spell/lang/pattern"
	"github.com/purpleidea/spell/lang/types"
	"github.com/purpleidea/spell/util/errwrap"
	"github.com/purpleidea/spell/world"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

const (
	// ModuleName is the prefix given to all the tricks in this module.
	ModuleName = "math"
)

// Mode says which kinds of operands a trick accepts besides numbers.
type Mode int

const (
	// Numbers only accepts numbers.
	Numbers Mode = iota

	// VectorVector also works element wise on vectors.
	VectorVector

	// VectorScalar also works on a vector and a number.
	VectorScalar
)

func init() {
	funcs.ModuleRegister(ModuleName, "add", pattern.New(1, 4, 7, 3, 4, 5), Arithmetic("a + b", VectorVector))
	funcs.ModuleRegister(ModuleName, "subtract", pattern.New(3, 4, 5), Arithmetic("a - b", VectorVector))
	funcs.ModuleRegister(ModuleName, "multiply", pattern.New(0, 4, 8, 2, 4, 6), Arithmetic("a * b", VectorScalar))
	funcs.ModuleRegister(ModuleName, "divide", pattern.New(2, 4, 6), Arithmetic("a / b", VectorScalar))
	funcs.ModuleRegister(ModuleName, "power", pattern.New(6, 3, 1, 5, 8), Arithmetic("a ** b", Numbers))
}

// Compile builds a formula over the two numbers a and b. It panics if the
// formula is invalid, since these are all known at startup.
func Compile(formula string) *vm.Program {
	program, err := expr.Compile(formula, expr.Env(env(0, 0)), expr.AsFloat64())
	if err != nil {
		panic(fmt.Sprintf("invalid formula `%s`: %+v", formula, err))
	}
	return program
}

func env(a, b float64) map[string]interface{} {
	return map[string]interface{}{
		"a": a,
		"b": b,
	}
}

// Eval runs a formula. The result must be a real number, otherwise the error is
// an invalid numeric blunder.
func Eval(program *vm.Program, a, b float64) (float64, error) {
	out, err := expr.Run(program, env(a, b))
	if err != nil {
		return 0, errwrap.Wrapf(err, "formula failed")
	}
	f, ok := out.(float64)
	if !ok {
		return 0, fmt.Errorf("formula returned %T instead of a number", out)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, interfaces.NewBlunder(interfaces.KindInvalidNumeric, nil, "%s is not a number", strconv.FormatFloat(f, 'f', -1, 64))
	}
	return f, nil
}

// Arithmetic builds a trick which folds the formula over all of its args, from
// left to right. It needs at least two args.
func Arithmetic(formula string, m Mode) types.TrickFunc {
	program := Compile(formula)

	return func(ctx *interfaces.Context, args []interfaces.Value) (interfaces.Value, error) {
		if _, err := funcs.Arg[interfaces.Value](nil, args, 1); err != nil {
			return nil, err // not enough args
		}

		switch first := args[0].(type) {
		case *types.NumberValue:
			result := first.V
			for i := 1; i < len(args); i++ {
				b, err := funcs.Number(nil, args, i)
				if err != nil {
					return nil, err
				}
				if result, err = Eval(program, result, b); err != nil {
					return nil, err
				}
			}
			return types.NewNumber(result), nil

		case *types.VectorValue:
			if m == Numbers {
				break
			}
			result := first.V
			for i := 1; i < len(args); i++ {
				var b world.Vec3
				if m == VectorVector {
					v, err := funcs.Arg[*types.VectorValue](nil, args, i)
					if err != nil {
						return nil, err
					}
					b = v.V
				} else {
					f, err := funcs.Number(nil, args, i)
					if err != nil {
						return nil, err
					}
					b = world.Vec3{X: f, Y: f, Z: f}
				}
				var err error
				if result, err = evalVec(program, result, b); err != nil {
					return nil, err
				}
			}
			return &types.VectorValue{V: result}, nil
		}

		return nil, interfaces.NewBlunder(interfaces.KindIncorrectFragment, nil, "can't do arithmetic on %s", args[0].Type())
	}
}

// evalVec runs the formula on each component.
func evalVec(program *vm.Program, a, b world.Vec3) (world.Vec3, error) {
	x, err := Eval(program, a.X, b.X)
	if err != nil {
		return world.Vec3{}, err
	}
	y, err := Eval(program, a.Y, b.Y)
	if err != nil {
		return world.Vec3{}, err
	}
	z, err := Eval(program, a.Z, b.Z)
	if err != nil {
		return world.Vec3{}, err
	}
	return world.Vec3{X: x, Y: y, Z: z}, nil
}
