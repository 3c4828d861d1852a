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

package funcs

import (
	"github.com/purpleidea/spell/lang/interfaces"
	"github.com/purpleidea/spell/lang/types"
)

// Arg returns the argument at index i as a T. If it's missing, or of another
// type, the error is a blunder which names source as the culprit. A nil source
// is filled in by the trick that returns the error.
func Arg[T interfaces.Value](source interfaces.Value, args []interfaces.Value, i int) (T, error) {
	var zero T
	if i < 0 || i >= len(args) {
		return zero, interfaces.NewBlunder(interfaces.KindMissingFragment, source, "expected %s at index %d, got nothing", expected(zero), i)
	}
	v, ok := args[i].(T)
	if !ok {
		return zero, interfaces.NewBlunder(interfaces.KindIncorrectFragment, source, "expected %s at index %d, got %s", expected(zero), i, args[i].Type())
	}
	return v, nil
}

// OptionalArg is like Arg, but a missing argument is not an error. The boolean
// is false in that case.
func OptionalArg[T interfaces.Value](source interfaces.Value, args []interfaces.Value, i int) (T, bool, error) {
	var zero T
	if i < 0 || i >= len(args) {
		return zero, false, nil
	}
	v, err := Arg[T](source, args, i)
	if err != nil {
		return zero, false, err
	}
	return v, true, nil
}

// Number returns the numeric argument at index i.
func Number(source interfaces.Value, args []interfaces.Value, i int) (float64, error) {
	v, err := Arg[*types.NumberValue](source, args, i)
	if err != nil {
		return 0, err
	}
	return v.V, nil
}

// expected names the type of value that was wanted.
func expected(zero interfaces.Value) interfaces.TypeID {
	if zero == nil { // T is an interface
		return "value"
	}
	return zero.Type()
}
