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

// Package interfaces contains the common interfaces and the shared evaluation
// state that the spell engine and the tricks that run inside of it agree on.
package interfaces

import (
	"fmt"
)

// TypeID is the tag which identifies the kind of a value.
type TypeID string

const (
	// TypeVoid is the type of the void value, the absence of a result.
	TypeVoid TypeID = "void"

	// TypeBool is the type of booleans.
	TypeBool TypeID = "boolean"

	// TypeNumber is the type of numbers. All numbers are floats.
	TypeNumber TypeID = "number"

	// TypeVector is the type of three component vectors.
	TypeVector TypeID = "vector"

	// TypeEntity is the type of references to entities in the world.
	TypeEntity TypeID = "entity"

	// TypeZalgo is the type of the inert placeholder which takes the place
	// of values that could not be kept.
	TypeZalgo TypeID = "zalgo"

	// TypePattern is the type of unresolved pattern glyphs.
	TypePattern TypeID = "pattern"

	// TypeTrick is the type of resolved operators.
	TypeTrick TypeID = "trick"

	// TypeSpellPart is the type of spell trees.
	TypeSpellPart TypeID = "spell_part"
)

// Value is the interface that every value in a spell fulfills. Every value is
// also an operator: it can be activated with a list of arguments. Most values
// just return themselves when activated.
//
// Implementations must be pointer types. The engine compares operators with ==
// to find out whether an activation produced a new value, so this must be an
// identity comparison.
type Value interface {
	fmt.Stringer // String() string (the display text of this value)

	// Type returns the tag of this kind of value.
	Type() TypeID

	// Bool coerces the value to a boolean.
	Bool() bool

	// Ephemeral returns true if this value is only valid for the duration
	// of the evaluation which produced it. These must not be persisted.
	Ephemeral() bool

	// Cmp returns an error if this value isn't structurally the same as
	// the arg passed in.
	Cmp(Value) error

	// Activate applies this value as an operator to the list of args. The
	// context is shared by the whole evaluation and must be passed through
	// unchanged to anything that gets evaluated from in here.
	Activate(ctx *Context, args []Value) (Value, error)
}
