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

// Package types contains the concrete values that a spell can hold and produce.
package types

import (
	"fmt"
	"math"
	"strconv"

	"github.com/purpleidea/spell/lang/interfaces"
	"github.com/purpleidea/spell/lang/pattern"
	"github.com/purpleidea/spell/util/errwrap"
	"github.com/purpleidea/spell/world"

	"github.com/google/uuid"
)

var (
	// Void is the canonical void value. A destructive evaluation which
	// produces it leaves the tree untouched.
	Void = &VoidValue{}

	// Zalgo is the canonical inert placeholder. It takes the place of
	// ephemeral values before a spell gets stored.
	Zalgo = &ZalgoValue{}
)

// IsVoid returns true if the value is the void value.
func IsVoid(v interfaces.Value) bool {
	_, ok := v.(*VoidValue)
	return ok
}

// base implements the methods that most values share.
type base struct{}

// Ephemeral returns false, since most values can be kept forever.
func (obj *base) Ephemeral() bool { return false }

// cmpType is the common first step of every Cmp implementation.
func cmpType(obj, val interfaces.Value) error {
	if obj == nil || val == nil {
		return fmt.Errorf("cannot cmp to nil")
	}
	if a, b := obj.Type(), val.Type(); a != b {
		return fmt.Errorf("type %s differs from %s", a, b)
	}
	return nil
}

// VoidValue represents the absence of a value.
type VoidValue struct {
	base
}

// String returns a visual representation of this value.
func (obj *VoidValue) String() string { return "void" }

// Type returns the type tag of this value.
func (obj *VoidValue) Type() interfaces.TypeID { return interfaces.TypeVoid }

// Bool is always false for void.
func (obj *VoidValue) Bool() bool { return false }

// Cmp returns an error if this value isn't the same as the arg passed in.
func (obj *VoidValue) Cmp(val interfaces.Value) error {
	return cmpType(obj, val)
}

// Activate returns the value itself.
func (obj *VoidValue) Activate(ctx *interfaces.Context, args []interfaces.Value) (interfaces.Value, error) {
	return obj, nil
}

// BoolValue represents a boolean value.
type BoolValue struct {
	base
	V bool
}

// NewBool creates a new boolean value.
func NewBool(v bool) *BoolValue { return &BoolValue{V: v} }

// String returns a visual representation of this value.
func (obj *BoolValue) String() string {
	return strconv.FormatBool(obj.V) // true or false
}

// Type returns the type tag of this value.
func (obj *BoolValue) Type() interfaces.TypeID { return interfaces.TypeBool }

// Bool returns the value.
func (obj *BoolValue) Bool() bool { return obj.V }

// Cmp returns an error if this value isn't the same as the arg passed in.
func (obj *BoolValue) Cmp(val interfaces.Value) error {
	if err := cmpType(obj, val); err != nil {
		return errwrap.Wrapf(err, "cannot cmp types")
	}
	if obj.V != val.(*BoolValue).V {
		return fmt.Errorf("values are different")
	}
	return nil
}

// Activate returns the value itself.
func (obj *BoolValue) Activate(ctx *interfaces.Context, args []interfaces.Value) (interfaces.Value, error) {
	return obj, nil
}

// NumberValue represents a number. All numbers are floats.
type NumberValue struct {
	base
	V float64
}

// NewNumber creates a new number value.
func NewNumber(v float64) *NumberValue { return &NumberValue{V: v} }

// String returns a visual representation of this value.
func (obj *NumberValue) String() string {
	return strconv.FormatFloat(obj.V, 'f', -1, 64) // -1 for exact precision
}

// Type returns the type tag of this value.
func (obj *NumberValue) Type() interfaces.TypeID { return interfaces.TypeNumber }

// Bool is false only for zero.
func (obj *NumberValue) Bool() bool { return obj.V != 0 }

// Cmp returns an error if this value isn't the same as the arg passed in. A
// NaN is considered equal to another NaN, so that trees always equal their own
// copies.
func (obj *NumberValue) Cmp(val interfaces.Value) error {
	if err := cmpType(obj, val); err != nil {
		return errwrap.Wrapf(err, "cannot cmp types")
	}
	if !sameFloat(obj.V, val.(*NumberValue).V) {
		return fmt.Errorf("values are different")
	}
	return nil
}

// sameFloat compares two floats so that every NaN equals every other NaN.
func sameFloat(a, b float64) bool {
	return a == b || (math.IsNaN(a) && math.IsNaN(b))
}

// Activate returns the value itself.
func (obj *NumberValue) Activate(ctx *interfaces.Context, args []interfaces.Value) (interfaces.Value, error) {
	return obj, nil
}

// VectorValue represents a three component vector.
type VectorValue struct {
	base
	V world.Vec3
}

// NewVector creates a new vector value.
func NewVector(x, y, z float64) *VectorValue {
	return &VectorValue{V: world.Vec3{X: x, Y: y, Z: z}}
}

// String returns a visual representation of this value.
func (obj *VectorValue) String() string { return obj.V.String() }

// Type returns the type tag of this value.
func (obj *VectorValue) Type() interfaces.TypeID { return interfaces.TypeVector }

// Bool is false only for the zero vector.
func (obj *VectorValue) Bool() bool { return obj.V != world.Vec3{} }

// Cmp returns an error if this value isn't the same as the arg passed in.
func (obj *VectorValue) Cmp(val interfaces.Value) error {
	if err := cmpType(obj, val); err != nil {
		return errwrap.Wrapf(err, "cannot cmp types")
	}
	a, b := obj.V, val.(*VectorValue).V
	if !sameFloat(a.X, b.X) || !sameFloat(a.Y, b.Y) || !sameFloat(a.Z, b.Z) {
		return fmt.Errorf("values are different")
	}
	return nil
}

// Activate returns the value itself.
func (obj *VectorValue) Activate(ctx *interfaces.Context, args []interfaces.Value) (interfaces.Value, error) {
	return obj, nil
}

// EntityValue is a reference to an entity in the world. It is ephemeral, since
// the entity it points to might not exist after this evaluation.
type EntityValue struct {
	ID   uuid.UUID
	Name string // for display only
}

// NewEntity creates a new reference to the entity.
func NewEntity(e *world.Entity) *EntityValue {
	return &EntityValue{ID: e.ID, Name: e.Name}
}

// String returns a visual representation of this value.
func (obj *EntityValue) String() string {
	if obj.Name != "" {
		return obj.Name
	}
	return obj.ID.String()
}

// Type returns the type tag of this value.
func (obj *EntityValue) Type() interfaces.TypeID { return interfaces.TypeEntity }

// Bool is always true for a reference.
func (obj *EntityValue) Bool() bool { return true }

// Ephemeral is true, entity references must not be persisted.
func (obj *EntityValue) Ephemeral() bool { return true }

// Cmp returns an error if this value doesn't point at the same entity.
func (obj *EntityValue) Cmp(val interfaces.Value) error {
	if err := cmpType(obj, val); err != nil {
		return errwrap.Wrapf(err, "cannot cmp types")
	}
	if obj.ID != val.(*EntityValue).ID {
		return fmt.Errorf("values are different")
	}
	return nil
}

// Activate returns the value itself.
func (obj *EntityValue) Activate(ctx *interfaces.Context, args []interfaces.Value) (interfaces.Value, error) {
	return obj, nil
}

// Resolve finds the entity in the world. The source is the operator that asked
// for it, and it is used for the error message.
func (obj *EntityValue) Resolve(ctx *interfaces.Context, source interfaces.Value) (*world.Entity, error) {
	if ctx.World == nil {
		return nil, interfaces.NewBlunder(interfaces.KindUnknownEntity, source, "no world to find %s in", obj)
	}
	e, exists := ctx.World.Entity(obj.ID)
	if !exists {
		return nil, interfaces.NewBlunder(interfaces.KindUnknownEntity, source, "unknown entity %s", obj)
	}
	return e, nil
}

// ZalgoValue is the inert placeholder. It does nothing and means nothing.
type ZalgoValue struct {
	base
}

// String returns a visual representation of this value.
func (obj *ZalgoValue) String() string { return "z̸̢a̷l̶g̴o̵" }

// Type returns the type tag of this value.
func (obj *ZalgoValue) Type() interfaces.TypeID { return interfaces.TypeZalgo }

// Bool is always false.
func (obj *ZalgoValue) Bool() bool { return false }

// Cmp returns an error if this value isn't the same as the arg passed in.
func (obj *ZalgoValue) Cmp(val interfaces.Value) error {
	return cmpType(obj, val)
}

// Activate returns the value itself.
func (obj *ZalgoValue) Activate(ctx *interfaces.Context, args []interfaces.Value) (interfaces.Value, error) {
	return obj, nil
}

// PatternValue is a glyph which has not been bound to anything. It is inert
// until closure binding or the trick registry replaces it.
type PatternValue struct {
	base
	P pattern.Pattern
}

// NewPattern creates a new pattern glyph.
func NewPattern(p pattern.Pattern) *PatternValue { return &PatternValue{P: p} }

// String returns a visual representation of this value.
func (obj *PatternValue) String() string { return obj.P.String() }

// Type returns the type tag of this value.
func (obj *PatternValue) Type() interfaces.TypeID { return interfaces.TypePattern }

// Bool is false only for the empty pattern.
func (obj *PatternValue) Bool() bool { return !obj.P.IsEmpty() }

// Cmp returns an error if this value isn't the same as the arg passed in.
func (obj *PatternValue) Cmp(val interfaces.Value) error {
	if err := cmpType(obj, val); err != nil {
		return errwrap.Wrapf(err, "cannot cmp types")
	}
	if obj.P != val.(*PatternValue).P {
		return fmt.Errorf("patterns are different")
	}
	return nil
}

// Activate returns the value itself, which has no effect.
func (obj *PatternValue) Activate(ctx *interfaces.Context, args []interfaces.Value) (interfaces.Value, error) {
	return obj, nil
}

// TrickFunc is the implementation of a trick. Blunders that it returns without
// a source get the trick filled in as their source.
type TrickFunc func(ctx *interfaces.Context, args []interfaces.Value) (interfaces.Value, error)

// TrickValue is an operator that was looked up from the registry.
type TrickValue struct {
	base
	P    pattern.Pattern
	Name string
	V    TrickFunc
}

// String returns the name of the trick.
func (obj *TrickValue) String() string { return obj.Name }

// Type returns the type tag of this value.
func (obj *TrickValue) Type() interfaces.TypeID { return interfaces.TypeTrick }

// Bool is always true.
func (obj *TrickValue) Bool() bool { return true }

// Cmp returns an error if this isn't the trick with the same pattern.
func (obj *TrickValue) Cmp(val interfaces.Value) error {
	if err := cmpType(obj, val); err != nil {
		return errwrap.Wrapf(err, "cannot cmp types")
	}
	if obj.P != val.(*TrickValue).P {
		return fmt.Errorf("tricks are different")
	}
	return nil
}

// Activate runs the trick. A nil result is returned as void.
func (obj *TrickValue) Activate(ctx *interfaces.Context, args []interfaces.Value) (interfaces.Value, error) {
	if obj.V == nil {
		return nil, fmt.Errorf("trick %s has no implementation", obj.Name)
	}
	result, err := obj.V(ctx, args)
	if err != nil {
		if b, ok := interfaces.AsBlunder(err); ok && b.Source == nil {
			b.Source = obj
		}
		return nil, err
	}
	if result == nil {
		return Void, nil
	}
	return result, nil
}
