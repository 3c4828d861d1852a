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

// Package coreentity contains the tricks which look at and change the entities
// of the world.
package coreentity

import (
	"github.com/purpleidea/spell/lang/funcs"
	"github.com/purpleidea/spell/lang/interfaces"
	"github.com/purpleidea/spell/lang/pattern"
	"github.com/purpleidea/spell/lang/types"
	"github.com/purpleidea/spell/world"

	"github.com/google/uuid"
)

const (
	// ModuleName is the prefix given to all the tricks in this module.
	ModuleName = "entity"

	// PolymorphCost is the mana that a polymorph costs.
	PolymorphCost = 480

	// RaycastReach scales the direction of a raycast into the ray's end.
	RaycastReach = 64.0
)

func init() {
	funcs.ModuleRegister(ModuleName, "caster", pattern.New(4, 3, 6, 7, 4), Caster)
	funcs.ModuleRegister(ModuleName, "polymorph", pattern.New(4, 2, 1, 0, 4, 8, 7, 6, 4), Polymorph)
	funcs.ModuleRegister(ModuleName, "raycast_entity", pattern.New(3, 4, 5, 8, 4), RaycastEntity)
}

// Caster returns the entity which is casting the spell.
func Caster(ctx *interfaces.Context, args []interfaces.Value) (interfaces.Value, error) {
	if ctx.Actor == nil {
		return nil, interfaces.NewBlunder(interfaces.KindUnknownEntity, nil, "nobody is casting this spell")
	}
	if ctx.World != nil {
		if e, exists := ctx.World.Entity(ctx.Actor.UUID()); exists {
			return types.NewEntity(e), nil
		}
	}
	return &types.EntityValue{ID: ctx.Actor.UUID()}, nil
}

// livingEntity returns the living entity that the arg at index i points at.
func livingEntity(ctx *interfaces.Context, args []interfaces.Value, i int) (*world.Entity, error) {
	v, err := funcs.Arg[*types.EntityValue](nil, args, i)
	if err != nil {
		return nil, err
	}
	e, err := v.Resolve(ctx, nil)
	if err != nil {
		return nil, err
	}
	if !e.Living {
		return nil, interfaces.NewBlunder(interfaces.KindUnknownEntity, nil, "%s is not alive", e)
	}
	return e, nil
}

// Polymorph disguises the target, which is the first arg, as the source, which
// is the second arg. If the source is disguised itself, the target gets the
// same disguise. Both of them must be players.
func Polymorph(ctx *interfaces.Context, args []interfaces.Value) (interfaces.Value, error) {
	source, err := livingEntity(ctx, args, 1)
	if err != nil {
		return nil, err
	}
	target, err := livingEntity(ctx, args, 0)
	if err != nil {
		return nil, err
	}
	if !target.Player || !source.Player {
		return nil, interfaces.NewBlunder(interfaces.KindUnknownEntity, nil, "can only polymorph players")
	}

	if err := ctx.UseMana(nil, PolymorphCost); err != nil {
		return nil, err
	}

	id := source.ID
	if source.Disguise != uuid.Nil {
		id = source.Disguise
	}
	target.Disguise = id
	ctx.SetWorldAffected()
	ctx.Debugf("polymorph: %s now looks like %s", target, id)

	return types.Void, nil
}

// RaycastEntity returns the closest entity that is in sight, or void if there's
// nothing there. The args are either an entity, which is looked out of, or a
// position and a direction. The ray ends at RaycastReach times the direction,
// so a short direction gives a short ray.
func RaycastEntity(ctx *interfaces.Context, args []interfaces.Value) (interfaces.Value, error) {
	if ctx.World == nil {
		return nil, interfaces.NewBlunder(interfaces.KindUnknownEntity, nil, "there is no world to look at")
	}

	var except *world.Entity
	var from, direction world.Vec3

	switch args0 := firstArg(args).(type) {
	case *types.EntityValue:
		e, err := args0.Resolve(ctx, nil)
		if err != nil {
			return nil, err
		}
		except = e
		from = e.EyePos()
		direction = e.Facing

	default:
		position, err := funcs.Arg[*types.VectorValue](nil, args, 0)
		if err != nil {
			return nil, err
		}
		dir, err := funcs.Arg[*types.VectorValue](nil, args, 1)
		if err != nil {
			return nil, err
		}
		from = position.V
		direction = dir.V
	}

	to := from.Add(direction.Scale(RaycastReach))
	e, _, ok := ctx.World.RaycastEntity(except, from, to, RaycastReach*RaycastReach)
	if !ok {
		return types.Void, nil
	}
	return types.NewEntity(e), nil
}

func firstArg(args []interfaces.Value) interfaces.Value {
	if len(args) == 0 {
		return nil
	}
	return args[0]
}
