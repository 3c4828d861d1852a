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

// Package world is a small in-memory world of entities which tricks can look at
// and change. It is not safe for concurrent use.
package world

import (
	"fmt"

	"github.com/purpleidea/spell/util/errwrap"

	"github.com/google/uuid"
	"gopkg.in/yaml.v2"
)

// World holds all of the entities. Iteration order is insertion order, so that
// any search which keeps the first of several equal candidates is repeatable.
type World struct {
	entities map[uuid.UUID]*Entity
	order    []uuid.UUID
}

// New returns an empty world.
func New() *World {
	return &World{
		entities: make(map[uuid.UUID]*Entity),
	}
}

// Add puts an entity into the world. If it has no id, a random one is made.
func (obj *World) Add(e *Entity) error {
	if e == nil {
		return fmt.Errorf("can't add a nil entity")
	}
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if _, exists := obj.entities[e.ID]; exists {
		return fmt.Errorf("entity %s already exists", e.ID)
	}
	obj.entities[e.ID] = e
	obj.order = append(obj.order, e.ID)
	return nil
}

// Entity looks up an entity by id.
func (obj *World) Entity(id uuid.UUID) (*Entity, bool) {
	e, exists := obj.entities[id]
	return e, exists
}

// EntityByName returns the first entity with this name.
func (obj *World) EntityByName(name string) (*Entity, bool) {
	for _, id := range obj.order {
		if e := obj.entities[id]; e.Name == name {
			return e, true
		}
	}
	return nil, false
}

// Entities returns every entity in insertion order.
func (obj *World) Entities() []*Entity {
	out := []*Entity{}
	for _, id := range obj.order {
		out = append(out, obj.entities[id])
	}
	return out
}

// OtherEntities returns every entity except the given one whose bounding box
// overlaps with the box.
func (obj *World) OtherEntities(except *Entity, box Box) []*Entity {
	out := []*Entity{}
	for _, e := range obj.Entities() {
		if e == except {
			continue
		}
		if !e.BoundingBox().Intersects(box) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// RaycastEntity finds the closest entity along the segment from -> to, within
// the squared distance maxDistanceSq. The except entity (usually the one doing
// the looking) is skipped. Entities which share a root vehicle with the except
// entity only count if the ray started inside of them.
func (obj *World) RaycastEntity(except *Entity, from, to Vec3, maxDistanceSq float64) (*Entity, Vec3, bool) {
	distance := maxDistanceSq
	var found *Entity
	var pos Vec3

	for _, e := range obj.OtherEntities(except, NewBox(from, to)) {
		box := e.BoundingBox().Expand(e.Margin)
		hit, ok := box.Raycast(from, to)
		if box.Contains(from) {
			if distance >= 0.0 {
				found = e
				pos = from
				if ok {
					pos = hit
				}
				distance = 0.0
			}
			continue
		}
		if !ok {
			continue
		}

		d := from.DistanceSq(hit)
		if d >= distance && distance != 0.0 {
			continue
		}
		if except != nil && e.RootVehicle() == except.RootVehicle() {
			if distance == 0.0 {
				found = e
				pos = hit
			}
			continue
		}
		found = e
		pos = hit
		distance = d
	}

	if found == nil {
		return nil, Vec3{}, false
	}
	return found, pos, true
}

type vecConfig []float64

func (obj vecConfig) vec() (Vec3, error) {
	switch len(obj) {
	case 0:
		return Vec3{}, nil
	case 3:
		return Vec3{obj[0], obj[1], obj[2]}, nil
	}
	return Vec3{}, fmt.Errorf("a vector needs three components, got %d", len(obj))
}

type entityConfig struct {
	ID       string    `yaml:"id"`
	Name     string    `yaml:"name"`
	Pos      vecConfig `yaml:"pos"`
	Facing   vecConfig `yaml:"facing"`
	Width    float64   `yaml:"width"`
	Height   float64   `yaml:"height"`
	Margin   float64   `yaml:"margin"`
	Living   bool      `yaml:"living"`
	Player   bool      `yaml:"player"`
	Vehicle  string    `yaml:"vehicle"` // name or id of the vehicle
	Disguise string    `yaml:"disguise"`
}

type worldConfig struct {
	Entities []*entityConfig `yaml:"entities"`
}

// Load builds a world out of its yaml description.
func Load(data []byte) (*World, error) {
	config := &worldConfig{}
	if err := yaml.UnmarshalStrict(data, config); err != nil {
		return nil, errwrap.Wrapf(err, "could not parse world")
	}

	obj := New()
	vehicles := make(map[*Entity]string)
	for i, x := range config.Entities {
		pos, err := x.Pos.vec()
		if err != nil {
			return nil, errwrap.Wrapf(err, "entity #%d has an invalid pos", i)
		}
		facing, err := x.Facing.vec()
		if err != nil {
			return nil, errwrap.Wrapf(err, "entity #%d has an invalid facing", i)
		}
		e := &Entity{
			Name:   x.Name,
			Pos:    pos,
			Facing: facing.Normalize(),
			Width:  x.Width,
			Height: x.Height,
			Margin: x.Margin,
			Living: x.Living,
			Player: x.Player,
		}
		if x.ID != "" {
			id, err := uuid.Parse(x.ID)
			if err != nil {
				return nil, errwrap.Wrapf(err, "entity #%d has an invalid id", i)
			}
			e.ID = id
		}
		if x.Disguise != "" {
			id, err := uuid.Parse(x.Disguise)
			if err != nil {
				return nil, errwrap.Wrapf(err, "entity #%d has an invalid disguise", i)
			}
			e.Disguise = id
		}
		if err := obj.Add(e); err != nil {
			return nil, errwrap.Wrapf(err, "entity #%d", i)
		}
		if x.Vehicle != "" {
			vehicles[e] = x.Vehicle
		}
	}

	// vehicles can be declared after their riders, so link them last
	for e, ref := range vehicles {
		v, exists := obj.EntityByName(ref)
		if !exists {
			id, err := uuid.Parse(ref)
			if err == nil {
				v, exists = obj.Entity(id)
			}
		}
		if !exists {
			return nil, fmt.Errorf("entity %s rides unknown vehicle `%s`", e, ref)
		}
		e.Vehicle = v
	}

	return obj, nil
}
