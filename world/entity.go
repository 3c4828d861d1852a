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

package world

import (
	"github.com/google/uuid"
)

// Entity is anything in the world that a spell can point at.
type Entity struct {
	ID   uuid.UUID
	Name string

	Pos    Vec3 // feet position
	Facing Vec3 // direction the entity looks in
	Width  float64
	Height float64
	Margin float64 // extra targeting margin around the bounding box

	Living bool
	Player bool

	// Vehicle is what this entity is riding, if anything.
	Vehicle *Entity

	// Disguise is the uuid this entity appears as. The nil uuid means that
	// it appears as itself.
	Disguise uuid.UUID

	// Messages are all the messages that were sent to this entity.
	Messages []string
}

// UUID returns the unique id of this entity.
func (obj *Entity) UUID() uuid.UUID {
	return obj.ID
}

// SendMessage delivers a chat message to this entity.
func (obj *Entity) SendMessage(msg string) {
	obj.Messages = append(obj.Messages, msg)
}

// BoundingBox returns the box this entity occupies.
func (obj *Entity) BoundingBox() Box {
	w := obj.Width / 2
	return NewBox(
		Vec3{obj.Pos.X - w, obj.Pos.Y, obj.Pos.Z - w},
		Vec3{obj.Pos.X + w, obj.Pos.Y + obj.Height, obj.Pos.Z + w},
	)
}

// EyePos returns the position that this entity looks out of.
func (obj *Entity) EyePos() Vec3 {
	return obj.Pos.Add(Vec3{0, obj.Height * 0.85, 0})
}

// RootVehicle follows the vehicle chain to the bottom-most vehicle. An entity
// which isn't riding anything is its own root vehicle.
func (obj *Entity) RootVehicle() *Entity {
	e := obj
	seen := map[*Entity]struct{}{}
	for e.Vehicle != nil {
		if _, exists := seen[e]; exists {
			break // malformed vehicle loop
		}
		seen[e] = struct{}{}
		e = e.Vehicle
	}
	return e
}

// String returns the name of the entity, or its uuid if it has no name.
func (obj *Entity) String() string {
	if obj.Name != "" {
		return obj.Name
	}
	return obj.ID.String()
}
