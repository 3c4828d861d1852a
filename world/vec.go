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
	"fmt"
	"math"
	"strconv"
)

// Vec3 is a position or a direction in the world.
type Vec3 struct {
	X, Y, Z float64
}

// Add returns the component-wise sum.
func (obj Vec3) Add(v Vec3) Vec3 {
	return Vec3{obj.X + v.X, obj.Y + v.Y, obj.Z + v.Z}
}

// Sub returns the component-wise difference.
func (obj Vec3) Sub(v Vec3) Vec3 {
	return Vec3{obj.X - v.X, obj.Y - v.Y, obj.Z - v.Z}
}

// Scale multiplies each component by f.
func (obj Vec3) Scale(f float64) Vec3 {
	return Vec3{obj.X * f, obj.Y * f, obj.Z * f}
}

// DistanceSq returns the squared distance between the two points.
func (obj Vec3) DistanceSq(v Vec3) float64 {
	d := obj.Sub(v)
	return d.X*d.X + d.Y*d.Y + d.Z*d.Z
}

// Length returns the length of the vector.
func (obj Vec3) Length() float64 {
	return math.Sqrt(obj.DistanceSq(Vec3{}))
}

// Normalize returns a unit vector in the same direction. The zero vector stays
// the zero vector.
func (obj Vec3) Normalize() Vec3 {
	l := obj.Length()
	if l < 1e-4 { // too short to have a direction
		return Vec3{}
	}
	return obj.Scale(1 / l)
}

// String returns the display form, eg: (1, 2, 3).
func (obj Vec3) String() string {
	f := func(x float64) string { return strconv.FormatFloat(x, 'f', -1, 64) }
	return fmt.Sprintf("(%s, %s, %s)", f(obj.X), f(obj.Y), f(obj.Z))
}

// Box is an axis aligned bounding box.
type Box struct {
	Min, Max Vec3
}

// NewBox builds the box spanned by the two corners, in any order.
func NewBox(a, b Vec3) Box {
	return Box{
		Min: Vec3{math.Min(a.X, b.X), math.Min(a.Y, b.Y), math.Min(a.Z, b.Z)},
		Max: Vec3{math.Max(a.X, b.X), math.Max(a.Y, b.Y), math.Max(a.Z, b.Z)},
	}
}

// Expand grows the box by m in every direction.
func (obj Box) Expand(m float64) Box {
	d := Vec3{m, m, m}
	return Box{Min: obj.Min.Sub(d), Max: obj.Max.Add(d)}
}

// Contains returns true if the point is strictly inside the box.
func (obj Box) Contains(p Vec3) bool {
	return p.X > obj.Min.X && p.X < obj.Max.X &&
		p.Y > obj.Min.Y && p.Y < obj.Max.Y &&
		p.Z > obj.Min.Z && p.Z < obj.Max.Z
}

// Intersects returns true if the two boxes overlap.
func (obj Box) Intersects(b Box) bool {
	return obj.Min.X < b.Max.X && obj.Max.X > b.Min.X &&
		obj.Min.Y < b.Max.Y && obj.Max.Y > b.Min.Y &&
		obj.Min.Z < b.Max.Z && obj.Max.Z > b.Min.Z
}

// Raycast intersects the segment from -> to with the box. It returns the point
// where the segment enters the box. A segment which starts inside the box does
// not enter it, so it gives false, the same as a miss.
func (obj Box) Raycast(from, to Vec3) (Vec3, bool) {
	d := to.Sub(from)
	enter, leave := math.Inf(-1), math.Inf(1)

	axes := [3][4]float64{
		{from.X, d.X, obj.Min.X, obj.Max.X},
		{from.Y, d.Y, obj.Min.Y, obj.Max.Y},
		{from.Z, d.Z, obj.Min.Z, obj.Max.Z},
	}
	for _, a := range axes {
		o, dir, lo, hi := a[0], a[1], a[2], a[3]
		if dir == 0 {
			if o < lo || o > hi {
				return Vec3{}, false // parallel and outside this slab
			}
			continue
		}
		t1, t2 := (lo-o)/dir, (hi-o)/dir
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		enter = math.Max(enter, t1)
		leave = math.Min(leave, t2)
	}
	if enter > leave || enter < 0 || enter > 1 {
		return Vec3{}, false // no entry point on the segment
	}
	return from.Add(d.Scale(enter)), true
}
