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

package types

import (
	"encoding/binary"
	"hash/maphash"
	"math"

	"github.com/purpleidea/spell/lang/interfaces"
)

// Hash is the type of our hash. This is taken from the golang
// hash/maphash.Sum64() return type.
type Hash uint64

// Seed is the type of our hashing seed. This is taken from the golang
// hash/maphash.MakeSeed() return type. Hashes are only comparable when they
// were made with the same seed.
type Seed maphash.Seed

// MakeSeed generates a random seed for our hashing purposes.
func MakeSeed() Seed {
	return Seed(maphash.MakeSeed())
}

// Hashable is implemented by values which know how to hash themselves. Spell
// parts do this, since they're made of other values.
type Hashable interface {
	// WriteHash feeds the value into the hash.
	WriteHash(h *maphash.Hash)
}

// Sum returns the hash of a value. Values which are equal according to Cmp have
// the same hash.
func Sum(seed Seed, value interfaces.Value) Hash {
	var h maphash.Hash
	h.SetSeed(maphash.Seed(seed))
	WriteHash(&h, value)
	return Hash(h.Sum64())
}

// WriteHash feeds a value into the hash. It is the building block for Hashable
// implementations.
func WriteHash(h *maphash.Hash, value interfaces.Value) {
	if value == nil {
		h.WriteByte(0)
		return
	}
	h.WriteString(string(value.Type()))
	h.WriteByte(0)

	switch v := value.(type) {
	case *VoidValue, *ZalgoValue:
		// the type says it all

	case *BoolValue:
		if v.V {
			h.WriteByte(1)
		} else {
			h.WriteByte(0)
		}

	case *NumberValue:
		float64Hash(h, v.V)

	case *VectorValue:
		float64Hash(h, v.V.X)
		float64Hash(h, v.V.Y)
		float64Hash(h, v.V.Z)

	case *EntityValue:
		h.Write(v.ID[:])

	case *PatternValue:
		writeString(h, string(v.P))

	case *TrickValue:
		writeString(h, string(v.P))

	case Hashable:
		v.WriteHash(h)

	default:
		writeString(h, value.String())
	}
}

// writeString writes a length prefixed string so that adjacent strings can't
// run into each other.
func writeString(h *maphash.Hash, s string) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(len(s)))
	h.Write(buf[:])
	h.WriteString(s)
}

// float64Hash hashes a float so that 0 and -0 are the same, and every NaN is the
// same, which matches what NumberValue.Cmp considers to be equal.
func float64Hash(h *maphash.Hash, f float64) {
	if f == 0 {
		h.WriteByte(0)
		return
	}
	if math.IsNaN(f) {
		h.WriteByte(1)
		return
	}
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], math.Float64bits(f))
	h.Write(buf[:])
}
