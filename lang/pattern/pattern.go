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

// Package pattern contains the identity keys that name tricks and closure
// holes. A pattern is the sequence of dots that a glyph was drawn through.
package pattern

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/purpleidea/spell/util/errwrap"
)

// Empty is the pattern with no symbols. A blank spell slot holds it.
const Empty Pattern = ""

// Pattern is an ordered sequence of small symbols. Each byte of the string is
// one symbol. Since it's a string, it is immutable, it compares with == and it
// can be used directly as a map key.
type Pattern string

// New builds a pattern out of the list of symbols.
func New(points ...uint8) Pattern {
	return Pattern(points)
}

// Parse reads the comma separated decimal form of a pattern, eg: "1,2,3". The
// surrounding brackets which String adds are accepted too. An empty input is
// the empty pattern.
func Parse(s string) (Pattern, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "[")
	s = strings.TrimSuffix(s, "]")
	if strings.TrimSpace(s) == "" {
		return Empty, nil
	}

	points := []uint8{}
	for _, x := range strings.Split(s, ",") {
		i, err := strconv.ParseUint(strings.TrimSpace(x), 10, 8)
		if err != nil {
			return Empty, errwrap.Wrapf(err, "invalid pattern symbol `%s`", x)
		}
		points = append(points, uint8(i))
	}
	return New(points...), nil
}

// Points returns a copy of the symbols in this pattern.
func (obj Pattern) Points() []uint8 {
	return []uint8(obj)
}

// Len returns the number of symbols.
func (obj Pattern) Len() int {
	return len(obj)
}

// IsEmpty returns true if there are no symbols in this pattern.
func (obj Pattern) IsEmpty() bool {
	return len(obj) == 0
}

// String returns the bracketed display form, eg: [1,2,3].
func (obj Pattern) String() string {
	s := []string{}
	for _, x := range obj.Points() {
		s = append(s, strconv.Itoa(int(x)))
	}
	return fmt.Sprintf("[%s]", strings.Join(s, ","))
}
