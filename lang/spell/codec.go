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

package spell

import (
	"fmt"

	"github.com/purpleidea/spell/lang/interfaces"
	"github.com/purpleidea/spell/lang/pattern"
	"github.com/purpleidea/spell/lang/types"
	"github.com/purpleidea/spell/util/errwrap"

	"github.com/google/uuid"
	"gopkg.in/yaml.v2"
)

// partConfig is the stored form of a part.
type partConfig struct {
	Glyph    *glyphConfig  `yaml:"glyph"`
	SubParts []*partConfig `yaml:"sub_parts,omitempty"`
}

// glyphConfig is the stored form of an operator. Exactly one of the kinds must
// be set. A trick may carry its pattern as well as its name, and an entity may
// carry its name.
type glyphConfig struct {
	Void    bool        `yaml:"void,omitempty"`
	Zalgo   bool        `yaml:"zalgo,omitempty"`
	Bool    *bool       `yaml:"bool,omitempty"`
	Number  *float64    `yaml:"number,omitempty"`
	Vector  []float64   `yaml:"vector,omitempty,flow"`
	Entity  string      `yaml:"entity,omitempty"`
	Name    string      `yaml:"name,omitempty"`
	Trick   string      `yaml:"trick,omitempty"`
	Pattern string      `yaml:"pattern,omitempty"`
	Part    *partConfig `yaml:"part,omitempty"`
}

// Encode returns the stored form of a spell. Tricks are stored by pattern and
// name, and get resolved again when decoding. Entities are stored by uuid, but
// they should have been stripped with StripEphemerals before.
func Encode(node *Node) ([]byte, error) {
	e := &encoder{
		seen: make(map[*Node]struct{}),
	}
	config, err := e.part(node)
	if err != nil {
		return nil, err
	}
	return yaml.Marshal(config)
}

// Decode builds a spell out of its stored form. Tricks are unresolved until the
// Resolve method of the result is called.
func Decode(data []byte) (*Node, error) {
	config := &partConfig{}
	if err := yaml.UnmarshalStrict(data, config); err != nil {
		return nil, errwrap.Wrapf(err, "could not parse spell")
	}
	return config.node()
}

type encoder struct {
	seen map[*Node]struct{}
}

func (obj *encoder) part(node *Node) (*partConfig, error) {
	if node == nil {
		return nil, fmt.Errorf("missing spell part")
	}
	if _, exists := obj.seen[node]; exists {
		return nil, fmt.Errorf("spell part %s appears more than once", node)
	}
	obj.seen[node] = struct{}{}

	glyph, err := obj.glyph(node.Operator)
	if err != nil {
		return nil, err
	}
	config := &partConfig{
		Glyph: glyph,
	}
	for i, child := range node.Children {
		c, err := obj.part(child)
		if err != nil {
			return nil, errwrap.Wrapf(err, "can't encode sub part %d", i)
		}
		config.SubParts = append(config.SubParts, c)
	}
	return config, nil
}

func (obj *encoder) glyph(value interfaces.Value) (*glyphConfig, error) {
	switch v := value.(type) {
	case nil:
		return nil, fmt.Errorf("missing glyph")

	case *types.VoidValue:
		return &glyphConfig{Void: true}, nil

	case *types.ZalgoValue:
		return &glyphConfig{Zalgo: true}, nil

	case *types.BoolValue:
		b := v.V
		return &glyphConfig{Bool: &b}, nil

	case *types.NumberValue:
		f := v.V
		return &glyphConfig{Number: &f}, nil

	case *types.VectorValue:
		return &glyphConfig{Vector: []float64{v.V.X, v.V.Y, v.V.Z}}, nil

	case *types.EntityValue:
		return &glyphConfig{Entity: v.ID.String(), Name: v.Name}, nil

	case *types.PatternValue:
		return &glyphConfig{Pattern: v.P.String()}, nil

	case *types.TrickValue:
		config := &glyphConfig{Trick: v.Name}
		if !v.P.IsEmpty() {
			config.Pattern = v.P.String()
		}
		return config, nil

	case *Node:
		part, err := obj.part(v)
		if err != nil {
			return nil, errwrap.Wrapf(err, "can't encode operator part")
		}
		return &glyphConfig{Part: part}, nil
	}

	return nil, fmt.Errorf("can't encode glyph of type %s", value.Type())
}

func (obj *partConfig) node() (*Node, error) {
	if obj == nil {
		return nil, fmt.Errorf("missing spell part")
	}
	operator, err := obj.Glyph.value()
	if err != nil {
		return nil, err
	}
	node := &Node{
		Operator: operator,
	}
	for i, c := range obj.SubParts {
		child, err := c.node()
		if err != nil {
			return nil, errwrap.Wrapf(err, "invalid sub part %d", i)
		}
		node.Children = append(node.Children, child)
	}
	return node, nil
}

func (obj *glyphConfig) value() (interfaces.Value, error) {
	if obj == nil {
		return nil, fmt.Errorf("missing glyph")
	}

	kinds := []string{}
	var value interfaces.Value
	if obj.Void {
		kinds = append(kinds, "void")
		value = types.Void
	}
	if obj.Zalgo {
		kinds = append(kinds, "zalgo")
		value = types.Zalgo
	}
	if obj.Bool != nil {
		kinds = append(kinds, "bool")
		value = types.NewBool(*obj.Bool)
	}
	if obj.Number != nil {
		kinds = append(kinds, "number")
		value = types.NewNumber(*obj.Number)
	}
	if obj.Vector != nil {
		kinds = append(kinds, "vector")
		if len(obj.Vector) != 3 {
			return nil, fmt.Errorf("vector needs 3 components, got %d", len(obj.Vector))
		}
		value = types.NewVector(obj.Vector[0], obj.Vector[1], obj.Vector[2])
	}
	if obj.Entity != "" {
		kinds = append(kinds, "entity")
		id, err := uuid.Parse(obj.Entity)
		if err != nil {
			return nil, errwrap.Wrapf(err, "invalid entity")
		}
		value = &types.EntityValue{ID: id, Name: obj.Name}
	} else if obj.Name != "" {
		return nil, fmt.Errorf("name `%s` without an entity", obj.Name)
	}

	p, err := pattern.Parse(obj.Pattern)
	if err != nil {
		return nil, err
	}
	if obj.Trick != "" {
		kinds = append(kinds, "trick")
		value = &types.TrickValue{P: p, Name: obj.Trick}
	} else if obj.Pattern != "" {
		kinds = append(kinds, "pattern")
		value = types.NewPattern(p)
	}

	if obj.Part != nil {
		kinds = append(kinds, "part")
		node, err := obj.Part.node()
		if err != nil {
			return nil, errwrap.Wrapf(err, "invalid operator part")
		}
		value = node
	}

	if len(kinds) != 1 {
		return nil, fmt.Errorf("glyph must have exactly one kind, got: %v", kinds)
	}
	return value, nil
}
