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

// Package spell contains the spell tree and the engine which evaluates it. A
// spell is a tree of parts. Each part holds an operator and an ordered list of
// children. Evaluating a part evaluates the children from left to right, and
// then activates the operator with their results.
package spell

import (
	"encoding/binary"
	"fmt"
	"hash/maphash"
	"strings"

	"github.com/purpleidea/spell/lang/interfaces"
	"github.com/purpleidea/spell/lang/pattern"
	"github.com/purpleidea/spell/lang/types"
	"github.com/purpleidea/spell/util/errwrap"
)

// Node is a part of a spell. It is a value itself, so it can be the operator of
// another part, which is how spells compose.
//
// A tree of nodes is owned by whoever holds the root. Nodes must not be shared
// between trees or within a tree, and the tree must not contain cycles. A tree
// must not be evaluated concurrently.
type Node struct {
	// Operator is the glyph of this part.
	Operator interfaces.Value

	// Children are the sub parts. Their order is the evaluation order.
	Children []*Node
}

// New builds a new part out of an operator and its children. A nil operator is
// replaced with the empty pattern.
func New(operator interfaces.Value, children ...*Node) *Node {
	if operator == nil {
		operator = types.NewPattern(pattern.Empty)
	}
	return &Node{
		Operator: operator,
		Children: children,
	}
}

// Empty returns a new blank part.
func Empty() *Node {
	return New(nil)
}

// String renders the part as text, eg: add{1, 2}.
func (obj *Node) String() string {
	children := []string{}
	for _, child := range obj.Children {
		children = append(children, child.String())
	}
	op := "nil"
	if obj.Operator != nil {
		op = obj.Operator.String()
	}
	return op + "{" + strings.Join(children, ", ") + "}"
}

// Type returns the type tag of this value.
func (obj *Node) Type() interfaces.TypeID { return interfaces.TypeSpellPart }

// Bool is true if the operator is true, or if there are any children.
func (obj *Node) Bool() bool {
	if len(obj.Children) > 0 {
		return true
	}
	return obj.Operator != nil && obj.Operator.Bool()
}

// Ephemeral returns false. The ephemeral values inside of a part are removed by
// StripEphemerals instead.
func (obj *Node) Ephemeral() bool { return false }

// IsEmpty returns true if this is a blank part. That's a part with no children
// and the empty pattern as operator.
func (obj *Node) IsEmpty() bool {
	if len(obj.Children) > 0 {
		return false
	}
	p, ok := obj.Operator.(*types.PatternValue)
	return ok && p.P.IsEmpty()
}

// Cmp returns an error if this part isn't structurally the same as the arg
// passed in. Every operator and every child must match recursively.
func (obj *Node) Cmp(val interfaces.Value) error {
	if val == nil {
		return fmt.Errorf("cannot cmp to nil")
	}
	other, ok := val.(*Node)
	if !ok {
		return fmt.Errorf("type %s differs from %s", obj.Type(), val.Type())
	}
	return obj.cmp(other)
}

func (obj *Node) cmp(other *Node) error {
	if obj == other {
		return nil
	}
	if obj == nil || other == nil {
		return fmt.Errorf("cannot cmp to nil")
	}

	if obj.Operator == nil || other.Operator == nil {
		if obj.Operator != other.Operator {
			return fmt.Errorf("operator is missing")
		}
	} else if err := obj.Operator.Cmp(other.Operator); err != nil {
		return errwrap.Wrapf(err, "operator differs")
	}

	if a, b := len(obj.Children), len(other.Children); a != b {
		return fmt.Errorf("child count %d differs from %d", a, b)
	}
	for i, child := range obj.Children {
		if err := child.cmp(other.Children[i]); err != nil {
			return errwrap.Wrapf(err, "child %d differs", i)
		}
	}
	return nil
}

// Equal returns true if both parts are structurally the same. Two nil parts are
// equal.
func Equal(a, b *Node) bool {
	return a.cmp(b) == nil
}

// WriteHash feeds the part into the hash. Parts which are Equal have the same
// hash when the same seed is used.
func (obj *Node) WriteHash(h *maphash.Hash) {
	types.WriteHash(h, obj.Operator)

	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(len(obj.Children)))
	h.Write(buf[:])
	for _, child := range obj.Children {
		types.WriteHash(h, child)
	}
}

// Hash returns the hash of this part.
func (obj *Node) Hash(seed types.Seed) types.Hash {
	return types.Sum(seed, obj)
}
