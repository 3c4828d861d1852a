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
	"slices"

	"github.com/purpleidea/spell/lang/interfaces"
	"github.com/purpleidea/spell/lang/pattern"
	"github.com/purpleidea/spell/lang/types"
	"github.com/purpleidea/spell/util/errwrap"
)

// Lookup finds the operators which patterns and trick names refer to. The trick
// registry in lang/funcs is one.
type Lookup interface {
	// Lookup returns the operator which is drawn as this pattern.
	Lookup(p pattern.Pattern) (interfaces.Value, error)

	// LookupName returns the operator with this name.
	LookupName(name string) (interfaces.Value, error)
}

// StripEphemerals replaces every ephemeral operator in the tree with the inert
// placeholder. This must happen before a spell gets stored, since ephemeral
// values are only meaningful inside of the evaluation which produced them.
func (obj *Node) StripEphemerals() {
	for _, child := range obj.Children {
		child.StripEphemerals()
	}

	if node, ok := obj.Operator.(*Node); ok {
		node.StripEphemerals()
		return
	}
	if obj.Operator != nil && obj.Operator.Ephemeral() {
		obj.Operator = types.Zalgo
	}
}

// BuildClosure binds the holes of the tree. Every part whose operator is a
// pattern that's in bindings gets the bound value as its operator, and keeps
// its children. Other patterns are left alone. Parts which are operators get
// searched too, but are never replaced.
func (obj *Node) BuildClosure(bindings map[pattern.Pattern]interfaces.Value) {
	for _, child := range obj.Children {
		child.BuildClosure(bindings)
	}

	switch op := obj.Operator.(type) {
	case *Node:
		op.BuildClosure(bindings)

	case *types.PatternValue:
		if value, exists := bindings[op.P]; exists && value != nil {
			obj.Operator = value
		}
	}
}

// SetSubPartInTree searches the tree under root for this part and replaces it.
// If targetIsInner is true, it looks for a part whose operator is this part,
// otherwise it looks for this part itself. The operator of each part is searched
// before its children, and the first match wins. Root itself is never a match.
//
// When the match is the operator of its parent, the operator is replaced, and a
// nil replacement leaves an empty pattern behind. When the match is a child, the
// child is replaced, and a nil replacement removes it from the children. This
// returns false if nothing matched.
func (obj *Node) SetSubPartInTree(replacement, root *Node, targetIsInner bool) bool {
	matches := func(candidate *Node) bool {
		if targetIsInner {
			return candidate.Operator == obj
		}
		return candidate == obj
	}

	if part, ok := root.Operator.(*Node); ok {
		if matches(part) {
			if replacement != nil {
				root.Operator = replacement
			} else {
				root.Operator = types.NewPattern(pattern.Empty)
			}
			return true
		}

		if obj.SetSubPartInTree(replacement, part, targetIsInner) {
			return true
		}
	}

	for i, part := range root.Children {
		if matches(part) {
			if replacement != nil {
				root.Children[i] = replacement
			} else {
				root.Children = slices.Delete(root.Children, i, i+1)
			}
			return true
		}

		if obj.SetSubPartInTree(replacement, part, targetIsInner) {
			return true
		}
	}

	return false
}

// DeepClone returns a copy of the tree which shares no parts with the original.
// Operators which aren't parts are shared, since values are immutable.
func (obj *Node) DeepClone() *Node {
	operator := obj.Operator
	if node, ok := operator.(*Node); ok {
		operator = node.DeepClone()
	}

	var children []*Node
	for _, child := range obj.Children {
		children = append(children, child.DeepClone())
	}

	return &Node{
		Operator: operator,
		Children: children,
	}
}

// Walk calls fn on every part of the tree, parents before children, and a part
// used as an operator before the children of its parent. It stops at the first
// error and returns it.
func (obj *Node) Walk(fn func(*Node) error) error {
	if err := fn(obj); err != nil {
		return err
	}
	if node, ok := obj.Operator.(*Node); ok {
		if err := node.Walk(fn); err != nil {
			return err
		}
	}
	for _, child := range obj.Children {
		if err := child.Walk(fn); err != nil {
			return err
		}
	}
	return nil
}

// Resolve replaces the patterns and unresolved tricks of the tree with the
// operators that lookup finds for them. A pattern which lookup doesn't know is a
// hole, and it is left alone. A trick which can't be found is an error, and all
// of these are returned together. This returns the number of replacements.
func (obj *Node) Resolve(lookup Lookup) (int, error) {
	count := 0
	var errs error
	obj.Walk(func(node *Node) error {
		switch op := node.Operator.(type) {
		case *types.PatternValue:
			if op.P.IsEmpty() {
				return nil
			}
			value, err := lookup.Lookup(op.P)
			if err != nil {
				return nil // unbound hole
			}
			node.Operator = value
			count++

		case *types.TrickValue:
			if op.V != nil {
				return nil
			}
			var value interfaces.Value
			var err error
			if !op.P.IsEmpty() {
				value, err = lookup.Lookup(op.P)
			} else {
				value, err = lookup.LookupName(op.Name)
			}
			if err != nil {
				errs = errwrap.Append(errs, errwrap.Wrapf(err, "can't resolve trick `%s`", op.Name))
				return nil
			}
			node.Operator = value
			count++
		}
		return nil
	})
	return count, errs
}

// Validate checks that the tree is well formed. It returns every problem that
// it found. Parts must not be nil, must have an operator, must not appear twice,
// and their tricks must be resolved.
func (obj *Node) Validate() error {
	var errs error
	seen := make(map[*Node]struct{})

	var validate func(node *Node, path []int)
	validate = func(node *Node, path []int) {
		where := interfaces.FormatStackTrace(path)
		if node == nil {
			errs = errwrap.Append(errs, fmt.Errorf("missing spell part at (%s)", where))
			return
		}
		if _, exists := seen[node]; exists {
			errs = errwrap.Append(errs, fmt.Errorf("spell part at (%s) appears more than once", where))
			return
		}
		seen[node] = struct{}{}

		switch op := node.Operator.(type) {
		case nil:
			errs = errwrap.Append(errs, fmt.Errorf("spell part at (%s) has no operator", where))

		case *Node:
			validate(op, append(slices.Clone(path), interfaces.InvocationMarker))

		case *types.TrickValue:
			if op.V == nil {
				errs = errwrap.Append(errs, fmt.Errorf("trick `%s` at (%s) is not resolved", op.Name, where))
			}
		}

		for i, child := range node.Children {
			validate(child, append(slices.Clone(path), i))
		}
	}
	validate(obj, nil)

	return errs
}
