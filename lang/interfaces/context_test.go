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

//go:build !root

package interfaces

import (
	"fmt"
	"testing"

	"github.com/purpleidea/spell/util/errwrap"

	"github.com/kylelemons/godebug/pretty"
)

// named is the smallest possible value, for use as a blunder source.
type named struct{ name string }

func (obj *named) String() string                                     { return obj.name }
func (obj *named) Type() TypeID                                       { return TypeTrick }
func (obj *named) Bool() bool                                         { return true }
func (obj *named) Ephemeral() bool                                    { return false }
func (obj *named) Cmp(Value) error                                    { return nil }
func (obj *named) Activate(ctx *Context, args []Value) (Value, error) { return obj, nil }

func TestStackTrace0(t *testing.T) {
	ctx := &Context{}
	for _, x := range []int{0, 2, InvocationMarker, 1} {
		if err := ctx.PushStackTrace(x); err != nil {
			t.Errorf("push failed: %+v", err)
			return
		}
	}
	if s := ctx.FormatStackTrace(); s != "0, 2, ~, 1" {
		t.Errorf("unexpected trace: %s", s)
	}
	trace := ctx.StackTrace()
	trace[0] = 42 // must be a copy
	ctx.PopStackTrace()
	if diff := pretty.Compare([]int{0, 2, InvocationMarker}, ctx.StackTrace()); diff != "" {
		t.Errorf("trace differs: (-want +got)\n%s", diff)
	}
	if d := ctx.Depth(); d != 3 {
		t.Errorf("expected depth 3, got %d", d)
	}
}

func TestStackTraceTooDeep0(t *testing.T) {
	type test struct { // an individual test
		name  string
		max   int
		depth int // how many pushes must succeed
	}
	testCases := []test{
		{"explicit", 3, 3},
		{"one", 1, 1},
		{"default", 0, DefaultMaxDepth},
	}
	for index, tc := range testCases { // run all the tests
		name, max, depth := tc.name, tc.max, tc.depth
		t.Run(name, func(t *testing.T) {
			ctx := &Context{MaxDepth: max}
			for i := 0; i < depth; i++ {
				if err := ctx.PushStackTrace(i); err != nil {
					t.Errorf("test #%d: push %d failed: %+v", index, i, err)
					return
				}
			}
			err := ctx.PushStackTrace(depth)
			b, ok := AsBlunder(err)
			if !ok {
				t.Errorf("test #%d: expected a blunder, got: %+v", index, err)
				return
			}
			if b.Kind != KindTooDeep {
				t.Errorf("test #%d: expected too-deep, got: %s", index, b.Kind)
			}
			if d := ctx.Depth(); d != depth {
				t.Errorf("test #%d: failed push changed the depth to %d", index, d)
			}
		})
	}

	ctx := &Context{MaxDepth: -1} // unlimited
	for i := 0; i < DefaultMaxDepth*2; i++ {
		if err := ctx.PushStackTrace(i); err != nil {
			t.Errorf("unlimited push %d failed: %+v", i, err)
			return
		}
	}
}

func TestFrames0(t *testing.T) {
	ctx := &Context{}
	source := &named{"argument"}
	if _, err := ctx.Argument(source, 0); err == nil {
		t.Errorf("expected an error outside of an invocation")
	}

	a, b := &named{"a"}, &named{"b"}
	ctx.PushFrame([]Value{a, b})
	ctx.PushFrame([]Value{b})
	if v, err := ctx.Argument(source, 0); err != nil || v != b {
		t.Errorf("expected the innermost frame, got: %v, %+v", v, err)
	}
	_, err := ctx.Argument(source, 1)
	if blunder, ok := AsBlunder(err); !ok || blunder.Kind != KindMissingFragment {
		t.Errorf("expected a missing fragment blunder, got: %+v", err)
	}
	ctx.PopFrame()
	if v, err := ctx.Argument(source, 1); err != nil || v != b {
		t.Errorf("expected the outer frame, got: %v, %+v", v, err)
	}
	ctx.PopFrame()
	if _, ok := ctx.Frame(); ok {
		t.Errorf("expected no frames")
	}
}

type recorder struct {
	spent    float64
	affected bool
}

func (obj *recorder) UseMana(source Value, amount float64) error {
	obj.spent += amount
	return nil
}

func (obj *recorder) SetWorldAffected() { obj.affected = true }

func TestEffects0(t *testing.T) {
	ctx := &Context{}
	// a nil sink is fine
	if err := ctx.UseMana(nil, 10); err != nil {
		t.Errorf("expected free mana, got: %+v", err)
	}
	ctx.SetWorldAffected()

	r := &recorder{}
	ctx.Effects = r
	ctx.UseMana(nil, 10)
	ctx.UseMana(nil, 2.5)
	ctx.SetWorldAffected()
	if r.spent != 12.5 || !r.affected {
		t.Errorf("effects were not forwarded: %+v", r)
	}
}

func TestBlunder0(t *testing.T) {
	b := NewBlunder(KindUnknownEntity, &named{"polymorph"}, "unknown entity")
	if s := b.Message(); s != "polymorph: unknown entity" {
		t.Errorf("unexpected message: %s", s)
	}
	if s := b.Error(); s != "polymorph: unknown entity" {
		t.Errorf("unexpected error without a trace: %s", s)
	}
	b.Annotate([]int{1, InvocationMarker, 0})
	b.Annotate([]int{1}) // outer annotations don't win
	if s := b.Error(); s != "polymorph: unknown entity (1, ~, 0)" {
		t.Errorf("unexpected error with a trace: %s", s)
	}

	wrapped := errwrap.Wrapf(b, "outer")
	found, ok := AsBlunder(wrapped)
	if !ok || found != b {
		t.Errorf("expected to find the blunder through the wrapping")
	}
	if _, ok := AsBlunder(fmt.Errorf("plain")); ok {
		t.Errorf("a plain error is not a blunder")
	}

	cause := fmt.Errorf("boom")
	u := Uncaught(cause)
	if u.Kind != KindUncaught || u.Unwrap() != cause {
		t.Errorf("uncaught should keep its cause")
	}
	if s := u.Message(); s != "uncaught exception in spell: boom" {
		t.Errorf("unexpected uncaught message: %s", s)
	}
}

func TestKindString0(t *testing.T) {
	testCases := map[Kind]string{
		KindUncaught:          "uncaught",
		KindInvalidNumeric:    "invalid-numeric",
		KindUnknownEntity:     "unknown-entity",
		KindTooDeep:           "too-deep",
		KindIncorrectFragment: "incorrect-fragment",
		KindMissingFragment:   "missing-fragment",
		KindNotEnoughMana:     "not-enough-mana",
		Kind(99):              "kind(99)",
	}
	for kind, expected := range testCases {
		if s := kind.String(); s != expected {
			t.Errorf("expected %s, got %s", expected, s)
		}
	}
}
