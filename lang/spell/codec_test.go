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

package spell

import (
	"math"
	"strings"
	"testing"

	"github.com/purpleidea/spell/lang/pattern"
	"github.com/purpleidea/spell/lang/types"

	"github.com/google/uuid"
	"github.com/sanity-io/litter"
)

func TestCodecRoundTrip0(t *testing.T) {
	calls := 0
	add := adder(&calls)
	id := uuid.MustParse("0c8f3a52-5f0f-4d7e-9b7b-0f7c1f6f3b11")

	trees := []*Node{
		Empty(),
		leaf(1.5),
		New(types.Void, New(types.Zalgo), New(types.NewBool(false))),
		New(add, leaf(1), New(types.NewVector(1, -2, 3.25))),
		New(New(add, New(types.NewPattern(pattern.New(1, 2)))), leaf(4)),
		New(&types.EntityValue{ID: id, Name: "alice"}),
		New(types.NewNumber(math.Inf(-1))),
	}

	for index, tree := range trees {
		data, err := Encode(tree)
		if err != nil {
			t.Errorf("test #%d: encode failed: %+v", index, err)
			continue
		}
		out, err := Decode(data)
		if err != nil {
			t.Errorf("test #%d: decode failed: %+v", index, err)
			t.Logf("data:\n%s", data)
			continue
		}
		if _, err := out.Resolve(lookup{add.P: add}); err != nil {
			t.Errorf("test #%d: resolve failed: %+v", index, err)
			continue
		}
		if !Equal(tree, out) {
			t.Errorf("test #%d: round trip differs: %+v", index, tree.Cmp(out))
			t.Logf("data:\n%s", data)
			t.Logf("got: %s", litter.Sdump(out))
		}
	}
}

func TestDecode0(t *testing.T) {
	yml := `
glyph:
  trick: add
sub_parts:
- glyph:
    number: 1
- glyph:
    part:
      glyph:
        pattern: "[1,2]"
- glyph:
    vector: [1, 2, 3]
`
	tree, err := Decode([]byte(yml))
	if err != nil {
		t.Errorf("decode failed: %+v", err)
		return
	}
	if s := tree.String(); s != "add{1{}, [1,2]{}{}, (1, 2, 3){}}" {
		t.Errorf("unexpected tree: %s", s)
	}
	if err := tree.Validate(); err == nil {
		t.Errorf("the trick should not be resolved yet")
	}
	trick, ok := tree.Operator.(*types.TrickValue)
	if !ok || trick.Name != "add" || !trick.P.IsEmpty() {
		t.Errorf("unexpected operator: %s", litter.Sdump(tree.Operator))
	}
}

func TestDecodeFail0(t *testing.T) {
	testCases := map[string]string{
		"empty glyph":    "glyph: {}\n",
		"two kinds":      "glyph: {number: 1, bool: true}\n",
		"bad vector":     "glyph: {vector: [1, 2]}\n",
		"bad entity":     "glyph: {entity: nope}\n",
		"lonely name":    "glyph: {name: alice}\n",
		"bad pattern":    "glyph: {pattern: \"[1,x]\"}\n",
		"unknown field":  "glyph: {number: 1}\nfoo: bar\n",
		"missing glyph":  "sub_parts: []\n",
		"bad sub part":   "glyph: {void: true}\nsub_parts:\n- glyph: {}\n",
		"not a document": "[1, 2",
	}
	for name, yml := range testCases {
		if _, err := Decode([]byte(yml)); err == nil {
			t.Errorf("%s: expected decode to fail", name)
		}
	}
}

func TestEncodeFail0(t *testing.T) {
	shared := leaf(1)
	if _, err := Encode(New(types.Void, shared, shared)); err == nil {
		t.Errorf("expected shared parts to fail")
	}
	if _, err := Encode(&Node{}); err == nil {
		t.Errorf("expected a missing operator to fail")
	}
}

func TestEncodeStripped0(t *testing.T) {
	tree := New(types.Void, New(&types.EntityValue{ID: uuid.New()}))
	tree.StripEphemerals()
	data, err := Encode(tree)
	if err != nil {
		t.Errorf("encode failed: %+v", err)
		return
	}
	if strings.Contains(string(data), "entity") {
		t.Errorf("entity should have been stripped:\n%s", data)
	}
	out, err := Decode(data)
	if err != nil {
		t.Errorf("decode failed: %+v", err)
		return
	}
	if _, ok := out.Children[0].Operator.(*types.ZalgoValue); !ok {
		t.Errorf("expected zalgo, got: %s", out.Children[0].Operator)
	}
}
