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

package errwrap

import (
	"fmt"
	"testing"
)

type testError struct{ code int }

func (obj *testError) Error() string { return fmt.Sprintf("code %d", obj.code) }

func TestWrapfErr1(t *testing.T) {
	if err := Wrapf(nil, "whatever: %d", 42); err != nil {
		t.Errorf("expected nil result")
	}
}

func TestAppendErr1(t *testing.T) {
	if err := Append(nil, nil); err != nil {
		t.Errorf("expected nil result")
	}
}

func TestAppendErr2(t *testing.T) {
	reterr := fmt.Errorf("reterr")
	if err := Append(reterr, nil); err != reterr {
		t.Errorf("expected reterr")
	}
}

func TestAppendErr3(t *testing.T) {
	err := fmt.Errorf("err")
	if reterr := Append(nil, err); reterr != err {
		t.Errorf("expected err")
	}
}

func TestErrors1(t *testing.T) {
	if l := len(Errors(nil)); l != 0 {
		t.Errorf("expected no errors, got %d", l)
	}

	var reterr error
	for i := 0; i < 3; i++ {
		reterr = Append(reterr, fmt.Errorf("err%d", i))
	}
	errs := Errors(reterr)
	if l := len(errs); l != 3 {
		t.Errorf("expected 3 errors, got %d", l)
		return
	}
	if s := errs[2].Error(); s != "err2" {
		t.Errorf("expected err2, got: %s", s)
	}
}

func TestAs1(t *testing.T) {
	err := Wrapf(&testError{code: 13}, "outer")
	var target *testError
	if !As(err, &target) {
		t.Errorf("expected to find the wrapped error")
		return
	}
	if target.code != 13 {
		t.Errorf("wrong error found: %+v", target)
	}
}

func TestIs1(t *testing.T) {
	sentinel := fmt.Errorf("sentinel")
	if !Is(Wrapf(Wrapf(sentinel, "one"), "two"), sentinel) {
		t.Errorf("expected to find the sentinel")
	}
	if Is(fmt.Errorf("other"), sentinel) {
		t.Errorf("unexpected match")
	}
}

func TestString1(t *testing.T) {
	var err error
	if String(err) != "" {
		t.Errorf("expected empty result")
	}

	msg := "this is an error"
	if err := fmt.Errorf("%s", msg); String(err) != msg {
		t.Errorf("expected different result")
	}
}
