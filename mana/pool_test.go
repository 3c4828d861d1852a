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

package mana

import (
	"sync"
	"testing"

	"github.com/purpleidea/spell/lang/interfaces"
)

func TestPool0(t *testing.T) {
	var _ interfaces.Effects = New(1) // check the interface

	pool := New(500)
	if err := pool.UseMana(nil, 480); err != nil {
		t.Errorf("expected enough mana: %+v", err)
	}
	if c := pool.Current(); c != 20 {
		t.Errorf("expected 20 left, got: %g", c)
	}

	err := pool.UseMana(nil, 21)
	b, ok := interfaces.AsBlunder(err)
	if !ok || b.Kind != interfaces.KindNotEnoughMana {
		t.Errorf("expected not enough mana, got: %+v", err)
	}
	if c := pool.Current(); c != 20 {
		t.Errorf("a failed payment must not spend anything, got: %g", c)
	}
	if err := pool.UseMana(nil, -1); err == nil {
		t.Errorf("expected a negative amount to fail")
	}

	pool.Refill(1000)
	if c := pool.Current(); c != 500 {
		t.Errorf("refill should stop at the max, got: %g", c)
	}

	if pool.WorldAffected() {
		t.Errorf("world should not be affected yet")
	}
	pool.SetWorldAffected()
	if !pool.WorldAffected() {
		t.Errorf("world should be affected")
	}
}

func TestPoolConcurrent0(t *testing.T) {
	pool := New(100)
	wg := &sync.WaitGroup{}
	defer wg.Wait()
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			pool.UseMana(nil, 1)
		}()
	}
	wg.Wait()
	if c := pool.Current(); c != 0 {
		t.Errorf("expected the pool to be empty, got: %g", c)
	}
}
