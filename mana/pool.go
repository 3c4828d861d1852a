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

// Package mana implements the budget that pays for the effects of a spell.
package mana

import (
	"fmt"
	"sync"

	"github.com/purpleidea/spell/lang/interfaces"
)

// Pool is a mana budget. It implements the interfaces.Effects sink which tricks
// use to pay for what they do. It is safe for concurrent use, so a single pool
// can be shared by several spells of the same caster.
type Pool struct {
	// Max is the most mana that this pool can hold.
	Max float64

	Debug bool
	Logf  func(format string, v ...interface{})

	mutex         sync.Mutex
	current       float64
	worldAffected bool
}

// New returns a full pool which holds max mana.
func New(max float64) *Pool {
	return &Pool{
		Max:     max,
		current: max,
	}
}

// UseMana pays amount. If there isn't enough mana, nothing is spent, and the
// error is a blunder which names source.
func (obj *Pool) UseMana(source interfaces.Value, amount float64) error {
	if amount < 0 {
		return fmt.Errorf("can't use a negative amount of mana: %f", amount)
	}
	obj.mutex.Lock()
	defer obj.mutex.Unlock()

	if amount > obj.current {
		return interfaces.NewBlunder(interfaces.KindNotEnoughMana, source, "needs %g mana, only %g left", amount, obj.current)
	}
	obj.current -= amount
	if obj.Debug && obj.Logf != nil {
		obj.Logf("used %g mana, %g left", amount, obj.current)
	}
	return nil
}

// SetWorldAffected records that a spell changed the world.
func (obj *Pool) SetWorldAffected() {
	obj.mutex.Lock()
	defer obj.mutex.Unlock()
	obj.worldAffected = true
}

// WorldAffected returns true if a spell changed the world.
func (obj *Pool) WorldAffected() bool {
	obj.mutex.Lock()
	defer obj.mutex.Unlock()
	return obj.worldAffected
}

// Current returns the mana that is left.
func (obj *Pool) Current() float64 {
	obj.mutex.Lock()
	defer obj.mutex.Unlock()
	return obj.current
}

// Refill adds amount back into the pool, without going over the maximum.
func (obj *Pool) Refill(amount float64) {
	obj.mutex.Lock()
	defer obj.mutex.Unlock()
	obj.current += amount
	if obj.current > obj.Max {
		obj.current = obj.Max
	}
}
