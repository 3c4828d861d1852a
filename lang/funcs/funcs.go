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

// Package funcs provides the registry of tricks. A trick is the operator which
// a pattern stands for. Tricks register themselves at program startup, and the
// engine resolves the patterns of a spell against this registry.
package funcs

import (
	"fmt"
	"strings"

	"github.com/purpleidea/spell/lang/interfaces"
	"github.com/purpleidea/spell/lang/pattern"
	"github.com/purpleidea/spell/lang/types"
	"github.com/purpleidea/spell/util"
)

const (
	// ModuleSep is the character used for the module scope separation. For
	// example when using `math.add`, this is the dot.
	ModuleSep = "."

	// ErrNotFound is returned when no trick matches.
	ErrNotFound = util.Error("trick not found")
)

// registeredTricks is a global map of all possible tricks keyed by pattern. You
// should never touch this map directly. Use methods like Register instead.
var registeredTricks = make(map[pattern.Pattern]*types.TrickValue) // must initialize

// registeredNames indexes the same tricks by name.
var registeredNames = make(map[string]*types.TrickValue) // must initialize

// Register takes a trick implementation, the pattern which draws it and its name
// and makes it available for use. It is commonly called in the init() method of
// the trick at program startup. There is no matching Unregister function.
func Register(p pattern.Pattern, name string, fn types.TrickFunc) {
	if p.IsEmpty() {
		panic(fmt.Sprintf("the trick named %s can't use the empty pattern", name))
	}
	if fn == nil {
		panic(fmt.Sprintf("the trick named %s has no implementation", name))
	}
	if t, exists := registeredTricks[p]; exists {
		panic(fmt.Sprintf("the pattern %s of %s is already registered to %s", p, name, t.Name))
	}
	if _, exists := registeredNames[name]; exists {
		panic(fmt.Sprintf("a trick named %s is already registered", name))
	}

	t := &types.TrickValue{
		P:    p,
		Name: name,
		V:    fn,
	}
	registeredTricks[p] = t
	registeredNames[name] = t
}

// ModuleRegister is exactly like Register, except that it registers within a
// named module. This is a helper function.
func ModuleRegister(module, name string, p pattern.Pattern, fn types.TrickFunc) {
	Register(p, module+ModuleSep+name, fn)
}

// Lookup returns the trick which is drawn as this pattern.
func Lookup(p pattern.Pattern) (interfaces.Value, error) {
	t, exists := registeredTricks[p]
	if !exists {
		return nil, ErrNotFound
	}
	return t, nil
}

// LookupName returns the trick with this name.
func LookupName(name string) (interfaces.Value, error) {
	t, exists := registeredNames[name]
	if !exists {
		return nil, ErrNotFound
	}
	return t, nil
}

// Names returns a sorted list of the names of all the registered tricks.
func Names() []string {
	names := []string{}
	for name := range registeredNames {
		names = append(names, name)
	}
	return util.SortedStrSlice(names)
}

// Modules returns a sorted list of the modules which registered tricks. Tricks
// that were registered without a module aren't part of any.
func Modules() []string {
	modules := []string{}
	for name := range registeredNames {
		i := strings.Index(name, ModuleSep)
		if i <= 0 {
			continue
		}
		if module := name[:i]; !util.StrInList(module, modules) {
			modules = append(modules, module)
		}
	}
	return util.SortedStrSlice(modules)
}

// Tricks returns all the registered tricks, sorted by name.
func Tricks() []*types.TrickValue {
	tricks := []*types.TrickValue{}
	for _, name := range Names() {
		tricks = append(tricks, registeredNames[name])
	}
	return tricks
}

// Registry gives access to the registered tricks through an interface. It can
// be used to resolve the patterns of a spell.
type Registry struct{}

// Lookup returns the trick which is drawn as this pattern.
func (obj *Registry) Lookup(p pattern.Pattern) (interfaces.Value, error) {
	return Lookup(p)
}

// LookupName returns the trick with this name.
func (obj *Registry) LookupName(name string) (interfaces.Value, error) {
	return LookupName(name)
}
