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

package interfaces

import (
	"strconv"
	"strings"

	"github.com/purpleidea/spell/world"

	"github.com/google/uuid"
)

const (
	// DefaultMaxDepth is the depth limit used when the context doesn't
	// specify one. The depth counts both tree nesting and nested uses of a
	// spell as an operator.
	DefaultMaxDepth = 1024

	// InvocationMarker is pushed onto the stack trace when a spell part is
	// invoked as an operator, instead of a child index.
	InvocationMarker = -1
)

// Actor is whoever is casting the spell. Error messages get delivered to it.
type Actor interface {
	// UUID returns the unique id of the actor.
	UUID() uuid.UUID

	// SendMessage delivers a message to the actor.
	SendMessage(msg string)
}

// Effects is the side channel which operators use to account for what they do.
// The engine never looks at it, it only carries it along.
type Effects interface {
	// UseMana pays amount for an operation performed by source. If this
	// can't be paid, it returns a blunder, and nothing is spent.
	UseMana(source Value, amount float64) error

	// SetWorldAffected marks that state outside of the spell was changed.
	SetWorldAffected()
}

// Observer gets notified about the outcome of guarded evaluations.
type Observer interface {
	// InvalidNumeric is called when a spell failed because it produced an
	// invalid number. This is separate from the error display path.
	InvalidNumeric(actor Actor)

	// Reported is called once for every failure that was reported.
	Reported(b *Blunder)
}

// Context is the mutable state of one top-level evaluation. A fresh one should
// be used for each evaluation. It is owned by the goroutine running that
// evaluation and it is not safe for concurrent use.
type Context struct {
	// Destructive specifies whether spell parts collapse into their own
	// result as they are evaluated.
	Destructive bool

	// MaxDepth is the depth limit. Zero means DefaultMaxDepth, and any
	// negative value means that there is no limit.
	MaxDepth int

	// Actor is the caster. It may be nil.
	Actor Actor

	// Effects is the accounting sink. It may be nil, in which case mana is
	// free and nothing gets recorded.
	Effects Effects

	// World is the world that tricks act upon. It may be nil.
	World *world.World

	// Observer receives notifications. It may be nil.
	Observer Observer

	Debug bool
	Logf  func(format string, v ...interface{})

	trace  []int
	frames [][]Value
}

// PushStackTrace descends into the given child index, or the invocation marker.
// It errors with a too-deep blunder if this would exceed the depth limit.
func (obj *Context) PushStackTrace(index int) error {
	max := obj.MaxDepth
	if max == 0 {
		max = DefaultMaxDepth
	}
	if max > 0 && len(obj.trace) >= max {
		return NewBlunder(KindTooDeep, nil, "spell is nested deeper than %d", max)
	}
	obj.trace = append(obj.trace, index)
	return nil
}

// PopStackTrace undoes the last push.
func (obj *Context) PopStackTrace() {
	if len(obj.trace) == 0 {
		panic("stack trace underflow")
	}
	obj.trace = obj.trace[:len(obj.trace)-1]
}

// StackTrace returns a copy of the current stack trace, root first.
func (obj *Context) StackTrace() []int {
	out := make([]int, len(obj.trace))
	copy(out, obj.trace)
	return out
}

// Depth returns the current length of the stack trace.
func (obj *Context) Depth() int {
	return len(obj.trace)
}

// FormatStackTrace returns the display form of the current stack trace.
func (obj *Context) FormatStackTrace() string {
	return FormatStackTrace(obj.trace)
}

// PushFrame exposes args to the spell part that is being invoked.
func (obj *Context) PushFrame(args []Value) {
	obj.frames = append(obj.frames, args)
}

// PopFrame undoes the last PushFrame.
func (obj *Context) PopFrame() {
	if len(obj.frames) == 0 {
		panic("frame underflow")
	}
	obj.frames = obj.frames[:len(obj.frames)-1]
}

// Frame returns the arguments of the innermost invocation. It returns false if
// we're not inside of an invocation.
func (obj *Context) Frame() ([]Value, bool) {
	if len(obj.frames) == 0 {
		return nil, false
	}
	return obj.frames[len(obj.frames)-1], true
}

// Argument returns the index'th argument of the innermost invocation. The
// source is the operator asking for it, and is used for the error message.
func (obj *Context) Argument(source Value, index int) (Value, error) {
	args, ok := obj.Frame()
	if !ok {
		return nil, NewBlunder(KindMissingFragment, source, "not inside of an invocation")
	}
	if index < 0 || index >= len(args) {
		return nil, NewBlunder(KindMissingFragment, source, "no argument at index %d, there are %d", index, len(args))
	}
	return args[index], nil
}

// UseMana pays for an operation through the effects sink.
func (obj *Context) UseMana(source Value, amount float64) error {
	if obj.Effects == nil {
		return nil
	}
	return obj.Effects.UseMana(source, amount)
}

// SetWorldAffected marks that the world was changed through the effects sink.
func (obj *Context) SetWorldAffected() {
	if obj.Effects == nil {
		return
	}
	obj.Effects.SetWorldAffected()
}

// Debugf logs a message if debugging is enabled.
func (obj *Context) Debugf(format string, v ...interface{}) {
	if !obj.Debug || obj.Logf == nil {
		return
	}
	obj.Logf(format, v...)
}

// FormatStackTrace renders a stack trace root first, eg: "0, ~, 2".
func FormatStackTrace(trace []int) string {
	s := []string{}
	for _, x := range trace {
		if x == InvocationMarker {
			s = append(s, "~")
			continue
		}
		s = append(s, strconv.Itoa(x))
	}
	return strings.Join(s, ", ")
}
