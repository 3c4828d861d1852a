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
	"fmt"

	"github.com/purpleidea/spell/util/errwrap"
)

// Kind classifies a blunder.
type Kind int

const (
	// KindUncaught is any failure which is not otherwise classified. Plain
	// errors and panics that escape an evaluation become this kind.
	KindUncaught Kind = iota

	// KindInvalidNumeric is raised when an operation produced a number that
	// is not a number, or is infinite.
	KindInvalidNumeric

	// KindUnknownEntity is raised when an operator expected a concrete
	// entity but found none.
	KindUnknownEntity

	// KindTooDeep is raised when the nesting of the evaluation exceeds the
	// depth limit of the context.
	KindTooDeep

	// KindIncorrectFragment is raised when an argument has the wrong type.
	KindIncorrectFragment

	// KindMissingFragment is raised when an argument is missing.
	KindMissingFragment

	// KindNotEnoughMana is raised when the effects sink refuses to pay for
	// an operation.
	KindNotEnoughMana
)

// Kinds is the list of every kind of blunder.
var Kinds = []Kind{
	KindUncaught,
	KindInvalidNumeric,
	KindUnknownEntity,
	KindTooDeep,
	KindIncorrectFragment,
	KindMissingFragment,
	KindNotEnoughMana,
}

// String returns the name of this kind.
func (obj Kind) String() string {
	switch obj {
	case KindUncaught:
		return "uncaught"
	case KindInvalidNumeric:
		return "invalid-numeric"
	case KindUnknownEntity:
		return "unknown-entity"
	case KindTooDeep:
		return "too-deep"
	case KindIncorrectFragment:
		return "incorrect-fragment"
	case KindMissingFragment:
		return "missing-fragment"
	case KindNotEnoughMana:
		return "not-enough-mana"
	}
	return fmt.Sprintf("kind(%d)", int(obj))
}

// Blunder is a typed failure of an evaluation. It unwinds the evaluation
// unmodified until the guarded top-level entry point reports it.
type Blunder struct {
	Kind Kind
	Msg  string

	// Source is the operator that failed, if it is known.
	Source Value

	// Trace is the stack trace of the evaluation at the point of failure.
	// It is nil until the blunder passes through the engine.
	Trace []int

	// Err is the underlying cause of an uncaught blunder.
	Err error
}

// NewBlunder builds a new blunder of this kind which was raised by source.
func NewBlunder(kind Kind, source Value, format string, v ...interface{}) *Blunder {
	return &Blunder{
		Kind:   kind,
		Msg:    fmt.Sprintf(format, v...),
		Source: source,
	}
}

// Uncaught wraps an unclassified error as a blunder.
func Uncaught(err error) *Blunder {
	return &Blunder{
		Kind: KindUncaught,
		Msg:  fmt.Sprintf("uncaught exception in spell: %s", errwrap.String(err)),
		Err:  err,
	}
}

// Message returns the user facing text of this blunder, without the trace.
func (obj *Blunder) Message() string {
	if obj.Source == nil {
		return obj.Msg
	}
	return fmt.Sprintf("%s: %s", obj.Source, obj.Msg)
}

// Error fulfills the error interface.
func (obj *Blunder) Error() string {
	if obj.Trace == nil {
		return obj.Message()
	}
	return fmt.Sprintf("%s (%s)", obj.Message(), FormatStackTrace(obj.Trace))
}

// Unwrap returns the underlying cause, if any.
func (obj *Blunder) Unwrap() error {
	return obj.Err
}

// Annotate records the stack trace at which this blunder happened. Only the
// first call has an effect, since the innermost trace is the interesting one.
func (obj *Blunder) Annotate(trace []int) {
	if obj.Trace != nil {
		return
	}
	obj.Trace = make([]int, len(trace))
	copy(obj.Trace, trace)
}

// AsBlunder finds the blunder in the chain of err, if there is one.
func AsBlunder(err error) (*Blunder, bool) {
	var b *Blunder
	if !errwrap.As(err, &b) {
		return nil, false
	}
	return b, true
}
