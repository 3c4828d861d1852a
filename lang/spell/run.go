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

	"github.com/purpleidea/spell/lang/interfaces"
	"github.com/purpleidea/spell/lang/types"
	"github.com/purpleidea/spell/util/errwrap"
)

// Run evaluates this part. The children are evaluated in order, and then the
// operator is activated with their results. The first failure stops the whole
// evaluation, and the stack trace of the context is left pointing at it.
//
// If the context is destructive and the result is not void, this part becomes
// a leaf which holds the result. Running it again returns the same result.
func (obj *Node) Run(ctx *interfaces.Context) (interfaces.Value, error) {
	if obj.Operator == nil {
		return nil, annotate(ctx, fmt.Errorf("spell part has no operator"))
	}

	args := make([]interfaces.Value, 0, len(obj.Children))
	for i, child := range obj.Children {
		if err := ctx.PushStackTrace(i); err != nil {
			return nil, annotate(ctx, err)
		}
		value, err := child.Run(ctx)
		if err != nil {
			return nil, err // the trace stays where it failed
		}
		ctx.PopStackTrace()
		args = append(args, value)
	}

	value, err := obj.Operator.Activate(ctx, args)
	if err != nil {
		return nil, annotate(ctx, err)
	}
	if value == nil {
		value = types.Void
	}

	if ctx.Destructive && !types.IsVoid(value) {
		if value != obj.Operator {
			obj.Children = nil
		}
		obj.Operator = value
	}

	return value, nil
}

// Activate runs this part as an operator. Without any args, the part is just a
// value, and it is returned as it is. Otherwise the args are made available to
// the tricks inside of it, and it runs.
func (obj *Node) Activate(ctx *interfaces.Context, args []interfaces.Value) (interfaces.Value, error) {
	if len(args) == 0 {
		return obj, nil
	}

	if err := ctx.PushStackTrace(interfaces.InvocationMarker); err != nil {
		return nil, annotate(ctx, err)
	}
	ctx.PushFrame(args)
	value, err := obj.Run(ctx)
	if err != nil {
		return nil, err
	}
	ctx.PopFrame()
	ctx.PopStackTrace()

	return value, nil
}

// RunSafely runs this part and never fails. If the evaluation fails, exactly one
// message is passed to onError, and false is returned. Panics in tricks are
// caught and reported as uncaught failures. The onError function may be nil.
func (obj *Node) RunSafely(ctx *interfaces.Context, onError func(string)) (result interfaces.Value, ok bool) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		var err error
		if e, isErr := r.(error); isErr {
			err = errwrap.Wrapf(e, "panic")
		} else {
			err = fmt.Errorf("panic: %v", r)
		}
		report(ctx, interfaces.Uncaught(err), onError)
		result, ok = nil, false
	}()

	value, err := obj.Run(ctx)
	if err == nil {
		return value, true
	}

	b, isBlunder := interfaces.AsBlunder(err)
	if !isBlunder {
		b = interfaces.Uncaught(err)
	}
	report(ctx, b, onError)
	return nil, false
}

// RunSafelyActor is RunSafely which delivers the error message to the actor of
// the context, if there is one.
func (obj *Node) RunSafelyActor(ctx *interfaces.Context) (interfaces.Value, bool) {
	var onError func(string)
	if ctx.Actor != nil {
		onError = ctx.Actor.SendMessage
	}
	return obj.RunSafely(ctx, onError)
}

// annotate stamps the current stack trace onto the blunder in err. This only
// has an effect the first time, where the failure happened.
func annotate(ctx *interfaces.Context, err error) error {
	if b, ok := interfaces.AsBlunder(err); ok {
		b.Annotate(ctx.StackTrace())
	}
	return err
}

// report notifies the observer about a failure and delivers its message.
func report(ctx *interfaces.Context, b *interfaces.Blunder, onError func(string)) {
	b.Annotate(ctx.StackTrace())

	if ctx.Observer != nil {
		if b.Kind == interfaces.KindInvalidNumeric {
			ctx.Observer.InvalidNumeric(ctx.Actor)
		}
		ctx.Observer.Reported(b)
	}

	ctx.Debugf("spell failed: %+v", b)
	if onError != nil {
		onError(b.Error())
	}
}
