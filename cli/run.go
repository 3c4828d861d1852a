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

package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	cliUtil "github.com/purpleidea/spell/cli/util"
	"github.com/purpleidea/spell/lang/funcs"
	"github.com/purpleidea/spell/lang/interfaces"
	"github.com/purpleidea/spell/lang/spell"
	"github.com/purpleidea/spell/mana"
	"github.com/purpleidea/spell/prometheus"
	"github.com/purpleidea/spell/store"
	"github.com/purpleidea/spell/util/errwrap"
	"github.com/purpleidea/spell/util/filewatch"
	"github.com/purpleidea/spell/world"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/afero"
	"golang.org/x/time/rate"
)

// WatchLimit is the max number of times per second that a watched spell gets
// cast again.
const WatchLimit = 2

// RunArgs is the CLI parsing structure and type of the parsed result. This
// particular one contains all the flags for the `run` subcommand.
type RunArgs struct {
	cliUtil.SpellArgs // embedded (can't be a pointer) https://github.com/alexflint/go-arg/issues/240

	Destructive bool    `arg:"--destructive" help:"replace each part of the spell with its result as it runs"`
	MaxDepth    int     `arg:"--max-depth,env:SPELL_MAX_DEPTH" help:"max nesting depth (0 is the default limit, -1 is unlimited)"`
	Mana        float64 `arg:"--mana,env:SPELL_MANA" default:"1000" help:"amount of mana available to the spell"`
	Repeat      int     `arg:"--repeat" default:"1" help:"number of times to cast the spell"`

	World  string `arg:"--world" help:"path to a world file to cast the spell in"`
	Caster string `arg:"--caster" help:"name of the entity in the world which casts the spell"`

	Diff bool `arg:"--diff" help:"show how the spell changed after each cast"`
	Save bool `arg:"--save" help:"write the spell back to its file when done"`

	Watch bool `arg:"--watch" help:"cast the spell again each time its file changes"`

	Prometheus       bool   `arg:"--prometheus" help:"start a prometheus instance"`
	PrometheusListen string `arg:"--prometheus-listen" help:"specify prometheus instance binding"`
	Wait             bool   `arg:"--wait" help:"keep serving the metrics until interrupted"`
}

// Run executes the `run` subcommand. It errors if there's ever an error. It
// returns true because this command always activates. A spell which failed is
// displayed and then returned as an error so that the exit status shows it.
func (obj *RunArgs) Run(ctx context.Context, data *cliUtil.Data) (bool, error) {
	cliUtil.Hello(data.Program, data.Version, data.Flags) // say hello!

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// install the exit signal handler
	wg := &sync.WaitGroup{}
	defer wg.Wait()
	exit := make(chan struct{})
	defer close(exit)
	wg.Add(1)
	go func() {
		defer wg.Done()
		signals := make(chan os.Signal, 1+1) // 1 * ^C + 1 * SIGTERM
		signal.Notify(signals, os.Interrupt) // catch ^C
		signal.Notify(signals, syscall.SIGTERM)
		defer signal.Stop(signals)
		select {
		case sig := <-signals:
			data.Flags.Logf("main: interrupted by %v", sig)
			cancel()
		case <-exit:
		}
	}()

	if err := obj.cast(ctx, newEnviron(data)); err != nil {
		if data.Flags.Debug {
			data.Flags.Logf("main: %+v", err)
		}
		return true, err
	}
	return true, nil
}

// session is the state which is shared by all the casts of one `run`.
type session struct {
	args    *RunArgs
	env     *environ
	world   *world.World
	actor   interfaces.Actor
	pool    *mana.Pool
	prom    *prometheus.Prometheus
	printer *printer
}

// cast reads the spell, runs it the requested number of times, and displays
// each result. When watching, this repeats each time the file changes, until
// the context is cancelled.
func (obj *RunArgs) cast(ctx context.Context, env *environ) error {
	if obj.Repeat < 0 {
		return fmt.Errorf("repeat count of %d is negative", obj.Repeat)
	}
	if obj.Watch && obj.Save {
		return fmt.Errorf("can't save a spell that is being watched")
	}

	node, err := obj.load(env)
	if err != nil {
		return err
	}

	s := &session{
		args:    obj,
		env:     env,
		world:   world.New(),
		printer: &printer{color: useColor(obj.Color, env.stdout)},
	}
	if obj.World != "" {
		b, err := afero.ReadFile(env.fs, obj.World)
		if err != nil {
			return errwrap.Wrapf(err, "could not read world")
		}
		if s.world, err = world.Load(b); err != nil {
			return err
		}
	}
	if obj.Caster != "" {
		e, exists := s.world.EntityByName(obj.Caster)
		if !exists {
			return fmt.Errorf("no entity named `%s` in the world", obj.Caster)
		}
		s.actor = e
	}

	s.pool = mana.New(obj.Mana)
	s.pool.Debug = env.debug
	s.pool.Logf = func(format string, v ...interface{}) {
		env.logf("mana: "+format, v...)
	}

	if obj.Prometheus {
		s.prom = &prometheus.Prometheus{
			Listen: obj.PrometheusListen,
			Logf:   env.logf,
		}
		if err := s.prom.Init(); err != nil {
			return errwrap.Wrapf(err, "can't initialize prometheus instance")
		}
		env.logf("prometheus: starting instance on: %s", s.prom.Listen)
		if err := s.prom.Start(); err != nil {
			return errwrap.Wrapf(err, "can't start prometheus instance")
		}
		defer func() {
			if err := s.prom.Stop(); err != nil {
				env.logf("prometheus: could not stop instance: %+v", err)
			}
		}()
	}

	failed, err := s.castAll(ctx, node)
	if err != nil {
		return err
	}

	if obj.Save {
		if err := store.WriteFile(env.fs, obj.Input, node); err != nil {
			return err
		}
		env.logf("saved: %s", obj.Input)
	}

	if obj.Watch {
		return s.watch(ctx)
	}

	if obj.Wait && s.prom != nil {
		env.logf("prometheus: serving until interrupted")
		<-ctx.Done()
	}

	if failed > 0 {
		return cliUtil.ErrSpellFailed
	}
	return nil
}

// load reads the spell and checks that it can run.
func (obj *RunArgs) load(env *environ) (*spell.Node, error) {
	node, err := store.ReadFile(env.fs, obj.Input, &funcs.Registry{})
	if err != nil {
		return nil, err
	}
	if err := node.Validate(); err != nil {
		for _, e := range errwrap.Errors(err) {
			env.logf("invalid: %v", e)
		}
		return nil, errwrap.Wrapf(err, "invalid spell")
	}
	return node, nil
}

// watch casts the spell again each time its file changes. A spell which can't
// be loaded or which fails is displayed, and the watch continues.
func (obj *session) watch(ctx context.Context) error {
	fw := &filewatch.FileWatcher{
		Path:  obj.args.Input,
		Limit: rate.Limit(WatchLimit),

		Debug: obj.env.debug,
		Logf:  obj.env.logf,
	}
	if err := fw.Init(); err != nil {
		return err
	}
	defer fw.Close()
	obj.env.logf("watching: %s", obj.args.Input)

	for {
		select {
		case err, ok := <-fw.Events():
			if !ok {
				return nil
			}
			if err != nil {
				return err
			}

		case <-ctx.Done():
			return nil
		}

		node, err := obj.args.load(obj.env)
		if err != nil {
			fmt.Fprintln(obj.env.stderr, obj.printer.paint(color.FgRed, err.Error()))
			continue
		}
		obj.pool.Refill(obj.pool.Max) // each version starts out fresh
		if _, err := obj.castAll(ctx, node); err != nil {
			return err
		}
	}
}

// castAll runs the spell the requested number of times and displays what
// happened. It returns the number of casts that failed.
func (obj *session) castAll(ctx context.Context, node *spell.Node) (int, error) {
	var observer interfaces.Observer
	if obj.prom != nil {
		observer = obj.prom.Observer()
	}
	stdout := obj.env.stdout
	onError := func(msg string) {
		fmt.Fprintln(obj.env.stderr, obj.printer.paint(color.FgRed, msg))
		if obj.actor != nil {
			obj.actor.SendMessage(msg)
		}
	}

	failed := 0
	for i := 0; i < obj.args.Repeat; i++ {
		select {
		case <-ctx.Done():
			return failed, ctx.Err()
		default:
		}

		before := node.String()
		sctx := &interfaces.Context{
			Destructive: obj.args.Destructive,
			MaxDepth:    obj.args.MaxDepth,
			Actor:       obj.actor,
			Effects:     obj.pool,
			World:       obj.world,
			Observer:    observer,

			Debug: obj.env.debug,
			Logf: func(format string, v ...interface{}) {
				obj.env.logf("spell: "+format, v...)
			},
		}
		value, ok := node.RunSafely(sctx, onError)
		if obj.prom != nil {
			if err := obj.prom.UpdateRunTotal(obj.args.Destructive, !ok); err != nil {
				obj.env.logf("prometheus: could not update the run total: %+v", err)
			}
		}
		if ok {
			fmt.Fprintln(stdout, obj.printer.value(value))
		} else {
			failed++
		}

		if after := node.String(); obj.args.Diff && after != before {
			fmt.Fprintln(stdout, obj.printer.diff(before, after))
		}
	}

	if obj.env.debug {
		obj.env.logf("mana left: %v of %v", obj.pool.Current(), obj.pool.Max)
	}
	if obj.pool.WorldAffected() {
		for _, e := range obj.world.Entities() {
			if e.Disguise == uuid.Nil {
				continue
			}
			name := e.Disguise.String()
			if other, exists := obj.world.Entity(e.Disguise); exists {
				name = other.String()
			}
			fmt.Fprintf(stdout, "%s appears as %s\n", e, name)
		}
	}
	return failed, nil
}
