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

package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	cliUtil "github.com/purpleidea/spell/cli/util"
	"github.com/purpleidea/spell/lang/types"
	"github.com/purpleidea/spell/store"
	"github.com/purpleidea/spell/util/errwrap"

	"github.com/spf13/afero"
)

const (
	aliceID = "00000000-0000-0000-0000-00000000a11c"
	bobID   = "00000000-0000-0000-0000-000000000b0b"

	testWorld = `
entities:
- id: ` + aliceID + `
  name: alice
  pos: [0, 0, 0]
  facing: [1, 0, 0]
  width: 0.6
  height: 1.8
  living: true
  player: true
- id: ` + bobID + `
  name: bob
  pos: [5, 0, 0]
  width: 0.6
  height: 1.8
  living: true
  player: true
`

	addSpell = `
glyph: {trick: math.add}
sub_parts:
- glyph: {number: 2}
- glyph: {number: 3}
`

	divideSpell = `
glyph: {trick: math.divide}
sub_parts:
- glyph: {number: 1}
- glyph: {number: 0}
`

	casterSpell = `
glyph: {trick: entity.caster}
`

	polymorphSpell = `
glyph: {trick: entity.polymorph}
sub_parts:
- glyph: {trick: entity.caster}
- glyph: {entity: ` + bobID + `, name: bob}
`
)

// testEnviron returns an in memory environment and its output buffers.
func testEnviron(t *testing.T) (*environ, *bytes.Buffer, *bytes.Buffer) {
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	env := &environ{
		fs:     afero.NewMemMapFs(),
		stdout: stdout,
		stderr: stderr,

		debug: testing.Verbose(),
		logf: func(format string, v ...interface{}) {
			t.Logf("cli: "+format, v...)
		},
	}
	return env, stdout, stderr
}

func writeFile(t *testing.T, fs afero.Fs, p, data string) {
	if err := afero.WriteFile(fs, p, []byte(data), 0600); err != nil {
		t.Fatalf("could not write %s: %+v", p, err)
	}
}

func TestRunCast0(t *testing.T) {
	type test struct { // an individual test
		name   string
		spell  string
		args   RunArgs
		fail   error
		stdout string
		stderr string
	}
	testCases := []test{
		{
			name:   "add",
			spell:  addSpell,
			stdout: "5\n",
		},
		{
			name:   "add twice",
			spell:  addSpell,
			args:   RunArgs{Repeat: 2},
			stdout: "5\n5\n",
		},
		{
			name:   "divide by zero",
			spell:  divideSpell,
			fail:   cliUtil.ErrSpellFailed,
			stderr: "math.divide: +Inf is not a number ()\n",
		},
		{
			name:   "no caster",
			spell:  casterSpell,
			fail:   cliUtil.ErrSpellFailed,
			stderr: "entity.caster: nobody is casting this spell ()\n",
		},
		{
			name:   "caster",
			spell:  casterSpell,
			args:   RunArgs{World: "/world.yaml", Caster: "alice"},
			stdout: "alice\n",
		},
		{
			name:   "polymorph",
			spell:  polymorphSpell,
			args:   RunArgs{World: "/world.yaml", Caster: "alice"},
			stdout: "void\nalice appears as bob\n",
		},
		{
			name:   "not enough mana",
			spell:  polymorphSpell,
			args:   RunArgs{World: "/world.yaml", Caster: "alice", Mana: 100},
			fail:   cliUtil.ErrSpellFailed,
			stderr: "entity.polymorph: needs 480 mana, only 100 left ()\n",
		},
	}

	for index, tc := range testCases { // run all the tests
		t.Run(tc.name, func(t *testing.T) {
			env, stdout, stderr := testEnviron(t)
			writeFile(t, env.fs, "/spell.yaml", tc.spell)
			writeFile(t, env.fs, "/world.yaml", testWorld)

			args := tc.args // copy
			args.Input = "/spell.yaml"
			if args.Mana == 0 {
				args.Mana = 1000
			}
			if args.Repeat == 0 {
				args.Repeat = 1
			}

			err := args.cast(context.Background(), env)
			if tc.fail == nil && err != nil {
				t.Errorf("test #%d: cast failed with: %+v", index, err)
				return
			}
			if tc.fail != nil && !errwrap.Is(err, tc.fail) {
				t.Errorf("test #%d: expected error %v, got: %+v", index, tc.fail, err)
				return
			}
			if s := stdout.String(); s != tc.stdout {
				t.Errorf("test #%d: expected stdout %q, got %q", index, tc.stdout, s)
			}
			if s := stderr.String(); s != tc.stderr {
				t.Errorf("test #%d: expected stderr %q, got %q", index, tc.stderr, s)
			}
		})
	}
}

func TestRunSave0(t *testing.T) {
	env, stdout, _ := testEnviron(t)
	writeFile(t, env.fs, "/spell.yaml", addSpell)

	args := &RunArgs{
		SpellArgs:   cliUtil.SpellArgs{Input: "/spell.yaml"},
		Destructive: true,
		Mana:        1000,
		Repeat:      1,
		Diff:        true,
		Save:        true,
	}
	if err := args.cast(context.Background(), env); err != nil {
		t.Errorf("cast failed with: %+v", err)
		return
	}

	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	if len(lines) != 2 || lines[0] != "5" {
		t.Errorf("unexpected output: %q", stdout.String())
		return
	}
	if diff := lines[1]; !strings.Contains(diff, "[-") || !strings.Contains(diff, "{+") {
		t.Errorf("expected a diff, got: %s", diff)
	}

	node, err := store.ReadFile(env.fs, "/spell.yaml", nil)
	if err != nil {
		t.Errorf("could not read back: %+v", err)
		return
	}
	if s := node.String(); s != "5{}" {
		t.Errorf("expected the collapsed spell to be saved, got: %s", s)
	}
}

func TestRunPrometheus0(t *testing.T) {
	env, stdout, stderr := testEnviron(t)
	writeFile(t, env.fs, "/spell.yaml", addSpell)
	writeFile(t, env.fs, "/divide.yaml", divideSpell)

	args := &RunArgs{
		SpellArgs:        cliUtil.SpellArgs{Input: "/spell.yaml"},
		Mana:             1000,
		Repeat:           2,
		Prometheus:       true,
		PrometheusListen: "127.0.0.1:0",
	}
	if err := args.cast(context.Background(), env); err != nil {
		t.Errorf("cast failed with: %+v", err)
		return
	}
	if s := stdout.String(); s != "5\n5\n" {
		t.Errorf("unexpected output: %q", s)
	}

	args.Input = "/divide.yaml"
	if err := args.cast(context.Background(), env); !errwrap.Is(err, cliUtil.ErrSpellFailed) {
		t.Errorf("expected the spell to fail, got: %+v", err)
	}
	if s := stderr.String(); !strings.HasPrefix(s, "math.divide:") {
		t.Errorf("unexpected errors: %q", s)
	}
}

func TestRunInvalid0(t *testing.T) {
	env, _, _ := testEnviron(t)
	writeFile(t, env.fs, "/spell.yaml", "glyph: {trick: math.nope}\n")

	args := &RunArgs{
		SpellArgs: cliUtil.SpellArgs{Input: "/spell.yaml"},
		Repeat:    1,
	}
	if err := args.cast(context.Background(), env); err == nil {
		t.Errorf("expected an unknown trick to fail")
	}

	args.Input = "/missing.yaml"
	if err := args.cast(context.Background(), env); err == nil {
		t.Errorf("expected a missing file to fail")
	}

	writeFile(t, env.fs, "/spell.yaml", addSpell)
	args.Input = "/spell.yaml"
	args.Caster = "nobody"
	if err := args.cast(context.Background(), env); err == nil {
		t.Errorf("expected a missing caster to fail")
	}
}

func TestFmt0(t *testing.T) {
	env, stdout, _ := testEnviron(t)
	writeFile(t, env.fs, "/spell.yaml", addSpell)

	args := &FmtArgs{SpellArgs: cliUtil.SpellArgs{Input: "/spell.yaml"}}
	if err := args.format(env); err != nil {
		t.Errorf("fmt failed with: %+v", err)
		return
	}
	if s := stdout.String(); s != "math.add{2{}, 3{}}\n" {
		t.Errorf("unexpected output: %q", s)
	}

	stdout.Reset()
	args.Yaml = true
	if err := args.format(env); err != nil {
		t.Errorf("fmt failed with: %+v", err)
		return
	}
	if s := stdout.String(); !strings.Contains(s, "trick: math.add") || !strings.Contains(s, "pattern:") {
		t.Errorf("unexpected yaml: %s", s)
	}

	args.Yaml = false
	args.Write = true
	if err := args.format(env); err != nil {
		t.Errorf("fmt failed with: %+v", err)
		return
	}
	b, err := afero.ReadFile(env.fs, "/spell.yaml")
	if err != nil {
		t.Errorf("could not read back: %+v", err)
		return
	}
	if !strings.Contains(string(b), "pattern:") {
		t.Errorf("expected the patterns to be written, got: %s", b)
	}
}

func TestStrip0(t *testing.T) {
	env, _, _ := testEnviron(t)
	writeFile(t, env.fs, "/spell.yaml", polymorphSpell)

	args := &StripArgs{
		SpellArgs: cliUtil.SpellArgs{Input: "/spell.yaml"},
		Output:    "/stripped.yaml",
	}
	if err := args.strip(env); err != nil {
		t.Errorf("strip failed with: %+v", err)
		return
	}
	node, err := store.ReadFile(env.fs, "/stripped.yaml", nil)
	if err != nil {
		t.Errorf("could not read back: %+v", err)
		return
	}
	if s, expected := node.String(), "entity.polymorph{entity.caster{}, "+types.Zalgo.String()+"{}}"; s != expected {
		t.Errorf("expected the entity to be stripped, got: %s", s)
	}
}

func TestTricks0(t *testing.T) {
	env, stdout, _ := testEnviron(t)

	args := &TricksArgs{Module: "logic"}
	if err := args.list(env); err != nil {
		t.Errorf("tricks failed with: %+v", err)
		return
	}
	expected := []string{"logic.all", "logic.any", "logic.equals", "logic.if_else", "logic.not"}
	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	if len(lines) != len(expected) {
		t.Errorf("unexpected output: %q", stdout.String())
		return
	}
	for i, line := range lines {
		if name := strings.Fields(line)[0]; name != expected[i] {
			t.Errorf("line %d: expected %s, got %s", i, expected[i], name)
		}
	}

	args.Module = "nope"
	if err := args.list(env); err == nil {
		t.Errorf("expected an unknown module to fail")
	}
}

func TestStore0(t *testing.T) {
	env, stdout, _ := testEnviron(t)
	writeFile(t, env.fs, "/spell.yaml", addSpell)

	args := &StoreArgs{Dir: "/spells"}
	add := &cliUtil.StoreAddArgs{Input: "/spell.yaml"}
	add.Name = "adder"
	if err := args.run(env, "add", add); err != nil {
		t.Errorf("add failed with: %+v", err)
		return
	}

	if err := args.run(env, "list", &cliUtil.EmptyArgs{}); err != nil {
		t.Errorf("list failed with: %+v", err)
		return
	}
	if s := stdout.String(); s != "adder\n" {
		t.Errorf("unexpected list: %q", s)
	}

	// identical spells are pointed out
	writeFile(t, env.fs, "/other.yaml", divideSpell)
	for name, input := range map[string]string{"copy": "/spell.yaml", "divider": "/other.yaml"} {
		a := &cliUtil.StoreAddArgs{Input: input}
		a.Name = name
		if err := args.run(env, "add", a); err != nil {
			t.Errorf("add failed with: %+v", err)
			return
		}
	}
	stdout.Reset()
	if err := args.run(env, "list", &cliUtil.EmptyArgs{}); err != nil {
		t.Errorf("list failed with: %+v", err)
		return
	}
	if s, expected := stdout.String(), "adder\ncopy (same as adder)\ndivider\n"; s != expected {
		t.Errorf("expected %q, got %q", expected, s)
	}

	stdout.Reset()
	if err := args.run(env, "show", &cliUtil.StoreNameArgs{Name: "adder"}); err != nil {
		t.Errorf("show failed with: %+v", err)
		return
	}
	if s := stdout.String(); s != "math.add{2{}, 3{}}\n" {
		t.Errorf("unexpected spell: %q", s)
	}

	if err := args.run(env, "delete", &cliUtil.StoreNameArgs{Name: "adder"}); err != nil {
		t.Errorf("delete failed with: %+v", err)
		return
	}
	err := args.run(env, "show", &cliUtil.StoreNameArgs{Name: "adder"})
	if !errwrap.Is(err, store.ErrNotFound) {
		t.Errorf("expected not found, got: %+v", err)
	}
}

func TestCLI0(t *testing.T) {
	data := func(args ...string) *cliUtil.Data {
		return &cliUtil.Data{
			Program: "spell",
			Version: "0.0.1",
			Copying: "copying\n",
			Flags: cliUtil.Flags{
				Logf: t.Logf,
			},
			Args: append([]string{"spell"}, args...),
		}
	}

	if err := CLI(context.Background(), data("tricks", "math")); err != nil {
		t.Errorf("tricks failed with: %+v", err)
	}
	if err := CLI(context.Background(), data("--license")); err != nil {
		t.Errorf("license failed with: %+v", err)
	}
	if err := CLI(context.Background(), data("--nope")); err == nil {
		t.Errorf("expected an unknown flag to fail")
	}

	d := data("tricks")
	d.Copying = ""
	if err := CLI(context.Background(), d); err == nil {
		t.Errorf("expected missing copyrights to fail")
	}
	if err := CLI(context.Background(), nil); err == nil {
		t.Errorf("expected missing data to fail")
	}
}

// syncBuffer is a buffer which can be written and read from different
// goroutines.
type syncBuffer struct {
	mutex sync.Mutex
	buf   bytes.Buffer
}

func (obj *syncBuffer) Write(p []byte) (int, error) {
	obj.mutex.Lock()
	defer obj.mutex.Unlock()
	return obj.buf.Write(p)
}

func (obj *syncBuffer) String() string {
	obj.mutex.Lock()
	defer obj.mutex.Unlock()
	return obj.buf.String()
}

func TestRunWatch0(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "spell.yaml")
	if err := os.WriteFile(p, []byte(addSpell), 0600); err != nil {
		t.Errorf("write failed: %+v", err)
		return
	}

	stdout, stderr := &syncBuffer{}, &syncBuffer{}
	env := &environ{
		fs:     afero.NewOsFs(),
		stdout: stdout,
		stderr: stderr,
		logf:   t.Logf,
	}
	args := &RunArgs{
		SpellArgs: cliUtil.SpellArgs{Input: p},
		Mana:      1000,
		Repeat:    1,
		Watch:     true,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error)
	go func() {
		done <- args.cast(ctx, env)
	}()

	wait := func(expected string) bool {
		for i := 0; i < 100; i++ {
			if stdout.String() == expected {
				return true
			}
			time.Sleep(50 * time.Millisecond)
		}
		t.Errorf("expected %q, got %q", expected, stdout.String())
		return false
	}

	if !wait("5\n") {
		cancel()
		<-done
		return
	}
	time.Sleep(250 * time.Millisecond) // let the watcher start
	// replace it in one step
	tmp := filepath.Join(dir, "spell.tmp")
	if err := os.WriteFile(tmp, []byte(divideSpell), 0600); err != nil {
		t.Errorf("write failed: %+v", err)
	}
	if err := os.Rename(tmp, p); err != nil {
		t.Errorf("rename failed: %+v", err)
	}
	for i := 0; i < 100 && stderr.String() == ""; i++ {
		time.Sleep(50 * time.Millisecond)
	}
	if s := stderr.String(); !strings.HasPrefix(s, "math.divide: +Inf is not a number ()\n") {
		t.Errorf("expected the new spell to fail, got %q", s)
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("watch should end without an error, got: %+v", err)
	}

	if err := (&RunArgs{Watch: true, Save: true, Repeat: 1}).cast(context.Background(), env); err == nil {
		t.Errorf("expected save and watch together to fail")
	}
}
