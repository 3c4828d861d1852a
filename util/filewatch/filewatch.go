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

// Package filewatch provides change events for a single file via fsnotify.
package filewatch

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/purpleidea/spell/util/errwrap"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/time/rate"
)

// FileWatcher is the struct for the file watcher. Run Init() on it.
type FileWatcher struct {
	// Path is the file that we're watching.
	Path string

	// Limit is the max rate of events that are passed on. Changes that
	// happen faster than this get merged into one event. Zero means that
	// there is no limit.
	Limit rate.Limit

	Debug bool
	Logf  func(format string, v ...interface{})

	safename string
	watcher  *fsnotify.Watcher
	limiter  *rate.Limiter
	events   chan error // nil for a change, or an error
	wg       sync.WaitGroup
	exit     chan struct{}
}

// Init starts the file watcher.
func (obj *FileWatcher) Init() error {
	if obj.Path == "" {
		return fmt.Errorf("filewatch: empty path")
	}
	if obj.Logf == nil {
		return fmt.Errorf("filewatch: logf must not be nil")
	}
	obj.safename = filepath.Clean(obj.Path)
	obj.events = make(chan error)
	obj.exit = make(chan struct{})

	limit := obj.Limit
	if limit == 0 {
		limit = rate.Inf
	}
	obj.limiter = rate.NewLimiter(limit, 1)

	var err error
	obj.watcher, err = fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	// editors often replace the file by renaming over it, which only
	// shows up as an event in the directory
	if err := obj.watcher.Add(filepath.Dir(obj.safename)); err != nil {
		obj.watcher.Close()
		return errwrap.Wrapf(err, "filewatch: can't watch %s", obj.safename)
	}

	obj.wg.Add(1)
	go func() {
		defer obj.wg.Done()
		obj.watch()
	}()
	return nil
}

// watch is the main loop. It returns when the watcher is closed.
func (obj *FileWatcher) watch() {
	var pending <-chan time.Time // nil while no event is waiting to be sent
	for {
		select {
		case event, ok := <-obj.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != obj.safename {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if obj.Debug {
				obj.Logf("filewatch: event: %s", event)
			}
			if pending != nil {
				continue // merged with the one that is already waiting
			}
			r := obj.limiter.Reserve() // one event
			pending = time.After(r.Delay())

		case <-pending:
			pending = nil
			select {
			case obj.events <- nil:
			case <-obj.exit:
				return
			}

		case err, ok := <-obj.watcher.Errors:
			if !ok {
				return
			}
			select {
			case obj.events <- errwrap.Wrapf(err, "filewatch: watcher error"):
			case <-obj.exit:
				return
			}

		case <-obj.exit:
			return
		}
	}
}

// Events returns a channel which receives nil each time the file changed, or
// an error if the watcher had one. It's closed by Close.
func (obj *FileWatcher) Events() <-chan error { return obj.events }

// Close shuts down the watcher.
func (obj *FileWatcher) Close() error {
	close(obj.exit) // send exit signal
	obj.wg.Wait()
	err := obj.watcher.Close()
	close(obj.events)
	return err
}
