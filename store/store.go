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

// Package store keeps spells on a file system. Spells are stored as yaml, and
// ephemeral values are removed from them before they are written.
package store

import (
	"os"
	"path"
	"sort"
	"strings"

	"github.com/purpleidea/spell/lang/spell"
	"github.com/purpleidea/spell/util"
	"github.com/purpleidea/spell/util/errwrap"

	"github.com/spf13/afero"
)

const (
	// Ext is the file extension of stored spells.
	Ext = ".yaml"

	// ErrNotFound is returned when there's no spell with the name.
	ErrNotFound = util.Error("spell not found")

	// ErrInvalidName is returned for names that can't be used as a file.
	ErrInvalidName = util.Error("invalid spell name")
)

// Store is a directory of spells on a file system.
type Store struct {
	Fs afero.Fs

	// Prefix is the directory that the spells are kept in.
	Prefix string

	Debug bool
	Logf  func(format string, v ...interface{})
}

// path returns the file name of the spell.
func (obj *Store) path(name string) (string, error) {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, "/\\") {
		return "", errwrap.Wrapf(ErrInvalidName, "name `%s`", name)
	}
	return path.Join(obj.Prefix, name+Ext), nil
}

// Save stores a copy of the spell under name, replacing any previous one. The
// ephemeral values are removed from the copy, the spell itself is unchanged.
func (obj *Store) Save(name string, node *spell.Node) error {
	p, err := obj.path(name)
	if err != nil {
		return err
	}
	if err := obj.Fs.MkdirAll(obj.Prefix, 0700); err != nil {
		return errwrap.Wrapf(err, "could not make the spell directory")
	}
	if obj.Debug {
		obj.Logf("save: %s", p)
	}
	return WriteFile(obj.Fs, p, node)
}

// Load returns the spell called name. If lookup is not nil, the tricks in it
// are resolved with it.
func (obj *Store) Load(name string, lookup spell.Lookup) (*spell.Node, error) {
	p, err := obj.path(name)
	if err != nil {
		return nil, err
	}
	if obj.Debug {
		obj.Logf("load: %s", p)
	}
	node, err := ReadFile(obj.Fs, p, lookup)
	if errwrap.Is(err, os.ErrNotExist) {
		return nil, errwrap.Wrapf(ErrNotFound, "name `%s`", name)
	}
	return node, err
}

// List returns the sorted names of all the stored spells.
func (obj *Store) List() ([]string, error) {
	infos, err := afero.ReadDir(obj.Fs, obj.Prefix)
	if os.IsNotExist(err) {
		return []string{}, nil
	}
	if err != nil {
		return nil, errwrap.Wrapf(err, "could not list spells")
	}
	names := []string{}
	for _, info := range infos {
		if info.IsDir() || !strings.HasSuffix(info.Name(), Ext) {
			continue
		}
		names = append(names, strings.TrimSuffix(info.Name(), Ext))
	}
	sort.Strings(names)
	return names, nil
}

// Delete removes the spell called name.
func (obj *Store) Delete(name string) error {
	p, err := obj.path(name)
	if err != nil {
		return err
	}
	if err := obj.Fs.Remove(p); os.IsNotExist(err) {
		return errwrap.Wrapf(ErrNotFound, "name `%s`", name)
	} else if err != nil {
		return errwrap.Wrapf(err, "could not delete spell")
	}
	return nil
}

// WriteFile stores a copy of the spell without its ephemeral values at p.
func WriteFile(fs afero.Fs, p string, node *spell.Node) error {
	clone := node.DeepClone()
	clone.StripEphemerals()
	data, err := spell.Encode(clone)
	if err != nil {
		return errwrap.Wrapf(err, "could not encode spell")
	}
	if err := afero.WriteFile(fs, p, data, 0600); err != nil {
		return errwrap.Wrapf(err, "could not write spell")
	}
	return nil
}

// ReadFile reads the spell at p. If lookup is not nil, the tricks in it are
// resolved with it.
func ReadFile(fs afero.Fs, p string, lookup spell.Lookup) (*spell.Node, error) {
	data, err := afero.ReadFile(fs, p)
	if err != nil {
		return nil, errwrap.Wrapf(err, "could not read spell")
	}
	node, err := spell.Decode(data)
	if err != nil {
		return nil, err
	}
	if lookup == nil {
		return node, nil
	}
	if _, err := node.Resolve(lookup); err != nil {
		return nil, errwrap.Wrapf(err, "could not resolve spell")
	}
	return node, nil
}
