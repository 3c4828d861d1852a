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
	"io"
	"os"
	"strings"

	"github.com/purpleidea/spell/lang/interfaces"
	"github.com/purpleidea/spell/lang/spell"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// valueColors picks the display colour of each kind of value.
var valueColors = map[interfaces.TypeID]color.Attribute{
	interfaces.TypeVoid:    color.FgHiBlack,
	interfaces.TypeBool:    color.FgMagenta,
	interfaces.TypeNumber:  color.FgYellow,
	interfaces.TypeVector:  color.FgYellow,
	interfaces.TypeEntity:  color.FgGreen,
	interfaces.TypeZalgo:   color.FgRed,
	interfaces.TypePattern: color.FgBlue,
	interfaces.TypeTrick:   color.FgCyan,
}

// useColor decides if output to w gets coloured. Terminals get colour unless
// NO_COLOR is set, everything else only gets it when forced.
func useColor(force bool, w io.Writer) bool {
	if force {
		return true
	}
	if _, exists := os.LookupEnv("NO_COLOR"); exists {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// printer renders spells and values as text.
type printer struct {
	color bool
}

func (obj *printer) paint(attr color.Attribute, s string) string {
	c := color.New(attr)
	if obj.color {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c.Sprint(s)
}

// value renders any value. Spell parts are rendered as trees.
func (obj *printer) value(v interfaces.Value) string {
	if v == nil {
		return "nil"
	}
	if node, ok := v.(*spell.Node); ok {
		return obj.node(node)
	}
	attr, exists := valueColors[v.Type()]
	if !exists {
		return v.String()
	}
	return obj.paint(attr, v.String())
}

// node renders a spell the same way as its String method does.
func (obj *printer) node(node *spell.Node) string {
	if node == nil {
		return "nil"
	}
	children := []string{}
	for _, child := range node.Children {
		children = append(children, obj.node(child))
	}
	op := "nil"
	if node.Operator != nil {
		op = obj.value(node.Operator)
	}
	return op + "{" + strings.Join(children, ", ") + "}"
}

// diff shows how the text changed from before to after. Without colour, the
// insertions are shown as {+x+} and the deletions as [-x-].
func (obj *printer) diff(before, after string) string {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(before, after, false)
	diffs = dmp.DiffCleanupSemantic(diffs)
	if obj.color {
		return dmp.DiffPrettyText(diffs)
	}

	var b strings.Builder
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			b.WriteString("{+" + d.Text + "+}")
		case diffmatchpatch.DiffDelete:
			b.WriteString("[-" + d.Text + "-]")
		default:
			b.WriteString(d.Text)
		}
	}
	return b.String()
}
