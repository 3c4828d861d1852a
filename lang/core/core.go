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

// Package core imports all of the packages with the built-in tricks, so that
// they get registered.
package core

import (
	// import so the tricks register
	_ "github.com/purpleidea/spell/lang/core/basic"
	_ "github.com/purpleidea/spell/lang/core/entity"
	_ "github.com/purpleidea/spell/lang/core/logic"
	_ "github.com/purpleidea/spell/lang/core/math"
)
