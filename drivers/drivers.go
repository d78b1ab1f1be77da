/*
	Copyright 2026 the octavo authors
	This file is part of octavo.
	octavo is free software: you can redistribute it and/or modify
	it under the terms of the GNU General Public License as published by
	the Free Software Foundation, either version 3 of the License, or
	(at your option) any later version.
	octavo is distributed in the hope that it will be useful,
	but WITHOUT ANY WARRANTY; without even the implied warranty of
	MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
	GNU General Public License for more details.
	You should have received a copy of the GNU General Public License
	along with octavo. If not, see <http://www.gnu.org/licenses/>.
*/

// Package drivers contains the display/input/sound frontends for octavo.
// Importing this package loads and registers all of them. If you only need
// one (which is usually the case), import the specific driver package.
// To implement your own drivers, see the Driver interface in package octavo.
package drivers

import (
	_ "github.com/retroox/octavo/drivers/ebiten"
	_ "github.com/retroox/octavo/drivers/sdl"
	_ "github.com/retroox/octavo/drivers/termloop"
)
