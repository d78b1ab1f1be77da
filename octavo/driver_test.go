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

package octavo

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestRegisterDriver(t *testing.T) {
	assert.NoError(t, RegisterDriver("register-test", &NullDriver{}))
	defer func() {
		assert.NoError(t, UnregisterDriver("register-test"))
	}()

	// names are unique
	assert.Error(t, RegisterDriver("register-test", &NullDriver{}))

	m, err := New("register-test", nil)
	assert.NoError(t, err)
	assert.Equal(t, "register-test", m.Driver())
}

func TestUnregisterUnknownDriver(t *testing.T) {
	assert.Error(t, UnregisterDriver("no such driver"))
}

func TestNullDriverData(t *testing.T) {
	m := newTestMachine(t)

	assert.Nil(t, m.GetDriverData("anything"))
	assert.Error(t, m.SetDriverData("anything", 42))
}
