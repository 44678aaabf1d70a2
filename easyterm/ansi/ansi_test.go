// This file is part of otfvdp.
//
// otfvdp is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// otfvdp is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with otfvdp.  If not, see <https://www.gnu.org/licenses/>.

package ansi_test

import (
	"testing"

	"github.com/jetsetilly/otfvdp/easyterm/ansi"
	"github.com/jetsetilly/otfvdp/test"
)

func TestPenBuild(t *testing.T) {
	s, err := ansi.PenBuild("red", false)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, s, "\033[31m")

	s, err = ansi.PenBuild("RED", true)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, s, "\033[91m")

	_, err = ansi.PenBuild("puce", false)
	test.ExpectFailure(t, err)

	test.ExpectEquality(t, ansi.DimPens["red"], "\033[31m")
}
