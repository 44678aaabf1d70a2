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

package easyterm

import (
	"testing"

	"github.com/jetsetilly/otfvdp/test"
)

func TestTranslateKeys(t *testing.T) {
	var pt Terminal

	v, ok := pt.translate('a')
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, string(v), "a")

	v, ok = pt.translate(KeyDelete)
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, string(v), string([]byte{VDUBackspace}))

	// cursor keys are three byte escape sequences
	_, ok = pt.translate(KeyEsc)
	test.ExpectFailure(t, ok)
	_, ok = pt.translate(EscCursor)
	test.ExpectFailure(t, ok)
	v, ok = pt.translate(CursorUp)
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, string(v), string([]byte{VDUUp}))

	// the escape sequence state has been reset
	v, ok = pt.translate('b')
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, string(v), "b")

	v, ok = pt.translate(KeyCarriageReturn)
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, string(v), string([]byte{VDUCarriageReturn, VDUDown}))
}
