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

package test_test

import (
	"testing"

	"github.com/jetsetilly/otfvdp/test"
)

func TestRingWriter(t *testing.T) {
	_, err := test.NewRingWriter(0)
	test.ExpectFailure(t, err)

	r, err := test.NewRingWriter(8)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, r.String(), "")

	n, err := r.Write([]byte("abcde"))
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, n, 5)
	test.ExpectEquality(t, r.String(), "abcde")

	// filling the ring exactly
	_, _ = r.Write([]byte("fgh"))
	test.ExpectEquality(t, r.String(), "abcdefgh")

	// older bytes are dropped
	_, _ = r.Write([]byte("ij"))
	test.ExpectEquality(t, r.String(), "cdefghij")

	// a write longer than the ring keeps only its tail
	n, err = r.Write([]byte("0123456789AB"))
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, n, 12)
	test.ExpectEquality(t, r.String(), "456789AB")

	r.Reset()
	test.ExpectEquality(t, r.String(), "")
	_, _ = r.Write([]byte("xyz"))
	test.ExpectEquality(t, r.String(), "xyz")
}

func TestCappedWriter(t *testing.T) {
	_, err := test.NewCappedWriter(-1)
	test.ExpectFailure(t, err)

	c, err := test.NewCappedWriter(6)
	test.DemandSuccess(t, err)

	n, err := c.Write([]byte("abcd"))
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, n, 4)

	// the short write is reported
	n, err = c.Write([]byte("efgh"))
	test.ExpectEquality(t, err, test.ErrCapped)
	test.ExpectEquality(t, n, 2)
	test.ExpectEquality(t, c.String(), "abcdef")

	n, err = c.Write([]byte("i"))
	test.ExpectEquality(t, err, test.ErrCapped)
	test.ExpectEquality(t, n, 0)

	c.Reset()
	_, err = c.Write([]byte("i"))
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, c.String(), "i")
}
