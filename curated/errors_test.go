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

package curated_test

import (
	"fmt"
	"testing"

	"github.com/jetsetilly/otfvdp/curated"
	"github.com/jetsetilly/otfvdp/test"
)

const testError = "test error: %s"
const testErrorB = "test error B: %s"

func TestDuplicateErrors(t *testing.T) {
	e := curated.Errorf(testError, "foo")
	test.ExpectEquality(t, e.Error(), "test error: foo")

	// packing errors of the same type next to each other causes
	// one of them to be dropped
	f := curated.Errorf(testError, e)
	test.ExpectEquality(t, f.Error(), "test error: foo")
}

func TestIs(t *testing.T) {
	e := curated.Errorf(testError, "foo")
	test.ExpectSuccess(t, curated.Is(e, testError))

	// Has() should fail because we haven't included testErrorB anywhere in the error
	test.ExpectFailure(t, curated.Has(e, testErrorB))

	// packing errors of the same type next to each other causes
	// one of them to be dropped
	f := curated.Errorf(testErrorB, e)
	test.ExpectFailure(t, curated.Is(f, testError))
	test.ExpectSuccess(t, curated.Is(f, testErrorB))
	test.ExpectSuccess(t, curated.Has(f, testError))
	test.ExpectSuccess(t, curated.Has(f, testErrorB))
}

func TestPlainErrors(t *testing.T) {
	e := fmt.Errorf("plain error")
	test.ExpectFailure(t, curated.IsAny(e))
	test.ExpectFailure(t, curated.Is(e, "plain error"))
	test.ExpectFailure(t, curated.Has(e, "plain error"))

	var n error
	test.ExpectFailure(t, curated.IsAny(n))
}

func TestWrappedPattern(t *testing.T) {
	const unknown = "scene: no primitive with id %d"
	const failed = "command: %s: %v"

	err := curated.Errorf(failed, "move", curated.Errorf(unknown, 7))
	test.ExpectFailure(t, curated.Is(err, unknown))
	test.ExpectSuccess(t, curated.Has(err, unknown))
	test.ExpectSuccess(t, curated.Is(err, failed))
	test.ExpectSuccess(t, curated.IsAny(err))

	// adjacent duplicate parts are removed
	err = curated.Errorf("scene: %v", curated.Errorf("scene: bad size"))
	test.ExpectEquality(t, err.Error(), "scene: bad size")
}
