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

// Package curated provides errors that are identified by the pattern they
// were created with rather than by a sentinel value or a type.
//
// Each package that can fail in an expected way exports its patterns as
// string constants. For example, the scene package declares
//
//	UnknownPrimitive = "scene: no primitive with id %d"
//
// and returns curated.Errorf(UnknownPrimitive, id). The caller tests the
// error with Is():
//
//	if curated.Is(err, scene.UnknownPrimitive) {
//		// the command referred to a primitive that was never created
//	}
//
// Is() only matches the outermost pattern. Has() searches the whole chain, so
// a scene error that the command decoder has wrapped in its own Failed
// pattern can still be recognised:
//
//	curated.Has(err, scene.UnknownPrimitive)
//
// IsAny() reports whether an error was created by Errorf() at all, which
// separates expected errors from unexpected ones.
//
// Error() normalises the message by removing adjacent duplicate parts, where
// parts are separated by ": ". Wrapping an error in a pattern that repeats
// the prefix therefore does not repeat the prefix in the message:
//
//	e := curated.Errorf("scene: %v", curated.Errorf("scene: bad size"))
//	fmt.Println(e) // scene: bad size
package curated
