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

package specification

import (
	"github.com/jetsetilly/otfvdp/curated"
)

// Mode is an entry in the table of numbered video modes.
type Mode struct {
	Number   int
	Modeline string

	// number of colours available to the mode. the pixel format always
	// supports 64 but some modes are documented as having fewer
	Colors int
}

// Modes is the table of video modes that can be selected by number.
var Modes = []Mode{
	{Number: 0, Colors: 64, Modeline: `"640x480@60Hz" 25.175 640 656 752 800 480 490 492 525 -HSync -VSync`},
	{Number: 1, Colors: 64, Modeline: `"800x600@60Hz" 40 800 840 968 1056 600 601 605 628 +HSync +VSync`},
	{Number: 2, Colors: 64, Modeline: `"320x240@60Hz" 12.5875 320 328 376 400 240 245 246 262 -HSync -VSync DoubleScan`},
	{Number: 3, Colors: 64, Modeline: `"512x384@60Hz" 32.5 512 524 592 672 384 385 388 403 -HSync -VSync DoubleScan`},
	{Number: 4, Colors: 64, Modeline: `"1024x768@60Hz" 65 1024 1048 1184 1344 768 771 777 806 -HSync -VSync`},
	{Number: 5, Colors: 64, Modeline: `"640x400@70Hz" 25.175 640 656 752 800 400 412 414 449 -HSync +VSync`},
}

// DefaultMode is the mode selected on startup.
const DefaultMode = 0

// GetMode returns the Spec for the numbered mode.
func GetMode(number int) (Spec, error) {
	for _, m := range Modes {
		if m.Number == number {
			return ParseModeline(m.Modeline)
		}
	}
	return Spec{}, curated.Errorf(UnknownMode, number)
}
