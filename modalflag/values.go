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


package modalflag

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jetsetilly/otfvdp/curated"
	"github.com/jetsetilly/otfvdp/hardware/video/specification"
)

type float32Value float32

func (v *float32Value) Set(s string) error {
	f, err := strconv.ParseFloat(s, 32)
	if err != nil {
		return curated.Errorf("not a number: %s", s)
	}
	*v = float32Value(f)
	return nil
}

func (v *float32Value) String() string {
	return strconv.FormatFloat(float64(*v), 'g', -1, 32)
}

type videoModeValue int

func (v *videoModeValue) Set(s string) error {
	if n, err := strconv.Atoi(s); err == nil {
		if _, err := specification.GetMode(n); err != nil {
			return err
		}
		*v = videoModeValue(n)
		return nil
	}

	for _, m := range specification.Modes {
		spec, err := specification.ParseModeline(m.Modeline)
		if err != nil {
			continue
		}
		if strings.EqualFold(s, fmt.Sprintf("%dx%d", spec.ActiveWidth, spec.ActiveLines)) {
			*v = videoModeValue(m.Number)
			return nil
		}
	}

	return curated.Errorf("no video mode matches %s", s)
}

func (v *videoModeValue) String() string {
	return strconv.Itoa(int(*v))
}
