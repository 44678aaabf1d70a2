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


package sdl

import (
	"github.com/jetsetilly/otfvdp/hardware/video/specification"
)

// Resize implements the signal.PixelRenderer interface.
func (win *Window) Resize(spec specification.Spec) error {
	win.crit.Lock()
	defer win.crit.Unlock()

	win.spec = spec
	win.pixels = make([]byte, spec.ActiveWidth*spec.ActiveLines*pixelDepth)
	win.frame = make([]byte, len(win.pixels))

	// preset alpha channel. we never change the value of this channel
	for i := pixelDepth - 1; i < len(win.pixels); i += pixelDepth {
		win.pixels[i] = 255
		win.frame[i] = 255
	}

	win.frameNum = 0
	win.resized = true
	win.dirty = true

	return nil
}

// NewFrame implements the signal.PixelRenderer interface.
func (win *Window) NewFrame(frameNum int) error {
	return nil
}

// SetLine implements the signal.PixelRenderer interface.
func (win *Window) SetLine(y int, pixels []byte) error {
	win.crit.Lock()
	defer win.crit.Unlock()

	if y < 0 || y >= win.spec.ActiveLines {
		return nil
	}

	i := y * win.spec.ActiveWidth * pixelDepth
	for _, p := range pixels[:min(len(pixels), win.spec.ActiveWidth)] {
		c := specification.GetColor(p)
		win.pixels[i] = c.R
		win.pixels[i+1] = c.G
		win.pixels[i+2] = c.B
		i += pixelDepth
	}

	return nil
}

// EndFrame implements the signal.PixelRenderer interface.
func (win *Window) EndFrame() error {
	win.crit.Lock()
	defer win.crit.Unlock()

	copy(win.frame, win.pixels)
	win.frameNum++
	win.dirty = true

	return nil
}

// EndRendering implements the signal.PixelRenderer interface.
func (win *Window) EndRendering() error {
	win.crit.Lock()
	defer win.crit.Unlock()
	win.ended = true
	return nil
}

// FrameNum returns the number of frames completed since the last change of
// video mode.
func (win *Window) FrameNum() int {
	win.crit.Lock()
	defer win.crit.Unlock()
	return win.frameNum
}
