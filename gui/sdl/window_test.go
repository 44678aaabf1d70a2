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
	"testing"
	"time"

	"github.com/jetsetilly/otfvdp/gui"
	"github.com/jetsetilly/otfvdp/hardware/video/specification"
	"github.com/jetsetilly/otfvdp/test"

	"github.com/veandco/go-sdl2/sdl"
)

// the renderer half of the Window does not touch SDL and can be tested
// without a display
func TestRendererFrames(t *testing.T) {
	spec, err := specification.GetMode(specification.DefaultMode)
	test.DemandSuccess(t, err)

	var win Window
	test.DemandSuccess(t, win.Resize(spec))
	test.ExpectEquality(t, len(win.frame), spec.ActiveWidth*spec.ActiveLines*pixelDepth)
	test.ExpectEquality(t, win.resized, true)
	test.ExpectEquality(t, win.frame[3], byte(255))

	line := make([]byte, spec.ActiveWidth)
	line[0] = 0x03        // red
	line[1] = 0x0c | 0x80 // green with vsync bit
	line[2] = 0x30        // blue
	test.ExpectSuccess(t, win.NewFrame(0))
	test.ExpectSuccess(t, win.SetLine(1, line))

	// lines outside of the active area are ignored
	test.ExpectSuccess(t, win.SetLine(-1, line))
	test.ExpectSuccess(t, win.SetLine(spec.ActiveLines, line))

	// nothing reaches the frame until the end of the frame
	row := spec.ActiveWidth * pixelDepth
	test.ExpectEquality(t, win.frame[row], byte(0))
	win.dirty = false
	test.ExpectSuccess(t, win.EndFrame())
	test.ExpectEquality(t, win.dirty, true)
	test.ExpectEquality(t, win.FrameNum(), 1)

	px := func(x int) [4]byte {
		i := row + x*pixelDepth
		return [4]byte(win.frame[i : i+4])
	}
	test.ExpectEquality(t, px(0), [4]byte{0xff, 0, 0, 0xff})
	test.ExpectEquality(t, px(1), [4]byte{0, 0xff, 0, 0xff})
	test.ExpectEquality(t, px(2), [4]byte{0, 0, 0xff, 0xff})
	test.ExpectEquality(t, px(3), [4]byte{0, 0, 0, 0xff})

	// a new mode restarts the frame count
	spec, err = specification.GetMode(2)
	test.DemandSuccess(t, err)
	test.DemandSuccess(t, win.Resize(spec))
	test.ExpectEquality(t, win.FrameNum(), 0)
	test.ExpectEquality(t, len(win.frame), spec.ActiveWidth*spec.ActiveLines*pixelDepth)

	test.ExpectEquality(t, win.Ended(), false)
	test.ExpectSuccess(t, win.EndRendering())
	test.ExpectEquality(t, win.Ended(), true)
}

func TestKeyMod(t *testing.T) {
	test.ExpectEquality(t, keyMod(sdl.KMOD_NONE), gui.KeyModNone)
	test.ExpectEquality(t, keyMod(sdl.KMOD_LSHIFT), gui.KeyModShift)
	test.ExpectEquality(t, keyMod(sdl.KMOD_RCTRL), gui.KeyModCtrl)
	test.ExpectEquality(t, keyMod(sdl.KMOD_LALT|sdl.KMOD_LSHIFT), gui.KeyModAlt)
}

func TestEventsDropped(t *testing.T) {
	win := Window{events: make(chan gui.Event, 1)}
	win.send(gui.EventWindowClose{})
	win.send(gui.EventText{Text: "a"})
	test.ExpectEquality(t, len(win.events), 1)
	_, ok := (<-win.events).(gui.EventWindowClose)
	test.ExpectSuccess(t, ok)

	// no channel is not an error
	var quiet Window
	quiet.send(gui.EventWindowClose{})
}

func TestLimiter(t *testing.T) {
	lim := newFPSLimiter(200)
	defer lim.stop()
	test.ExpectEquality(t, lim.secondsPerFrame, 5*time.Millisecond)

	start := time.Now()
	for range 10 {
		lim.wait()
	}
	test.ExpectSuccess(t, time.Since(start) >= 40*time.Millisecond)

	// an unusable rate falls back to a sensible one
	def := newFPSLimiter(0)
	def.stop()
	test.ExpectEquality(t, def.secondsPerFrame, time.Second/60)
}
