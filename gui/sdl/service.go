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
	"github.com/jetsetilly/otfvdp/curated"
	"github.com/jetsetilly/otfvdp/gui"
	"github.com/jetsetilly/otfvdp/logger"

	"github.com/veandco/go-sdl2/sdl"
)

// Service implements the gui.GUI interface.
//
// MUST ONLY be called from the #mainthread
func (win *Window) Service() error {
	// loop until there are no more events to retrieve. events are not
	// truncated because we may miss important user input
	for ev := sdl.PollEvent(); ev != nil; ev = sdl.PollEvent() {
		switch ev := ev.(type) {
		case *sdl.QuitEvent:
			win.send(gui.EventWindowClose{})

		case *sdl.KeyboardEvent:
			if ev.Repeat != 0 {
				break
			}
			win.send(gui.EventKeyboard{
				Key:  sdl.GetKeyName(ev.Keysym.Sym),
				Mod:  keyMod(sdl.GetModState()),
				Down: ev.Type == sdl.KEYDOWN,
			})

		case *sdl.TextInputEvent:
			win.send(gui.EventText{Text: ev.GetText()})
		}
	}

	if err := win.present(); err != nil {
		return err
	}

	// wait for frame limiter
	if win.monitorSync && win.lmtr != nil {
		win.lmtr.wait()
	}

	return nil
}

func (win *Window) send(ev gui.Event) {
	if win.events == nil {
		return
	}
	select {
	case win.events <- ev:
	default:
		logger.Logf(logger.Allow, "sdl", "event channel full: dropped %T", ev)
	}
}

func keyMod(mod sdl.Keymod) gui.KeyMod {
	if mod&sdl.KMOD_ALT != 0 {
		return gui.KeyModAlt
	}
	if mod&sdl.KMOD_SHIFT != 0 {
		return gui.KeyModShift
	}
	if mod&sdl.KMOD_CTRL != 0 {
		return gui.KeyModCtrl
	}
	return gui.KeyModNone
}

// present copies the most recent frame to the texture and shows it.
func (win *Window) present() error {
	win.crit.Lock()
	defer win.crit.Unlock()

	if win.resized {
		win.resized = false

		if win.texture != nil {
			win.texture.Destroy()
			win.texture = nil
		}

		win.width = int32(win.spec.ActiveWidth)
		win.height = int32(win.spec.ActiveLines)

		// texture is the same size as the video mode. scaling is applied
		// by the renderer in order to fit it in the window
		var err error
		win.texture, err = win.renderer.CreateTexture(uint32(sdl.PIXELFORMAT_ABGR8888),
			int(sdl.TEXTUREACCESS_STREAMING),
			win.width, win.height)
		if err != nil {
			return curated.Errorf("sdl: %v", err)
		}

		if err := win.setWindowSize(); err != nil {
			return curated.Errorf("sdl: %v", err)
		}

		if win.lmtr != nil {
			win.lmtr.stop()
		}
		win.lmtr = newFPSLimiter(win.spec.FramesPerSecond)
	}

	if win.texture == nil {
		return nil
	}

	if win.dirty {
		win.dirty = false

		pixels, pitch, err := win.texture.Lock(nil)
		if err != nil {
			return curated.Errorf("sdl: %v", err)
		}
		row := int(win.width) * pixelDepth
		for y := range int(win.height) {
			copy(pixels[y*pitch:y*pitch+row], win.frame[y*row:(y+1)*row])
		}
		win.texture.Unlock()
	}

	if err := win.renderer.Copy(win.texture, nil, nil); err != nil {
		return curated.Errorf("sdl: %v", err)
	}
	win.renderer.Present()

	return nil
}
