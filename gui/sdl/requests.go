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

	"github.com/veandco/go-sdl2/sdl"
)

// SetFeature implements the gui.GUI interface.
//
// MUST ONLY be called from the #mainthread
func (win *Window) SetFeature(request gui.FeatureReq, args ...gui.FeatureReqData) error {
	if len(args) != 1 {
		return curated.Errorf("sdl: %v expects one argument", request)
	}

	var err error

	switch request {
	case gui.ReqSetVisibility:
		show, ok := args[0].(bool)
		if !ok {
			return argumentError(request, args[0])
		}
		if show {
			win.window.Show()
		} else {
			win.window.Hide()
		}

	case gui.ReqSetScale:
		scale, ok := args[0].(float32)
		if !ok || scale <= 0 {
			return argumentError(request, args[0])
		}
		win.scale = scale
		err = win.setWindowSize()

	case gui.ReqFullScreen:
		full, ok := args[0].(bool)
		if !ok {
			return argumentError(request, args[0])
		}
		if full {
			err = win.window.SetFullscreen(uint32(sdl.WINDOW_FULLSCREEN_DESKTOP))
		} else {
			err = win.window.SetFullscreen(0)
		}

	case gui.ReqSetTitle:
		title, ok := args[0].(string)
		if !ok {
			return argumentError(request, args[0])
		}
		win.window.SetTitle(title)

	case gui.ReqMonitorSync:
		sync, ok := args[0].(bool)
		if !ok {
			return argumentError(request, args[0])
		}
		win.monitorSync = sync

	default:
		return curated.Errorf(gui.UnsupportedGuiFeature, request)
	}

	if err != nil {
		return curated.Errorf("sdl: %v", err)
	}

	return nil
}

func argumentError(request gui.FeatureReq, arg gui.FeatureReqData) error {
	return curated.Errorf("sdl: %v: unsuitable argument (%T)", request, arg)
}
