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


// Package sdl displays the output of the VDP in an SDL window.
//
// The Window type implements the signal.PixelRenderer interface and can be
// fed from any goroutine. All SDL functions are called from Service(),
// SetFeature() and Destroy(), which must only be called from the #mainthread.
package sdl

import (
	"sync"

	"github.com/jetsetilly/otfvdp/curated"
	"github.com/jetsetilly/otfvdp/gui"
	"github.com/jetsetilly/otfvdp/hardware/video/specification"

	"github.com/veandco/go-sdl2/sdl"
)

const pixelDepth = 4

// DefaultScale is the scaling applied to the video mode if no other value is
// requested.
const DefaultScale = 2.0

// Window is an SDL implementation of the signal.PixelRenderer and gui.GUI
// interfaces.
type Window struct {
	// connects the window with the parent process. events are dropped if the
	// channel is full
	events chan gui.Event

	// the frame shared between the renderer goroutine and the main thread
	crit sync.Mutex
	spec specification.Spec

	// pixels is written to by SetLine(). it is copied to frame at the end of
	// every frame. frame is copied to the texture by Service()
	pixels []byte
	frame  []byte

	// the number of the last completed frame. zero if no frame has completed
	// since the last Resize()
	frameNum int

	// the texture needs to be recreated
	resized bool

	// the frame needs to be uploaded to the texture
	dirty bool

	// EndRendering() has been called
	ended bool

	// state below here is only touched on the #mainthread

	// limit presentation to the frame rate of the video mode
	lmtr        *fpsLimiter
	monitorSync bool

	scale float32

	window   *sdl.Window
	renderer *sdl.Renderer
	texture  *sdl.Texture

	width  int32
	height int32
}

// NewWindow is the preferred method of initialisation for the Window type.
// The window is hidden until it is made visible with ReqSetVisibility.
//
// MUST ONLY be called from the #mainthread
func NewWindow(events chan gui.Event) (*Window, error) {
	win := &Window{
		events:      events,
		scale:       DefaultScale,
		monitorSync: true,
	}

	var err error

	err = sdl.Init(sdl.INIT_VIDEO)
	if err != nil {
		return nil, curated.Errorf("sdl: %v", err)
	}

	// window size is set in Service() once the video mode is known
	win.window, err = sdl.CreateWindow("otfvdp",
		int32(sdl.WINDOWPOS_UNDEFINED), int32(sdl.WINDOWPOS_UNDEFINED),
		0, 0,
		uint32(sdl.WINDOW_HIDDEN|sdl.WINDOW_RESIZABLE))
	if err != nil {
		sdl.Quit()
		return nil, curated.Errorf("sdl: %v", err)
	}

	win.renderer, err = sdl.CreateRenderer(win.window, -1, uint32(sdl.RENDERER_ACCELERATED))
	if err != nil {
		win.window.Destroy()
		sdl.Quit()
		return nil, curated.Errorf("sdl: %v", err)
	}

	// mouse movement is of no interest and fills the event queue
	sdl.EventState(sdl.MOUSEMOTION, sdl.IGNORE)
	sdl.StartTextInput()

	return win, nil
}

// Destroy releases all SDL resources. The window cannot be used afterwards.
//
// MUST ONLY be called from the #mainthread
func (win *Window) Destroy() {
	if win.lmtr != nil {
		win.lmtr.stop()
	}
	if win.texture != nil {
		win.texture.Destroy()
	}
	win.renderer.Destroy()
	win.window.Destroy()
	sdl.Quit()
}

// Ended returns true if EndRendering() has been called.
func (win *Window) Ended() bool {
	win.crit.Lock()
	defer win.crit.Unlock()
	return win.ended
}

// setWindowSize resizes the window to the current scale. the renderer's logical
// size keeps the image correctly proportioned if the user resizes the window.
func (win *Window) setWindowSize() error {
	if win.width == 0 || win.height == 0 {
		return nil
	}
	win.window.SetSize(int32(float32(win.width)*win.scale), int32(float32(win.height)*win.scale))
	return win.renderer.SetLogicalSize(win.width, win.height)
}
