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

package signal

import "github.com/jetsetilly/otfvdp/hardware/video/specification"

// PixelRenderer implementations display, or otherwise work with, the scan
// lines transmitted by the video hardware.
type PixelRenderer interface {
	// Resize is called when the video mode changes and before any other
	// function. Renderers should make sure that any data structures that
	// depend on the specification are still adequate.
	Resize(spec specification.Spec) error

	// NewFrame is called at the start of every frame
	NewFrame(frameNum int) error

	// SetLine is called with the active pixels of a transmitted scan line.
	// Sync bits are present in the pixel bytes. The slice is only valid for
	// the duration of the call.
	SetLine(y int, pixels []byte) error

	// EndFrame is called after the last active scan line of a frame
	EndFrame() error

	// some renderers may need to conclude and/or dispose of resources gently.
	// for simplicity, the PixelRenderer should be considered unusable after
	// EndRendering() has been called
	EndRendering() error
}
