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

package dma

import (
	"fmt"
	"sync/atomic"
	"time"
)

// Hardware is the part of the video hardware that consumes the descriptor
// ring. The software polls the hardware for its progress. There is no
// interrupt or callback.
type Hardware interface {
	// Start the transfer of a ring with the given number of descriptors
	Start(ringLen int) error

	// Position returns the absolute number of descriptors consumed since
	// the transfer was started. The descriptor currently being consumed is
	// Position() modulo the length of the ring
	Position() int64
}

// SteppedHardware is an implementation of Hardware that only advances when
// told to. Useful for testing and for rendering without a real time display.
type SteppedHardware struct {
	ringLen  int
	position atomic.Int64
}

// Start implements the Hardware interface.
func (hw *SteppedHardware) Start(ringLen int) error {
	if ringLen <= 0 {
		return fmt.Errorf("ring is empty")
	}
	hw.ringLen = ringLen
	hw.position.Store(0)
	return nil
}

// Position implements the Hardware interface.
func (hw *SteppedHardware) Position() int64 {
	return hw.position.Load()
}

// Step advances the hardware by the number of descriptors.
func (hw *SteppedHardware) Step(n int) {
	hw.position.Add(int64(n))
}

// StepFrame advances the hardware to the start of the next frame.
func (hw *SteppedHardware) StepFrame() {
	p := hw.position.Load()
	hw.position.Store(p + int64(hw.ringLen) - p%int64(hw.ringLen))
}

// ClockedHardware is an implementation of Hardware that derives its position
// from the time elapsed since the transfer was started.
type ClockedHardware struct {
	// the time taken to transmit one scan line
	LineDuration time.Duration

	// the function used to get the current time. defaults to time.Now
	Now func() time.Time

	start time.Time
}

// NewClockedHardware creates a ClockedHardware for a pixel clock (in Hz) and
// a scan line length (in pixels).
func NewClockedHardware(pixelClock float64, lineLength int) *ClockedHardware {
	return &ClockedHardware{
		LineDuration: time.Duration(float64(lineLength) / pixelClock * float64(time.Second)),
		Now:          time.Now,
	}
}

// Start implements the Hardware interface.
func (hw *ClockedHardware) Start(ringLen int) error {
	if ringLen <= 0 {
		return fmt.Errorf("ring is empty")
	}
	if hw.LineDuration <= 0 {
		return fmt.Errorf("line duration must be positive")
	}
	if hw.Now == nil {
		hw.Now = time.Now
	}
	hw.start = hw.Now()
	return nil
}

// Position implements the Hardware interface.
func (hw *ClockedHardware) Position() int64 {
	return int64(hw.Now().Sub(hw.start) / hw.LineDuration)
}
