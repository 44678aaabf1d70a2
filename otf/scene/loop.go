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

package scene

import (
	"context"
	"time"

	"github.com/jetsetilly/otfvdp/curated"
	"github.com/jetsetilly/otfvdp/hardware/video/dma"
	"github.com/jetsetilly/otfvdp/hardware/video/signal"
	"github.com/jetsetilly/otfvdp/logger"
)

// the time the run loop sleeps for when there is nothing to do
const idleSleep = 50 * time.Microsecond

// AddRenderer adds a renderer that is sent every painted scan line.
func (m *Manager) AddRenderer(r signal.PixelRenderer) error {
	if err := r.Resize(m.spec); err != nil {
		return err
	}
	m.renderers = append(m.renderers, r)
	return nil
}

// EndRendering tells every renderer that there will be no more frames.
func (m *Manager) EndRendering() {
	for _, r := range m.renderers {
		if err := r.EndRendering(); err != nil {
			logger.Log(logger.Allow, "scene", err)
		}
	}
	m.renderers = nil
}

// SetCommandSource sets the source of commands drained during vertical
// blanking.
func (m *Manager) SetCommandSource(c CommandSource) {
	m.commands = c
}

// Frame returns the number of frames started.
func (m *Manager) Frame() int {
	return m.frame
}

// Underruns returns the number of times the hardware reached a scan line
// before it was painted.
func (m *Manager) Underruns() int {
	return m.underruns
}

// Ring returns the descriptor ring. Returns nil if the run loop has not been
// started.
func (m *Manager) Ring() *dma.Ring {
	return m.ring
}

// send a painted line to the renderers
func (m *Manager) transmit(y int, pixels []byte) {
	for _, r := range m.renderers {
		var err error
		if y == 0 {
			err = r.NewFrame(m.frame)
		}
		if err == nil {
			err = r.SetLine(y, pixels)
		}
		if err == nil && y == m.spec.ActiveLines-1 {
			err = r.EndFrame()
		}
		if err != nil {
			logger.Log(logger.Allow, "renderer", err)
		}
	}
}

// RenderFrame paints every scan line of a frame without reference to the
// video hardware. Useful for headless rendering.
func (m *Manager) RenderFrame() {
	m.refresh()
	m.frame++
	for y := range m.spec.ActiveLines {
		m.PaintLine(y, m.scratch)
		m.transmit(y, m.scratch)
	}
	m.mutated = false
}

// Start builds the descriptor ring with a pool of rotating line buffers,
// paints the first lines of the frame and starts the hardware. Errors are
// fatal.
func (m *Manager) Start(hw dma.Hardware, poolSize int) error {
	ring, err := dma.NewRing(m.spec, poolSize)
	if err != nil {
		return curated.Errorf(Fatal, err)
	}

	m.ring = ring
	m.busy = make([]int64, poolSize)
	for i := range m.busy {
		m.busy[i] = -2
	}
	m.next = 0

	m.refresh()
	m.fillAhead(-1)

	if err := ring.Initialize(hw); err != nil {
		m.ring = nil
		return curated.Errorf(Fatal, err)
	}

	return nil
}

// the number of descriptors for each active line
func (m *Manager) repeat() int64 {
	if m.spec.DoubleScan {
		return 2
	}
	return 1
}

// paint every line that the hardware has finished with, in scan line order.
// the position is the descriptor the hardware is currently consuming.
// returns the number of lines painted
func (m *Manager) fillAhead(p int64) int {
	ringLen := int64(m.ring.Len())
	rep := m.repeat()
	painted := 0

	for {
		d := m.next
		idx := d % ringLen
		desc := m.ring.Descriptor(int(idx))

		if desc.Kind != dma.Active {
			// skip the blanking lines to the start of the next frame
			m.next = d - idx + ringLen
			continue
		}

		if idx%rep != 0 {
			m.next++
			continue
		}

		if p >= d {
			m.underruns++
			logger.Logf(logger.Allow, "scene", "underrun on line %d of frame %d", desc.Line, m.frame)
			m.next = p + 1
			continue
		}

		// the buffer still holds a line the hardware has not finished with
		if p <= m.busy[desc.Buffer] {
			return painted
		}

		if desc.Line == 0 {
			m.frame++
		}

		pixels := m.ring.ActivePixels(desc.Line)
		m.PaintLine(desc.Line, pixels)
		m.transmit(desc.Line, pixels)

		m.busy[desc.Buffer] = d + rep - 1
		m.next = d + rep
		painted++
	}
}

// repaint the lines that have been painted ahead of the hardware but not yet
// reached by it, so that the next frame shows every mutation
func (m *Manager) repaintAhead(p int64) {
	ringLen := int64(m.ring.Len())
	rep := m.repeat()

	for d := max(p+1, m.next-int64(m.ring.PoolSize())*rep); d < m.next; d++ {
		idx := d % ringLen
		desc := m.ring.Descriptor(int(idx))
		if desc.Kind != dma.Active || idx%rep != 0 {
			continue
		}
		pixels := m.ring.ActivePixels(desc.Line)
		m.PaintLine(desc.Line, pixels)
		for _, r := range m.renderers {
			if err := r.SetLine(desc.Line, pixels); err != nil {
				logger.Log(logger.Allow, "renderer", err)
			}
		}
	}
}

// Step is one iteration of the run loop. Lines the hardware has finished
// with are repainted. If the hardware is in vertical blanking the pending
// commands are drained and paint routines rebuilt. Returns the number of
// lines painted.
func (m *Manager) Step() (int, error) {
	if m.ring == nil {
		return 0, curated.Errorf(Fatal, "run loop not started")
	}

	p := m.ring.Position()
	painted := m.fillAhead(p)

	if m.ring.Descriptor(m.ring.CurrentDescriptor()).Kind != dma.Active {
		if m.commands != nil {
			m.commands.Drain(m.DrainBudget)
		}
		if m.mutated {
			m.refresh()
			m.repaintAhead(m.ring.Position())
			m.mutated = false
		}
	}

	return painted, nil
}

// Run calls Step() until the context is cancelled or a fatal error occurs.
func (m *Manager) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		n, err := m.Step()
		if err != nil {
			return err
		}
		if n == 0 {
			time.Sleep(idleSleep)
		}
	}
}
