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

// Package dma models the descriptor ring that feeds the video signal
// generator and the pool of scan-line buffers the descriptors point at.
//
// The ring has one descriptor for every scan line of the frame. Descriptors
// for active picture lines point into a small pool of rotating line buffers,
// line n using buffer n % poolSize. Descriptors for the front porch, the
// vertical sync and the back porch point at one singleton buffer each. The
// hardware consumes the ring continuously and independently of the software.
// The only contract for the software is to make sure an active line buffer
// contains the correct pixels before the hardware reaches it again.
package dma

import (
	"fmt"

	"github.com/jetsetilly/otfvdp/curated"
	"github.com/jetsetilly/otfvdp/hardware/video/specification"
)

// Sentinal error patterns.
const (
	SetupError = "dma: %v"
)

// MinPoolSize is the smallest number of rotating buffers that allows the
// software to write one buffer while the hardware reads another.
const MinPoolSize = 2

// Kind is the part of the frame a descriptor belongs to.
type Kind int

// List of valid Kind values.
const (
	Active Kind = iota
	FrontPorch
	VSync
	BackPorch
)

func (k Kind) String() string {
	switch k {
	case Active:
		return "active"
	case FrontPorch:
		return "front porch"
	case VSync:
		return "vsync"
	case BackPorch:
		return "back porch"
	}
	return "unknown"
}

// Descriptor points the hardware at one buffer for one scan line.
type Descriptor struct {
	Kind Kind

	// the logical scan line for active descriptors. -1 for other kinds
	Line int

	// index of the buffer used by the descriptor
	Buffer int
}

func (d Descriptor) String() string {
	if d.Kind == Active {
		return fmt.Sprintf("%s line %d (buffer %d)", d.Kind, d.Line, d.Buffer)
	}
	return fmt.Sprintf("%s (buffer %d)", d.Kind, d.Buffer)
}

// Ring is the circular chain of descriptors along with the buffers they
// point at.
type Ring struct {
	spec     specification.Spec
	poolSize int

	descriptors []Descriptor
	buffers     [][]byte

	// index of the singleton buffers in the buffers slice
	frontPorch int
	vsync      int
	backPorch  int

	hw Hardware
}

// NewRing is the preferred method of initialisation for the Ring type. The
// poolSize argument is the number of rotating active line buffers.
func NewRing(spec specification.Spec, poolSize int) (*Ring, error) {
	if poolSize < MinPoolSize {
		return nil, curated.Errorf(SetupError, fmt.Sprintf("pool size of %d is too small", poolSize))
	}
	if poolSize > spec.ActiveLines {
		return nil, curated.Errorf(SetupError, fmt.Sprintf("pool size of %d is larger than the number of active lines", poolSize))
	}
	if spec.HTotal <= 0 || spec.VTotal <= 0 {
		return nil, curated.Errorf(SetupError, "specification has no timings")
	}

	r := &Ring{
		spec:     spec,
		poolSize: poolSize,
	}

	// active buffers followed by the three singleton buffers
	r.buffers = make([][]byte, poolSize+3)
	for i := range poolSize {
		r.buffers[i] = r.newLine(spec.SyncsOff, spec.HSyncOn)
	}
	r.frontPorch = poolSize
	r.buffers[r.frontPorch] = r.newLine(spec.SyncsOff, spec.HSyncOn)
	r.vsync = poolSize + 1
	r.buffers[r.vsync] = r.newLine(spec.VSyncOn, spec.BothSyncsOn)
	r.backPorch = poolSize + 2
	r.buffers[r.backPorch] = r.newLine(spec.SyncsOff, spec.HSyncOn)

	repeat := 1
	if spec.DoubleScan {
		repeat = 2
	}

	r.descriptors = make([]Descriptor, 0, spec.HardwareLines())
	add := func(d Descriptor) {
		for range repeat {
			r.descriptors = append(r.descriptors, d)
		}
	}

	for l := range spec.ActiveLines {
		add(Descriptor{Kind: Active, Line: l, Buffer: l % poolSize})
	}
	for range spec.VFrontPorch {
		add(Descriptor{Kind: FrontPorch, Line: -1, Buffer: r.frontPorch})
	}
	for range spec.VSync {
		add(Descriptor{Kind: VSync, Line: -1, Buffer: r.vsync})
	}
	for range spec.VBackPorch {
		add(Descriptor{Kind: BackPorch, Line: -1, Buffer: r.backPorch})
	}

	return r, nil
}

// create a new line buffer. the active part of the line and the horizontal
// porches use the blank value and the horizontal sync part uses the sync
// value
func (r *Ring) newLine(blank byte, sync byte) []byte {
	b := make([]byte, r.spec.HTotal)
	for i := range b {
		b[i] = blank
	}
	s := r.spec.ActiveWidth + r.spec.HFrontPorch
	for i := s; i < s+r.spec.HSync; i++ {
		b[i] = sync
	}
	return b
}

// Initialize starts the hardware transfer of the ring. It is an error to call
// Initialize() more than once or with a nil Hardware.
func (r *Ring) Initialize(hw Hardware) error {
	if hw == nil {
		return curated.Errorf(SetupError, "no hardware")
	}
	if r.hw != nil {
		return curated.Errorf(SetupError, "transfer already started")
	}
	if err := hw.Start(len(r.descriptors)); err != nil {
		return curated.Errorf(SetupError, err)
	}
	r.hw = hw
	return nil
}

// Spec returns the specification the ring was built for.
func (r *Ring) Spec() specification.Spec {
	return r.spec
}

// Len returns the number of descriptors in the ring.
func (r *Ring) Len() int {
	return len(r.descriptors)
}

// PoolSize returns the number of rotating active line buffers.
func (r *Ring) PoolSize() int {
	return r.poolSize
}

// Descriptor returns the numbered descriptor. The number is taken modulo the
// length of the ring.
func (r *Ring) Descriptor(i int) Descriptor {
	return r.descriptors[i%len(r.descriptors)]
}

// Buffer returns the entire scan line for the numbered buffer, including the
// horizontal blanking.
func (r *Ring) Buffer(i int) []byte {
	return r.buffers[i]
}

// ActivePixels returns the active part of the buffer used for the logical
// scan line.
func (r *Ring) ActivePixels(line int) []byte {
	return r.buffers[line%r.poolSize][:r.spec.ActiveWidth]
}

// Position returns the absolute number of descriptors consumed by the
// hardware since the transfer was started. Returns -1 if the transfer has not
// been started.
func (r *Ring) Position() int64 {
	if r.hw == nil {
		return -1
	}
	return r.hw.Position()
}

// CurrentDescriptor returns the index of the descriptor currently being
// consumed by the hardware. Returns -1 if the transfer has not been started.
func (r *Ring) CurrentDescriptor() int {
	p := r.Position()
	if p < 0 {
		return -1
	}
	return int(p % int64(len(r.descriptors)))
}

// LineOfDescriptor returns the logical active scan line for the descriptor,
// or -1 if the descriptor is not for an active line.
func (r *Ring) LineOfDescriptor(i int) int {
	return r.Descriptor(i).Line
}
