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

package test

import (
	"fmt"
)

// RingWriter is an io.Writer that keeps only the most recent bytes written
// to it. Useful for checking the tail of a long stream of output.
type RingWriter struct {
	buffer []byte
	start  int
	full   bool
}

// NewRingWriter returns a RingWriter that remembers size bytes.
func NewRingWriter(size int) (*RingWriter, error) {
	if size <= 0 {
		return nil, fmt.Errorf("ring writer: invalid size (%d)", size)
	}
	return &RingWriter{
		buffer: make([]byte, 0, size),
	}, nil
}

// Write implements the io.Writer interface. Writing never fails.
func (r *RingWriter) Write(p []byte) (int, error) {
	n := len(p)
	size := cap(r.buffer)

	// only the tail of p can survive
	if len(p) > size {
		p = p[len(p)-size:]
	}

	for _, b := range p {
		if !r.full {
			r.buffer = append(r.buffer, b)
			r.full = len(r.buffer) == size
			continue
		}
		r.buffer[r.start] = b
		r.start = (r.start + 1) % size
	}

	return n, nil
}

// Bytes returns a copy of the remembered bytes, oldest first.
func (r *RingWriter) Bytes() []byte {
	b := make([]byte, 0, len(r.buffer))
	b = append(b, r.buffer[r.start:]...)
	return append(b, r.buffer[:r.start]...)
}

func (r *RingWriter) String() string {
	return string(r.Bytes())
}

// Reset forgets everything written so far.
func (r *RingWriter) Reset() {
	r.buffer = r.buffer[:0]
	r.start = 0
	r.full = false
}
