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
	"errors"
	"fmt"
	"io"
)

// ErrCapped is returned by CappedWriter when a write does not fit.
var ErrCapped = errors.New("capped writer: full")

// CappedWriter is an io.Writer that stores at most a fixed number of bytes.
// A write that does not fit stores as much as it can and returns ErrCapped,
// as required of a short write.
type CappedWriter struct {
	buffer []byte
}

// NewCappedWriter returns a CappedWriter that stores up to size bytes.
func NewCappedWriter(size int) (*CappedWriter, error) {
	if size <= 0 {
		return nil, fmt.Errorf("capped writer: invalid size (%d)", size)
	}
	return &CappedWriter{
		buffer: make([]byte, 0, size),
	}, nil
}

// Write implements the io.Writer interface.
func (c *CappedWriter) Write(p []byte) (int, error) {
	n := min(len(p), cap(c.buffer)-len(c.buffer))
	c.buffer = append(c.buffer, p[:n]...)
	if n < len(p) {
		return n, ErrCapped
	}
	return n, nil
}

// Bytes returns the stored bytes.
func (c *CappedWriter) Bytes() []byte {
	return c.buffer
}

func (c *CappedWriter) String() string {
	return string(c.buffer)
}

// Reset empties the writer.
func (c *CappedWriter) Reset() {
	c.buffer = c.buffer[:0]
}

var _ io.Writer = (*CappedWriter)(nil)
