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


package main

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/jetsetilly/otfvdp/logger"
)

// replies implements the command.Responder interface. Reply packets are
// logged and optionally written to a file.
type replies struct {
	crit   sync.Mutex
	output io.Writer
	count  int
}

// Respond implements the command.Responder interface.
func (r *replies) Respond(packet []byte) {
	r.crit.Lock()
	defer r.crit.Unlock()

	r.count++
	logger.Logf(logger.Allow, "reply", "% 02x", packet)

	if r.output != nil {
		if _, err := r.output.Write(packet); err != nil {
			logger.Log(logger.Allow, "reply", err)
		}
	}
}

// Count returns the number of packets sent.
func (r *replies) Count() int {
	r.crit.Lock()
	defer r.crit.Unlock()
	return r.count
}

// openStream returns the command stream named by the argument. A missing
// argument or "-" is the input reader.
func openStream(arg string, input io.Reader) (io.ReadCloser, error) {
	if arg == "" || arg == "-" {
		return io.NopCloser(input), nil
	}
	f, err := os.Open(arg)
	if err != nil {
		return nil, fmt.Errorf("command stream: %w", err)
	}
	return f, nil
}

// createFile for output. "-" is the standard output.
func createFile(arg string, stdout io.Writer) (io.WriteCloser, error) {
	if arg == "-" {
		return nopWriteCloser{stdout}, nil
	}
	return os.Create(arg)
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error {
	return nil
}
