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

// Package easyterm is a wrapper for "github.com/pkg/term/termios". It puts the
// controlling terminal into cbreak mode so that keystrokes can be forwarded to
// the VDP one at a time, and translates the terminal's cursor key escape
// sequences into VDU control codes.
package easyterm

import (
	"fmt"
	"os"
	"sync"

	"github.com/pkg/term/termios"
	"golang.org/x/sys/unix"
)

// Terminal is the main container for posix terminals.
type Terminal struct {
	input  *os.File
	output *os.File

	canAttr    unix.Termios
	rawAttr    unix.Termios
	cbreakAttr unix.Termios

	// escape sequence state for ReadKey()
	esc []byte

	mu sync.Mutex
}

// Initialise the fields in the Terminal struct
func (pt *Terminal) Initialise(inputFile, outputFile *os.File) error {
	if inputFile == nil {
		return fmt.Errorf("easyterm: terminal requires an input file")
	}
	if outputFile == nil {
		return fmt.Errorf("easyterm: terminal requires an output file")
	}

	pt.input = inputFile
	pt.output = outputFile

	// prepare the attributes for the different terminal modes we'll be using
	if err := termios.Tcgetattr(pt.input.Fd(), &pt.canAttr); err != nil {
		return fmt.Errorf("easyterm: %w", err)
	}
	pt.cbreakAttr = pt.canAttr
	termios.Cfmakecbreak(&pt.cbreakAttr)
	pt.rawAttr = pt.canAttr
	termios.Cfmakeraw(&pt.rawAttr)

	return nil
}

// CleanUp restores the terminal to canonical mode
func (pt *Terminal) CleanUp() {
	pt.CanonicalMode()
}

// Print writes the formatted string to the output file
func (pt *Terminal) Print(s string, a ...any) {
	pt.mu.Lock()
	defer pt.mu.Unlock()
	pt.output.WriteString(fmt.Sprintf(s, a...))
	pt.output.Sync()
}

// CanonicalMode puts terminal into normal, everyday canonical mode
func (pt *Terminal) CanonicalMode() {
	_ = termios.Tcsetattr(pt.input.Fd(), termios.TCIFLUSH, &pt.canAttr)
}

// RawMode puts terminal into raw mode
func (pt *Terminal) RawMode() {
	_ = termios.Tcsetattr(pt.input.Fd(), termios.TCIFLUSH, &pt.rawAttr)
}

// CBreakMode puts terminal into cbreak mode
func (pt *Terminal) CBreakMode() {
	_ = termios.Tcsetattr(pt.input.Fd(), termios.TCIFLUSH, &pt.cbreakAttr)
}

// Flush makes sure the terminal's input/output buffers are empty
func (pt *Terminal) Flush() error {
	if err := termios.Tcflush(pt.input.Fd(), termios.TCIFLUSH); err != nil {
		return err
	}
	if err := termios.Tcflush(pt.output.Fd(), termios.TCOFLUSH); err != nil {
		return err
	}
	return nil
}

// ReadKey blocks until a complete keystroke has been read from the input
// file. The keystroke is returned as the VDU byte sequence it corresponds to.
func (pt *Terminal) ReadKey() ([]byte, error) {
	b := make([]byte, 1)
	for {
		if _, err := pt.input.Read(b); err != nil {
			return nil, err
		}
		if v, ok := pt.translate(b[0]); ok {
			return v, nil
		}
	}
}

// translate keystrokes into VDU codes. returns false if more bytes are
// required to complete an escape sequence
func (pt *Terminal) translate(b byte) ([]byte, bool) {
	if len(pt.esc) > 0 {
		pt.esc = append(pt.esc, b)
		switch len(pt.esc) {
		case 2:
			if b == EscCursor {
				return nil, false
			}
			pt.esc = pt.esc[:0]
			return []byte{b}, true
		default:
			pt.esc = pt.esc[:0]
			switch b {
			case CursorUp:
				return []byte{VDUUp}, true
			case CursorDown:
				return []byte{VDUDown}, true
			case CursorForward:
				return []byte{VDURight}, true
			case CursorBackward:
				return []byte{VDULeft}, true
			case EscHome:
				return []byte{VDUHome}, true
			}
			return nil, false
		}
	}

	switch b {
	case KeyEsc:
		pt.esc = append(pt.esc[:0], b)
		return nil, false
	case KeyBackspace, KeyDelete:
		return []byte{VDUBackspace}, true
	case KeyLineFeed:
		return []byte{VDUCarriageReturn, VDUDown}, true
	case KeyCarriageReturn:
		return []byte{VDUCarriageReturn, VDUDown}, true
	}

	return []byte{b}, true
}
