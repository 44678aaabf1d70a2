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

package command

import (
	"encoding/binary"
	"slices"
	"sync"

	"github.com/jetsetilly/otfvdp/curated"
	"github.com/jetsetilly/otfvdp/hardware/video/specification"
	"github.com/jetsetilly/otfvdp/logger"
	"github.com/jetsetilly/otfvdp/otf/primitive"
	"github.com/jetsetilly/otfvdp/otf/scene"
)

// Sentinal error patterns.
const (
	NoTextArea   = "command: primitive %d is not a text area"
	WrongVariant = "command: primitive %d is not %s"
	Discarded    = "command: discarded %d byte record (%#02x, %d)"
	Failed       = "command: %s: %v"
)

// Host owns the scene that commands are applied to. The scene returned by
// Scene() changes when the video mode changes.
type Host interface {
	Scene() *scene.Manager
	Mode() int
	SetMode(mode int) error
}

// Responder receives the replies to system requests. The packet is only
// valid for the duration of the call.
type Responder interface {
	Respond(packet []byte)
}

// DefaultTextArea is the ID of the text area that receives terminal records
// when the decoder is created or reset.
const DefaultTextArea = 1

// the length of records that begin with 23 and are not understood
const vduRecord = 10

// system requests
const (
	reqCursor = 0x82
	reqChar   = 0x83
	reqPixel  = 0x84
	reqMode   = 0x86
)

// Decoder turns a byte stream into calls to the scene. Write() can be called
// from any goroutine. Every other function must be called from the
// goroutine that owns the scene.
type Decoder struct {
	host      Host
	responder Responder

	crit  sync.Mutex
	queue []byte

	// the record being accumulated
	rec []byte

	// the ID of the text area that receives terminal records
	active int

	discarded int
}

// NewDecoder is the preferred method of initialisation for the Decoder type.
// The responder can be nil.
func NewDecoder(host Host, responder Responder) *Decoder {
	return &Decoder{
		host:      host,
		responder: responder,
		active:    DefaultTextArea,
	}
}

// Write implements the io.Writer interface. The bytes are queued until the
// next call to Drain().
func (d *Decoder) Write(p []byte) (int, error) {
	d.crit.Lock()
	defer d.crit.Unlock()
	d.queue = append(d.queue, p...)
	return len(p), nil
}

// Pending returns the number of queued bytes.
func (d *Decoder) Pending() int {
	d.crit.Lock()
	defer d.crit.Unlock()
	return len(d.queue)
}

// Drain decodes at most budget bytes from the queue. Implements the
// scene.CommandSource interface.
func (d *Decoder) Drain(budget int) {
	d.crit.Lock()
	n := min(max(budget, 0), len(d.queue))
	b := slices.Clone(d.queue[:n])
	d.queue = d.queue[n:]
	d.crit.Unlock()

	for _, v := range b {
		d.push(v)
	}
}

// DrainAll decodes every queued byte, including bytes queued while
// draining.
func (d *Decoder) DrainAll() {
	for d.Pending() > 0 {
		d.Drain(4096)
	}
}

// Reset forgets any partially received record and selects the default text
// area. Queued bytes are kept.
func (d *Decoder) Reset() {
	d.rec = d.rec[:0]
	d.active = DefaultTextArea
}

// Active returns the ID of the text area that receives terminal records.
func (d *Decoder) Active() int {
	return d.active
}

// Partial returns the number of bytes of an incomplete record.
func (d *Decoder) Partial() int {
	return len(d.rec)
}

// Discarded returns the number of records that have been consumed without
// effect.
func (d *Decoder) Discarded() int {
	return d.discarded
}

func (d *Decoder) push(v byte) {
	d.rec = append(d.rec, v)
	n, ok := recordLength(d.rec)
	if !ok || len(d.rec) < n {
		return
	}

	rec := d.rec
	d.dispatch(rec)

	// dispatch may have reset the decoder
	d.rec = d.rec[:0]
}

// the length of the record that begins with the bytes. ok is false if more
// bytes are needed before the length is known
func recordLength(rec []byte) (int, bool) {
	switch rec[0] {
	case 17, 22:
		return 2, true
	case 18, 31:
		return 3, true
	case 28, 29:
		return 5, true
	case 19, 25:
		return 6, true
	case 23:
		if len(rec) < 3 {
			return 0, false
		}
		switch rec[1] {
		case 0:
			switch rec[2] {
			case reqCursor, reqMode:
				return 3, true
			case reqChar, reqPixel:
				return 7, true
			}
		case 30:
			c, ok := sceneCommands[rec[2]]
			if !ok {
				break
			}
			n := 3 + c.fixed
			if c.variable == nil {
				return n, true
			}
			if len(rec) < n {
				return n, false
			}
			return n + c.variable(rec[3:n]), true
		}
		return vduRecord, true
	}
	return 1, true
}

func (d *Decoder) dispatch(rec []byte) {
	var err error

	if rec[0] == 23 {
		switch rec[1] {
		case 0:
			err = d.system(rec)
		case 30:
			if c, ok := sceneCommands[rec[2]]; ok {
				if err = c.run(d, d.host.Scene(), &args{b: rec[3:]}); err != nil {
					err = curated.Errorf(Failed, c.name, err)
				}
			} else {
				err = d.discard(rec)
			}
		default:
			err = d.discard(rec)
		}
	} else {
		err = d.terminal(rec)
	}

	if err != nil {
		logger.Log(logger.Allow, "command", err)
	}
}

func (d *Decoder) discard(rec []byte) error {
	d.discarded++
	return curated.Errorf(Discarded, len(rec), rec[0], rec[1])
}

// the active text area
func (d *Decoder) textArea() (*primitive.TextArea, error) {
	p, ok := d.host.Scene().Lookup(d.active)
	if !ok {
		return nil, curated.Errorf(NoTextArea, d.active)
	}
	t, ok := p.(*primitive.TextArea)
	if !ok {
		return nil, curated.Errorf(NoTextArea, d.active)
	}
	return t, nil
}

func (d *Decoder) terminal(rec []byte) error {
	switch rec[0] {
	case 22:
		return d.host.SetMode(int(rec[1]))
	case 18, 19, 25, 28, 29:
		d.discarded++
		return nil
	}

	if rec[0] < 0x20 {
		switch rec[0] {
		case 8, 9, 10, 11, 12, 13, 17, 30, 31:
		default:
			return nil
		}
	}

	t, err := d.textArea()
	if err != nil {
		return err
	}

	switch rec[0] {
	case 8:
		t.Left()
	case 9:
		t.Right()
	case 10:
		t.Down()
	case 11:
		t.Up()
	case 12:
		t.Clear()
	case 13:
		t.CarriageReturn()
	case 17:
		if rec[1]&0x80 == 0x80 {
			t.SetBackground(rec[1])
		} else {
			t.SetForeground(rec[1])
		}
	case 30:
		t.Home()
	case 31:
		t.TabTo(int(rec[1]), int(rec[2]))
	case 127:
		t.Backspace()
	default:
		t.WriteChar(rec[0])
	}

	d.host.Scene().Touch()
	return nil
}

func (d *Decoder) system(rec []byte) error {
	a := &args{b: rec[3:]}

	switch rec[2] {
	case reqCursor:
		t, err := d.textArea()
		if err != nil {
			return err
		}
		x, y := t.Cursor()
		d.respond(rec[2], byte(x), byte(y))

	case reqChar:
		x, y := a.u16(), a.u16()
		t, err := d.textArea()
		if err != nil {
			return err
		}
		d.respond(rec[2], t.CharAt(x, y))

	case reqPixel:
		x, y := a.u16(), a.u16()
		v, err := d.host.Scene().ReadPixel(x, y)
		if err != nil {
			return err
		}
		c := specification.GetColor(v)
		d.respond(rec[2], c.R, c.G, c.B, v)

	case reqMode:
		spec := d.host.Scene().Spec()
		var cols, rows int
		if t, err := d.textArea(); err == nil {
			cols, rows = t.Grid()
		}
		colors := 64
		for _, m := range specification.Modes {
			if m.Number == d.host.Mode() {
				colors = m.Colors
			}
		}
		var w, h [2]byte
		binary.LittleEndian.PutUint16(w[:], uint16(spec.ActiveWidth))
		binary.LittleEndian.PutUint16(h[:], uint16(spec.ActiveLines))
		d.respond(rec[2], w[0], w[1], h[0], h[1], byte(cols), byte(rows), byte(colors), byte(d.host.Mode()))

	default:
		return d.discard(rec)
	}

	return nil
}

// send a reply packet. the first byte of a packet is the request ID with bit
// 7 set, the second byte is the length of the data
func (d *Decoder) respond(id byte, data ...byte) {
	if d.responder == nil {
		return
	}
	packet := make([]byte, 0, len(data)+2)
	packet = append(packet, 0x80|id, byte(len(data)))
	packet = append(packet, data...)
	d.responder.Respond(packet)
}
