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

// Package specification contains the video timing parameters of the display
// modes supported by the VDP. Timings are described textually with X11 style
// modelines and are converted into a Spec, from which the scan-line buffer
// lengths, sync polarities and pixel clock are taken.
package specification

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/jetsetilly/otfvdp/curated"
)

// Sentinal error patterns returned by ParseModeline().
const (
	InvalidModeline = "modeline: %v"
	UnknownMode     = "mode: no mode numbered %d"
)

// the bits of a pixel byte that are used by the two sync signals. the
// remaining six bits are the colour.
const (
	HSyncBit  = 0x40
	VSyncBit  = 0x80
	SyncMask  = HSyncBit | VSyncBit
	ColorMask = 0x3f
)

// Spec is the timing specification for a single video mode.
type Spec struct {
	// the name given to the mode in the modeline
	ID string

	// pixel clock in Hz
	PixelClock float64

	// horizontal timing in pixels. the total width of the scan line
	// is the sum of the four parts
	ActiveWidth int
	HFrontPorch int
	HSync       int
	HBackPorch  int
	HTotal      int

	// vertical timing in scan lines. these are logical scan lines and will be
	// doubled by the hardware if DoubleScan is true
	ActiveLines int
	VFrontPorch int
	VSync       int
	VBackPorch  int
	VTotal      int

	// polarity of the sync signals. a positive sync is a high signal during
	// the sync period
	HSyncPositive bool
	VSyncPositive bool

	// each logical scan line is transmitted twice
	DoubleScan bool

	// number of frames per second implied by the pixel clock and the totals
	FramesPerSecond float64

	// the sync bits of a pixel byte for the four possible sync states. these
	// are ORed with the colour bits of every pixel sent to the hardware
	SyncsOff    byte
	HSyncOn     byte
	VSyncOn     byte
	BothSyncsOn byte
}

func (spec Spec) String() string {
	return fmt.Sprintf("%s %dx%d %.2fHz", spec.ID, spec.ActiveWidth, spec.ActiveLines, spec.FramesPerSecond)
}

// ParseModeline creates a Spec from an X11 style modeline. The modeline has
// the form:
//
//	"name" clock hdisp hsyncstart hsyncend htotal vdisp vsyncstart vsyncend vtotal [flags]
//
// The clock is in MHz. Supported flags are +HSync, -HSync, +VSync, -VSync and
// DoubleScan. Sync polarity defaults to negative.
func ParseModeline(modeline string) (Spec, error) {
	var spec Spec

	modeline = strings.TrimSpace(modeline)
	if !strings.HasPrefix(modeline, `"`) {
		return spec, curated.Errorf(InvalidModeline, "name must be quoted")
	}
	end := strings.Index(modeline[1:], `"`)
	if end == -1 {
		return spec, curated.Errorf(InvalidModeline, "name must be quoted")
	}
	spec.ID = modeline[1 : end+1]

	fields := strings.Fields(modeline[end+2:])
	if len(fields) < 9 {
		return spec, curated.Errorf(InvalidModeline, fmt.Sprintf("too few timing values (%d)", len(fields)))
	}

	clk, err := strconv.ParseFloat(fields[0], 64)
	if err != nil || clk <= 0 {
		return spec, curated.Errorf(InvalidModeline, fmt.Sprintf("bad pixel clock (%s)", fields[0]))
	}
	spec.PixelClock = clk * 1000000

	var t [8]int
	for i := range t {
		t[i], err = strconv.Atoi(fields[i+1])
		if err != nil {
			return spec, curated.Errorf(InvalidModeline, fmt.Sprintf("bad timing value (%s)", fields[i+1]))
		}
	}

	// each timing value must be larger than the previous one in the same
	// direction, with the exception of the sync start which may equal the
	// display size (a zero length porch)
	if t[0] <= 0 || t[1] < t[0] || t[2] <= t[1] || t[3] <= t[2] {
		return spec, curated.Errorf(InvalidModeline, "horizontal timings are not increasing")
	}
	if t[4] <= 0 || t[5] < t[4] || t[6] <= t[5] || t[7] <= t[6] {
		return spec, curated.Errorf(InvalidModeline, "vertical timings are not increasing")
	}

	spec.ActiveWidth = t[0]
	spec.HFrontPorch = t[1] - t[0]
	spec.HSync = t[2] - t[1]
	spec.HBackPorch = t[3] - t[2]
	spec.HTotal = t[3]

	spec.ActiveLines = t[4]
	spec.VFrontPorch = t[5] - t[4]
	spec.VSync = t[6] - t[5]
	spec.VBackPorch = t[7] - t[6]
	spec.VTotal = t[7]

	for _, f := range fields[9:] {
		switch strings.ToUpper(f) {
		case "+HSYNC":
			spec.HSyncPositive = true
		case "-HSYNC":
			spec.HSyncPositive = false
		case "+VSYNC":
			spec.VSyncPositive = true
		case "-VSYNC":
			spec.VSyncPositive = false
		case "DOUBLESCAN":
			spec.DoubleScan = true
		default:
			return spec, curated.Errorf(InvalidModeline, fmt.Sprintf("unknown flag (%s)", f))
		}
	}

	// the active width must be a multiple of four so that the active part of
	// every scan line is word aligned
	if spec.ActiveWidth%4 != 0 {
		return spec, curated.Errorf(InvalidModeline, fmt.Sprintf("active width (%d) is not a multiple of four", spec.ActiveWidth))
	}

	lines := float64(spec.VTotal)
	if spec.DoubleScan {
		lines *= 2
	}
	spec.FramesPerSecond = spec.PixelClock / (float64(spec.HTotal) * lines)

	spec.syncBits()

	return spec, nil
}

// calculate the sync bits for each sync state from the sync polarities
func (spec *Spec) syncBits() {
	var hOn, hOff, vOn, vOff byte
	if spec.HSyncPositive {
		hOn = HSyncBit
	} else {
		hOff = HSyncBit
	}
	if spec.VSyncPositive {
		vOn = VSyncBit
	} else {
		vOff = VSyncBit
	}
	spec.SyncsOff = hOff | vOff
	spec.HSyncOn = hOn | vOff
	spec.VSyncOn = hOff | vOn
	spec.BothSyncsOn = hOn | vOn
}

// HardwareLines is the number of scan lines the hardware transmits for each
// frame. This is the same as VTotal unless the mode is DoubleScan.
func (spec Spec) HardwareLines() int {
	if spec.DoubleScan {
		return spec.VTotal * 2
	}
	return spec.VTotal
}

// Pixel combines a colour with the sync bits for active video.
func (spec Spec) Pixel(col byte) byte {
	return (col & ColorMask) | spec.SyncsOff
}

// Pixel4 replicates a pixel into all four bytes of a 32bit word.
func (spec Spec) Pixel4(col byte) uint32 {
	p := uint32(spec.Pixel(col))
	return p | p<<8 | p<<16 | p<<24
}

// GetColor translates the colour bits of a pixel byte to the color type. Each
// two bit channel is expanded to eight bits.
func GetColor(pixel byte) color.RGBA {
	return color.RGBA{
		R: (pixel & 0x03) * 0x55,
		G: ((pixel >> 2) & 0x03) * 0x55,
		B: ((pixel >> 4) & 0x03) * 0x55,
		A: 0xff,
	}
}
