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


// Package screenshot implements the signal.PixelRenderer interface and keeps
// the most recently completed frame as an image. The image can be saved as a
// PNG, BMP or TIFF file.
package screenshot

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jetsetilly/otfvdp/curated"
	"github.com/jetsetilly/otfvdp/hardware/video/specification"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// Sentinal errors.
const (
	NoFrame           = "screenshot: no frame has been completed"
	FileExists        = "screenshot: file (%s) already exists"
	UnsupportedFormat = "screenshot: unsupported image format (%s)"
	Failed            = "screenshot: %v"
)

// Screenshot records the frames produced by the scene manager.
type Screenshot struct {
	geom image.Rectangle

	// curr is the image being written to. last is the most recent complete
	// frame
	curr    *image.NRGBA
	currNum int
	last    *image.NRGBA
	lastNum int

	frames int
}

// NewScreenshot is the preferred method of initialisation for the Screenshot
// type.
func NewScreenshot() *Screenshot {
	return &Screenshot{lastNum: -1}
}

// Resize implements the signal.PixelRenderer interface.
func (sh *Screenshot) Resize(spec specification.Spec) error {
	sh.geom = image.Rect(0, 0, spec.ActiveWidth, spec.ActiveLines)
	sh.curr = image.NewNRGBA(sh.geom)
	sh.last = nil
	sh.lastNum = -1
	return nil
}

// NewFrame implements the signal.PixelRenderer interface.
func (sh *Screenshot) NewFrame(frameNum int) error {
	sh.currNum = frameNum
	return nil
}

// SetLine implements the signal.PixelRenderer interface.
func (sh *Screenshot) SetLine(y int, pixels []byte) error {
	if sh.curr == nil || y < 0 || y >= sh.geom.Dy() {
		return nil
	}

	i := sh.curr.PixOffset(0, y)
	for _, p := range pixels[:min(len(pixels), sh.geom.Dx())] {
		c := specification.GetColor(p)
		sh.curr.Pix[i] = c.R
		sh.curr.Pix[i+1] = c.G
		sh.curr.Pix[i+2] = c.B
		sh.curr.Pix[i+3] = 0xff
		i += 4
	}

	return nil
}

// EndFrame implements the signal.PixelRenderer interface.
func (sh *Screenshot) EndFrame() error {
	if sh.curr == nil {
		return nil
	}
	if sh.last == nil {
		sh.last = image.NewNRGBA(sh.geom)
	}
	copy(sh.last.Pix, sh.curr.Pix)
	sh.lastNum = sh.currNum
	sh.frames++
	return nil
}

// EndRendering implements the signal.PixelRenderer interface.
func (sh *Screenshot) EndRendering() error {
	return nil
}

// Frames returns the number of frames completed.
func (sh *Screenshot) Frames() int {
	return sh.frames
}

// Image returns the most recently completed frame and its number. The image
// must not be modified.
func (sh *Screenshot) Image() (image.Image, int, error) {
	if sh.last == nil {
		return nil, 0, curated.Errorf(NoFrame)
	}
	return sh.last, sh.lastNum, nil
}

// Encode writes the most recently completed frame to w. The format is one of
// "png", "bmp" or "tiff".
func (sh *Screenshot) Encode(w io.Writer, format string) error {
	img, _, err := sh.Image()
	if err != nil {
		return err
	}

	switch strings.ToLower(format) {
	case "png":
		err = png.Encode(w, img)
	case "bmp":
		err = bmp.Encode(w, img)
	case "tif", "tiff":
		err = tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return curated.Errorf(UnsupportedFormat, format)
	}

	if err != nil {
		return curated.Errorf(Failed, err)
	}
	return nil
}

// Save writes the most recently completed frame to a file. The format is
// taken from the filename's extension; a filename without an extension is
// saved as a PNG with the extension added. Existing files are not
// overwritten.
func (sh *Screenshot) Save(filename string) error {
	if _, _, err := sh.Image(); err != nil {
		return err
	}

	format := strings.TrimPrefix(filepath.Ext(filename), ".")
	if format == "" {
		format = "png"
		filename = fmt.Sprintf("%s.png", filename)
	}

	f, err := os.OpenFile(filename, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		if os.IsExist(err) {
			return curated.Errorf(FileExists, filename)
		}
		return curated.Errorf(Failed, err)
	}

	err = sh.Encode(f, format)
	if cerr := f.Close(); err == nil && cerr != nil {
		err = curated.Errorf(Failed, cerr)
	}
	if err != nil {
		_ = os.Remove(filename)
	}

	return err
}
