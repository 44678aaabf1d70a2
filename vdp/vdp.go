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

// Package vdp ties the scene manager, the command decoder and the display
// together for one video mode at a time. Changing the mode discards the
// scene and builds a new one.
package vdp

import (
	"context"
	"fmt"
	"time"

	"github.com/jetsetilly/otfvdp/hardware/video/dma"
	"github.com/jetsetilly/otfvdp/hardware/video/signal"
	"github.com/jetsetilly/otfvdp/hardware/video/specification"
	"github.com/jetsetilly/otfvdp/logger"
	"github.com/jetsetilly/otfvdp/otf/command"
	"github.com/jetsetilly/otfvdp/otf/primitive"
	"github.com/jetsetilly/otfvdp/otf/scene"
)

// DefaultPoolSize is the number of rotating scan line buffers.
const DefaultPoolSize = 8

// the colours of the terminal text area created for every mode
const (
	terminalForeground = 0x3f
	terminalBackground = 0x00
)

// the time the run loop sleeps for when there is nothing to do
const idleSleep = 50 * time.Microsecond

// VDP is the video display processor. It implements the command.Host
// interface.
type VDP struct {
	mode     int
	scene    *scene.Manager
	decoder  *command.Decoder
	renderer signal.PixelRenderer

	// the number of rotating scan line buffers used by Run()
	PoolSize int

	// creates the video hardware for a mode. defaults to a ClockedHardware
	// running at the mode's pixel clock
	Hardware func(spec specification.Spec) dma.Hardware
}

// NewVDP is the preferred method of initialisation for the VDP type. The
// renderer and the responder can be nil. If the mode cannot be used the
// default mode is used instead.
func NewVDP(mode int, renderer signal.PixelRenderer, responder command.Responder) (*VDP, error) {
	v := &VDP{
		renderer: renderer,
		PoolSize: DefaultPoolSize,
		Hardware: func(spec specification.Spec) dma.Hardware {
			return dma.NewClockedHardware(spec.PixelClock, spec.HTotal)
		},
	}
	v.decoder = command.NewDecoder(v, responder)

	if err := v.SetMode(mode); err != nil {
		if mode == specification.DefaultMode {
			return nil, fmt.Errorf("vdp: %w", err)
		}
		if err := v.SetMode(specification.DefaultMode); err != nil {
			return nil, fmt.Errorf("vdp: %w", err)
		}
	}

	return v, nil
}

func (v *VDP) String() string {
	return fmt.Sprintf("mode %d: %s", v.mode, v.scene)
}

// Scene implements the command.Host interface.
func (v *VDP) Scene() *scene.Manager {
	return v.scene
}

// Mode implements the command.Host interface.
func (v *VDP) Mode() int {
	return v.mode
}

// SetMode implements the command.Host interface. The scene is replaced with
// one that contains a text area covering the screen as primitive 1. If the
// mode cannot be used the current scene is kept.
func (v *VDP) SetMode(mode int) error {
	spec, err := specification.GetMode(mode)
	if err != nil {
		return err
	}

	m := scene.NewManager(spec)

	cols := spec.ActiveWidth / primitive.GlyphWidth
	rows := spec.ActiveLines / primitive.GlyphHeight
	ta, err := primitive.NewTextArea(command.DefaultTextArea, primitive.DefaultFlags, 0, 0, cols, rows,
		terminalForeground|terminalBackground<<8)
	if err != nil {
		return err
	}
	if err := m.Create(ta, 0); err != nil {
		return err
	}

	if v.renderer != nil {
		if err := m.AddRenderer(v.renderer); err != nil {
			return err
		}
	}
	m.SetCommandSource(v.decoder)

	v.scene = m
	v.mode = mode
	v.decoder.Reset()

	logger.Logf(logger.Allow, "vdp", "mode %d: %s", mode, spec)

	return nil
}

// Write implements the io.Writer interface. The bytes are decoded by the
// run loop during vertical blanking or by RenderFrames(). Safe to call from
// any goroutine.
func (v *VDP) Write(p []byte) (int, error) {
	return v.decoder.Write(p)
}

// Decoder returns the command decoder.
func (v *VDP) Decoder() *command.Decoder {
	return v.decoder
}

// RenderFrames decodes every pending command and renders the number of
// frames without reference to the video hardware.
func (v *VDP) RenderFrames(n int) {
	for range n {
		v.decoder.DrainAll()
		v.scene.RenderFrame()
	}
}

// Run feeds the video hardware until the context is cancelled or a fatal
// error occurs. The hardware is restarted whenever the mode changes.
func (v *VDP) Run(ctx context.Context) error {
	for {
		m := v.scene
		if err := m.Start(v.Hardware(m.Spec()), v.PoolSize); err != nil {
			return err
		}

		for v.scene == m {
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

		logger.Logf(logger.Allow, "vdp", "restarting video after %d frames with %d underruns", m.Frame(), m.Underruns())
	}
}

// End tells the renderer that there will be no more frames.
func (v *VDP) End() {
	v.scene.EndRendering()
}
