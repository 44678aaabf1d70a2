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
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/bradleyjkemp/memviz"
	"github.com/jetsetilly/otfvdp/easyterm"
	"github.com/jetsetilly/otfvdp/gui"
	"github.com/jetsetilly/otfvdp/gui/sdl"
	"github.com/jetsetilly/otfvdp/hardware/video/specification"
	"github.com/jetsetilly/otfvdp/logger"
	"github.com/jetsetilly/otfvdp/modalflag"
	"github.com/jetsetilly/otfvdp/otf/primitive"
	"github.com/jetsetilly/otfvdp/otf/scene"
	"github.com/jetsetilly/otfvdp/performance"
	"github.com/jetsetilly/otfvdp/screenshot"
	"github.com/jetsetilly/otfvdp/statsview"
	"github.com/jetsetilly/otfvdp/vdp"
	"github.com/jetsetilly/otfvdp/version"
)

// the size of the event queue between the window and the VDP
const eventQueueLen = 64

func run(ctx context.Context, md *modalflag.Modes, sync *mainSync) error {
	md.NewMode()

	mode := md.AddVideoMode("mode", specification.DefaultMode, "video mode number or resolution")
	scale := md.AddFloat32("scale", sdl.DefaultScale, "window scaling")
	fpsCap := md.AddBool("fpscap", true, "limit presentation to the frame rate of the mode")
	stats := md.AddBool("statsview", false, fmt.Sprintf("run stats server (%s)", statsview.Address))
	replyFile := md.AddString("replies", "", "file to write reply packets to")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	if len(md.RemainingArgs()) > 1 {
		return fmt.Errorf("too many arguments for %s mode", md)
	}

	stream, err := openStream(md.GetArg(0), os.Stdin)
	if err != nil {
		return err
	}
	defer stream.Close()

	return window(ctx, sync, *mode, *scale, *fpsCap, *stats, *replyFile, func(v *vdp.VDP) {
		if _, err := io.Copy(v, stream); err != nil {
			logger.Log(logger.Allow, "stream", err)
		}
	})
}

func term(ctx context.Context, md *modalflag.Modes, sync *mainSync) error {
	md.NewMode()

	mode := md.AddVideoMode("mode", specification.DefaultMode, "video mode number or resolution")
	scale := md.AddFloat32("scale", sdl.DefaultScale, "window scaling")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	var pt easyterm.Terminal
	if err := pt.Initialise(os.Stdin, os.Stdout); err != nil {
		return err
	}
	defer pt.CleanUp()
	pt.CBreakMode()
	pt.Print("typing into the window. ctrl-c to end\n")

	return window(ctx, sync, *mode, *scale, true, false, "", func(v *vdp.VDP) {
		for {
			k, err := pt.ReadKey()
			if err != nil {
				if !errors.Is(err, io.EOF) {
					logger.Log(logger.Allow, "term", err)
				}
				return
			}
			_, _ = v.Write(k)
		}
	})
}

// window creates an SDL window on the main thread and runs a VDP that renders
// to it. The feed function is run in its own goroutine and should write
// commands to the VDP until there are no more.
func window(ctx context.Context, sync *mainSync, mode int, scale float32, fpsCap bool, stats bool, replyFile string, feed func(v *vdp.VDP)) error {
	events := make(chan gui.Event, eventQueueLen)

	g, err := sync.create(func() (GuiCreator, error) {
		return sdl.NewWindow(events)
	})
	if err != nil {
		return err
	}
	win := g.(*sdl.Window)

	err = sync.mainthread(func() error {
		if err := win.SetFeature(gui.ReqSetScale, scale); err != nil {
			return err
		}
		if err := win.SetFeature(gui.ReqMonitorSync, fpsCap); err != nil {
			return err
		}
		return win.SetFeature(gui.ReqSetVisibility, true)
	})
	if err != nil {
		return err
	}

	// the stub version of Launch() prints a notice if the stats server is
	// not available
	if stats {
		statsview.Launch(os.Stdout)
	}

	rep := &replies{}
	if replyFile != "" {
		f, err := createFile(replyFile, os.Stdout)
		if err != nil {
			return err
		}
		defer f.Close()
		rep.output = f
	}

	v, err := vdp.NewVDP(mode, win, rep)
	if err != nil {
		return err
	}
	defer v.End()

	_ = sync.mainthread(func() error {
		return win.SetFeature(gui.ReqSetTitle, fmt.Sprintf("otfvdp: %s", v.Scene().Spec()))
	})

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go feed(v)

	// keyboard input from the window is sent to the VDP as terminal
	// commands. closing the window ends the mode
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case ev := <-events:
				switch ev := ev.(type) {
				case gui.EventWindowClose:
					cancel()
					return
				case gui.EventText:
					_, _ = v.Write([]byte(ev.Text))
				case gui.EventKeyboard:
					if k := keyboardVDU(ev); k != nil {
						_, _ = v.Write(k)
					}
				}
			}
		}
	}()

	err = v.Run(ctx)
	if errors.Is(err, context.Canceled) {
		err = nil
	}

	logger.Logf(logger.Allow, "otfvdp", "%s: %d replies", v, rep.Count())

	return err
}

// keyboardVDU translates the keys that do not produce text events into VDU
// terminal codes. Printable keys arrive as text events.
func keyboardVDU(ev gui.EventKeyboard) []byte {
	if !ev.Down {
		return nil
	}
	switch ev.Key {
	case "Left":
		return []byte{easyterm.VDULeft}
	case "Right":
		return []byte{easyterm.VDURight}
	case "Up":
		return []byte{easyterm.VDUUp}
	case "Down":
		return []byte{easyterm.VDUDown}
	case "Home":
		return []byte{easyterm.VDUHome}
	case "Backspace":
		return []byte{easyterm.VDUBackspace}
	case "Return", "Keypad Enter":
		return []byte{easyterm.VDUCarriageReturn, easyterm.VDUDown}
	}
	return nil
}

func shot(md *modalflag.Modes, input io.Reader) error {
	md.NewMode()

	mode := md.AddVideoMode("mode", specification.DefaultMode, "video mode number or resolution")
	frames := md.AddInt("frames", 1, "number of frames to render")
	out := md.AddString("out", "otfvdp.png", "output file. the extension selects the format")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	if *frames < 1 {
		return fmt.Errorf("at least one frame must be rendered")
	}

	stream, err := openStream(md.GetArg(0), input)
	if err != nil {
		return err
	}
	defer stream.Close()

	sh := screenshot.NewScreenshot()
	v, err := vdp.NewVDP(*mode, sh, &replies{})
	if err != nil {
		return err
	}
	defer v.End()

	if _, err := io.Copy(v, stream); err != nil {
		return fmt.Errorf("command stream: %w", err)
	}
	v.RenderFrames(*frames)

	if err := sh.Save(*out); err != nil {
		return err
	}
	fmt.Printf("* %s: %d frames written to %s\n", v, sh.Frames(), *out)

	return nil
}

func graph(md *modalflag.Modes, input io.Reader, output io.Writer) error {
	md.NewMode()

	mode := md.AddVideoMode("mode", specification.DefaultMode, "video mode number or resolution")
	out := md.AddString("out", "-", "output file for the graphviz description")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	stream, err := openStream(md.GetArg(0), input)
	if err != nil {
		return err
	}
	defer stream.Close()

	v, err := vdp.NewVDP(*mode, nil, &replies{})
	if err != nil {
		return err
	}

	if _, err := io.Copy(v, stream); err != nil {
		return fmt.Errorf("command stream: %w", err)
	}
	v.RenderFrames(1)

	f, err := createFile(*out, output)
	if err != nil {
		return err
	}
	defer f.Close()

	memviz.Map(f, primitiveTable(v.Scene()))

	return nil
}

// primitiveTable collects the primitives of the scene in ID order.
func primitiveTable(m *scene.Manager) []primitive.Primitive {
	var tbl []primitive.Primitive
	for id := range scene.MaxPrimitives {
		if p, ok := m.Lookup(id); ok {
			tbl = append(tbl, p)
		}
	}
	return tbl
}

func perform(md *modalflag.Modes, input io.Reader) error {
	md.NewMode()

	mode := md.AddVideoMode("mode", specification.DefaultMode, "video mode number or resolution")
	duration := md.AddString("duration", "5s", "duration of the measurement")
	profile := md.AddString("profile", "none", "run performance check with profiling: comma separated CPU, MEM, TRACE or ALL")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	prf, err := performance.ParseProfileString(*profile)
	if err != nil {
		return err
	}

	stream, err := openStream(md.GetArg(0), input)
	if err != nil {
		return err
	}
	defer stream.Close()

	return performance.Check(md.Output, prf, *mode, stream, *duration)
}

func showVersion(md *modalflag.Modes) error {
	md.NewMode()

	revision := md.AddBool("revision", false, "display revision information from version control")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	v, r, _ := version.Version()
	fmt.Fprintf(md.Output, "%s %s\n", version.ApplicationName, v)
	if *revision {
		fmt.Fprintln(md.Output, r)
	}

	return nil
}
