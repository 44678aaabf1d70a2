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
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"time"

	"github.com/jetsetilly/otfvdp/logger"
	"github.com/jetsetilly/otfvdp/modalflag"
)

type stateReq = string

const (
	// main thread should end as soon as possible.
	//
	// takes optional int argument, indicating the status code.
	reqQuit stateReq = "QUIT"
)

type stateRequest struct {
	req  stateReq
	args interface{}
}

// GuiCreator facilitates the creation, servicing and destruction of GUIs
// that need to be run in the main thread.
//
// Note that there is no Create() function because we need the freedom to
// create the GUI how we want. Instead the creator is a channel which accepts
// a function that returns an instance of GuiCreator.
type GuiCreator interface {
	// cleanup resources used by the gui
	Destroy()

	// Service() should not pause or loop longer than necessary. It MUST ONLY
	// by called as part of a larger loop from the main thread.
	Service() error
}

// communication between the main() function and the launch() function. this is
// required because many gui solutions (notably SDL) require window event
// handling (including creation) to occur on the main thread.
type mainSync struct {
	state   chan stateRequest
	creator chan func() (GuiCreator, error)

	// the result of creator will be returned on either of these two channels.
	creation      chan GuiCreator
	creationError chan error

	// functions that must be run on the main thread
	service chan func()
}

// create a gui on the main thread and wait for the result.
func (sync *mainSync) create(creator func() (GuiCreator, error)) (GuiCreator, error) {
	sync.creator <- creator
	select {
	case g := <-sync.creation:
		return g, nil
	case err := <-sync.creationError:
		return nil, err
	}
}

// run function on the main thread and wait for it to complete.
func (sync *mainSync) mainthread(f func() error) error {
	done := make(chan error)
	sync.service <- func() {
		done <- f()
	}
	return <-done
}

func init() {
	// SDL requires that all window functions are called from the thread
	// that initialised it
	runtime.LockOSThread()
}

// #mainthread
func main() {
	sync := &mainSync{
		state:         make(chan stateRequest),
		creator:       make(chan func() (GuiCreator, error)),
		creation:      make(chan GuiCreator),
		creationError: make(chan error),
		service:       make(chan func()),
	}

	// the value to use with os.Exit(). can be changed with reqQuit
	// stateRequest
	exitVal := 0

	// the first interrupt asks the launched mode to end. the second ends the
	// program immediately
	intChan := make(chan os.Signal, 1)
	signal.Notify(intChan, os.Interrupt)
	ctx, cancel := context.WithCancel(context.Background())
	interrupted := false

	go launch(ctx, sync, os.Args[1:])

	// loop until done is true. every iteration of the loop we listen for:
	//
	//  1. interrupt signals
	//  2. new gui creation functions
	//  3. state requests
	//  4. functions to run on the main thread
	//  5. anything in the Service() function of the most recently created GUI
	done := false
	var gui GuiCreator
	for !done {
		select {
		case <-intChan:
			if interrupted {
				fmt.Println("\r")
				done = true
			}
			interrupted = true
			cancel()

		case creator := <-sync.creator:
			if gui != nil {
				gui.Destroy()
				gui = nil
			}

			g, err := creator()
			if err != nil {
				sync.creationError <- err
			} else {
				gui = g
				sync.creation <- gui
			}

		case f := <-sync.service:
			f()

		case state := <-sync.state:
			switch state.req {
			case reqQuit:
				done = true
				if state.args != nil {
					if v, ok := state.args.(int); ok {
						exitVal = v
					} else {
						panic(fmt.Sprintf("cannot convert %s arguments into int", reqQuit))
					}
				}
			}

		default:
			if gui != nil {
				if err := gui.Service(); err != nil {
					logger.Log(logger.Allow, "gui", err)
				}
			} else {
				time.Sleep(time.Millisecond)
			}
		}
	}

	if gui != nil {
		gui.Destroy()
	}
	cancel()

	os.Exit(exitVal)
}

// launch is called from main() as a goroutine. uses mainSync instance to
// indicate gui creation and to quit.
func launch(ctx context.Context, sync *mainSync, args []string) {
	md := &modalflag.Modes{Output: os.Stdout}
	md.NewArgs(args)
	md.AddSubMode("RUN", "play a command stream in a window")
	md.AddSubMode("TERM", "type into a window from the terminal")
	md.AddSubMode("SHOT", "save a screenshot of a command stream")
	md.AddSubMode("GRAPH", "write a graphviz description of the primitive table")
	md.AddSubMode("PERFORMANCE", "measure the painting speed of a command stream")
	md.AddSubMode("VERSION", "print the version of the application")
	log := md.AddBool("log", false, "echo log to stderr")

	p, err := md.Parse()
	switch p {
	case modalflag.ParseHelp:
		sync.state <- stateRequest{req: reqQuit}
		return

	case modalflag.ParseError:
		fmt.Printf("* error: %v\n", err)
		sync.state <- stateRequest{req: reqQuit, args: 10}
		return
	}

	if *log {
		logger.SetEcho(logger.NewColorizer(os.Stderr))
	} else {
		logger.SetEcho(nil)
	}

	switch md.Mode() {
	case "RUN":
		err = run(ctx, md, sync)

	case "TERM":
		err = term(ctx, md, sync)

	case "SHOT":
		err = shot(md, os.Stdin)

	case "GRAPH":
		err = graph(md, os.Stdin, os.Stdout)

	case "PERFORMANCE":
		err = perform(md, os.Stdin)

	case "VERSION":
		err = showVersion(md)
	}

	if err != nil {
		fmt.Printf("* error in %s mode: %s\n", md.String(), err)
		sync.state <- stateRequest{req: reqQuit, args: 20}
		return
	}

	sync.state <- stateRequest{req: reqQuit}
}
