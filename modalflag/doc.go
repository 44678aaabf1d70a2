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


// Package modalflag wraps the flag package of the Go standard library. It
// handles program modes, each with its own set of flags.
//
// A mode is a special command line argument that puts the program into a
// different mode of operation. For otfvdp these are RUN, TERM, SHOT and
// GRAPH. Modes are added with AddSubMode(), the first of which is the
// default:
//
//	md := modalflag.Modes{Output: os.Stdout}
//	md.NewArgs(os.Args[1:])
//	md.AddSubMode("RUN", "play a command stream in a window")
//	md.AddSubMode("SHOT", "save a screenshot of a command stream")
//	p, err := md.Parse()
//
// Parse() processes any flags and then checks to see if the first remaining
// argument is one of the sub-modes. If it isn't, the default mode is
// selected. Sub-mode comparisons are case insensitive.
//
// Once a mode has been selected NewMode() prepares the Modes type for the
// flags and sub-modes of that mode, after which Parse() is called again:
//
//	switch md.Mode() {
//	case "SHOT":
//		md.NewMode()
//		frames := md.AddInt("frames", 1, "number of frames to render")
//		vmode := md.AddVideoMode("mode", 0, "video mode")
//		p, err := md.Parse()
//		...
//	}
//
// Help messages for the -help flag are produced automatically. Parse()
// returns ParseHelp in that case and the caller should stop.
package modalflag
