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

// Package performance measures how quickly the scene manager can paint
// frames for a command stream.
//
// Check() paints frames for a fixed duration without reference to the video
// hardware and reports the frame rate achieved. Painting must be faster than
// the frame rate of the video mode or the run loop will fall behind the
// hardware.
//
// RunProfiler() can be used to generate the various profile types around any
// function.
package performance
