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


package sdl

import (
	"time"
)

// fpsLimiter ticks at the frame rate of the video mode. the interval is
// adjusted on every tick so that drift caused by late wakeups does not
// accumulate.
type fpsLimiter struct {
	secondsPerFrame time.Duration
	tick            chan bool
	done            chan bool
}

func newFPSLimiter(framesPerSecond float64) *fpsLimiter {
	lim := &fpsLimiter{
		tick: make(chan bool),
		done: make(chan bool),
	}

	if framesPerSecond <= 0 {
		framesPerSecond = 60
	}
	lim.secondsPerFrame = time.Duration(float64(time.Second) / framesPerSecond)

	// run ticker concurrently
	go func() {
		adjustedSecondPerFrame := lim.secondsPerFrame
		t := time.Now()
		for {
			time.Sleep(adjustedSecondPerFrame)
			nt := time.Now()
			select {
			case lim.tick <- true:
			case <-lim.done:
				return
			}
			adjustedSecondPerFrame -= nt.Sub(t) - lim.secondsPerFrame
			adjustedSecondPerFrame = max(adjustedSecondPerFrame, 0)
			t = nt
		}
	}()

	return lim
}

func (lim *fpsLimiter) wait() {
	<-lim.tick
}

func (lim *fpsLimiter) stop() {
	close(lim.done)
}
