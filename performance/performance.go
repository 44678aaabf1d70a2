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

package performance

import (
	"fmt"
	"io"
	"time"

	"github.com/jetsetilly/otfvdp/vdp"
)

// Check the painting performance of the scene built by the command stream.
// Frames are painted for the duration and the frame rate achieved is written
// to output.
//
// The command stream is decoded completely before the measurement starts.
// Commands written to the VDP by the frames themselves (there are none in a
// plain command stream) would be decoded as part of each frame.
func Check(output io.Writer, profile Profile, mode int, stream io.Reader, duration string) error {
	dur, err := time.ParseDuration(duration)
	if err != nil {
		return fmt.Errorf("performance: %w", err)
	}
	if dur <= 0 {
		return fmt.Errorf("performance: duration must be positive")
	}

	v, err := vdp.NewVDP(mode, nil, nil)
	if err != nil {
		return fmt.Errorf("performance: %w", err)
	}
	defer v.End()

	if _, err := io.Copy(v, stream); err != nil {
		return fmt.Errorf("performance: %w", err)
	}

	// the first frame builds the paint routines of every primitive and is
	// not included in the measurement
	v.RenderFrames(1)

	var numFrames int
	var elapsed time.Duration

	runner := func() error {
		start := time.Now()
		for elapsed < dur {
			v.RenderFrames(1)
			numFrames++
			elapsed = time.Since(start)
		}
		return nil
	}

	if err := RunProfiler(profile, "performance", runner); err != nil {
		return fmt.Errorf("performance: %w", err)
	}

	spec := v.Scene().Spec()
	fps, accuracy := CalcFPS(spec, numFrames, elapsed.Seconds())
	fmt.Fprintf(output, "%s: %.2f fps (%d frames in %.2f seconds) %.1f%%\n",
		spec.ID, fps, numFrames, elapsed.Seconds(), accuracy)

	return nil
}
