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

package scene

import (
	"slices"
)

// lineRange is a range of scan lines. The bottom line is exclusive.
type lineRange struct {
	top    int
	bottom int
}

func (r lineRange) empty() bool {
	return r.top >= r.bottom
}

// update the bucket membership of a primitive to match its draw rectangle
func (m *Manager) updateBuckets(id int) {
	var nr lineRange
	if top, bottom, ok := m.prims[id].Core().VerticalRange(); ok {
		nr = lineRange{top: max(top, 0), bottom: min(bottom, len(m.buckets))}
	}
	if nr.empty() {
		nr = lineRange{}
	}
	m.moveRange(id, m.ranges[id], nr)
	m.ranges[id] = nr
}

// change bucket membership from the old range to the new range. only the
// lines in one range and not the other are touched
func (m *Manager) moveRange(id int, old lineRange, nr lineRange) {
	switch {
	case old.empty() && nr.empty():
	case old.empty():
		m.addLines(id, nr.top, nr.bottom)
	case nr.empty():
		m.removeLines(id, old.top, old.bottom)

	case nr.bottom <= old.top || nr.top >= old.bottom:
		// disjoint above or below
		m.removeLines(id, old.top, old.bottom)
		m.addLines(id, nr.top, nr.bottom)

	case nr.top < old.top && nr.bottom <= old.bottom:
		// overlapping the top of the old range
		m.addLines(id, nr.top, old.top)
		m.removeLines(id, nr.bottom, old.bottom)

	case nr.top >= old.top && nr.bottom <= old.bottom:
		// nested inside the old range
		m.removeLines(id, old.top, nr.top)
		m.removeLines(id, nr.bottom, old.bottom)

	case nr.top >= old.top:
		// overlapping the bottom of the old range
		m.removeLines(id, old.top, nr.top)
		m.addLines(id, old.bottom, nr.bottom)

	default:
		// grown to contain the old range
		m.addLines(id, nr.top, old.top)
		m.addLines(id, old.bottom, nr.bottom)
	}
}

// buckets are kept in ascending ID order
func (m *Manager) addLines(id int, top int, bottom int) {
	for y := top; y < bottom; y++ {
		b := m.buckets[y]
		i, found := slices.BinarySearch(b, id)
		if !found {
			m.buckets[y] = slices.Insert(b, i, id)
		}
	}
}

func (m *Manager) removeLines(id int, top int, bottom int) {
	for y := top; y < bottom; y++ {
		b := m.buckets[y]
		i, found := slices.BinarySearch(b, id)
		if found {
			m.buckets[y] = slices.Delete(b, i, i+1)
		}
	}
}

// Bucket returns the IDs of the primitives painted on the scan line, in the
// order they are painted.
func (m *Manager) Bucket(y int) []int {
	if y < 0 || y >= len(m.buckets) {
		return nil
	}
	return slices.Clone(m.buckets[y])
}
