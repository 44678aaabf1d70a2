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


package gui

// KeyMod identifies the modifier key held during a keyboard event.
type KeyMod int

// list of valid key modifiers
const (
	KeyModNone KeyMod = iota
	KeyModShift
	KeyModCtrl
	KeyModAlt
)

// Event is passed over the event channel. The concrete types are listed
// below.
type Event interface{}

// EventWindowClose is sent when the user has closed the window.
type EventWindowClose struct{}

// EventKeyboard is sent when a key is pressed or released.
type EventKeyboard struct {
	Key  string
	Down bool
	Mod  KeyMod
}

// EventText is sent with the characters produced by key presses, after
// keyboard layout and modifiers have been applied.
type EventText struct {
	Text string
}
