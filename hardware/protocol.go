/*
	arduino-hexuploader
	Copyright (c) 2023 Arduino LLC.  All right reserved.

	This program is free software: you can redistribute it and/or modify
	it under the terms of the GNU Affero General Public License as published
	by the Free Software Foundation, either version 3 of the License, or
	(at your option) any later version.

	This program is distributed in the hope that it will be useful,
	but WITHOUT ANY WARRANTY; without even the implied warranty of
	MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
	GNU Affero General Public License for more details.

	You should have received a copy of the GNU Affero General Public License
	along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/

package hardware

import "time"

// Protocol is the bootloader protocol spoken by a board.
type Protocol int

const (
	Stk500v1 Protocol = iota
	Stk500v2
	Avr109
)

func (p Protocol) String() string {
	switch p {
	case Stk500v1:
		return "stk500v1"
	case Stk500v2:
		return "stk500v2"
	case Avr109:
		return "avr109"
	}
	return "unknown"
}

// ProgrammerID returns the avrdude programmer (-c) matching the protocol.
func (p Protocol) ProgrammerID() string {
	switch p {
	case Stk500v1:
		return "arduino"
	case Stk500v2:
		return "wiring"
	case Avr109:
		return "avr109"
	}
	return ""
}

// SleepAfterOpen is how long to wait after opening the port before talking
// to the bootloader.
func (p Protocol) SleepAfterOpen() time.Duration {
	if p == Avr109 {
		return 0
	}
	return 250 * time.Millisecond
}
