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

// MCU identifies the microcontroller mounted on a board.
type MCU int

const (
	ATmega168 MCU = iota
	ATmega328P
	ATmega32U4
	ATmega1284
	ATmega2560
)

type mcuInfo struct {
	name      string
	partID    string
	flashSize int
}

var mcus = map[MCU]mcuInfo{
	ATmega168:  {name: "ATmega168", partID: "atmega168", flashSize: 16 * 1024},
	ATmega328P: {name: "ATmega328P", partID: "atmega328p", flashSize: 32 * 1024},
	ATmega32U4: {name: "ATmega32U4", partID: "atmega32u4", flashSize: 32 * 1024},
	ATmega1284: {name: "ATmega1284", partID: "atmega1284p", flashSize: 128 * 1024},
	ATmega2560: {name: "ATmega2560", partID: "atmega2560", flashSize: 256 * 1024},
}

func (m MCU) String() string {
	if info, ok := mcus[m]; ok {
		return info.name
	}
	return "unknown"
}

// PartID returns the part name avrdude expects after -p.
func (m MCU) PartID() string {
	return mcus[m].partID
}

// FlashSize returns the size of the program memory in bytes.
func (m MCU) FlashSize() int {
	return mcus[m].flashSize
}
