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

// Package hardware contains the closed set of boards the uploader can target.
package hardware

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/exp/slices"
)

// ErrUnknownModel is returned when a board can't be found by name.
var ErrUnknownModel = errors.New("unknown arduino model")

// ArduinoModel is a supported board. The zero value is ArduinoUno, the first
// declared model.
type ArduinoModel int

const (
	ArduinoUno ArduinoModel = iota
	ArduinoDuemilanove328
	ArduinoDuemilanove168
	ArduinoNano328
	ArduinoNano168
	ArduinoMega2560
	ArduinoLeonardo
	ArduinoEsplora
	ArduinoMicro
	ArduinoMini328
	ArduinoMini168
	ArduinoEthernet
	ArduinoFio
	ArduinoBT328
	ArduinoBT168
	LilyPadUSB
	LilyPad328
	LilyPad168
	ArduinoPro5V328
	ArduinoPro5V168
	ArduinoPro33V328
	ArduinoPro33V168
	ArduinoNG168
	Balanduino
	PocketDuino
)

type board struct {
	constName     string
	id            string
	mcu           MCU
	protocol      Protocol
	baudRate      int
	name          string
	preOpenReset  ResetBehavior
	closeReset    ResetBehavior
	postOpenReset ResetBehavior
}

// indexed by ArduinoModel
var boards = []board{
	{"ArduinoUno", "auno", ATmega328P, Stk500v1, 115200, "Arduino Uno", "DTR;true", "DTR-RTS;50;250;false", ""},
	{"ArduinoDuemilanove328", "duem", ATmega328P, Stk500v1, 57600, "Arduino Duemilanove ATmega328", "DTR;true", "DTR-RTS;250;50", ""},
	{"ArduinoDuemilanove168", "diec", ATmega168, Stk500v1, 19200, "Arduino Diecimila or Duemilanove ATmega168", "DTR;true", "DTR-RTS;250;50", ""},
	{"ArduinoNano328", "na32", ATmega328P, Stk500v1, 57600, "Arduino Nano ATmega328", "DTR;true", "DTR-RTS;250;50", ""},
	{"ArduinoNano168", "na16", ATmega168, Stk500v1, 57600, "Arduino Nano ATmega168", "DTR;true", "DTR-RTS;250;50", ""},
	{"ArduinoMega2560", "mg25", ATmega2560, Stk500v2, 115200, "Arduino Mega 2560 or ADK", "DTR-RTS;50;250;true", "", "DTR-RTS;250;50;true"},
	{"ArduinoLeonardo", "leon", ATmega32U4, Avr109, 57600, "Arduino Leonardo", "1200bps", "", ""},
	{"ArduinoEsplora", "espl", ATmega32U4, Avr109, 57600, "Arduino Esplora", "1200bps", "", ""},
	{"ArduinoMicro", "micr", ATmega32U4, Avr109, 57600, "Arduino Micro", "1200bps", "", ""},
	{"ArduinoMini328", "mn32", ATmega328P, Stk500v1, 57600, "Arduino Mini ATmega328", "DTR;true", "DTR-RTS;250;50", ""},
	{"ArduinoMini168", "mn16", ATmega168, Stk500v1, 57600, "Arduino Mini ATmega168", "DTR;true", "DTR-RTS;250;50", ""},
	{"ArduinoEthernet", "ethe", ATmega328P, Stk500v1, 115200, "Arduino Ethernet", "DTR;true", "DTR-RTS;50;250;false", ""},
	{"ArduinoFio", "afio", ATmega328P, Stk500v1, 57600, "Arduino Fio", "DTR;true", "DTR-RTS;250;50", ""},
	{"ArduinoBT328", "bt32", ATmega328P, Stk500v1, 19200, "Arduino BT ATmega328", "DTR;true", "DTR-RTS;250;50", ""},
	{"ArduinoBT168", "bt16", ATmega168, Stk500v1, 19200, "Arduino BT ATmega168", "DTR;true", "DTR-RTS;250;50", ""},
	{"LilyPadUSB", "lpus", ATmega32U4, Avr109, 57600, "LilyPad Arduino USB", "1200bps", "", ""},
	{"LilyPad328", "lp32", ATmega328P, Stk500v1, 57600, "LilyPad Arduino ATmega328", "DTR;true", "DTR-RTS;250;50", ""},
	{"LilyPad168", "lp16", ATmega168, Stk500v1, 19200, "LilyPad Arduino ATmega168", "DTR;true", "DTR-RTS;250;50", ""},
	{"ArduinoPro5V328", "pm53", ATmega328P, Stk500v1, 57600, "Arduino Pro or Pro Mini (5V, 16MHz) ATmega328", "DTR;true", "DTR-RTS;250;50", ""},
	{"ArduinoPro5V168", "pm51", ATmega168, Stk500v1, 19200, "Arduino Pro or Pro Mini (5V, 16MHz) ATmega168", "DTR;true", "DTR-RTS;250;50", ""},
	{"ArduinoPro33V328", "pm33", ATmega328P, Stk500v1, 57600, "Arduino Pro or Pro Mini (3.3V, 8MHz) ATmega328", "DTR;true", "DTR-RTS;250;50", ""},
	{"ArduinoPro33V168", "pm31", ATmega168, Stk500v1, 19200, "Arduino Pro or Pro Mini (3.3V, 8MHz) ATmega168", "DTR;true", "DTR-RTS;250;50", ""},
	{"ArduinoNG168", "ng16", ATmega168, Stk500v1, 19200, "Arduino NG or older ATmega168", "DTR;true", "DTR-RTS;250;50", ""},
	{"Balanduino", "bala", ATmega1284, Stk500v1, 115200, "Balanduino", "DTR;true", "DTR-RTS;250;50", ""},
	{"PocketDuino", "podu", ATmega328P, Stk500v1, 57600, "PocketDuino", "DTR;true", "DTR-RTS;250;50", ""},
}

var models = func() []ArduinoModel {
	res := make([]ArduinoModel, len(boards))
	for i := range boards {
		res[i] = ArduinoModel(i)
	}
	return res
}()

// Models returns all the supported boards in declaration order.
func Models() []ArduinoModel {
	return slices.Clone(models)
}

// Valid reports whether m is one of the declared models.
func (m ArduinoModel) Valid() bool {
	return m >= 0 && int(m) < len(boards)
}

func (m ArduinoModel) info() board {
	if !m.Valid() {
		return board{}
	}
	return boards[m]
}

// ID returns the short identifier of the board, e.g. "auno".
func (m ArduinoModel) ID() string { return m.info().id }

// Name returns the Go-style name of the model, e.g. "ArduinoUno".
func (m ArduinoModel) Name() string { return m.info().constName }

// String returns the human readable board name.
func (m ArduinoModel) String() string {
	if !m.Valid() {
		return fmt.Sprintf("ArduinoModel(%d)", int(m))
	}
	return boards[m].name
}

// MCU returns the microcontroller of the board.
func (m ArduinoModel) MCU() MCU { return m.info().mcu }

// Protocol returns the protocol spoken by the bootloader.
func (m ArduinoModel) Protocol() Protocol { return m.info().protocol }

// BaudRate returns the upload speed of the bootloader.
func (m ArduinoModel) BaudRate() int { return m.info().baudRate }

// PreOpenReset is applied before the port is opened for upload.
func (m ArduinoModel) PreOpenReset() ResetBehavior { return m.info().preOpenReset }

// CloseReset is applied when the port is closed.
func (m ArduinoModel) CloseReset() ResetBehavior { return m.info().closeReset }

// PostOpenReset is applied right after the port is opened.
func (m ArduinoModel) PostOpenReset() ResetBehavior { return m.info().postOpenReset }

// ParseModel looks up a board by id, Go-style name or display name,
// ignoring case.
func ParseModel(s string) (ArduinoModel, error) {
	s = strings.TrimSpace(s)
	idx := slices.IndexFunc(boards, func(b board) bool {
		return strings.EqualFold(b.id, s) || strings.EqualFold(b.constName, s) || strings.EqualFold(b.name, s)
	})
	if idx < 0 {
		return 0, fmt.Errorf("%w: %s", ErrUnknownModel, s)
	}
	return ArduinoModel(idx), nil
}

// MarshalText implements encoding.TextMarshaler using the board id.
func (m ArduinoModel) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownModel, int(m))
	}
	return []byte(boards[m].id), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *ArduinoModel) UnmarshalText(text []byte) error {
	parsed, err := ParseModel(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
