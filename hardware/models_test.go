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

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestModelsOrder(t *testing.T) {
	list := Models()
	require.Len(t, list, 25)
	require.Equal(t, ArduinoUno, list[0])
	require.Equal(t, PocketDuino, list[len(list)-1])

	var zero ArduinoModel
	require.Equal(t, list[0], zero)

	// Models returns a copy
	list[0] = Balanduino
	require.Equal(t, ArduinoUno, Models()[0])
}

func TestModelsAreConsistent(t *testing.T) {
	ids := map[string]bool{}
	for _, m := range Models() {
		require.True(t, m.Valid())
		require.Len(t, m.ID(), 4, m.Name())
		require.False(t, ids[m.ID()], "duplicated id %s", m.ID())
		ids[m.ID()] = true
		require.NotEmpty(t, m.String())
		require.NotEmpty(t, m.MCU().PartID())
		require.NotZero(t, m.BaudRate())
		require.NotEmpty(t, m.Protocol().ProgrammerID())
		for _, r := range []ResetBehavior{m.PreOpenReset(), m.CloseReset(), m.PostOpenReset()} {
			_, err := r.Parse()
			require.NoError(t, err, "%s: %q", m.Name(), r)
		}
	}
}

func TestModelAttributes(t *testing.T) {
	require.Equal(t, "auno", ArduinoUno.ID())
	require.Equal(t, "Arduino Uno", ArduinoUno.String())
	require.Equal(t, ATmega328P, ArduinoUno.MCU())
	require.Equal(t, Stk500v1, ArduinoUno.Protocol())
	require.Equal(t, 115200, ArduinoUno.BaudRate())

	require.Equal(t, Stk500v2, ArduinoMega2560.Protocol())
	require.Equal(t, "wiring", ArduinoMega2560.Protocol().ProgrammerID())
	require.Equal(t, 256*1024, ArduinoMega2560.MCU().FlashSize())

	require.Equal(t, Avr109, ArduinoLeonardo.Protocol())
	require.True(t, ArduinoLeonardo.PreOpenReset().Touch1200bps())
	require.False(t, ArduinoUno.PreOpenReset().Touch1200bps())

	require.Equal(t, time.Duration(0), Avr109.SleepAfterOpen())
	require.Equal(t, 250*time.Millisecond, Stk500v1.SleepAfterOpen())
}

func TestInvalidModel(t *testing.T) {
	m := ArduinoModel(100)
	require.False(t, m.Valid())
	require.Equal(t, "", m.ID())
	require.Equal(t, "ArduinoModel(100)", m.String())
	_, err := m.MarshalText()
	require.ErrorIs(t, err, ErrUnknownModel)
	require.False(t, ArduinoModel(-1).Valid())
}

func TestParseModel(t *testing.T) {
	for _, in := range []string{"auno", "AUNO", "ArduinoUno", "arduino uno", " Arduino Uno "} {
		m, err := ParseModel(in)
		require.NoError(t, err, in)
		require.Equal(t, ArduinoUno, m, in)
	}
	m, err := ParseModel("Arduino Pro or Pro Mini (3.3V, 8MHz) ATmega168")
	require.NoError(t, err)
	require.Equal(t, ArduinoPro33V168, m)

	_, err = ParseModel("esp32")
	require.ErrorIs(t, err, ErrUnknownModel)
	require.Contains(t, err.Error(), "esp32")

	for _, m := range Models() {
		parsed, err := ParseModel(m.ID())
		require.NoError(t, err)
		require.Equal(t, m, parsed)
	}
}

func TestModelTextEncoding(t *testing.T) {
	type doc struct {
		Board ArduinoModel `json:"board" yaml:"board"`
	}

	data, err := json.Marshal(doc{Board: ArduinoMicro})
	require.NoError(t, err)
	require.JSONEq(t, `{"board":"micr"}`, string(data))

	var d doc
	require.NoError(t, yaml.Unmarshal([]byte("board: Arduino Leonardo\n"), &d))
	require.Equal(t, ArduinoLeonardo, d.Board)

	require.Error(t, yaml.Unmarshal([]byte("board: teensy\n"), &d))
}
