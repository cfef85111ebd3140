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

package avrdude

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/arduino/arduino-hexuploader/hardware"
	programmer "github.com/arduino/arduino-hexuploader/programmers"
	"github.com/arduino/go-paths-helper"
	"github.com/stretchr/testify/require"
)

func TestCommandLine(t *testing.T) {
	a := New(paths.New("/opt/avrdude/bin/avrdude"), paths.New("/opt/avrdude/etc/avrdude.conf"))
	cmd, err := a.CommandLine(&programmer.Request{
		Model: hardware.ArduinoUno,
		Port:  "/dev/ttyACM0",
		Image: paths.New("/tmp/sketches/Blink.uno.hex"),
	})
	require.NoError(t, err)
	require.Equal(t, []string{
		filepath.FromSlash("/opt/avrdude/bin/avrdude"),
		"-C" + filepath.FromSlash("/opt/avrdude/etc/avrdude.conf"),
		"-q",
		"-patmega328p",
		"-carduino",
		"-P/dev/ttyACM0",
		"-b115200",
		"-D",
		"-Uflash:w:" + filepath.FromSlash("/tmp/sketches/Blink.uno.hex") + ":i",
	}, cmd)
}

func TestCommandLineWithoutConfig(t *testing.T) {
	a := New(paths.New("avrdude"), nil)
	cmd, err := a.CommandLine(&programmer.Request{
		Model:   hardware.ArduinoMega2560,
		Port:    "COM4",
		Image:   paths.New("sketch with spaces.hex"),
		Verbose: true,
	})
	require.NoError(t, err)
	require.Equal(t, []string{
		"avrdude",
		"-v",
		"-patmega2560",
		"-cwiring",
		"-PCOM4",
		"-b115200",
		"-D",
		"-Uflash:w:sketch with spaces.hex:i",
	}, cmd)
}

func TestCommandLineErrors(t *testing.T) {
	a := New(paths.New("avrdude"), nil)
	_, err := a.CommandLine(&programmer.Request{Model: hardware.ArduinoModel(99), Image: paths.New("a.hex")})
	require.Error(t, err)
	_, err = a.CommandLine(&programmer.Request{Model: hardware.ArduinoUno})
	require.Error(t, err)
}

func TestProgram(t *testing.T) {
	a := New(paths.New("avrdude"), nil)
	var got []string
	a.flash = func(ctx context.Context, command []string, req *programmer.Request) error {
		got = command
		return nil
	}
	err := a.Program(context.Background(), &programmer.Request{
		Model: hardware.ArduinoLeonardo,
		Port:  "/dev/ttyACM1",
		Image: paths.New("a.hex"),
	})
	require.NoError(t, err)
	require.Contains(t, got, "-cavr109")
	require.Contains(t, got, "-b57600")

	a.flash = func(context.Context, []string, *programmer.Request) error {
		return errors.New("exit status 1")
	}
	err = a.Program(context.Background(), &programmer.Request{
		Model: hardware.ArduinoLeonardo,
		Port:  "/dev/ttyACM1",
		Image: paths.New("a.hex"),
	})
	require.EqualError(t, err, "running avrdude: exit status 1")
}

func TestParseVersion(t *testing.T) {
	v := parseVersion("Usage: avrdude [options]\n...\navrdude version 6.3-20190619, URL: <http://savannah.nongnu.org/projects/avrdude/>\n")
	require.NotNil(t, v)
	require.Contains(t, v.String(), "6.3")

	v = parseVersion("avrdude version 7.1, URL: <https://github.com/avrdudes/avrdude>")
	require.NotNil(t, v)
	require.Contains(t, v.String(), "7.1")

	require.Nil(t, parseVersion("command not found"))
}
