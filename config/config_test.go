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

package config

import (
	"testing"

	"github.com/arduino/arduino-hexuploader/hardware"
	"github.com/arduino/go-paths-helper"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	cfg, err := Load(paths.New("testdata", "full.yaml"))
	require.NoError(t, err)
	require.Equal(t, "/dev/ttyACM0", cfg.Port)
	require.NotNil(t, cfg.Board)
	require.Equal(t, hardware.ArduinoMega2560, *cfg.Board)
	require.Equal(t, "s3://firmware/mega/blink.hex", cfg.File)
	require.Equal(t, 3, cfg.Retries)
	require.Equal(t, "/opt/avrdude/bin/avrdude", cfg.Avrdude.Path)
	require.Equal(t, "/opt/avrdude/etc/avrdude.conf", cfg.Avrdude.Config)
	require.Equal(t, "eu-west-1", cfg.S3.Region)

	opts := cfg.UploadOptions()
	require.Equal(t, "/dev/ttyACM0", opts.PortName())
	require.Equal(t, "s3://firmware/mega/blink.hex", opts.FileName())
	require.Equal(t, hardware.ArduinoMega2560, opts.ArduinoModel())
}

func TestLoadPartial(t *testing.T) {
	cfg, err := Load(paths.New("testdata", "partial.yaml"))
	require.NoError(t, err)
	require.Equal(t, "COM3", cfg.Port)
	require.Nil(t, cfg.Board)
	require.Equal(t, 9, cfg.Retries)
	require.Equal(t, "avrdude", cfg.Avrdude.Path)

	opts := cfg.UploadOptions()
	require.Equal(t, hardware.ArduinoUno, opts.ArduinoModel())
	require.Equal(t, "", opts.FileName())
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(paths.New("testdata", "missing.yaml"))
	require.ErrorIs(t, err, ErrNoConfigFile)

	_, err = Load(paths.New("testdata", "bad_board.yaml"))
	require.ErrorIs(t, err, hardware.ErrUnknownModel)

	_, err = Load(paths.New("testdata", "bad_retries.yaml"))
	require.ErrorContains(t, err, "retries")
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.Equal(t, 9, cfg.Retries)
	opts := cfg.UploadOptions()
	require.Equal(t, hardware.Models()[0], opts.ArduinoModel())
}
