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

package programmer

import (
	"context"
	"io"

	"github.com/arduino/arduino-cli/executils"
	"github.com/arduino/arduino-hexuploader/hardware"
	"github.com/arduino/go-paths-helper"
	"github.com/sirupsen/logrus"
)

// Request is what a Programmer needs to write an image to a board.
type Request struct {
	Model hardware.ArduinoModel
	Port  string
	Image *paths.Path
	// Verbose asks the programmer for a detailed log.
	Verbose bool

	Stdout io.Writer
	Stderr io.Writer
}

// Programmer writes firmware images to boards.
type Programmer interface {
	Program(ctx context.Context, req *Request) error
}

// Flash runs the programmer command line, forwarding its output to the
// given writers (nil writers discard the output).
func Flash(ctx context.Context, command []string, stdout, stderr io.Writer) error {
	logrus.Debugf("running %v", command)
	cmd, err := executils.NewProcess(nil, command...)
	if err != nil {
		return err
	}
	if stdout != nil {
		cmd.RedirectStdoutTo(stdout)
	}
	if stderr != nil {
		cmd.RedirectStderrTo(stderr)
	}
	return cmd.RunWithinContext(ctx)
}
