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

package arguments

import (
	"github.com/arduino/arduino-hexuploader/hardware"
	"github.com/arduino/arduino-hexuploader/uploader"
	"github.com/spf13/cobra"
)

// Flags contains various common flags.
// This is useful so all flags used by commands that need
// this information are consistent with each other.
type Flags struct {
	Port      string
	Board     string
	InputFile string
}

// AddToCommand adds the flags used to set port, board and sketch to the specified Command
func (f *Flags) AddToCommand(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.Port, "port", "p", "", "Upload port, e.g.: COM10, /dev/ttyACM0")
	cmd.Flags().StringVarP(&f.Board, "board", "b", "", "Board id or name, e.g.: auno, mg25, \"Arduino Leonardo\"")
	cmd.Flags().StringVarP(&f.InputFile, "input-file", "i", "", "Path or URL of the sketch to upload (.hex)")
}

// Apply overrides the values in opts with the flags that have been set.
func (f *Flags) Apply(opts *uploader.UploadOptions) error {
	if f.InputFile != "" {
		opts.SetFileName(f.InputFile)
	}
	if f.Port != "" {
		opts.SetPortName(f.Port)
	}
	if f.Board != "" {
		model, err := hardware.ParseModel(f.Board)
		if err != nil {
			return err
		}
		opts.SetArduinoModel(model)
	}
	return nil
}
