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

package uploader

import (
	"fmt"

	"github.com/arduino/arduino-hexuploader/hardware"
)

// UploadOptions holds the settings of a sketch upload. Setters store the
// value as is, checks are done by the Uploader. It is not safe for
// concurrent use.
//
// The zero value is ready to use: file and port are empty and the model is
// the first one declared in the hardware package.
type UploadOptions struct {
	fileName     string
	portName     string
	arduinoModel hardware.ArduinoModel
}

// NewUploadOptions returns options targeting the default board.
func NewUploadOptions() *UploadOptions {
	return &UploadOptions{arduinoModel: hardware.Models()[0]}
}

// FileName returns the sketch file name or URL, "" if unset.
func (o *UploadOptions) FileName() string { return o.fileName }

// SetFileName sets the sketch file name or URL.
func (o *UploadOptions) SetFileName(value string) { o.fileName = value }

// PortName returns the serial port of the board, "" if unset.
func (o *UploadOptions) PortName() string { return o.portName }

// SetPortName sets the serial port of the board.
func (o *UploadOptions) SetPortName(value string) { o.portName = value }

// ArduinoModel returns the target board, hardware.ArduinoUno unless set.
func (o *UploadOptions) ArduinoModel() hardware.ArduinoModel { return o.arduinoModel }

// SetArduinoModel sets the target board.
func (o *UploadOptions) SetArduinoModel(value hardware.ArduinoModel) { o.arduinoModel = value }

func (o *UploadOptions) String() string {
	return fmt.Sprintf("file=%q port=%q model=%s", o.fileName, o.portName, o.arduinoModel.ID())
}
