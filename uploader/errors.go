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
	"errors"
	"fmt"
)

// Kind classifies upload failures.
type Kind int

const (
	KindInvalidOptions Kind = iota
	KindNotConnected
	KindSketchNotFound
	KindInvalidImage
	KindImageTooLarge
	KindCommunication
	KindTimeout
	KindProgrammerNotFound
)

func (k Kind) String() string {
	switch k {
	case KindInvalidOptions:
		return "invalid options"
	case KindNotConnected:
		return "not connected"
	case KindSketchNotFound:
		return "sketch not found"
	case KindInvalidImage:
		return "invalid image"
	case KindImageTooLarge:
		return "image too large"
	case KindCommunication:
		return "communication error"
	case KindTimeout:
		return "timeout"
	case KindProgrammerNotFound:
		return "programmer not found"
	}
	return "unknown"
}

// Error is returned by Upload.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsKind reports whether err is an upload Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var uerr *Error
	return errors.As(err, &uerr) && uerr.Kind == kind
}
