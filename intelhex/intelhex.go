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

// Package intelhex reads firmware images in the Intel HEX format produced by
// the AVR toolchain.
package intelhex

import (
	"bufio"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/arduino/go-paths-helper"
)

const (
	recordData                   = 0x00
	recordEOF                    = 0x01
	recordExtendedSegmentAddress = 0x02
	recordStartSegmentAddress    = 0x03
	recordExtendedLinearAddress  = 0x04
	recordStartLinearAddress     = 0x05
)

// Segment is a contiguous block of data.
type Segment struct {
	Address uint32
	Data    []byte
}

// Image is the content of a HEX file.
type Image struct {
	Segments []*Segment
	// StartAddress is set if the file contains a start address record.
	StartAddress *uint32
}

// ParseError reports a malformed line.
type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("intel hex line %d: %s", e.Line, e.Msg)
}

// ParseFile reads the HEX file at path.
func ParseFile(path *paths.Path) (*Image, error) {
	f, err := path.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads a HEX stream until the end of file record.
func Parse(r io.Reader) (*Image, error) {
	img := &Image{}
	scanner := bufio.NewScanner(r)
	var base uint32
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line[0] != ':' {
			return nil, &ParseError{lineNum, "missing start code"}
		}
		raw, err := hex.DecodeString(line[1:])
		if err != nil {
			return nil, &ParseError{lineNum, "invalid hex digits"}
		}
		if len(raw) < 5 {
			return nil, &ParseError{lineNum, "record too short"}
		}
		count := int(raw[0])
		if len(raw) != count+5 {
			return nil, &ParseError{lineNum, fmt.Sprintf("byte count %d does not match record length", count)}
		}
		var sum byte
		for _, b := range raw {
			sum += b
		}
		if sum != 0 {
			return nil, &ParseError{lineNum, "checksum mismatch"}
		}

		offset := uint32(binary.BigEndian.Uint16(raw[1:3]))
		data := raw[4 : 4+count]
		switch raw[3] {
		case recordData:
			img.add(base+offset, data)
		case recordEOF:
			return img, nil
		case recordExtendedSegmentAddress:
			if count != 2 {
				return nil, &ParseError{lineNum, "extended segment address must be 2 bytes"}
			}
			base = uint32(binary.BigEndian.Uint16(data)) << 4
		case recordExtendedLinearAddress:
			if count != 2 {
				return nil, &ParseError{lineNum, "extended linear address must be 2 bytes"}
			}
			base = uint32(binary.BigEndian.Uint16(data)) << 16
		case recordStartSegmentAddress, recordStartLinearAddress:
			if count != 4 {
				return nil, &ParseError{lineNum, "start address must be 4 bytes"}
			}
			start := binary.BigEndian.Uint32(data)
			img.StartAddress = &start
		default:
			return nil, &ParseError{lineNum, fmt.Sprintf("unknown record type %02X", raw[3])}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return nil, &ParseError{lineNum, "missing end of file record"}
}

func (img *Image) add(address uint32, data []byte) {
	if len(data) == 0 {
		return
	}
	if n := len(img.Segments); n > 0 {
		last := img.Segments[n-1]
		if last.end() == uint64(address) {
			last.Data = append(last.Data, data...)
			return
		}
	}
	img.Segments = append(img.Segments, &Segment{
		Address: address,
		Data:    append([]byte(nil), data...),
	})
}

// Size returns the number of data bytes in the image.
func (img *Image) Size() int {
	size := 0
	for _, s := range img.Segments {
		size += len(s.Data)
	}
	return size
}

// MaxAddress returns the address following the last byte of the image.
// Data ending at the top of the 32-bit space gives 1<<32.
func (img *Image) MaxAddress() uint64 {
	var max uint64
	for _, s := range img.Segments {
		if end := s.end(); end > max {
			max = end
		}
	}
	return max
}

func (s *Segment) end() uint64 {
	return uint64(s.Address) + uint64(len(s.Data))
}
