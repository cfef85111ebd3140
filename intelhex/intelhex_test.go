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

package intelhex

import (
	"strings"
	"testing"

	"github.com/arduino/go-paths-helper"
	"github.com/stretchr/testify/require"
)

func TestParseFile(t *testing.T) {
	img, err := ParseFile(paths.New("testdata", "blink.hex"))
	require.NoError(t, err)
	require.Len(t, img.Segments, 2)

	require.Equal(t, uint32(0), img.Segments[0].Address)
	require.Len(t, img.Segments[0].Data, 24)
	for i, b := range img.Segments[0].Data {
		require.Equal(t, byte(i), b)
	}
	require.Equal(t, uint32(0x40), img.Segments[1].Address)
	require.Equal(t, []byte{0xAA, 0xBB}, img.Segments[1].Data)

	require.Equal(t, 26, img.Size())
	require.Equal(t, uint64(0x42), img.MaxAddress())
	require.Nil(t, img.StartAddress)
}

func TestParseFileMissing(t *testing.T) {
	_, err := ParseFile(paths.New("testdata", "missing.hex"))
	require.Error(t, err)
}

func TestParseAddressRecords(t *testing.T) {
	in := strings.Join([]string{
		":020000040001F9",
		":0400000001020304F2",
		":020000022000DC",
		":0400000001020304F2",
		":0400000500000100F6",
		":00000001FF",
		":this is ignored",
	}, "\r\n")
	img, err := Parse(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, img.Segments, 2)
	require.Equal(t, uint32(0x10000), img.Segments[0].Address)
	require.Equal(t, uint32(0x20000), img.Segments[1].Address)
	require.Equal(t, 8, img.Size())
	require.Equal(t, uint64(0x20004), img.MaxAddress())
	require.NotNil(t, img.StartAddress)
	require.Equal(t, uint32(0x100), *img.StartAddress)
}

func TestParseTopOfAddressSpace(t *testing.T) {
	in := strings.Join([]string{
		":02000004FFFFFC",
		":10FFF000000102030405060708090A0B0C0D0E0F89",
		":020000040000FA",
		":02000000AABB99",
		":00000001FF",
	}, "\n")
	img, err := Parse(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, img.Segments, 2)
	require.Equal(t, uint32(0xFFFFFFF0), img.Segments[0].Address)
	require.Len(t, img.Segments[0].Data, 16)
	require.Equal(t, uint32(0), img.Segments[1].Address)
	require.Equal(t, []byte{0xAA, 0xBB}, img.Segments[1].Data)
	require.Equal(t, 18, img.Size())
	require.Equal(t, uint64(1)<<32, img.MaxAddress())
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		line int
	}{
		{"no start code", "10000000000102030405060708090A0B0C0D0E0F78", 1},
		{"bad digits", ":ZZ", 1},
		{"odd digits", ":0", 1},
		{"too short", ":0000", 1},
		{"count mismatch", ":05000000AABB59", 1},
		{"bad checksum", ":02004000AABB58", 1},
		{"unknown record", ":00000006FA", 1},
		{"bad extended address", ":0400000401020304EE", 1},
		{"missing eof", ":02004000AABB59\n\n", 2},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(test.in))
			var perr *ParseError
			require.ErrorAs(t, err, &perr)
			require.Equal(t, test.line, perr.Line)
		})
	}
}
