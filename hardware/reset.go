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
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ResetBehavior describes how the serial lines are toggled to reset a board,
// in the textual form used by the board table, e.g. "DTR;true",
// "DTR-RTS;50;250;false" or "1200bps". An empty value means no reset.
type ResetBehavior string

// ResetKind is the kind of line manipulation of a ResetBehavior.
type ResetKind int

const (
	ResetNone ResetKind = iota
	ResetDTR
	ResetDTRRTS
	ResetTouch1200bps
)

// ResetSequence is the parsed form of a ResetBehavior.
type ResetSequence struct {
	Kind ResetKind
	// Delays between the line transitions, only for ResetDTRRTS.
	Wait1, Wait2 time.Duration
	// Invert reports whether the lines are driven with inverted polarity.
	Invert bool
}

// Parse decodes the behavior.
func (r ResetBehavior) Parse() (*ResetSequence, error) {
	s := strings.TrimSpace(string(r))
	if s == "" || strings.EqualFold(s, "none") {
		return &ResetSequence{Kind: ResetNone}, nil
	}
	fields := strings.Split(s, ";")
	switch strings.ToUpper(fields[0]) {
	case "1200BPS":
		if len(fields) != 1 {
			return nil, fmt.Errorf("invalid reset behavior %q: 1200bps takes no arguments", s)
		}
		return &ResetSequence{Kind: ResetTouch1200bps}, nil
	case "DTR":
		seq := &ResetSequence{Kind: ResetDTR}
		if len(fields) > 2 {
			return nil, fmt.Errorf("invalid reset behavior %q: too many arguments", s)
		}
		if len(fields) == 2 {
			invert, err := strconv.ParseBool(fields[1])
			if err != nil {
				return nil, fmt.Errorf("invalid reset behavior %q: %w", s, err)
			}
			seq.Invert = invert
		}
		return seq, nil
	case "DTR-RTS":
		if len(fields) < 3 || len(fields) > 4 {
			return nil, fmt.Errorf("invalid reset behavior %q: expected DTR-RTS;<ms>;<ms>[;<invert>]", s)
		}
		seq := &ResetSequence{Kind: ResetDTRRTS}
		for i, dst := range []*time.Duration{&seq.Wait1, &seq.Wait2} {
			ms, err := strconv.Atoi(fields[i+1])
			if err != nil || ms < 0 {
				return nil, fmt.Errorf("invalid reset behavior %q: bad delay %q", s, fields[i+1])
			}
			*dst = time.Duration(ms) * time.Millisecond
		}
		if len(fields) == 4 {
			invert, err := strconv.ParseBool(fields[3])
			if err != nil {
				return nil, fmt.Errorf("invalid reset behavior %q: %w", s, err)
			}
			seq.Invert = invert
		}
		return seq, nil
	}
	return nil, fmt.Errorf("invalid reset behavior %q", s)
}

// Touch1200bps reports whether the behavior asks for the port to be opened
// at 1200 baud to enter the bootloader.
func (r ResetBehavior) Touch1200bps() bool {
	seq, err := r.Parse()
	return err == nil && seq.Kind == ResetTouch1200bps
}
