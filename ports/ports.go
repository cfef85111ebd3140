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

// Package ports lists serial ports and puts boards in bootloader mode.
package ports

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"go.bug.st/serial"
)

// List returns the serial ports available on the system.
func List() ([]string, error) {
	return serial.GetPortsList()
}

// Touch1200bps opens the port at 1200bps and drops DTR, which makes boards
// with native USB restart into their bootloader.
func Touch1200bps(port string) error {
	logrus.Infof("Touching port %s at 1200bps", port)

	p, err := serial.Open(port, &serial.Mode{BaudRate: 1200})
	if err != nil {
		return fmt.Errorf("opening port %s at 1200bps: %w", port, err)
	}
	defer p.Close()

	if err := p.SetDTR(false); err != nil {
		return fmt.Errorf("setting DTR off on %s: %w", port, err)
	}
	logrus.Debug("Set DTR off")

	// Wait a bit to allow restart of the board
	time.Sleep(200 * time.Millisecond)
	return nil
}

// Resetter kicks a board into bootloader mode and finds the port it comes
// back on.
type Resetter struct {
	// Timeout bounds the wait for the port to disappear and to reappear.
	Timeout      time.Duration
	PollInterval time.Duration

	list  func() ([]string, error)
	touch func(port string) error
}

// NewResetter returns a Resetter working on the real serial ports.
func NewResetter() *Resetter {
	return &Resetter{
		Timeout:      10 * time.Second,
		PollInterval: 100 * time.Millisecond,
		list:         List,
		touch:        Touch1200bps,
	}
}

// Reset touches port at 1200bps and waits for the board to re-enumerate.
// It returns the new port name, or the original one if the board didn't
// show up on a different port before the timeout. If ctx is done the
// context error is returned.
func (r *Resetter) Reset(ctx context.Context, port string) (string, error) {
	logrus.Info("Restarting in bootloader mode")

	before, err := r.list()
	if err != nil {
		return "", fmt.Errorf("getting port list before reset: %w", err)
	}
	if err := r.touch(port); err != nil {
		return "", err
	}

	waitCtx, cancel := context.WithTimeout(ctx, r.Timeout)
	defer cancel()

	// Wait for the port to disappear
	newPort := r.waitChange(waitCtx, before)

	// Wait for the port to reappear
	if newPort != "" {
		logrus.Debug("Wait for the port to reappear")
		after, err := r.list()
		if err == nil {
			newPort = r.waitChange(waitCtx, after)
		}
	}

	// only the expiry of our own timeout falls back to the original port
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if newPort == "" {
		logrus.Infof("No new port found, using %s", port)
		return port, nil
	}
	logrus.Infof("Found port to upload: %s", newPort)
	return newPort, nil
}

// waitChange polls the port list until it differs from ref, returning the
// port that differs, or "" when ctx expires.
func (r *Resetter) waitChange(ctx context.Context, ref []string) string {
	ticker := time.NewTicker(r.PollInterval)
	defer ticker.Stop()
	for {
		if ports, err := r.list(); err == nil {
			if port := differ(ports, ref); port != "" {
				return port
			}
		}
		select {
		case <-ctx.Done():
			return ""
		case <-ticker.C:
		}
	}
}

// differ returns the first item that differ between the two input slices
func differ(slice1 []string, slice2 []string) string {
	m := map[string]int{}

	for _, s1Val := range slice1 {
		m[s1Val] = 1
	}
	for _, s2Val := range slice2 {
		m[s2Val] = m[s2Val] + 1
	}

	for _, slice := range [][]string{slice1, slice2} {
		for _, s := range slice {
			if m[s] == 1 {
				return s
			}
		}
	}

	return ""
}
