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
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/arduino/arduino-cli/executils"
	programmer "github.com/arduino/arduino-hexuploader/programmers"
	"github.com/arduino/go-paths-helper"
	"github.com/arduino/go-properties-orderedmap"
	"github.com/sirupsen/logrus"
	semver "go.bug.st/relaxed-semver"
)

// DefaultPattern is the avrdude command line used to write a sketch through
// the board bootloader.
const DefaultPattern = `"{path}" {config.flag} {verbose} -p{mcu} -c{protocol} "-P{serial.port}" -b{upload.speed} -D "-Uflash:w:{build.path}:i"`

// Avrdude runs the avrdude programmer.
type Avrdude struct {
	path       *paths.Path
	configPath *paths.Path
	pattern    string
	flash      func(ctx context.Context, command []string, req *programmer.Request) error
}

// New returns an Avrdude using the executable at path. configPath may be nil
// to let avrdude use its built-in configuration file.
func New(path, configPath *paths.Path) *Avrdude {
	return &Avrdude{
		path:       path,
		configPath: configPath,
		pattern:    DefaultPattern,
		flash: func(ctx context.Context, command []string, req *programmer.Request) error {
			return programmer.Flash(ctx, command, req.Stdout, req.Stderr)
		},
	}
}

// CommandLine builds the avrdude invocation for req.
func (a *Avrdude) CommandLine(req *programmer.Request) ([]string, error) {
	if !req.Model.Valid() {
		return nil, fmt.Errorf("invalid board: %s", req.Model)
	}
	if req.Image == nil {
		return nil, errors.New("missing image to upload")
	}
	configFlag := ""
	if a.configPath != nil {
		configFlag = `"-C` + filepath.FromSlash(a.configPath.String()) + `"`
	}
	verbose := "-q"
	if req.Verbose {
		verbose = "-v"
	}

	cmdLine := a.pattern
	cmdLine = strings.ReplaceAll(cmdLine, "{path}", filepath.FromSlash(a.path.String()))
	cmdLine = strings.ReplaceAll(cmdLine, "{config.flag}", configFlag)
	cmdLine = strings.ReplaceAll(cmdLine, "{verbose}", verbose)
	cmdLine = strings.ReplaceAll(cmdLine, "{mcu}", req.Model.MCU().PartID())
	cmdLine = strings.ReplaceAll(cmdLine, "{protocol}", req.Model.Protocol().ProgrammerID())
	cmdLine = strings.ReplaceAll(cmdLine, "{serial.port}", req.Port)
	cmdLine = strings.ReplaceAll(cmdLine, "{upload.speed}", strconv.Itoa(req.Model.BaudRate()))
	cmdLine = strings.ReplaceAll(cmdLine, "{build.path}", filepath.FromSlash(req.Image.String()))

	logrus.Debugf("uploading with command: %s", cmdLine)
	commandLine, err := properties.SplitQuotedString(cmdLine, `"`, false)
	if err != nil {
		return nil, fmt.Errorf("splitting command line %q: %w", cmdLine, err)
	}
	return commandLine, nil
}

// Program writes req.Image to the board.
func (a *Avrdude) Program(ctx context.Context, req *programmer.Request) error {
	commandLine, err := a.CommandLine(req)
	if err != nil {
		return err
	}
	logrus.Infof("Flashing %s", req.Image)
	if err := a.flash(ctx, commandLine, req); err != nil {
		return fmt.Errorf("running avrdude: %w", err)
	}
	return nil
}

var versionRegexp = regexp.MustCompile(`avrdude version ([^\s,]+)`)

// Version asks avrdude for its version.
func (a *Avrdude) Version(ctx context.Context) (*semver.RelaxedVersion, error) {
	proc, err := executils.NewProcessFromPath(nil, a.path, "-?")
	if err != nil {
		return nil, err
	}
	// avrdude prints its usage on stderr and may exit with a non-zero status
	stdout, stderr, runErr := proc.RunAndCaptureOutput(ctx)
	if v := parseVersion(string(stdout) + string(stderr)); v != nil {
		return v, nil
	}
	if runErr != nil {
		return nil, fmt.Errorf("querying avrdude version: %w", runErr)
	}
	return nil, errors.New("avrdude version not found in output")
}

func parseVersion(output string) *semver.RelaxedVersion {
	match := versionRegexp.FindStringSubmatch(output)
	if match == nil {
		return nil
	}
	return semver.ParseRelaxed(match[1])
}
