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

// Package uploader writes compiled sketches to Arduino boards.
package uploader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os/exec"
	"time"

	"github.com/arduino/arduino-hexuploader/hardware"
	"github.com/arduino/arduino-hexuploader/intelhex"
	programmer "github.com/arduino/arduino-hexuploader/programmers"
	"github.com/arduino/arduino-hexuploader/sketchsource"
	"github.com/arduino/go-paths-helper"
	"github.com/sirupsen/logrus"
)

// SketchResolver turns a file name into a local file.
type SketchResolver interface {
	Resolve(ctx context.Context, name string) (*paths.Path, error)
}

// PortResetter puts a board in bootloader mode and returns the port to use.
type PortResetter interface {
	Reset(ctx context.Context, port string) (string, error)
}

// ExecOutput contains the output of the programmer.
type ExecOutput struct {
	Stdout string `json:"stdout"`
	Stderr string `json:"stderr"`
}

// Result describes a successful upload.
type Result struct {
	Board      string      `json:"board"`
	BoardID    string      `json:"board_id"`
	Port       string      `json:"port"`
	Image      string      `json:"image"`
	Bytes      int         `json:"bytes"`
	Programmer *ExecOutput `json:"programmer"`
}

func (r *Result) String() string {
	return fmt.Sprintf("Uploaded %d bytes of %s to %s on %s", r.Bytes, r.Image, r.Board, r.Port)
}

// Data implements feedback.Result interface
func (r *Result) Data() interface{} {
	return r
}

// Uploader uploads sketches described by UploadOptions.
type Uploader struct {
	programmer programmer.Programmer
	resolver   SketchResolver
	resetter   PortResetter
	stdout     io.Writer
	stderr     io.Writer
	verbose    bool
	sleep      func(ctx context.Context, d time.Duration) error
}

// Option configures an Uploader.
type Option func(*Uploader)

// WithSketchResolver sets how file names are turned into local files.
func WithSketchResolver(r SketchResolver) Option {
	return func(u *Uploader) { u.resolver = r }
}

// WithPortResetter sets how boards using a 1200bps touch are reset.
func WithPortResetter(r PortResetter) Option {
	return func(u *Uploader) { u.resetter = r }
}

// WithOutput forwards the programmer output to the given writers while it
// runs. The output is captured in the Result in any case.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(u *Uploader) {
		u.stdout = stdout
		u.stderr = stderr
	}
}

// WithVerbose asks the programmer for verbose output.
func WithVerbose(verbose bool) Option {
	return func(u *Uploader) { u.verbose = verbose }
}

// New creates an Uploader writing through p.
func New(p programmer.Programmer, opts ...Option) *Uploader {
	u := &Uploader{
		programmer: p,
		resolver:   sketchsource.New(),
		sleep:      sleepContext,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Upload writes the sketch named in opts to the board.
func (u *Uploader) Upload(ctx context.Context, opts *UploadOptions) (*Result, error) {
	logrus.WithField("options", opts.String()).Debug("Starting upload")

	model := opts.ArduinoModel()
	if !model.Valid() {
		return nil, &Error{KindInvalidOptions, "upload", fmt.Errorf("%w: %d", hardware.ErrUnknownModel, int(model))}
	}
	if opts.FileName() == "" {
		return nil, &Error{KindInvalidOptions, "upload", errors.New("missing sketch file name")}
	}
	if opts.PortName() == "" {
		return nil, &Error{KindNotConnected, "upload", errors.New("missing port name")}
	}

	sketch, err := u.resolver.Resolve(ctx, opts.FileName())
	if err != nil {
		if ctxErr := contextError(ctx, "resolving sketch"); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, &Error{KindSketchNotFound, "resolving sketch", err}
	}

	image, err := intelhex.ParseFile(sketch)
	if err != nil {
		return nil, &Error{KindInvalidImage, "reading sketch", err}
	}
	if flash := model.MCU().FlashSize(); image.MaxAddress() > uint64(flash) {
		return nil, &Error{KindImageTooLarge, "reading sketch",
			fmt.Errorf("image ends at 0x%X, %s has %d bytes of flash", image.MaxAddress(), model.MCU(), flash)}
	}
	logrus.Infof("Sketch %s: %d bytes", sketch, image.Size())

	port, err := u.preparePort(ctx, model, opts.PortName())
	if err != nil {
		return nil, err
	}

	stdout := new(bytes.Buffer)
	stderr := new(bytes.Buffer)
	req := &programmer.Request{
		Model:   model,
		Port:    port,
		Image:   sketch,
		Verbose: u.verbose,
		Stdout:  tee(stdout, u.stdout),
		Stderr:  tee(stderr, u.stderr),
	}
	if err := u.programmer.Program(ctx, req); err != nil {
		if ctxErr := contextError(ctx, "programming board"); ctxErr != nil {
			return nil, ctxErr
		}
		if programmerMissing(err) {
			return nil, &Error{KindProgrammerNotFound, "programming board", err}
		}
		return nil, &Error{KindCommunication, "programming board", err}
	}

	return &Result{
		Board:   model.String(),
		BoardID: model.ID(),
		Port:    port,
		Image:   sketch.String(),
		Bytes:   image.Size(),
		Programmer: &ExecOutput{
			Stdout: stdout.String(),
			Stderr: stderr.String(),
		},
	}, nil
}

func (u *Uploader) preparePort(ctx context.Context, model hardware.ArduinoModel, port string) (string, error) {
	if !model.PreOpenReset().Touch1200bps() {
		if err := u.sleep(ctx, model.Protocol().SleepAfterOpen()); err != nil {
			return "", contextError(ctx, "opening port")
		}
		return port, nil
	}
	if u.resetter == nil {
		logrus.Warnf("%s needs a 1200bps touch but no resetter is configured", model)
		return port, nil
	}
	logrus.Info("Putting board into bootloader mode")
	newPort, err := u.resetter.Reset(ctx, port)
	if err != nil {
		if ctxErr := contextError(ctx, "resetting board"); ctxErr != nil {
			return "", ctxErr
		}
		return "", &Error{KindNotConnected, "resetting board", err}
	}
	return newPort, nil
}

// contextError returns nil if ctx is still alive. An expired deadline is
// reported as a KindTimeout Error, a cancellation as is.
func contextError(ctx context.Context, op string) error {
	err := ctx.Err()
	if errors.Is(err, context.DeadlineExceeded) {
		return &Error{KindTimeout, op, err}
	}
	return err
}

// programmerMissing reports whether the programmer executable could not be
// started at all.
func programmerMissing(err error) bool {
	return errors.Is(err, exec.ErrNotFound) ||
		errors.Is(err, fs.ErrNotExist) ||
		errors.Is(err, fs.ErrPermission)
}

func tee(buf *bytes.Buffer, w io.Writer) io.Writer {
	if w == nil {
		return buf
	}
	return io.MultiWriter(buf, w)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
