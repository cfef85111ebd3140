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

package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/arduino/arduino-hexuploader/cli/arguments"
	"github.com/arduino/arduino-hexuploader/cli/feedback"
	"github.com/arduino/arduino-hexuploader/cli/globals"
	"github.com/arduino/arduino-hexuploader/config"
	"github.com/arduino/arduino-hexuploader/ports"
	"github.com/arduino/arduino-hexuploader/programmers/avrdude"
	"github.com/arduino/arduino-hexuploader/sketchsource"
	"github.com/arduino/arduino-hexuploader/uploader"
	"github.com/arduino/go-paths-helper"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	commonFlags   arguments.Flags // contains port, board and input file
	retries       int
	avrdudePath   string
	avrdudeConfig string
)

// NewCommand created a new `upload` command
func NewCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "upload",
		Short: "Uploads a sketch to a board.",
		Long:  "Uploads a compiled sketch (Intel HEX) to the board connected at the specified port. Missing flags are taken from the config file.",
		Example: "" +
			"  " + os.Args[0] + " upload -p COM10 -i Blink.ino.hex\n" +
			"  " + os.Args[0] + " upload -p /dev/ttyACM0 -b leon -i https://example.com/Blink.ino.hex\n" +
			"  " + os.Args[0] + " upload -p /dev/ttyUSB0 -b mg25 -i s3://firmware/mega/Blink.ino.hex --retries 3\n",
		Args: cobra.NoArgs,
		Run:  runUpload,
	}
	commonFlags.AddToCommand(command)
	command.Flags().IntVar(&retries, "retries", 0, "Number of retries in case of upload failure (default from config, 9)")
	command.Flags().StringVar(&avrdudePath, "avrdude", "", "Path of the avrdude executable")
	command.Flags().StringVar(&avrdudeConfig, "avrdude-conf", "", "Path of the avrdude configuration file")
	return command
}

func runUpload(cmd *cobra.Command, args []string) {
	var configPath *paths.Path
	if globals.ConfigFile != "" {
		configPath = paths.New(globals.ConfigFile)
	}
	cfg, err := config.Load(configPath)
	if errors.Is(err, config.ErrNoConfigFile) {
		feedback.FatalError(err, feedback.ErrNoConfigFile)
	} else if err != nil {
		feedback.FatalError(err, feedback.ErrBadArgument)
	}
	applyFlags(cmd, cfg)
	if cfg.Retries < 1 {
		feedback.Fatal("Number of retries should be at least 1", feedback.ErrBadArgument)
	}

	opts := cfg.UploadOptions()
	if err := commonFlags.Apply(opts); err != nil {
		feedback.Fatal(fmt.Sprintf("Error during upload: %s", err), feedback.ErrBadArgument)
	}
	if opts.PortName() == "" {
		feedback.Fatal("Error during upload: missing port", feedback.ErrBadArgument)
	}
	if opts.FileName() == "" {
		feedback.Fatal("Error during upload: missing input file", feedback.ErrBadArgument)
	}
	logrus.Debugf("upload options: %s", opts)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var avrdudeConfigPath *paths.Path
	if cfg.Avrdude.Config != "" {
		avrdudeConfigPath = paths.New(cfg.Avrdude.Config)
	}
	programmer := avrdude.New(paths.New(cfg.Avrdude.Path), avrdudeConfigPath)
	if v, err := programmer.Version(ctx); err != nil {
		logrus.Warnf("Can't detect avrdude version: %s", err)
	} else {
		logrus.Infof("Using avrdude %s", v)
	}

	cacheDir := globals.CachePath
	if cfg.CacheDir != "" {
		cacheDir = paths.New(cfg.CacheDir)
	}
	resolver := sketchsource.New(
		sketchsource.WithCacheDir(cacheDir),
		sketchsource.WithS3Region(cfg.S3.Region),
	)

	var stdout, stderr io.Writer
	if feedback.GetFormat() == feedback.Text {
		stdout = os.Stdout
		stderr = os.Stderr
	}
	up := uploader.New(programmer,
		uploader.WithSketchResolver(resolver),
		uploader.WithPortResetter(ports.NewResetter()),
		uploader.WithOutput(stdout, stderr),
		uploader.WithVerbose(globals.Verbose),
	)

	res, err := uploadWithRetries(ctx, up, opts, cfg.Retries, time.Second)
	if err != nil {
		feedback.Fatal(fmt.Sprintf("Error during upload: %s", err), exitCode(err))
	}
	feedback.PrintResult(res)
}

// applyFlags copies the flags that have been set over the config values.
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("retries") {
		cfg.Retries = retries
	}
	if avrdudePath != "" {
		cfg.Avrdude.Path = avrdudePath
	}
	if avrdudeConfig != "" {
		cfg.Avrdude.Config = avrdudeConfig
	}
}

type sketchUploader interface {
	Upload(ctx context.Context, opts *uploader.UploadOptions) (*uploader.Result, error)
}

// uploadWithRetries runs the upload up to retries times, waiting wait
// between attempts. Errors that another attempt can't fix are returned
// immediately.
func uploadWithRetries(ctx context.Context, up sketchUploader, opts *uploader.UploadOptions, retries int, wait time.Duration) (*uploader.Result, error) {
	retry := 0
	for {
		retry++
		logrus.Infof("Uploading sketch (try %d of %d)", retry, retries)

		res, err := up.Upload(ctx, opts)
		if err == nil {
			logrus.Info("Operation completed: success! :-)")
			return res, nil
		}
		logrus.Error(err)

		if !retryable(err) || retry >= retries {
			logrus.Error("Operation failed. :-(")
			return nil, err
		}

		logrus.Infof("Waiting %s before retrying...", wait)
		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return nil, ctx.Err()
		case <-t.C:
		}
	}
}

func retryable(err error) bool {
	return uploader.IsKind(err, uploader.KindNotConnected) ||
		uploader.IsKind(err, uploader.KindCommunication) ||
		uploader.IsKind(err, uploader.KindTimeout)
}

func exitCode(err error) feedback.ExitCode {
	switch {
	case uploader.IsKind(err, uploader.KindInvalidOptions),
		uploader.IsKind(err, uploader.KindInvalidImage),
		uploader.IsKind(err, uploader.KindImageTooLarge):
		return feedback.ErrBadArgument
	case errors.Is(err, sketchsource.ErrNotFound):
		return feedback.ErrBadArgument
	case uploader.IsKind(err, uploader.KindSketchNotFound):
		return feedback.ErrNetwork
	case uploader.IsKind(err, uploader.KindProgrammerNotFound):
		return feedback.ErrCoreConfig
	case errors.Is(err, context.Canceled):
		return feedback.ErrGeneric
	}
	return feedback.ErrUploadFailed
}
