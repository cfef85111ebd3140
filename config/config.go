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

// Package config loads the defaults file of the uploader.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/arduino/arduino-hexuploader/hardware"
	"github.com/arduino/arduino-hexuploader/uploader"
	"github.com/arduino/go-paths-helper"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// DefaultFileName is the name of the configuration file in the user home.
const DefaultFileName = ".arduino-hexuploader.yaml"

// ErrNoConfigFile is returned when an explicitly requested file is missing.
var ErrNoConfigFile = errors.New("config file not found")

// Config contains the defaults used when flags are not given.
type Config struct {
	Port     string                 `yaml:"port"`
	Board    *hardware.ArduinoModel `yaml:"board"`
	File     string                 `yaml:"file"`
	Retries  int                    `yaml:"retries"`
	CacheDir string                 `yaml:"cache_dir"`
	Avrdude  Avrdude                `yaml:"avrdude"`
	S3       S3                     `yaml:"s3"`
}

// Avrdude locates the avrdude installation.
type Avrdude struct {
	Path   string `yaml:"path"`
	Config string `yaml:"config"`
}

type S3 struct {
	Region string `yaml:"region"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Retries: 9,
		Avrdude: Avrdude{Path: "avrdude"},
	}
}

// DefaultPath returns the path of the configuration file in the user home,
// or nil if the home dir can't be determined.
func DefaultPath() *paths.Path {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	return paths.New(home, DefaultFileName)
}

// Load reads the configuration at path over the defaults. If path is nil the
// default location is used and a missing file is not an error.
func Load(path *paths.Path) (*Config, error) {
	cfg := Default()
	explicit := path != nil
	if !explicit {
		path = DefaultPath()
		if path == nil {
			return cfg, nil
		}
	}

	data, err := path.ReadFile()
	if errors.Is(err, os.ErrNotExist) {
		if explicit {
			return nil, fmt.Errorf("%w: %s", ErrNoConfigFile, path)
		}
		logrus.Debugf("no config file at %s", path)
		return cfg, nil
	} else if err != nil {
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	if cfg.Retries < 1 {
		return nil, fmt.Errorf("invalid config file %s: retries must be at least 1", path)
	}
	logrus.WithField("file", path).Info("Loaded config file")
	return cfg, nil
}

// UploadOptions returns options prefilled with the configured defaults.
func (c *Config) UploadOptions() *uploader.UploadOptions {
	opts := uploader.NewUploadOptions()
	opts.SetFileName(c.File)
	opts.SetPortName(c.Port)
	if c.Board != nil {
		opts.SetArduinoModel(*c.Board)
	}
	return opts
}
