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

package globals

import "github.com/arduino/go-paths-helper"

var (
	// LogLevel is the level set with --log-level
	LogLevel string
	// Verbose is true when logs are printed on stdout
	Verbose bool
	// ConfigFile is the path given with --config, empty for the default one
	ConfigFile string
	// CachePath is where remote sketches are downloaded when the config
	// file doesn't set a cache_dir
	CachePath = paths.TempDir().Join("arduino-hexuploader")
)
