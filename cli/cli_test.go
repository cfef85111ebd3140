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

package cli

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestToLogLevel(t *testing.T) {
	lvl, found := toLogLevel("debug")
	require.True(t, found)
	require.Equal(t, logrus.DebugLevel, lvl)

	_, found = toLogLevel("verbose")
	require.False(t, found)
}

func TestNewCommand(t *testing.T) {
	cmd := NewCommand()
	names := []string{}
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	require.ElementsMatch(t, []string{"board", "port", "upload", "version"}, names)

	for _, flag := range []string{"format", "log-file", "log-format", "log-level", "verbose", "config"} {
		require.NotNil(t, cmd.PersistentFlags().Lookup(flag), flag)
	}
	require.Equal(t, "v", cmd.PersistentFlags().Lookup("verbose").Shorthand)
}
