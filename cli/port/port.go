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

package port

import (
	"fmt"
	"os"

	"github.com/arduino/arduino-cli/table"
	"github.com/arduino/arduino-hexuploader/cli/feedback"
	"github.com/arduino/arduino-hexuploader/ports"
	"github.com/spf13/cobra"
)

// NewCommand created a new `port` command
func NewCommand() *cobra.Command {
	command := &cobra.Command{
		Use:     "port",
		Short:   "Commands about serial ports.",
		Long:    "A subset of commands to inspect the serial ports boards are connected to.",
		Example: "  " + os.Args[0] + " port list",
	}
	command.AddCommand(&cobra.Command{
		Use:     "list",
		Short:   "List serial ports",
		Long:    "Displays the serial ports available on the system.",
		Example: "  " + os.Args[0] + " port list",
		Args:    cobra.NoArgs,
		Run:     runList,
	})
	return command
}

type PortListResult []string

func runList(cmd *cobra.Command, args []string) {
	list, err := ports.List()
	if err != nil {
		feedback.Fatal(fmt.Sprintf("Error getting port list: %s", err), feedback.ErrGeneric)
	}
	feedback.PrintResult(PortListResult(list))
}

func (p PortListResult) String() string {
	if len(p) == 0 {
		return "No serial ports found."
	}
	t := table.New()
	t.SetHeader("Port")
	for _, port := range p {
		t.AddRow(port)
	}
	return t.Render()
}

func (p PortListResult) Data() interface{} {
	if p == nil {
		return []string{}
	}
	return []string(p)
}
