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

package board

import (
	"os"
	"strconv"
	"strings"

	"github.com/arduino/arduino-cli/table"
	"github.com/arduino/arduino-hexuploader/cli/feedback"
	"github.com/arduino/arduino-hexuploader/hardware"
	"github.com/spf13/cobra"
)

// NewCommand created a new `board` command
func NewCommand() *cobra.Command {
	command := &cobra.Command{
		Use:     "board",
		Short:   "Commands about supported boards.",
		Long:    "A subset of commands to list the boards that can be programmed.",
		Example: "  " + os.Args[0] + " board list",
	}
	command.AddCommand(newListCommand())
	return command
}

func newListCommand() *cobra.Command {
	var mcu *string

	listCmd := &cobra.Command{
		Use:     "list",
		Short:   "List supported boards",
		Long:    "Displays the supported boards, it is possible to filter results for a specific microcontroller.",
		Example: "  " + os.Args[0] + " board list --mcu atmega32u4",
		Args:    cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			feedback.PrintResult(list(*mcu))
		},
	}
	mcu = listCmd.Flags().String("mcu", "", "Filter result for the specified microcontroller, e.g.: atmega328p")
	return listCmd
}

// BoardResult describes a supported board
type BoardResult struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	MCU      string `json:"mcu"`
	Protocol string `json:"protocol"`
	BaudRate int    `json:"baud_rate"`
	Default  bool   `json:"default"`
}

type BoardListResult []*BoardResult

func list(mcu string) BoardListResult {
	res := BoardListResult{}
	for i, model := range hardware.Models() {
		if mcu != "" && !strings.EqualFold(model.MCU().PartID(), mcu) && !strings.EqualFold(model.MCU().String(), mcu) {
			continue
		}
		res = append(res, &BoardResult{
			ID:       model.ID(),
			Name:     model.String(),
			MCU:      model.MCU().String(),
			Protocol: model.Protocol().String(),
			BaudRate: model.BaudRate(),
			Default:  i == 0,
		})
	}
	return res
}

func (b BoardListResult) String() string {
	if len(b) == 0 {
		return "No boards found."
	}
	t := table.New()
	t.SetHeader("ID", "Board", "MCU", "Protocol", "Baud", "")
	for _, board := range b {
		def := ""
		if board.Default {
			def = "default"
		}
		t.AddRow(board.ID, board.Name, board.MCU, board.Protocol, strconv.Itoa(board.BaudRate), def)
	}
	return t.Render()
}

func (b BoardListResult) Data() interface{} {
	return b
}
