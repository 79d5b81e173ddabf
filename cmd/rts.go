/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"fmt"
	"os"

	serial "github.com/allbin/go-serialport"
	"github.com/spf13/cobra"
)

// rtsCmd represents the rts command
var rtsCmd = &cobra.Command{
	Use:   "rts <port> <state>",
	Short: "Control RTS (Request To Send) signal",
	Long: `Manually set the RTS (Request To Send) signal state.

The RTS signal can be used for software flow control or custom signaling,
for example holding a microcontroller in reset.

Examples:
  serialport rts /dev/ttyUSB0 high
  serialport rts /dev/ttyUSB0 low
  serialport rts COM3 on

Valid states: high, low, on, off, true, false, 1, 0`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		portPath := args[0]

		state, err := setLine(portPath, args[1], func(s *serial.Signals, on bool) { s.RTS = on })
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error setting RTS: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("RTS set to %s on %s\n", formatSignalState(state), portPath)
	},
}

func init() {
	rootCmd.AddCommand(rtsCmd)
}
