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

// dtrCmd represents the dtr command
var dtrCmd = &cobra.Command{
	Use:   "dtr <port> <state>",
	Short: "Control DTR (Data Terminal Ready) signal",
	Long: `Manually set the DTR (Data Terminal Ready) signal state.

The DTR signal indicates that the terminal is ready for communication.
The line keeps its state after the command exits unless --hupcl is set.

Examples:
  serialport dtr /dev/ttyUSB0 high
  serialport dtr /dev/ttyUSB0 low
  serialport dtr COM3 off

Valid states: high, low, on, off, true, false, 1, 0`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		portPath := args[0]

		state, err := setLine(portPath, args[1], func(s *serial.Signals, on bool) { s.DTR = on })
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error setting DTR: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("DTR set to %s on %s\n", formatSignalState(state), portPath)
	},
}

func init() {
	rootCmd.AddCommand(dtrCmd)
}
