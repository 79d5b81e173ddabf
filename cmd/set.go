/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

// setCmd represents the set command
var setCmd = &cobra.Command{
	Use:   "set <port>",
	Short: "Set output lines and status reporting in one call",
	Long: `Apply a complete line state to a port.

Lines that are not given keep the state the port was opened with
(DTR high unless --hupcl, RTS high, no break). With --hold the port stays
open for the given duration before the lines are released, which is how
a timed break or reset pulse is sent.

Examples:
  serialport set /dev/ttyUSB0 --dtr=false --rts=false
  serialport set /dev/ttyUSB0 --break --hold 250ms
  serialport set COM3 --cts --dsr`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		portPath := args[0]
		flags := cmd.Flags()

		signals := openSignals()
		if flags.Changed("dtr") {
			signals.DTR, _ = flags.GetBool("dtr")
		}
		if flags.Changed("rts") {
			signals.RTS, _ = flags.GetBool("rts")
		}
		signals.Break, _ = flags.GetBool("break")
		signals.ReportCTS, _ = flags.GetBool("cts")
		signals.ReportDSR, _ = flags.GetBool("dsr")
		hold, _ := flags.GetDuration("hold")

		port, err := openPort(portPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening port: %v\n", err)
			os.Exit(1)
		}
		defer port.Close()

		if err := port.SetSignals(signals); err != nil {
			fmt.Fprintf(os.Stderr, "Error setting signals: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("Signals on %s: DTR=%s RTS=%s BREAK=%s\n",
			portPath,
			formatSignalState(signals.DTR),
			formatSignalState(signals.RTS),
			formatSignalState(signals.Break))

		if hold > 0 {
			time.Sleep(hold)
		}
	},
}

func init() {
	rootCmd.AddCommand(setCmd)

	setCmd.Flags().Bool("dtr", true, "Drive DTR high")
	setCmd.Flags().Bool("rts", true, "Drive RTS high")
	setCmd.Flags().Bool("break", false, "Assert a break condition")
	setCmd.Flags().Bool("cts", false, "Report CTS changes")
	setCmd.Flags().Bool("dsr", false, "Report DSR changes")
	setCmd.Flags().Duration("hold", 0, "Keep the port open this long before exiting")
}
