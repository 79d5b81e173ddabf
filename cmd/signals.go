/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"fmt"
	"os"
	"strings"

	serial "github.com/allbin/go-serialport"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// signalsCmd represents the signals command
var signalsCmd = &cobra.Command{
	Use:   "signals <port>",
	Short: "Display current modem signal states",
	Long: `Display the current state of the modem status inputs.

Shows the state of CTS, DSR and DCD for the specified port.

Examples:
  serialport signals /dev/ttyUSB0
  serialport signals COM3

Signal meanings:
  CTS - Clear To Send (input)
  DSR - Data Set Ready (input)
  DCD - Data Carrier Detect (input)`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		portPath := args[0]

		port, err := openPort(portPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening port: %v\n", err)
			os.Exit(1)
		}
		defer port.Close()

		signals, err := port.GetSignals()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading modem signals: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("Modem Signals for %s:\n\n", portPath)
		printModemStatus(signals)
	},
}

func printModemStatus(signals serial.ModemStatus) {
	fmt.Printf("  CTS (Clear To Send):       %s\n", formatSignalState(signals.CTS))
	fmt.Printf("  DSR (Data Set Ready):      %s\n", formatSignalState(signals.DSR))
	fmt.Printf("  DCD (Data Carrier Detect): %s\n", formatSignalState(signals.DCD))
}

func formatSignalState(state bool) string {
	if state {
		return "HIGH"
	}
	return "LOW"
}

func parseSignalState(state string) (bool, error) {
	switch strings.ToLower(state) {
	case "high", "on", "true", "1":
		return true, nil
	case "low", "off", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid state: %s (valid: high, low, on, off, true, false, 1, 0)", state)
	}
}

// openSignals is the line state a freshly opened port is left in
func openSignals() serial.Signals {
	return serial.Signals{
		DTR: !viper.GetBool("hupcl"),
		RTS: true,
	}
}

// setLine opens portPath and drives a single output line, leaving the other
// at its open state.
func setLine(portPath, stateArg string, apply func(*serial.Signals, bool)) (bool, error) {
	state, err := parseSignalState(stateArg)
	if err != nil {
		return false, err
	}

	port, err := openPort(portPath)
	if err != nil {
		return false, fmt.Errorf("opening port: %w", err)
	}
	defer port.Close()

	signals := openSignals()
	apply(&signals, state)
	if err := port.SetSignals(signals); err != nil {
		return false, err
	}
	return state, nil
}

func init() {
	rootCmd.AddCommand(signalsCmd)
}
