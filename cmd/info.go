/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"fmt"
	"os"
	"strings"

	serial "github.com/allbin/go-serialport"
	"github.com/allbin/go-serialport/internal/tui/components"
	"github.com/spf13/cobra"
)

// infoCmd represents the info command
var infoCmd = &cobra.Command{
	Use:   "info <port>",
	Short: "Display detailed information about a serial port",
	Long: `Display detailed information about a serial port.

Shows the inventory record (manufacturer and device id), the line
configuration currently applied by the driver and the modem status inputs.

Examples:
  serialport info /dev/ttyUSB0
  serialport info COM3`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		portPath := args[0]

		fmt.Printf("Port Information: %s\n\n", portPath)

		if record, ok := findPort(serial.ListPorts(), portPath); ok {
			fmt.Printf("  Type:         %s\n", getPortType(record))
			fmt.Printf("  Manufacturer: %s\n", orDash(record.Manufacturer))
			fmt.Printf("  Device ID:    %s\n", orDash(record.DeviceID))
		} else {
			fmt.Println("  Not present in the port inventory")
		}

		port, err := openPort(portPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening port: %v\n", err)
			os.Exit(1)
		}
		defer port.Close()

		cfg, err := port.Config()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading configuration: %v\n", err)
			os.Exit(1)
		}

		fmt.Println("\nLine Configuration:")
		fmt.Printf("  Baud rate:    %d\n", cfg.BaudRate)
		fmt.Printf("  Framing:      %s\n", components.Framing(cfg))
		fmt.Printf("  Parity:       %s\n", cfg.Parity)
		fmt.Printf("  Stop bits:    %s\n", cfg.StopBits)
		fmt.Printf("  Hangup:       %t\n", cfg.HangupOnClose)
		fmt.Printf("  Exclusive:    %t\n", cfg.Lock)

		signals, err := port.GetSignals()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not read modem signals: %v\n", err)
			return
		}
		fmt.Println("\nModem Signals:")
		printModemStatus(signals)
	},
}

// findPort looks a port up by its full name or base name
func findPort(ports []serial.PortRecord, name string) (serial.PortRecord, bool) {
	for _, p := range ports {
		if strings.EqualFold(p.Name, name) || strings.EqualFold(p.Name, "/dev/"+name) {
			return p, true
		}
	}
	return serial.PortRecord{}, false
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
