/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	serial "github.com/allbin/go-serialport"
	"github.com/spf13/cobra"
)

// captureCmd represents the capture command
var captureCmd = &cobra.Command{
	Use:   "capture <port> <output-file>",
	Short: "Capture serial data to a file",
	Long: `Capture incoming serial data to a file for later parsing.

Reads data from the specified serial port and writes it directly to
the output file. Runs until interrupted (Ctrl+C) or until the device
goes away.

The output file is opened in append mode, allowing you to resume captures
without overwriting existing data.

Example usage:
  serialport capture /dev/ttyUSB0 data.log
  serialport capture /dev/ttyUSB0 output.txt --baud 9600
  serialport capture COM3 capture.log --console`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		portPath := args[0]
		outputPath := args[1]

		showConsole, _ := cmd.Flags().GetBool("console")

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if err := runCapture(ctx, portPath, outputPath, showConsole); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(captureCmd)

	captureCmd.Flags().BoolP("console", "c", false, "Display incoming data on console while capturing")
}

func runCapture(ctx context.Context, portPath, outputPath string, showConsole bool) error {
	port, err := openPort(portPath)
	if err != nil {
		return fmt.Errorf("failed to open port: %w", err)
	}
	defer port.Close()

	file, err := os.OpenFile(outputPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open output file: %w", err)
	}
	defer file.Close()

	fmt.Fprintf(os.Stderr, "Capturing data from %s to %s\n", portPath, outputPath)
	if showConsole {
		fmt.Fprintf(os.Stderr, "Console display enabled\n")
	}
	fmt.Fprintf(os.Stderr, "Press Ctrl+C to stop\n\n")

	var out io.Writer = file
	if showConsole {
		out = io.MultiWriter(file, os.Stdout)
	}

	startTime := time.Now()
	written, err := copyEvents(ctx, port.Events(), out)
	fmt.Fprintf(os.Stderr, "\nCapture complete: %d bytes written in %v\n", written, time.Since(startTime).Round(time.Millisecond))
	return err
}

// copyEvents writes data events to w until ctx ends, the device disconnects
// or the stream closes. Read errors are logged and skipped.
func copyEvents(ctx context.Context, events <-chan serial.Event, w io.Writer) (int64, error) {
	var total int64
	for {
		select {
		case <-ctx.Done():
			return total, nil
		case ev, ok := <-events:
			if !ok {
				return total, nil
			}
			switch ev.Kind {
			case serial.EventData:
				n, err := w.Write(ev.Data)
				total += int64(n)
				if err != nil {
					return total, fmt.Errorf("write error: %w", err)
				}
			case serial.EventError:
				slog.Warn("read error", "error", ev.Err)
			case serial.EventDisconnected:
				return total, fmt.Errorf("device disconnected")
			}
		}
	}
}
