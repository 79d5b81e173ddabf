/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	serial "github.com/allbin/go-serialport"
	"github.com/allbin/go-serialport/internal/metrics"
	"github.com/spf13/cobra"
)

var (
	monitorSignals  []string
	monitorInterval time.Duration
	monitorMetrics  string
	monitorData     bool
)

// monitorCmd represents the monitor command
var monitorCmd = &cobra.Command{
	Use:   "monitor <port>",
	Short: "Monitor modem signal changes and port events",
	Long: `Monitor modem status inputs and port events in real-time.

Samples the selected status inputs and reports when they change state.
Read errors and device removal are reported as they happen. Press Ctrl+C
to stop.

With --metrics-addr the port counters (bytes, errors, disconnects) are
served in Prometheus format at /metrics.

Examples:
  serialport monitor /dev/ttyUSB0
  serialport monitor /dev/ttyUSB0 --signals cts,dsr
  serialport monitor COM3 --data --metrics-addr :9100

Available signals: cts, dsr, dcd`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		portPath := args[0]

		selected, err := parseSignalSelection(monitorSignals)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing signals: %v\n", err)
			os.Exit(1)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		var extra []serial.Option
		if monitorMetrics != "" {
			provider, handler, err := metrics.InitPrometheus()
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error setting up metrics: %v\n", err)
				os.Exit(1)
			}
			defer provider.Shutdown(context.Background())
			extra = append(extra, serial.WithMetrics(provider))
			serveMetrics(ctx, monitorMetrics, handler)
		}

		port, err := openPort(portPath, extra...)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening port: %v\n", err)
			os.Exit(1)
		}
		defer port.Close()

		signals := openSignals()
		signals.ReportCTS = selected.CTS
		signals.ReportDSR = selected.DSR
		if err := port.SetSignals(signals); err != nil {
			fmt.Fprintf(os.Stderr, "Error enabling status reporting: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("Monitoring signals on %s (signals: %s)\n", portPath, strings.Join(monitorSignals, ", "))
		fmt.Println("Press Ctrl+C to stop")

		if err := runMonitor(ctx, port, selected); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

// parseSignalSelection returns a status with the selected inputs set
func parseSignalSelection(signalNames []string) (serial.ModemStatus, error) {
	if len(signalNames) == 0 {
		return serial.ModemStatus{CTS: true, DSR: true, DCD: true}, nil
	}

	var sel serial.ModemStatus
	for _, name := range signalNames {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "cts":
			sel.CTS = true
		case "dsr":
			sel.DSR = true
		case "dcd":
			sel.DCD = true
		default:
			return sel, fmt.Errorf("unknown signal: %s (valid: cts, dsr, dcd)", name)
		}
	}
	return sel, nil
}

func serveMetrics(ctx context.Context, addr string, handler http.Handler) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", handler)
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		slog.Info("serving metrics", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("metrics server failed", "error", err)
		}
	}()
	go func() {
		<-ctx.Done()
		srv.Shutdown(context.Background())
	}()
}

func runMonitor(ctx context.Context, port *serial.Port, selected serial.ModemStatus) error {
	last, err := port.GetSignals()
	if err != nil {
		return fmt.Errorf("reading initial signals: %w", err)
	}
	printSignalState("Initial", last, selected)

	ticker := time.NewTicker(monitorInterval)
	defer ticker.Stop()

	events := port.Events()
	for {
		select {
		case <-ctx.Done():
			fmt.Println("\nStopping monitor...")
			return nil

		case ev, ok := <-events:
			if !ok {
				return nil
			}
			switch ev.Kind {
			case serial.EventData:
				if monitorData {
					fmt.Printf("[%s] RX %d bytes: % X\n", timestampNow(), len(ev.Data), ev.Data)
				}
			case serial.EventError:
				fmt.Printf("[%s] Read error: %v\n", timestampNow(), ev.Err)
			case serial.EventDisconnected:
				fmt.Printf("[%s] Device disconnected\n", timestampNow())
				return nil
			}

		case <-ticker.C:
			now, err := port.GetSignals()
			if err != nil {
				slog.Warn("reading signals failed", "error", err)
				continue
			}
			if changed := signalChanges(last, now, selected); changed != (serial.ModemStatus{}) {
				printSignalChange(now, changed)
			}
			last = now
		}
	}
}

// signalChanges marks the selected inputs that differ between a and b
func signalChanges(a, b, selected serial.ModemStatus) serial.ModemStatus {
	return serial.ModemStatus{
		CTS: selected.CTS && a.CTS != b.CTS,
		DSR: selected.DSR && a.DSR != b.DSR,
		DCD: selected.DCD && a.DCD != b.DCD,
	}
}

func printSignals(signals, mask serial.ModemStatus) {
	if mask.CTS {
		fmt.Printf("  CTS: %s\n", formatSignalState(signals.CTS))
	}
	if mask.DSR {
		fmt.Printf("  DSR: %s\n", formatSignalState(signals.DSR))
	}
	if mask.DCD {
		fmt.Printf("  DCD: %s\n", formatSignalState(signals.DCD))
	}
	fmt.Println()
}

func printSignalState(prefix string, signals, mask serial.ModemStatus) {
	fmt.Printf("[%s] %s state:\n", timestampNow(), prefix)
	printSignals(signals, mask)
}

func printSignalChange(signals, changed serial.ModemStatus) {
	fmt.Printf("[%s] Signal change detected:\n", timestampNow())
	printSignals(signals, changed)
}

func init() {
	rootCmd.AddCommand(monitorCmd)

	monitorCmd.Flags().StringSliceVarP(&monitorSignals, "signals", "s", []string{"cts", "dsr", "dcd"},
		"Signals to monitor (comma-separated: cts,dsr,dcd)")
	monitorCmd.Flags().DurationVarP(&monitorInterval, "interval", "i", 50*time.Millisecond,
		"Signal sampling interval")
	monitorCmd.Flags().StringVar(&monitorMetrics, "metrics-addr", "",
		"Serve Prometheus metrics on this address (e.g. :9100)")
	monitorCmd.Flags().BoolVar(&monitorData, "data", false, "Print received data")
}
