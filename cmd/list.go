/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	serial "github.com/allbin/go-serialport"
	"github.com/allbin/go-serialport/internal/tui/colors"
	"github.com/charmbracelet/lipgloss"
	bubbletable "github.com/evertras/bubble-table/table"
	"github.com/rodaine/table"
	"github.com/spf13/cobra"
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List available serial ports",
	Long: `List all available serial ports on the system.

Ports are collected from the platform device inventory (sysfs on Linux,
WMI on Windows) and completed with a scan of the device namespace, so
ports without a driver record still show up with their name.

Examples:
  serialport list
  serialport list --long
  serialport list --table --filter usb
  serialport list --watch`,
	Run: func(cmd *cobra.Command, args []string) {
		filterType, _ := cmd.Flags().GetString("filter")
		tableFormat, _ := cmd.Flags().GetBool("table")
		long, _ := cmd.Flags().GetBool("long")
		watch, _ := cmd.Flags().GetBool("watch")

		render := renderSimple
		switch {
		case tableFormat:
			render = renderTable
		case long:
			render = renderLong
		}

		if !watch {
			printPorts(filterPorts(serial.ListPorts(), filterType), filterType, render)
			return
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		interval, _ := cmd.Flags().GetDuration("interval")
		for ports := range serial.WatchPorts(ctx, interval) {
			fmt.Println(lipgloss.NewStyle().Foreground(colors.Overlay1).Render("--- " + timestampNow()))
			printPorts(filterPorts(ports, filterType), filterType, render)
		}
	},
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringP("filter", "f", "", "Filter by port type: usb, standard, arm, all")
	listCmd.Flags().BoolP("table", "t", false, "Display output in a styled table format")
	listCmd.Flags().BoolP("long", "l", false, "Show manufacturer and device id columns")
	listCmd.Flags().BoolP("watch", "w", false, "Keep running and print the list whenever it changes")
	listCmd.Flags().Duration("interval", serial.DefaultWatchInterval, "Polling interval used by --watch when change notifications are unavailable")
}

func printPorts(ports []serial.PortRecord, filterType string, render func([]serial.PortRecord)) {
	if len(ports) == 0 {
		if filterType != "" {
			fmt.Printf("No serial ports found matching filter: %s\n", filterType)
		} else {
			fmt.Println("No serial ports found")
		}
		return
	}
	render(ports)
}

// filterPorts filters the port list based on the specified filter type
func filterPorts(ports []serial.PortRecord, filterType string) []serial.PortRecord {
	if filterType == "" || filterType == "all" {
		return ports
	}

	var filtered []serial.PortRecord
	for _, port := range ports {
		kind := getPortType(port)
		switch strings.ToLower(filterType) {
		case "usb":
			if strings.HasPrefix(kind, "USB") {
				filtered = append(filtered, port)
			}
		case "standard":
			if kind == "Standard Serial" {
				filtered = append(filtered, port)
			}
		case "arm":
			if kind == "ARM Serial" {
				filtered = append(filtered, port)
			}
		}
	}
	return filtered
}

// renderTable renders the port list as a rounded bubble-table
func renderTable(ports []serial.PortRecord) {
	const (
		colPort         = "port"
		colType         = "type"
		colManufacturer = "manufacturer"
		colDeviceID     = "deviceid"
	)

	fmt.Printf("Found %d serial port(s):\n\n", len(ports))

	columns := []bubbletable.Column{
		bubbletable.NewColumn(colPort, "Port", 16),
		bubbletable.NewColumn(colType, "Type", 16),
		bubbletable.NewColumn(colManufacturer, "Manufacturer", 24),
		bubbletable.NewColumn(colDeviceID, "Device ID", 36),
	}

	rows := make([]bubbletable.Row, 0, len(ports))
	for _, port := range ports {
		rows = append(rows, bubbletable.NewRow(bubbletable.RowData{
			colPort:         port.Name,
			colType:         getPortType(port),
			colManufacturer: orDash(port.Manufacturer),
			colDeviceID:     orDash(port.DeviceID),
		}))
	}

	t := bubbletable.New(columns).
		WithRows(rows).
		BorderRounded().
		WithBaseStyle(lipgloss.NewStyle().
			Foreground(colors.Text).
			BorderForeground(colors.Surface2).
			Align(lipgloss.Left)).
		HeaderStyle(lipgloss.NewStyle().Foreground(colors.Mauve).Bold(true))

	fmt.Println(t.View())
}

// renderLong prints an aligned plain-text table, suitable for piping
func renderLong(ports []serial.PortRecord) {
	tbl := table.New("Port", "Type", "Manufacturer", "Device ID").WithWriter(os.Stdout)
	for _, port := range ports {
		tbl.AddRow(port.Name, getPortType(port), orDash(port.Manufacturer), orDash(port.DeviceID))
	}
	tbl.Print()
}

// renderSimple renders the port list in simple text format
func renderSimple(ports []serial.PortRecord) {
	for _, port := range ports {
		fmt.Println(port.Name)
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// getPortType returns a more specific type classification for the port
func getPortType(port serial.PortRecord) string {
	if strings.HasPrefix(strings.ToUpper(port.DeviceID), `USB\`) {
		return "USB Serial"
	}

	name := strings.ToLower(filepath.Base(port.Name))
	switch {
	case strings.HasPrefix(name, "ttyusb"):
		return "USB Serial"
	case strings.HasPrefix(name, "ttyacm"):
		return "USB CDC/ACM"
	case strings.HasPrefix(name, "ttyama"):
		return "ARM Serial"
	case strings.HasPrefix(name, "ttymxc"):
		return "i.MX Serial"
	case strings.HasPrefix(name, "ttysac"):
		return "Samsung Serial"
	case strings.HasPrefix(name, "ttyths"):
		return "Tegra Serial"
	case strings.HasPrefix(name, "ttyo"):
		return "OMAP Serial"
	case strings.HasPrefix(name, "ttys"), strings.HasPrefix(name, "com"):
		return "Standard Serial"
	default:
		return "Serial Port"
	}
}
