/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"fmt"
	"os"
	"time"

	serial "github.com/allbin/go-serialport"
	"github.com/allbin/go-serialport/internal/tui/components"
	"github.com/allbin/go-serialport/internal/tui/keys"
	"github.com/allbin/go-serialport/internal/tui/models"
	"github.com/allbin/go-serialport/internal/tui/styles"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

// listenCmd represents the listen command
var listenCmd = &cobra.Command{
	Use:   "listen <port>",
	Short: "Listen for data on a serial port with real-time display",
	Long: `Listen for incoming data on a serial port with a real-time TUI display.

This command opens the specified serial port and displays incoming data in real-time
using a terminal user interface. Features include:
- Real-time data streaming with timestamps
- ASCII and hex display modes
- Connection status and disconnect detection
- Clean, responsive interface

Example usage:
  serialport listen /dev/ttyUSB0
  serialport listen /dev/ttyUSB0 --baud 9600
  serialport listen COM3 --raw`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		portPath := args[0]

		noTimestamps, _ := cmd.Flags().GetBool("no-timestamps")
		showIndicators, _ := cmd.Flags().GetBool("show-indicators")
		rawMode, _ := cmd.Flags().GetBool("raw")

		opts, err := portOptions()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		hideTimestamps := noTimestamps || rawMode
		hideIndicators := !showIndicators || rawMode
		if err := runListenTUI(portPath, hideTimestamps, hideIndicators, opts...); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(listenCmd)

	listenCmd.Flags().Bool("no-timestamps", false, "Hide timestamps from output")
	listenCmd.Flags().Bool("show-indicators", false, "Show RX/TX indicators (off by default)")
	listenCmd.Flags().Bool("raw", false, "Raw output mode: no timestamps, no indicators")
}

// listenModel represents the Bubble Tea model for the listen command
type listenModel struct {
	*models.SerialModel
	terminal  *components.Terminal
	statusBar *components.StatusBar
	help      help.Model
	keys      keys.TerminalKeys
}

func runListenTUI(portPath string, hideTimestamps, hideIndicators bool, opts ...serial.Option) error {
	cfg, err := linkConfig()
	if err != nil {
		return err
	}

	terminal := components.NewTerminal(80, 20)
	terminal.SetFormatOptions(hideTimestamps, hideIndicators)

	m := listenModel{
		SerialModel: models.NewSerialModel(portPath),
		terminal:    terminal,
		statusBar:   components.NewStatusBar("Serial Listen", portPath),
		help:        help.New(),
		keys:        keys.NewTerminalKeys(),
	}
	m.statusBar.SetConnecting()
	m.statusBar.SetConnectionInfo(&components.ConnectionInfo{Config: cfg})

	p := tea.NewProgram(&m, tea.WithAltScreen(), tea.WithMouseCellMotion())

	// Connect in the background so the UI comes up immediately
	go connectInBackground(p, m.SerialModel, portPath, opts...)

	_, err = p.Run()
	m.Cleanup()
	return err
}

// connectInBackground opens the port and reports the outcome to p
func connectInBackground(p *tea.Program, model *models.SerialModel, portPath string, opts ...serial.Option) {
	port, err := serial.Open(portPath, opts...)
	if err != nil {
		p.Send(models.ConnectionStatusMsg{Connected: false, Error: err})
		return
	}
	model.SetPort(port)
	p.Send(models.ConnectionStatusMsg{Connected: true})
}

func (m *listenModel) Init() tea.Cmd {
	return nil
}

func (m *listenModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		// Status bar is single line
		m.terminal.SetSize(msg.Width, msg.Height-1)
		m.statusBar.SetWidth(msg.Width)
		m.SetReady(true)
		_, cmd := m.terminal.Update(msg)
		cmds = append(cmds, cmd)

	case models.ConnectionStatusMsg:
		m.SetConnected(msg.Connected)
		if msg.Error != nil {
			m.SetError(msg.Error)
			m.statusBar.SetDisconnected(msg.Error)
			break
		}
		m.statusBar.SetConnected()
		if port := m.GetPort(); port != nil {
			cmds = append(cmds, models.WaitForEvent(port))
		}

	case models.EventMsg:
		line, more := m.HandleEvent(msg)
		m.terminal.AddMessage(line)
		if more {
			if port := m.GetPort(); port != nil {
				cmds = append(cmds, models.WaitForEvent(port))
			}
		} else {
			m.statusBar.SetDisconnected(nil)
		}

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.Cleanup()
			return m, tea.Quit

		case key.Matches(msg, m.keys.Clear):
			m.ClearData()
			m.terminal.Clear()

		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll

		case key.Matches(msg, m.keys.ToggleHex):
			m.terminal.ToggleHex()
			m.terminal.RefreshDisplayWithRawData(m.GetRawData())

		case key.Matches(msg, m.keys.ToggleASCII):
			m.terminal.ToggleASCII()
			m.terminal.RefreshDisplayWithRawData(m.GetRawData())

		case key.Matches(msg, m.keys.ToggleTimestamps):
			m.terminal.ToggleTimestamps()
			m.terminal.RefreshDisplayWithRawData(m.GetRawData())

		case key.Matches(msg, m.keys.ToggleIndicators):
			m.terminal.ToggleIndicators()
			m.terminal.RefreshDisplayWithRawData(m.GetRawData())
		}
	}

	return m, tea.Batch(cmds...)
}

func (m *listenModel) View() string {
	content := "Initializing..."
	if m.IsReady() {
		content = m.terminal.View()
	}

	// Listen mode is always NORMAL with no sending mode
	statusBar := m.statusBar.ComprehensiveStatusBar("NORMAL", "LISTEN", "FOLLOW", m.IsConnected(), timestampNow())

	contentWithBorder := styles.ContentBorderStyle.Render(content)

	if m.help.ShowAll {
		helpView := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(1, 2).
			Margin(1, 0).
			Render(m.help.View(m.keys))
		return lipgloss.JoinVertical(lipgloss.Left, contentWithBorder, helpView, statusBar)
	}

	return lipgloss.JoinVertical(lipgloss.Left, contentWithBorder, statusBar)
}

func timestampNow() string {
	return time.Now().Format("15:04:05")
}
