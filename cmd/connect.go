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

// connectCmd represents the connect command
var connectCmd = &cobra.Command{
	Use:   "connect <port>",
	Short: "Connect to a serial port with bidirectional communication",
	Long: `Connect to a serial port with a bidirectional terminal interface.

This command opens the specified serial port and provides an interactive terminal
with real-time bidirectional communication. Features include:
- Real-time data streaming with timestamps
- Input field for sending ASCII or hex data
- Visual mode for scrolling through the history
- Live CTS, DSR and DCD status
- DTR, RTS and break control from the keyboard

Example usage:
  serialport connect /dev/ttyUSB0
  serialport connect /dev/ttyUSB0 --baud 9600
  serialport connect COM3 --poll 100ms`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		portPath := args[0]

		poll, _ := cmd.Flags().GetDuration("poll")
		lineEnding, _ := cmd.Flags().GetString("line-ending")

		opts, err := portOptions()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if err := runConnectTUI(portPath, poll, unescapeLineEnding(lineEnding), opts...); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(connectCmd)

	connectCmd.Flags().Duration("poll", 250*time.Millisecond, "Modem status sampling interval")
	connectCmd.Flags().String("line-ending", `\n`, `Appended to ASCII input: \n, \r\n, \r or empty`)
}

func unescapeLineEnding(s string) string {
	switch s {
	case `\n`:
		return "\n"
	case `\r\n`:
		return "\r\n"
	case `\r`:
		return "\r"
	default:
		return s
	}
}

// writeResultMsg reports the outcome of a write started from the input field
type writeResultMsg struct {
	sent time.Time
	err  error
}

// modemTickMsg triggers a modem status sample
type modemTickMsg time.Time

// connectModel represents the Bubble Tea model for the connect command
type connectModel struct {
	*models.SerialModel
	table      *components.TerminalTable
	statusBar  *components.StatusBar
	input      *components.Input
	help       help.Model
	keys       keys.ConnectKeys
	signals    serial.Signals
	poll       time.Duration
	lineEnding string
}

func runConnectTUI(portPath string, poll time.Duration, lineEnding string, opts ...serial.Option) error {
	cfg, err := linkConfig()
	if err != nil {
		return err
	}

	m := connectModel{
		SerialModel: models.NewSerialModel(portPath),
		table:       components.NewTerminalTable(80, 20),
		statusBar:   components.NewStatusBar("Serial Connect", portPath),
		input:       components.NewInput("Type message and press Enter to send..."),
		help:        help.New(),
		keys:        keys.NewConnectKeys(),
		signals:     openSignals(),
		poll:        poll,
		lineEnding:  lineEnding,
	}
	m.statusBar.SetConnecting()
	m.statusBar.SetConnectionInfo(&components.ConnectionInfo{Config: cfg})

	p := tea.NewProgram(&m, tea.WithAltScreen(), tea.WithMouseCellMotion())

	go connectInBackground(p, m.SerialModel, portPath, opts...)

	_, err = p.Run()
	m.Cleanup()
	return err
}

func (m *connectModel) Init() tea.Cmd {
	return nil
}

func (m *connectModel) tickModem() tea.Cmd {
	if m.poll <= 0 {
		return nil
	}
	return tea.Tick(m.poll, func(t time.Time) tea.Msg { return modemTickMsg(t) })
}

// notice adds a locally generated line to the history
func (m *connectModel) notice(format string, args ...any) {
	line := components.DataReceivedMsg{
		Timestamp: time.Now(),
		Data:      []byte(fmt.Sprintf(format, args...)),
		Notice:    true,
	}
	m.AddRawData(line)
	m.table.AddMessage(line)
}

// applySignals pushes the current line state to the port
func (m *connectModel) applySignals() {
	port := m.GetPort()
	if port == nil {
		return
	}
	if err := port.SetSignals(m.signals); err != nil {
		m.notice("setting signals failed: %v", err)
		return
	}
	m.notice("DTR=%s RTS=%s BREAK=%s",
		formatSignalState(m.signals.DTR),
		formatSignalState(m.signals.RTS),
		formatSignalState(m.signals.Break))
}

// send writes the input field contents and returns the command reporting
// the result.
func (m *connectModel) send() tea.Cmd {
	port := m.GetPort()
	inputStr := m.input.Value()
	if inputStr == "" || port == nil {
		return nil
	}

	var payload, display []byte
	switch m.input.GetSendingMode() {
	case components.SendingModeHex:
		data, err := parseHexInput(inputStr)
		if err != nil {
			m.notice("Invalid hex input: %v", err)
			return nil
		}
		payload, display = data, data
	default:
		payload = []byte(inputStr + m.lineEnding)
		display = []byte(inputStr)
	}

	sent := time.Now()
	line := components.DataReceivedMsg{
		Timestamp: sent,
		Data:      display,
		IsTX:      true,
		Status:    components.StatusPending,
	}
	m.AddRawData(line)
	m.table.AddMessage(line)

	m.input.AddToHistory(inputStr)
	m.input.SetValue("")

	return func() tea.Msg {
		_, err := port.Write(payload)
		return writeResultMsg{sent: sent, err: err}
	}
}

func (m *connectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		// Input area is 3 lines including border, status bar is 1
		m.table.SetSize(msg.Width, msg.Height-4)
		m.input.SetWidth(msg.Width)
		m.statusBar.SetWidth(msg.Width)
		m.SetReady(true)

	case models.ConnectionStatusMsg:
		m.SetConnected(msg.Connected)
		if msg.Error != nil {
			m.SetError(msg.Error)
			m.statusBar.SetDisconnected(msg.Error)
			break
		}
		m.statusBar.SetConnected()
		if port := m.GetPort(); port != nil {
			cmds = append(cmds, models.WaitForEvent(port), m.tickModem())
		}

	case models.EventMsg:
		line, more := m.HandleEvent(msg)
		m.table.AddMessage(line)
		if more {
			if port := m.GetPort(); port != nil {
				cmds = append(cmds, models.WaitForEvent(port))
			}
		} else {
			m.statusBar.SetDisconnected(nil)
		}

	case writeResultMsg:
		status := components.StatusWritten
		if msg.err != nil {
			status = components.StatusError
			m.notice("write failed: %v", msg.err)
		}
		m.UpdateTXStatus(msg.sent, status)
		m.table.RefreshDisplayWithRawData(m.GetRawData())

	case modemTickMsg:
		port := m.GetPort()
		if port == nil || !m.IsConnected() {
			break
		}
		if status, err := port.GetSignals(); err == nil {
			m.statusBar.UpdateModemStatus(status)
		}
		cmds = append(cmds, m.tickModem())

	case tea.KeyMsg:
		if m.IsInInsertMode() {
			// j and k are text here, only the arrows walk the history
			switch {
			case msg.Type == tea.KeyCtrlC:
				m.Cleanup()
				return m, tea.Quit
			case key.Matches(msg, m.keys.Escape):
				m.SetInputMode(models.InputModeNormal)
				m.input.Blur()
				return m, nil
			case key.Matches(msg, m.keys.Enter):
				return m, m.send()
			case msg.Type == tea.KeyUp:
				m.input.NavigateHistoryUp()
				return m, nil
			case msg.Type == tea.KeyDown:
				m.input.NavigateHistoryDown()
				return m, nil
			case key.Matches(msg, m.keys.ToggleSendMode):
				m.input.ToggleSendingMode()
				return m, nil
			}
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}

		if m.table.GetViewMode() == components.ViewModeVisual {
			switch {
			case key.Matches(msg, m.keys.Escape), key.Matches(msg, m.keys.VisualMode):
				m.table.SetViewMode(components.ViewModeFollow)
				return m, nil
			case key.Matches(msg, m.keys.GotoTop):
				m.table.GotoTop()
				return m, nil
			case key.Matches(msg, m.keys.GotoBottom):
				m.table.GotoBottom()
				return m, nil
			case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
				return m, m.table.Update(msg)
			}
		}

		switch {
		case key.Matches(msg, m.keys.Quit):
			m.Cleanup()
			return m, tea.Quit

		case key.Matches(msg, m.keys.InsertMode):
			m.SetInputMode(models.InputModeInsert)
			m.table.SetViewMode(components.ViewModeFollow)
			return m, m.input.Focus()

		case key.Matches(msg, m.keys.VisualMode):
			m.table.SetViewMode(components.ViewModeVisual)

		case key.Matches(msg, m.keys.Clear):
			m.ClearData()
			m.table.Clear()

		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll

		case key.Matches(msg, m.keys.ToggleHex):
			m.table.ToggleHex()

		case key.Matches(msg, m.keys.ToggleASCII):
			m.table.ToggleASCII()

		case key.Matches(msg, m.keys.ToggleSendMode):
			m.input.ToggleSendingMode()

		case key.Matches(msg, m.keys.ToggleDTR):
			m.signals.DTR = !m.signals.DTR
			m.applySignals()

		case key.Matches(msg, m.keys.ToggleRTS):
			m.signals.RTS = !m.signals.RTS
			m.applySignals()

		case key.Matches(msg, m.keys.Break):
			m.signals.Break = !m.signals.Break
			m.applySignals()
		}
	}

	return m, tea.Batch(cmds...)
}

func (m *connectModel) View() string {
	content := "Initializing..."
	if m.IsReady() {
		content = m.table.View()
	}

	inputMode := m.GetInputMode().String()
	viewMode := m.table.GetViewMode()
	if viewMode == components.ViewModeVisual && !m.IsInInsertMode() {
		inputMode = viewMode.String()
	}
	input := m.input.View(m.IsInInsertMode())

	statusBar := m.statusBar.ComprehensiveStatusBar(
		inputMode,
		m.input.GetSendingMode().String(),
		viewMode.String(),
		m.IsConnected(),
		timestampNow(),
	)

	parts := []string{styles.ContentBorderStyle.Render(content), input}
	if m.help.ShowAll {
		parts = append(parts, lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 2).
			Render(m.help.View(m.keys)))
	}
	parts = append(parts, statusBar)

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
