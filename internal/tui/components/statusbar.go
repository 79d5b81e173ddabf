package components

import (
	"fmt"
	"time"

	serial "github.com/allbin/go-serialport"
	"github.com/allbin/go-serialport/internal/tui/colors"
	"github.com/allbin/go-serialport/internal/tui/styles"
	"github.com/charmbracelet/lipgloss"
)

// ModemStatusMsg carries a modem status sample
type ModemStatusMsg struct {
	Status    serial.ModemStatus
	Timestamp time.Time
}

type ConnectionInfo struct {
	Config serial.Config

	// Modem is the last sampled status, valid once HasModem is set
	Modem    serial.ModemStatus
	HasModem bool
}

type StatusBar struct {
	title          string
	portPath       string
	status         string
	err            error
	width          int
	connectionInfo *ConnectionInfo
}

func NewStatusBar(title, portPath string) *StatusBar {
	return &StatusBar{
		title:    title,
		portPath: portPath,
		status:   "Initializing...",
	}
}

func (sb *StatusBar) SetStatus(status string, err error) {
	sb.status = status
	sb.err = err
}

func (sb *StatusBar) SetWidth(width int) {
	sb.width = width
}

func (sb *StatusBar) SetConnectionInfo(info *ConnectionInfo) {
	sb.connectionInfo = info
}

func (sb *StatusBar) UpdateModemStatus(status serial.ModemStatus) {
	if sb.connectionInfo != nil {
		sb.connectionInfo.Modem = status
		sb.connectionInfo.HasModem = true
	}
}

func (sb *StatusBar) SetConnecting() {
	sb.status = "Connecting..."
	sb.err = nil
}

func (sb *StatusBar) SetConnected() {
	sb.status = "Connected - listening for data..."
	sb.err = nil
}

func (sb *StatusBar) SetDisconnected(err error) {
	if err != nil {
		sb.status = fmt.Sprintf("Connection failed: %v", err)
		sb.err = err
	} else {
		sb.status = "Disconnected"
		sb.err = nil
	}
}

func (sb *StatusBar) Status() string {
	return sb.status
}

func parityToString(p serial.Parity) string {
	switch p {
	case serial.ParityEven:
		return "E"
	case serial.ParityOdd:
		return "O"
	case serial.ParityMark:
		return "M"
	case serial.ParitySpace:
		return "S"
	default:
		return "N"
	}
}

// Framing renders data bits, parity and stop bits as in "8N1"
func Framing(cfg serial.Config) string {
	return fmt.Sprintf("%d%s%s", cfg.DataBits, parityToString(cfg.Parity), cfg.StopBits)
}

func lineState(name string, on bool) string {
	if on {
		return name + ":✓"
	}
	return name + ":✗"
}

// ComprehensiveStatusBar renders a comprehensive status bar with all connection info
func (sb *StatusBar) ComprehensiveStatusBar(inputMode, sendingMode, viewMode string, connected bool, timestamp string) string {
	terminalWidth := sb.width
	if terminalWidth <= 0 {
		terminalWidth = 80
	}

	// Section 1: Mode indicator (like NORMAL in nvim)
	modeStyle := lipgloss.NewStyle().
		Foreground(colors.Base).
		Bold(true).
		Padding(0, 1)
	modeText := inputMode
	switch inputMode {
	case "INSERT":
		modeStyle = modeStyle.Background(colors.Green)
	case "VISUAL":
		modeStyle = modeStyle.Background(colors.Mauve)
	default:
		modeStyle = modeStyle.Background(colors.Blue)
		modeText = "NORMAL"
	}
	mode := modeStyle.Render(modeText)

	// Section 2: Port path
	port := styles.TitleStyle.Background(colors.Surface0).Render(sb.portPath)

	// Section 3: Single character connection indicator
	var connIndicator string
	var connStyle lipgloss.Style

	switch {
	case sb.err != nil:
		connStyle = lipgloss.NewStyle().Foreground(colors.Red)
		connIndicator = "✗"
	case connected:
		connStyle = lipgloss.NewStyle().Foreground(colors.Green)
		connIndicator = "●"
	case sb.status == "Connecting...":
		connStyle = lipgloss.NewStyle().Foreground(colors.Yellow)
		connIndicator = "○"
	default:
		connStyle = lipgloss.NewStyle().Foreground(colors.Red)
		connIndicator = "○"
	}
	connectionIndicator := connStyle.Render(connIndicator)

	// Section 4: Line settings and modem status
	connInfo := "⚡ serial"
	if sb.connectionInfo != nil {
		cfg := sb.connectionInfo.Config
		connInfo = fmt.Sprintf("⚡ %d baud %s", cfg.BaudRate, Framing(cfg))
		if sb.connectionInfo.HasModem {
			m := sb.connectionInfo.Modem
			connInfo += fmt.Sprintf(" %s %s %s",
				lineState("CTS", m.CTS), lineState("DSR", m.DSR), lineState("DCD", m.DCD))
		}
	}
	connectionDetails := lipgloss.NewStyle().
		Foreground(colors.Subtext0).
		Padding(0, 1).
		Render(connInfo)

	// Section 5: Timestamp (like position)
	clock := lipgloss.NewStyle().
		Foreground(colors.Subtext1).
		Padding(0, 1).
		Render(timestamp)

	divider := lipgloss.NewStyle().
		Foreground(colors.Surface2).
		Padding(0, 1).
		Render("│")

	// Sending mode with Tab hint, only in INSERT mode
	var sendingModeInfo string
	if inputMode == "INSERT" {
		sendingModeInfo = lipgloss.NewStyle().
			Foreground(colors.Peach).
			Bold(true).
			Padding(0, 1).
			Render(fmt.Sprintf("[%s] Tab to toggle", sendingMode))
	}

	viewInfo := lipgloss.NewStyle().
		Foreground(colors.Overlay1).
		Padding(0, 1).
		Render(viewMode)

	left := []string{mode, port, connectionIndicator}
	if sendingModeInfo != "" {
		left = append(left, sendingModeInfo)
	}
	left = append(left, divider, viewInfo)
	leftSide := lipgloss.JoinHorizontal(lipgloss.Left, left...)

	rightSide := lipgloss.JoinHorizontal(lipgloss.Left, connectionDetails, divider, clock)

	spacerWidth := terminalWidth - lipgloss.Width(leftSide) - lipgloss.Width(rightSide)
	if spacerWidth < 1 {
		spacerWidth = 1
	}
	spacer := lipgloss.NewStyle().Width(spacerWidth).Render("")

	statusBarStyle := lipgloss.NewStyle().
		Foreground(colors.Text).
		Background(colors.Surface0).
		Width(terminalWidth)

	content := lipgloss.JoinHorizontal(lipgloss.Left, leftSide, spacer, rightSide)
	return statusBarStyle.Render(content)
}
