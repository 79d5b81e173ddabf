package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/allbin/go-serialport/internal/tui/colors"
	"github.com/charmbracelet/lipgloss"
)

// TX statuses
const (
	StatusPending = "PENDING"
	StatusWritten = "WRITTEN"
	StatusError   = "ERROR"
)

type DataReceivedMsg struct {
	Timestamp time.Time
	Data      []byte
	IsTX      bool
	Status    string // For TX messages: PENDING, WRITTEN or ERROR, empty for RX

	// Notice marks a line generated locally (errors, signal changes) rather
	// than bytes seen on the wire. Data holds the text.
	Notice bool
}

type DisplayMode struct {
	ShowHex        bool
	ShowASCII      bool
	HideTimestamps bool
	HideIndicators bool
}

type DataFormatter struct {
	mode DisplayMode
}

func NewDataFormatter(showHex, showASCII bool) *DataFormatter {
	return &DataFormatter{
		mode: DisplayMode{
			ShowHex:   showHex,
			ShowASCII: showASCII,
		},
	}
}

func (df *DataFormatter) SetDisplayMode(showHex, showASCII bool) {
	df.mode.ShowHex = showHex
	df.mode.ShowASCII = showASCII
}

// SetFormatOptions hides or shows the timestamp and RX/TX columns
func (df *DataFormatter) SetFormatOptions(hideTimestamps, hideIndicators bool) {
	df.mode.HideTimestamps = hideTimestamps
	df.mode.HideIndicators = hideIndicators
}

func (df *DataFormatter) GetDisplayMode() DisplayMode {
	return df.mode
}

// Printable replaces everything outside printable ASCII with dots so no
// terminal control sequence reaches the screen.
func Printable(data []byte) string {
	var b strings.Builder
	b.Grow(len(data))
	for _, c := range data {
		if c >= 32 && c <= 126 {
			b.WriteByte(c)
		} else {
			b.WriteByte('.')
		}
	}
	return b.String()
}

func txIndicator(status string) string {
	var txColor lipgloss.Color
	var statusText string

	switch status {
	case StatusPending:
		txColor = colors.Yellow
		statusText = "TX ○"
	case StatusWritten:
		txColor = colors.Green
		statusText = "TX ✓"
	case StatusError:
		txColor = colors.Red
		statusText = "TX ✗"
	default:
		txColor = colors.Peach
		statusText = "TX"
	}

	return lipgloss.NewStyle().
		Foreground(txColor).
		Bold(true).
		Render("↗ " + statusText)
}

func (df *DataFormatter) FormatMessage(msg DataReceivedMsg) string {
	var prefix []string

	if !df.mode.HideTimestamps {
		prefix = append(prefix, lipgloss.NewStyle().
			Foreground(colors.Subtext0).
			Render(fmt.Sprintf("[%s]", msg.Timestamp.Format("15:04:05.000"))))
	}

	if msg.Notice {
		prefix = append(prefix, lipgloss.NewStyle().
			Foreground(colors.Overlay2).
			Italic(true).
			Render("• "+string(msg.Data)))
		return strings.Join(prefix, " ")
	}

	if !df.mode.HideIndicators {
		if msg.IsTX {
			prefix = append(prefix, txIndicator(msg.Status)+":")
		} else {
			prefix = append(prefix, lipgloss.NewStyle().
				Foreground(colors.Sky).
				Bold(true).
				Render("↙ RX")+":")
		}
	}

	var parts []string
	if df.mode.ShowHex {
		parts = append(parts, fmt.Sprintf("HEX: % X", msg.Data))
	}
	if df.mode.ShowASCII {
		parts = append(parts, "ASCII: "+Printable(msg.Data))
	}
	if !df.mode.ShowHex && !df.mode.ShowASCII {
		parts = append(parts, fmt.Sprintf("BYTES: %d", len(msg.Data)))
	}

	return strings.Join(append(prefix, strings.Join(parts, "  ")), " ")
}

func (df *DataFormatter) FormatMessages(messages []DataReceivedMsg) []string {
	formatted := make([]string, len(messages))
	for i, msg := range messages {
		formatted[i] = df.FormatMessage(msg)
	}
	return formatted
}

func (df *DataFormatter) ToggleHex() {
	df.mode.ShowHex = !df.mode.ShowHex
}

func (df *DataFormatter) ToggleASCII() {
	df.mode.ShowASCII = !df.mode.ShowASCII
}

func (df *DataFormatter) ToggleTimestamps() {
	df.mode.HideTimestamps = !df.mode.HideTimestamps
}

func (df *DataFormatter) ToggleIndicators() {
	df.mode.HideIndicators = !df.mode.HideIndicators
}
