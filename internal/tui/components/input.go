package components

import (
	"strings"

	"github.com/allbin/go-serialport/internal/tui/colors"
	"github.com/allbin/go-serialport/internal/tui/styles"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// SendingMode selects how the input line is encoded before it is written
type SendingMode int

const (
	SendingModeASCII SendingMode = iota
	SendingModeHex
)

func (s SendingMode) String() string {
	if s == SendingModeHex {
		return "HEX"
	}
	return "ASCII"
}

type sendingStyle struct {
	prompt      string
	color       lipgloss.Color
	placeholder string
}

var sendingStyles = map[SendingMode]sendingStyle{
	SendingModeASCII: {">", colors.Green, "Type message and press Enter to send..."},
	SendingModeHex:   {"#", colors.Yellow, "Enter hex bytes (48656C6C6F or 48 65 6C 6C 6F)..."},
}

const (
	maxHistory = 100
	maxPayload = 256

	// border, padding, prompt and the space after it
	inputChrome = 6
)

// Input is the line editor of the connect view. Lines sent are kept in a
// bounded history walked with the arrow keys.
type Input struct {
	field textinput.Model
	mode  SendingMode
	width int

	history []string
	cursor  int    // index into history, -1 when editing a fresh line
	draft   string // the fresh line, parked while browsing history
}

func NewInput(placeholder string) *Input {
	field := textinput.New()
	field.Placeholder = placeholder
	field.CharLimit = maxPayload
	field.Prompt = ""
	return &Input{field: field, cursor: -1}
}

func (i *Input) SetWidth(width int) {
	i.width = width
	i.field.Width = max(width-inputChrome, 20)
}

func (i *Input) Focus() tea.Cmd { return i.field.Focus() }
func (i *Input) Blur()          { i.field.Blur() }
func (i *Input) Value() string  { return i.field.Value() }

func (i *Input) SetValue(value string) {
	i.field.SetValue(value)
}

func (i *Input) ToggleSendingMode() {
	if i.mode == SendingModeASCII {
		i.mode = SendingModeHex
	} else {
		i.mode = SendingModeASCII
	}
	i.field.Placeholder = sendingStyles[i.mode].placeholder
}

func (i *Input) GetSendingMode() SendingMode {
	return i.mode
}

func (i *Input) Update(msg tea.Msg) (*Input, tea.Cmd) {
	var cmd tea.Cmd
	i.field, cmd = i.field.Update(msg)
	return i, cmd
}

// View renders the prompt for the current sending mode followed by the
// editable line, or a hint when the editor is not active.
func (i *Input) View(editing bool) string {
	style := sendingStyles[i.mode]
	prompt := lipgloss.NewStyle().Foreground(style.color).Bold(true).Render(style.prompt)

	body := lipgloss.NewStyle().Foreground(colors.Overlay0).Render("Press 'i' to enter insert mode")
	box := styles.InputStyle.
		Width(max(i.width-4, 10)).
		AlignHorizontal(lipgloss.Left)
	if editing {
		body = i.field.View()
		box = box.BorderForeground(colors.Green)
	}

	return box.Render(lipgloss.JoinHorizontal(lipgloss.Left, prompt, " ", body))
}

// AddToHistory records a sent line. Blank lines and repeats of the previous
// line are skipped.
func (i *Input) AddToHistory(line string) {
	i.cursor, i.draft = -1, ""

	line = strings.TrimSpace(line)
	if line == "" || (len(i.history) > 0 && i.history[len(i.history)-1] == line) {
		return
	}
	i.history = append(i.history, line)
	if len(i.history) > maxHistory {
		i.history = i.history[len(i.history)-maxHistory:]
	}
}

// NavigateHistoryUp steps to the previous sent line
func (i *Input) NavigateHistoryUp() {
	switch {
	case len(i.history) == 0:
		return
	case i.cursor == -1:
		i.draft = i.field.Value()
		i.cursor = len(i.history) - 1
	case i.cursor > 0:
		i.cursor--
	}
	i.field.SetValue(i.history[i.cursor])
}

// NavigateHistoryDown steps towards the line being edited
func (i *Input) NavigateHistoryDown() {
	if i.cursor == -1 {
		return
	}
	if i.cursor < len(i.history)-1 {
		i.cursor++
		i.field.SetValue(i.history[i.cursor])
		return
	}
	i.cursor = -1
	i.field.SetValue(i.draft)
	i.draft = ""
}
