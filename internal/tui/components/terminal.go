package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// maxLines caps the scrollback kept by a Terminal
const maxLines = 5000

type Terminal struct {
	viewport  viewport.Model
	formatter *DataFormatter
	data      []string
}

func NewTerminal(width, height int) *Terminal {
	return &Terminal{
		viewport:  viewport.New(width, height),
		formatter: NewDataFormatter(true, true), // Default: show both hex and ASCII
	}
}

func (t *Terminal) SetSize(width, height int) {
	t.viewport.Width = width
	t.viewport.Height = height
}

func (t *Terminal) Width() int {
	return t.viewport.Width
}

func (t *Terminal) SetFormatOptions(hideTimestamps, hideIndicators bool) {
	t.formatter.SetFormatOptions(hideTimestamps, hideIndicators)
}

func (t *Terminal) AddMessage(msg DataReceivedMsg) {
	t.data = append(t.data, t.formatter.FormatMessage(msg))
	if len(t.data) > maxLines {
		t.data = t.data[len(t.data)-maxLines:]
	}
	t.render()
}

func (t *Terminal) RefreshDisplayWithRawData(rawData []DataReceivedMsg) {
	if len(rawData) > maxLines {
		rawData = rawData[len(rawData)-maxLines:]
	}
	t.data = t.formatter.FormatMessages(rawData)
	t.render()
}

func (t *Terminal) render() {
	t.viewport.SetContent(strings.Join(t.data, "\n"))
	t.viewport.GotoBottom()
}

func (t *Terminal) Clear() {
	t.data = nil
	t.viewport.SetContent("")
}

func (t *Terminal) ToggleHex() {
	t.formatter.ToggleHex()
}

func (t *Terminal) ToggleASCII() {
	t.formatter.ToggleASCII()
}

func (t *Terminal) ToggleTimestamps() {
	t.formatter.ToggleTimestamps()
}

func (t *Terminal) ToggleIndicators() {
	t.formatter.ToggleIndicators()
}

func (t *Terminal) GetDisplayMode() DisplayMode {
	return t.formatter.GetDisplayMode()
}

func (t *Terminal) Update(msg tea.Msg) (viewport.Model, tea.Cmd) {
	// Only window sizes go to the viewport so it does not eat our key bindings
	switch msg.(type) {
	case tea.WindowSizeMsg:
		return t.viewport.Update(msg)
	default:
		return t.viewport, nil
	}
}

func (t *Terminal) View() string {
	return t.viewport.View()
}
