package components

import (
	"fmt"

	"github.com/allbin/go-serialport/internal/tui/colors"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type ViewMode int

const (
	ViewModeFollow ViewMode = iota
	ViewModeVisual
)

func (v ViewMode) String() string {
	if v == ViewModeVisual {
		return "VISUAL"
	}
	return "FOLLOW"
}

// TerminalTable shows the same traffic as Terminal, one row per chunk, and
// lets the user move a cursor over it in visual mode.
type TerminalTable struct {
	table     table.Model
	formatter *DataFormatter
	viewMode  ViewMode
	rawData   []DataReceivedMsg
}

func NewTerminalTable(width, height int) *TerminalTable {
	if height < 5 {
		height = 5
	}

	t := table.New(
		table.WithFocused(false),
		table.WithHeight(height),
		table.WithWidth(width),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(colors.Subtext0).
		BorderBottom(true).
		Bold(true).
		Foreground(colors.Text)
	s.Selected = s.Selected.
		Foreground(colors.Text).
		Background(colors.Surface1).
		Bold(false)
	t.SetStyles(s)

	tt := &TerminalTable{
		table:     t,
		formatter: NewDataFormatter(true, true),
	}
	tt.updateColumns(width)
	return tt
}

func (tt *TerminalTable) SetSize(width, height int) {
	tt.updateColumns(width)
	tt.table.SetHeight(height)
	tt.table.SetWidth(width)
	tt.table.UpdateViewport()
}

func (tt *TerminalTable) updateColumns(width int) {
	if width < 80 {
		width = 80
	}

	const (
		timeWidth  = 14 // "15:04:05.000"
		dirWidth   = 3
		bytesWidth = 6
	)

	// Borders and separators take roughly 10 columns
	remaining := width - timeWidth - dirWidth - bytesWidth - 10
	if remaining < 20 {
		remaining = 20
	}

	mode := tt.formatter.GetDisplayMode()
	columns := []table.Column{
		{Title: "Time", Width: timeWidth},
		{Title: "↕", Width: dirWidth},
	}
	switch {
	case mode.ShowHex && mode.ShowASCII:
		columns = append(columns,
			table.Column{Title: "Hex", Width: remaining * 7 / 10},
			table.Column{Title: "ASCII", Width: remaining * 3 / 10})
	case mode.ShowHex:
		columns = append(columns, table.Column{Title: "Hex", Width: remaining})
	case mode.ShowASCII:
		columns = append(columns, table.Column{Title: "ASCII", Width: remaining})
	default:
		columns = append(columns, table.Column{Title: "Data", Width: remaining})
	}
	columns = append(columns, table.Column{Title: "Bytes", Width: bytesWidth})

	// Rows must match the column count before the columns change
	tt.table.SetRows(nil)
	tt.table.SetColumns(columns)
	tt.refresh()
}

func (tt *TerminalTable) AddMessage(msg DataReceivedMsg) {
	tt.rawData = append(tt.rawData, msg)
	tt.refresh()
}

func (tt *TerminalTable) RefreshDisplayWithRawData(rawData []DataReceivedMsg) {
	tt.rawData = rawData
	tt.refresh()
}

func (tt *TerminalTable) refresh() {
	rows := make([]table.Row, len(tt.rawData))
	for i, msg := range tt.rawData {
		rows[i] = tt.row(msg)
	}
	tt.table.SetRows(rows)
	if tt.viewMode == ViewModeFollow {
		tt.table.GotoBottom()
	}
	tt.table.UpdateViewport()
}

func (tt *TerminalTable) row(msg DataReceivedMsg) table.Row {
	direction := "↙"
	switch {
	case msg.Notice:
		direction = "•"
	case msg.IsTX:
		direction = "↗"
	}

	r := table.Row{msg.Timestamp.Format("15:04:05.000"), direction}
	mode := tt.formatter.GetDisplayMode()

	if msg.Notice {
		text := string(msg.Data)
		if mode.ShowHex && mode.ShowASCII {
			r = append(r, text, "")
		} else {
			r = append(r, text)
		}
		return append(r, "")
	}

	switch {
	case mode.ShowHex && mode.ShowASCII:
		r = append(r, fmt.Sprintf("% X", msg.Data), Printable(msg.Data))
	case mode.ShowHex:
		r = append(r, fmt.Sprintf("% X", msg.Data))
	case mode.ShowASCII:
		r = append(r, Printable(msg.Data))
	default:
		r = append(r, fmt.Sprintf("%d bytes", len(msg.Data)))
	}
	return append(r, fmt.Sprintf("%d", len(msg.Data)))
}

func (tt *TerminalTable) Clear() {
	tt.rawData = nil
	tt.table.SetRows(nil)
}

func (tt *TerminalTable) ToggleHex() {
	tt.formatter.ToggleHex()
	tt.updateColumns(tt.table.Width())
}

func (tt *TerminalTable) ToggleASCII() {
	tt.formatter.ToggleASCII()
	tt.updateColumns(tt.table.Width())
}

func (tt *TerminalTable) GetViewMode() ViewMode {
	return tt.viewMode
}

func (tt *TerminalTable) SetViewMode(mode ViewMode) {
	tt.viewMode = mode
	if mode == ViewModeFollow {
		tt.table.GotoBottom()
		tt.table.Blur()
	} else {
		tt.table.Focus()
	}
	tt.table.UpdateViewport()
}

func (tt *TerminalTable) GotoTop() {
	tt.table.GotoTop()
}

func (tt *TerminalTable) GotoBottom() {
	tt.table.GotoBottom()
}

func (tt *TerminalTable) Update(msg tea.Msg) tea.Cmd {
	// Navigation only in visual mode
	if tt.viewMode != ViewModeVisual {
		return nil
	}
	var cmd tea.Cmd
	tt.table, cmd = tt.table.Update(msg)
	return cmd
}

func (tt *TerminalTable) View() string {
	return tt.table.View()
}
