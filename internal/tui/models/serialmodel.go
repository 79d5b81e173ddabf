package models

import (
	"sync"
	"time"

	serial "github.com/allbin/go-serialport"
	"github.com/allbin/go-serialport/internal/tui/components"
	tea "github.com/charmbracelet/bubbletea"
)

// InputMode represents the current input mode (vim-like)
type InputMode int

const (
	InputModeNormal InputMode = iota
	InputModeInsert
)

func (m InputMode) String() string {
	switch m {
	case InputModeInsert:
		return "INSERT"
	default:
		return "NORMAL"
	}
}

type ConnectionStatusMsg struct {
	Connected bool
	Error     error
}

// EventMsg delivers one port event to the program
type EventMsg struct {
	Event     serial.Event
	Timestamp time.Time

	// Closed is set when the event stream has ended
	Closed bool
}

// WaitForEvent blocks until the port produces its next event. Models re-issue
// it after every EventMsg until the stream ends.
func WaitForEvent(port *serial.Port) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-port.Events()
		return EventMsg{Event: ev, Timestamp: time.Now(), Closed: !ok}
	}
}

// maxRawData caps the retained traffic history
const maxRawData = 5000

type SerialModel struct {
	port     *serial.Port
	portPath string

	connected bool
	rawData   []components.DataReceivedMsg
	err       error
	ready     bool

	inputMode InputMode

	mu sync.RWMutex
}

func NewSerialModel(portPath string) *SerialModel {
	return &SerialModel{
		portPath:  portPath,
		inputMode: InputModeNormal,
	}
}

func (m *SerialModel) GetPort() *serial.Port {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.port
}

func (m *SerialModel) SetPort(port *serial.Port) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.port = port
}

func (m *SerialModel) GetPortPath() string {
	return m.portPath
}

func (m *SerialModel) IsConnected() bool {
	return m.connected
}

func (m *SerialModel) SetConnected(connected bool) {
	m.connected = connected
}

func (m *SerialModel) GetError() error {
	return m.err
}

func (m *SerialModel) SetError(err error) {
	m.err = err
}

func (m *SerialModel) IsReady() bool {
	return m.ready
}

func (m *SerialModel) SetReady(ready bool) {
	m.ready = ready
}

func (m *SerialModel) GetRawData() []components.DataReceivedMsg {
	return m.rawData
}

func (m *SerialModel) AddRawData(msg components.DataReceivedMsg) {
	m.rawData = append(m.rawData, msg)
	if len(m.rawData) > maxRawData {
		m.rawData = m.rawData[len(m.rawData)-maxRawData:]
	}
}

// UpdateTXStatus sets the status of the most recent pending TX line
// carrying the same timestamp.
func (m *SerialModel) UpdateTXStatus(sent time.Time, status string) {
	for i := len(m.rawData) - 1; i >= 0; i-- {
		d := &m.rawData[i]
		if d.IsTX && d.Timestamp.Equal(sent) {
			d.Status = status
			return
		}
	}
}

func (m *SerialModel) ClearData() {
	m.rawData = nil
}

func (m *SerialModel) GetInputMode() InputMode {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.inputMode
}

func (m *SerialModel) SetInputMode(mode InputMode) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inputMode = mode
}

func (m *SerialModel) IsInInsertMode() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.inputMode == InputModeInsert
}

// HandleEvent records ev and returns the line to display. more reports
// whether further events can arrive.
func (m *SerialModel) HandleEvent(ev EventMsg) (line components.DataReceivedMsg, more bool) {
	line = components.DataReceivedMsg{Timestamp: ev.Timestamp}

	switch {
	case ev.Closed:
		m.connected = false
		line.Notice = true
		line.Data = []byte("port closed")
		return line, false

	case ev.Event.Kind == serial.EventData:
		line.Data = ev.Event.Data
		m.AddRawData(line)
		return line, true

	case ev.Event.Kind == serial.EventDisconnected:
		m.connected = false
		line.Notice = true
		line.Data = []byte("device disconnected")
		m.AddRawData(line)
		return line, false

	default:
		m.err = ev.Event.Err
		line.Notice = true
		line.Data = []byte("error: " + ev.Event.Err.Error())
		m.AddRawData(line)
		return line, true
	}
}

// Cleanup closes the port. It is safe to call more than once.
func (m *SerialModel) Cleanup() {
	m.mu.Lock()
	port := m.port
	m.port = nil
	m.mu.Unlock()

	if port != nil {
		port.Close()
	}
}
