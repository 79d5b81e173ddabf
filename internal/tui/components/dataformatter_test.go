package components

import (
	"strings"
	"testing"
	"time"

	serial "github.com/allbin/go-serialport"
)

func TestPrintable(t *testing.T) {
	tests := []struct {
		in   []byte
		want string
	}{
		{[]byte("Hello"), "Hello"},
		{[]byte{0x1b, '[', '2', 'J'}, ".[2J"},
		{[]byte{0x00, 0x7f, 0xff, '~'}, "...~"},
		{nil, ""},
	}
	for _, tt := range tests {
		if got := Printable(tt.in); got != tt.want {
			t.Errorf("Printable(% X) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatMessage(t *testing.T) {
	ts := time.Date(2025, 1, 2, 13, 4, 5, 6_000_000, time.UTC)
	msg := DataReceivedMsg{Timestamp: ts, Data: []byte("Hi\n")}

	df := NewDataFormatter(true, true)
	out := df.FormatMessage(msg)
	for _, want := range []string{"13:04:05.006", "RX", "HEX: 48 69 0A", "ASCII: Hi."} {
		if !strings.Contains(out, want) {
			t.Errorf("FormatMessage() = %q, missing %q", out, want)
		}
	}

	df.SetFormatOptions(true, true)
	out = df.FormatMessage(msg)
	if strings.Contains(out, "13:04:05") || strings.Contains(out, "RX") {
		t.Errorf("hidden columns still rendered: %q", out)
	}

	df.SetDisplayMode(false, false)
	if out := df.FormatMessage(msg); !strings.Contains(out, "BYTES: 3") {
		t.Errorf("byte count mode = %q", out)
	}
}

func TestFormatNotice(t *testing.T) {
	df := NewDataFormatter(true, true)
	out := df.FormatMessage(DataReceivedMsg{
		Timestamp: time.Now(),
		Data:      []byte("device disconnected"),
		Notice:    true,
	})
	if !strings.Contains(out, "device disconnected") {
		t.Errorf("notice text missing: %q", out)
	}
	if strings.Contains(out, "HEX:") {
		t.Errorf("notice rendered as data: %q", out)
	}
}

func TestToggles(t *testing.T) {
	df := NewDataFormatter(true, true)
	df.ToggleHex()
	df.ToggleTimestamps()
	df.ToggleIndicators()

	mode := df.GetDisplayMode()
	if mode.ShowHex || !mode.ShowASCII || !mode.HideTimestamps || !mode.HideIndicators {
		t.Errorf("display mode after toggles = %+v", mode)
	}
}

func TestFraming(t *testing.T) {
	tests := []struct {
		cfg  serial.Config
		want string
	}{
		{serial.Config{DataBits: 8, Parity: serial.ParityNone, StopBits: serial.StopBitsOne}, "8N1"},
		{serial.Config{DataBits: 7, Parity: serial.ParityEven, StopBits: serial.StopBitsTwo}, "7E2"},
		{serial.Config{DataBits: 5, Parity: serial.ParityMark, StopBits: serial.StopBitsOnePointFive}, "5M1.5"},
	}
	for _, tt := range tests {
		if got := Framing(tt.cfg); got != tt.want {
			t.Errorf("Framing(%+v) = %q, want %q", tt.cfg, got, tt.want)
		}
	}
}

func TestTerminalTableRowsMatchColumns(t *testing.T) {
	tt := NewTerminalTable(100, 10)
	msgs := []DataReceivedMsg{
		{Timestamp: time.Now(), Data: []byte("abc")},
		{Timestamp: time.Now(), Data: []byte{0x01}, IsTX: true, Status: StatusWritten},
		{Timestamp: time.Now(), Data: []byte("port closed"), Notice: true},
	}
	for _, m := range msgs {
		tt.AddMessage(m)
	}

	check := func(label string) {
		t.Helper()
		cols := len(tt.table.Columns())
		for i, r := range tt.table.Rows() {
			if len(r) != cols {
				t.Errorf("%s: row %d has %d cells, want %d", label, i, len(r), cols)
			}
		}
	}

	check("hex+ascii")
	tt.ToggleHex()
	check("ascii")
	tt.ToggleASCII()
	check("bytes only")
	tt.ToggleHex()
	check("hex")

	if tt.View() == "" {
		t.Error("empty table view")
	}
}

func TestStatusBarModemStatus(t *testing.T) {
	sb := NewStatusBar("test", "/dev/ttyUSB0")
	sb.SetWidth(160)
	sb.SetConnectionInfo(&ConnectionInfo{Config: serial.DefaultConfig()})
	sb.UpdateModemStatus(serial.ModemStatus{CTS: true})

	out := sb.ComprehensiveStatusBar("NORMAL", "ASCII", "FOLLOW", true, "12:00:00")
	for _, want := range []string{"/dev/ttyUSB0", "9600 baud 8N1", "CTS:✓", "DSR:✗"} {
		if !strings.Contains(out, want) {
			t.Errorf("status bar missing %q:\n%s", want, out)
		}
	}
}
