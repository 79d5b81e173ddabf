//go:build windows

package serial

import (
	"reflect"
	"testing"

	"golang.org/x/sys/windows"
)

// dosList encodes names the way QueryDosDevice returns them
func dosList(names ...string) []uint16 {
	var buf []uint16
	for _, name := range names {
		buf = append(buf, windows.StringToUTF16(name)...)
	}
	return append(buf, 0)
}

func TestParseDosDevices(t *testing.T) {
	buf := dosList("C:", "COM1", "GLOBALROOT", "COM12", "COMX", "com3", "LPT1")

	var names []string
	for _, p := range parseDosDevices(buf) {
		names = append(names, p.Name)
	}
	want := []string{"COM1", "COM12", "com3"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("parseDosDevices() = %v, want %v", names, want)
	}
}

func TestParseDosDevicesEmpty(t *testing.T) {
	if ports := parseDosDevices([]uint16{0, 0}); len(ports) != 0 {
		t.Errorf("expected no ports, got %+v", ports)
	}
}

func TestNulsToSeparators(t *testing.T) {
	got := windows.UTF16ToString(nulsToSeparators(dosList("A", "BC")))
	if got != "A\nBC" {
		t.Errorf("nulsToSeparators() = %q, want %q", got, "A\nBC")
	}
}

func TestIsCOMName(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"COM1", true},
		{"COM256", true},
		{"com7", true},
		{"COM", false},
		{"COMA", false},
		{"COM1a", false},
		{"LPT1", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := isCOMName(tt.name); got != tt.want {
			t.Errorf("isCOMName(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestCOMInName(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"USB Serial Port (COM3)", "COM3"},
		{"Communications Port (COM1)", "COM1"},
		{"Silicon Labs CP210x USB to UART Bridge (COM14)", "COM14"},
		{"Intel(R) Active Management Technology - SOL (COM5)", "COM5"},
		{"Printer Port (LPT1)", ""},
		{"USB Serial Port COM3", ""},
	}
	for _, tt := range tests {
		var got string
		if m := comInName.FindStringSubmatch(tt.name); m != nil {
			got = m[1]
		}
		if got != tt.want {
			t.Errorf("comInName on %q = %q, want %q", tt.name, got, tt.want)
		}
	}
}
