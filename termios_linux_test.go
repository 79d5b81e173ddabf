//go:build linux

package serial

import (
	"errors"
	"testing"

	"golang.org/x/sys/unix"
)

func TestGetBaudRate(t *testing.T) {
	tests := []struct {
		input    int
		hasError bool
	}{
		{115200, false},
		{9600, false},
		{57600, false},
		{4000000, false},
		{123456, true}, // Invalid baud rate
	}

	for _, test := range tests {
		result, err := getBaudRate(test.input)
		if test.hasError {
			if !errors.Is(err, ErrInvalidBaudRate) {
				t.Errorf("Expected ErrInvalidBaudRate for %d, got %v", test.input, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("Unexpected error for baud rate %d: %v", test.input, err)
		}
		if rate, ok := baudRateOf(result); !ok || rate != test.input {
			t.Errorf("baudRateOf(%#x) = %d, %v; want %d", result, rate, ok, test.input)
		}
	}
}

func TestApplyConfigRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"9600 8N1", Config{BaudRate: 9600, DataBits: 8}},
		{"115200 7E1", Config{BaudRate: 115200, DataBits: 7, Parity: ParityEven}},
		{"19200 8O2", Config{BaudRate: 19200, DataBits: 8, Parity: ParityOdd, StopBits: StopBitsTwo}},
		{"2400 5M1", Config{BaudRate: 2400, DataBits: 5, Parity: ParityMark}},
		{"300 6S2", Config{BaudRate: 300, DataBits: 6, Parity: ParitySpace, StopBits: StopBitsTwo}},
		{"hangup on close", Config{BaudRate: 57600, DataBits: 8, HangupOnClose: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Start from a cooked terminal so every flag has to be reset.
			termios := &unix.Termios{
				Iflag: unix.ICRNL | unix.IXON,
				Oflag: unix.OPOST,
				Lflag: unix.ECHO | unix.ICANON | unix.ISIG,
				Cflag: unix.CS7 | unix.PARENB | unix.CSTOPB | unix.HUPCL | unix.B38400,
			}
			if err := applyConfig(termios, tt.cfg); err != nil {
				t.Fatalf("applyConfig failed: %v", err)
			}

			if termios.Lflag&(unix.ECHO|unix.ICANON) != 0 {
				t.Error("terminal left in canonical mode")
			}
			if termios.Iflag&(unix.IXON|unix.IXOFF) != 0 || termios.Cflag&unix.CRTSCTS != 0 {
				t.Error("flow control left enabled")
			}
			if termios.Cc[unix.VMIN] != 1 || termios.Cc[unix.VTIME] != 0 {
				t.Errorf("VMIN=%d VTIME=%d", termios.Cc[unix.VMIN], termios.Cc[unix.VTIME])
			}

			got, err := decodeConfig(termios)
			if err != nil {
				t.Fatalf("decodeConfig failed: %v", err)
			}
			if got != tt.cfg {
				t.Errorf("decodeConfig() = %+v, want %+v", got, tt.cfg)
			}
		})
	}
}

func TestApplyConfigRejects(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want error
	}{
		{"non standard baud", Config{BaudRate: 12345, DataBits: 8}, ErrInvalidBaudRate},
		{"one and a half stop bits", Config{BaudRate: 9600, DataBits: 8, StopBits: StopBitsOnePointFive}, ErrInvalidConfig},
		{"nine data bits", Config{BaudRate: 9600, DataBits: 9}, ErrInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := applyConfig(&unix.Termios{}, tt.cfg); !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}
