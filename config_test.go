package serial

import (
	"errors"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.BaudRate != 9600 {
		t.Errorf("Expected BaudRate 9600, got %d", config.BaudRate)
	}
	if config.DataBits != 8 {
		t.Errorf("Expected DataBits 8, got %d", config.DataBits)
	}
	if config.StopBits != StopBitsOne {
		t.Errorf("Expected StopBits 1, got %v", config.StopBits)
	}
	if config.Parity != ParityNone {
		t.Errorf("Expected Parity None, got %v", config.Parity)
	}
	if config.HangupOnClose {
		t.Error("Expected HangupOnClose off by default")
	}
	if !config.Lock {
		t.Error("Expected Lock on by default")
	}
	if err := config.Validate(); err != nil {
		t.Errorf("DefaultConfig does not validate: %v", err)
	}
}

func TestFunctionalOptions(t *testing.T) {
	o := options{config: DefaultConfig()}

	opts := []Option{
		WithBaudRate(115200),
		WithDataBits(7),
		WithStopBits(StopBitsTwo),
		WithParity(ParityEven),
		WithHangupOnClose(true),
		WithLock(false),
		WithBufferSize(256),
	}
	for _, opt := range opts {
		if err := opt(&o); err != nil {
			t.Fatalf("option failed: %v", err)
		}
	}

	want := Config{
		BaudRate:      115200,
		DataBits:      7,
		Parity:        ParityEven,
		StopBits:      StopBitsTwo,
		HangupOnClose: true,
		Lock:          false,
		BufferSize:    256,
	}
	if o.config != want {
		t.Errorf("config = %+v, want %+v", o.config, want)
	}
}

func TestInvalidOptions(t *testing.T) {
	tests := []struct {
		name string
		opt  Option
		want error
	}{
		{"zero baud rate", WithBaudRate(0), ErrInvalidBaudRate},
		{"negative baud rate", WithBaudRate(-9600), ErrInvalidBaudRate},
		{"4 data bits", WithDataBits(4), ErrInvalidConfig},
		{"9 data bits", WithDataBits(9), ErrInvalidConfig},
		{"unknown parity", WithParity(Parity(42)), ErrInvalidConfig},
		{"unknown stop bits", WithStopBits(StopBits(3)), ErrInvalidConfig},
		{"zero buffer", WithBufferSize(0), ErrInvalidConfig},
		{"invalid whole config", WithConfig(Config{BaudRate: 9600}), ErrInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := options{config: DefaultConfig()}
			err := tt.opt(&o)
			if !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
			if o.config != DefaultConfig() {
				t.Errorf("failed option modified config: %+v", o.config)
			}
		})
	}
}

func TestReadChunk(t *testing.T) {
	tests := []struct {
		bufferSize int
		want       int
	}{
		{1, 1},
		{512, 512},
		{MaxReadChunk, MaxReadChunk},
		{64 * 1024, MaxReadChunk},
	}

	for _, tt := range tests {
		cfg := DefaultConfig()
		cfg.BufferSize = tt.bufferSize
		if got := cfg.readChunk(); got != tt.want {
			t.Errorf("readChunk() with BufferSize %d = %d, want %d", tt.bufferSize, got, tt.want)
		}
	}
}

func TestParseParity(t *testing.T) {
	for p := ParityNone; p <= ParitySpace; p++ {
		got, err := ParseParity(p.String())
		if err != nil || got != p {
			t.Errorf("ParseParity(%q) = %v, %v", p.String(), got, err)
		}
	}
	if _, err := ParseParity("sideways"); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestParseStopBits(t *testing.T) {
	tests := []struct {
		in      string
		want    StopBits
		wantErr bool
	}{
		{"1", StopBitsOne, false},
		{"1.5", StopBitsOnePointFive, false},
		{"2", StopBitsTwo, false},
		{"3", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseStopBits(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseStopBits(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if err == nil && got != tt.want {
			t.Errorf("ParseStopBits(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
