package cmd

import (
	"bytes"
	"testing"
)

func TestParseHexInput(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []byte
		wantErr bool
	}{
		{"continuous", "48656C6C6F", []byte("Hello"), false},
		{"space separated", "48 65 6C 6C 6F", []byte("Hello"), false},
		{"lower case", "0a0d", []byte{0x0a, 0x0d}, false},
		{"0x prefixes", "0x02 0x06 0X00", []byte{0x02, 0x06, 0x00}, false},
		{"surrounding whitespace", "  ff\t", []byte{0xff}, false},
		{"empty", "   ", nil, true},
		{"odd digits", "123", nil, true},
		{"invalid character", "zz", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseHexInput(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseHexInput(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && !bytes.Equal(got, tt.want) {
				t.Errorf("parseHexInput(%q) = % X, want % X", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseHexInputReportsCharacter(t *testing.T) {
	_, err := parseHexInput("4G")
	if err == nil {
		t.Fatal("expected error")
	}
	if got, want := err.Error(), "invalid hex character 'G'"; got != want {
		t.Errorf("error = %q, want %q", got, want)
	}
}
