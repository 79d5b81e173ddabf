//go:build windows

package serial

import (
	"testing"

	"golang.org/x/sys/windows"
)

func TestApplyDCB(t *testing.T) {
	// Start from a state with every flow control feature switched on
	dcb := windows.DCB{
		Flags: dcbOutXCTSFlow | dcbOutXDSRFlow | dcbDSRSensitivity | dcbOutX | dcbInX |
			dcbErrorChar | dcbNull | dcbAbortOnError | dcbParity | 0x20 | 0x2000,
	}
	applyDCB(&dcb, Config{BaudRate: 19200, DataBits: 8, Parity: ParityNone, StopBits: StopBitsOne})

	if dcb.BaudRate != 19200 || dcb.ByteSize != 8 {
		t.Errorf("framing = %d/%d, want 19200/8", dcb.BaudRate, dcb.ByteSize)
	}
	if dcb.Parity != windows.NOPARITY || dcb.StopBits != windows.ONESTOPBIT {
		t.Errorf("parity/stop = %d/%d", dcb.Parity, dcb.StopBits)
	}

	cleared := dcbParity | dcbOutXCTSFlow | dcbOutXDSRFlow | dcbDSRSensitivity | dcbOutX | dcbInX |
		dcbErrorChar | dcbNull | dcbAbortOnError
	if dcb.Flags&cleared != 0 {
		t.Errorf("flags %#x still carry %#x", dcb.Flags, dcb.Flags&cleared)
	}
	if dcb.Flags&dcbBinary == 0 || dcb.Flags&dcbTXContinueOnXOFF == 0 {
		t.Errorf("flags %#x missing binary or TXContinueOnXoff", dcb.Flags)
	}
	if got := dcb.Flags & dcbDTRControlMask; got != windows.DTR_CONTROL_ENABLE {
		t.Errorf("DTR control = %#x, want enable", got)
	}
	if got := dcb.Flags & dcbRTSControlMask; got != windows.RTS_CONTROL_ENABLE {
		t.Errorf("RTS control = %#x, want enable", got)
	}
}

func TestApplyDCBParityAndHangup(t *testing.T) {
	var dcb windows.DCB
	applyDCB(&dcb, Config{BaudRate: 9600, DataBits: 7, Parity: ParityEven, StopBits: StopBitsTwo, HangupOnClose: true})

	if dcb.Flags&dcbParity == 0 {
		t.Error("parity checking not enabled")
	}
	if dcb.Parity != windows.EVENPARITY || dcb.StopBits != windows.TWOSTOPBITS {
		t.Errorf("parity/stop = %d/%d", dcb.Parity, dcb.StopBits)
	}
	if dcb.Flags&dcbDTRControlMask != 0 {
		t.Errorf("DTR control = %#x, want disabled", dcb.Flags&dcbDTRControlMask)
	}
}

func TestDecodeDCB(t *testing.T) {
	tests := []Config{
		{BaudRate: 9600, DataBits: 8, Parity: ParityNone, StopBits: StopBitsOne},
		{BaudRate: 115200, DataBits: 7, Parity: ParityOdd, StopBits: StopBitsTwo, HangupOnClose: true},
		{BaudRate: 1200, DataBits: 5, Parity: ParityMark, StopBits: StopBitsOnePointFive},
		{BaudRate: 57600, DataBits: 6, Parity: ParitySpace, StopBits: StopBitsOne},
	}
	for _, want := range tests {
		var dcb windows.DCB
		applyDCB(&dcb, want)
		if got := decodeDCB(&dcb); got != want {
			t.Errorf("decodeDCB(applyDCB(%+v)) = %+v", want, got)
		}
	}
}

func TestWithModemEvents(t *testing.T) {
	const other uint32 = 0x0001 // EV_RXCHAR

	tests := []struct {
		mask     uint32
		cts, dsr bool
		want     uint32
	}{
		{0, false, false, 0},
		{0, true, false, evCTS},
		{0, false, true, evDSR},
		{other, true, true, other | evCTS | evDSR},
		{other | evCTS | evDSR, false, false, other},
		{evCTS, false, true, evDSR},
	}
	for _, tt := range tests {
		if got := withModemEvents(tt.mask, tt.cts, tt.dsr); got != tt.want {
			t.Errorf("withModemEvents(%#x, %v, %v) = %#x, want %#x", tt.mask, tt.cts, tt.dsr, got, tt.want)
		}
	}
}

func TestGetCommMaskResolves(t *testing.T) {
	if err := getCommMask.Find(); err != nil {
		t.Fatalf("kernel32 GetCommMask: %v", err)
	}
}
