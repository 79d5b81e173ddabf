package serial

import (
	"errors"
	"testing"
)

func TestSetSignals(t *testing.T) {
	tests := []struct {
		name    string
		signals Signals
	}{
		{"all off", Signals{}},
		{"DTR and RTS", Signals{DTR: true, RTS: true}},
		{"break", Signals{Break: true}},
		{"report CTS", Signals{ReportCTS: true}},
		{"report both", Signals{RTS: true, ReportCTS: true, ReportDSR: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dev := newFakeDevice()
			port := openFake(t, dev)

			if err := port.SetSignals(tt.signals); err != nil {
				t.Fatalf("SetSignals failed: %v", err)
			}
			got := Signals{
				DTR:       dev.dtr,
				RTS:       dev.rts,
				Break:     dev.brk,
				ReportCTS: dev.reportCTS,
				ReportDSR: dev.reportDSR,
			}
			if got != tt.signals {
				t.Errorf("device state %+v, want %+v", got, tt.signals)
			}
		})
	}
}

// Line changes are best effort: a device that rejects them still accepts the
// report mask.
func TestSetSignalsIgnoresLineFailures(t *testing.T) {
	dev := newFakeDevice()
	dev.lineErr = errors.New("not a modem")
	port := openFake(t, dev)

	if err := port.SetSignals(Signals{DTR: true, RTS: true, ReportDSR: true}); err != nil {
		t.Fatalf("SetSignals failed: %v", err)
	}
	if !dev.reportDSR {
		t.Error("report mask not applied")
	}
}

func TestSetSignalsMaskFailure(t *testing.T) {
	dev := newFakeDevice()
	dev.maskErr = errors.New("mask rejected")
	port := openFake(t, dev)

	err := port.SetSignals(Signals{ReportCTS: true})
	if !errors.Is(err, ErrSet) {
		t.Fatalf("expected ErrSet, got %v", err)
	}
	if err.Error() != "Setting options on serial port: mask rejected" {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestGetSignals(t *testing.T) {
	tests := []struct {
		name   string
		status ModemStatus
	}{
		{"none", ModemStatus{}},
		{"CTS only", ModemStatus{CTS: true}},
		{"DSR and DCD", ModemStatus{DSR: true, DCD: true}},
		{"all", ModemStatus{CTS: true, DSR: true, DCD: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dev := newFakeDevice()
			dev.status = tt.status
			port := openFake(t, dev)

			got, err := port.GetSignals()
			if err != nil {
				t.Fatalf("GetSignals failed: %v", err)
			}
			if got != tt.status {
				t.Errorf("GetSignals() = %+v, want %+v", got, tt.status)
			}
		})
	}
}

func TestGetSignalsFailure(t *testing.T) {
	dev := newFakeDevice()
	dev.statusErr = errors.New("no status")
	port := openFake(t, dev)

	if _, err := port.GetSignals(); !errors.Is(err, ErrGet) {
		t.Errorf("expected ErrGet, got %v", err)
	}
}
