//go:build !linux && !windows

package serial

import (
	"path/filepath"

	"go.bug.st/serial/enumerator"
)

// primaryPorts uses the platform enumerator, which knows USB identities
func primaryPorts() ([]PortRecord, error) {
	details, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return nil, err
	}

	ports := make([]PortRecord, 0, len(details))
	for _, d := range details {
		rec := PortRecord{Name: d.Name}
		if d.IsUSB {
			rec.DeviceID = usbDeviceID(d.VID, d.PID, d.SerialNumber)
		}
		ports = append(ports, rec)
	}
	return ports, nil
}

// secondaryPorts globs the usual BSD and macOS serial device names
func secondaryPorts() ([]PortRecord, error) {
	var ports []PortRecord
	for _, pattern := range []string{"/dev/cu.*", "/dev/tty.*", "/dev/cuaU*", "/dev/ttyU*"} {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, err
		}
		for _, m := range matches {
			ports = append(ports, PortRecord{Name: m})
		}
	}
	return ports, nil
}
