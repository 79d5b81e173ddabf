package serial

import (
	"fmt"
	"log/slog"
	"strings"
)

// PortRecord describes one serial device found on the system. Manufacturer
// and DeviceID are empty when the inventory that found the port does not
// know them.
type PortRecord struct {
	Name         string
	Manufacturer string
	DeviceID     string
}

// ListPorts returns the serial devices on the system. Ports known to the
// detailed device inventory come first in its order, followed by ports only
// the device namespace knows about. Inventory failures are logged and
// contribute no ports.
func ListPorts() []PortRecord {
	logger := slog.Default()

	primary, err := primaryPorts()
	if err != nil {
		logger.Debug("device inventory failed", "error", err)
		primary = nil
	}
	secondary, err := secondaryPorts()
	if err != nil {
		logger.Debug("device namespace scan failed", "error", err)
		secondary = nil
	}

	return mergePorts(primary, secondary)
}

// mergePorts keeps every primary record, then appends the secondary records
// whose name matches no primary name ignoring case. Appended records carry
// only their name.
func mergePorts(primary, secondary []PortRecord) []PortRecord {
	merged := make([]PortRecord, 0, len(primary)+len(secondary))
	merged = append(merged, primary...)

	for _, s := range secondary {
		known := false
		for _, p := range primary {
			if strings.EqualFold(p.Name, s.Name) {
				known = true
				break
			}
		}
		if !known {
			merged = append(merged, PortRecord{Name: s.Name})
		}
	}
	return merged
}

// usbDeviceID formats a USB identity the way Windows device instance ids are
// written, e.g. USB\VID_0403&PID_6001\A50285BI.
func usbDeviceID(vid, pid, serial string) string {
	id := fmt.Sprintf(`USB\VID_%s&PID_%s`, strings.ToUpper(vid), strings.ToUpper(pid))
	if serial != "" {
		id += `\` + serial
	}
	return id
}
