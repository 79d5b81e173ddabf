//go:build linux

package serial

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var (
	sysClassTTY = "/sys/class/tty"
	devDir      = "/dev"
)

// Regular expressions for different types of serial devices
var serialPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^ttyUSB\d+$`), // USB serial adapters
	regexp.MustCompile(`^ttyACM\d+$`), // USB CDC/ACM devices
	regexp.MustCompile(`^ttyS\d+$`),   // Standard serial ports
	regexp.MustCompile(`^ttyAMA\d+$`), // ARM/Raspberry Pi serial
	regexp.MustCompile(`^ttymxc\d+$`), // i.MX serial ports
	regexp.MustCompile(`^ttyO\d+$`),   // OMAP serial ports
	regexp.MustCompile(`^ttySAC\d+$`), // Samsung serial ports
	regexp.MustCompile(`^ttyTHS\d+$`), // Tegra serial ports
}

// primaryPorts enumerates ttys backed by a device in sysfs. Legacy 8250
// slots with no UART behind them are skipped.
func primaryPorts() ([]PortRecord, error) {
	entries, err := os.ReadDir(sysClassTTY)
	if err != nil {
		return nil, err
	}

	var ports []PortRecord
	for _, entry := range entries {
		name := entry.Name()
		resolved, err := filepath.EvalSymlinks(filepath.Join(sysClassTTY, name, "device"))
		if err != nil {
			continue // no device symlink, virtual tty
		}
		if isLegacySlot(resolved) {
			continue
		}

		rec := PortRecord{Name: filepath.Join(devDir, name)}
		readUSBInfo(&rec, resolved)
		ports = append(ports, rec)
	}
	return ports, nil
}

// isLegacySlot reports whether the sysfs device is a serial8250 placeholder
func isLegacySlot(deviceDir string) bool {
	return driverName(deviceDir) == "serial8250"
}

func driverName(deviceDir string) string {
	driver, err := filepath.EvalSymlinks(filepath.Join(deviceDir, "driver"))
	if err != nil {
		return ""
	}
	return filepath.Base(driver)
}

// readUSBInfo walks up from the tty device to the USB device directory, the
// first ancestor holding idVendor.
func readUSBInfo(rec *PortRecord, resolved string) {
	for dir := resolved; dir != "/" && dir != "."; dir = filepath.Dir(dir) {
		if _, err := os.Stat(filepath.Join(dir, "idVendor")); err != nil {
			continue
		}
		rec.Manufacturer = readStringFile(filepath.Join(dir, "manufacturer"))
		rec.DeviceID = usbDeviceID(
			readStringFile(filepath.Join(dir, "idVendor")),
			readStringFile(filepath.Join(dir, "idProduct")),
			readStringFile(filepath.Join(dir, "serial")),
		)
		return
	}
}

func readStringFile(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// secondaryPorts scans the device directory for serial device names. Nodes
// whose sysfs entry is a legacy 8250 slot are skipped here too, otherwise the
// merge would bring them back.
func secondaryPorts() ([]PortRecord, error) {
	entries, err := os.ReadDir(devDir)
	if err != nil {
		return nil, err
	}

	var ports []PortRecord
	for _, entry := range entries {
		name := entry.Name()
		if !isSerialName(name) {
			continue
		}
		if resolved, err := filepath.EvalSymlinks(filepath.Join(sysClassTTY, name, "device")); err == nil && isLegacySlot(resolved) {
			continue
		}
		fullPath := filepath.Join(devDir, name)
		if isCharacterDevice(fullPath) {
			ports = append(ports, PortRecord{Name: fullPath})
		}
	}
	return ports, nil
}

func isSerialName(name string) bool {
	for _, pattern := range serialPatterns {
		if pattern.MatchString(name) {
			return true
		}
	}
	return false
}

// isCharacterDevice checks if the given path is a character device
func isCharacterDevice(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
