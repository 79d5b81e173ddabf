//go:build windows

package serial

import (
	"errors"
	"fmt"
	"regexp"
	"runtime"
	"strings"

	"github.com/go-ole/go-ole"
	"github.com/go-ole/go-ole/oleutil"
	"golang.org/x/sys/windows"
)

const pnpQuery = "SELECT Name, Manufacturer, PNPDeviceID FROM Win32_PnPEntity WHERE Name LIKE '%(COM%)'"

var comInName = regexp.MustCompile(`\((COM\d+)\)`)

// primaryPorts asks WMI for plug and play entities exposing a COM port
func primaryPorts() ([]PortRecord, error) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if err := ole.CoInitializeEx(0, ole.COINIT_MULTITHREADED); err != nil {
		var oleErr *ole.OleError
		// S_FALSE: already initialised on this thread
		if !errors.As(err, &oleErr) || oleErr.Code() != 1 {
			return nil, fmt.Errorf("failed to initialise COM: %w", err)
		}
	}
	defer ole.CoUninitialize()

	locator, err := oleutil.CreateObject("WbemScripting.SWbemLocator")
	if err != nil {
		return nil, fmt.Errorf("failed to create WMI locator: %w", err)
	}
	defer locator.Release()

	wmi, err := locator.QueryInterface(ole.IID_IDispatch)
	if err != nil {
		return nil, err
	}
	defer wmi.Release()

	serviceRaw, err := oleutil.CallMethod(wmi, "ConnectServer")
	if err != nil {
		return nil, fmt.Errorf("failed to connect to WMI: %w", err)
	}
	defer serviceRaw.Clear()
	service := serviceRaw.ToIDispatch()

	resultRaw, err := oleutil.CallMethod(service, "ExecQuery", pnpQuery)
	if err != nil {
		return nil, fmt.Errorf("WMI query failed: %w", err)
	}
	defer resultRaw.Clear()
	result := resultRaw.ToIDispatch()

	countVar, err := oleutil.GetProperty(result, "Count")
	if err != nil {
		return nil, err
	}
	count := int(countVar.Val)
	countVar.Clear()

	var ports []PortRecord
	for i := 0; i < count; i++ {
		rec, ok := pnpEntity(result, i)
		if ok {
			ports = append(ports, rec)
		}
	}
	return ports, nil
}

func pnpEntity(set *ole.IDispatch, index int) (PortRecord, bool) {
	itemRaw, err := oleutil.CallMethod(set, "ItemIndex", index)
	if err != nil {
		return PortRecord{}, false
	}
	defer itemRaw.Clear()
	item := itemRaw.ToIDispatch()

	m := comInName.FindStringSubmatch(stringProperty(item, "Name"))
	if m == nil {
		return PortRecord{}, false
	}
	return PortRecord{
		Name:         m[1],
		Manufacturer: stringProperty(item, "Manufacturer"),
		DeviceID:     stringProperty(item, "PNPDeviceID"),
	}, true
}

func stringProperty(item *ole.IDispatch, name string) string {
	v, err := oleutil.GetProperty(item, name)
	if err != nil {
		return ""
	}
	defer v.Clear()
	if v.VT == ole.VT_NULL {
		return ""
	}
	return v.ToString()
}

// secondaryPorts lists the COMn names in the DOS device namespace
func secondaryPorts() ([]PortRecord, error) {
	buf := make([]uint16, 64*1024)
	for {
		n, err := windows.QueryDosDevice(nil, &buf[0], uint32(len(buf)))
		if err == nil {
			return parseDosDevices(buf[:n]), nil
		}
		if !errors.Is(err, windows.ERROR_INSUFFICIENT_BUFFER) || len(buf) >= 1<<22 {
			return nil, err
		}
		buf = make([]uint16, len(buf)*2)
	}
}

// parseDosDevices splits a double-NUL terminated name list
func parseDosDevices(buf []uint16) []PortRecord {
	var ports []PortRecord
	for _, name := range strings.Split(windows.UTF16ToString(nulsToSeparators(buf)), "\n") {
		if isCOMName(name) {
			ports = append(ports, PortRecord{Name: name})
		}
	}
	return ports
}

func nulsToSeparators(buf []uint16) []uint16 {
	out := make([]uint16, 0, len(buf))
	for i, c := range buf {
		if c == 0 {
			if i+1 < len(buf) && buf[i+1] == 0 {
				break
			}
			c = '\n'
		}
		out = append(out, c)
	}
	return out
}

func isCOMName(name string) bool {
	if len(name) < 4 || !strings.EqualFold(name[:3], "COM") {
		return false
	}
	for _, r := range name[3:] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
