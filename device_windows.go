//go:build windows

package serial

import (
	"strings"
	"sync"
	"unsafe"

	"golang.org/x/sys/windows"
)

const (
	dcbBinary           uint32 = 0x00000001
	dcbParity           uint32 = 0x00000002
	dcbOutXCTSFlow      uint32 = 0x00000004
	dcbOutXDSRFlow      uint32 = 0x00000008
	dcbDTRControlMask   uint32 = 0x00000030
	dcbDSRSensitivity   uint32 = 0x00000040
	dcbTXContinueOnXOFF uint32 = 0x00000080
	dcbOutX             uint32 = 0x00000100
	dcbInX              uint32 = 0x00000200
	dcbErrorChar        uint32 = 0x00000400
	dcbNull             uint32 = 0x00000800
	dcbRTSControlMask   uint32 = 0x00003000
	dcbAbortOnError     uint32 = 0x00004000

	evCTS uint32 = 0x0008
	evDSR uint32 = 0x0010

	msCTSOn  uint32 = 0x0010
	msDSROn  uint32 = 0x0020
	msRLSDOn uint32 = 0x0080
)

var winParity = map[Parity]uint8{
	ParityNone:  windows.NOPARITY,
	ParityOdd:   windows.ODDPARITY,
	ParityEven:  windows.EVENPARITY,
	ParityMark:  windows.MARKPARITY,
	ParitySpace: windows.SPACEPARITY,
}

var winStopBits = map[StopBits]uint8{
	StopBitsOne:          windows.ONESTOPBIT,
	StopBitsOnePointFive: windows.ONE5STOPBITS,
	StopBitsTwo:          windows.TWOSTOPBITS,
}

// cancelIoEx is looked up once; kernels without it leave cancel a no-op
var cancelIoEx = sync.OnceValue(func() *windows.LazyProc {
	proc := windows.NewLazySystemDLL("kernel32.dll").NewProc("CancelIoEx")
	if proc.Find() != nil {
		return nil
	}
	return proc
})

var getCommMask = windows.NewLazySystemDLL("kernel32.dll").NewProc("GetCommMask")

type windowsDevice struct {
	handle windows.Handle
}

func openNative(name string, cfg Config) (device, error) {
	path := name
	if !strings.HasPrefix(path, `\\.\`) {
		path = `\\.\` + path
	}
	p, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return nil, newPortError(KindOpen, "Opening "+name, err)
	}

	share := uint32(windows.FILE_SHARE_READ | windows.FILE_SHARE_WRITE)
	if cfg.Lock {
		share = 0
	}
	handle, err := windows.CreateFile(
		p,
		windows.GENERIC_READ|windows.GENERIC_WRITE,
		share,
		nil,
		windows.OPEN_EXISTING,
		windows.FILE_FLAG_OVERLAPPED,
		0)
	if err != nil {
		return nil, newPortError(KindOpen, "Opening "+name, err)
	}

	d := &windowsDevice{handle: handle}
	if err := d.configure(cfg); err != nil {
		windows.CloseHandle(handle)
		return nil, err
	}
	return d, nil
}

func (d *windowsDevice) configure(cfg Config) error {
	var dcb windows.DCB
	dcb.DCBlength = uint32(unsafe.Sizeof(dcb))
	if err := windows.GetCommState(d.handle, &dcb); err != nil {
		return newPortError(KindOpen, "Open (GetCommState)", err)
	}

	applyDCB(&dcb, cfg)

	if err := windows.SetCommState(d.handle, &dcb); err != nil {
		return newPortError(KindOpen, "Open (SetCommState)", err)
	}

	// All zero: reads wait for data, writes for completion.
	var timeouts windows.CommTimeouts
	if err := windows.SetCommTimeouts(d.handle, &timeouts); err != nil {
		return newPortError(KindOpen, "Open (SetCommTimeouts)", err)
	}

	_ = windows.PurgeComm(d.handle, windows.PURGE_RXCLEAR)
	_ = windows.PurgeComm(d.handle, windows.PURGE_TXCLEAR)
	return nil
}

// applyDCB sets the framing in dcb and disables every flow control and
// character substitution feature. DTR is left off when it should drop on close.
func applyDCB(dcb *windows.DCB, cfg Config) {
	dcb.BaudRate = uint32(cfg.BaudRate)
	dcb.ByteSize = uint8(cfg.DataBits)
	dcb.Parity = winParity[cfg.Parity]
	dcb.StopBits = winStopBits[cfg.StopBits]

	dcb.Flags |= dcbBinary
	if cfg.Parity != ParityNone {
		dcb.Flags |= dcbParity
	} else {
		dcb.Flags &^= dcbParity
	}
	dcb.Flags &^= dcbDTRControlMask | dcbRTSControlMask
	if !cfg.HangupOnClose {
		dcb.Flags |= windows.DTR_CONTROL_ENABLE
	}
	dcb.Flags |= windows.RTS_CONTROL_ENABLE
	dcb.Flags &^= dcbOutXCTSFlow | dcbOutXDSRFlow | dcbDSRSensitivity | dcbOutX | dcbInX |
		dcbErrorChar | dcbNull | dcbAbortOnError
	dcb.Flags |= dcbTXContinueOnXOFF
}

func decodeDCB(dcb *windows.DCB) Config {
	cfg := Config{
		BaudRate:      int(dcb.BaudRate),
		DataBits:      int(dcb.ByteSize),
		HangupOnClose: dcb.Flags&dcbDTRControlMask == 0,
	}
	for p, v := range winParity {
		if v == dcb.Parity {
			cfg.Parity = p
		}
	}
	for s, v := range winStopBits {
		if v == dcb.StopBits {
			cfg.StopBits = s
		}
	}
	return cfg
}

func newOverlapped() (*windows.Overlapped, error) {
	h, err := windows.CreateEvent(nil, 1, 0, nil)
	if err != nil {
		return nil, err
	}
	return &windows.Overlapped{HEvent: h}, nil
}

func (d *windowsDevice) id() uintptr {
	return uintptr(d.handle)
}

func (d *windowsDevice) read(buf []byte) (int, error) {
	ov, err := newOverlapped()
	if err != nil {
		return 0, err
	}
	defer windows.CloseHandle(ov.HEvent)

	var n uint32
	err = windows.ReadFile(d.handle, buf, &n, ov)
	if err == windows.ERROR_IO_PENDING {
		err = windows.GetOverlappedResult(d.handle, ov, &n, true)
	}
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

func (d *windowsDevice) write(p []byte) (int, error) {
	ov, err := newOverlapped()
	if err != nil {
		return 0, err
	}
	defer windows.CloseHandle(ov.HEvent)

	var n uint32
	err = windows.WriteFile(d.handle, p, &n, ov)
	if err == windows.ERROR_IO_PENDING {
		err = windows.GetOverlappedResult(d.handle, ov, &n, true)
	}
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

func (d *windowsDevice) commState() (*windows.DCB, error) {
	dcb := &windows.DCB{}
	dcb.DCBlength = uint32(unsafe.Sizeof(*dcb))
	if err := windows.GetCommState(d.handle, dcb); err != nil {
		return nil, err
	}
	return dcb, nil
}

func (d *windowsDevice) setBaudRate(rate int) error {
	dcb, err := d.commState()
	if err != nil {
		return err
	}
	dcb.BaudRate = uint32(rate)
	return windows.SetCommState(d.handle, dcb)
}

func (d *windowsDevice) config() (Config, error) {
	dcb, err := d.commState()
	if err != nil {
		return Config{}, err
	}
	return decodeDCB(dcb), nil
}

func (d *windowsDevice) setDTR(state bool) error {
	if state {
		return windows.EscapeCommFunction(d.handle, windows.SETDTR)
	}
	return windows.EscapeCommFunction(d.handle, windows.CLRDTR)
}

func (d *windowsDevice) setRTS(state bool) error {
	if state {
		return windows.EscapeCommFunction(d.handle, windows.SETRTS)
	}
	return windows.EscapeCommFunction(d.handle, windows.CLRRTS)
}

func (d *windowsDevice) setBreak(state bool) error {
	if state {
		return windows.SetCommBreak(d.handle)
	}
	return windows.ClearCommBreak(d.handle)
}

func (d *windowsDevice) setEventMask(cts, dsr bool) error {
	var mask uint32
	_, _, _ = getCommMask.Call(uintptr(d.handle), uintptr(unsafe.Pointer(&mask)))
	return windows.SetCommMask(d.handle, withModemEvents(mask, cts, dsr))
}

// withModemEvents replaces the CTS and DSR bits of mask, keeping the rest
func withModemEvents(mask uint32, cts, dsr bool) uint32 {
	mask &^= evCTS | evDSR
	if cts {
		mask |= evCTS
	}
	if dsr {
		mask |= evDSR
	}
	return mask
}

func (d *windowsDevice) modemStatus() (ModemStatus, error) {
	var bits uint32
	if err := windows.GetCommModemStatus(d.handle, &bits); err != nil {
		return ModemStatus{}, err
	}
	return ModemStatus{
		CTS: bits&msCTSOn != 0,
		DSR: bits&msDSROn != 0,
		DCD: bits&msRLSDOn != 0,
	}, nil
}

func (d *windowsDevice) purge() error {
	return windows.PurgeComm(d.handle,
		windows.PURGE_RXABORT|windows.PURGE_RXCLEAR|windows.PURGE_TXABORT|windows.PURGE_TXCLEAR)
}

func (d *windowsDevice) drain() error {
	return windows.FlushFileBuffers(d.handle)
}

func (d *windowsDevice) cancel() {
	if proc := cancelIoEx(); proc != nil {
		proc.Call(uintptr(d.handle), 0)
	}
}

func (d *windowsDevice) close() error {
	return windows.CloseHandle(d.handle)
}
