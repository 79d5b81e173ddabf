//go:build linux

package serial

import (
	"errors"
	"os"
	"sync/atomic"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
)

// linuxDevice is a tty opened non-blocking and registered with the runtime
// poller, so blocked reads and writes park a goroutine instead of a thread
// and are released when the file is closed.
type linuxDevice struct {
	fd      int
	file    *os.File
	rc      syscall.RawConn
	closing atomic.Bool

	// Linux reports no modem events to the driver; the requested mask is
	// only remembered.
	reportCTS atomic.Bool
	reportDSR atomic.Bool
}

func openNative(name string, cfg Config) (device, error) {
	fd, err := unix.Open(name, unix.O_RDWR|unix.O_NOCTTY|unix.O_NONBLOCK|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, newPortError(KindOpen, "Opening "+name, err)
	}

	if err := configure(fd, cfg); err != nil {
		unix.Close(fd)
		return nil, err
	}

	file := os.NewFile(uintptr(fd), name)
	rc, err := file.SyscallConn()
	if err != nil {
		file.Close()
		return nil, newPortError(KindOpen, "Open (poller)", err)
	}

	return &linuxDevice{fd: fd, file: file, rc: rc}, nil
}

func configure(fd int, cfg Config) error {
	if cfg.Lock {
		if err := unix.IoctlSetInt(fd, unix.TIOCEXCL, 0); err != nil {
			return newPortError(KindOpen, "Open (TIOCEXCL)", err)
		}
	}

	termios, err := unix.IoctlGetTermios(fd, unix.TCGETS)
	if err != nil {
		return newPortError(KindOpen, "Open (TCGETS)", err)
	}
	if err := applyConfig(termios, cfg); err != nil {
		return newPortError(KindOpen, "Open (configure)", err)
	}
	if err := unix.IoctlSetTermios(fd, unix.TCSETS, termios); err != nil {
		return newPortError(KindOpen, "Open (TCSETS)", err)
	}

	// Line state is best effort: pseudo terminals reject modem ioctls.
	if cfg.HangupOnClose {
		_ = setModemBits(fd, unix.TIOCM_DTR, false)
	} else {
		_ = setModemBits(fd, unix.TIOCM_DTR, true)
	}
	_ = setModemBits(fd, unix.TIOCM_RTS, true)

	_ = unix.IoctlSetInt(fd, unix.TCFLSH, unix.TCIOFLUSH)
	return nil
}

func setModemBits(fd int, bits int, on bool) error {
	if on {
		return unix.IoctlSetPointerInt(fd, unix.TIOCMBIS, bits)
	}
	return unix.IoctlSetPointerInt(fd, unix.TIOCMBIC, bits)
}

func (d *linuxDevice) id() uintptr {
	return uintptr(d.fd)
}

func (d *linuxDevice) read(buf []byte) (int, error) {
	var n int
	var err error
	perr := d.rc.Read(func(fd uintptr) bool {
		n, err = unix.Read(int(fd), buf)
		return err != unix.EAGAIN
	})
	if perr != nil {
		return 0, d.pollerError(perr)
	}
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, errHangup
	}
	return n, nil
}

func (d *linuxDevice) write(p []byte) (int, error) {
	var n int
	var err error
	perr := d.rc.Write(func(fd uintptr) bool {
		n, err = unix.Write(int(fd), p)
		return err != unix.EAGAIN
	})
	if perr != nil {
		return 0, d.pollerError(perr)
	}
	if err != nil {
		return 0, err
	}
	return n, nil
}

// pollerError maps poller failures caused by our own cancel or close to
// errCancelled. A close racing a parked operation surfaces as the poller's
// unexported "use of closed file" error, so any failure while closing counts.
func (d *linuxDevice) pollerError(err error) error {
	if d.closing.Load() || errors.Is(err, os.ErrClosed) {
		return errCancelled
	}
	return err
}

func (d *linuxDevice) control(f func(fd int) error) error {
	var ferr error
	if err := d.rc.Control(func(fd uintptr) { ferr = f(int(fd)) }); err != nil {
		if d.closing.Load() || errors.Is(err, os.ErrClosed) {
			return unix.EBADF
		}
		return err
	}
	return ferr
}

func (d *linuxDevice) setBaudRate(rate int) error {
	speed, err := getBaudRate(rate)
	if err != nil {
		return err
	}
	return d.control(func(fd int) error {
		termios, err := unix.IoctlGetTermios(fd, unix.TCGETS)
		if err != nil {
			return err
		}
		setSpeed(termios, speed)
		return unix.IoctlSetTermios(fd, unix.TCSETS, termios)
	})
}

func (d *linuxDevice) config() (Config, error) {
	var cfg Config
	err := d.control(func(fd int) error {
		termios, err := unix.IoctlGetTermios(fd, unix.TCGETS)
		if err != nil {
			return err
		}
		cfg, err = decodeConfig(termios)
		return err
	})
	return cfg, err
}

func (d *linuxDevice) setDTR(state bool) error {
	return d.control(func(fd int) error { return setModemBits(fd, unix.TIOCM_DTR, state) })
}

func (d *linuxDevice) setRTS(state bool) error {
	return d.control(func(fd int) error { return setModemBits(fd, unix.TIOCM_RTS, state) })
}

func (d *linuxDevice) setBreak(state bool) error {
	req := uint(unix.TIOCCBRK)
	if state {
		req = unix.TIOCSBRK
	}
	return d.control(func(fd int) error { return unix.IoctlSetInt(fd, req, 0) })
}

func (d *linuxDevice) setEventMask(cts, dsr bool) error {
	if d.closing.Load() {
		return unix.EBADF
	}
	d.reportCTS.Store(cts)
	d.reportDSR.Store(dsr)
	return nil
}

func (d *linuxDevice) modemStatus() (ModemStatus, error) {
	var status int
	err := d.control(func(fd int) error {
		var err error
		status, err = unix.IoctlGetInt(fd, unix.TIOCMGET)
		return err
	})
	if err != nil {
		return ModemStatus{}, err
	}
	return ModemStatus{
		CTS: status&unix.TIOCM_CTS != 0,
		DSR: status&unix.TIOCM_DSR != 0,
		DCD: status&unix.TIOCM_CAR != 0,
	}, nil
}

func (d *linuxDevice) purge() error {
	return d.control(func(fd int) error { return unix.IoctlSetInt(fd, unix.TCFLSH, unix.TCIOFLUSH) })
}

// drain is tcdrain(3)
func (d *linuxDevice) drain() error {
	return d.control(func(fd int) error { return unix.IoctlSetInt(fd, unix.TCSBRK, 1) })
}

// cancel releases goroutines parked in the poller without closing the fd
func (d *linuxDevice) cancel() {
	d.closing.Store(true)
	_ = d.file.SetDeadline(time.Now())
}

func (d *linuxDevice) close() error {
	d.closing.Store(true)
	return d.file.Close()
}
