//go:build linux

package serial

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// baudRates maps integer rates to their termios speed constants
var baudRates = map[int]uint32{
	50:      unix.B50,
	75:      unix.B75,
	110:     unix.B110,
	134:     unix.B134,
	150:     unix.B150,
	200:     unix.B200,
	300:     unix.B300,
	600:     unix.B600,
	1200:    unix.B1200,
	1800:    unix.B1800,
	2400:    unix.B2400,
	4800:    unix.B4800,
	9600:    unix.B9600,
	19200:   unix.B19200,
	38400:   unix.B38400,
	57600:   unix.B57600,
	115200:  unix.B115200,
	230400:  unix.B230400,
	460800:  unix.B460800,
	500000:  unix.B500000,
	576000:  unix.B576000,
	921600:  unix.B921600,
	1000000: unix.B1000000,
	1152000: unix.B1152000,
	1500000: unix.B1500000,
	2000000: unix.B2000000,
	2500000: unix.B2500000,
	3000000: unix.B3000000,
	3500000: unix.B3500000,
	4000000: unix.B4000000,
}

// getBaudRate converts an integer baud rate to the unix constant
func getBaudRate(rate int) (uint32, error) {
	speed, ok := baudRates[rate]
	if !ok {
		return 0, fmt.Errorf("%w: %d", ErrInvalidBaudRate, rate)
	}
	return speed, nil
}

// baudRateOf is the inverse of getBaudRate
func baudRateOf(speed uint32) (int, bool) {
	for rate, s := range baudRates {
		if s == speed {
			return rate, true
		}
	}
	return 0, false
}

var dataBitsFlags = map[int]uint32{
	5: unix.CS5,
	6: unix.CS6,
	7: unix.CS7,
	8: unix.CS8,
}

func setSpeed(t *unix.Termios, speed uint32) {
	t.Cflag = (t.Cflag &^ unix.CBAUD) | speed
	t.Ispeed = speed
	t.Ospeed = speed
}

// applyConfig puts t into raw mode with the link parameters of cfg. Reads
// block until one byte is available; flow control is off.
func applyConfig(t *unix.Termios, cfg Config) error {
	speed, err := getBaudRate(cfg.BaudRate)
	if err != nil {
		return err
	}
	size, ok := dataBitsFlags[cfg.DataBits]
	if !ok {
		return fmt.Errorf("%w: data bits %d", ErrInvalidConfig, cfg.DataBits)
	}
	if cfg.StopBits == StopBitsOnePointFive {
		return fmt.Errorf("%w: 1.5 stop bits not supported", ErrInvalidConfig)
	}

	t.Iflag &^= unix.IGNBRK | unix.BRKINT | unix.PARMRK | unix.ISTRIP |
		unix.INLCR | unix.IGNCR | unix.ICRNL | unix.IXON | unix.IXOFF | unix.IXANY | unix.INPCK
	t.Oflag &^= unix.OPOST
	t.Lflag &^= unix.ECHO | unix.ECHONL | unix.ICANON | unix.ISIG | unix.IEXTEN
	t.Cflag &^= unix.CSIZE | unix.CSTOPB | unix.PARENB | unix.PARODD | unix.CMSPAR |
		unix.CRTSCTS | unix.HUPCL
	t.Cflag |= unix.CREAD | unix.CLOCAL | size

	if cfg.StopBits == StopBitsTwo {
		t.Cflag |= unix.CSTOPB
	}

	switch cfg.Parity {
	case ParityOdd:
		t.Cflag |= unix.PARENB | unix.PARODD
	case ParityEven:
		t.Cflag |= unix.PARENB
	case ParityMark:
		t.Cflag |= unix.PARENB | unix.PARODD | unix.CMSPAR
	case ParitySpace:
		t.Cflag |= unix.PARENB | unix.CMSPAR
	}
	if cfg.Parity != ParityNone {
		t.Iflag |= unix.INPCK
	}

	if cfg.HangupOnClose {
		t.Cflag |= unix.HUPCL
	}

	t.Cc[unix.VMIN] = 1
	t.Cc[unix.VTIME] = 0

	setSpeed(t, speed)
	return nil
}

// decodeConfig reads the link parameters back out of t
func decodeConfig(t *unix.Termios) (Config, error) {
	rate, ok := baudRateOf(t.Cflag & unix.CBAUD)
	if !ok {
		return Config{}, fmt.Errorf("%w: speed %#x", ErrInvalidBaudRate, t.Cflag&unix.CBAUD)
	}

	cfg := Config{BaudRate: rate, DataBits: 8}
	for bits, flag := range dataBitsFlags {
		if t.Cflag&unix.CSIZE == flag {
			cfg.DataBits = bits
		}
	}

	if t.Cflag&unix.CSTOPB != 0 {
		cfg.StopBits = StopBitsTwo
	}

	if t.Cflag&unix.PARENB != 0 {
		odd := t.Cflag&unix.PARODD != 0
		switch {
		case t.Cflag&unix.CMSPAR != 0 && odd:
			cfg.Parity = ParityMark
		case t.Cflag&unix.CMSPAR != 0:
			cfg.Parity = ParitySpace
		case odd:
			cfg.Parity = ParityOdd
		default:
			cfg.Parity = ParityEven
		}
	}

	cfg.HangupOnClose = t.Cflag&unix.HUPCL != 0
	return cfg, nil
}
