package serial

import (
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/metric"
)

// MaxReadChunk bounds a single read loop iteration regardless of BufferSize
const MaxReadChunk = 1000

// Parity represents the parity mode
type Parity int

const (
	ParityNone Parity = iota
	ParityOdd
	ParityEven
	ParityMark
	ParitySpace
)

func (p Parity) String() string {
	switch p {
	case ParityNone:
		return "none"
	case ParityOdd:
		return "odd"
	case ParityEven:
		return "even"
	case ParityMark:
		return "mark"
	case ParitySpace:
		return "space"
	default:
		return fmt.Sprintf("parity(%d)", int(p))
	}
}

// ParseParity accepts the names printed by Parity.String
func ParseParity(s string) (Parity, error) {
	for p := ParityNone; p <= ParitySpace; p++ {
		if p.String() == s {
			return p, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown parity %q", ErrInvalidConfig, s)
}

// StopBits represents the number of stop bits
type StopBits int

const (
	StopBitsOne StopBits = iota
	StopBitsOnePointFive
	StopBitsTwo
)

func (s StopBits) String() string {
	switch s {
	case StopBitsOne:
		return "1"
	case StopBitsOnePointFive:
		return "1.5"
	case StopBitsTwo:
		return "2"
	default:
		return fmt.Sprintf("stopbits(%d)", int(s))
	}
}

// ParseStopBits accepts "1", "1.5" and "2"
func ParseStopBits(s string) (StopBits, error) {
	for b := StopBitsOne; b <= StopBitsTwo; b++ {
		if b.String() == s {
			return b, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown stop bits %q", ErrInvalidConfig, s)
}

// Config holds the link configuration and open flags for a serial port
type Config struct {
	BaudRate int
	DataBits int
	Parity   Parity
	StopBits StopBits

	// HangupOnClose drops DTR when the port is closed. When set, DTR is
	// kept disabled at open so devices that reset on DTR are not restarted.
	HangupOnClose bool

	// Lock opens the device exclusively.
	Lock bool

	// BufferSize is the requested read size; reads never exceed MaxReadChunk.
	BufferSize int
}

// Option is a functional option for configuring a serial port
type Option func(*options) error

type options struct {
	config        Config
	logger        *slog.Logger
	meterProvider metric.MeterProvider
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() Config {
	return Config{
		BaudRate:      9600,
		DataBits:      8,
		Parity:        ParityNone,
		StopBits:      StopBitsOne,
		HangupOnClose: false,
		Lock:          true,
		BufferSize:    64 * 1024,
	}
}

// Validate reports whether every field holds a usable value
func (c Config) Validate() error {
	if c.BaudRate <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidBaudRate, c.BaudRate)
	}
	if c.DataBits < 5 || c.DataBits > 8 {
		return fmt.Errorf("%w: data bits %d", ErrInvalidConfig, c.DataBits)
	}
	if c.Parity < ParityNone || c.Parity > ParitySpace {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, c.Parity)
	}
	if c.StopBits < StopBitsOne || c.StopBits > StopBitsTwo {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, c.StopBits)
	}
	if c.BufferSize <= 0 {
		return fmt.Errorf("%w: buffer size %d", ErrInvalidConfig, c.BufferSize)
	}
	return nil
}

// readChunk is the size of one read loop buffer
func (c Config) readChunk() int {
	return min(c.BufferSize, MaxReadChunk)
}

// WithConfig replaces the whole link configuration
func WithConfig(cfg Config) Option {
	return func(o *options) error {
		if err := cfg.Validate(); err != nil {
			return err
		}
		o.config = cfg
		return nil
	}
}

// WithBaudRate sets the baud rate
func WithBaudRate(rate int) Option {
	return func(o *options) error {
		if rate <= 0 {
			return ErrInvalidBaudRate
		}
		o.config.BaudRate = rate
		return nil
	}
}

// WithDataBits sets the number of data bits (5, 6, 7, or 8)
func WithDataBits(bits int) Option {
	return func(o *options) error {
		if bits < 5 || bits > 8 {
			return ErrInvalidConfig
		}
		o.config.DataBits = bits
		return nil
	}
}

// WithParity sets the parity mode
func WithParity(parity Parity) Option {
	return func(o *options) error {
		if parity < ParityNone || parity > ParitySpace {
			return ErrInvalidConfig
		}
		o.config.Parity = parity
		return nil
	}
}

// WithStopBits sets the number of stop bits
func WithStopBits(bits StopBits) Option {
	return func(o *options) error {
		if bits < StopBitsOne || bits > StopBitsTwo {
			return ErrInvalidConfig
		}
		o.config.StopBits = bits
		return nil
	}
}

// WithHangupOnClose controls HUPCL and the DTR state at open
func WithHangupOnClose(hupcl bool) Option {
	return func(o *options) error {
		o.config.HangupOnClose = hupcl
		return nil
	}
}

// WithLock controls exclusive access to the device
func WithLock(lock bool) Option {
	return func(o *options) error {
		o.config.Lock = lock
		return nil
	}
}

// WithBufferSize sets the requested read buffer size
func WithBufferSize(size int) Option {
	return func(o *options) error {
		if size <= 0 {
			return ErrInvalidConfig
		}
		o.config.BufferSize = size
		return nil
	}
}

// WithLogger routes port diagnostics to logger
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) error {
		o.logger = logger
		return nil
	}
}

// WithMetrics records port traffic on meters from provider
func WithMetrics(provider metric.MeterProvider) Option {
	return func(o *options) error {
		o.meterProvider = provider
		return nil
	}
}
