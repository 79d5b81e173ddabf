package serial

import (
	"fmt"
	"log/slog"
	"sync"
)

// Port is an open serial device. Incoming data is delivered by a background
// read loop on Events; every other method may be called from any goroutine.
type Port struct {
	name    string
	config  Config
	dev     device
	logger  *slog.Logger
	metrics *portMetrics

	closing  *pendingClose
	events   chan Event
	done     chan struct{} // closed when Close starts
	loopDone chan struct{} // closed when the read loop has returned

	writeMu sync.Mutex // one outstanding write per port

	mu     sync.Mutex
	closed bool
}

// Open opens the serial device name, applies the link configuration and
// starts the read loop.
func Open(name string, opts ...Option) (*Port, error) {
	o := options{config: DefaultConfig()}
	for _, opt := range opts {
		if err := opt(&o); err != nil {
			return nil, err
		}
	}
	if err := o.config.Validate(); err != nil {
		return nil, err
	}

	logger := o.logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	logger = logger.With("port", name)

	metrics, err := newPortMetrics(o.meterProvider, name)
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics: %w", err)
	}

	dev, err := openDevice(name, o.config)
	if err != nil {
		logger.Debug("open failed", "error", err)
		return nil, err
	}

	p := newPort(name, o.config, dev, logger, metrics)
	logger.Debug("port opened",
		"baud", o.config.BaudRate,
		"dataBits", o.config.DataBits,
		"parity", o.config.Parity,
		"stopBits", o.config.StopBits,
	)
	go p.readLoop()
	return p, nil
}

func newPort(name string, cfg Config, dev device, logger *slog.Logger, metrics *portMetrics) *Port {
	return &Port{
		name:     name,
		config:   cfg,
		dev:      dev,
		logger:   logger,
		metrics:  metrics,
		closing:  newPendingClose(),
		events:   make(chan Event, eventBacklog),
		done:     make(chan struct{}),
		loopDone: make(chan struct{}),
	}
}

// Name returns the device name the port was opened with
func (p *Port) Name() string {
	return p.name
}

// Events returns the read loop's event stream. The channel is closed after a
// Disconnected event or once Close has stopped the loop.
func (p *Port) Events() <-chan Event {
	return p.events
}

func (p *Port) isClosed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

// Config queries the device for its current link configuration. Lock and
// BufferSize are reported as opened.
func (p *Port) Config() (Config, error) {
	if p.isClosed() {
		return Config{}, ErrPortClosed
	}
	cfg, err := p.dev.config()
	if err != nil {
		return Config{}, newPortError(KindGet, "Getting configuration", err)
	}
	cfg.Lock = p.config.Lock
	cfg.BufferSize = p.config.BufferSize
	return cfg, nil
}

// Update changes the baud rate without closing the port
func (p *Port) Update(baudRate int) error {
	if p.isClosed() {
		return ErrPortClosed
	}
	if baudRate <= 0 {
		return ErrInvalidBaudRate
	}
	if err := p.dev.setBaudRate(baudRate); err != nil {
		return newPortError(KindUpdate, "Updating baud rate", err)
	}
	p.logger.Debug("baud rate updated", "baud", baudRate)
	return nil
}

// Write transmits all of data. It returns len(data) on success; on failure
// it returns 0 and a write error, whatever was sent before the failure.
func (p *Port) Write(data []byte) (int, error) {
	if p.isClosed() {
		return 0, ErrPortClosed
	}
	if len(data) == 0 {
		return 0, nil
	}

	p.writeMu.Lock()
	defer p.writeMu.Unlock()

	offset := 0
	for offset < len(data) {
		n, err := p.dev.write(data[offset:])
		if err != nil {
			p.metrics.writeError()
			p.logger.Debug("write failed", "offset", offset, "length", len(data), "error", err)
			return 0, newPortError(KindWrite, "Writing to serial port", err)
		}
		offset += n
	}

	p.metrics.wrote(offset)
	return offset, nil
}

// SetSignals drives DTR, RTS and break and selects which status changes the
// device reports. Line changes are best effort; only a rejected report mask
// is returned as an error.
func (p *Port) SetSignals(s Signals) error {
	if p.isClosed() {
		return ErrPortClosed
	}

	if err := p.dev.setRTS(s.RTS); err != nil {
		p.logger.Debug("failed to set RTS", "state", s.RTS, "error", err)
	}
	if err := p.dev.setDTR(s.DTR); err != nil {
		p.logger.Debug("failed to set DTR", "state", s.DTR, "error", err)
	}
	if err := p.dev.setBreak(s.Break); err != nil {
		p.logger.Debug("failed to set break", "state", s.Break, "error", err)
	}

	if err := p.dev.setEventMask(s.ReportCTS, s.ReportDSR); err != nil {
		return newPortError(KindSet, "Setting options on serial port", err)
	}
	return nil
}

// GetSignals returns the current CTS, DSR and DCD states
func (p *Port) GetSignals() (ModemStatus, error) {
	if p.isClosed() {
		return ModemStatus{}, ErrPortClosed
	}
	status, err := p.dev.modemStatus()
	if err != nil {
		return ModemStatus{}, newPortError(KindGet, "Getting control settings on serial port", err)
	}
	return status, nil
}

// Flush discards received but unread data and written but untransmitted data
func (p *Port) Flush() error {
	if p.isClosed() {
		return ErrPortClosed
	}
	if err := p.dev.purge(); err != nil {
		return newPortError(KindFlush, "flushing connection", err)
	}
	return nil
}

// Drain waits until all output written to the port has been transmitted
func (p *Port) Drain() error {
	if p.isClosed() {
		return ErrPortClosed
	}
	if err := p.dev.drain(); err != nil {
		return newPortError(KindDrain, "draining connection", err)
	}
	return nil
}

// Close cancels outstanding I/O and releases the device. It returns after the
// read loop has stopped; no events are delivered once Close returns. The port
// is closed even when the native close reports an error.
func (p *Port) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return ErrPortClosed
	}
	p.closed = true
	p.mu.Unlock()

	// Registered before cancelling so the read loop recognises the failure
	// it is about to see as ours.
	p.closing.add(p.dev.id())
	close(p.done)

	p.dev.cancel()
	err := p.dev.close()

	<-p.loopDone
	for range p.events {
		// discard events queued before the loop noticed the close
	}

	if err != nil {
		p.logger.Debug("close failed", "error", err)
		return newPortError(KindClose, "closing connection", err)
	}
	p.logger.Debug("port closed")
	return nil
}
