package serial

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type readResult struct {
	data []byte
	err  error
}

// fakeDevice scripts native behaviour. Reads block until a result is pushed
// or the device is cancelled.
type fakeDevice struct {
	handle    uintptr
	readCalls atomic.Int32
	reads     chan readResult
	cancelled chan struct{}
	cancelOne sync.Once

	mu         sync.Mutex
	cfg        Config
	writes     [][]byte
	writeChunk int
	writeErrAt int
	writeErr   error

	baud    int
	baudErr error

	dtr, rts, brk bool
	lineErr       error
	reportCTS     bool
	reportDSR     bool
	maskErr       error
	status        ModemStatus
	statusErr     error

	purged   int
	purgeErr error
	drained  int
	drainErr error

	closed   bool
	closeErr error
}

func newFakeDevice() *fakeDevice {
	return &fakeDevice{
		handle:     7,
		reads:      make(chan readResult, 16),
		cancelled:  make(chan struct{}),
		writeErrAt: -1,
	}
}

func (f *fakeDevice) push(data string) {
	f.reads <- readResult{data: []byte(data)}
}

func (f *fakeDevice) fail(err error) {
	f.reads <- readResult{err: err}
}

func (f *fakeDevice) id() uintptr { return f.handle }

func (f *fakeDevice) read(buf []byte) (int, error) {
	f.readCalls.Add(1)
	select {
	case r := <-f.reads:
		if r.err != nil {
			return 0, r.err
		}
		return copy(buf, r.data), nil
	case <-f.cancelled:
		return 0, errCancelled
	}
}

func (f *fakeDevice) write(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.writes) == f.writeErrAt {
		return 0, f.writeErr
	}
	n := len(p)
	if f.writeChunk > 0 && n > f.writeChunk {
		n = f.writeChunk
	}
	f.writes = append(f.writes, append([]byte(nil), p[:n]...))
	return n, nil
}

func (f *fakeDevice) setBaudRate(rate int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.baudErr != nil {
		return f.baudErr
	}
	f.baud = rate
	f.cfg.BaudRate = rate
	return nil
}

func (f *fakeDevice) config() (Config, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return Config{
		BaudRate:      f.cfg.BaudRate,
		DataBits:      f.cfg.DataBits,
		Parity:        f.cfg.Parity,
		StopBits:      f.cfg.StopBits,
		HangupOnClose: f.cfg.HangupOnClose,
	}, nil
}

func (f *fakeDevice) setDTR(state bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.lineErr != nil {
		return f.lineErr
	}
	f.dtr = state
	return nil
}

func (f *fakeDevice) setRTS(state bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.lineErr != nil {
		return f.lineErr
	}
	f.rts = state
	return nil
}

func (f *fakeDevice) setBreak(state bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.lineErr != nil {
		return f.lineErr
	}
	f.brk = state
	return nil
}

func (f *fakeDevice) setEventMask(cts, dsr bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.maskErr != nil {
		return f.maskErr
	}
	f.reportCTS, f.reportDSR = cts, dsr
	return nil
}

func (f *fakeDevice) modemStatus() (ModemStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.status, f.statusErr
}

func (f *fakeDevice) purge() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.purged++
	return f.purgeErr
}

func (f *fakeDevice) drain() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.drained++
	return f.drainErr
}

func (f *fakeDevice) cancel() {
	f.cancelOne.Do(func() { close(f.cancelled) })
}

func (f *fakeDevice) close() error {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
	f.cancel()
	return f.closeErr
}

// openFake opens a Port named "fake0" on dev
func openFake(t *testing.T, dev *fakeDevice, opts ...Option) *Port {
	t.Helper()

	orig := openDevice
	openDevice = func(name string, cfg Config) (device, error) {
		dev.cfg = cfg
		return dev, nil
	}
	t.Cleanup(func() { openDevice = orig })

	port, err := Open("fake0", opts...)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { _ = port.Close() })
	return port
}

func nextEvent(t *testing.T, port *Port) Event {
	t.Helper()
	select {
	case ev, ok := <-port.Events():
		if !ok {
			t.Fatal("event channel closed")
		}
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
	}
	return Event{}
}

func expectClosed(t *testing.T, port *Port) {
	t.Helper()
	select {
	case ev, ok := <-port.Events():
		if ok {
			t.Fatalf("unexpected event %v (%q, %v)", ev.Kind, ev.Data, ev.Err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("event channel not closed")
	}
}
