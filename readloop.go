package serial

import (
	"time"
)

const (
	// errorBackoff is the pause after an Error event before reading again
	errorBackoff = 100 * time.Millisecond

	eventBacklog = 16
)

// EventKind identifies what an Event carries
type EventKind int

const (
	// EventData carries bytes received from the device
	EventData EventKind = iota
	// EventError carries a read failure; the loop keeps running
	EventError
	// EventDisconnected reports that the device went away; it is the last event
	EventDisconnected
)

func (k EventKind) String() string {
	switch k {
	case EventData:
		return "data"
	case EventError:
		return "error"
	case EventDisconnected:
		return "disconnected"
	default:
		return "unknown"
	}
}

// Event is delivered by the read loop. Data is owned by the receiver.
type Event struct {
	Kind EventKind
	Data []byte
	Err  error
}

func (p *Port) readLoop() {
	defer close(p.loopDone)
	defer close(p.events)

	id := p.dev.id()
	for {
		// A closed handle value may already belong to another open
		select {
		case <-p.done:
			p.closing.consume(id)
			return
		default:
		}

		data, err := p.readChunk()
		if err == nil {
			p.metrics.read(len(data))
			p.logger.Debug("read", "bytes", len(data))
			if !p.emit(Event{Kind: EventData, Data: data}) {
				return
			}
			continue
		}

		if p.closing.consume(id) {
			p.logger.Debug("read loop stopped by close", "error", err)
			return
		}

		if isAborted(err) || isRemoved(err) {
			p.metrics.disconnected()
			p.logger.Info("port disconnected", "error", err)
			p.emit(Event{Kind: EventDisconnected})
			return
		}

		p.metrics.readError()
		p.logger.Warn("read failed", "error", err)
		if !p.emit(Event{Kind: EventError, Err: newPortError(KindRead, "Reading from serial port", err)}) {
			return
		}

		t := time.NewTimer(errorBackoff)
		select {
		case <-p.done:
			t.Stop()
			return
		case <-t.C:
		}
	}
}

// readChunk reads into a fresh buffer until at least one byte arrives.
// Zero-byte completions are retried without surfacing anything.
func (p *Port) readChunk() ([]byte, error) {
	buf := make([]byte, p.config.readChunk())
	for {
		n, err := p.dev.read(buf)
		if err != nil {
			return nil, err
		}
		if n > 0 {
			return buf[:n], nil
		}
		select {
		case <-p.done:
			return nil, errCancelled
		default:
		}
	}
}

// emit delivers ev unless the port is closing. It reports false when the
// loop should stop.
func (p *Port) emit(ev Event) bool {
	select {
	case <-p.done:
		return false
	default:
	}
	select {
	case p.events <- ev:
		return true
	case <-p.done:
		return false
	}
}
