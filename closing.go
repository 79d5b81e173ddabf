package serial

import "sync"

// pendingClose holds handle ids whose close has started but whose read loop
// has not yet observed the resulting failure.
type pendingClose struct {
	mu  sync.Mutex
	ids map[uintptr]struct{}
}

func newPendingClose() *pendingClose {
	return &pendingClose{ids: make(map[uintptr]struct{})}
}

func (p *pendingClose) add(id uintptr) {
	p.mu.Lock()
	p.ids[id] = struct{}{}
	p.mu.Unlock()
}

// consume removes id and reports whether it was present. Each add is
// consumed at most once.
func (p *pendingClose) consume(id uintptr) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.ids[id]; !ok {
		return false
	}
	delete(p.ids, id)
	return true
}
