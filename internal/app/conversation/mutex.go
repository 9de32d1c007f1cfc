package conversation

import "sync"

// phoneLocks serializes message handling per phone number, so two webhook
// deliveries for the same customer never interleave. Entries live for the
// process lifetime; the map is bounded by the number of distinct customers.
type phoneLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newPhoneLocks() *phoneLocks {
	return &phoneLocks{locks: make(map[string]*sync.Mutex)}
}

func (p *phoneLocks) lock(phone string) *sync.Mutex {
	p.mu.Lock()
	m, ok := p.locks[phone]
	if !ok {
		m = &sync.Mutex{}
		p.locks[phone] = m
	}
	p.mu.Unlock()

	m.Lock()
	return m
}
