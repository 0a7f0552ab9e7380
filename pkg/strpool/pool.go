// Package strpool interns strings into small integer handles.
//
// Slice names repeat heavily in traces, so stores keep a [ID] per row and
// resolve it through a shared [Pool] only when a name is displayed. Handle 0
// is reserved for the empty string, so the zero value of an [ID] is always
// valid.
//
// A Pool is safe for concurrent use. Interning takes a write lock; lookups
// take a read lock, so many concurrent queries can resolve names while no
// import is running.
package strpool

import "sync"

// ID is a handle to an interned string.
type ID uint32

// Null is the handle of the empty string.
const Null ID = 0

// Pool maps strings to handles and back.
type Pool struct {
	mu      sync.RWMutex
	strings []string
	ids     map[string]ID
}

// New creates an empty pool containing only the empty string.
func New() *Pool {
	return &Pool{
		strings: []string{""},
		ids:     map[string]ID{"": Null},
	}
}

// Intern returns the handle for s, adding it to the pool if needed.
// Interning the same string twice returns the same handle.
func (p *Pool) Intern(s string) ID {
	p.mu.RLock()
	id, ok := p.ids[s]
	p.mu.RUnlock()
	if ok {
		return id
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if id, ok := p.ids[s]; ok {
		return id
	}
	id = ID(len(p.strings))
	p.strings = append(p.strings, s)
	p.ids[s] = id
	return id
}

// Get resolves a handle. Unknown handles resolve to the empty string.
func (p *Pool) Get(id ID) string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if int(id) >= len(p.strings) {
		return ""
	}
	return p.strings[id]
}

// Lookup returns the handle for s without interning it.
func (p *Pool) Lookup(s string) (ID, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	id, ok := p.ids[s]
	return id, ok
}

// Size returns the number of distinct strings, including the empty string.
func (p *Pool) Size() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.strings)
}
