package workflow

import "sync"

// OrderLocks serializes work on the same production order inside one
// process. Locks for different orders do not contend. The zero value is
// ready to use.
type OrderLocks struct {
	mu    sync.Mutex
	locks map[uint]*orderLock
}

type orderLock struct {
	mu   sync.Mutex
	refs int
}

// NewOrderLocks returns an empty lock table.
func NewOrderLocks() *OrderLocks {
	return &OrderLocks{locks: make(map[uint]*orderLock)}
}

// Lock blocks until the order is free and returns the release func.
func (l *OrderLocks) Lock(prodOrderID uint) (unlock func()) {
	l.mu.Lock()
	if l.locks == nil {
		l.locks = make(map[uint]*orderLock)
	}
	ol, ok := l.locks[prodOrderID]
	if !ok {
		ol = &orderLock{}
		l.locks[prodOrderID] = ol
	}
	ol.refs++
	l.mu.Unlock()

	ol.mu.Lock()
	return func() {
		ol.mu.Unlock()
		l.mu.Lock()
		ol.refs--
		if ol.refs == 0 {
			delete(l.locks, prodOrderID)
		}
		l.mu.Unlock()
	}
}

// held reports how many callers hold or wait for the order.
func (l *OrderLocks) held(prodOrderID uint) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	if ol, ok := l.locks[prodOrderID]; ok {
		return ol.refs
	}
	return 0
}
