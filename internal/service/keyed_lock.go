package service

import "sync"

// keyedLock выдает RWMutex на каждый id; записи удаляются, когда ими никто не пользуется.
type keyedLock struct {
	mu    sync.Mutex
	locks map[string]*keyedEntry
}

type keyedEntry struct {
	rw   sync.RWMutex
	refs int
}

func newKeyedLock() *keyedLock {
	return &keyedLock{locks: make(map[string]*keyedEntry)}
}

func (k *keyedLock) acquire(id string) *keyedEntry {
	k.mu.Lock()
	defer k.mu.Unlock()
	e, ok := k.locks[id]
	if !ok {
		e = &keyedEntry{}
		k.locks[id] = e
	}
	e.refs++
	return e
}

func (k *keyedLock) release(id string, e *keyedEntry) {
	k.mu.Lock()
	defer k.mu.Unlock()
	e.refs--
	if e.refs == 0 {
		delete(k.locks, id)
	}
}

// Lock takes id exclusively and returns the unlock function.
func (k *keyedLock) Lock(id string) func() {
	e := k.acquire(id)
	e.rw.Lock()
	return func() {
		e.rw.Unlock()
		k.release(id, e)
	}
}

// RLock takes id shared and returns the unlock function.
func (k *keyedLock) RLock(id string) func() {
	e := k.acquire(id)
	e.rw.RLock()
	return func() {
		e.rw.RUnlock()
		k.release(id, e)
	}
}

func (k *keyedLock) size() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.locks)
}
