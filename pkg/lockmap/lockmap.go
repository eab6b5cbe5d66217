package lockmap

import (
	"sort"
	"sync"
)

type holderLock struct {
	holders int
	mu      sync.Mutex
}

// Lockmap exclusive locks keyed by string, entries are dropped once nobody holds or waits on them
type Lockmap struct {
	l sync.Mutex
	m map[string]*holderLock
}

// New new lockmap
func New(initSize int) *Lockmap {
	return &Lockmap{
		m: make(map[string]*holderLock, initSize),
	}
}

// Lock lock key
func (l *Lockmap) Lock(key string) {
	l.l.Lock()
	hl, ok := l.m[key]
	if !ok {
		hl = &holderLock{}
		l.m[key] = hl
	}
	hl.holders++
	l.l.Unlock()

	hl.mu.Lock()
}

// Unlock unlock key
func (l *Lockmap) Unlock(key string) {
	l.l.Lock()
	hl, ok := l.m[key]
	if !ok {
		l.l.Unlock()
		panic("lockmap: unlock of unlocked key " + key)
	}

	hl.holders--
	if hl.holders == 0 {
		delete(l.m, key)
	}
	l.l.Unlock()

	hl.mu.Unlock()
}

// LockAll lock every distinct key in sorted order and return the release func
func (l *Lockmap) LockAll(keys ...string) func() {
	uniq := make([]string, 0, len(keys))
	seen := make(map[string]bool, len(keys))
	for _, k := range keys {
		if !seen[k] {
			seen[k] = true
			uniq = append(uniq, k)
		}
	}
	sort.Strings(uniq)

	for _, k := range uniq {
		l.Lock(k)
	}

	return func() {
		for i := len(uniq) - 1; i >= 0; i-- {
			l.Unlock(uniq[i])
		}
	}
}

// Locks number of keys currently held or waited on
func (l *Lockmap) Locks() int {
	l.l.Lock()
	defer l.l.Unlock()

	return len(l.m)
}
