// Package lock serializes work keyed by an id. The pusher uses it so two
// commands pushing the same measurement at once cannot interleave their
// remote inserts.
package lock

import (
	"sync"

	"github.com/apex/log"
)

type IDLocker struct {
	mapMutex sync.Mutex
	idMap    map[string]*sync.Mutex
}

func NewIDLocker() *IDLocker {
	return &IDLocker{
		idMap: make(map[string]*sync.Mutex),
	}
}

func (l *IDLocker) AcquireLock(id string) {
	l.mapMutex.Lock()
	idMutex, ok := l.idMap[id]
	if !ok {
		idMutex = &sync.Mutex{}
		l.idMap[id] = idMutex
	}
	l.mapMutex.Unlock()

	idMutex.Lock()
}

func (l *IDLocker) ReleaseLock(id string) {
	l.mapMutex.Lock()
	m, ok := l.idMap[id]
	l.mapMutex.Unlock()

	if !ok {
		log.Errorf("ReleaseLock called on id (%s) with no mutex", id)

		return
	}

	m.Unlock()
}

func (l *IDLocker) WithLock(id string, f func() error) error {
	l.AcquireLock(id)
	defer l.ReleaseLock(id)
	return f()
}
