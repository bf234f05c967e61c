package cart

import "sync"

// sessionLocks hands out one mutex per session id. Entries are dropped when no
// goroutine holds or waits on them.
type sessionLocks struct {
	mu    sync.Mutex
	locks map[string]*sessionLock
}

type sessionLock struct {
	sync.Mutex
	refs int
}

func (l *sessionLocks) lock(sessionID string) (unlock func()) {
	l.mu.Lock()
	if l.locks == nil {
		l.locks = make(map[string]*sessionLock)
	}
	sl, ok := l.locks[sessionID]
	if !ok {
		sl = &sessionLock{}
		l.locks[sessionID] = sl
	}
	sl.refs++
	l.mu.Unlock()

	sl.Lock()
	return func() {
		sl.Unlock()
		l.mu.Lock()
		sl.refs--
		if sl.refs == 0 {
			delete(l.locks, sessionID)
		}
		l.mu.Unlock()
	}
}
