package points

import "sync"

// userLocks serializes awards per user id. Awards for different users
// proceed independently. Entries are a few words each and are kept for the
// life of the process; the table grows with the set of distinct users seen.
type userLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// lock acquires the mutex for one user and returns its unlock function.
func (u *userLocks) lock(userID string) func() {
	u.mu.Lock()
	if u.locks == nil {
		u.locks = make(map[string]*sync.Mutex)
	}
	l, ok := u.locks[userID]
	if !ok {
		l = &sync.Mutex{}
		u.locks[userID] = l
	}
	u.mu.Unlock()

	l.Lock()
	return l.Unlock
}
