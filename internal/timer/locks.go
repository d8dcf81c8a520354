package timer

import (
	"sync"
	"time"

	"github.com/clockwork-dev/clockwork/internal/apperr"
)

// Per-user lock table. Timer transitions for one user are serialized; two
// users' timers never contend. Acquisition is bounded so a wedged holder
// surfaces as a transient conflict instead of hanging the request.
type userLocks struct {
	mu    sync.Mutex
	locks map[uint]*sync.Mutex
}

const (
	lockAttempts = 3
	lockBackoff  = 25 * time.Millisecond
)

func newUserLocks() *userLocks {
	return &userLocks{locks: make(map[uint]*sync.Mutex)}
}

func (u *userLocks) get(userID uint) *sync.Mutex {
	u.mu.Lock()
	defer u.mu.Unlock()
	l, ok := u.locks[userID]
	if !ok {
		l = &sync.Mutex{}
		u.locks[userID] = l
	}
	return l
}

// acquire locks the user's mutex, retrying a bounded number of times
// before giving up with a transient conflict.
func (u *userLocks) acquire(userID uint) (*sync.Mutex, error) {
	l := u.get(userID)
	for attempt := 0; attempt < lockAttempts; attempt++ {
		if l.TryLock() {
			return l, nil
		}
		time.Sleep(lockBackoff)
	}
	return nil, apperr.Conflict("timer for user #%d is busy, try again", userID)
}
