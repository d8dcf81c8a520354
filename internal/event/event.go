// Package event defines the domain events the engine emits for the
// external notification component. Each event carries a ULID id so that
// downstream delivery can be deduplicated per event.
package event

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Type identifies the type of a timer event.
type Type string

// Timer lifecycle events.
const (
	// TypeTimerStarted records a timer starting against a task.
	TypeTimerStarted Type = "timer_started"
	// TypeTimerPaused records a running timer being paused.
	TypeTimerPaused Type = "timer_paused"
	// TypeTimerResumed records a paused timer resuming.
	TypeTimerResumed Type = "timer_resumed"
	// TypeTimerStopped records a timer being finalized.
	TypeTimerStopped Type = "timer_stopped"
)

// Approval events.
const (
	// TypeLogApproved records a closed time log being approved.
	TypeLogApproved Type = "log_approved"
	// TypeLogRejected records a closed time log being rejected.
	TypeLogRejected Type = "log_rejected"
)

// Event is an immutable fact about a time log transition.
type Event struct {
	ID        string    `json:"id"` // ULID, the dedup key for downstream delivery
	Type      Type      `json:"type"`
	TimeLogID uint      `json:"time_log_id"`
	TaskID    uint      `json:"task_id"`
	UserID    uint      `json:"user_id"`
	Timestamp time.Time `json:"timestamp"`
}

// NewID generates a new ULID
func NewID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String()
}

// Bus fans events out to subscribers in-process. Delivery is synchronous;
// the notification component owns anything beyond that.
type Bus struct {
	mu   sync.RWMutex
	subs []func(Event)
}

func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers fn to receive every published event.
func (b *Bus) Subscribe(fn func(Event)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs = append(b.subs, fn)
}

// Publish assigns an id and timestamp if unset and delivers e to all
// subscribers. A nil bus drops events.
func (b *Bus) Publish(e Event) {
	if b == nil {
		return
	}
	if e.ID == "" {
		e.ID = NewID()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}

	b.mu.RLock()
	subs := b.subs
	b.mu.RUnlock()

	for _, fn := range subs {
		fn(e)
	}
}
