// Package approval is the pending → approved/rejected decision layer over
// closed time logs. Transitions are terminal and restricted to approvers;
// who counts as an approver is decided by the external identity component
// and handed in as the acting user.
package approval

import (
	"strings"

	"github.com/clockwork-dev/clockwork/internal/apperr"
	"github.com/clockwork-dev/clockwork/internal/event"
	"github.com/clockwork-dev/clockwork/internal/ledger"
	"github.com/clockwork-dev/clockwork/internal/models"
)

type Workflow struct {
	ledger *ledger.Ledger
	bus    *event.Bus
}

func New(l *ledger.Ledger, bus *event.Bus) *Workflow {
	return &Workflow{ledger: l, bus: bus}
}

// Approve marks a closed pending time log approved.
func (w *Workflow) Approve(actorID, logID uint) (*models.TimeLog, error) {
	log, err := w.decidable(actorID, logID)
	if err != nil {
		return nil, err
	}

	log.Status = models.ApprovalApproved
	if err := w.ledger.SaveLog(log); err != nil {
		return nil, err
	}

	w.publish(event.TypeLogApproved, log)
	return log, nil
}

// Reject marks a closed pending time log rejected, recording why.
func (w *Workflow) Reject(actorID, logID uint, reason string) (*models.TimeLog, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, apperr.Validation("rejection reason is required")
	}

	log, err := w.decidable(actorID, logID)
	if err != nil {
		return nil, err
	}

	log.Status = models.ApprovalRejected
	log.RejectionReason = reason
	if err := w.ledger.SaveLog(log); err != nil {
		return nil, err
	}

	w.publish(event.TypeLogRejected, log)
	return log, nil
}

// decidable loads the log and checks every precondition shared by both
// terminal transitions: privileged actor, closed log, still pending.
func (w *Workflow) decidable(actorID, logID uint) (*models.TimeLog, error) {
	actor, err := w.ledger.GetUser(actorID)
	if err != nil {
		return nil, err
	}
	if !actor.Approver {
		return nil, apperr.State("user #%d is not an approver", actorID)
	}

	log, err := w.ledger.GetLog(logID)
	if err != nil {
		return nil, err
	}
	if log.Open() {
		return nil, apperr.State("cannot approve an open timer")
	}
	if log.Status != models.ApprovalPending {
		return nil, apperr.State("time log #%d already %s", logID, log.Status)
	}
	return log, nil
}

func (w *Workflow) publish(t event.Type, log *models.TimeLog) {
	w.bus.Publish(event.Event{
		Type:      t,
		TimeLogID: log.ID,
		TaskID:    log.TaskID,
		UserID:    log.UserID,
	})
}
