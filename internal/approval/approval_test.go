package approval

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/clockwork-dev/clockwork/internal/apperr"
	"github.com/clockwork-dev/clockwork/internal/db"
	"github.com/clockwork-dev/clockwork/internal/event"
	"github.com/clockwork-dev/clockwork/internal/ledger"
	"github.com/clockwork-dev/clockwork/internal/models"
)

type fixture struct {
	workflow *Workflow
	ledger   *ledger.Ledger
	bus      *event.Bus
	worker   *models.User
	approver *models.User
	task     *models.Task
}

func setup(t *testing.T) *fixture {
	t.Helper()

	gdb, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}

	led := ledger.New(gdb)
	bus := event.NewBus()

	worker, err := led.GetOrCreateUser("worker")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	approver, err := led.GetOrCreateUser("boss")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	approver.Approver = true
	if err := led.SaveUser(approver); err != nil {
		t.Fatalf("save approver: %v", err)
	}
	task, err := led.CreateTask("review the quarterly numbers", "finance", "")
	if err != nil {
		t.Fatalf("create task: %v", err)
	}

	return &fixture{
		workflow: New(led, bus),
		ledger:   led,
		bus:      bus,
		worker:   worker,
		approver: approver,
		task:     task,
	}
}

// closedLog inserts a finished pending log ready for a decision.
func (f *fixture) closedLog(t *testing.T) *models.TimeLog {
	t.Helper()

	start := time.Date(2026, 8, 24, 9, 0, 0, 0, time.Local)
	end := start.Add(time.Hour)
	log := &models.TimeLog{
		TaskID:           f.task.ID,
		UserID:           f.worker.ID,
		ProjectID:        f.task.ProjectID,
		StartTime:        start,
		EndTime:          &end,
		DurationSeconds:  3600,
		LastTransitionAt: end,
		Status:           models.ApprovalPending,
	}
	if err := f.ledger.CreateLog(log); err != nil {
		t.Fatalf("create log: %v", err)
	}
	return log
}

// openLog inserts a still-running pending log.
func (f *fixture) openLog(t *testing.T) *models.TimeLog {
	t.Helper()

	start := time.Date(2026, 8, 24, 9, 0, 0, 0, time.Local)
	log := &models.TimeLog{
		TaskID:           f.task.ID,
		UserID:           f.worker.ID,
		ProjectID:        f.task.ProjectID,
		StartTime:        start,
		LastTransitionAt: start,
		Status:           models.ApprovalPending,
	}
	if err := f.ledger.CreateLog(log); err != nil {
		t.Fatalf("create log: %v", err)
	}
	return log
}

func TestApprove(t *testing.T) {
	f := setup(t)
	log := f.closedLog(t)

	var events []event.Type
	f.bus.Subscribe(func(e event.Event) { events = append(events, e.Type) })

	approved, err := f.workflow.Approve(f.approver.ID, log.ID)
	if err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if approved.Status != models.ApprovalApproved {
		t.Errorf("status = %q, want approved", approved.Status)
	}
	if len(events) != 1 || events[0] != event.TypeLogApproved {
		t.Errorf("events = %v, want [log_approved]", events)
	}
}

func TestRejectRequiresReason(t *testing.T) {
	f := setup(t)
	log := f.closedLog(t)

	if _, err := f.workflow.Reject(f.approver.ID, log.ID, "  "); !apperr.IsKind(err, apperr.KindValidation) {
		t.Errorf("empty reason error = %v, want validation", err)
	}

	rejected, err := f.workflow.Reject(f.approver.ID, log.ID, "hours don't match the standup notes")
	if err != nil {
		t.Fatalf("Reject: %v", err)
	}
	if rejected.Status != models.ApprovalRejected {
		t.Errorf("status = %q, want rejected", rejected.Status)
	}
	if rejected.RejectionReason == "" {
		t.Error("rejection reason not recorded")
	}
}

func TestDecisionIsTerminal(t *testing.T) {
	f := setup(t)

	approved := f.closedLog(t)
	if _, err := f.workflow.Approve(f.approver.ID, approved.ID); err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if _, err := f.workflow.Reject(f.approver.ID, approved.ID, "changed my mind"); !apperr.IsKind(err, apperr.KindState) {
		t.Errorf("Reject after Approve error = %v, want state error", err)
	}
	if _, err := f.workflow.Approve(f.approver.ID, approved.ID); !apperr.IsKind(err, apperr.KindState) {
		t.Errorf("double Approve error = %v, want state error", err)
	}

	rejected := f.closedLog(t)
	if _, err := f.workflow.Reject(f.approver.ID, rejected.ID, "wrong task"); err != nil {
		t.Fatalf("Reject: %v", err)
	}
	if _, err := f.workflow.Approve(f.approver.ID, rejected.ID); !apperr.IsKind(err, apperr.KindState) {
		t.Errorf("Approve after Reject error = %v, want state error", err)
	}
}

func TestCannotDecideOpenTimer(t *testing.T) {
	f := setup(t)
	log := f.openLog(t)

	if _, err := f.workflow.Approve(f.approver.ID, log.ID); !apperr.IsKind(err, apperr.KindState) {
		t.Errorf("Approve open log error = %v, want state error", err)
	}
	if _, err := f.workflow.Reject(f.approver.ID, log.ID, "too soon"); !apperr.IsKind(err, apperr.KindState) {
		t.Errorf("Reject open log error = %v, want state error", err)
	}

	reloaded, err := f.ledger.GetLog(log.ID)
	if err != nil {
		t.Fatalf("reload log: %v", err)
	}
	if reloaded.Status != models.ApprovalPending {
		t.Errorf("status = %q, want pending", reloaded.Status)
	}
}

func TestNonApproverCannotDecide(t *testing.T) {
	f := setup(t)
	log := f.closedLog(t)

	if _, err := f.workflow.Approve(f.worker.ID, log.ID); !apperr.IsKind(err, apperr.KindState) {
		t.Errorf("non-approver Approve error = %v, want state error", err)
	}
}

func TestUnknownLog(t *testing.T) {
	f := setup(t)

	if _, err := f.workflow.Approve(f.approver.ID, 444); !apperr.IsKind(err, apperr.KindNotFound) {
		t.Errorf("Approve unknown log error = %v, want not found", err)
	}
}
