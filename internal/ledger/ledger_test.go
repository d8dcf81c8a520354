package ledger

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/clockwork-dev/clockwork/internal/apperr"
	"github.com/clockwork-dev/clockwork/internal/db"
	"github.com/clockwork-dev/clockwork/internal/models"
)

func testLedger(t *testing.T) *Ledger {
	t.Helper()
	gdb, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	return New(gdb)
}

func seedLog(t *testing.T, l *Ledger, task *models.Task, user *models.User, start time.Time, open bool) *models.TimeLog {
	t.Helper()
	log := &models.TimeLog{
		TaskID:           task.ID,
		UserID:           user.ID,
		ProjectID:        task.ProjectID,
		StartTime:        start,
		LastTransitionAt: start,
		Status:           models.ApprovalPending,
	}
	if !open {
		end := start.Add(time.Hour)
		log.EndTime = &end
		log.DurationSeconds = 3600
	}
	if err := l.CreateLog(log); err != nil {
		t.Fatalf("create log: %v", err)
	}
	return log
}

func TestCreateLogChecksReferences(t *testing.T) {
	l := testLedger(t)

	user, _ := l.GetOrCreateUser("alice")
	task, _ := l.CreateTask("review pull requests", "infra", "")

	err := l.CreateLog(&models.TimeLog{TaskID: 9999, UserID: user.ID, StartTime: time.Now()})
	if !apperr.IsKind(err, apperr.KindNotFound) {
		t.Errorf("unknown task: err = %v, want not found", err)
	}

	err = l.CreateLog(&models.TimeLog{TaskID: task.ID, UserID: 9999, StartTime: time.Now()})
	if !apperr.IsKind(err, apperr.KindNotFound) {
		t.Errorf("unknown user: err = %v, want not found", err)
	}
}

func TestGetUserLogHidesOtherOwners(t *testing.T) {
	l := testLedger(t)

	alice, _ := l.GetOrCreateUser("alice")
	bob, _ := l.GetOrCreateUser("bob")
	task, _ := l.CreateTask("write onboarding doc", "docs", "")
	log := seedLog(t, l, task, alice, time.Now(), false)

	if _, err := l.GetUserLog(log.ID, alice.ID); err != nil {
		t.Fatalf("owner read: %v", err)
	}
	_, err := l.GetUserLog(log.ID, bob.ID)
	if !apperr.IsKind(err, apperr.KindNotFound) {
		t.Errorf("foreign read: err = %v, want not found", err)
	}
}

func TestOpenLogLookups(t *testing.T) {
	l := testLedger(t)

	alice, _ := l.GetOrCreateUser("alice")
	task, _ := l.CreateTask("triage bug backlog", "support", "")

	got, err := l.OpenLogForUser(alice.ID)
	if err != nil || got != nil {
		t.Fatalf("idle user: got %v, %v; want nil, nil", got, err)
	}

	open := seedLog(t, l, task, alice, time.Now(), true)

	got, err = l.OpenLogForUser(alice.ID)
	if err != nil {
		t.Fatalf("OpenLogForUser: %v", err)
	}
	if got == nil || got.ID != open.ID {
		t.Errorf("OpenLogForUser = %+v, want log %d", got, open.ID)
	}

	got, err = l.OpenLogForTask(task.ID)
	if err != nil {
		t.Fatalf("OpenLogForTask: %v", err)
	}
	if got == nil || got.ID != open.ID {
		t.Errorf("OpenLogForTask = %+v, want log %d", got, open.ID)
	}
}

func TestOpenLogIgnoresManualEntries(t *testing.T) {
	l := testLedger(t)

	alice, _ := l.GetOrCreateUser("alice")
	task, _ := l.CreateTask("prepare demo", "launch", "")

	// a manual entry with no end time should never count as an active timer
	manual := &models.TimeLog{
		TaskID:    task.ID,
		UserID:    alice.ID,
		ProjectID: task.ProjectID,
		StartTime: time.Now(),
		IsManual:  true,
		Status:    models.ApprovalPending,
	}
	if err := l.CreateLog(manual); err != nil {
		t.Fatalf("create manual log: %v", err)
	}

	got, err := l.OpenLogForUser(alice.ID)
	if err != nil {
		t.Fatalf("OpenLogForUser: %v", err)
	}
	if got != nil {
		t.Errorf("manual entry surfaced as open timer: %+v", got)
	}
}

func TestQueryLogsFilters(t *testing.T) {
	l := testLedger(t)

	alice, _ := l.GetOrCreateUser("alice")
	bob, _ := l.GetOrCreateUser("bob")
	infra, _ := l.CreateTask("rotate tls certs", "infra", "")
	docs, _ := l.CreateTask("update changelog", "docs", "")

	monday := time.Date(2026, 8, 24, 9, 0, 0, 0, time.Local)
	a := seedLog(t, l, infra, alice, monday, false)
	b := seedLog(t, l, docs, alice, monday.Add(3*time.Hour), false)
	seedLog(t, l, infra, bob, monday.Add(26*time.Hour), false)

	b.Status = models.ApprovalApproved
	if err := l.SaveLog(b); err != nil {
		t.Fatalf("save log: %v", err)
	}

	logs, err := l.QueryLogs(QueryFilter{UserID: &alice.ID})
	if err != nil {
		t.Fatalf("by user: %v", err)
	}
	if len(logs) != 2 {
		t.Errorf("by user: %d logs, want 2", len(logs))
	}

	logs, err = l.QueryLogs(QueryFilter{ProjectID: &infra.ProjectID})
	if err != nil {
		t.Fatalf("by project: %v", err)
	}
	if len(logs) != 2 {
		t.Errorf("by project: %d logs, want 2", len(logs))
	}

	logs, err = l.QueryLogs(QueryFilter{ApprovalStatus: models.ApprovalApproved})
	if err != nil {
		t.Fatalf("by status: %v", err)
	}
	if len(logs) != 1 || logs[0].ID != b.ID {
		t.Errorf("by status: got %d logs, want just log %d", len(logs), b.ID)
	}

	to := monday.Add(24 * time.Hour)
	logs, err = l.QueryLogs(QueryFilter{From: &monday, To: &to})
	if err != nil {
		t.Fatalf("by range: %v", err)
	}
	if len(logs) != 2 {
		t.Fatalf("by range: %d logs, want 2", len(logs))
	}
	if logs[0].ID != a.ID {
		t.Errorf("range results should be oldest first, got log %d", logs[0].ID)
	}
	if logs[0].Task.Project.Name != "infra" {
		t.Errorf("project preload missing, got %q", logs[0].Task.Project.Name)
	}
}
