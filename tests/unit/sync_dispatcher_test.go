package unit

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	syncdispatcher "accolade/contexts/award-lifecycle/sync-dispatcher"
	syncmemory "accolade/contexts/award-lifecycle/sync-dispatcher/adapters/memory"
	"accolade/contexts/award-lifecycle/sync-dispatcher/application/workers"
	"accolade/internal/platform/crm"
	"accolade/internal/shared/events"
	"accolade/internal/shared/outbox"
)

func nominatorEntry(t *testing.T, entryID string, createdAt time.Time) outbox.Entry {
	t.Helper()
	payload, err := json.Marshal(events.NominatorSyncPayload{
		NominatorID: "nominator-1",
		Email:       "nominator@example.com",
		DisplayName: "Nora Minator",
		Company:     "Example Co",
		SubmittedAt: createdAt,
	})
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return outbox.Entry{
		EntryID:       entryID,
		EventType:     outbox.EventNominatorSync,
		Payload:       payload,
		Status:        outbox.StatusPending,
		NextAttemptAt: createdAt,
		CreatedAt:     createdAt,
		UpdatedAt:     createdAt,
	}
}

func TestDispatcherDeliversAfterTransientFailures(t *testing.T) {
	collaborator := crm.NewCollaborator()
	module := syncdispatcher.NewInMemoryModule(collaborator, collaborator, nil)

	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	module.Store.SetNow(start)
	module.Store.Seed([]outbox.Entry{nominatorEntry(t, "entry-1", start)})
	collaborator.SetFailures(3)

	// Three failing cycles, then one that succeeds. Time advances past the
	// backoff schedule between cycles.
	for cycle := 0; cycle < 4; cycle++ {
		if err := module.Dispatcher.RunOnce(context.Background()); err != nil {
			t.Fatalf("cycle %d failed: %v", cycle, err)
		}
		module.Store.SetNow(start.Add(time.Duration(cycle+1) * time.Hour))
	}

	entry, ok := module.Store.Entry("entry-1")
	if !ok {
		t.Fatalf("entry missing")
	}
	if entry.Status != outbox.StatusDone {
		t.Fatalf("expected done, got %s (last error %q)", entry.Status, entry.LastError)
	}
	if entry.AttemptCount != 4 {
		t.Fatalf("expected attempt count 4, got %d", entry.AttemptCount)
	}
	if _, found := collaborator.Contact("nominator@example.com"); !found {
		t.Fatalf("expected contact upserted after successful delivery")
	}
}

func TestDispatcherBacksOffBetweenAttempts(t *testing.T) {
	collaborator := crm.NewCollaborator()
	module := syncdispatcher.NewInMemoryModule(collaborator, collaborator, nil)
	module.Dispatcher.BaseBackoff = time.Minute

	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	module.Store.SetNow(start)
	module.Store.Seed([]outbox.Entry{nominatorEntry(t, "entry-1", start)})
	collaborator.SetFailures(1)

	if err := module.Dispatcher.RunOnce(context.Background()); err != nil {
		t.Fatalf("first cycle failed: %v", err)
	}
	entry, _ := module.Store.Entry("entry-1")
	if entry.Status != outbox.StatusPending {
		t.Fatalf("expected pending after transient failure, got %s", entry.Status)
	}
	if !entry.NextAttemptAt.Equal(start.Add(time.Minute)) {
		t.Fatalf("expected next attempt at +1m, got %s", entry.NextAttemptAt)
	}

	// Still inside the backoff window: the entry must not be claimed.
	module.Store.SetNow(start.Add(30 * time.Second))
	if err := module.Dispatcher.RunOnce(context.Background()); err != nil {
		t.Fatalf("second cycle failed: %v", err)
	}
	entry, _ = module.Store.Entry("entry-1")
	if entry.AttemptCount != 1 {
		t.Fatalf("entry claimed inside backoff window, attempts %d", entry.AttemptCount)
	}

	module.Store.SetNow(start.Add(2 * time.Minute))
	if err := module.Dispatcher.RunOnce(context.Background()); err != nil {
		t.Fatalf("third cycle failed: %v", err)
	}
	entry, _ = module.Store.Entry("entry-1")
	if entry.Status != outbox.StatusDone {
		t.Fatalf("expected done after backoff elapsed, got %s", entry.Status)
	}
}

func TestDispatcherDeadLettersAfterMaxAttempts(t *testing.T) {
	collaborator := crm.NewCollaborator()
	module := syncdispatcher.NewInMemoryModule(collaborator, collaborator, nil)
	module.Dispatcher.MaxAttempts = 3

	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	module.Store.SetNow(start)
	module.Store.Seed([]outbox.Entry{nominatorEntry(t, "entry-1", start)})
	collaborator.SetFailures(100)

	for cycle := 0; cycle < 5; cycle++ {
		if err := module.Dispatcher.RunOnce(context.Background()); err != nil {
			t.Fatalf("cycle %d failed: %v", cycle, err)
		}
		module.Store.SetNow(start.Add(time.Duration(cycle+1) * time.Hour))
	}

	entry, _ := module.Store.Entry("entry-1")
	if entry.Status != outbox.StatusDead {
		t.Fatalf("expected dead, got %s", entry.Status)
	}
	if entry.AttemptCount != 3 {
		t.Fatalf("expected exactly 3 attempts, got %d", entry.AttemptCount)
	}
	if entry.LastError == "" {
		t.Fatalf("dead entry must record the last error")
	}
}

func TestDispatcherDeadLettersRejectionsSooner(t *testing.T) {
	collaborator := crm.NewCollaborator()
	module := syncdispatcher.NewInMemoryModule(collaborator, collaborator, nil)
	collaborator.SetRejectAll(true)

	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	module.Store.SetNow(start)
	module.Store.Seed([]outbox.Entry{nominatorEntry(t, "entry-1", start)})

	for cycle := 0; cycle < 3; cycle++ {
		if err := module.Dispatcher.RunOnce(context.Background()); err != nil {
			t.Fatalf("cycle %d failed: %v", cycle, err)
		}
		module.Store.SetNow(start.Add(time.Duration(cycle+1) * time.Hour))
	}

	entry, _ := module.Store.Entry("entry-1")
	if entry.Status != outbox.StatusDead {
		t.Fatalf("expected rejected payload dead-lettered, got %s", entry.Status)
	}
	if entry.AttemptCount != 2 {
		t.Fatalf("expected rejection budget of 2 attempts, got %d", entry.AttemptCount)
	}
}

func TestDispatcherSkipsEntriesClaimedElsewhere(t *testing.T) {
	collaborator := crm.NewCollaborator()
	module := syncdispatcher.NewInMemoryModule(collaborator, collaborator, nil)

	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	module.Store.SetNow(start)
	module.Store.Seed([]outbox.Entry{nominatorEntry(t, "entry-1", start)})

	claimed, err := module.Store.ClaimPending(context.Background(), "other-instance", 10, start)
	if err != nil {
		t.Fatalf("claim failed: %v", err)
	}
	if len(claimed) != 1 {
		t.Fatalf("expected 1 claimed entry, got %d", len(claimed))
	}

	if err := module.Dispatcher.RunOnce(context.Background()); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	entry, _ := module.Store.Entry("entry-1")
	if entry.Status != outbox.StatusProcessing || entry.ClaimToken != "other-instance" {
		t.Fatalf("entry held by another instance was touched: %+v", entry)
	}
	if _, found := collaborator.Contact("nominator@example.com"); found {
		t.Fatalf("entry claimed elsewhere must not be delivered here")
	}
}

func TestDispatcherRequeuesClaimsFromCrashedInstance(t *testing.T) {
	collaborator := crm.NewCollaborator()
	module := syncdispatcher.NewInMemoryModule(collaborator, collaborator, nil)
	module.Dispatcher.ClaimExpiry = time.Minute

	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	module.Store.SetNow(start)
	module.Store.Seed([]outbox.Entry{nominatorEntry(t, "entry-1", start)})

	// Another instance claims the entry and then dies before marking it.
	claimed, err := module.Store.ClaimPending(context.Background(), "crashed-instance", 10, start)
	if err != nil {
		t.Fatalf("claim failed: %v", err)
	}
	if len(claimed) != 1 {
		t.Fatalf("expected 1 claimed entry, got %d", len(claimed))
	}

	// Inside the visibility window the claim is still honored.
	module.Store.SetNow(start.Add(30 * time.Second))
	if err := module.Dispatcher.RunOnce(context.Background()); err != nil {
		t.Fatalf("run inside window failed: %v", err)
	}
	entry, _ := module.Store.Entry("entry-1")
	if entry.Status != outbox.StatusProcessing {
		t.Fatalf("live claim was requeued early, got %s", entry.Status)
	}

	// Past the window the entry goes back to pending and gets delivered.
	module.Store.SetNow(start.Add(2 * time.Minute))
	if err := module.Dispatcher.RunOnce(context.Background()); err != nil {
		t.Fatalf("run past window failed: %v", err)
	}
	entry, _ = module.Store.Entry("entry-1")
	if entry.Status != outbox.StatusDone {
		t.Fatalf("expected done after requeue, got %s (last error %q)", entry.Status, entry.LastError)
	}
	if entry.AttemptCount != 2 {
		t.Fatalf("expected 2 attempts (crashed claim plus recovery), got %d", entry.AttemptCount)
	}
	if _, found := collaborator.Contact("nominator@example.com"); !found {
		t.Fatalf("expected recovered entry delivered")
	}
}

// markLossStore delivers fine but cannot persist the done mark, as when the
// database drops out right after the CRM call.
type markLossStore struct {
	*syncmemory.Store
}

func (s markLossStore) MarkDone(context.Context, string, string, time.Time) error {
	return errors.New("connection reset")
}

func TestDispatcherOnlyLogsDeliveryAfterMarkSucceeds(t *testing.T) {
	collaborator := crm.NewCollaborator()
	store := syncmemory.NewStore()
	var logs bytes.Buffer
	dispatcher := workers.Dispatcher{
		Outbox: markLossStore{store},
		CRM:    collaborator,
		Email:  collaborator,
		Clock:  store,
		IDGen:  store,
		Logger: slog.New(slog.NewTextHandler(&logs, nil)),
	}

	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	store.SetNow(start)
	store.Seed([]outbox.Entry{nominatorEntry(t, "entry-1", start)})

	if err := dispatcher.RunOnce(context.Background()); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if strings.Contains(logs.String(), "sync_entry_delivered") {
		t.Fatalf("delivery logged despite failed done mark:\n%s", logs.String())
	}
	if !strings.Contains(logs.String(), "sync_dispatch_mark_done_failed") {
		t.Fatalf("expected mark failure logged:\n%s", logs.String())
	}
}

func TestOutboxHealthReportsBacklog(t *testing.T) {
	collaborator := crm.NewCollaborator()
	module := syncdispatcher.NewInMemoryModule(collaborator, collaborator, nil)
	module.Dispatcher.MaxAttempts = 1
	collaborator.SetFailures(100)

	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	module.Store.SetNow(start)
	module.Store.Seed([]outbox.Entry{
		nominatorEntry(t, "entry-dead", start.Add(-time.Hour)),
		nominatorEntry(t, "entry-pending", start.Add(30*time.Minute)),
	})

	if err := module.Dispatcher.RunOnce(context.Background()); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	health, err := module.Handler.OutboxHealthHandler(context.Background())
	if err != nil {
		t.Fatalf("health failed: %v", err)
	}
	if health.Dead != 1 || health.Pending != 1 {
		t.Fatalf("unexpected health counts: %+v", health)
	}

	dead, err := module.Handler.DeadEntriesHandler(context.Background(), 10)
	if err != nil {
		t.Fatalf("dead entries failed: %v", err)
	}
	if len(dead.Items) != 1 || dead.Items[0].EntryID != "entry-dead" {
		t.Fatalf("unexpected dead list: %+v", dead.Items)
	}
}
