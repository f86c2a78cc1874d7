package cases

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"
)

func newTestScheduler(repo *fakeRepo, platform *fakePlatform, notifier *fakeNotifier, now time.Time) (*Engine, *Scheduler) {
	engine := NewEngine(repo, platform, notifier, zap.NewNop())
	engine.WithClock(fakeClock{now: now})
	scheduler := NewScheduler(engine, repo, zap.NewNop(), time.Hour)
	scheduler.WithClock(fakeClock{now: now})
	engine.SetScheduler(scheduler)
	return engine, scheduler
}

func TestTickDeletesOnlyExpiredCases(t *testing.T) {
	now := time.Unix(1700000000, 0)
	repo := newFakeRepo()
	platform := newFakePlatform("u1", "u2", "u3")
	notifier := &fakeNotifier{}
	_, scheduler := newTestScheduler(repo, platform, notifier, now)

	past := now.Add(-time.Minute)
	repo.rows[key("g1", 1)] = Case{Kind: KindMute, ID: 1, GuildID: "g1", TargetID: "u1", ModeratorID: "m1", ExpiresAt: &past}
	repo.rows[key("g1", 2)] = Case{Kind: KindMute, ID: 2, GuildID: "g1", TargetID: "u2", ModeratorID: "m1", ExpiresAt: &past}
	repo.rows[key("g1", 3)] = Case{Kind: KindWarn, ID: 3, GuildID: "g1", TargetID: "u3", ModeratorID: "m1"}

	scheduler.Start()
	scheduler.Tick(context.Background())

	if _, found, _ := repo.FindByID(context.Background(), "g1", 1); found {
		t.Fatal("expired mute 1 should be gone")
	}
	if _, found, _ := repo.FindByID(context.Background(), "g1", 2); found {
		t.Fatal("expired mute 2 should be gone")
	}
	if _, found, _ := repo.FindByID(context.Background(), "g1", 3); !found {
		t.Fatal("permanent warn must never be scanned out")
	}
	if scheduler.Running() {
		t.Fatal("scheduler must be idle after a tick")
	}
}

func TestTickIsolatesPerCaseFailures(t *testing.T) {
	now := time.Unix(1700000000, 0)
	repo := newFakeRepo()
	platform := newFakePlatform("u1", "u2")
	notifier := &fakeNotifier{}
	_, scheduler := newTestScheduler(repo, platform, notifier, now)

	past := now.Add(-time.Minute)
	// Removing the first mute's timeout fails; the second must still go.
	platform.removeErr = ErrPermission
	repo.rows[key("g1", 1)] = Case{Kind: KindMute, ID: 1, GuildID: "g1", TargetID: "u1", ModeratorID: "m1", ExpiresAt: &past}
	repo.rows[key("g1", 2)] = Case{Kind: KindWarn, ID: 2, GuildID: "g1", TargetID: "u2", ModeratorID: "m1", ExpiresAt: &past}

	scheduler.Tick(context.Background())

	if _, found, _ := repo.FindByID(context.Background(), "g1", 1); !found {
		t.Fatal("failed removal must leave the mute row in place")
	}
	if _, found, _ := repo.FindByID(context.Background(), "g1", 2); found {
		t.Fatal("a sibling failure must not stop the other deletions")
	}
	if scheduler.Running() {
		t.Fatal("scheduler must still go idle after a failing scan")
	}
}

// restartingRepo fires a scheduler restart from inside the scan, the way a
// moderator creating a timed case while a scan is in flight does.
type restartingRepo struct {
	*fakeRepo
	scheduler *Scheduler
}

func (r *restartingRepo) FindExpired(ctx context.Context, now time.Time) ([]Case, error) {
	r.scheduler.Restart()
	return r.fakeRepo.FindExpired(ctx, now)
}

func TestMidTickRestartSurvivesTick(t *testing.T) {
	now := time.Unix(1700000000, 0)
	repo := &restartingRepo{fakeRepo: newFakeRepo()}
	platform := newFakePlatform("u1")
	engine := NewEngine(repo, platform, &fakeNotifier{}, zap.NewNop())
	engine.WithClock(fakeClock{now: now})
	scheduler := NewScheduler(engine, repo, zap.NewNop(), time.Hour)
	scheduler.WithClock(fakeClock{now: now})
	engine.SetScheduler(scheduler)
	repo.scheduler = scheduler

	past := now.Add(-time.Minute)
	repo.rows[key("g1", 1)] = Case{Kind: KindMute, ID: 1, GuildID: "g1", TargetID: "u1", ModeratorID: "m1", ExpiresAt: &past}

	scheduler.Start()
	scheduler.Tick(context.Background())
	defer scheduler.Stop()

	if !scheduler.Running() {
		t.Fatal("a restart issued during the scan must leave the scheduler running")
	}
	if _, found, _ := repo.FindByID(context.Background(), "g1", 1); found {
		t.Fatal("the scan must still delete the expired case")
	}
}

func TestSchedulerLifecycle(t *testing.T) {
	repo := newFakeRepo()
	_, scheduler := newTestScheduler(repo, newFakePlatform(), &fakeNotifier{}, time.Unix(1700000000, 0))

	if scheduler.Running() {
		t.Fatal("fresh scheduler is idle")
	}
	scheduler.Start()
	if !scheduler.Running() {
		t.Fatal("started scheduler is running")
	}
	scheduler.Start() // idempotent
	if !scheduler.Running() {
		t.Fatal("double start keeps it running")
	}
	scheduler.Stop()
	if scheduler.Running() {
		t.Fatal("stopped scheduler is idle")
	}
	scheduler.Restart()
	if !scheduler.Running() {
		t.Fatal("restart from idle starts the scheduler")
	}
	scheduler.Restart() // safe while running too
	if !scheduler.Running() {
		t.Fatal("restart while running keeps it running")
	}
	scheduler.Stop()
}

func TestTimedCreateStartsScheduler(t *testing.T) {
	now := time.Unix(1700000000, 0)
	repo := newFakeRepo()
	platform := newFakePlatform("u50")
	engine, scheduler := newTestScheduler(repo, platform, &fakeNotifier{}, now)
	defer scheduler.Stop()

	expires := now.Add(5 * time.Second)
	c := Case{Kind: KindMute, ID: 100, GuildID: "g1", TargetID: "u50", ModeratorID: "m1", ExpiresAt: &expires}
	created, err := engine.Create(context.Background(), c)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created == nil {
		t.Fatal("expected created case")
	}
	if !scheduler.Running() {
		t.Fatal("creating a timed case must start the scheduler")
	}

	until := platform.timeouts["u50"]
	if !until.Equal(expires) {
		t.Fatalf("expected timeout until %v, got %v", expires, until)
	}
}

func TestMuteExpiryEndToEnd(t *testing.T) {
	now := time.Unix(1700000000, 0)
	repo := newFakeRepo()
	platform := newFakePlatform("u50")
	engine, scheduler := newTestScheduler(repo, platform, &fakeNotifier{}, now)

	expires := now.Add(5 * time.Second)
	c := Case{Kind: KindMute, ID: 100, GuildID: "g1", TargetID: "u50", ModeratorID: "m1", ExpiresAt: &expires}
	if _, err := engine.Create(context.Background(), c); err != nil {
		t.Fatalf("create: %v", err)
	}

	// Advance the clock past the expiry and run one scan.
	later := now.Add(6 * time.Second)
	scheduler.WithClock(fakeClock{now: later})
	scheduler.Tick(context.Background())

	if _, found, _ := repo.FindByID(context.Background(), "g1", 100); found {
		t.Fatal("expected case 100 to be removed")
	}
	if _, ok := platform.timeouts["u50"]; ok {
		t.Fatal("expected target's timeout to be cleared")
	}
	if scheduler.Running() {
		t.Fatal("scheduler must be idle after the tick")
	}
}

func TestPermanentCreateLeavesSchedulerIdle(t *testing.T) {
	repo := newFakeRepo()
	platform := newFakePlatform("u50")
	engine, scheduler := newTestScheduler(repo, platform, &fakeNotifier{}, time.Unix(1700000000, 0))

	c := Case{Kind: KindWarn, ID: 1, GuildID: "g1", TargetID: "u50", ModeratorID: "m1"}
	if _, err := engine.Create(context.Background(), c); err != nil {
		t.Fatalf("create: %v", err)
	}
	if scheduler.Running() {
		t.Fatal("permanent case must not start the scheduler")
	}
}

func TestEditExpiryRestartsScheduler(t *testing.T) {
	now := time.Unix(1700000000, 0)
	repo := newFakeRepo()
	platform := newFakePlatform("u50")
	engine, scheduler := newTestScheduler(repo, platform, &fakeNotifier{}, now)
	defer scheduler.Stop()

	c := Case{Kind: KindWarn, ID: 2, GuildID: "g1", TargetID: "u50", ModeratorID: "m1"}
	if _, err := engine.Create(context.Background(), c); err != nil {
		t.Fatalf("create: %v", err)
	}
	if scheduler.Running() {
		t.Fatal("precondition: scheduler idle")
	}

	expires := now.Add(time.Minute)
	if err := engine.Edit(context.Background(), c, Patch{ExpiresAt: &expires}); err != nil {
		t.Fatalf("edit: %v", err)
	}
	if !scheduler.Running() {
		t.Fatal("edit that adds an expiry must restart the scheduler")
	}
}
