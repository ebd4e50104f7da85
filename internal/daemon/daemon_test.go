package daemon_test

import (
	"context"
	"testing"

	"streamscribe/internal/daemon"
	"streamscribe/internal/logging"
	"streamscribe/internal/notifications"
	"streamscribe/internal/queue"
	"streamscribe/internal/stage"
	"streamscribe/internal/testsupport"
	"streamscribe/internal/workflow"
)

func newTestDaemon(t *testing.T) (*daemon.Daemon, *queue.Store) {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	cfg.Workflow.QueuePollInterval = 0
	store := testsupport.MustOpenStore(t, cfg)

	logger := logging.NewNop()
	mgr := workflow.NewManagerWithNotifier(cfg, store, logger, notifications.NewService(cfg))
	mgr.ConfigureStages(workflow.StageSet{
		Identifier:  noopHandler{},
		Transcriber: noopHandler{},
		Exporter:    noopHandler{},
	})

	d, err := daemon.New(cfg, store, logger, mgr, "")
	if err != nil {
		t.Fatalf("daemon.New failed: %v", err)
	}
	return d, store
}

func TestDaemonStartStop(t *testing.T) {
	d, _ := newTestDaemon(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := d.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if err := d.Start(ctx); err == nil {
		t.Fatal("expected second Start to fail while running")
	}
	d.Stop()

	if err := d.Start(ctx); err != nil {
		t.Fatalf("restart failed: %v", err)
	}
	d.Stop()
}

func TestDaemonAddJobValidation(t *testing.T) {
	d, _ := newTestDaemon(t)
	ctx := context.Background()

	if _, _, err := d.AddJob(ctx, queue.NewJobParams{URL: "   "}); err == nil {
		t.Fatal("expected empty url to fail")
	}
	if _, _, err := d.AddJob(ctx, queue.NewJobParams{URL: "not-a-url"}); err == nil {
		t.Fatal("expected malformed url to fail")
	}

	job, created, err := d.AddJob(ctx, queue.NewJobParams{
		URL:            "https://example.com/watch?v=abc",
		Model:          "whisper-1",
		ChunkSeconds:   30,
		OverlapSeconds: 5,
	})
	if err != nil {
		t.Fatalf("AddJob failed: %v", err)
	}
	if !created {
		t.Fatal("expected new job to be created")
	}
	if job.Status != queue.StatusPending {
		t.Fatalf("unexpected status %s", job.Status)
	}
}

func TestDaemonAddJobReusesResumable(t *testing.T) {
	d, _ := newTestDaemon(t)
	ctx := context.Background()

	first, created, err := d.AddJob(ctx, queue.NewJobParams{URL: "https://example.com/watch?v=dup", ChunkSeconds: 30, OverlapSeconds: 5})
	if err != nil || !created {
		t.Fatalf("initial AddJob failed: created=%v err=%v", created, err)
	}

	second, created, err := d.AddJob(ctx, queue.NewJobParams{URL: "https://example.com/watch?v=dup", ChunkSeconds: 30, OverlapSeconds: 5})
	if err != nil {
		t.Fatalf("second AddJob failed: %v", err)
	}
	if created {
		t.Fatal("expected existing job to be reused")
	}
	if second.ID != first.ID {
		t.Fatalf("expected job %d, got %d", first.ID, second.ID)
	}
}

func TestDaemonQueueMaintenance(t *testing.T) {
	d, store := newTestDaemon(t)
	ctx := context.Background()

	job, _, err := d.AddJob(ctx, queue.NewJobParams{URL: "https://example.com/watch?v=maint", ChunkSeconds: 30, OverlapSeconds: 5})
	if err != nil {
		t.Fatalf("AddJob failed: %v", err)
	}
	job.SetFailed("boom")
	if err := store.Update(ctx, job); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	retried, err := d.RetryFailed(ctx, nil)
	if err != nil {
		t.Fatalf("RetryFailed failed: %v", err)
	}
	if retried != 1 {
		t.Fatalf("expected one retried job, got %d", retried)
	}

	health, err := d.QueueHealth(ctx)
	if err != nil {
		t.Fatalf("QueueHealth failed: %v", err)
	}
	if health.Total != 1 || health.Pending != 1 {
		t.Fatalf("unexpected health: %+v", health)
	}

	removed, err := d.RemoveJobs(ctx, []int64{job.ID})
	if err != nil {
		t.Fatalf("RemoveJobs failed: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected one removed job, got %d", removed)
	}
}

func TestDaemonStatus(t *testing.T) {
	d, _ := newTestDaemon(t)
	status := d.Status(context.Background())
	if status.Running {
		t.Fatal("daemon should not report running before Start")
	}
	if status.QueueDBPath == "" || status.LockFilePath == "" {
		t.Fatalf("expected populated paths: %+v", status)
	}
	if len(status.Dependencies) == 0 {
		t.Fatal("expected dependency statuses")
	}
}

type noopHandler struct{}

func (noopHandler) Prepare(context.Context, *queue.Job) error { return nil }

func (noopHandler) Execute(context.Context, *queue.Job) error { return nil }

func (noopHandler) HealthCheck(context.Context) stage.Health { return stage.Healthy("noop") }
