package workflow_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"streamscribe/internal/logging"
	"streamscribe/internal/queue"
	"streamscribe/internal/stage"
	"streamscribe/internal/testsupport"
	"streamscribe/internal/workflow"
)

type stubStage struct {
	name        string
	prepareHook func(*queue.Job)
	executeHook func(*queue.Job)
	prepareErr  error
	executeErr  error
	health      stage.Health
}

func newStubStage(name string) *stubStage {
	return &stubStage{name: name, health: stage.Healthy(name)}
}

func (s *stubStage) Prepare(_ context.Context, job *queue.Job) error {
	if s.prepareHook != nil {
		s.prepareHook(job)
	}
	return s.prepareErr
}

func (s *stubStage) Execute(_ context.Context, job *queue.Job) error {
	if s.executeHook != nil {
		s.executeHook(job)
	}
	return s.executeErr
}

func (s *stubStage) HealthCheck(context.Context) stage.Health {
	return s.health
}

type recordingNotifier struct {
	mu         sync.Mutex
	started    []string
	completed  []string
	failed     []string
	queueDone  int
	lastChunks int
}

func (r *recordingNotifier) NotifyJobStarted(_ context.Context, title string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.started = append(r.started, title)
	return nil
}

func (r *recordingNotifier) NotifyJobCompleted(_ context.Context, title string, chunks int, _ time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.completed = append(r.completed, title)
	r.lastChunks = chunks
	return nil
}

func (r *recordingNotifier) NotifyJobFailed(_ context.Context, title, _ string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failed = append(r.failed, title)
	return nil
}

func (r *recordingNotifier) NotifyQueueCompleted(_ context.Context, _, _ int, _ time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.queueDone++
	return nil
}

func (r *recordingNotifier) NotifyError(context.Context, error, string) error { return nil }

func (r *recordingNotifier) TestNotification(context.Context) error { return nil }

func (r *recordingNotifier) snapshot() (started, completed, failed []string, queueDone int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.started...),
		append([]string(nil), r.completed...),
		append([]string(nil), r.failed...),
		r.queueDone
}

func waitForStatus(t *testing.T, store *queue.Store, id int64, want queue.Status) *queue.Job {
	t.Helper()
	deadline := time.After(30 * time.Second)
	for {
		select {
		case <-deadline:
			t.Fatalf("timed out waiting for status %s", want)
		default:
		}
		job, err := store.GetByID(context.Background(), id)
		if err != nil {
			t.Fatalf("GetByID failed: %v", err)
		}
		if job != nil && job.Status == want {
			return job
		}
		time.Sleep(25 * time.Millisecond)
	}
}

func newTestManager(t *testing.T, set workflow.StageSet) (*workflow.Manager, *queue.Store, *recordingNotifier) {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	cfg.Workflow.QueuePollInterval = 0
	store := testsupport.MustOpenStore(t, cfg)
	notifier := &recordingNotifier{}
	mgr := workflow.NewManagerWithNotifier(cfg, store, logging.NewNop(), notifier)
	mgr.ConfigureStages(set)
	return mgr, store, notifier
}

func TestManagerProcessesJobThroughPipeline(t *testing.T) {
	identifier := newStubStage("identifier")
	identifier.executeHook = func(job *queue.Job) {
		job.Title = "Talk"
		job.DurationSeconds = 120
		job.Status = queue.StatusIdentified
	}
	transcriber := newStubStage("transcriber")
	transcriber.executeHook = func(job *queue.Job) {
		job.LastChunk = 4
		job.Status = queue.StatusTranscribed
	}
	exporter := newStubStage("exporter")
	exporter.executeHook = func(job *queue.Job) {
		job.Status = queue.StatusCompleted
	}

	mgr, store, notifier := newTestManager(t, workflow.StageSet{
		Identifier:  identifier,
		Transcriber: transcriber,
		Exporter:    exporter,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := mgr.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	t.Cleanup(mgr.Stop)

	job := testsupport.NewJob(t, store, "https://example.com/watch?v=abc")
	final := waitForStatus(t, store, job.ID, queue.StatusCompleted)
	if final.Title != "Talk" {
		t.Fatalf("expected identified title to persist, got %q", final.Title)
	}
	if final.LastChunk != 4 {
		t.Fatalf("expected last chunk to persist, got %d", final.LastChunk)
	}
	if final.ProgressPercent != 100 {
		t.Fatalf("expected completed job at 100%%, got %f", final.ProgressPercent)
	}

	deadline := time.After(10 * time.Second)
	for {
		started, completed, failed, queueDone := notifier.snapshot()
		if len(started) == 1 && len(completed) == 1 && queueDone == 1 {
			if len(failed) != 0 {
				t.Fatalf("unexpected failure notifications: %v", failed)
			}
			if completed[0] != "Talk" {
				t.Fatalf("unexpected completion title %q", completed[0])
			}
			break
		}
		select {
		case <-deadline:
			t.Fatalf("notifications incomplete: started=%v completed=%v queueDone=%d", started, completed, queueDone)
		default:
			time.Sleep(25 * time.Millisecond)
		}
	}
}

func TestManagerMarksJobFailedOnStageError(t *testing.T) {
	identifier := newStubStage("identifier")
	identifier.executeErr = errors.New("video unavailable")

	mgr, store, notifier := newTestManager(t, workflow.StageSet{
		Identifier:  identifier,
		Transcriber: newStubStage("transcriber"),
		Exporter:    newStubStage("exporter"),
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := mgr.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	t.Cleanup(mgr.Stop)

	job := testsupport.NewJob(t, store, "https://example.com/watch?v=gone")
	failedJob := waitForStatus(t, store, job.ID, queue.StatusFailed)
	if failedJob.ErrorMessage == "" {
		t.Fatal("expected error message on failed job")
	}

	deadline := time.After(10 * time.Second)
	for {
		_, _, failed, _ := notifier.snapshot()
		if len(failed) == 1 {
			break
		}
		select {
		case <-deadline:
			t.Fatal("expected failure notification")
		default:
			time.Sleep(25 * time.Millisecond)
		}
	}
}

func TestManagerStartRequiresStages(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	mgr := workflow.NewManagerWithNotifier(cfg, store, logging.NewNop(), &recordingNotifier{})

	if err := mgr.Start(context.Background()); err == nil {
		mgr.Stop()
		t.Fatal("expected Start to fail without configured stages")
	}
}

func TestManagerStatusReportsHealthAndStats(t *testing.T) {
	identifier := newStubStage("identifier")
	transcriber := newStubStage("transcriber")
	transcriber.health = stage.Unhealthy("transcriber", "whisper endpoint unreachable")

	mgr, store, _ := newTestManager(t, workflow.StageSet{
		Identifier:  identifier,
		Transcriber: transcriber,
		Exporter:    newStubStage("exporter"),
	})

	testsupport.NewJob(t, store, "https://example.com/watch?v=status")

	summary := mgr.Status(context.Background())
	if summary.Running {
		t.Fatal("manager should not report running before Start")
	}
	if summary.QueueStats[queue.StatusPending] != 1 {
		t.Fatalf("expected one pending job, got %d", summary.QueueStats[queue.StatusPending])
	}
	health, ok := summary.StageHealth["transcriber"]
	if !ok {
		t.Fatal("expected transcriber health entry")
	}
	if health.Ready {
		t.Fatal("expected transcriber health to be not ready")
	}
}
