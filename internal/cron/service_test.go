package cron

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/emekaobi/naijamart-backend/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

type stubJob struct {
	name string
	err  error
	runs int
}

func (j *stubJob) Name() string { return j.name }

func (j *stubJob) Run(context.Context) error {
	j.runs++
	return j.err
}

type stubLock struct {
	held     bool
	acquired int
	released int
}

func (l *stubLock) Acquire(context.Context) (bool, error) {
	l.acquired++
	return !l.held, nil
}

func (l *stubLock) Release(context.Context) error {
	l.released++
	return nil
}

func TestRunCycleRunsAllJobsDespiteFailures(t *testing.T) {
	failing := &stubJob{name: "failing", err: errors.New("boom")}
	healthy := &stubJob{name: "healthy"}
	lock := &stubLock{}

	svc, err := NewService(ServiceParams{
		Logger:   testLogger(),
		Registry: NewRegistry(failing, healthy),
		Lock:     lock,
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	if err := svc.runCycle(context.Background()); err != nil {
		t.Fatalf("runCycle: %v", err)
	}
	if failing.runs != 1 || healthy.runs != 1 {
		t.Fatalf("runs = %d/%d, want 1/1", failing.runs, healthy.runs)
	}
	if lock.released != 1 {
		t.Fatalf("lock released %d times, want 1", lock.released)
	}
}

func TestRunCycleSkipsWhenLockHeld(t *testing.T) {
	job := &stubJob{name: "job"}
	lock := &stubLock{held: true}

	svc, err := NewService(ServiceParams{
		Logger:   testLogger(),
		Registry: NewRegistry(job),
		Lock:     lock,
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	if err := svc.runCycle(context.Background()); err != nil {
		t.Fatalf("runCycle: %v", err)
	}
	if job.runs != 0 {
		t.Fatalf("job ran %d times while lock held, want 0", job.runs)
	}
	if lock.released != 0 {
		t.Fatal("lock must not be released when never acquired")
	}
}

type stubContactRepo struct {
	resolvedErr error
	cappedErr   error
	cutoffs     []time.Time
}

func (s *stubContactRepo) PurgeResolvedBefore(_ context.Context, cutoff time.Time) (int64, error) {
	s.cutoffs = append(s.cutoffs, cutoff)
	return 3, s.resolvedErr
}

func (s *stubContactRepo) PurgeAllBefore(_ context.Context, cutoff time.Time) (int64, error) {
	s.cutoffs = append(s.cutoffs, cutoff)
	return 1, s.cappedErr
}

func TestContactRetentionJobCombinesPartialFailures(t *testing.T) {
	repo := &stubContactRepo{resolvedErr: errors.New("db timeout")}
	job, err := NewContactRetentionJob(ContactRetentionJobParams{
		Logger:     testLogger(),
		Repository: repo,
		Retention:  90 * 24 * time.Hour,
	})
	if err != nil {
		t.Fatalf("NewContactRetentionJob: %v", err)
	}

	runErr := job.Run(context.Background())
	if runErr == nil {
		t.Fatal("expected the resolved-purge failure to surface")
	}
	if len(repo.cutoffs) != 2 {
		t.Fatalf("both purges must run despite the first failing, got %d", len(repo.cutoffs))
	}
}

type stubFlashRepo struct {
	deactivated int64
}

func (s *stubFlashRepo) DeactivateExpired(_ context.Context, _ time.Time) (int64, error) {
	s.deactivated = 2
	return 2, nil
}

func TestNewsFlashExpiryJob(t *testing.T) {
	repo := &stubFlashRepo{}
	job, err := NewNewsFlashExpiryJob(NewsFlashExpiryJobParams{
		Logger:     testLogger(),
		Repository: repo,
	})
	if err != nil {
		t.Fatalf("NewNewsFlashExpiryJob: %v", err)
	}
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if repo.deactivated != 2 {
		t.Fatal("expected deactivation to run")
	}
}
