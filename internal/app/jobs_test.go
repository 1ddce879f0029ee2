package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"
)

type completerStub struct {
	completed int64
	err       error
	calls     int
}

func (s *completerStub) CompleteExpiredSubscriptions(ctx context.Context, asOf time.Time) (int64, error) {
	s.calls++
	if s.err != nil {
		return 0, s.err
	}
	return s.completed, nil
}

func newTestJobs(st *earningsStoreStub, completer *completerStub) *Jobs {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	earnings := NewEarnings(st, &publisherStub{}, logger, 0)
	return NewJobs(earnings, completer, logger)
}

func TestRunDailyEarningsSwallowsRunFailure(t *testing.T) {
	st := newEarningsStoreStub()
	st.listErr = errors.New("store unavailable")
	jobs := newTestJobs(st, &completerStub{})

	// Must not panic; the cron wrapper has no error channel and the next
	// trigger retries the idempotent run.
	jobs.RunDailyEarnings()
}

func TestCompleteExpiredSubscriptionsJob(t *testing.T) {
	completer := &completerStub{completed: 3}
	jobs := newTestJobs(newEarningsStoreStub(), completer)

	jobs.CompleteExpiredSubscriptions()

	if completer.calls != 1 {
		t.Fatalf("expected 1 completion call, got %d", completer.calls)
	}
}

func TestCompleteExpiredSubscriptionsJobSwallowsFailure(t *testing.T) {
	completer := &completerStub{err: errors.New("db down")}
	jobs := newTestJobs(newEarningsStoreStub(), completer)

	jobs.CompleteExpiredSubscriptions()

	if completer.calls != 1 {
		t.Fatalf("expected the failing call to have been made once, got %d", completer.calls)
	}
}
