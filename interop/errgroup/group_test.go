package errgroup

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/NetPo4ki/go-taskexec/executor"
	"github.com/NetPo4ki/go-taskexec/resource"
	"github.com/NetPo4ki/go-taskexec/scope"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newExecutor(t *testing.T, limit int) *executor.Executor {
	t.Helper()
	res := resource.NewGoroutines(t.Name())
	e, err := executor.NewLimited(res, limit)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		_ = e.Shutdown(context.Background())
		_ = res.Shutdown(context.Background())
	})
	return e
}

func TestWithExecutorHappy(t *testing.T) {
	t.Parallel()
	g, gctx := WithExecutor(context.Background(), newExecutor(t, 0))
	_ = g.Go(func() error { return nil })
	_ = g.Go(func() error { time.Sleep(10 * time.Millisecond); return nil })
	if err := g.Wait(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gctx.Err() == nil {
		t.Fatal("context should be canceled once Wait returns")
	}
}

func TestWithExecutorErrorCancels(t *testing.T) {
	t.Parallel()
	g, gctx := WithExecutor(context.Background(), newExecutor(t, 0))
	done := make(chan struct{})
	boom := errors.New("boom")
	_ = g.Go(func() error { return boom })
	_ = g.Go(func() error {
		select {
		case <-gctx.Done():
			close(done)
			return nil
		case <-time.After(250 * time.Millisecond):
			t.Error("expected cancel propagation")
			return nil
		}
	})
	if err := g.Wait(); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	select {
	case <-done:
	case <-time.After(150 * time.Millisecond):
		t.Fatal("ctx was not canceled")
	}
	if cause := context.Cause(gctx); !errors.Is(cause, boom) {
		t.Fatalf("expected cause boom, got %v", cause)
	}
}

func TestWithExecutorPanicReported(t *testing.T) {
	t.Parallel()
	g, _ := WithExecutor(context.Background(), newExecutor(t, 1))
	_ = g.Go(func() error { panic("bad") })
	var pe *scope.PanicError
	if err := g.Wait(); !errors.As(err, &pe) {
		t.Fatalf("expected panic error, got %v", err)
	}
}

func TestWithExecutorParentDeadline(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	g, gctx := WithExecutor(ctx, newExecutor(t, 0))
	_ = g.Go(func() error {
		<-gctx.Done()
		return gctx.Err()
	})
	if err := g.Wait(); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected DeadlineExceeded, got %v", err)
	}
}

func TestWithExecutorRejection(t *testing.T) {
	t.Parallel()
	e := newExecutor(t, 0)
	if err := e.Shutdown(context.Background()); err != nil {
		t.Fatal(err)
	}
	g, _ := WithExecutor(context.Background(), e)
	if err := g.Go(func() error { return nil }); !errors.Is(err, resource.ErrRejected) {
		t.Fatalf("expected rejection, got %v", err)
	}
	if err := g.Wait(); !errors.Is(err, resource.ErrRejected) {
		t.Fatalf("expected rejection from Wait, got %v", err)
	}
}
