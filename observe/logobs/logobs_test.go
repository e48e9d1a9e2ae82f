package logobs

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NetPo4ki/go-taskexec/executor"
	"github.com/NetPo4ki/go-taskexec/resource"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestObserverLogsLifecycle(t *testing.T) {
	t.Parallel()
	var out syncBuffer
	l := slog.New(slog.NewTextHandler(&out, &slog.HandlerOptions{Level: slog.LevelDebug}))

	res := resource.NewGoroutines("log")
	e, err := executor.New(res, executor.WithObserver(New(l)))
	require.NoError(t, err)
	require.NoError(t, e.Go(func() error { return errors.New("boom") }))
	require.NoError(t, e.Execute(func() {}))
	require.NoError(t, e.Shutdown(context.Background()))
	assert.Error(t, e.Execute(func() {}))
	require.NoError(t, res.Shutdown(context.Background()))

	logs := out.String()
	for _, want := range []string{
		`msg="scope created"`,
		`msg="task started"`,
		`msg="task finished"`,
		`msg="task failed"`,
		"error=boom",
		`msg="scope closed"`,
		`msg="task rejected"`,
	} {
		assert.Contains(t, logs, want)
	}
	assert.Equal(t, 2, strings.Count(logs, `msg="task started"`))
}

func TestObserverDirectHooks(t *testing.T) {
	t.Parallel()
	var out syncBuffer
	o := New(slog.New(slog.NewTextHandler(&out, nil)))
	ctx := context.Background()
	o.ScopeJoined(ctx, time.Millisecond)
	o.ScopeClosed(ctx, errors.New("stop"))
	o.TaskFinished(ctx, time.Millisecond, nil, true)

	logs := out.String()
	assert.NotContains(t, logs, "scope joined")
	assert.Contains(t, logs, "cause=stop")
	assert.Contains(t, logs, "panicked=true")
	assert.NotNil(t, New(nil).log)
}
