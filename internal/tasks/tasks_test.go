package tasks

import (
	"bytes"
	"context"
	"errors"
	"log"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRunnerRunsTask(t *testing.T) {
	r := NewRunner(nil, time.Second)

	var ran atomic.Bool
	r.Go("noop", func(context.Context) error {
		ran.Store(true)
		return nil
	})
	r.Wait()

	assert.True(t, ran.Load())
}

func TestRunnerReportsErrorToSink(t *testing.T) {
	var buf bytes.Buffer
	r := NewRunner(log.New(&buf, "", 0), time.Second)

	r.Go("counter", func(context.Context) error {
		return errors.New("write failed")
	})
	r.Wait()

	assert.Contains(t, buf.String(), "tasks: counter error=write failed")
}

func TestRunnerRecoversPanic(t *testing.T) {
	var buf bytes.Buffer
	r := NewRunner(log.New(&buf, "", 0), time.Second)

	r.Go("backfill", func(context.Context) error {
		panic("boom")
	})
	r.Wait()

	assert.Contains(t, buf.String(), "tasks: backfill panic=boom")
}

func TestRunnerTaskGetsBoundedContext(t *testing.T) {
	r := NewRunner(nil, 10*time.Millisecond)

	done := make(chan struct{})
	r.Go("slow", func(ctx context.Context) error {
		<-ctx.Done()
		close(done)
		return ctx.Err()
	})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("task context was never cancelled")
	}
	r.Wait()
}
