package analytics

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ProjectLark/internal/entity"
)

func newTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestRecord_PersistsThroughSink(t *testing.T) {
	var mu sync.Mutex
	var persisted []entity.CommandRecord

	recorder := New(func(ctx context.Context, rec entity.CommandRecord) error {
		mu.Lock()
		defer mu.Unlock()
		persisted = append(persisted, rec)
		return nil
	}, newTestLogger())

	recorder.Record(entity.CommandRecord{ID: "01A", Transcript: "threat assessment"})
	recorder.Record(entity.CommandRecord{ID: "01B", Transcript: "read miranda rights"})
	recorder.Close()

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, persisted, 2)
	assert.Equal(t, "01A", persisted[0].ID)
	assert.Equal(t, "01B", persisted[1].ID)
}

func TestRecord_NeverBlocksCaller(t *testing.T) {
	release := make(chan struct{})
	recorder := New(func(ctx context.Context, rec entity.CommandRecord) error {
		<-release
		return nil
	}, newTestLogger())
	defer func() {
		close(release)
		recorder.Close()
	}()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 600; i++ {
			recorder.Record(entity.CommandRecord{ID: "rec"})
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Record blocked on a saturated buffer")
	}
}

func TestRecord_SinkFailureIsSwallowed(t *testing.T) {
	recorder := New(func(ctx context.Context, rec entity.CommandRecord) error {
		return errors.New("database unavailable")
	}, newTestLogger())

	recorder.Record(entity.CommandRecord{ID: "01C"})
	recorder.Close()
}

func TestRecord_SinkPanicIsContained(t *testing.T) {
	var calls int
	recorder := New(func(ctx context.Context, rec entity.CommandRecord) error {
		calls++
		if calls == 1 {
			panic("sink exploded")
		}
		return nil
	}, newTestLogger())

	recorder.Record(entity.CommandRecord{ID: "boom"})
	recorder.Record(entity.CommandRecord{ID: "after"})
	recorder.Close()

	assert.Equal(t, 2, calls, "worker should survive a panicking sink")
}
