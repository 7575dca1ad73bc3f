package analytics

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"ProjectLark/internal/entity"
)

// Sink persists one command record. Wired to the assistant repository at
// startup; swappable in tests.
type Sink func(ctx context.Context, rec entity.CommandRecord) error

type IRecorder interface {
	Record(rec entity.CommandRecord)
	Close()
}

// Recorder is a fire-and-forget telemetry pipe. Record never blocks and
// never fails the caller: on a full buffer the record is dropped, and sink
// panics are contained in the worker.
type Recorder struct {
	ch   chan entity.CommandRecord
	done chan struct{}
	sink Sink
	log  *logrus.Logger
}

func New(sink Sink, log *logrus.Logger) *Recorder {
	r := &Recorder{
		ch:   make(chan entity.CommandRecord, 256),
		done: make(chan struct{}),
		sink: sink,
		log:  log,
	}

	go r.run()

	return r
}

func (r *Recorder) Record(rec entity.CommandRecord) {
	select {
	case r.ch <- rec:
	default:
		r.log.WithFields(logrus.Fields{"id": rec.ID}).Warn("Analytics buffer full, dropping record")
	}
}

func (r *Recorder) Close() {
	close(r.ch)
	<-r.done
}

func (r *Recorder) run() {
	defer close(r.done)

	for rec := range r.ch {
		r.persist(rec)
	}
}

func (r *Recorder) persist(rec entity.CommandRecord) {
	defer func() {
		if p := recover(); p != nil {
			r.log.WithFields(logrus.Fields{"panic": p}).Error("Analytics sink panicked")
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := r.sink(ctx, rec); err != nil {
		r.log.WithFields(logrus.Fields{
			"id":    rec.ID,
			"error": err.Error(),
		}).Warn("Failed to persist command record")
	}
}
