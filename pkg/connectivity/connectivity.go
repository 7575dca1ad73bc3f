package connectivity

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
)

const DefaultRetries = 2

// Prober is the reachability probe against the backend health endpoint.
type Prober interface {
	Health(ctx context.Context) error
}

// Monitor owns the shared offline flag. Other components read the flag to
// decide whether remote resolution is worth attempting; only the monitor
// writes it.
type Monitor struct {
	prober     Prober
	log        *logrus.Logger
	offline    atomic.Bool
	retryDelay time.Duration
}

func NewMonitor(prober Prober, log *logrus.Logger) *Monitor {
	return NewMonitorWithDelay(prober, log, time.Second)
}

func NewMonitorWithDelay(prober Prober, log *logrus.Logger, retryDelay time.Duration) *Monitor {
	return &Monitor{
		prober:     prober,
		log:        log,
		retryDelay: retryDelay,
	}
}

// Check probes the health endpoint, retrying up to retries times with a
// fixed delay between attempts. All probe failures are converted into the
// boolean result; nothing escapes as an error.
func (m *Monitor) Check(ctx context.Context, retries int) bool {
	if retries < 0 {
		retries = 0
	}

	for attempt := 0; attempt <= retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				m.offline.Store(true)
				return false
			case <-time.After(m.retryDelay):
			}
		}

		err := m.prober.Health(ctx)
		if err == nil {
			m.offline.Store(false)
			return true
		}

		m.log.WithFields(logrus.Fields{
			"attempt": attempt + 1,
			"error":   err.Error(),
		}).Warn("Connectivity probe failed")
	}

	m.offline.Store(true)
	return false
}

// Online reports the last known reachability without probing.
func (m *Monitor) Online() bool {
	return !m.offline.Load()
}
