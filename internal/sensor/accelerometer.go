package sensor

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"stride/internal/logging"
)

// accelStream polls the sample reader at the configured cadence and emits
// magnitude samples. Read errors are logged and skipped; the accelerometer is
// the last resort, so there is nothing further to fall back to.
type accelStream struct {
	reader   SampleReader
	interval time.Duration
	logger   *slog.Logger
	onSample func(AccelerometerSample)
	now      func() time.Time

	mu      sync.Mutex
	quit    chan struct{}
	running bool
}

func newAccelStream(reader SampleReader, interval time.Duration, logger *slog.Logger, now func() time.Time, onSample func(AccelerometerSample)) *accelStream {
	if now == nil {
		now = time.Now
	}
	return &accelStream{
		reader:   reader,
		interval: interval,
		logger:   logging.NewComponentLogger(logger, "accel-stream"),
		onSample: onSample,
		now:      now,
	}
}

func (a *accelStream) Start(ctx context.Context) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.running {
		return
	}
	a.quit = make(chan struct{})
	a.running = true
	go a.sample(ctx, a.quit)
}

func (a *accelStream) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.running {
		return
	}
	close(a.quit)
	a.quit = nil
	a.running = false
}

func (a *accelStream) sample(ctx context.Context, quit <-chan struct{}) {
	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	logged := false
	for {
		select {
		case <-ctx.Done():
			return
		case <-quit:
			return
		case <-ticker.C:
			x, y, z, err := a.reader.Read(ctx)
			if err != nil {
				if !logged {
					a.logger.Debug("accelerometer read failed", logging.Error(err))
					logged = true
				}
				continue
			}
			logged = false
			if a.onSample != nil {
				a.onSample(AccelerometerSample{
					Magnitude: Magnitude(x, y, z),
					At:        a.now(),
				})
			}
		}
	}
}
