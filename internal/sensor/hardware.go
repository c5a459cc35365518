package sensor

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"stride/internal/logging"
)

// hardwareCounter polls the counter bridge at a fixed cadence and reports
// decoded events. After failureLimit consecutive read errors it stops itself
// and invokes onFailure exactly once, handing the session to the fallback.
type hardwareCounter struct {
	bridge       CounterBridge
	interval     time.Duration
	failureLimit int
	logger       *slog.Logger
	onEvent      func(NativeEvent)
	onFailure    func(error)

	mu      sync.Mutex
	quit    chan struct{}
	running bool
}

func newHardwareCounter(bridge CounterBridge, interval time.Duration, failureLimit int, logger *slog.Logger, onEvent func(NativeEvent), onFailure func(error)) *hardwareCounter {
	if failureLimit < 1 {
		failureLimit = 1
	}
	return &hardwareCounter{
		bridge:       bridge,
		interval:     interval,
		failureLimit: failureLimit,
		logger:       logging.NewComponentLogger(logger, "hardware-counter"),
		onEvent:      onEvent,
		onFailure:    onFailure,
	}
}

func (h *hardwareCounter) Start(ctx context.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.running {
		return
	}
	h.quit = make(chan struct{})
	h.running = true
	go h.poll(ctx, h.quit)
}

func (h *hardwareCounter) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.running {
		return
	}
	close(h.quit)
	h.quit = nil
	h.running = false
}

func (h *hardwareCounter) poll(ctx context.Context, quit <-chan struct{}) {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	failures := 0
	for {
		select {
		case <-ctx.Done():
			return
		case <-quit:
			return
		case <-ticker.C:
			ev, err := h.bridge.Read(ctx)
			if err != nil {
				failures++
				h.logger.Debug("counter read failed",
					logging.Error(err),
					logging.Int("consecutive_failures", failures),
				)
				if failures >= h.failureLimit {
					logging.WarnWithContext(h.logger, "hardware counter failed; requesting fallback", "hardware_counter_failed",
						logging.Error(err),
						logging.String(logging.FieldErrorHint, "check IIO device permissions and driver state"),
						logging.String(logging.FieldImpact, "session continues on the accelerometer"),
					)
					h.Stop()
					if h.onFailure != nil {
						h.onFailure(err)
					}
					return
				}
				continue
			}
			failures = 0
			if h.onEvent != nil {
				h.onEvent(ev)
			}
		}
	}
}
