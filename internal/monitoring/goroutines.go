// Package monitoring watches runtime health of the match server.
package monitoring

import (
	"runtime"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const (
	defaultCheckInterval  = 30 * time.Second
	defaultAlertThreshold = 1000
	defaultAlertCooldown  = 5 * time.Minute
)

// Monitor samples the process goroutine count and warns when it grows past
// the alert threshold. Long-lived match servers leak goroutines through
// abandoned playouts or stuck websocket pumps, and the growth shows up here
// long before it shows up as memory.
type Monitor struct {
	mu             sync.RWMutex
	baseline       int
	current        int
	peak           int
	checkInterval  time.Duration
	alertThreshold int
	alertCooldown  time.Duration
	lastAlert      time.Time
	stop           chan struct{}
	logger         zerolog.Logger
}

// Metrics is a point-in-time view of the goroutine counters.
type Metrics struct {
	Current  int `json:"current"`
	Baseline int `json:"baseline"`
	Peak     int `json:"peak"`
	Growth   int `json:"growth"`
}

// NewMonitor captures the current goroutine count as the baseline.
func NewMonitor(logger zerolog.Logger) *Monitor {
	baseline := runtime.NumGoroutine()
	return &Monitor{
		baseline:       baseline,
		current:        baseline,
		peak:           baseline,
		checkInterval:  defaultCheckInterval,
		alertThreshold: defaultAlertThreshold,
		alertCooldown:  defaultAlertCooldown,
		stop:           make(chan struct{}),
		logger:         logger.With().Str("component", "goroutine_monitor").Logger(),
	}
}

// Start launches the sampling loop.
func (m *Monitor) Start() {
	go m.loop()
	m.logger.Info().Int("baseline", m.baseline).Msg("Started goroutine monitoring")
}

// Stop ends the sampling loop.
func (m *Monitor) Stop() {
	close(m.stop)
}

func (m *Monitor) loop() {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error().Interface("panic", r).Msg("Goroutine monitor panicked - restarting")
			time.Sleep(5 * time.Second)
			go m.loop()
		}
	}()

	ticker := time.NewTicker(m.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.sample()
		case <-m.stop:
			return
		}
	}
}

// sample records the current count and emits an alert when it crosses the
// threshold. Alerts are rate limited by the cooldown.
func (m *Monitor) sample() {
	current := runtime.NumGoroutine()

	m.mu.Lock()
	m.current = current
	if current > m.peak {
		m.peak = current
	}
	growth := current - m.baseline

	shouldAlert := current > m.alertThreshold &&
		time.Since(m.lastAlert) > m.alertCooldown
	if shouldAlert {
		m.lastAlert = time.Now()
	}
	m.mu.Unlock()

	m.logger.Debug().
		Int("current", current).
		Int("baseline", m.baseline).
		Int("peak", m.peak).
		Int("growth", growth).
		Msg("Goroutine metrics")

	if shouldAlert {
		m.logger.Warn().
			Int("current", current).
			Int("threshold", m.alertThreshold).
			Msg("High goroutine count detected - possible leak")
	}
}

// Snapshot returns the current counters.
func (m *Monitor) Snapshot() Metrics {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Metrics{
		Current:  m.current,
		Baseline: m.baseline,
		Peak:     m.peak,
		Growth:   m.current - m.baseline,
	}
}
