// Package performance exposes runtime statistics and snapshot persistence counters.
package performance

import (
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/fleetyard/fleetdash/internal/core"
)

// Snapshot load outcomes.
const (
	LoadHit     = "hit"
	LoadAbsent  = "absent"
	LoadStale   = "stale"
	LoadCorrupt = "corrupt"
)

// Snapshot save outcomes.
const (
	SaveOK     = "ok"
	SaveFailed = "failed"
)

var (
	snapshotLoads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fleetdash_snapshot_loads_total",
		Help: "Filter snapshot loads by domain and outcome",
	}, []string{"domain", "result"})

	snapshotSaves = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fleetdash_snapshot_saves_total",
		Help: "Filter snapshot saves by domain and outcome",
	}, []string{"domain", "result"})
)

// RecordLoad counts a snapshot load.
func RecordLoad(domain, result string) {
	snapshotLoads.WithLabelValues(domain, result).Inc()
}

// RecordSave counts a snapshot save.
func RecordSave(domain, result string) {
	snapshotSaves.WithLabelValues(domain, result).Inc()
}

// Metrics holds performance and runtime statistics
type Metrics struct {
	// Go runtime
	HeapAlloc     uint64 `json:"heapAlloc"`     // Bytes allocated and in use
	HeapInuse     uint64 `json:"heapInuse"`     // Bytes in non-idle spans
	Goroutines    int    `json:"goroutines"`    // Number of goroutines
	NumGC         uint32 `json:"numGC"`         // Number of completed GC cycles
	LastGCPauseNs uint64 `json:"lastGCPauseNs"` // Duration of last GC pause in nanoseconds
	Sys           uint64 `json:"sys"`           // Total bytes obtained from system

	// Filter stores
	ActiveStores int      `json:"activeStores"` // Number of registered domain stores
	Domains      []string `json:"domains"`      // Registered domain names

	UptimeSeconds int64  `json:"uptimeSeconds"` // App uptime in seconds
	Timestamp     string `json:"timestamp"`     // When metrics were collected
}

// Service provides performance metrics collection
type Service struct {
	state     *core.AppState
	startTime time.Time
}

// NewService creates a new performance metrics service
func NewService(state *core.AppState) *Service {
	return &Service{
		state:     state,
		startTime: time.Now(),
	}
}

// GetMetrics returns current performance metrics
func (s *Service) GetMetrics() *Metrics {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	var lastGCPause uint64
	if memStats.NumGC > 0 {
		// PauseNs is a circular buffer of recent GC pause times
		lastGCPause = memStats.PauseNs[(memStats.NumGC+255)%256]
	}

	m := &Metrics{
		HeapAlloc:     memStats.HeapAlloc,
		HeapInuse:     memStats.HeapInuse,
		Goroutines:    runtime.NumGoroutine(),
		NumGC:         memStats.NumGC,
		LastGCPauseNs: lastGCPause,
		Sys:           memStats.Sys,
		Domains:       []string{},
		UptimeSeconds: int64(time.Since(s.startTime).Seconds()),
		Timestamp:     time.Now().Format(time.RFC3339),
	}
	if s.state != nil {
		m.Domains = s.state.Domains()
		m.ActiveStores = len(m.Domains)
	}
	return m
}
