// Package quality accumulates success/partial/failure outcomes into a single
// 0–1 quality score and a derived 0–100 health score. One tracker lives for
// the lifetime of its orchestrator instance; only an explicit Reset clears it.
package quality

import (
	"math"
	"sync"
)

// Health status labels derived from the health score.
const (
	StatusHealthy  = "healthy"
	StatusDegraded = "degraded"
	StatusCritical = "critical"
)

// errorPenaltyPerRecord and errorPenaltyCap bound how hard raw error volume
// can depress the health score independently of the quality score.
const (
	errorPenaltyPerRecord = 5.0
	errorPenaltyCap       = 30.0
)

// Tracker counts operation outcomes. Safe for concurrent use.
type Tracker struct {
	mu         sync.RWMutex
	successful int
	partial    int
	failed     int
}

// New constructs a zeroed tracker.
func New() *Tracker { return &Tracker{} }

// RecordSuccess counts a fully successful operation.
func (t *Tracker) RecordSuccess() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.successful++
}

// RecordPartial counts a degraded-but-successful operation. Partials raise
// no error record, so they only surface here.
func (t *Tracker) RecordPartial() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.partial++
}

// RecordFailure counts a failed operation.
func (t *Tracker) RecordFailure() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.failed++
}

// Reset zeroes all counters.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.successful, t.partial, t.failed = 0, 0, 0
}

// Counts returns the (successful, partial, failed) counters.
func (t *Tracker) Counts() (successful, partial, failed int) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.successful, t.partial, t.failed
}

// Score returns (successful + 0.5*partial) / total rounded to 3 decimals,
// always in [0, 1]. With no recorded work the score is 1.0 by convention.
func (t *Tracker) Score() float64 {
	s, p, f := t.Counts()
	total := s + p + f
	if total == 0 {
		return 1.0
	}
	score := (float64(s) + 0.5*float64(p)) / float64(total)
	return math.Round(score*1000) / 1000
}

// HealthScore maps the quality score to 0–100 and subtracts a penalty for
// recorded error volume, clamped to [0, 100]. Quality and error volume are
// independent signals: a retried-to-success task still leaves its error
// records behind, and a silent partial success still lowers quality.
func (t *Tracker) HealthScore(totalErrors int) float64 {
	penalty := math.Min(float64(totalErrors)*errorPenaltyPerRecord, errorPenaltyCap)
	h := t.Score()*100 - penalty
	return math.Max(0, math.Min(100, h))
}

// HealthStatus labels a health score: ≥80 healthy, ≥50 degraded, else critical.
func HealthStatus(health float64) string {
	switch {
	case health >= 80:
		return StatusHealthy
	case health >= 50:
		return StatusDegraded
	default:
		return StatusCritical
	}
}
