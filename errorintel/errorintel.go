// Package errorintel is the structured error sink of the engine. Every
// failure, regardless of path, becomes an immutable Record classified by
// kind and severity; the Intelligence keeps a bounded history for health
// reporting and must never itself fail.
package errorintel

import (
	"runtime"
	"sync"
	"time"

	"github.com/insightmesh/insightmesh/core"
)

// DefaultHistoryLimit bounds the retained history when no limit is supplied.
const DefaultHistoryLimit = 500

// Record is one classified failure. Immutable once built.
type Record struct {
	Kind      core.ErrorKind
	Severity  core.Severity
	Worker    string
	Message   string
	Context   map[string]any
	Timestamp time.Time
	Stack     string
}

// Builder assembles a Record. Zero-value severity is medium; override with
// WithSeverity.
type Builder struct {
	rec Record
}

// NewRecord starts a builder for the given classification, worker and message.
func NewRecord(kind core.ErrorKind, worker, message string) *Builder {
	return &Builder{rec: Record{
		Kind:     kind,
		Severity: core.SeverityMedium,
		Worker:   worker,
		Message:  message,
	}}
}

// WithSeverity overrides the default medium severity.
func (b *Builder) WithSeverity(s core.Severity) *Builder {
	b.rec.Severity = s
	return b
}

// WithContext attaches one contextual key/value pair.
func (b *Builder) WithContext(key string, value any) *Builder {
	if b.rec.Context == nil {
		b.rec.Context = make(map[string]any)
	}
	b.rec.Context[key] = value
	return b
}

// WithStack captures the current goroutine stack into the record.
func (b *Builder) WithStack() *Builder {
	buf := make([]byte, 4096)
	n := runtime.Stack(buf, false)
	b.rec.Stack = string(buf[:n])
	return b
}

// Build stamps and returns the record.
func (b *Builder) Build() Record {
	b.rec.Timestamp = time.Now()
	return b.rec
}

// Summary aggregates the retained history for health reporting.
type Summary struct {
	Total      int            `json:"total"`
	ByKind     map[string]int `json:"by_kind"`
	BySeverity map[string]int `json:"by_severity"`
	LastError  map[string]any `json:"last_error,omitempty"`
}

// Intelligence retains a bounded, query-filtered history of Records. Safe
// for concurrent use. Recording is best-effort by construction: it cannot
// fail, and once the cap is reached the oldest records are dropped.
type Intelligence struct {
	mu      sync.RWMutex
	history []Record
	limit   int
	total   int // lifetime count, survives eviction
}

// New constructs an Intelligence with the given history cap; non-positive
// caps fall back to DefaultHistoryLimit.
func New(limit int) *Intelligence {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &Intelligence{limit: limit}
}

// Record appends rec, evicting the oldest entry past the cap.
func (i *Intelligence) Record(rec Record) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.history = append(i.history, rec)
	if len(i.history) > i.limit {
		i.history = i.history[len(i.history)-i.limit:]
	}
	i.total++
}

// Total returns the lifetime number of recorded errors, including evicted ones.
func (i *Intelligence) Total() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.total
}

// ByKind returns retained records of the given kind, oldest first.
func (i *Intelligence) ByKind(kind core.ErrorKind) []Record {
	return i.filter(func(r Record) bool { return r.Kind == kind })
}

// ByWorker returns retained records attributed to the given worker.
func (i *Intelligence) ByWorker(worker string) []Record {
	return i.filter(func(r Record) bool { return r.Worker == worker })
}

// Recent returns up to n of the most recent records, newest first.
func (i *Intelligence) Recent(n int) []Record {
	i.mu.RLock()
	defer i.mu.RUnlock()
	if n > len(i.history) {
		n = len(i.history)
	}
	out := make([]Record, 0, n)
	for j := len(i.history) - 1; j >= len(i.history)-n; j-- {
		out = append(out, i.history[j])
	}
	return out
}

// Summarize aggregates retained history into per-kind / per-severity counts.
func (i *Intelligence) Summarize() Summary {
	i.mu.RLock()
	defer i.mu.RUnlock()
	s := Summary{
		Total:      i.total,
		ByKind:     make(map[string]int),
		BySeverity: make(map[string]int),
	}
	for _, r := range i.history {
		s.ByKind[r.Kind.String()]++
		s.BySeverity[r.Severity.String()]++
	}
	if n := len(i.history); n > 0 {
		last := i.history[n-1]
		s.LastError = map[string]any{
			"kind":      last.Kind.String(),
			"severity":  last.Severity.String(),
			"worker":    last.Worker,
			"message":   last.Message,
			"timestamp": last.Timestamp,
		}
	}
	return s
}

// Reset drops the history and lifetime count.
func (i *Intelligence) Reset() {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.history = nil
	i.total = 0
}

func (i *Intelligence) filter(keep func(Record) bool) []Record {
	i.mu.RLock()
	defer i.mu.RUnlock()
	var out []Record
	for _, r := range i.history {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}
