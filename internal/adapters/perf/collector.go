package perf

import (
	"math"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultRingSize is the default capacity of the ring buffer.
const DefaultRingSize = 2048

// EntryKind distinguishes what was timed.
type EntryKind uint8

const (
	KindOperation EntryKind = iota // a user-facing operation, e.g. "audits.add"
	KindQuery                      // a single store call
	KindFlush                      // a full persistence flush
)

// Entry is a single timing record stored in the ring buffer.
type Entry struct {
	Kind       EntryKind
	Name       string // operation name or store op
	Failed     bool
	DurationMs float64
	Timestamp  time.Time
}

// Collector is a fixed-size ring buffer for timing entries.
// When full, oldest entries are overwritten. Aggregation happens only on read.
type Collector struct {
	mu      sync.Mutex
	entries []Entry
	size    int
	pos     int
	count   int64
}

// NewCollector creates a collector with the given ring buffer capacity.
// PRE: size > 0, otherwise DefaultRingSize is used
// POST: Returns a ready-to-use collector with pre-allocated storage
func NewCollector(size int) *Collector {
	if size <= 0 {
		size = DefaultRingSize
	}
	return &Collector{
		entries: make([]Entry, size),
		size:    size,
	}
}

// Record appends an entry to the ring buffer. A nil collector drops it.
// POST: Entry stored; if buffer full, oldest entry overwritten
func (c *Collector) Record(e Entry) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.entries[c.pos] = e
	c.pos = (c.pos + 1) % c.size
	c.mu.Unlock()
	atomic.AddInt64(&c.count, 1)
}

// Time records the elapsed time since start under name.
func (c *Collector) Time(kind EntryKind, name string, start time.Time, err error) {
	c.Record(Entry{
		Kind:       kind,
		Name:       name,
		Failed:     err != nil,
		DurationMs: float64(time.Since(start).Microseconds()) / 1000.0,
		Timestamp:  start,
	})
}

// TotalRecorded returns the total number of entries ever recorded.
func (c *Collector) TotalRecorded() int64 {
	if c == nil {
		return 0
	}
	return atomic.LoadInt64(&c.count)
}

// Snapshot holds aggregated timing data computed on read.
type Snapshot struct {
	TotalRecorded  int64      `json:"total_recorded"`
	Flushes        int        `json:"flushes"`
	FailedFlushes  int        `json:"failed_flushes"`
	FlushP50Ms     float64    `json:"flush_p50_ms"`
	FlushP95Ms     float64    `json:"flush_p95_ms"`
	SlowestOps     []NameStat `json:"slowest_operations"`
	SlowestQueries []NameStat `json:"slowest_queries"`
}

// NameStat aggregates timing for a single operation or store op.
type NameStat struct {
	Name    string  `json:"name"`
	AvgMs   float64 `json:"avg_ms"`
	MaxMs   float64 `json:"max_ms"`
	Count   int     `json:"count"`
	TotalMs float64 `json:"total_ms"`
}

// Snapshot computes aggregated stats from entries recorded at or after since.
// PRE: topN > 0
// POST: Returns a Snapshot with flush percentiles and top-N lists
func (c *Collector) Snapshot(since time.Time, topN int) Snapshot {
	if c == nil {
		return Snapshot{}
	}
	c.mu.Lock()
	buf := make([]Entry, c.size)
	copy(buf, c.entries)
	c.mu.Unlock()

	var flushDurations []float64
	var failedFlushes int
	opStats := make(map[string]*NameStat)
	queryStats := make(map[string]*NameStat)

	for _, e := range buf {
		if e.Timestamp.IsZero() || e.Timestamp.Before(since) {
			continue
		}
		switch e.Kind {
		case KindFlush:
			flushDurations = append(flushDurations, e.DurationMs)
			if e.Failed {
				failedFlushes++
			}
		case KindOperation:
			accumulate(opStats, e)
		case KindQuery:
			accumulate(queryStats, e)
		}
	}

	snap := Snapshot{
		TotalRecorded:  c.TotalRecorded(),
		Flushes:        len(flushDurations),
		FailedFlushes:  failedFlushes,
		SlowestOps:     topByAvg(opStats, topN),
		SlowestQueries: topByAvg(queryStats, topN),
	}
	if len(flushDurations) > 0 {
		sort.Float64s(flushDurations)
		snap.FlushP50Ms = percentile(flushDurations, 50)
		snap.FlushP95Ms = percentile(flushDurations, 95)
	}
	return snap
}

func accumulate(stats map[string]*NameStat, e Entry) {
	s, ok := stats[e.Name]
	if !ok {
		s = &NameStat{Name: e.Name}
		stats[e.Name] = s
	}
	s.Count++
	s.TotalMs += e.DurationMs
	if e.DurationMs > s.MaxMs {
		s.MaxMs = e.DurationMs
	}
	s.AvgMs = s.TotalMs / float64(s.Count)
}

// percentile returns the p-th percentile from a sorted slice.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := (p / 100) * float64(len(sorted)-1)
	lower := int(math.Floor(idx))
	upper := int(math.Ceil(idx))
	if lower == upper || upper >= len(sorted) {
		return sorted[lower]
	}
	frac := idx - float64(lower)
	return sorted[lower]*(1-frac) + sorted[upper]*frac
}

// topByAvg returns the top n names sorted by average duration, slowest first.
func topByAvg(stats map[string]*NameStat, n int) []NameStat {
	list := make([]NameStat, 0, len(stats))
	for _, s := range stats {
		list = append(list, *s)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].AvgMs == list[j].AvgMs {
			return list[i].Name < list[j].Name
		}
		return list[i].AvgMs > list[j].AvgMs
	})
	if n > 0 && len(list) > n {
		list = list[:n]
	}
	return list
}
