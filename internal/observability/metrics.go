package observability

import (
	"sort"
	"strconv"
	"sync"
	"time"
)

// Metrics provides basic in-memory counters.
type Metrics struct {
	mu           sync.Mutex
	requestCount map[string]int64
	requestTime  map[string]time.Duration
	errorCount   map[string]int64
	submissions  map[string]int64
}

// Counter is one row of a metrics snapshot.
type Counter struct {
	Key   string `json:"key"`
	Count int64  `json:"count"`
	AvgMs int64  `json:"avg_ms,omitempty"`
}

// Snapshot is a point-in-time copy of all counters, sorted by key.
type Snapshot struct {
	Requests    []Counter `json:"requests"`
	Errors      []Counter `json:"errors"`
	Submissions []Counter `json:"submissions"`
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		requestCount: make(map[string]int64),
		requestTime:  make(map[string]time.Duration),
		errorCount:   make(map[string]int64),
		submissions:  make(map[string]int64),
	}
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(route, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	key := route + "|" + method + "|" + strconv.Itoa(status)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount[key]++
	m.requestTime[key] += duration
}

// RecordError increments error counters.
func (m *Metrics) RecordError(route, method, code string) {
	if m == nil {
		return
	}
	key := route + "|" + method + "|" + code
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorCount[key]++
}

// RecordSubmission counts one form submission by kind and outcome.
func (m *Metrics) RecordSubmission(kind, outcome string) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.submissions[kind+"|"+outcome]++
}

// Snapshot copies the counters.
func (m *Metrics) Snapshot() Snapshot {
	if m == nil {
		return Snapshot{}
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := Snapshot{
		Requests:    make([]Counter, 0, len(m.requestCount)),
		Errors:      counters(m.errorCount),
		Submissions: counters(m.submissions),
	}
	for key, count := range m.requestCount {
		snap.Requests = append(snap.Requests, Counter{
			Key:   key,
			Count: count,
			AvgMs: (m.requestTime[key] / time.Duration(count)).Milliseconds(),
		})
	}
	sortCounters(snap.Requests)
	return snap
}

func counters(src map[string]int64) []Counter {
	out := make([]Counter, 0, len(src))
	for key, count := range src {
		out = append(out, Counter{Key: key, Count: count})
	}
	sortCounters(out)
	return out
}

func sortCounters(c []Counter) {
	sort.Slice(c, func(i, j int) bool { return c[i].Key < c[j].Key })
}
