// Package trace records every event fired in a reactive system.
package trace

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/delaneyj/flowreactive/reactive"
)

type Entry struct {
	Seq    int
	Source string
	Kind   string
}

type SourceStats struct {
	// Key is the xxhash of Source. It stays the same across runs, so reports
	// from different runs can be joined on it.
	Key    uint64
	Source string
	Events int
	Kinds  map[string]int
}

// Recorder collects events through an event collector until closed.
type Recorder struct {
	mu      sync.Mutex
	limit   int
	seq     int
	entries []Entry
	stats   map[uint64]*SourceStats
	remove  func()
}

// NewRecorder starts recording events fired in rs. At most limit entries are
// kept (oldest dropped first); statistics cover every event. A limit of 0
// keeps everything.
func NewRecorder(rs *reactive.ReactiveSystem, limit int) *Recorder {
	r := &Recorder{
		limit: limit,
		stats: map[uint64]*SourceStats{},
	}
	r.remove = rs.AddEventCollector(r.record)
	return r
}

func (r *Recorder) record(e reactive.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	entry := Entry{
		Seq:    r.seq,
		Source: Label(e.Source()),
		Kind:   Kind(e),
	}
	r.entries = append(r.entries, entry)
	if r.limit > 0 && len(r.entries) > r.limit {
		r.entries = r.entries[len(r.entries)-r.limit:]
	}

	key := xxhash.Sum64String(entry.Source)
	s, ok := r.stats[key]
	if !ok {
		s = &SourceStats{
			Key:    key,
			Source: entry.Source,
			Kinds:  map[string]int{},
		}
		r.stats[key] = s
	}
	s.Events++
	s.Kinds[entry.Kind]++
}

// Close stops recording. Recorded data stays available.
func (r *Recorder) Close() {
	r.mu.Lock()
	remove := r.remove
	r.remove = nil
	r.mu.Unlock()

	if remove != nil {
		remove()
	}
}

func (r *Recorder) Total() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.seq
}

func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Entry(nil), r.entries...)
}

// Summary returns per source statistics, busiest first.
func (r *Recorder) Summary() []SourceStats {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]SourceStats, 0, len(r.stats))
	for _, s := range r.stats {
		kinds := make(map[string]int, len(s.Kinds))
		for k, v := range s.Kinds {
			kinds[k] = v
		}
		c := *s
		c.Kinds = kinds
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Events != out[j].Events {
			return out[i].Events > out[j].Events
		}
		return out[i].Source < out[j].Source
	})
	return out
}

// Label names an event source, preferring its String method.
func Label(v reactive.Value) string {
	if v == nil {
		return "<nil>"
	}
	if s, ok := v.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%T", v)
}

// Kind names an event by its Go type without package path or type
// parameters.
func Kind(e reactive.Event) string {
	name := fmt.Sprintf("%T", e)
	if i := strings.IndexByte(name, '['); i >= 0 {
		name = name[:i]
	}
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	return strings.TrimPrefix(name, "*")
}
