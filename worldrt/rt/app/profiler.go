package app

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Profiler keeps smoothed per-frame CPU timings and the last value of named counters.
type Profiler struct {
	Scopes map[string]time.Duration
	Counts map[string]int
	Order  []string

	starts map[string]time.Time
	now    func() time.Time
}

// smoothing weight of the newest sample
const profilerAlpha = 0.2

func NewProfiler() *Profiler {
	return &Profiler{
		Scopes: make(map[string]time.Duration),
		Counts: make(map[string]int),
		starts: make(map[string]time.Time),
		now:    time.Now,
	}
}

func (p *Profiler) BeginScope(name string) {
	p.starts[name] = p.now()
	if _, ok := p.Scopes[name]; !ok {
		p.Scopes[name] = 0
		p.Order = append(p.Order, name)
	}
}

func (p *Profiler) EndScope(name string) {
	start, ok := p.starts[name]
	if !ok {
		return
	}
	delete(p.starts, name)
	sample := p.now().Sub(start)
	prev := p.Scopes[name]
	if prev == 0 {
		p.Scopes[name] = sample
		return
	}
	p.Scopes[name] = prev + time.Duration(profilerAlpha*float64(sample-prev))
}

// Scope times the caller until the returned func runs.
func (p *Profiler) Scope(name string) func() {
	p.BeginScope(name)
	return func() { p.EndScope(name) }
}

func (p *Profiler) SetCount(name string, count int) {
	p.Counts[name] = count
}

// Lines renders timings in first-seen order followed by counters sorted by name.
func (p *Profiler) Lines() []string {
	lines := make([]string, 0, len(p.Order)+len(p.Counts))
	for _, name := range p.Order {
		ms := float64(p.Scopes[name].Microseconds()) / 1000.0
		lines = append(lines, fmt.Sprintf("%-10s %6.2f ms", name, ms))
	}
	keys := make([]string, 0, len(p.Counts))
	for k := range p.Counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		lines = append(lines, fmt.Sprintf("%-10s %6d", k, p.Counts[k]))
	}
	return lines
}

func (p *Profiler) String() string {
	return strings.Join(p.Lines(), "\n")
}
