package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestProfilerSmoothsScopes(t *testing.T) {
	p := NewProfiler()
	now := time.Unix(0, 0)
	p.now = func() time.Time { return now }

	p.BeginScope("draw")
	now = now.Add(10 * time.Millisecond)
	p.EndScope("draw")
	assert.Equal(t, 10*time.Millisecond, p.Scopes["draw"])

	done := p.Scope("draw")
	now = now.Add(20 * time.Millisecond)
	done()
	assert.Equal(t, 12*time.Millisecond, p.Scopes["draw"])

	// unmatched end is ignored
	p.EndScope("draw")
	p.EndScope("missing")
	assert.Equal(t, 12*time.Millisecond, p.Scopes["draw"])
	assert.Equal(t, []string{"draw"}, p.Order)
}

func TestProfilerLines(t *testing.T) {
	p := NewProfiler()
	now := time.Unix(0, 0)
	p.now = func() time.Time { return now }

	p.Scope("update")()
	p.Scope("prepare")()
	p.SetCount("visible", 3)
	p.SetCount("draws", 12)

	assert.Equal(t, []string{
		"update       0.00 ms",
		"prepare      0.00 ms",
		"draws          12",
		"visible         3",
	}, p.Lines())
	assert.Contains(t, p.String(), "prepare")
}
