package motion

import (
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/cjeanneret/SmoothServo/internal/debug"
	"github.com/cjeanneret/SmoothServo/internal/logic/easing"
)

// DefaultPlanTTL is how long an unused plan stays cached.
const DefaultPlanTTL = 10 * time.Minute

// Planner materializes easing sequences and memoises them, so scripted
// moves that repeat do not recompute every curve.
// It is safe for concurrent use.
type Planner struct {
	plans *cache.Cache
}

// NewPlanner creates a planner whose entries expire after ttl without use.
// A non-positive ttl selects DefaultPlanTTL.
func NewPlanner(ttl time.Duration) *Planner {
	if ttl <= 0 {
		ttl = DefaultPlanTTL
	}
	return &Planner{
		plans: cache.New(ttl, 2*ttl),
	}
}

// Plan returns the positions of a move from start to value over timeMs,
// sampled every tickMs. The returned slice is shared and must not be modified.
func (p *Planner) Plan(kind easing.Kind, value, timeMs, start, tickMs int) ([]int, error) {
	key := fmt.Sprintf("%s:%d:%d:%d:%d", kind, value, timeMs, start, tickMs)
	if v, ok := p.plans.Get(key); ok {
		debug.Trace("Plan cache hit: %s", key)
		return v.([]int), nil
	}

	c, err := easing.New(kind, value, timeMs, start)
	if err != nil {
		return nil, err
	}
	plan := c.Collect(tickMs)
	p.plans.SetDefault(key, plan)
	debug.Verbose("Planned %s: %d samples", key, len(plan))
	return plan, nil
}

// Len returns the number of cached plans.
func (p *Planner) Len() int {
	return p.plans.ItemCount()
}

// Flush drops every cached plan.
func (p *Planner) Flush() {
	p.plans.Flush()
}
