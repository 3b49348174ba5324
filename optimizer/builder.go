package optimizer

import (
	"time"

	"github.com/sarchlab/formia/diag"
)

// Builder creates optimizers.
type Builder struct {
	trace     *diag.TraceLog
	profile   *diag.ProfileLog
	snapshots *diag.SnapshotStore
	now       func() time.Time
	maxUnroll int
}

// WithTrace sets the trace log that pass-through instructions go to.
func (b Builder) WithTrace(trace *diag.TraceLog) Builder {
	b.trace = trace
	return b
}

// WithProfile sets the profile log that profiled blocks go to.
func (b Builder) WithProfile(profile *diag.ProfileLog) Builder {
	b.profile = profile
	return b
}

// WithSnapshots sets the store that receives a snapshot after every pass.
// The store must be built over the same trace log.
func (b Builder) WithSnapshots(snapshots *diag.SnapshotStore) Builder {
	b.snapshots = snapshots
	return b
}

// WithClock sets the time source used by the profiling rule.
func (b Builder) WithClock(now func() time.Time) Builder {
	b.now = now
	return b
}

// WithMaxUnroll caps the bound a loop may have to be unrolled. Loops above
// the cap are left alone. Zero means no cap.
func (b Builder) WithMaxUnroll(n int) Builder {
	b.maxUnroll = n
	return b
}

// Build creates an optimizer. Logs that were not given are created fresh.
func (b Builder) Build() *Optimizer {
	o := &Optimizer{
		trace:     b.trace,
		profile:   b.profile,
		snapshots: b.snapshots,
		now:       b.now,
		maxUnroll: b.maxUnroll,
	}

	if o.trace == nil {
		o.trace = &diag.TraceLog{}
	}

	if o.profile == nil {
		o.profile = &diag.ProfileLog{}
	}

	if o.snapshots == nil {
		o.snapshots = diag.NewSnapshotStore(o.trace)
	}

	if o.now == nil {
		o.now = time.Now
	}

	o.rules = o.defaultRules()

	return o
}
