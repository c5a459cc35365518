package pedometer

// CounterReconciler translates the hardware counter's lifetime-cumulative raw
// value into a same-day delta, tolerating reboots that reset the counter to
// zero or an arbitrary smaller base.
type CounterReconciler struct {
	baseline uint64
	primed   bool
}

// NewCounterReconciler restores the reconciler from the persisted baseline. A
// zero baseline means no usable history: the first reading primes the
// reconciler and yields no delta.
func NewCounterReconciler(baseline uint64) *CounterReconciler {
	return &CounterReconciler{
		baseline: baseline,
		primed:   baseline != 0,
	}
}

// Baseline returns the raw value deltas are diffed against. Persisted after
// every reading so reconciliation survives restarts without replaying deltas.
func (r *CounterReconciler) Baseline() uint64 {
	return r.baseline
}

// Rebaseline discards the current baseline. The next reading primes the
// reconciler again, so a day rollover never turns the overnight counter drift
// into a multi-day delta.
func (r *CounterReconciler) Rebaseline() {
	r.baseline = 0
	r.primed = false
}

// Reconcile consumes one raw reading and returns the step delta to credit.
//
// A raw value below the baseline means the counter restarted; the whole new
// value is treated as newly earned steps. That overcounts when the counter
// restarts from a nonzero base, but silently dropping steps is judged worse.
func (r *CounterReconciler) Reconcile(raw uint64) uint32 {
	if !r.primed {
		r.baseline = raw
		r.primed = true
		return 0
	}

	var delta uint64
	switch {
	case raw < r.baseline:
		delta = raw
	default:
		delta = raw - r.baseline
	}
	r.baseline = raw
	return clampDelta(delta)
}

// clampDelta caps a raw-derived delta at the uint32 range the ledger stores.
func clampDelta(delta uint64) uint32 {
	const max = uint64(^uint32(0))
	if delta > max {
		return uint32(max)
	}
	return uint32(delta)
}
