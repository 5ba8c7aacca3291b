package hybrid

import (
	"math/rand"
	"time"
)

// Backoff is the delay policy between delivery retries: exponential from
// Base, capped at Max, with up to Jitter of random spread so queued items do
// not retry in lockstep.
type Backoff struct {
	Base   time.Duration
	Max    time.Duration
	Jitter float64
}

// DefaultBackoff returns the policy used when none is configured.
func DefaultBackoff() Backoff {
	return Backoff{Base: time.Second, Max: 2 * time.Minute, Jitter: 0.2}
}

// Delay returns the wait before the given retry attempt (1-based).
func (b Backoff) Delay(retry int) time.Duration {
	if retry < 1 {
		retry = 1
	}
	d := b.Base << (retry - 1)
	if b.Max > 0 && d > b.Max {
		d = b.Max
	}
	if b.Jitter > 0 {
		spread := float64(d) * b.Jitter
		d += time.Duration((rand.Float64()*2 - 1) * spread)
		if d < 0 {
			d = 0
		}
	}
	return d
}
