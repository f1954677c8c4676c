// Package random resolves the seeds that drive worksheet generation.
//
// A caller supplied seed is used verbatim so a sheet can be reproduced. When
// none is given the seed is derived from the clock at whole second
// resolution, which is also what gets printed and recorded.
package random

import "time"

// Clock returns the current time. Tests substitute a fixed clock.
type Clock func() time.Time

// FromTime derives a seed from t.
func FromTime(t time.Time) int64 {
	return t.Unix()
}

// Resolve returns the explicit seed when set, or a clock derived seed.
// derived reports which branch was taken.
func Resolve(explicit *int64, clock Clock) (seed int64, derived bool) {
	if explicit != nil {
		return *explicit, false
	}
	if clock == nil {
		clock = time.Now
	}
	return FromTime(clock()), true
}
