// Some helpers using closures to generate values
package valgen

import "time"

// MakeStepClock returns a clock that starts at start and moves forward by
// step on every call. The first call returns start + step.
func MakeStepClock(start time.Time, step time.Duration) func() time.Time {
	current := start
	return func() time.Time {
		current = current.Add(step)
		return current
	}
}
