package solar

import "math"

// Iterate looks for a fixed point x = step(x) starting at x0. It stops
// when two consecutive estimates differ by no more than tolerance,
// when step reports that it cannot continue, or after maxIterations
// evaluations of step, whichever comes first.
//
// The returned value is the latest estimate step produced, or x0 if
// the first step failed; n is the number of successful steps.
func Iterate[T ~float64](x0 T, step func(T) (T, bool), tolerance T, maxIterations int) (x T, n int, converged bool) {
	x = x0
	for n < maxIterations {
		next, ok := step(x)
		if !ok {
			return x, n, false
		}
		n++
		delta := T(math.Abs(float64(next - x)))
		x = next
		if delta <= tolerance {
			return x, n, true
		}
	}
	return x, n, false
}
