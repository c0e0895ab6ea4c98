package sunup

import (
	"fmt"
	"math"
	"time"

	"cloudeng.io/errors"
	"github.com/subtlepseudonym/sunup/solar"
)

var (
	// ErrInputDomain is matched by every error reporting an observer
	// field outside its valid range.
	ErrInputDomain = errors.New("input outside valid domain")

	// ErrNoTransition is returned when asking for the time of a sunrise
	// or sunset that does not happen on the requested day.
	ErrNoTransition = errors.New("sun does not cross the horizon")
)

// Valid observer ranges.
const (
	MinLatitude  = -90.0
	MaxLatitude  = 90.0
	MinLongitude = -180.0
	MaxLongitude = 180.0
	MinUTCOffset = -12.0
	MaxUTCOffset = 14.0
)

// DomainError describes a single out of range input.
type DomainError struct {
	Field    string
	Value    float64
	Min, Max float64
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("%s %v outside [%v, %v]", e.Field, e.Value, e.Min, e.Max)
}

// Is reports whether target is ErrInputDomain.
func (e *DomainError) Is(target error) bool {
	return target == ErrInputDomain
}

func checkRange(field string, v, lo, hi float64) error {
	if math.IsNaN(v) || v < lo || v > hi {
		return &DomainError{Field: field, Value: v, Min: lo, Max: hi}
	}
	return nil
}

// ConvergenceWarning annotates a result whose iterative refinement
// did not settle, either because it ran out of iterations or because
// a candidate instant fell on a day with no transition. The result
// still carries the last good estimate.
type ConvergenceWarning struct {
	Event      Event
	Iterations int
	Delta      time.Duration // size of the last correction

	// Blocked is PolarDay or PolarNight when a candidate instant had no
	// transition, and Transitions when the iterations ran out.
	Blocked Daylight
}

func (w *ConvergenceWarning) Error() string {
	if w.Blocked != Transitions {
		return fmt.Sprintf("%s refinement stopped after %d iterations: %s at the next estimate", w.Event, w.Iterations, w.Blocked)
	}
	return fmt.Sprintf("%s did not converge after %d iterations (last step %s)", w.Event, w.Iterations, w.Delta)
}

func warnings(refinements []solar.Refinement) []*ConvergenceWarning {
	var ws []*ConvergenceWarning
	for _, r := range refinements {
		if r.Converged {
			continue
		}
		ws = append(ws, &ConvergenceWarning{
			Event:      r.Event,
			Iterations: r.Iterations,
			Delta:      r.Delta.Duration(),
			Blocked:    r.Blocked,
		})
	}
	return ws
}
