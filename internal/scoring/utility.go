package scoring

import (
	"errors"
	"fmt"
)

// DimensionError reports a weight or score vector whose length does not
// match the named dimension list. It is a configuration-time error.
type DimensionError struct {
	Vector   string
	Want     int
	Got      int
	Negative bool
}

func (e *DimensionError) Error() string {
	if e.Negative {
		return fmt.Sprintf("scoring: %s weights contain a negative entry", e.Vector)
	}
	return fmt.Sprintf("scoring: %s vector length %d does not match %d dimensions", e.Vector, e.Got, e.Want)
}

// ErrUnscorable marks a candidate that cannot be scored and must be
// excluded from selection.
var ErrUnscorable = errors.New("scoring: candidate cannot be scored")

// Candidate is one generated reply with its scores. Computed once per
// selection round and never mutated afterwards.
type Candidate struct {
	Text       string
	Evaluation []float64
	Cost       []float64
	Utility    float64
}

// Utility computes dot(w.Evaluation, eval) - dot(w.Cost, cost). Vector
// lengths must match the weight vectors.
func Utility(eval, cost []float64, w Weights) (float64, error) {
	if len(eval) != len(w.Evaluation) {
		return 0, &DimensionError{Vector: "evaluation", Want: len(w.Evaluation), Got: len(eval)}
	}
	if len(cost) != len(w.Cost) {
		return 0, &DimensionError{Vector: "cost", Want: len(w.Cost), Got: len(cost)}
	}
	return dot(w.Evaluation, eval) - dot(w.Cost, cost), nil
}

func dot(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}
