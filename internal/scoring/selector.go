package scoring

import "errors"

// ErrEmptyCandidateSet is returned when selection is invoked with no
// candidates. Callers guard against it with a default-candidate
// fallback, so seeing it indicates an internal invariant violation.
var ErrEmptyCandidateSet = errors.New("scoring: empty candidate set")

// SelectBest returns the candidate with the highest utility in a single
// scan. Ties go to the earliest candidate in input order.
func SelectBest(candidates []Candidate) (Candidate, error) {
	if len(candidates) == 0 {
		return Candidate{}, ErrEmptyCandidateSet
	}
	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.Utility > best.Utility {
			best = c
		}
	}
	return best, nil
}
