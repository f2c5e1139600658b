package scoring

import (
	"strings"
	"sync/atomic"
)

// Scorer turns candidate texts into scored Candidates. It is safe for
// concurrent use: the weight vectors are replaced wholesale through an
// atomic pointer, so no in-flight Score call observes a partial update.
type Scorer struct {
	weights atomic.Pointer[Weights]
}

// NewScorer validates the weights against the dimension lists and
// returns a ready scorer. A mismatch is a configuration error.
func NewScorer(w Weights) (*Scorer, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	s := &Scorer{}
	s.weights.Store(&w)
	return s, nil
}

// SwapWeights atomically replaces both weight vectors.
func (s *Scorer) SwapWeights(w Weights) error {
	if err := w.Validate(); err != nil {
		return err
	}
	s.weights.Store(&w)
	return nil
}

// Weights returns the weight vectors currently in effect.
func (s *Scorer) Weights() Weights {
	return *s.weights.Load()
}

// Score evaluates one candidate text. Blank candidates are unscorable
// and must be excluded from selection by the caller.
func (s *Scorer) Score(text string, ctx Context) (Candidate, error) {
	if strings.TrimSpace(text) == "" {
		return Candidate{}, ErrUnscorable
	}
	w := s.weights.Load()
	eval := EstimateEvaluation(text, ctx)
	cost := EstimateCost(text, ctx)
	utility, err := Utility(eval, cost, *w)
	if err != nil {
		return Candidate{}, err
	}
	return Candidate{
		Text:       text,
		Evaluation: eval,
		Cost:       cost,
		Utility:    utility,
	}, nil
}
