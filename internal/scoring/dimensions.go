package scoring

// Evaluation and cost dimension names. Weight vectors are paired
// positionally with these lists; arity is checked at construction.
var (
	EvaluationDimensions = []string{"engagement", "helpfulness", "character_adherence"}
	CostDimensions       = []string{"response_time", "complexity", "risk"}
)

// Weights holds the evaluation and cost weight vectors of the utility
// function U = dot(Evaluation, E) - dot(Cost, C).
type Weights struct {
	Evaluation []float64
	Cost       []float64
}

// DefaultWeights returns the stock weight vectors.
func DefaultWeights() Weights {
	return Weights{
		Evaluation: []float64{1.0, 0.8, 0.6},
		Cost:       []float64{0.5, 0.3, 0.2},
	}
}

// Validate checks that both vectors match the dimension lists and carry
// no negative entries.
func (w Weights) Validate() error {
	if len(w.Evaluation) != len(EvaluationDimensions) {
		return &DimensionError{Vector: "evaluation", Want: len(EvaluationDimensions), Got: len(w.Evaluation)}
	}
	if len(w.Cost) != len(CostDimensions) {
		return &DimensionError{Vector: "cost", Want: len(CostDimensions), Got: len(w.Cost)}
	}
	for _, v := range w.Evaluation {
		if v < 0 {
			return &DimensionError{Vector: "evaluation", Want: len(EvaluationDimensions), Got: len(w.Evaluation), Negative: true}
		}
	}
	for _, v := range w.Cost {
		if v < 0 {
			return &DimensionError{Vector: "cost", Want: len(CostDimensions), Got: len(w.Cost), Negative: true}
		}
	}
	return nil
}
