package scoring

import "strings"

// Context carries the conversation-side inputs the heuristics read.
type Context struct {
	// CharacterKeywords are terms drawn from the character profile,
	// used by the character-adherence estimator.
	CharacterKeywords []string
	// RiskTerms override DefaultRiskTerms when non-nil.
	RiskTerms []string
}

// DefaultRiskTerms are topics a candidate is penalized for touching.
var DefaultRiskTerms = []string{"politics", "religion", "gambling", "adult"}

// Each estimator below is a deterministic pure function of its inputs
// and returns a value clamped to [0,1]. The formulas are heuristic
// proxies and individually replaceable.

// engagementScore favors mid-length replies and rewards questions.
// Length peaks at 500 chars and falls off symmetrically past it.
func engagementScore(text string) float64 {
	length := float64(len(text))
	var lengthScore float64
	if length < 500 {
		lengthScore = length / 500
	} else {
		lengthScore = 2 - length/500
	}
	lengthScore = clamp01(lengthScore)

	questionScore := 0.0
	if strings.Contains(text, "?") {
		questionScore = 0.2
	}
	return clamp01(0.7*lengthScore + 0.3*questionScore)
}

// helpfulnessScore rewards structural markers (lists) and detail.
func helpfulnessScore(text string) float64 {
	structureScore := 0.0
	for _, marker := range []string{"- ", "1. ", "* "} {
		if strings.Contains(text, marker) {
			structureScore = 0.3
			break
		}
	}
	detailScore := float64(len(text)) / 800
	if detailScore > 0.7 {
		detailScore = 0.7
	}
	return clamp01(structureScore + detailScore)
}

// characterAdherenceScore assumes a high baseline and adds a bonus for
// overlap with the character's keywords.
func characterAdherenceScore(text string, keywords []string) float64 {
	lower := strings.ToLower(text)
	matches := 0
	for _, kw := range keywords {
		if kw != "" && strings.Contains(lower, strings.ToLower(kw)) {
			matches++
		}
	}
	denom := len(keywords)
	if denom < 1 {
		denom = 1
	}
	keywordScore := float64(matches) / float64(denom)
	if keywordScore > 0.8 {
		keywordScore = 0.8
	}
	return clamp01(0.7 + keywordScore)
}

// typingTimeCost approximates how long a human would take to type the
// reply, at 900 chars/minute, maxing out at two minutes.
func typingTimeCost(text string) float64 {
	const charsPerMinute = 900
	minutes := float64(len(text)) / charsPerMinute
	return clamp01(minutes / 2)
}

// complexityCost penalizes long sentences; 50+ chars per sentence
// approaches the cap of 0.8.
func complexityCost(text string) float64 {
	sentences := strings.Count(text, ". ") + strings.Count(text, "! ") + strings.Count(text, "? ")
	if sentences < 1 {
		sentences = 1
	}
	avgLen := float64(len(text)) / float64(sentences)
	score := avgLen / 50
	if score > 0.8 {
		score = 0.8
	}
	return clamp01(score)
}

// riskCost adds 0.2 per risky-term hit.
func riskCost(text string, riskTerms []string) float64 {
	lower := strings.ToLower(text)
	score := 0.0
	for _, term := range riskTerms {
		if strings.Contains(lower, term) {
			score += 0.2
		}
	}
	return clamp01(score)
}

// EstimateEvaluation returns one score per evaluation dimension,
// positionally aligned with EvaluationDimensions.
func EstimateEvaluation(text string, ctx Context) []float64 {
	return []float64{
		engagementScore(text),
		helpfulnessScore(text),
		characterAdherenceScore(text, ctx.CharacterKeywords),
	}
}

// EstimateCost returns one score per cost dimension, positionally
// aligned with CostDimensions.
func EstimateCost(text string, ctx Context) []float64 {
	risk := ctx.RiskTerms
	if risk == nil {
		risk = DefaultRiskTerms
	}
	return []float64{
		typingTimeCost(text),
		complexityCost(text),
		riskCost(text, risk),
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
