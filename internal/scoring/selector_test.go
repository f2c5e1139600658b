package scoring

import (
	"errors"
	"testing"
)

func TestSelectBestPicksMaxUtility(t *testing.T) {
	candidates := []Candidate{
		{Text: "a", Utility: 0.2},
		{Text: "b", Utility: 0.9},
		{Text: "c", Utility: 0.5},
	}

	for i := 0; i < 10; i++ {
		best, err := SelectBest(candidates)
		if err != nil {
			t.Fatalf("SelectBest returned error: %v", err)
		}
		if best.Text != "b" {
			t.Fatalf("SelectBest picked %q, want %q", best.Text, "b")
		}
	}
}

func TestSelectBestTieBreaksEarliest(t *testing.T) {
	candidates := []Candidate{
		{Text: "first", Utility: 0.7},
		{Text: "second", Utility: 0.7},
		{Text: "third", Utility: 0.7},
	}

	best, err := SelectBest(candidates)
	if err != nil {
		t.Fatalf("SelectBest returned error: %v", err)
	}
	if best.Text != "first" {
		t.Errorf("tie went to %q, want earliest candidate", best.Text)
	}
}

func TestSelectBestEmptySet(t *testing.T) {
	_, err := SelectBest(nil)
	if !errors.Is(err, ErrEmptyCandidateSet) {
		t.Fatalf("expected ErrEmptyCandidateSet, got %v", err)
	}
}
