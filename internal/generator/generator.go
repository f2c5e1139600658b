package generator

import "context"

// Request carries everything a backend needs to draft candidate
// replies for one inbound message.
type Request struct {
	SystemPrompt   string
	Context        string
	CandidateCount int
}

// Generator produces candidate reply texts. Implementations must
// honor ctx cancellation; the orchestrator bounds every call with a
// timeout and treats an overrun as a failure, not a hang.
type Generator interface {
	Generate(ctx context.Context, req Request) ([]string, error)
}

// StaticGenerator returns fixed texts regardless of the request. It
// backs tests and scripted agents.
type StaticGenerator struct {
	Texts []string
}

func (g *StaticGenerator) Generate(ctx context.Context, req Request) ([]string, error) {
	return append([]string(nil), g.Texts...), nil
}
