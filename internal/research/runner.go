/*
Package research implements the research engine that routes queries to
method runners.

The engine ties the memory layer together: it checks the result cache,
consults the learned pattern table for a method suggestion, invokes the
chosen runner, and records the outcome so future routing improves.
*/
package research

import "context"

// The fixed set of research methods.
const (
	// MethodOpenAIAgents is the multi-agent orchestration method, suited
	// to focused technical and conceptual queries.
	MethodOpenAIAgents = "openai_agents"

	// MethodDeepResearchAPI is the long-form deep research method, suited
	// to comprehensive analysis queries.
	MethodDeepResearchAPI = "deep_research_api"
)

// DefaultMethod is used when no override is given and no pattern is
// confident enough to suggest one.
const DefaultMethod = MethodOpenAIAgents

// Runner executes a research query with one specific method.
type Runner interface {
	// Method returns the method name this runner implements.
	Method() string

	// Run performs the research and returns the result content and the
	// number of citations found.
	Run(ctx context.Context, query string) (content string, citations int, err error)
}

// Methods returns the full method set.
func Methods() []string {
	return []string{MethodOpenAIAgents, MethodDeepResearchAPI}
}

// ValidMethod reports whether name is a known research method.
func ValidMethod(name string) bool {
	for _, m := range Methods() {
		if m == name {
			return true
		}
	}
	return false
}
