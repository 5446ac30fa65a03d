package research

import (
	"context"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

const (
	// agentsSystemPrompt frames the orchestration method: fast, focused
	// answers with sources.
	agentsSystemPrompt = `You are a research assistant. Answer the query directly and concisely.
Cite sources as URLs where possible.`

	// deepResearchSystemPrompt frames the long-form method.
	deepResearchSystemPrompt = `You are a deep research assistant. Produce a comprehensive, structured
report for the query: cover the landscape, compare alternatives, and cite
sources as URLs throughout.`

	// runTimeout bounds a single research call.
	runTimeout = 5 * time.Minute
)

// OpenAIRunner executes research queries against the OpenAI API.
type OpenAIRunner struct {
	client       *openai.Client
	method       string
	model        string
	systemPrompt string
	maxTokens    int
}

// NewAgentsRunner creates the openai_agents runner.
func NewAgentsRunner(apiKey, model string) *OpenAIRunner {
	return &OpenAIRunner{
		client:       openai.NewClient(apiKey),
		method:       MethodOpenAIAgents,
		model:        model,
		systemPrompt: agentsSystemPrompt,
		maxTokens:    2048,
	}
}

// NewDeepResearchRunner creates the deep_research_api runner.
func NewDeepResearchRunner(apiKey, model string) *OpenAIRunner {
	return &OpenAIRunner{
		client:       openai.NewClient(apiKey),
		method:       MethodDeepResearchAPI,
		model:        model,
		systemPrompt: deepResearchSystemPrompt,
		maxTokens:    8192,
	}
}

// Method returns the method name this runner implements.
func (r *OpenAIRunner) Method() string {
	return r.method
}

// Run performs the research via a chat completion.
func (r *OpenAIRunner) Run(ctx context.Context, query string) (string, int, error) {
	ctx, cancel := context.WithTimeout(ctx, runTimeout)
	defer cancel()

	resp, err := r.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     r.model,
		MaxTokens: r.maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: r.systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: query},
		},
	})
	if err != nil {
		return "", 0, fmt.Errorf("%s completion failed: %w", r.method, err)
	}

	if len(resp.Choices) == 0 {
		return "", 0, fmt.Errorf("%s returned no choices", r.method)
	}

	content := resp.Choices[0].Message.Content
	return content, countCitations(content), nil
}

// countCitations counts URL references in result content.
func countCitations(content string) int {
	return strings.Count(content, "http://") + strings.Count(content, "https://")
}
