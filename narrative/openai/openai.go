// Package openai provides a narrative.Generator backed by the OpenAI Chat
// Completions API. It serializes the analysis results into a prompt and
// parses the completion back into the structured Narrative shape.
package openai

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/insightmesh/insightmesh/narrative"
	"github.com/openai/openai-go"
)

// Options configure the OpenAI generator.
// Fields mirror a subset of Chat Completion parameters intentionally kept
// minimal; extend via functional options without breaking callers.
type Options struct {
	Model               string
	Temperature         float64
	MaxCompletionTokens int64
}

// Generator wraps the OpenAI Chat Completions API behind narrative.Generator.
type Generator struct {
	client *openai.Client
	opts   Options
}

// New creates a generator using the official client, which reads its API key
// from the environment.
func New(optFns ...func(o *Options)) *Generator {
	client := openai.NewClient()
	return NewFromClient(&client, optFns...)
}

// NewFromClient creates a generator from an existing client.
func NewFromClient(client *openai.Client, optFns ...func(o *Options)) *Generator {
	opts := Options{
		Model:               openai.ChatModelGPT4oMini,
		Temperature:         0.7,
		MaxCompletionTokens: 2048,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Generator{client: client, opts: opts}
}

// Generate implements narrative.Generator via a single non-streaming
// completion.
func (g *Generator) Generate(ctx context.Context, input narrative.Input) (*narrative.Narrative, error) {
	payload, err := json.MarshalIndent(input, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding narrative input: %w", err)
	}

	resp, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:               g.opts.Model,
		Temperature:         openai.Float(g.opts.Temperature),
		MaxCompletionTokens: openai.Int(g.opts.MaxCompletionTokens),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(
				"You write data-analysis reports. Respond with exactly three sections " +
					"using these markers on their own lines:\n" +
					"EXECUTIVE SUMMARY:\nPROBLEM STATEMENT:\nACTION PLAN:"),
			openai.UserMessage(fmt.Sprintf("Analysis results:\n%s\n", payload)),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("openai api error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openai returned no choices")
	}
	text := resp.Choices[0].Message.Content
	if text == "" {
		return nil, fmt.Errorf("openai returned no text content")
	}

	n := narrative.ParseSections(text)
	n.TotalRecommendations = countRecommendations(input)
	return n, nil
}

// countRecommendations reports how many recommendation items the input
// carries, looking for the conventional "items" list first.
func countRecommendations(input narrative.Input) int {
	if input.Recommendations == nil {
		return 0
	}
	switch items := input.Recommendations["items"].(type) {
	case []any:
		return len(items)
	case []string:
		return len(items)
	default:
		return len(input.Recommendations)
	}
}
