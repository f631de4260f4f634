// Package anthropic provides a narrative.Generator backed by the Anthropic
// Messages API. It is pure plumbing: the analysis results are serialized
// into a prompt, the completion is parsed back into the structured
// Narrative shape.
package anthropic

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/insightmesh/insightmesh/narrative"
)

// Options configures the Anthropic generator (model id, max tokens,
// temperature, API key). Extend via functional options to preserve
// stability.
type Options struct {
	Model       anthropic.Model
	Temperature float64
	MaxTokens   int64
	APIKey      string
}

// Generator wraps the Anthropic Messages API behind narrative.Generator.
type Generator struct {
	client *anthropic.Client
	opts   Options
}

// New creates a generator using the official client. The API key falls back
// to the SDK's environment lookup when unset.
func New(optFns ...func(o *Options)) *Generator {
	opts := Options{
		Model:       anthropic.ModelClaude3_5Sonnet20241022,
		Temperature: 0.7,
		MaxTokens:   2048,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	var clientOpts []option.RequestOption
	if opts.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	}
	client := anthropic.NewClient(clientOpts...)
	return &Generator{client: &client, opts: opts}
}

// NewFromClient creates a generator from an existing client.
func NewFromClient(client *anthropic.Client, optFns ...func(o *Options)) *Generator {
	opts := Options{
		Model:       anthropic.ModelClaude3_5Sonnet20241022,
		Temperature: 0.7,
		MaxTokens:   2048,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Generator{client: client, opts: opts}
}

// Generate implements narrative.Generator via a single non-streaming
// Messages call.
func (g *Generator) Generate(ctx context.Context, input narrative.Input) (*narrative.Narrative, error) {
	prompt, err := buildPrompt(input)
	if err != nil {
		return nil, err
	}

	resp, err := g.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       g.opts.Model,
		MaxTokens:   g.opts.MaxTokens,
		Temperature: anthropic.Float(g.opts.Temperature),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("anthropic api error: %w", err)
	}

	var text string
	for _, block := range resp.Content {
		if block.Type == "text" {
			text += block.AsText().Text
		}
	}
	if text == "" {
		return nil, fmt.Errorf("anthropic returned no text content")
	}

	n := narrative.ParseSections(text)
	n.TotalRecommendations = countRecommendations(input)
	return n, nil
}

// buildPrompt serializes the role-keyed results into the generation prompt.
func buildPrompt(input narrative.Input) (string, error) {
	payload, err := json.MarshalIndent(input, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding narrative input: %w", err)
	}
	return fmt.Sprintf(
		"You are writing a data-analysis report from the structured results below.\n"+
			"Respond with exactly three sections using these markers on their own lines:\n"+
			"EXECUTIVE SUMMARY:\nPROBLEM STATEMENT:\nACTION PLAN:\n\n"+
			"Analysis results:\n%s\n", payload), nil
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
