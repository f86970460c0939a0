// Package insight generates the short AI commentary included at the top of
// digest emails. The heavy lifting is delegated to the OpenAI completion API;
// when no API key is configured the generator degrades to an empty insight
// and digests go out without commentary.
package insight

import (
	"context"
	"fmt"
	"log"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

const systemPrompt = `You are the editorial voice of a content-intelligence digest.
Given a list of recent items (titles and summaries), write 2-3 short markdown
paragraphs connecting the dots: what themes stand out and why they matter.
No greetings, no bullet lists, no links.`

// Generator produces digest insight text via OpenAI chat completions.
type Generator struct {
	client  *openai.Client
	enabled bool
}

// NewGenerator creates a new insight generator. An empty API key disables it.
func NewGenerator(apiKey string) *Generator {
	g := &Generator{enabled: apiKey != ""}
	if g.enabled {
		g.client = openai.NewClient(apiKey)
	}
	log.Printf("openai insight generator enabled: %v", g.enabled)
	return g
}

// Item is the minimal content shape the generator needs.
type Item struct {
	Title   string
	Summary string
}

// Generate returns markdown insight text for the given items, or an empty
// string when disabled.
func (g *Generator) Generate(ctx context.Context, items []Item) (string, error) {
	if !g.enabled || len(items) == 0 {
		return "", nil
	}

	var prompt strings.Builder
	for i, item := range items {
		fmt.Fprintf(&prompt, "%d. %s", i+1, item.Title)
		if item.Summary != "" {
			fmt.Fprintf(&prompt, ": %s", item.Summary)
		}
		prompt.WriteString("\n")
	}

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: openai.GPT4oMini,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt.String()},
		},
		MaxTokens:   512,
		Temperature: 0.7,
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate insight: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no completion choices returned")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
