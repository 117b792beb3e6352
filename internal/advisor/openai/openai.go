// Package openai implements the advisory boundary on an OpenAI-compatible
// chat completion API.
package openai

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"dompetku/internal/advisor"
	"dompetku/internal/core"

	goopenai "github.com/sashabaranov/go-openai"
)

const defaultModel = "gpt-4o-mini"

const requestTimeout = 60 * time.Second

type Client struct {
	client *goopenai.Client
	model  string
}

var _ advisor.Advisor = (*Client)(nil)

// NewFromEnv creates an OpenAI client using environment variables.
// Required: OPENAI_API_KEY. Optional: OPENAI_MODEL, OPENAI_BASE_URL (for
// compatible endpoints).
func NewFromEnv() (*Client, error) {
	apiKey := strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
	if apiKey == "" {
		return nil, errors.New("missing OPENAI_API_KEY")
	}

	model := strings.TrimSpace(os.Getenv("OPENAI_MODEL"))
	if model == "" {
		model = defaultModel
	}

	config := goopenai.DefaultConfig(apiKey)
	if baseURL := strings.TrimSpace(os.Getenv("OPENAI_BASE_URL")); baseURL != "" {
		config.BaseURL = baseURL
	}

	return &Client{client: goopenai.NewClientWithConfig(config), model: model}, nil
}

func (c *Client) Advise(ctx context.Context, transactions []core.Transaction, debts []core.Debt, savings []core.SavingsGoal) (string, error) {
	prompt := advisor.BuildPrompt(transactions, debts, savings)

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	resp, err := c.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model: c.model,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleSystem, Content: advisor.SystemInstruction},
			{Role: goopenai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return advisor.EmptyMessage, nil
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return advisor.EmptyMessage, nil
	}
	return text, nil
}
