// Package gemini implements the advisory boundary on the Google Generative
// Language API.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"dompetku/internal/advisor"
	"dompetku/internal/core"

	generativelanguage "google.golang.org/api/generativelanguage/v1beta"
	goption "google.golang.org/api/option"
)

const defaultModel = "gemini-2.5-flash"

// requestTimeout bounds a single generation call; the core itself enforces
// no timeout.
const requestTimeout = 60 * time.Second

type Client struct {
	svc   *generativelanguage.Service
	model string
}

var _ advisor.Advisor = (*Client)(nil)

// NewFromEnv creates a Gemini client using environment variables.
// Required: GEMINI_API_KEY (or legacy API_KEY).
// Optional: GEMINI_MODEL (default "gemini-2.5-flash").
func NewFromEnv(ctx context.Context) (*Client, error) {
	apiKey := strings.TrimSpace(os.Getenv("GEMINI_API_KEY"))
	if apiKey == "" {
		apiKey = strings.TrimSpace(os.Getenv("API_KEY"))
	}
	if apiKey == "" {
		return nil, errors.New("missing GEMINI_API_KEY")
	}

	model := strings.TrimSpace(os.Getenv("GEMINI_MODEL"))
	if model == "" {
		model = defaultModel
	}

	svc, err := generativelanguage.NewService(ctx, goption.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create generative language service: %w", err)
	}

	return &Client{svc: svc, model: model}, nil
}

// Advise sends the prompt and returns the model's raw text. Empty model
// output maps to the fixed empty-advice string; any transport or API
// failure is returned as an error for the caller's boundary to absorb.
func (c *Client) Advise(ctx context.Context, transactions []core.Transaction, debts []core.Debt, savings []core.SavingsGoal) (string, error) {
	prompt := advisor.BuildPrompt(transactions, debts, savings)

	req := &generativelanguage.GenerateContentRequest{
		Contents: []*generativelanguage.Content{
			{
				Role:  "user",
				Parts: []*generativelanguage.Part{{Text: prompt}},
			},
		},
		SystemInstruction: &generativelanguage.Content{
			Parts: []*generativelanguage.Part{{Text: advisor.SystemInstruction}},
		},
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	resp, err := c.svc.Models.GenerateContent("models/"+c.model, req).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	text := extractText(resp)
	if text == "" {
		return advisor.EmptyMessage, nil
	}
	return text, nil
}

func extractText(resp *generativelanguage.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil {
		return ""
	}
	var parts []string
	for _, p := range candidate.Content.Parts {
		if p != nil && p.Text != "" {
			parts = append(parts, p.Text)
		}
	}
	return strings.TrimSpace(strings.Join(parts, ""))
}
