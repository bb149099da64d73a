// Package completion sends prompts to a text-completion service.
package completion

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/askdb/askdb/internal/prompt"
)

const (
	DefaultModel     = "gpt-3.5-turbo-instruct"
	DefaultMaxTokens = 100
)

// ErrNoChoices is returned when the service answers with zero choices.
var ErrNoChoices = errors.New("completion response has no choices")

// Result is the raw text of the first choice and the model that produced it.
type Result struct {
	Text  string `json:"text"`
	Model string `json:"model"`
}

// Client produces one completion for a prompt.
type Client interface {
	Complete(ctx context.Context, msgs []prompt.Message) (Result, error)
}

// Config holds the OpenAI-compatible endpoint settings.
type Config struct {
	APIKey    string
	BaseURL   string
	Model     string
	MaxTokens int
	Timeout   time.Duration // zero leaves the transport default
}

// OpenAIClient calls the legacy text-completion endpoint of an
// OpenAI-compatible service.
type OpenAIClient struct {
	client    *openai.Client
	model     string
	maxTokens int
}

// NewOpenAIClient validates cfg and builds a client.
func NewOpenAIClient(cfg Config) (*OpenAIClient, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("api key is required")
	}
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, fmt.Errorf("base URL is required")
	}

	oc := openai.DefaultConfig(strings.TrimSpace(cfg.APIKey))
	oc.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if cfg.Timeout > 0 {
		oc.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}

	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = DefaultModel
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}

	return &OpenAIClient{
		client:    openai.NewClientWithConfig(oc),
		model:     model,
		maxTokens: maxTokens,
	}, nil
}

// Model returns the configured model identifier.
func (c *OpenAIClient) Model() string { return c.model }

// Complete renders msgs into a single prompt string and returns the text of
// the first choice. The request is made exactly once.
func (c *OpenAIClient) Complete(ctx context.Context, msgs []prompt.Message) (Result, error) {
	rendered, err := Render(msgs)
	if err != nil {
		return Result{}, err
	}

	resp, err := c.client.CreateCompletion(ctx, openai.CompletionRequest{
		Model:     c.model,
		Prompt:    rendered,
		MaxTokens: c.maxTokens,
	})
	if err != nil {
		return Result{}, fmt.Errorf("create completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return Result{}, ErrNoChoices
	}

	model := resp.Model
	if model == "" {
		model = c.model
	}
	return Result{Text: resp.Choices[0].Text, Model: model}, nil
}

// Render encodes msgs as a JSON array of {role, content} objects. HTML
// escaping is off so comparison operators reach the model as written.
func Render(msgs []prompt.Message) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(msgs); err != nil {
		return "", fmt.Errorf("marshal prompt: %w", err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}
