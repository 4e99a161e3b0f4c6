package generation

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"google.golang.org/genai"

	"alcyxob/workout-planner/internal/config"
	"alcyxob/workout-planner/internal/domain"
)

// maxErrorBody bounds how much of an upstream error message ends up in lastError.
const maxErrorBody = 512

// Result is a validated plan together with the raw collaborator text.
type Result struct {
	Content *domain.PlanContent
	RawText string
}

// Generator produces plan content for a profile. Every failure is a *GenerationError.
type Generator interface {
	Generate(ctx context.Context, profile Profile) (*Result, error)
}

// Client asks Gemini for a plan through the genai SDK. It performs exactly
// one generateContent request per Generate call.
type Client struct {
	models      *genai.Models
	initErr     error
	model       string
	temperature float32
}

// NewClient constructs a Client. A zero cfg.Timeout leaves the transport without
// a deadline. Configuration problems surface on the first Generate call.
func NewClient(cfg config.GenerationConfig) *Client {
	c := &Client{model: cfg.Model, temperature: float32(cfg.Temperature)}
	if cfg.APIKey == "" {
		c.initErr = errors.New("generation api key is not configured")
		return c
	}

	gc, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: cfg.Timeout},
		HTTPOptions: genai.HTTPOptions{
			BaseURL:    cfg.Endpoint,
			APIVersion: cfg.APIVersion,
		},
	})
	if err != nil {
		c.initErr = err
		return c
	}
	c.models = gc.Models
	return c
}

// Generate normalizes the profile, asks the collaborator for a plan and parses the reply.
func (c *Client) Generate(ctx context.Context, profile Profile) (*Result, error) {
	if c.initErr != nil {
		return nil, wrap("generate", c.initErr)
	}

	prompt := BuildPrompt(profile.Normalized())
	text, err := c.call(ctx, prompt)
	if err != nil {
		return nil, err
	}

	content, err := ParsePlan(text)
	if err != nil {
		return nil, err
	}
	return &Result{Content: content, RawText: text}, nil
}

func (c *Client) call(ctx context.Context, prompt string) (string, error) {
	resp, err := c.models.GenerateContent(ctx, c.model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(c.temperature),
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		return "", wrap("call", upstreamError(err))
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", wrap("decode response", ErrEmptyResponse)
	}

	parts := resp.Candidates[0].Content.Parts
	texts := make([]string, 0, len(parts))
	for _, part := range parts {
		if part != nil {
			texts = append(texts, part.Text)
		}
	}
	text := strings.TrimSpace(strings.Join(texts, "\n"))
	if text == "" {
		return "", wrap("decode response", ErrEmptyResponse)
	}
	return text, nil
}

// upstreamError turns an SDK status error into an UpstreamStatusError and
// passes transport errors through.
func upstreamError(err error) error {
	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		var apiErrPtr *genai.APIError
		if !errors.As(err, &apiErrPtr) || apiErrPtr == nil {
			return err
		}
		apiErr = *apiErrPtr
	}
	msg := strings.TrimSpace(apiErr.Message)
	if len(msg) > maxErrorBody {
		msg = msg[:maxErrorBody]
	}
	return &UpstreamStatusError{Status: apiErr.Code, Body: msg}
}
