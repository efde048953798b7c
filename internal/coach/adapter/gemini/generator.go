package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"calisthenics-ai/internal/coach/domain/model"
	"calisthenics-ai/internal/coach/domain/repository"

	"google.golang.org/genai"
)

// ErrInvalidAPIKey is returned when no API key is given.
var ErrInvalidAPIKey = errors.New("gemini: API key is required")

// Generator calls the Gemini API.
type Generator struct {
	client      *genai.Client
	model       string
	temperature float32
	baseURL     string
}

// Option configures a Generator.
type Option func(*Generator)

// WithModel sets the model to use.
func WithModel(model string) Option {
	return func(g *Generator) {
		if model != "" {
			g.model = model
		}
	}
}

// WithTemperature sets the sampling temperature.
func WithTemperature(t float64) Option {
	return func(g *Generator) {
		g.temperature = float32(t)
	}
}

// WithBaseURL points the client at another endpoint, e.g. a test server.
func WithBaseURL(url string) Option {
	return func(g *Generator) {
		g.baseURL = url
	}
}

// NewGenerator creates a Gemini generator with API key authentication.
func NewGenerator(ctx context.Context, apiKey string, opts ...Option) (*Generator, error) {
	if apiKey == "" {
		return nil, ErrInvalidAPIKey
	}

	g := &Generator{
		model:       "gemini-2.0-flash",
		temperature: 0.7,
	}
	for _, opt := range opts {
		opt(g)
	}

	config := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if g.baseURL != "" {
		config.HTTPOptions = genai.HTTPOptions{BaseURL: g.baseURL}
	}

	client, err := genai.NewClient(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	g.client = client
	return g, nil
}

func (g *Generator) Name() string { return "gemini" }

// Generate sends prompt with the system instruction and asks for JSON output.
func (g *Generator) Generate(ctx context.Context, system, prompt string) (string, error) {
	temperature := g.temperature
	config := &genai.GenerateContentConfig{
		Temperature:      &temperature,
		ResponseMIMEType: "application/json",
	}
	if system != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{genai.NewPartFromText(system)},
		}
	}

	contents := []*genai.Content{{
		Role:  "user",
		Parts: []*genai.Part{genai.NewPartFromText(prompt)},
	}}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, config)
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", model.ErrEmptyResponse
	}
	return text, nil
}

var _ repository.Generator = (*Generator)(nil)
