package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"calisthenics-ai/internal/coach/domain/model"
	"calisthenics-ai/internal/coach/domain/repository"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

// ErrInvalidAPIKey is returned when no API key is given.
var ErrInvalidAPIKey = errors.New("openai: API key is required")

// Generator calls the OpenAI chat completions API in JSON mode.
type Generator struct {
	client      openai.Client
	model       string
	temperature float64
}

// Option configures a Generator.
type Option func(*generatorOptions)

type generatorOptions struct {
	model       string
	temperature float64
	request     []option.RequestOption
}

// WithModel sets the model to use.
func WithModel(model string) Option {
	return func(o *generatorOptions) {
		if model != "" {
			o.model = model
		}
	}
}

// WithTemperature sets the sampling temperature.
func WithTemperature(t float64) Option {
	return func(o *generatorOptions) {
		o.temperature = t
	}
}

// WithBaseURL points the client at another endpoint, e.g. a test server or a
// compatible gateway.
func WithBaseURL(url string) Option {
	return func(o *generatorOptions) {
		if url != "" {
			o.request = append(o.request, option.WithBaseURL(url))
		}
	}
}

// WithMaxRetries sets how often failed requests are retried.
func WithMaxRetries(n int) Option {
	return func(o *generatorOptions) {
		o.request = append(o.request, option.WithMaxRetries(n))
	}
}

// NewGenerator creates an OpenAI generator.
func NewGenerator(apiKey string, opts ...Option) (*Generator, error) {
	if apiKey == "" {
		return nil, ErrInvalidAPIKey
	}

	o := &generatorOptions{
		model:       openai.ChatModelGPT4oMini,
		temperature: 0.7,
	}
	for _, opt := range opts {
		opt(o)
	}

	requestOpts := append([]option.RequestOption{option.WithAPIKey(apiKey)}, o.request...)
	return &Generator{
		client:      openai.NewClient(requestOpts...),
		model:       o.model,
		temperature: o.temperature,
	}, nil
}

func (g *Generator) Name() string { return "openai" }

// Generate sends the system and user messages and returns the first choice.
func (g *Generator) Generate(ctx context.Context, system, prompt string) (string, error) {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, 2)
	if system != "" {
		messages = append(messages, openai.SystemMessage(system))
	}
	messages = append(messages, openai.UserMessage(prompt))

	resp, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(g.model),
		Messages:    messages,
		Temperature: openai.Float(g.temperature),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", model.ErrEmptyResponse
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", model.ErrEmptyResponse
	}
	return text, nil
}

var _ repository.Generator = (*Generator)(nil)
