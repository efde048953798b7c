package coach

import (
	"context"
	"fmt"

	"calisthenics-ai/internal/coach/adapter/gemini"
	"calisthenics-ai/internal/coach/adapter/openai"
	"calisthenics-ai/internal/coach/adapter/persistence"
	"calisthenics-ai/internal/coach/config"
	"calisthenics-ai/internal/coach/domain/repository"
	"calisthenics-ai/internal/coach/usecase"
	"calisthenics-ai/internal/shared/logger"

	"github.com/redis/go-redis/v9"
)

// CoachModule bundles the generative coach and its summary memory.
type CoachModule struct {
	generator repository.Generator
	memory    repository.SummaryMemory
	usecase   usecase.CoachUsecaseInterface
	config    *config.Config
	logger    logger.Logger
}

// NewCoachModule builds the generator selected by cfg. Summaries are kept in
// Redis when a client is given, otherwise in memory.
func NewCoachModule(ctx context.Context, cfg *config.Config, rdb redis.UniversalClient, log logger.Logger) (*CoachModule, error) {
	if log == nil {
		log = logger.Default()
	}
	log = log.WithComponent("coach")

	generator, err := newGenerator(ctx, cfg)
	if err != nil {
		return nil, err
	}

	var memory repository.SummaryMemory
	if rdb != nil {
		memory = persistence.NewRedisSummaryStore(rdb, cfg.SummaryKeyPrefix, cfg.SummaryHistoryLength, log)
	} else {
		memory = persistence.NewMemorySummaryStore(int(cfg.SummaryHistoryLength))
	}

	if generator == nil {
		log.Warn("AI provider is not configured, coaching features are disabled")
	} else {
		log.WithFields(map[string]interface{}{
			"provider": generator.Name(),
		}).Info("AI coach ready")
	}

	return &CoachModule{
		generator: generator,
		memory:    memory,
		usecase:   usecase.NewCoachUsecase(generator, memory, cfg.RequestTimeout, log),
		config:    cfg,
		logger:    log,
	}, nil
}

func newGenerator(ctx context.Context, cfg *config.Config) (repository.Generator, error) {
	switch cfg.Provider {
	case config.ProviderGemini:
		g, err := gemini.NewGenerator(ctx, cfg.GeminiAPIKey,
			gemini.WithModel(cfg.GeminiModel),
			gemini.WithTemperature(cfg.Temperature),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create gemini generator: %w", err)
		}
		return g, nil

	case config.ProviderOpenAI:
		g, err := openai.NewGenerator(cfg.OpenAIAPIKey,
			openai.WithModel(cfg.OpenAIModel),
			openai.WithTemperature(cfg.Temperature),
			openai.WithBaseURL(cfg.OpenAIBaseURL),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create openai generator: %w", err)
		}
		return g, nil

	default:
		return nil, nil
	}
}

// GetUsecase returns the coach usecase.
func (cm *CoachModule) GetUsecase() usecase.CoachUsecaseInterface {
	return cm.usecase
}

// Enabled reports whether a provider is configured.
func (cm *CoachModule) Enabled() bool {
	return cm.generator != nil
}

func (cm *CoachModule) Stop() error {
	cm.logger.Info("Coach module stopped")
	return nil
}
