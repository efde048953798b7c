package coach

import (
	"context"
	"testing"

	"calisthenics-ai/internal/coach/config"
	"calisthenics-ai/internal/coach/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCoachModule_Disabled(t *testing.T) {
	cfg := &config.Config{Provider: config.ProviderNone}
	require.NoError(t, cfg.Validate())

	cm, err := NewCoachModule(context.Background(), cfg, nil, nil)
	require.NoError(t, err)
	assert.False(t, cm.Enabled())

	_, err = cm.GetUsecase().Suggest(context.Background(), model.SuggestionsRequest{})
	assert.ErrorIs(t, err, model.ErrCoachDisabled)
	assert.NoError(t, cm.Stop())
}

func TestNewCoachModule_OpenAI(t *testing.T) {
	cfg := &config.Config{Provider: config.ProviderOpenAI, OpenAIAPIKey: "sk-test", OpenAIModel: "gpt-4o-mini"}
	require.NoError(t, cfg.Validate())

	cm, err := NewCoachModule(context.Background(), cfg, nil, nil)
	require.NoError(t, err)
	assert.True(t, cm.Enabled())
	assert.True(t, cm.GetUsecase().Enabled())
}
