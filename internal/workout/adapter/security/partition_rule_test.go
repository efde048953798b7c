package security

import (
	"context"
	"testing"

	apperrors "calisthenics-ai/internal/shared/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPartitionRule_Default(t *testing.T) {
	rule, err := NewPartitionRule("", nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultPartitionRule, rule.Expression())

	ctx := context.Background()
	tests := []struct {
		name      string
		principal string
		owner     string
		allowed   bool
	}{
		{"own partition", "alice", "alice", true},
		{"other partition", "alice", "bob", false},
		{"anonymous", "", "", false},
		{"anonymous on a partition", "", "bob", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := rule.Allow(ctx, tt.principal, tt.owner)
			if tt.allowed {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, apperrors.ErrPartitionDenied)
			}
		})
	}
}

func TestPartitionRule_Custom(t *testing.T) {
	rule, err := NewPartitionRule(`principal == owner || principal.startsWith("admin:")`, nil)
	require.NoError(t, err)

	assert.NoError(t, rule.Allow(context.Background(), "admin:ops", "bob"))
	assert.Error(t, rule.Allow(context.Background(), "eve", "bob"))
}

func TestPartitionRule_Invalid(t *testing.T) {
	_, err := NewPartitionRule(`principal ==`, nil)
	assert.ErrorContains(t, err, "CEL compilation error")

	_, err = NewPartitionRule(`principal + owner`, nil)
	assert.ErrorContains(t, err, "must return bool")

	_, err = NewPartitionRule(`subject == owner`, nil)
	assert.Error(t, err)
}
