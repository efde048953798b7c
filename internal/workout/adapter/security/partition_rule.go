package security

import (
	"context"
	"fmt"

	apperrors "calisthenics-ai/internal/shared/errors"
	"calisthenics-ai/internal/shared/logger"
	"calisthenics-ai/internal/workout/domain/repository"

	"github.com/google/cel-go/cel"
)

// DefaultPartitionRule lets a principal touch only its own partition.
const DefaultPartitionRule = `principal != "" && principal == owner`

// PartitionRule evaluates a CEL expression over the variables principal and
// owner. The expression must yield a bool.
type PartitionRule struct {
	expression string
	program    cel.Program
	logger     logger.Logger
}

// NewPartitionRule compiles expression. An empty expression selects
// DefaultPartitionRule.
func NewPartitionRule(expression string, log logger.Logger) (*PartitionRule, error) {
	if expression == "" {
		expression = DefaultPartitionRule
	}
	if log == nil {
		log = logger.Default()
	}

	env, err := cel.NewEnv(
		cel.Variable("principal", cel.StringType),
		cel.Variable("owner", cel.StringType),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}

	ast, issues := env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("CEL compilation error: %w", issues.Err())
	}
	if !ast.OutputType().IsExactType(cel.BoolType) {
		return nil, fmt.Errorf("partition rule must return bool, got %s", ast.OutputType())
	}

	program, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL program: %w", err)
	}

	return &PartitionRule{
		expression: expression,
		program:    program,
		logger:     log.WithComponent("partition_rule"),
	}, nil
}

// Expression returns the compiled rule source.
func (r *PartitionRule) Expression() string {
	return r.expression
}

// Allow returns nil when principal may access the partition of owner and an
// error wrapping ErrPartitionDenied otherwise.
func (r *PartitionRule) Allow(ctx context.Context, principal, owner string) error {
	out, _, err := r.program.ContextEval(ctx, map[string]interface{}{
		"principal": principal,
		"owner":     owner,
	})
	if err != nil {
		return fmt.Errorf("%w: CEL evaluation error: %v", apperrors.ErrPartitionDenied, err)
	}

	allowed, ok := out.Value().(bool)
	if !ok || !allowed {
		r.logger.WithContext(ctx).WithFields(map[string]interface{}{
			"owner": owner,
		}).Warn("Partition access denied")
		return fmt.Errorf("%w: principal %q may not access partition %q", apperrors.ErrPartitionDenied, principal, owner)
	}
	return nil
}

var _ repository.PartitionGuard = (*PartitionRule)(nil)
