package catalog

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/colonyops/catalog/internal/core/validate"
)

// UniquePolicy decides how a failed uniqueness lookup is treated.
type UniquePolicy string

const (
	// FailOpen accepts the id when the backend cannot be reached.
	FailOpen UniquePolicy = "fail-open"
	// FailClosed rejects the id with CodeUniqueUnchecked.
	FailClosed UniquePolicy = "fail-closed"
)

// ParseUniquePolicy converts a config value into a policy. The empty string
// selects FailOpen.
func ParseUniquePolicy(s string) (UniquePolicy, error) {
	switch UniquePolicy(s) {
	case "", FailOpen:
		return FailOpen, nil
	case FailClosed:
		return FailClosed, nil
	default:
		return "", fmt.Errorf("unknown unique id policy %q (want %s or %s)", s, FailOpen, FailClosed)
	}
}

// IDChecker reports whether a product id is already taken.
type IDChecker interface {
	IsIDTaken(ctx context.Context, id string) (bool, error)
}

// UniqueIDValidator is the asynchronous uniqueness rule for the id field.
type UniqueIDValidator struct {
	checker IDChecker
	policy  UniquePolicy
	log     zerolog.Logger
}

// NewUniqueIDValidator creates a validator using policy for lookup errors.
func NewUniqueIDValidator(checker IDChecker, policy UniquePolicy, log zerolog.Logger) *UniqueIDValidator {
	if policy == "" {
		policy = FailOpen
	}
	return &UniqueIDValidator{checker: checker, policy: policy, log: log}
}

// Validate fails with CodeUniqueID when id is taken.
func (v *UniqueIDValidator) Validate(ctx context.Context, id string) error {
	taken, err := v.checker.IsIDTaken(ctx, id)
	if err != nil {
		if v.policy == FailClosed {
			return validate.Fail(validate.CodeUniqueUnchecked, "could not verify id: %v", err)
		}
		v.log.Warn().Err(err).Str("id", id).Msg("id uniqueness check failed, accepting")
		return nil
	}
	if taken {
		return validate.Fail(validate.CodeUniqueID, "id %q is already in use", id)
	}
	return nil
}

// Rule adapts the validator to the schema engine.
func (v *UniqueIDValidator) Rule() validate.AsyncRule {
	return v.Validate
}
