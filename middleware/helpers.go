package middleware

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/golang-jwt/jwt/v4"
)

// Имена JWT claims; operator_id имеет приоритет над user_id.
const (
	jwtClaimOperatorID = "operator_id"
	jwtClaimUserID     = "user_id"
)

// GetOperatorIDFromContext returns the id of the authenticated operator.
func GetOperatorIDFromContext(ctx context.Context) (int, error) {
	claims, ok := ctx.Value(userContextKey).(jwt.MapClaims)
	if !ok {
		return 0, errors.New("operator claims not found in context or invalid type")
	}

	for _, name := range []string{jwtClaimOperatorID, jwtClaimUserID} {
		claim, ok := claims[name]
		if !ok {
			continue
		}
		return claimToID(name, claim)
	}
	return 0, fmt.Errorf("missing '%s' claim in token", jwtClaimOperatorID)
}

// WithOperatorClaims is used by tests and internal callers to act as an operator.
func WithOperatorClaims(ctx context.Context, operatorID int) context.Context {
	return context.WithValue(ctx, userContextKey, jwt.MapClaims{jwtClaimOperatorID: float64(operatorID)})
}

func claimToID(name string, claim any) (int, error) {
	var id int
	switch v := claim.(type) {
	case float64:
		if v != float64(int(v)) {
			return 0, fmt.Errorf("'%s' claim is not an integer: %f", name, v)
		}
		id = int(v)
	case string:
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("invalid '%s' claim %q: %w", name, v, err)
		}
		id = parsed
	default:
		return 0, fmt.Errorf("invalid type for '%s' claim: expected number or string, got %T", name, claim)
	}

	if id <= 0 {
		return 0, fmt.Errorf("invalid id value in '%s' claim: %d", name, id)
	}
	return id, nil
}
