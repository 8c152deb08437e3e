package common

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
)

type contextKey string

const (
	RequestIDKey contextKey = "request_id"
)

// ValidateUUID validates UUID format with comprehensive checks
func ValidateUUID(idStr string, fieldName string) (uuid.UUID, error) {
	idStr = strings.TrimSpace(idStr)
	if idStr == "" {
		return uuid.Nil, ValidationError("%s is required", fieldName)
	}

	// Check exact length
	if len(idStr) != 36 {
		return uuid.Nil, ValidationError("%s must be exactly 36 characters (including hyphens)", fieldName)
	}

	// Check hyphen placement
	for _, pos := range []int{8, 13, 18, 23} {
		if idStr[pos] != '-' {
			return uuid.Nil, ValidationError("%s has invalid UUID format: hyphens must be at positions 9, 14, 19, and 24", fieldName)
		}
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, ValidationError("%s contains invalid characters", fieldName)
	}

	return id, nil
}

// ValidateUUIDs parses a list of ids, collapsing duplicates to their first occurrence
func ValidateUUIDs(ids []string, fieldName string) ([]uuid.UUID, error) {
	if len(ids) == 0 {
		return nil, ValidationError("%s must contain at least one id", fieldName)
	}
	seen := make(map[uuid.UUID]struct{}, len(ids))
	parsed := make([]uuid.UUID, 0, len(ids))
	for i, raw := range ids {
		id, err := ValidateUUID(raw, fmt.Sprintf("%s[%d]", fieldName, i))
		if err != nil {
			return nil, err
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		parsed = append(parsed, id)
	}
	return parsed, nil
}

// ValidateRequiredString trims value and rejects blanks
func ValidateRequiredString(value, fieldName string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", ValidationError("%s is required", fieldName)
	}
	return trimmed, nil
}

// MaxAmount bounds counts, prices and line amounts to the range float64
// holds exactly as an integer, so rounded totals fit an int64.
const MaxAmount = 1 << 53

// ValidateNonNegative rejects negative, non-finite and oversized amounts
func ValidateNonNegative(value float64, fieldName string) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return ValidationError("%s must be a finite number", fieldName)
	}
	if value < 0 {
		return ValidationError("%s cannot be negative", fieldName)
	}
	if value > MaxAmount {
		return ValidationError("%s cannot exceed %d", fieldName, int64(MaxAmount))
	}
	return nil
}

// ValidateLineAmount rejects a line whose count * price leaves [0, MaxAmount]
func ValidateLineAmount(count, price float64) error {
	amount := count * price
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount > MaxAmount {
		return ValidationError("count * price cannot exceed %d", int64(MaxAmount))
	}
	return nil
}

// ValidatePaginationParams clamps limit and offset
func ValidatePaginationParams(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 1000 {
		limit = 1000
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// GetRequestIDFromContext extracts the request id set by the logging middleware
func GetRequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}
