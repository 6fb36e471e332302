package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrValidation marks a request that is malformed or breaks a domain rule.
// Specific failures wrap it, e.g. fmt.Errorf("%w: billed cannot be negative", ErrValidation).
var ErrValidation = errors.New("validation failed")

// Invalid returns an ErrValidation carrying msg.
func Invalid(msg string) error {
	return fmt.Errorf("%w: %s", ErrValidation, msg)
}

// CheckUpdateFields rejects the whole update when any submitted field is
// outside allowed. It also rejects an empty update.
func CheckUpdateFields(fields, allowed []string) error {
	if len(fields) == 0 {
		return Invalid("no fields to update")
	}

	permitted := make(map[string]struct{}, len(allowed))
	for _, f := range allowed {
		permitted[f] = struct{}{}
	}

	var rejected []string
	for _, f := range fields {
		if _, ok := permitted[f]; !ok {
			rejected = append(rejected, f)
		}
	}
	if len(rejected) > 0 {
		sort.Strings(rejected)
		return Invalid("invalid updates: " + strings.Join(rejected, ", "))
	}
	return nil
}
