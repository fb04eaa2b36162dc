package domain

import (
	"strings"

	dErrors "crossclass/pkg/domain-errors"
)

// NationCode is an ISO 3166-1 alpha-3 country code (e.g. "USA", "GBR").
// Invariant: exactly three ASCII letters, stored uppercase. Codes are
// immutable once authorities or classification schemas reference them.
//
// Usage: construct via ParseNationCode at trust boundaries; direct casting
// bypasses validation.
type NationCode string

// ParseNationCode normalizes and validates a nation code from external input.
//
// Errors: returns CodeInvalidInput when the value is empty or not a
// three-letter code; no other errors are expected.
func ParseNationCode(s string) (NationCode, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "nation code cannot be empty")
	}
	if len(s) != 3 {
		return "", dErrors.New(dErrors.CodeInvalidInput, "nation code must be exactly three letters")
	}
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return "", dErrors.New(dErrors.CodeInvalidInput, "nation code must contain only letters")
		}
	}
	return NationCode(s), nil
}

// ParseNationCodes parses a batch of codes, rejecting the whole batch on the
// first invalid entry and dropping duplicates while preserving order.
func ParseNationCodes(raw []string) ([]NationCode, error) {
	seen := make(map[NationCode]bool, len(raw))
	codes := make([]NationCode, 0, len(raw))
	for _, s := range raw {
		code, err := ParseNationCode(s)
		if err != nil {
			return nil, err
		}
		if seen[code] {
			continue
		}
		seen[code] = true
		codes = append(codes, code)
	}
	return codes, nil
}

func (c NationCode) String() string {
	return string(c)
}
