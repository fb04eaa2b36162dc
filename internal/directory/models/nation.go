package models

import (
	"strings"
	"time"

	id "crossclass/pkg/domain"
	dErrors "crossclass/pkg/domain-errors"
)

// Nation identifies a participating country.
//
// Invariants:
//   - Code is a valid three-letter nation code, globally unique
//   - Code is immutable once authorities or classification schemas reference it
//   - Name is non-empty
type Nation struct {
	ID        id.NationID   `json:"id"`
	Code      id.NationCode `json:"code"`
	Name      string        `json:"name"`
	CreatorID id.UserID     `json:"creator_id"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

func NewNation(code id.NationCode, name string, creator id.UserID, now time.Time) (*Nation, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "nation name cannot be empty")
	}
	if code == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "nation code is required")
	}
	return &Nation{
		ID:        id.NewNationID(),
		Code:      code,
		Name:      name,
		CreatorID: creator,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}
