package models

import (
	"strings"
	"time"

	id "crossclass/pkg/domain"
	dErrors "crossclass/pkg/domain-errors"
)

// Authority is an accrediting body empowered to issue and receive classified
// material on behalf of its nation.
//
// Invariants:
//   - NationID references an existing nation
//   - Name is non-empty
//   - ExpiresAt, when set, must be checked against the request clock before
//     the authority is accepted as an actor in a conversion request
type Authority struct {
	ID        id.AuthorityID `json:"id"`
	NationID  id.NationID    `json:"nation_id"`
	Name      string         `json:"name"`
	Email     string         `json:"email"`
	Phone     string         `json:"phone"`
	CreatorID id.UserID      `json:"creator_id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	ExpiresAt *time.Time     `json:"expires_at,omitempty"`
}

func NewAuthority(nationID id.NationID, name, email, phone string, creator id.UserID, expiresAt *time.Time, now time.Time) (*Authority, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "authority name cannot be empty")
	}
	if nationID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "authority requires a nation")
	}
	return &Authority{
		ID:        id.NewAuthorityID(),
		NationID:  nationID,
		Name:      name,
		Email:     strings.TrimSpace(email),
		Phone:     strings.TrimSpace(phone),
		CreatorID: creator,
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: expiresAt,
	}, nil
}

// ValidAt reports whether the authority may act at the given instant.
// A nil ExpiresAt means the accreditation does not lapse.
func (a *Authority) ValidAt(now time.Time) bool {
	return a.ExpiresAt == nil || a.ExpiresAt.After(now)
}
