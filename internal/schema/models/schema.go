package models

import (
	"strings"
	"time"

	id "crossclass/pkg/domain"
	dErrors "crossclass/pkg/domain-errors"
)

// ClassificationSchema is one nation's bidirectional mapping table between
// its own classification vocabulary and the five-level reference vocabulary,
// plus caveats and a version/expiry.
//
// Invariants:
//   - (NationCode, Version) is unique
//   - all ten mapping strings are non-empty
//   - rows are append-only: an update means a new version, historical
//     mappings are never rewritten (classification mappings are legally
//     significant, so history must stay auditable)
//   - "latest" for a nation is the row with the greatest CreatedAt
//   - a row whose ExpiresAt has passed must be rejected by consumers even if
//     it is the most recent one
type ClassificationSchema struct {
	ID          id.SchemaID   `json:"id"`
	NationCode  id.NationCode `json:"nation_code"`
	CreatorID   id.UserID     `json:"creator_id"`
	AuthorityID id.AuthorityID `json:"authority_id"`

	// National terms for each reference level, used when translating into
	// the reference vocabulary.
	ToUnclassified string `json:"to_nato_unclassified"`
	ToRestricted   string `json:"to_nato_restricted"`
	ToConfidential string `json:"to_nato_confidential"`
	ToSecret       string `json:"to_nato_secret"`
	ToTopSecret    string `json:"to_nato_top_secret"`

	// National renderings of each reference level, used when translating out
	// of the reference vocabulary. Usually identical to the To* fields but
	// kept separate so a nation can accept broader input than it emits.
	FromUnclassified string `json:"from_nato_unclassified"`
	FromRestricted   string `json:"from_nato_restricted"`
	FromConfidential string `json:"from_nato_confidential"`
	FromSecret       string `json:"from_nato_secret"`
	FromTopSecret    string `json:"from_nato_top_secret"`

	// Caveats is a free-text handling qualifier (e.g. "NOFORN", "REL TO
	// NATO") distinct from the classification level itself.
	Caveats string `json:"caveats"`

	Version   string     `json:"version"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// Mappings groups the ten national terms for constructing a schema version.
type Mappings struct {
	ToUnclassified   string
	ToRestricted     string
	ToConfidential   string
	ToSecret         string
	ToTopSecret      string
	FromUnclassified string
	FromRestricted   string
	FromConfidential string
	FromSecret       string
	FromTopSecret    string
}

// NewSchema validates and constructs a schema version.
func NewSchema(nationCode id.NationCode, mappings Mappings, caveats, version string,
	authorityID id.AuthorityID, creator id.UserID, expiresAt *time.Time, now time.Time) (*ClassificationSchema, error) {

	version = strings.TrimSpace(version)
	if version == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "schema version label cannot be empty")
	}
	for _, term := range []string{
		mappings.ToUnclassified, mappings.ToRestricted, mappings.ToConfidential,
		mappings.ToSecret, mappings.ToTopSecret,
		mappings.FromUnclassified, mappings.FromRestricted, mappings.FromConfidential,
		mappings.FromSecret, mappings.FromTopSecret,
	} {
		if strings.TrimSpace(term) == "" {
			return nil, dErrors.New(dErrors.CodeInvariantViolation, "all ten classification mappings are required")
		}
	}

	return &ClassificationSchema{
		ID:               id.NewSchemaID(),
		NationCode:       nationCode,
		CreatorID:        creator,
		AuthorityID:      authorityID,
		ToUnclassified:   mappings.ToUnclassified,
		ToRestricted:     mappings.ToRestricted,
		ToConfidential:   mappings.ToConfidential,
		ToSecret:         mappings.ToSecret,
		ToTopSecret:      mappings.ToTopSecret,
		FromUnclassified: mappings.FromUnclassified,
		FromRestricted:   mappings.FromRestricted,
		FromConfidential: mappings.FromConfidential,
		FromSecret:       mappings.FromSecret,
		FromTopSecret:    mappings.FromTopSecret,
		Caveats:          caveats,
		Version:          version,
		CreatedAt:        now,
		UpdatedAt:        now,
		ExpiresAt:        expiresAt,
	}, nil
}

// ValidAt reports whether the schema may be used at the given instant.
// A nil ExpiresAt means the schema does not lapse; otherwise ExpiresAt must
// lie strictly in the future.
func (s *ClassificationSchema) ValidAt(now time.Time) bool {
	return s.ExpiresAt == nil || s.ExpiresAt.After(now)
}

// ToTerms returns the five national input terms in reference-level order
// {unclassified, restricted, confidential, secret, top secret}. The engine
// evaluates them in this exact sequence; the order is part of the conversion
// contract, not an implementation detail.
func (s *ClassificationSchema) ToTerms() [5]string {
	return [5]string{s.ToUnclassified, s.ToRestricted, s.ToConfidential, s.ToSecret, s.ToTopSecret}
}

// FromTerm returns the national rendering for a reference level, resolved by
// the level's position in domain.ReferenceLevels.
func (s *ClassificationSchema) FromTerm(level id.ReferenceLevel) (string, bool) {
	switch level {
	case id.ReferenceUnclassified:
		return s.FromUnclassified, true
	case id.ReferenceRestricted:
		return s.FromRestricted, true
	case id.ReferenceConfidential:
		return s.FromConfidential, true
	case id.ReferenceSecret:
		return s.FromSecret, true
	case id.ReferenceTopSecret:
		return s.FromTopSecret, true
	}
	return "", false
}
