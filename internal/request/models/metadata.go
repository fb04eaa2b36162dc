package models

import (
	"time"

	id "crossclass/pkg/domain"
	dErrors "crossclass/pkg/domain-errors"
)

// Metadata is the structured provenance record attached to a document at
// request intake: who originated it, who holds it, how it is formatted, and
// who may receive it. AuthorizationReference is encrypted at rest.
type Metadata struct {
	ID         id.MetadataID `json:"id"`
	DocumentID id.DocumentID `json:"document_id"`
	CreatorID  id.UserID     `json:"creator_id"`

	// Identifier is the originator's own reference for the document
	// (a registry number or filing reference).
	Identifier string `json:"identifier"`

	OriginatorAuthorityID id.AuthorityID `json:"originator_authority_id"`
	CustodianAuthorityID  id.AuthorityID `json:"custodian_authority_id"`

	// Format describes the physical or digital form of the document
	// (e.g. "PDF", "paper", "imagery"). FormatSize is bytes, when known.
	Format     string `json:"format"`
	FormatSize *int64 `json:"format_size,omitempty"`

	// SecurityClassification is the national classification text as marked
	// on the document itself, recorded verbatim.
	SecurityClassification string `json:"security_classification"`

	// ReleasableTo lists the nations cleared to receive the document;
	// organizations and categories widen release beyond single nations
	// (e.g. "NATO", "contractors").
	ReleasableTo           []id.NationCode `json:"releasable_to"`
	ReleasableToOrgs       []string        `json:"releasable_to_organizations,omitempty"`
	ReleasableToCategories []string        `json:"releasable_to_categories,omitempty"`

	DisclosureCategory string `json:"disclosure_category,omitempty"`

	// HandlingRestrictions is free-text handling guidance (e.g. "NOFORN").
	// HandlingAuthority names the legislation or policy imposing it.
	// NoHandlingRestrictions records an explicit statement that none apply,
	// as opposed to the field simply being left blank.
	HandlingRestrictions   string `json:"handling_restrictions,omitempty"`
	HandlingAuthority      string `json:"handling_authority,omitempty"`
	NoHandlingRestrictions bool   `json:"no_handling_restrictions"`

	// AuthorizationReference identifies the instrument authorizing the
	// exchange (an accreditation or agreement number).
	AuthorizationReference     *string    `json:"authorization_reference,omitempty"`
	AuthorizationReferenceDate *time.Time `json:"authorization_reference_date,omitempty"`

	Domain string   `json:"domain,omitempty"`
	Tags   []string `json:"tags,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MetadataParams carries the caller-supplied metadata fields into
// NewMetadata. Identity and timestamps are assigned by the constructor.
type MetadataParams struct {
	Identifier                 string
	OriginatorAuthorityID      id.AuthorityID
	CustodianAuthorityID       id.AuthorityID
	Format                     string
	FormatSize                 *int64
	SecurityClassification     string
	ReleasableTo               []id.NationCode
	ReleasableToOrgs           []string
	ReleasableToCategories     []string
	DisclosureCategory         string
	HandlingRestrictions       string
	HandlingAuthority          string
	NoHandlingRestrictions     bool
	AuthorizationReference     *string
	AuthorizationReferenceDate *time.Time
	Domain                     string
	Tags                       []string
}

func NewMetadata(documentID id.DocumentID, creator id.UserID, p MetadataParams, now time.Time) (*Metadata, error) {
	if documentID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "metadata requires a document")
	}
	return &Metadata{
		ID:                         id.NewMetadataID(),
		DocumentID:                 documentID,
		CreatorID:                  creator,
		Identifier:                 p.Identifier,
		OriginatorAuthorityID:      p.OriginatorAuthorityID,
		CustodianAuthorityID:       p.CustodianAuthorityID,
		Format:                     p.Format,
		FormatSize:                 p.FormatSize,
		SecurityClassification:     p.SecurityClassification,
		ReleasableTo:               p.ReleasableTo,
		ReleasableToOrgs:           p.ReleasableToOrgs,
		ReleasableToCategories:     p.ReleasableToCategories,
		DisclosureCategory:         p.DisclosureCategory,
		HandlingRestrictions:       p.HandlingRestrictions,
		HandlingAuthority:          p.HandlingAuthority,
		NoHandlingRestrictions:     p.NoHandlingRestrictions,
		AuthorizationReference:     p.AuthorizationReference,
		AuthorizationReferenceDate: p.AuthorizationReferenceDate,
		Domain:                     p.Domain,
		Tags:                       p.Tags,
		CreatedAt:                  now,
		UpdatedAt:                  now,
	}, nil
}
