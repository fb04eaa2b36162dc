package handler

import (
	"time"

	"crossclass/internal/request/service"
	id "crossclass/pkg/domain"
)

// submitRequest is the HTTP request for POST /requests.
type submitRequest struct {
	AuthorityID          id.AuthorityID `json:"authority_id"`
	SourceNationCode     string         `json:"source_nation_code"`
	SourceClassification string         `json:"source_classification"`
	TargetNationCodes    []string       `json:"target_nation_codes"`

	Document struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	} `json:"document"`

	Metadata struct {
		Identifier                 string         `json:"identifier"`
		OriginatorAuthorityID      id.AuthorityID `json:"originator_authority_id"`
		CustodianAuthorityID       id.AuthorityID `json:"custodian_authority_id"`
		Format                     string         `json:"format"`
		FormatSize                 *int64         `json:"format_size,omitempty"`
		ReleasableTo               []string       `json:"releasable_to"`
		ReleasableToOrgs           []string       `json:"releasable_to_organizations,omitempty"`
		ReleasableToCategories     []string       `json:"releasable_to_categories,omitempty"`
		DisclosureCategory         string         `json:"disclosure_category,omitempty"`
		HandlingRestrictions       string         `json:"handling_restrictions,omitempty"`
		HandlingAuthority          string         `json:"handling_authority,omitempty"`
		NoHandlingRestrictions     bool           `json:"no_handling_restrictions,omitempty"`
		AuthorizationReference     *string        `json:"authorization_reference,omitempty"`
		AuthorizationReferenceDate *time.Time     `json:"authorization_reference_date,omitempty"`
		Domain                     string         `json:"domain,omitempty"`
		Tags                       []string       `json:"tags,omitempty"`
	} `json:"metadata"`
}

func (r submitRequest) toInput() service.SubmitInput {
	return service.SubmitInput{
		AuthorityID:                r.AuthorityID,
		SourceNationCode:           r.SourceNationCode,
		SourceClassification:       r.SourceClassification,
		TargetNationCodes:          r.TargetNationCodes,
		DocumentTitle:              r.Document.Title,
		DocumentDescription:        r.Document.Description,
		Identifier:                 r.Metadata.Identifier,
		OriginatorAuthorityID:      r.Metadata.OriginatorAuthorityID,
		CustodianAuthorityID:       r.Metadata.CustodianAuthorityID,
		Format:                     r.Metadata.Format,
		FormatSize:                 r.Metadata.FormatSize,
		ReleasableTo:               r.Metadata.ReleasableTo,
		ReleasableToOrgs:           r.Metadata.ReleasableToOrgs,
		ReleasableToCategories:     r.Metadata.ReleasableToCategories,
		DisclosureCategory:         r.Metadata.DisclosureCategory,
		HandlingRestrictions:       r.Metadata.HandlingRestrictions,
		HandlingAuthority:          r.Metadata.HandlingAuthority,
		NoHandlingRestrictions:     r.Metadata.NoHandlingRestrictions,
		AuthorizationReference:     r.Metadata.AuthorizationReference,
		AuthorizationReferenceDate: r.Metadata.AuthorizationReferenceDate,
		Domain:                     r.Metadata.Domain,
		Tags:                       r.Metadata.Tags,
	}
}
