package handler

import (
	"time"

	"crossclass/internal/schema/models"
	id "crossclass/pkg/domain"
)

// registerVersionRequest is the HTTP request for POST /schemas.
type registerVersionRequest struct {
	NationCode  string         `json:"nation_code"`
	AuthorityID id.AuthorityID `json:"authority_id"`
	Version     string         `json:"version"`
	Caveats     string         `json:"caveats"`
	ExpiresAt   *time.Time     `json:"expires_at,omitempty"`

	ToUnclassified string `json:"to_nato_unclassified"`
	ToRestricted   string `json:"to_nato_restricted"`
	ToConfidential string `json:"to_nato_confidential"`
	ToSecret       string `json:"to_nato_secret"`
	ToTopSecret    string `json:"to_nato_top_secret"`

	FromUnclassified string `json:"from_nato_unclassified"`
	FromRestricted   string `json:"from_nato_restricted"`
	FromConfidential string `json:"from_nato_confidential"`
	FromSecret       string `json:"from_nato_secret"`
	FromTopSecret    string `json:"from_nato_top_secret"`
}

func (r registerVersionRequest) toMappings() models.Mappings {
	return models.Mappings{
		ToUnclassified:   r.ToUnclassified,
		ToRestricted:     r.ToRestricted,
		ToConfidential:   r.ToConfidential,
		ToSecret:         r.ToSecret,
		ToTopSecret:      r.ToTopSecret,
		FromUnclassified: r.FromUnclassified,
		FromRestricted:   r.FromRestricted,
		FromConfidential: r.FromConfidential,
		FromSecret:       r.FromSecret,
		FromTopSecret:    r.FromTopSecret,
	}
}
