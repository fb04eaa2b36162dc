package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"crossclass/pkg/domain"
)

func TestReferenceLevelsOrder(t *testing.T) {
	// The evaluation order of national mappings follows this slice exactly.
	assert.Equal(t, []domain.ReferenceLevel{
		domain.ReferenceUnclassified,
		domain.ReferenceRestricted,
		domain.ReferenceConfidential,
		domain.ReferenceSecret,
		domain.ReferenceTopSecret,
	}, domain.ReferenceLevels)
}

func TestLookupReferenceLevel(t *testing.T) {
	cases := map[string]domain.ReferenceLevel{
		"NATO UNCLASSIFIED": domain.ReferenceUnclassified,
		"UNCLASSIFIED":      domain.ReferenceUnclassified,
		"NATO SECRET":       domain.ReferenceSecret,
		"SECRET":            domain.ReferenceSecret,
		"COSMIC TOP SECRET": domain.ReferenceTopSecret,
		"TOP SECRET":        domain.ReferenceTopSecret,
		"NATO TOP SECRET":   domain.ReferenceTopSecret,
	}
	for input, want := range cases {
		level, ok := domain.LookupReferenceLevel(input)
		assert.True(t, ok, "input %q", input)
		assert.Equal(t, want, level)
	}

	_, ok := domain.LookupReferenceLevel("ATOMAL")
	assert.False(t, ok)
}

func TestTopSecretLiteral(t *testing.T) {
	// COSMIC, not "NATO TOP SECRET": the canonical label for the top level
	// diverges from the pattern of the other four.
	assert.Equal(t, "COSMIC TOP SECRET", domain.ReferenceTopSecret.String())
	assert.True(t, domain.ReferenceTopSecret.IsValid())
	assert.False(t, domain.ReferenceLevel("NATO TOP SECRET").IsValid())
}
