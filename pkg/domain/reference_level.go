package domain

// ReferenceLevel is one of the five canonical NATO classification levels used
// as the hub vocabulary for cross-nation conversion. Every national
// classification is translated into a ReferenceLevel and back out again, so
// adding a nation requires one schema rather than bilateral mapping tables.
//
// The literals are fixed and independent of any schema. Top secret
// deliberately uses "COSMIC TOP SECRET" rather than "NATO TOP SECRET".
type ReferenceLevel string

const (
	ReferenceUnclassified ReferenceLevel = "NATO UNCLASSIFIED"
	ReferenceRestricted   ReferenceLevel = "NATO RESTRICTED"
	ReferenceConfidential ReferenceLevel = "NATO CONFIDENTIAL"
	ReferenceSecret       ReferenceLevel = "NATO SECRET"
	ReferenceTopSecret    ReferenceLevel = "COSMIC TOP SECRET"
)

// ReferenceLevels lists the five levels in ascending order of sensitivity.
// The slice order is load-bearing: the conversion engine evaluates national
// mappings in this sequence and the first match wins.
var ReferenceLevels = []ReferenceLevel{
	ReferenceUnclassified,
	ReferenceRestricted,
	ReferenceConfidential,
	ReferenceSecret,
	ReferenceTopSecret,
}

// referenceSynonyms maps accepted spellings (already uppercased) to levels.
// Bare classification words are accepted alongside the canonical literals so
// callers can pass "SECRET" where "NATO SECRET" is meant.
var referenceSynonyms = map[string]ReferenceLevel{
	"NATO UNCLASSIFIED": ReferenceUnclassified,
	"UNCLASSIFIED":      ReferenceUnclassified,
	"NATO RESTRICTED":   ReferenceRestricted,
	"RESTRICTED":        ReferenceRestricted,
	"NATO CONFIDENTIAL": ReferenceConfidential,
	"CONFIDENTIAL":      ReferenceConfidential,
	"NATO SECRET":       ReferenceSecret,
	"SECRET":            ReferenceSecret,
	"COSMIC TOP SECRET": ReferenceTopSecret,
	"TOP SECRET":        ReferenceTopSecret,
	"NATO TOP SECRET":   ReferenceTopSecret,
}

// LookupReferenceLevel resolves an uppercased, trimmed input to a level.
// The second return reports whether the input was recognized.
func LookupReferenceLevel(upper string) (ReferenceLevel, bool) {
	level, ok := referenceSynonyms[upper]
	return level, ok
}

func (l ReferenceLevel) String() string {
	return string(l)
}

// IsValid reports whether l is one of the five canonical levels.
func (l ReferenceLevel) IsValid() bool {
	switch l {
	case ReferenceUnclassified, ReferenceRestricted, ReferenceConfidential, ReferenceSecret, ReferenceTopSecret:
		return true
	}
	return false
}
