// Package conversion implements the classification translation engine.
//
// Every translation routes through the five-level reference vocabulary:
// source nation text -> reference level -> each target nation's text. The
// hub-and-spoke shape is the engine's central invariant: adding a nation
// requires one schema rather than a bilateral table per nation pair.
//
// The engine is purely computational apart from schema fetches. It holds no
// mutable state and is safe for unbounded concurrent use.
package conversion

import (
	"context"
	"errors"
	"strings"
	"time"

	"crossclass/internal/schema/models"
	id "crossclass/pkg/domain"
	"crossclass/pkg/platform/sentinel"
	"crossclass/pkg/requestcontext"
)

// ToReference translates a national classification into the reference
// vocabulary. Input is trimmed and compared case-insensitively against the
// schema's five national terms in the fixed order {unclassified, restricted,
// confidential, secret, top secret}; the first match wins, which makes the
// tie-break an explicit policy should two levels ever share identical text.
func ToReference(schema *models.ClassificationSchema, sourceText string) (id.ReferenceLevel, error) {
	normalized := strings.ToUpper(strings.TrimSpace(sourceText))
	terms := schema.ToTerms()

	for i, level := range id.ReferenceLevels {
		if normalized == strings.ToUpper(terms[i]) {
			return level, nil
		}
	}

	return "", &UnknownClassificationError{
		NationCode:   schema.NationCode,
		Input:        sourceText,
		ValidOptions: terms[:],
	}
}

// FromReference translates a reference classification into the schema's
// national vocabulary. It accepts canonical literals and bare synonyms
// ("SECRET" for "NATO SECRET", "TOP SECRET" or "NATO TOP SECRET" for
// "COSMIC TOP SECRET").
func FromReference(schema *models.ClassificationSchema, referenceText string) (string, error) {
	normalized := strings.ToUpper(strings.TrimSpace(referenceText))

	level, ok := id.LookupReferenceLevel(normalized)
	if !ok {
		valid := make([]string, len(id.ReferenceLevels))
		for i, l := range id.ReferenceLevels {
			valid[i] = l.String()
		}
		return "", &UnknownReferenceLevelError{Input: referenceText, ValidOptions: valid}
	}

	term, _ := schema.FromTerm(level)
	return term, nil
}

// SchemaSource supplies latest schema rows per nation. The registry store
// satisfies it; tests use the in-memory store.
type SchemaSource interface {
	Latest(ctx context.Context, code id.NationCode) (*models.ClassificationSchema, error)
	LatestMany(ctx context.Context, codes []id.NationCode) (map[id.NationCode]*models.ClassificationSchema, error)
}

// Result is the outcome of a full conversion.
type Result struct {
	// Reference is the classification in the reference vocabulary.
	Reference id.ReferenceLevel
	// Targets maps each target nation code to its translated classification.
	Targets map[id.NationCode]string
	// ExpiresAt is the earliest expiry among the schemas used, nil when none
	// of them expire. Responses inherit it.
	ExpiresAt *time.Time
}

// Converter performs a full source-to-targets conversion. The all-or-nothing
// fan-out policy lives behind this interface so a best-effort variant could
// be swapped in without touching the request lifecycle.
type Converter interface {
	Convert(ctx context.Context, source id.NationCode, sourceText string, targets []id.NationCode) (*Result, error)
}

// Strict is the all-or-nothing Converter: a failure on any single target
// aborts the whole conversion with no partial results.
type Strict struct {
	schemas SchemaSource
}

func NewStrict(schemas SchemaSource) *Strict {
	return &Strict{schemas: schemas}
}

// Convert resolves the source schema, computes the reference level, then
// translates it for every target. Expiry is checked against the request
// clock at the moment of conversion, never at request-submission time.
func (c *Strict) Convert(ctx context.Context, source id.NationCode, sourceText string, targets []id.NationCode) (*Result, error) {
	if len(targets) == 0 {
		return nil, ErrAtLeastOneTarget
	}
	now := requestcontext.Now(ctx)

	sourceSchema, err := c.resolveValid(ctx, source, now)
	if err != nil {
		return nil, err
	}

	reference, err := ToReference(sourceSchema, sourceText)
	if err != nil {
		return nil, err
	}

	latest, err := c.schemas.LatestMany(ctx, targets)
	if err != nil {
		return nil, err
	}

	earliest := expiryTracker{}
	earliest.observe(sourceSchema.ExpiresAt)

	translated := make(map[id.NationCode]string, len(targets))
	for _, target := range targets {
		targetSchema, ok := latest[target]
		if !ok {
			return nil, &SchemaNotFoundError{NationCode: target}
		}
		if !targetSchema.ValidAt(now) {
			return nil, &SchemaExpiredError{NationCode: target, ExpiredAt: *targetSchema.ExpiresAt}
		}
		term, err := FromReference(targetSchema, reference.String())
		if err != nil {
			return nil, err
		}
		translated[target] = term
		earliest.observe(targetSchema.ExpiresAt)
	}

	return &Result{
		Reference: reference,
		Targets:   translated,
		ExpiresAt: earliest.value,
	}, nil
}

// expiryTracker keeps the earliest non-nil expiry it has observed.
type expiryTracker struct {
	value *time.Time
}

func (t *expiryTracker) observe(expiry *time.Time) {
	if expiry == nil {
		return
	}
	if t.value == nil || expiry.Before(*t.value) {
		e := *expiry
		t.value = &e
	}
}

func (c *Strict) resolveValid(ctx context.Context, code id.NationCode, now time.Time) (*models.ClassificationSchema, error) {
	schema, err := c.schemas.Latest(ctx, code)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, &SchemaNotFoundError{NationCode: code}
	}
	if err != nil {
		return nil, err
	}
	if !schema.ValidAt(now) {
		return nil, &SchemaExpiredError{NationCode: code, ExpiredAt: *schema.ExpiresAt}
	}
	return schema, nil
}
