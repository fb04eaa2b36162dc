package conversion

import (
	"errors"
	"fmt"
	"strings"
	"time"

	id "crossclass/pkg/domain"
)

// ErrAtLeastOneTarget rejects conversion requests with an empty target list.
var ErrAtLeastOneTarget = errors.New("at least one target nation is required")

// SchemaNotFoundError reports a nation with no registered schema at all.
type SchemaNotFoundError struct {
	NationCode id.NationCode
}

func (e *SchemaNotFoundError) Error() string {
	return fmt.Sprintf("no classification schema registered for nation %s", e.NationCode)
}

// SchemaExpiredError reports a nation whose latest schema failed its validity
// check. There is no fallback to older versions.
type SchemaExpiredError struct {
	NationCode id.NationCode
	ExpiredAt  time.Time
}

func (e *SchemaExpiredError) Error() string {
	return fmt.Sprintf("classification schema for nation %s expired at %s",
		e.NationCode, e.ExpiredAt.Format(time.RFC3339))
}

// UnknownClassificationError reports source text that matched none of a
// schema's five national terms. ValidOptions enumerates the schema's actual
// terms so a human operator can correct the input and resubmit.
type UnknownClassificationError struct {
	NationCode   id.NationCode
	Input        string
	ValidOptions []string
}

func (e *UnknownClassificationError) Error() string {
	return fmt.Sprintf("unknown classification %q for nation %s; valid classifications: %s",
		e.Input, e.NationCode, strings.Join(e.ValidOptions, ", "))
}

// UnknownReferenceLevelError reports reference text that matched neither a
// canonical literal nor an accepted synonym.
type UnknownReferenceLevelError struct {
	Input        string
	ValidOptions []string
}

func (e *UnknownReferenceLevelError) Error() string {
	return fmt.Sprintf("unknown reference classification %q; valid levels: %s",
		e.Input, strings.Join(e.ValidOptions, ", "))
}
