package annogo

import (
	"errors"
	"fmt"

	"github.com/hupe1980/annogo/typesystem"
)

// Sentinel errors for the two failure categories of a select: configuration
// errors surface when the builder state is contradictory or malformed, match
// errors surface from terminal operations that require a result.
var (
	// ErrConfiguration wraps every builder misconfiguration.
	ErrConfiguration = errors.New("invalid select configuration")

	// ErrInvalidLimit reports a negative limit.
	ErrInvalidLimit = errors.New("limit must be >= 0")

	// ErrSourceConflict reports an alternate record source combined with
	// options that only apply to index-backed selects (index, bounds,
	// positioning, all-views).
	ErrSourceConflict = errors.New("alternate source cannot be combined with index-backed options")
)

// InvalidSpanError reports a constructed span with begin > end.
type InvalidSpanError struct {
	Begin, End int
}

func (e *InvalidSpanError) Error() string {
	return fmt.Sprintf("invalid span: begin %d > end %d", e.Begin, e.End)
}

// AnnotationIndexRequiredError reports an option that mandates an
// interval-capable index applied to an index that is not one.
type AnnotationIndexRequiredError struct {
	Index string
}

func (e *AnnotationIndexRequiredError) Error() string {
	return fmt.Sprintf("index %q is not an annotation index but an annotation-index operation was requested", e.Index)
}

// NoMatchError reports an empty result from a terminal operation that
// requires one, with nil-tolerance disabled.
type NoMatchError struct {
	Type     *typesystem.Type
	Position string
}

func (e *NoMatchError) Error() string {
	if e.Position != "" {
		return fmt.Sprintf("select of %s matched no record %s", e.Type, e.Position)
	}
	return fmt.Sprintf("select of %s matched no record", e.Type)
}

// TooManyError reports more than one match from a terminal operation that
// requires uniqueness.
type TooManyError struct {
	Type     *typesystem.Type
	Position string
}

func (e *TooManyError) Error() string {
	if e.Position != "" {
		return fmt.Sprintf("select of %s matched more than one record %s", e.Type, e.Position)
	}
	return fmt.Sprintf("select of %s matched more than one record", e.Type)
}

// configErr tags err as a configuration error so callers can test with
// errors.Is(err, ErrConfiguration) and still reach the concrete type via
// errors.As.
func configErr(err error) error {
	return fmt.Errorf("%w: %w", ErrConfiguration, err)
}
