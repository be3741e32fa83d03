package provider

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
)

// ExampleHostToken is the canonical composite host token quoted in every
// parameter error so operators can fix the path segment themselves.
const ExampleHostToken = "nemo.example.org my-mission jdoe s3cret"

// ParamErrorKind classifies a ParameterError.
type ParamErrorKind int

const (
	// MissingParam means a required slot of the host token (or the form id) is empty.
	MissingParam ParamErrorKind = iota + 1
	// ExcessParam means the host token carries more than four sub-tokens.
	ExcessParam
)

func (k ParamErrorKind) String() string {
	switch k {
	case MissingParam:
		return "missing parameter"
	case ExcessParam:
		return "excess parameters"
	default:
		return "unknown"
	}
}

// ParameterError reports a malformed request before any network activity.
// It is never retryable.
type ParameterError struct {
	Kind  ParamErrorKind
	Field string   // set for MissingParam
	Extra []string // set for ExcessParam
}

func (e *ParameterError) Error() string {
	var what string
	if e.Kind == ExcessParam {
		what = fmt.Sprintf("unexpected extra values %q", strings.Join(e.Extra, " "))
	} else {
		what = fmt.Sprintf("%s is required", e.Field)
	}
	return fmt.Sprintf("nemo: %s; the host segment must be \"host mission username password\", e.g. %q",
		what, ExampleHostToken)
}

// TransformError reports a record whose geometry field could not be turned
// into a point. The whole call fails; no partial collection is returned.
type TransformError struct {
	Index int
	Field string
	Err   error
}

func (e *TransformError) Error() string {
	return fmt.Sprintf("nemo: record %d field %q: %v", e.Index, e.Field, e.Err)
}

func (e *TransformError) Unwrap() error {
	return e.Err
}

// ErrDelivery replaces any failure raised while handing a result to the
// caller's callback. It deliberately carries no detail.
var ErrDelivery = eris.New("nemo: result delivery failed")
