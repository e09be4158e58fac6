package gemini

import "retrocodex_backend/internal/games/domain"

// OutcomeKind distinguishes the internal result of a search call. The
// external contract folds every failure into an empty result set, but the
// distinct kinds stay observable for logging and tests.
type OutcomeKind int

const (
	// OutcomeOK means the model returned a parsable in-domain result set
	// (possibly empty).
	OutcomeOK OutcomeKind = iota
	// OutcomeOutOfDomain means the query targeted a modern platform or
	// title outside the classic window. A successful outcome, not an error.
	OutcomeOutOfDomain
	// OutcomeTransportError means the call to the model failed.
	OutcomeTransportError
	// OutcomeSchemaError means the model's text could not be parsed into
	// the expected shape.
	OutcomeSchemaError
)

// String returns the outcome kind for structured logs.
func (k OutcomeKind) String() string {
	switch k {
	case OutcomeOK:
		return "ok"
	case OutcomeOutOfDomain:
		return "out_of_domain"
	case OutcomeTransportError:
		return "transport_error"
	case OutcomeSchemaError:
		return "schema_error"
	default:
		return "unknown"
	}
}

// Outcome is the tagged result of a generative search call.
type Outcome struct {
	Kind    OutcomeKind
	Results []domain.SearchResult
	Err     error
}

// Failed reports whether the outcome is a transport or schema failure.
func (o Outcome) Failed() bool {
	return o.Kind == OutcomeTransportError || o.Kind == OutcomeSchemaError
}
