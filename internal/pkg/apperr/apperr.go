package apperr

import (
	"errors"
	"fmt"
)

// Kind discriminates failure classes so callers can branch on errors.As
// instead of string matching.
type Kind string

const (
	KindConfiguration            Kind = "configuration"
	KindNotFound                 Kind = "not_found"
	KindInsufficientParticipants Kind = "insufficient_participants"
	KindDataAccess               Kind = "data_access"
	KindEmbedding                Kind = "embedding"
	KindCompletion               Kind = "completion"
	KindInvalidState             Kind = "invalid_state"
)

type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Kind, e.Op)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// E wraps err with a kind and an operation description. Op should carry the
// identifiers needed to diagnose without retrying (round id, activity id, stage).
func E(kind Kind, op string, err error) error {
	return &Error{Kind: kind, Op: op, Err: err}
}

func Errorf(kind Kind, format string, args ...interface{}) error {
	return &Error{Kind: kind, Op: fmt.Sprintf(format, args...)}
}

// KindOf reports the kind of the outermost *Error in err's chain, or "" when
// err carries no kind.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
