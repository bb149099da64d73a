package service

import (
	"errors"
	"fmt"
)

// PublicMessage is the only failure text callers ever see.
const PublicMessage = "Couldn't process request. Please try again."

// Kind classifies a pipeline failure.
type Kind string

const (
	KindUpstreamFailure  Kind = "upstream_failure"
	KindNoSQLGenerated   Kind = "no_sql_generated"
	KindExecutionFailure Kind = "execution_failure"
	KindInvalidRequest   Kind = "invalid_request"
)

// Stage names the pipeline step an Error came from.
type Stage string

const (
	StageValidate   Stage = "validate"
	StageIntrospect Stage = "introspect"
	StageComplete   Stage = "complete"
	StageExtract    Stage = "extract"
	StageExecute    Stage = "execute"
)

// ErrNoSQL is the cause of a KindNoSQLGenerated error.
var ErrNoSQL = errors.New("completion text contains no SELECT")

// Error is a classified pipeline failure.
type Error struct {
	Kind  Kind
	Stage Stage
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s at %s: %v", e.Kind, e.Stage, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func fail(kind Kind, stage Stage, err error) *Error {
	return &Error{Kind: kind, Stage: stage, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain, or
// KindUpstreamFailure for unclassified errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUpstreamFailure
}
