package expr

import (
	"errors"
	"fmt"
)

// Failure kinds reported by Compile.
var (
	// ErrInvalidExpression indicates a character outside the allowed set.
	ErrInvalidExpression = errors.New("expr: invalid expression")

	// ErrUnknownIdentifier indicates a named token that is not whitelisted.
	ErrUnknownIdentifier = errors.New("expr: unknown identifier")

	// ErrCompileFailure indicates text that passed validation but does not
	// form a well-typed expression.
	ErrCompileFailure = errors.New("expr: compile failure")

	// ErrInvalidCondition indicates the trailing { condition } clause failed
	// one of the checks above.
	ErrInvalidCondition = errors.New("expr: invalid condition")
)

// Error carries the kind, the offending token and its byte offset within the
// normalized text it was found in. Err, when set, is a more specific cause
// that errors.Is also matches.
type Error struct {
	Kind      error
	Token     string
	Pos       int
	Msg       string
	Condition bool
	Err       error
}

func (e *Error) Error() string {
	if e.Condition {
		return "invalid condition: " + e.Msg
	}
	return e.Msg
}

func (e *Error) Unwrap() []error {
	errs := []error{e.Kind}
	if e.Condition {
		errs = []error{ErrInvalidCondition, e.Kind}
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// Tag names the failure kind for display.
func (e *Error) Tag() string {
	if e.Condition {
		return "InvalidCondition"
	}
	switch e.Kind {
	case ErrInvalidExpression:
		return "InvalidExpression"
	case ErrUnknownIdentifier:
		return "UnknownIdentifier"
	default:
		return "CompileFailure"
	}
}

func newError(kind error, tok string, pos int, format string, args ...any) *Error {
	return &Error{Kind: kind, Token: tok, Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

func asCondition(err error) error {
	var e *Error
	if errors.As(err, &e) {
		c := *e
		c.Condition = true
		return &c
	}
	return &Error{Kind: ErrCompileFailure, Msg: err.Error(), Condition: true}
}
