// Package expr compiles the equation language typed by players into
// evaluable functions.
//
// An equation is an arithmetic expression in x and y over a closed
// whitelist of functions and constants, optionally prefixed with "y =" or
// "x =" and optionally followed by a domain condition in braces:
//
//	y = 2x^2 - 3
//	x = sin(y) { y > 0 && y < PI }
//
// Text is normalized first (^ becomes the exponent operator, ln becomes log,
// implicit multiplication is made explicit around x and y), then validated
// against the allowed characters and identifiers, then parsed by a
// recursive-descent parser into a typed tree evaluated by a small
// interpreter. Nothing outside the whitelist is reachable from an
// expression.
//
// Derivatives are numerical: a central difference with step [DerivativeStep].
//
// # Errors
//
// [Compile] returns an [*Error] whose kind is one of [ErrInvalidExpression],
// [ErrUnknownIdentifier] or [ErrCompileFailure]; failures inside the
// condition clause additionally match [ErrInvalidCondition]:
//
//	_, err := expr.Compile("y = foo(x)")
//	errors.Is(err, expr.ErrUnknownIdentifier) // true
package expr
