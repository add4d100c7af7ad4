package expr

import (
	"math"
	"strings"
)

// DerivativeStep is the central-difference step used by Derivative.
const DerivativeStep = 1e-4

// Orientation says which axis the equation is a function of.
type Orientation int

const (
	// YOfX is y = f(x).
	YOfX Orientation = iota
	// XOfY is x = f(y).
	XOfY
)

func (o Orientation) String() string {
	if o == XOfY {
		return "x(y)"
	}
	return "y(x)"
}

// Variable returns the name of the input variable.
func (o Orientation) Variable() string {
	if o == XOfY {
		return "y"
	}
	return "x"
}

// Equation is a validated, compiled equation. It is immutable and safe to
// share.
type Equation struct {
	Source      string
	Body        string
	Cond        string
	Orientation Orientation

	root node
	cond node
}

// Compile normalizes, validates and parses src. Failures are *Error values
// matching one of ErrInvalidExpression, ErrUnknownIdentifier or
// ErrCompileFailure, additionally ErrInvalidCondition when the condition
// clause is at fault.
func Compile(src string) (*Equation, error) {
	text, orient := splitOrientation(src)

	body, cond, hasCond, ok := splitCondition(text)
	if !ok {
		return nil, &Error{Kind: ErrCompileFailure, Token: "{", Msg: "condition must be a single trailing { ... } clause", Condition: true}
	}

	eq := &Equation{Source: src, Orientation: orient}

	root, normBody, err := compilePart(body, false)
	if err != nil {
		return nil, err
	}
	other := byte('y')
	if orient == XOfY {
		other = 'x'
	}
	if usesVar(root, other) {
		return nil, newError(ErrCompileFailure, string(other), strings.IndexByte(normBody, other),
			"%s = f(%s) cannot reference %s", string(other), orient.Variable(), string(other))
	}
	eq.root, eq.Body = root, normBody

	if hasCond {
		c, normCond, err := compilePart(cond, true)
		if err != nil {
			return nil, asCondition(err)
		}
		if c.kind() != kindBool {
			return nil, &Error{Kind: ErrCompileFailure, Token: normCond, Msg: "condition must evaluate to a boolean", Condition: true}
		}
		eq.cond, eq.Cond = c, normCond
	}
	return eq, nil
}

func compilePart(raw string, cond bool) (node, string, error) {
	norm := strings.TrimSpace(normalize(raw))
	if err := checkChars(norm, cond); err != nil {
		return nil, norm, err
	}
	toks, err := tokenize(norm, cond)
	if err != nil {
		return nil, norm, err
	}
	if len(toks) == 1 {
		return nil, norm, newError(ErrCompileFailure, "", 0, "empty expression")
	}
	n, err := parse(toks)
	if err != nil {
		return nil, norm, err
	}
	return n, norm, nil
}

// Eval evaluates the equation at t, the value of the input variable.
// Results follow float64 arithmetic: 1/0 is +Inf, sqrt(-1) is NaN.
func (e *Equation) Eval(t float64) float64 {
	var en env
	if e.Orientation == XOfY {
		en.y = t
	} else {
		en.x = t
	}
	return e.root.eval(&en)
}

// Derivative returns the central-difference derivative at t.
func (e *Equation) Derivative(t float64) float64 {
	h := DerivativeStep
	return (e.Eval(t+h) - e.Eval(t-h)) / (2 * h)
}

// HasCondition reports whether a { condition } clause was supplied.
func (e *Equation) HasCondition() bool { return e.cond != nil }

// Condition evaluates the domain predicate at (x, y). Without a condition it
// is always true. Evaluation failures yield false.
func (e *Equation) Condition(x, y float64) (ok bool) {
	if e.cond == nil {
		return true
	}
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	v := e.cond.eval(&env{x: x, y: y})
	if math.IsNaN(v) {
		return false
	}
	return v != 0
}

// Predicate returns Condition as a function value, or nil when the
// equation has no condition.
func (e *Equation) Predicate() func(x, y float64) bool {
	if e.cond == nil {
		return nil
	}
	return e.Condition
}

// Point maps an input value and its result to world (x, y).
func (e *Equation) Point(t, v float64) (x, y float64) {
	if e.Orientation == XOfY {
		return v, t
	}
	return t, v
}

// String returns the normalized equation as the parser saw it.
func (e *Equation) String() string {
	var b strings.Builder
	if e.Orientation == XOfY {
		b.WriteString("x = ")
	} else {
		b.WriteString("y = ")
	}
	b.WriteString(e.Body)
	if e.cond != nil {
		b.WriteString(" { ")
		b.WriteString(e.Cond)
		b.WriteString(" }")
	}
	return b.String()
}

// Tree returns the fully parenthesised parse tree, useful for debugging
// precedence.
func (e *Equation) Tree() string {
	return e.root.String()
}
