package expr

import (
	"fmt"
	"math"
	"strings"
)

type valueKind int

const (
	kindNumber valueKind = iota
	kindBool
)

func (k valueKind) String() string {
	if k == kindBool {
		return "boolean"
	}
	return "number"
}

// env binds the two variables. Booleans evaluate to 1 or 0.
type env struct {
	x, y float64
}

type node interface {
	eval(e *env) float64
	kind() valueKind
	String() string
}

type numberNode struct{ v float64 }

func (n numberNode) eval(*env) float64 { return n.v }
func (n numberNode) kind() valueKind   { return kindNumber }
func (n numberNode) String() string    { return fmt.Sprintf("%g", n.v) }

type varNode struct{ name byte }

func (n varNode) eval(e *env) float64 {
	if n.name == 'x' {
		return e.x
	}
	return e.y
}
func (n varNode) kind() valueKind { return kindNumber }
func (n varNode) String() string  { return string(n.name) }

type unaryNode struct {
	op string
	x  node
}

func (n unaryNode) eval(e *env) float64 {
	v := n.x.eval(e)
	switch n.op {
	case "-":
		return -v
	case "!":
		return boolValue(v == 0)
	}
	return v
}

func (n unaryNode) kind() valueKind {
	if n.op == "!" {
		return kindBool
	}
	return kindNumber
}

func (n unaryNode) String() string { return "(" + n.op + n.x.String() + ")" }

type binaryNode struct {
	op   string
	l, r node
}

func (n binaryNode) eval(e *env) float64 {
	switch n.op {
	case "&&":
		if n.l.eval(e) == 0 {
			return 0
		}
		return boolValue(n.r.eval(e) != 0)
	case "||":
		if n.l.eval(e) != 0 {
			return 1
		}
		return boolValue(n.r.eval(e) != 0)
	}

	a, b := n.l.eval(e), n.r.eval(e)
	switch n.op {
	case "+":
		return a + b
	case "-":
		return a - b
	case "*":
		return a * b
	case "/":
		return a / b
	case "**":
		return math.Pow(a, b)
	case "<":
		return boolValue(a < b)
	case ">":
		return boolValue(a > b)
	case "<=":
		return boolValue(a <= b)
	case ">=":
		return boolValue(a >= b)
	case "==":
		return boolValue(a == b)
	case "!=":
		return boolValue(a != b)
	}
	return math.NaN()
}

func (n binaryNode) kind() valueKind {
	switch n.op {
	case "+", "-", "*", "/", "**":
		return kindNumber
	}
	return kindBool
}

func (n binaryNode) String() string {
	return "(" + n.l.String() + " " + n.op + " " + n.r.String() + ")"
}

type callNode struct {
	fn   *builtin
	args []node
}

func (n callNode) eval(e *env) float64 {
	switch {
	case n.fn.fn1 != nil:
		return n.fn.fn1(n.args[0].eval(e))
	case n.fn.fn2 != nil:
		return n.fn.fn2(n.args[0].eval(e), n.args[1].eval(e))
	}
	var buf [8]float64
	vals := buf[:0]
	for _, a := range n.args {
		vals = append(vals, a.eval(e))
	}
	return n.fn.fnN(vals)
}

func (n callNode) kind() valueKind { return kindNumber }

func (n callNode) String() string {
	parts := make([]string, len(n.args))
	for i, a := range n.args {
		parts[i] = a.String()
	}
	return n.fn.name + "(" + strings.Join(parts, ", ") + ")"
}

func boolValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// usesVar reports whether the tree reads the named variable.
func usesVar(n node, name byte) bool {
	switch t := n.(type) {
	case varNode:
		return t.name == name
	case unaryNode:
		return usesVar(t.x, name)
	case binaryNode:
		return usesVar(t.l, name) || usesVar(t.r, name)
	case callNode:
		for _, a := range t.args {
			if usesVar(a, name) {
				return true
			}
		}
	}
	return false
}
