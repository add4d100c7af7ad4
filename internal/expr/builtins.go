package expr

import "math"

type builtin struct {
	name    string
	minArgs int
	maxArgs int // -1 for variadic
	fn1     func(float64) float64
	fn2     func(a, b float64) float64
	fnN     func(args []float64) float64
}

// builtins is the closed set of callable functions.
var builtins = map[string]*builtin{
	"sin":   {name: "sin", minArgs: 1, maxArgs: 1, fn1: math.Sin},
	"cos":   {name: "cos", minArgs: 1, maxArgs: 1, fn1: math.Cos},
	"tan":   {name: "tan", minArgs: 1, maxArgs: 1, fn1: math.Tan},
	"asin":  {name: "asin", minArgs: 1, maxArgs: 1, fn1: math.Asin},
	"acos":  {name: "acos", minArgs: 1, maxArgs: 1, fn1: math.Acos},
	"atan":  {name: "atan", minArgs: 1, maxArgs: 1, fn1: math.Atan},
	"atan2": {name: "atan2", minArgs: 2, maxArgs: 2, fn2: math.Atan2},
	"abs":   {name: "abs", minArgs: 1, maxArgs: 1, fn1: math.Abs},
	"sqrt":  {name: "sqrt", minArgs: 1, maxArgs: 1, fn1: math.Sqrt},
	"pow":   {name: "pow", minArgs: 2, maxArgs: 2, fn2: math.Pow},
	"log":   {name: "log", minArgs: 1, maxArgs: 1, fn1: math.Log},
	"exp":   {name: "exp", minArgs: 1, maxArgs: 1, fn1: math.Exp},
	"min":   {name: "min", minArgs: 1, maxArgs: -1, fnN: minOf},
	"max":   {name: "max", minArgs: 1, maxArgs: -1, fnN: maxOf},
	"floor": {name: "floor", minArgs: 1, maxArgs: 1, fn1: math.Floor},
	"ceil":  {name: "ceil", minArgs: 1, maxArgs: 1, fn1: math.Ceil},
	"round": {name: "round", minArgs: 1, maxArgs: 1, fn1: roundHalfUp},
	"sign":  {name: "sign", minArgs: 1, maxArgs: 1, fn1: sign},
}

var constants = map[string]float64{
	"PI": math.Pi,
	"E":  math.E,
}

func allowedIdent(name string) bool {
	if name == "x" || name == "y" {
		return true
	}
	if _, ok := constants[name]; ok {
		return true
	}
	_, ok := builtins[name]
	return ok
}

// Identifiers returns the whitelisted names: variables, constants, then
// functions.
func Identifiers() []string {
	return []string{
		"x", "y", "PI", "E",
		"sin", "cos", "tan", "asin", "acos", "atan", "atan2", "abs", "sqrt",
		"pow", "log", "exp", "min", "max", "floor", "ceil", "round", "sign",
	}
}

func minOf(args []float64) float64 {
	m := args[0]
	for _, v := range args[1:] {
		m = math.Min(m, v)
	}
	return m
}

func maxOf(args []float64) float64 {
	m := args[0]
	for _, v := range args[1:] {
		m = math.Max(m, v)
	}
	return m
}

// roundHalfUp rounds .5 toward positive infinity.
func roundHalfUp(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return math.Floor(v + 0.5)
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return v // 0, -0 and NaN pass through
	}
}
