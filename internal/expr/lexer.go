package expr

import (
	"strconv"
	"strings"
)

type tokenType int

const (
	tokEOF tokenType = iota
	tokNumber
	tokIdent
	tokOp
	tokLParen
	tokRParen
	tokComma
)

type token struct {
	typ tokenType
	val string
	num float64
	pos int
}

const (
	bodyChars      = "0123456789+-*/^()., "
	conditionChars = "<>=!&|"
)

// checkChars rejects the first byte outside the allowed set.
func checkChars(s string, cond bool) error {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isLetter(c) || strings.IndexByte(bodyChars, c) >= 0 {
			continue
		}
		if cond && strings.IndexByte(conditionChars, c) >= 0 {
			continue
		}
		end := i + 1
		for end < len(s) && s[end] >= 0x80 && s[end] < 0xC0 {
			end++
		}
		return newError(ErrInvalidExpression, s[i:end], i, "character %q is not allowed", s[i:end])
	}
	return nil
}

// tokenize splits normalized text into tokens and rejects identifiers that
// are not whitelisted. cond enables the comparison and logical operators.
func tokenize(s string, cond bool) ([]token, error) {
	toks := make([]token, 0, len(s)/2+1)
	i := 0
	for i < len(s) {
		c := s[i]
		switch {
		case c == ' ':
			i++
		case isDigit(c) || (c == '.' && i+1 < len(s) && isDigit(s[i+1])):
			start := i
			i = scanNumber(s, i)
			v, err := strconv.ParseFloat(s[start:i], 64)
			if err != nil {
				return nil, newError(ErrCompileFailure, s[start:i], start, "malformed number %q", s[start:i])
			}
			toks = append(toks, token{typ: tokNumber, val: s[start:i], num: v, pos: start})
		case isLetter(c):
			start := i
			for i < len(s) && (isLetter(s[i]) || isDigit(s[i])) {
				i++
			}
			name := s[start:i]
			if !allowedIdent(name) {
				return nil, newError(ErrUnknownIdentifier, name, start, "unknown identifier %q", name)
			}
			toks = append(toks, token{typ: tokIdent, val: name, pos: start})
		case c == '(':
			toks = append(toks, token{typ: tokLParen, val: "(", pos: i})
			i++
		case c == ')':
			toks = append(toks, token{typ: tokRParen, val: ")", pos: i})
			i++
		case c == ',':
			toks = append(toks, token{typ: tokComma, val: ",", pos: i})
			i++
		default:
			op := scanOp(s[i:], cond)
			if op == "" {
				return nil, newError(ErrCompileFailure, string(c), i, "unexpected %q", string(c))
			}
			toks = append(toks, token{typ: tokOp, val: op, pos: i})
			i += len(op)
		}
	}
	toks = append(toks, token{typ: tokEOF, pos: len(s)})
	return toks, nil
}

func scanNumber(s string, i int) int {
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && isDigit(s[i]) {
			i++
		}
	}
	// exponent only when digits follow, so "2E" stays a number and a constant
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		if j < len(s) && isDigit(s[j]) {
			for j < len(s) && isDigit(s[j]) {
				j++
			}
			i = j
		}
	}
	return i
}

var (
	arithOps = []string{"**", "+", "-", "*", "/"}
	logicOps = []string{"<=", ">=", "==", "!=", "&&", "||", "<", ">", "!"}
)

func scanOp(s string, cond bool) string {
	if cond {
		for _, op := range logicOps {
			if strings.HasPrefix(s, op) {
				return op
			}
		}
	}
	for _, op := range arithOps {
		if strings.HasPrefix(s, op) {
			return op
		}
	}
	return ""
}
