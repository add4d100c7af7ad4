package expr

import "strings"

// splitOrientation strips a leading "y =" or "x =" (any case). A leading
// "x =" selects XOfY.
func splitOrientation(s string) (string, Orientation) {
	t := strings.TrimLeft(s, " ")
	if len(t) < 2 {
		return s, YOfX
	}
	c := t[0] | 0x20
	if c != 'x' && c != 'y' {
		return s, YOfX
	}
	rest := strings.TrimLeft(t[1:], " ")
	if !strings.HasPrefix(rest, "=") || strings.HasPrefix(rest, "==") {
		return s, YOfX
	}
	if c == 'x' {
		return rest[1:], XOfY
	}
	return rest[1:], YOfX
}

// splitCondition separates a trailing "{ ... }" clause from the body.
// ok is false when braces are present but malformed.
func splitCondition(s string) (body, cond string, has, ok bool) {
	open := strings.IndexByte(s, '{')
	if open < 0 {
		if strings.IndexByte(s, '}') >= 0 {
			return s, "", false, false
		}
		return s, "", false, true
	}
	tail := strings.TrimRight(s[open+1:], " ")
	if !strings.HasSuffix(tail, "}") {
		return s[:open], tail, true, false
	}
	inner := tail[:len(tail)-1]
	if strings.ContainsAny(inner, "{}") {
		return s[:open], inner, true, false
	}
	return s[:open], inner, true, true
}

// normalize applies the textual rewrites in order: exponent operator,
// ln alias, then implicit multiplication around the variables.
func normalize(s string) string {
	s = strings.ReplaceAll(s, "^", "**")
	s = strings.ReplaceAll(s, "ln(", "log(")
	return implicitMul(s)
}

func implicitMul(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 8)
	for i := 0; i < len(s); i++ {
		c := s[i]
		b.WriteByte(c)
		if i+1 >= len(s) {
			break
		}
		n := s[i+1]
		switch {
		case isDigit(c) && isVarAt(s, i+1):
			b.WriteByte('*')
		case isVarAt(s, i) && (isDigit(n) || n == '('):
			b.WriteByte('*')
		case c == ')' && (isVarAt(s, i+1) || n == '('):
			b.WriteByte('*')
		}
	}
	return b.String()
}

// isVarAt reports whether s[i] is a lone x or y rather than part of a
// longer identifier such as max or exp.
func isVarAt(s string, i int) bool {
	if s[i] != 'x' && s[i] != 'y' {
		return false
	}
	if i > 0 && isLetter(s[i-1]) {
		return false
	}
	if i+1 < len(s) && isLetter(s[i+1]) {
		return false
	}
	return true
}

func isDigit(c byte) bool  { return c >= '0' && c <= '9' }
func isLetter(c byte) bool { return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }
