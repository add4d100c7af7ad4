package expr

// parser is a recursive-descent parser over the token slice. Each level
// checks operand kinds so a tree that builds is also well typed.
//
//	or      = and { "||" and }
//	and     = equality { "&&" equality }
//	equality= relation { ("==" | "!=") relation }
//	relation= additive { ("<" | ">" | "<=" | ">=") additive }
//	additive= term { ("+" | "-") term }
//	term    = unary { ("*" | "/") unary }
//	unary   = ("-" | "+" | "!") unary | power
//	power   = primary [ "**" unary ]
//	primary = number | constant | variable | call | "(" or ")"
type parser struct {
	toks []token
	pos  int
}

func parse(toks []token) (node, error) {
	p := &parser{toks: toks}
	n, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.typ != tokEOF {
		return nil, newError(ErrCompileFailure, tok.val, tok.pos, "unexpected %q", tok.val)
	}
	return n, nil
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) next() token {
	tok := p.toks[p.pos]
	if tok.typ != tokEOF {
		p.pos++
	}
	return tok
}

func (p *parser) isOp(ops ...string) (string, bool) {
	tok := p.peek()
	if tok.typ != tokOp {
		return "", false
	}
	for _, op := range ops {
		if tok.val == op {
			return op, true
		}
	}
	return "", false
}

func (p *parser) binaryLevel(sub func() (node, error), operand valueKind, ops ...string) (node, error) {
	left, err := sub()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := p.isOp(ops...)
		if !ok {
			return left, nil
		}
		tok := p.next()
		right, err := sub()
		if err != nil {
			return nil, err
		}
		if left.kind() != operand || right.kind() != operand {
			return nil, newError(ErrCompileFailure, op, tok.pos, "operator %q needs %s operands", op, operand)
		}
		left = binaryNode{op: op, l: left, r: right}
	}
}

func (p *parser) parseOr() (node, error) {
	return p.binaryLevel(p.parseAnd, kindBool, "||")
}

func (p *parser) parseAnd() (node, error) {
	return p.binaryLevel(p.parseEquality, kindBool, "&&")
}

func (p *parser) parseEquality() (node, error) {
	return p.binaryLevel(p.parseRelation, kindNumber, "==", "!=")
}

func (p *parser) parseRelation() (node, error) {
	return p.binaryLevel(p.parseAdditive, kindNumber, "<", ">", "<=", ">=")
}

func (p *parser) parseAdditive() (node, error) {
	return p.binaryLevel(p.parseTerm, kindNumber, "+", "-")
}

func (p *parser) parseTerm() (node, error) {
	return p.binaryLevel(p.parseUnary, kindNumber, "*", "/")
}

func (p *parser) parseUnary() (node, error) {
	if op, ok := p.isOp("-", "+", "!"); ok {
		tok := p.next()
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		want := kindNumber
		if op == "!" {
			want = kindBool
		}
		if x.kind() != want {
			return nil, newError(ErrCompileFailure, op, tok.pos, "operator %q needs a %s operand", op, want)
		}
		if op == "+" {
			return x, nil
		}
		return unaryNode{op: op, x: x}, nil
	}
	return p.parsePower()
}

func (p *parser) parsePower() (node, error) {
	base, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	if _, ok := p.isOp("**"); !ok {
		return base, nil
	}
	tok := p.next()
	exp, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	if base.kind() != kindNumber || exp.kind() != kindNumber {
		return nil, newError(ErrCompileFailure, "**", tok.pos, "operator \"**\" needs number operands")
	}
	return binaryNode{op: "**", l: base, r: exp}, nil
}

func (p *parser) parsePrimary() (node, error) {
	tok := p.next()
	switch tok.typ {
	case tokNumber:
		return numberNode{v: tok.num}, nil
	case tokIdent:
		if v, ok := constants[tok.val]; ok {
			return numberNode{v: v}, nil
		}
		if tok.val == "x" || tok.val == "y" {
			return varNode{name: tok.val[0]}, nil
		}
		return p.parseCall(tok)
	case tokLParen:
		inner, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if closing := p.next(); closing.typ != tokRParen {
			return nil, newError(ErrCompileFailure, closing.val, closing.pos, "expected \")\"")
		}
		return inner, nil
	case tokEOF:
		return nil, newError(ErrCompileFailure, "", tok.pos, "unexpected end of expression")
	}
	return nil, newError(ErrCompileFailure, tok.val, tok.pos, "unexpected %q", tok.val)
}

func (p *parser) parseCall(name token) (node, error) {
	fn := builtins[name.val]
	if open := p.next(); open.typ != tokLParen {
		return nil, newError(ErrCompileFailure, name.val, name.pos, "function %s must be called with parentheses", name.val)
	}

	var args []node
	if p.peek().typ != tokRParen {
		for {
			arg, err := p.parseOr()
			if err != nil {
				return nil, err
			}
			if arg.kind() != kindNumber {
				return nil, newError(ErrCompileFailure, name.val, name.pos, "%s expects number arguments", name.val)
			}
			args = append(args, arg)
			if p.peek().typ != tokComma {
				break
			}
			p.next()
		}
	}
	if closing := p.next(); closing.typ != tokRParen {
		return nil, newError(ErrCompileFailure, closing.val, closing.pos, "expected \")\" after arguments to %s", name.val)
	}

	if len(args) < fn.minArgs || (fn.maxArgs >= 0 && len(args) > fn.maxArgs) {
		return nil, newError(ErrCompileFailure, name.val, name.pos, "%s takes %s, got %d", name.val, arity(fn), len(args))
	}
	return callNode{fn: fn, args: args}, nil
}

func arity(fn *builtin) string {
	switch {
	case fn.maxArgs < 0:
		return "at least 1 argument"
	case fn.maxArgs == 1:
		return "1 argument"
	}
	return "2 arguments"
}
