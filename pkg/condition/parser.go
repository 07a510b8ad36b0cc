package condition

type parser struct {
	toks []token
	i    int
}

func (p *parser) peek() token { return p.toks[p.i] }

func (p *parser) next() token {
	t := p.toks[p.i]
	if t.typ != tokEOF {
		p.i++
	}
	return t
}

func (p *parser) atEOF() bool { return p.peek().typ == tokEOF }

// parseOr: and { "||" and }
func (p *parser) parseOr() (Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.peek().typ == tokOr {
		p.next()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &orExpr{left: left, right: right}
	}
	return left, nil
}

// parseAnd: term { "&&" term }
func (p *parser) parseAnd() (Expr, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for p.peek().typ == tokAnd {
		p.next()
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = &andExpr{left: left, right: right}
	}
	return left, nil
}

// parseTerm: "(" or ")" | comparison
func (p *parser) parseTerm() (Expr, error) {
	if p.peek().typ == tokLParen {
		open := p.next()
		inner, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if p.peek().typ != tokRParen {
			return nil, &ParseError{Pos: open.pos, Msg: "missing closing parenthesis"}
		}
		p.next()
		return inner, nil
	}
	return p.parseComparison()
}

// parseComparison: ident OP literal
func (p *parser) parseComparison() (Expr, error) {
	attrTok := p.peek()
	if attrTok.typ != tokIdent {
		return nil, &ParseError{Pos: attrTok.pos, Msg: "expected attribute name"}
	}
	p.next()

	kind, ok := attributes[attrTok.lit]
	if !ok {
		return nil, &InvalidConditionError{Attribute: attrTok.lit}
	}

	opTok := p.peek()
	if opTok.typ != tokOp {
		return nil, &ParseError{Pos: opTok.pos, Msg: "expected comparison operator"}
	}
	p.next()

	litTok := p.peek()
	cmp := &compareExpr{attr: attrTok.lit, kind: kind, op: opTok.lit}

	switch litTok.typ {
	case tokNumber:
		if kind != KindNumber {
			return nil, &TypeMismatchError{Attribute: attrTok.lit, Operator: opTok.lit, Want: KindString, Got: KindNumber}
		}
		cmp.num = litTok.num
	case tokString, tokIdent: // bare words compare as strings
		if kind != KindString {
			return nil, &TypeMismatchError{Attribute: attrTok.lit, Operator: opTok.lit, Want: KindNumber, Got: KindString}
		}
		if opTok.lit != "==" && opTok.lit != "!=" {
			// Ordering on strings is never meaningful for the whitelisted attributes
			return nil, &TypeMismatchError{Attribute: attrTok.lit, Operator: opTok.lit, Want: KindNumber, Got: KindString}
		}
		cmp.str = litTok.lit
	default:
		return nil, &ParseError{Pos: litTok.pos, Msg: "expected literal value"}
	}
	p.next()

	return cmp, nil
}
