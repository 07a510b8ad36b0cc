package condition

// Expr is a compiled, validated condition. Eval is pure and cannot fail.
type Expr interface {
	Eval(in Input) bool
}

type andExpr struct {
	left, right Expr
}

func (e *andExpr) Eval(in Input) bool { return e.left.Eval(in) && e.right.Eval(in) }

type orExpr struct {
	left, right Expr
}

func (e *orExpr) Eval(in Input) bool { return e.left.Eval(in) || e.right.Eval(in) }

type compareExpr struct {
	attr string
	kind Kind
	op   string
	num  float64 // literal when kind == KindNumber
	str  string  // literal when kind == KindString
}

func (e *compareExpr) Eval(in Input) bool {
	if e.kind == KindNumber {
		v := in.number(e.attr)
		switch e.op {
		case "<":
			return v < e.num
		case "<=":
			return v <= e.num
		case ">":
			return v > e.num
		case ">=":
			return v >= e.num
		case "==":
			return v == e.num
		default: // !=
			return v != e.num
		}
	}

	v := in.str(e.attr)
	if e.op == "==" {
		return v == e.str
	}
	return v != e.str
}
