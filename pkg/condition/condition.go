// Package condition compiles and evaluates rule condition expressions against
// transaction attributes.
//
// The grammar is deliberately small: comparisons of the form `attr OP literal`
// (OP one of <, <=, >, >=, ==, !=) combined with && and ||, with parentheses
// for grouping. && binds tighter than ||. Attributes resolve against a fixed
// whitelist; literals are numbers, quoted strings, or bare words (treated as
// strings), e.g.
//
//	amount > 10000 && currency == "BTC"
//	priority == high || usd_value >= 250000
//
// Compile performs the full validation (syntax, attribute whitelist, operator/
// type compatibility) so a rule that compiles can never fail at evaluation
// time. Evaluation is a pure function over an attribute snapshot.
package condition

// Kind is the value type of an attribute or literal.
type Kind int

const (
	KindNumber Kind = iota
	KindString
)

func (k Kind) String() string {
	if k == KindNumber {
		return "number"
	}
	return "string"
}

// attributes is the fixed whitelist of transaction attributes a condition may
// reference, with their types.
var attributes = map[string]Kind{
	"amount":          KindNumber,
	"usd_value":       KindNumber,
	"currency":        KindString,
	"priority":        KindString,
	"created_by_role": KindString,
}

// Input is the transaction attribute snapshot a compiled expression
// evaluates against.
type Input struct {
	Amount        float64
	UsdValue      float64
	Currency string
	Priority string

	// CreatedByRole is the creator's primary role. Callers with
	// multi-role users pass the first role of the claim; conditions on
	// created_by_role match that role only.
	CreatedByRole string
}

func (in Input) number(attr string) float64 {
	switch attr {
	case "amount":
		return in.Amount
	default: // usd_value; the parser admits no other number attribute
		return in.UsdValue
	}
}

func (in Input) str(attr string) string {
	switch attr {
	case "currency":
		return in.Currency
	case "priority":
		return in.Priority
	default: // created_by_role
		return in.CreatedByRole
	}
}

// Compile parses and validates a condition expression. The returned Expr is
// immutable and safe for concurrent use.
func Compile(src string) (Expr, error) {
	toks, err := lex(src)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	expr, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if !p.atEOF() {
		return nil, &ParseError{Pos: p.peek().pos, Msg: "unexpected trailing input"}
	}
	return expr, nil
}

// Validate checks an expression without keeping the compiled form. Used at
// rule-save time.
func Validate(src string) error {
	_, err := Compile(src)
	return err
}
