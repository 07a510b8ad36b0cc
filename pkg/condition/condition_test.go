package condition

import (
	"errors"
	"testing"
)

func TestCompileAndEval(t *testing.T) {
	in := Input{
		Amount:        15000,
		UsdValue:      15230.50,
		Currency:      "BTC",
		Priority:      "high",
		CreatedByRole: "manager",
	}

	tests := []struct {
		name string
		src  string
		want bool
	}{
		{"amount above threshold", "amount > 10000", true},
		{"amount below threshold", "amount > 20000", false},
		{"amount boundary exclusive", "amount > 15000", false},
		{"amount boundary inclusive", "amount >= 15000", true},
		{"equality on currency quoted", `currency == "BTC"`, true},
		{"equality on currency bare word", "currency == BTC", true},
		{"inequality on currency", `currency != "ETH"`, true},
		{"priority match", "priority == high", true},
		{"created by role", `created_by_role == "manager"`, true},
		{"and both true", `amount > 10000 && currency == "BTC"`, true},
		{"and one false", `amount > 10000 && currency == "ETH"`, false},
		{"or short circuit", `currency == "ETH" || usd_value >= 10000`, true},
		{"and binds tighter than or", `currency == "ETH" && amount > 1 || priority == high`, true},
		{"parens override precedence", `currency == "ETH" && (amount > 1 || priority == high)`, false},
		{"usd value compare", "usd_value < 20000", true},
		{"negative literal", "amount > -1", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expr, err := Compile(tt.src)
			if err != nil {
				t.Fatalf("Compile(%q) failed: %v", tt.src, err)
			}
			if got := expr.Eval(in); got != tt.want {
				t.Errorf("Eval(%q) = %v, want %v", tt.src, got, tt.want)
			}
		})
	}
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want interface{} // pointer to the expected error type
	}{
		{"unknown attribute", "fee > 100", &InvalidConditionError{}},
		{"unknown attribute in second clause", "amount > 1 && region == EU", &InvalidConditionError{}},
		{"empty expression", "", &ParseError{}},
		{"dangling operator", "amount >", &ParseError{}},
		{"missing operator", "amount 10000", &ParseError{}},
		{"single ampersand", "amount > 1 & currency == BTC", &ParseError{}},
		{"unterminated string", `currency == "BTC`, &ParseError{}},
		{"missing close paren", "(amount > 1", &ParseError{}},
		{"trailing garbage", "amount > 1 currency", &ParseError{}},
		{"string literal on number attr", `amount > "ten"`, &TypeMismatchError{}},
		{"number literal on string attr", "currency == 42", &TypeMismatchError{}},
		{"ordering on string attr", `priority > "low"`, &TypeMismatchError{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile(tt.src)
			if err == nil {
				t.Fatalf("Compile(%q) succeeded, want error", tt.src)
			}
			matched := false
			switch tt.want.(type) {
			case *ParseError:
				var pe *ParseError
				matched = errors.As(err, &pe)
			case *InvalidConditionError:
				var ie *InvalidConditionError
				matched = errors.As(err, &ie)
			case *TypeMismatchError:
				var te *TypeMismatchError
				matched = errors.As(err, &te)
			}
			if !matched {
				t.Errorf("Compile(%q) error = %T (%v), want %T", tt.src, err, err, tt.want)
			}
		})
	}
}

func TestEvalIsPure(t *testing.T) {
	expr, err := Compile(`amount > 10000 && currency == "BTC"`)
	if err != nil {
		t.Fatal(err)
	}

	in := Input{Amount: 15000, Currency: "BTC"}
	first := expr.Eval(in)
	for i := 0; i < 100; i++ {
		if expr.Eval(in) != first {
			t.Fatal("repeated evaluation changed result")
		}
	}
}
