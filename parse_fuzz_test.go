package calc_test

import (
	"errors"
	"testing"

	"github.com/zephyrtronium/calc"
)

func FuzzParse(f *testing.F) {
	f.Add("1")
	f.Add("-2**-2")
	f.Add("1×2÷3^4")
	f.Add("√(2)")
	f.Add("(1+2")
	f.Fuzz(func(t *testing.T, s string) {
		e, err := calc.ParseString(s)
		if err != nil {
			if !errors.Is(err, calc.ErrSyntax) {
				t.Errorf("parsing %q gave non-syntax error %v", s, err)
			}
			return
		}
		if e == nil {
			t.Errorf("parsing %q gave nil expression and nil error", s)
		}
	})
}
