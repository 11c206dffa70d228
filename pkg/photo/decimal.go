package photo

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// normalize strips trailing zeros from the coefficient so that values
// like 0.80 and 100.00 render as "0.8" and "100".
func normalize(d decimal.Decimal) decimal.Decimal {
	coeff := new(big.Int).Set(d.Coefficient())
	exp := d.Exponent()
	if coeff.Sign() == 0 {
		return decimal.New(0, 0)
	}
	ten := big.NewInt(10)
	mod := new(big.Int)
	for exp < 0 {
		q, m := new(big.Int).QuoRem(coeff, ten, mod)
		if m.Sign() != 0 {
			break
		}
		coeff = q
		exp++
	}
	return decimal.NewFromBigInt(coeff, exp)
}

// roundSig rounds to the given number of significant figures, ties to
// even. Marketed film speeds and f-stops round this way (1.25 -> 1.2).
func roundSig(d decimal.Decimal, figures int32) decimal.Decimal {
	if d.IsZero() {
		return d
	}
	intDigits := int32(d.NumDigits()) + d.Exponent()
	return d.RoundBank(figures - intDigits)
}

// Rat converts a decimal to an exact rational.
func Rat(d decimal.Decimal) *big.Rat {
	d = normalize(d)
	exp := int64(d.Exponent())
	num := new(big.Int).Set(d.Coefficient())
	den := big.NewInt(1)
	if exp < 0 {
		den.Exp(big.NewInt(10), big.NewInt(-exp), nil)
	} else if exp > 0 {
		num.Mul(num, new(big.Int).Exp(big.NewInt(10), big.NewInt(exp), nil))
	}
	return new(big.Rat).SetFrac(num, den)
}
