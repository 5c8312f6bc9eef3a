// Package distance provides the distance measures used to compare CDR
// fragments: Hamming distance, edit (Levenshtein) distance and adjusted
// distance, which is edit distance over global alignment length.
package distance

import (
	"fmt"
	"strconv"
)

// Value is an exact non-negative rational distance. Integer distances have
// Den == 1. Values are kept in lowest terms, so equal distances compare
// equal with == and can be used as map keys.
type Value struct {
	Num int
	Den int
}

// Int returns an integer distance.
func Int(n int) Value {
	return Value{Num: n, Den: 1}
}

// Ratio returns num/den in lowest terms. A zero denominator is only
// accepted together with a zero numerator and yields 0.
func Ratio(num, den int) (Value, error) {
	if den == 0 {
		if num != 0 {
			return Value{}, fmt.Errorf("distance %d/0 is undefined", num)
		}
		return Int(0), nil
	}
	if den < 0 {
		num, den = -num, -den
	}
	if g := gcd(abs(num), den); g > 1 {
		num, den = num/g, den/g
	}
	return Value{Num: num, Den: den}, nil
}

// Less reports whether v is strictly smaller than w.
func (v Value) Less(w Value) bool {
	return v.Num*w.Den < w.Num*v.Den
}

// Float64 returns v as a float.
func (v Value) Float64() float64 {
	if v.Den == 0 {
		return 0
	}
	return float64(v.Num) / float64(v.Den)
}

// IsInt reports whether v is a whole number.
func (v Value) IsInt() bool {
	return v.Den == 1
}

func (v Value) String() string {
	if v.Den == 1 {
		return strconv.Itoa(v.Num)
	}
	return strconv.FormatFloat(v.Float64(), 'f', 4, 64)
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func abs(a int) int {
	if a < 0 {
		return -a
	}
	return a
}
