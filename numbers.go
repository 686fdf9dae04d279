package trs

import (
	"math"
	"math/big"
)

// ============================================================
// Signed value of a numeric leaf
// ============================================================

type number struct {
	isFloat bool
	i       *big.Int
	f       float64
}

func numberOf(l *Leaf) number {
	if l.Kind == KindFloat {
		return number{isFloat: true, f: l.Float64()}
	}
	return number{i: l.Signed()}
}

func (n number) float() float64 {
	if n.isFloat {
		return n.f
	}
	f, _ := new(big.Float).SetInt(n.i).Float64()
	return f
}

func (n number) leaf() *Leaf {
	if n.isFloat {
		return Float(n.f)
	}
	return BigInt(n.i)
}

func (n number) isZero() bool {
	if n.isFloat {
		return n.f == 0
	}
	return n.i.Sign() == 0
}

func addNumbers(a, b number) number {
	if a.isFloat || b.isFloat {
		return number{isFloat: true, f: a.float() + b.float()}
	}
	return number{i: new(big.Int).Add(a.i, b.i)}
}

func mulNumbers(a, b number) number {
	if a.isFloat || b.isFloat {
		return number{isFloat: true, f: a.float() * b.float()}
	}
	return number{i: new(big.Int).Mul(a.i, b.i)}
}

// maxExponent bounds integer powers computed exactly.
const maxExponent = 1 << 10

// powNumbers raises a to b. It reports false when the power is not real or
// too large to compute.
func powNumbers(a, b number) (number, bool) {
	if !a.isFloat && !b.isFloat {
		if b.i.Sign() < 0 || !b.i.IsInt64() || b.i.Int64() > maxExponent {
			return number{}, false
		}
		return number{i: new(big.Int).Exp(a.i, b.i, nil)}, true
	}
	r := math.Pow(a.float(), b.float())
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return number{}, false
	}
	return number{isFloat: true, f: r}, true
}

// ============================================================
// Integer helpers
// ============================================================

func gcd(a, b *big.Int) *big.Int {
	return new(big.Int).GCD(nil, nil, new(big.Int).Abs(a), new(big.Int).Abs(b))
}

func lcm(a, b *big.Int) *big.Int {
	g := gcd(a, b)
	if g.Sign() == 0 {
		return big.NewInt(0)
	}
	p := new(big.Int).Mul(a, b)
	p.Abs(p)
	return p.Quo(p, g)
}

// dividers returns every divisor of n except 1 and n, ascending.
func dividers(n int64) []int64 {
	var low, high []int64
	for m := int64(2); m*m <= n; m++ {
		if n%m != 0 {
			continue
		}
		low = append(low, m)
		if q := n / m; q != m {
			high = append([]int64{q}, high...)
		}
	}
	return append(low, high...)
}

func isPrime(n int64) bool {
	if n < 2 {
		return false
	}
	return big.NewInt(n).ProbablyPrime(0)
}

// isPerfectSquare reports whether n >= 0 is a square, returning its root.
func isPerfectSquare(n *big.Int) (*big.Int, bool) {
	if n.Sign() < 0 {
		return nil, false
	}
	r := new(big.Int).Sqrt(n)
	return r, new(big.Int).Mul(r, r).Cmp(n) == 0
}

// isEliminableSqrt reports whether the square root of n can be pulled out
// of a product, i.e. n is a perfect square larger than 3.
func isEliminableSqrt(n int64) bool {
	if n <= 3 {
		return false
	}
	_, ok := isPerfectSquare(big.NewInt(n))
	return ok
}

// smallInt returns the magnitude of an integer leaf when it fits in an
// int64 small enough for divisor enumeration.
func smallInt(e Expr) (int64, bool) {
	l, ok := e.(*Leaf)
	if !ok || l.Kind != KindInteger || !l.Int.IsInt64() {
		return 0, false
	}
	v := l.Int.Int64()
	return v, v < 1<<31
}
