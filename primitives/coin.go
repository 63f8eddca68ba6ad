package primitives

import "errors"

// ErrCoinOverflow is returned by checked Coin arithmetic. Per the fatal
// invariant in the reward-accounting design, callers performing batch
// finalization treat this as a programming-bug panic rather than a
// recoverable error; callers validating untrusted wire values may
// propagate it as a structural error instead.
var ErrCoinOverflow = errors.New("primitives: coin arithmetic overflow")

// Coin is the smallest indivisible unit of stake/reward value.
type Coin uint64

// Add returns a+b, or ErrCoinOverflow on wraparound.
func (a Coin) Add(b Coin) (Coin, error) {
	sum := a + b
	if sum < a {
		return 0, ErrCoinOverflow
	}
	return sum, nil
}

// Mul returns a*b, or ErrCoinOverflow on wraparound.
func (a Coin) Mul(b Coin) (Coin, error) {
	if a == 0 || b == 0 {
		return 0, nil
	}
	product := a * b
	if product/a != b {
		return 0, ErrCoinOverflow
	}
	return product, nil
}

// DivMod returns (a/b, a%b). Callers must ensure b != 0.
func (a Coin) DivMod(b Coin) (Coin, Coin) {
	return a / b, a % b
}
