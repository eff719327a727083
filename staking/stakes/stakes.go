// Copyright (c) 2026 The Meridian developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package stakes provides overflow-checked arithmetic on staked amounts and
// the proportional-share math used for reward distribution.
package stakes

import (
	"math/big"
	"math/bits"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/pkg/errors"
)

var (
	// ErrOverflow indicates an arithmetic overflow.
	ErrOverflow = errors.New("arithmetic overflow")
	// ErrUnderflow indicates an arithmetic underflow.
	ErrUnderflow = errors.New("arithmetic underflow")
)

// CheckedAdd returns a+b, or ErrOverflow when the sum exceeds 64 bits.
func CheckedAdd(a, b uint64) (uint64, error) {
	sum, overflow := math.SafeAdd(a, b)
	if overflow {
		return 0, ErrOverflow
	}
	return sum, nil
}

// CheckedSub returns a-b, or ErrUnderflow when b > a.
func CheckedSub(a, b uint64) (uint64, error) {
	diff, underflow := math.SafeSub(a, b)
	if underflow {
		return 0, ErrUnderflow
	}
	return diff, nil
}

// CheckedMul returns a*b, or ErrOverflow when the product exceeds 64 bits.
func CheckedMul(a, b uint64) (uint64, error) {
	product, overflow := math.SafeMul(a, b)
	if overflow {
		return 0, ErrOverflow
	}
	return product, nil
}

// ProportionalShare computes floor(amount * numerator / denominator) with a
// 128-bit intermediate, so the product never overflows. A zero denominator
// yields 0: no stakers means nothing to distribute.
func ProportionalShare(amount, numerator, denominator uint64) uint64 {
	if denominator == 0 {
		return 0
	}
	hi, lo := bits.Mul64(amount, numerator)
	if hi == 0 {
		return lo / denominator
	}
	if hi < denominator {
		quo, _ := bits.Div64(hi, lo, denominator)
		return quo
	}
	// quotient exceeds 64 bits; clamp via big.Int. Unreachable when
	// numerator <= denominator, which settlement guarantees.
	num := new(big.Int).Or(
		new(big.Int).Lsh(new(big.Int).SetUint64(hi), 64),
		new(big.Int).SetUint64(lo),
	)
	num.Div(num, new(big.Int).SetUint64(denominator))
	if !num.IsUint64() {
		return ^uint64(0)
	}
	return num.Uint64()
}
