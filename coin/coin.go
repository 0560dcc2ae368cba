/*
Package coin implements native asset amounts.

Amounts are unsigned integers of the smallest unit ("wei"). All arithmetic
is checked: an operation that would overflow or go below zero fails instead
of wrapping around. Units larger than wei exist only for display and input.
*/
package coin

import (
	"fmt"
	"math"
	"math/big"
	"regexp"
	"strings"

	"github.com/ethereum/go-ethereum/params"
	"github.com/iov-one/ledger/errors"
)

// Unit is a display denomination.
type Unit string

const (
	Wei   Unit = "wei"
	Gwei  Unit = "gwei"
	Ether Unit = "ether"
)

// Units lists all supported denominations.
var Units = []Unit{Wei, Gwei, Ether}

// Factor returns how many wei one unit is worth.
func (u Unit) Factor() (uint64, error) {
	switch u {
	case Wei:
		return params.Wei, nil
	case Gwei:
		return params.GWei, nil
	case Ether:
		return params.Ether, nil
	default:
		return 0, errors.Wrapf(errors.ErrInput, "unknown unit %q", string(u))
	}
}

// ParseUnit returns the unit of given name, case insensitive.
func ParseUnit(s string) (Unit, error) {
	u := Unit(strings.ToLower(strings.TrimSpace(s)))
	if _, err := u.Factor(); err != nil {
		return "", err
	}
	return u, nil
}

// Add returns a + b.
func Add(a, b uint64) (uint64, error) {
	if a > math.MaxUint64-b {
		return 0, errors.Wrapf(errors.ErrOverflow, "%d + %d", a, b)
	}
	return a + b, nil
}

// Sub returns a - b. It fails with ErrAmount if b is greater than a.
func Sub(a, b uint64) (uint64, error) {
	if b > a {
		return 0, errors.Wrapf(errors.ErrAmount, "have %d, need %d", a, b)
	}
	return a - b, nil
}

var amountFormat = regexp.MustCompile(`^\s*([0-9]+(?:\.[0-9]+)?)\s*([a-zA-Z]*)\s*$`)

// Parse reads an amount with an optional unit, ie. "1000", "3gwei" or
// "1.5 ether". An amount without a unit is in wei. The result must be a
// whole number of wei.
func Parse(s string) (uint64, error) {
	m := amountFormat.FindStringSubmatch(s)
	if m == nil {
		return 0, errors.Wrapf(errors.ErrInput, "malformed amount %q", s)
	}
	unit := Wei
	if m[2] != "" {
		u, err := ParseUnit(m[2])
		if err != nil {
			return 0, err
		}
		unit = u
	}
	factor, _ := unit.Factor()

	num, ok := new(big.Rat).SetString(m[1])
	if !ok {
		return 0, errors.Wrapf(errors.ErrInput, "malformed amount %q", s)
	}
	num.Mul(num, new(big.Rat).SetInt(new(big.Int).SetUint64(factor)))
	if !num.IsInt() {
		return 0, errors.Wrapf(errors.ErrInput, "amount %q is a fraction of wei", s)
	}
	wei := num.Num()
	if !wei.IsUint64() {
		return 0, errors.Wrapf(errors.ErrOverflow, "amount %q", s)
	}
	return wei.Uint64(), nil
}

// Format returns the amount expressed in given unit, without trailing
// zeros, ie. 1500000000000000000 in ether is "1.5 ether".
func Format(amount uint64, unit Unit) string {
	factor, err := unit.Factor()
	if err != nil {
		return fmt.Sprintf("%d %s", amount, Wei)
	}
	whole, frac := amount/factor, amount%factor
	if frac == 0 {
		return fmt.Sprintf("%d %s", whole, unit)
	}
	width := len(fmt.Sprint(factor)) - 1
	fs := strings.TrimRight(fmt.Sprintf("%0*d", width, frac), "0")
	return fmt.Sprintf("%d.%s %s", whole, fs, unit)
}
