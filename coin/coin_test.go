package coin

import (
	"math"
	"testing"

	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/ledgertest/assert"
)

func TestArithmetic(t *testing.T) {
	sum, err := Add(1000, 1)
	assert.Nil(t, err)
	assert.Equal(t, uint64(1001), sum)

	_, err = Add(math.MaxUint64, 1)
	assert.IsErr(t, errors.ErrOverflow, err)

	diff, err := Sub(1000, 1000)
	assert.Nil(t, err)
	assert.Equal(t, uint64(0), diff)

	_, err = Sub(999, 1000)
	assert.IsErr(t, errors.ErrAmount, err)
}

func TestParse(t *testing.T) {
	cases := map[string]struct {
		input   string
		want    uint64
		wantErr *errors.Error
	}{
		"plain wei":        {input: "1000", want: 1000},
		"explicit wei":     {input: "1000wei", want: 1000},
		"gwei":             {input: "3gwei", want: 3000000000},
		"fractional ether": {input: "1.5 ether", want: 1500000000000000000},
		"upper case unit":  {input: "2GWEI", want: 2000000000},
		"zero":             {input: "0", want: 0},
		"fraction of wei":  {input: "0.5wei", wantErr: errors.ErrInput},
		"unknown unit":     {input: "1finney", wantErr: errors.ErrInput},
		"negative":         {input: "-1", wantErr: errors.ErrInput},
		"garbage":          {input: "ten", wantErr: errors.ErrInput},
		"too big":          {input: "100ether", wantErr: errors.ErrOverflow},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			got, err := Parse(tc.input)
			assert.IsErr(t, tc.wantErr, err)
			if tc.wantErr == nil {
				assert.Equal(t, tc.want, got)
			}
		})
	}
}

func TestFormat(t *testing.T) {
	cases := map[string]struct {
		amount uint64
		unit   Unit
		want   string
	}{
		"wei":           {amount: 1000, unit: Wei, want: "1000 wei"},
		"whole ether":   {amount: 2000000000000000000, unit: Ether, want: "2 ether"},
		"half ether":    {amount: 1500000000000000000, unit: Ether, want: "1.5 ether"},
		"small in gwei": {amount: 1, unit: Gwei, want: "0.000000001 gwei"},
		"gwei":          {amount: 3000000000, unit: Gwei, want: "3 gwei"},
		"unknown unit":  {amount: 7, unit: Unit("finney"), want: "7 wei"},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			assert.Equal(t, tc.want, Format(tc.amount, tc.unit))
		})
	}
}
