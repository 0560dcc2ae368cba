package ledger

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/btcsuite/btcutil/bech32"
	"github.com/ethereum/go-ethereum/common"
	"github.com/iov-one/ledger/errors"
)

// AddressLength is the length of every address.
const AddressLength = 20

// Bech32 human readable prefixes accepted by ParseAddress.
const (
	MainnetHRP = "iov"
	TestnetHRP = "tiov"
)

// A condition must have the (?s) flag, otherwise it does not match when the
// data section contains a newline.
var conditionFormat = regexp.MustCompile(`(?s)^([a-zA-Z0-9_\-]{3,8})/([a-zA-Z0-9_\-]{3,8})/(.+)$`)

// Condition describes who can authorize an action. It is formatted as
//
//	sprintf("%s/%s/%s", extension, type, data)
//
// A signature over a public key, an escrow instance holding funds, all are
// conditions. A condition hashes into an Address.
type Condition []byte

// NewCondition builds a condition out of its parts.
func NewCondition(ext, typ string, data []byte) Condition {
	pre := fmt.Sprintf("%s/%s/", ext, typ)
	return append([]byte(pre), data...)
}

// Parse returns the sections of the condition.
func (c Condition) Parse() (string, string, []byte, error) {
	chunks := conditionFormat.FindSubmatch(c)
	if len(chunks) == 0 {
		return "", "", nil, errors.Wrapf(errors.ErrInput, "condition: %X", []byte(c))
	}
	return string(chunks[1]), string(chunks[2]), chunks[3], nil
}

// Address returns the address this condition hashes into.
func (c Condition) Address() Address {
	h := sha256.Sum256(c)
	return Address(h[:AddressLength])
}

// Equals returns true if both conditions are the same.
func (c Condition) Equals(other Condition) bool {
	return bytes.Equal(c, other)
}

// String keeps the extension and the type readable and hex encodes the data.
func (c Condition) String() string {
	ext, typ, data, err := c.Parse()
	if err != nil {
		return fmt.Sprintf("invalid condition: %X", []byte(c))
	}
	return fmt.Sprintf("%s/%s/%X", ext, typ, data)
}

// Validate returns an error if the condition is not properly formatted.
func (c Condition) Validate() error {
	if !conditionFormat.Match(c) {
		return errors.Wrapf(errors.ErrInput, "condition: %X", []byte(c))
	}
	return nil
}

// Address is a one-way digest of a Condition. Accounts, escrow instances,
// arbiters and beneficiaries are all identified by an address.
type Address []byte

// ParseAddress decodes a human provided identity. Accepted formats are
//
//	0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed (checksum verified if mixed case)
//	5aaeb6053f3e94c9b9a09f33669435e7ef1beaed
//	tiov1k0dp2fmdunscuwjjusqtk6mttx5ufk3z0mmp0z
func ParseAddress(s string) (Address, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, errors.Wrap(errors.ErrEmpty, "address")
	}
	switch {
	case strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X"):
		if !common.IsHexAddress(s) {
			return nil, errors.Wrapf(errors.ErrInput, "malformed address %q", s)
		}
		mixed, err := common.NewMixedcaseAddressFromString(s)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrInput, "malformed address %q: %s", s, err)
		}
		if hasMixedCase(s[2:]) && !mixed.ValidChecksum() {
			return nil, errors.Wrapf(errors.ErrInput, "invalid address checksum %q", s)
		}
		return Address(mixed.Address().Bytes()), nil
	case strings.HasPrefix(s, MainnetHRP+"1") || strings.HasPrefix(s, TestnetHRP+"1"):
		_, data, err := bech32.Decode(s)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrInput, "malformed bech32 address: %s", err)
		}
		raw, err := bech32.ConvertBits(data, 5, 8, false)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrInput, "malformed bech32 payload: %s", err)
		}
		addr := Address(raw)
		return addr, addr.Validate()
	default:
		raw, err := hex.DecodeString(s)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrInput, "malformed hex address: %s", err)
		}
		addr := Address(raw)
		return addr, addr.Validate()
	}
}

func hasMixedCase(s string) bool {
	return strings.ToLower(s) != s && strings.ToUpper(s) != s
}

// Equals returns true if both addresses are the same.
func (a Address) Equals(b Address) bool {
	return bytes.Equal(a, b)
}

// Validate returns an error if the address is empty or of a wrong length.
func (a Address) Validate() error {
	if len(a) == 0 {
		return errors.Wrap(errors.ErrEmpty, "address")
	}
	if len(a) != AddressLength {
		return errors.Wrapf(errors.ErrInput, "address: invalid length %d", len(a))
	}
	return nil
}

// String returns the EIP-55 checksummed hex representation.
func (a Address) String() string {
	if len(a) == 0 {
		return "(nil)"
	}
	if len(a) != AddressLength {
		return strings.ToUpper(hex.EncodeToString(a))
	}
	return common.BytesToAddress(a).Hex()
}

// Bech32 returns the address encoded with given human readable prefix.
func (a Address) Bech32(hrp string) (string, error) {
	data, err := bech32.ConvertBits(a, 8, 5, true)
	if err != nil {
		return "", errors.Wrap(errors.ErrInput, err.Error())
	}
	enc, err := bech32.Encode(hrp, data)
	if err != nil {
		return "", errors.Wrap(errors.ErrInput, err.Error())
	}
	return enc, nil
}

// MarshalJSON encodes the address as a checksummed hex string.
func (a Address) MarshalJSON() ([]byte, error) {
	if len(a) == 0 {
		return json.Marshal("")
	}
	return json.Marshal(a.String())
}

// UnmarshalJSON accepts every format ParseAddress does. An empty string
// zeroes the address.
func (a *Address) UnmarshalJSON(raw []byte) error {
	var enc string
	if err := json.Unmarshal(raw, &enc); err != nil {
		return errors.Wrap(errors.ErrInput, "address must be a string")
	}
	if enc == "" {
		*a = nil
		return nil
	}
	addr, err := ParseAddress(enc)
	if err != nil {
		return err
	}
	*a = addr
	return nil
}
