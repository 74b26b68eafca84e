package domain

import "encoding/hex"

// KeySize is the size in bytes of a public key.
const KeySize = 32

// Key is a public key.
type Key [KeySize]byte

func (k Key) String() string {
	return hex.EncodeToString(k[:])
}

// KeyFromHex decodes a hex encoded public key.
func KeyFromHex(s string) (Key, error) {
	var k Key
	b, err := hex.DecodeString(s)
	if err != nil {
		return k, err
	}
	if len(b) != KeySize {
		return k, hex.ErrLength
	}
	copy(k[:], b)
	return k, nil
}

// Address is a parsed wallet address. It is integrated if it embeds a
// payment id.
type Address struct {
	Prefix    uint64
	SpendKey  Key
	ViewKey   Key
	PaymentID string
}

func (a Address) IsIntegrated() bool {
	return len(a.PaymentID) > 0
}
