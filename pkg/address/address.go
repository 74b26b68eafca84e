// Package address implements encoding and decoding of CryptoNote style
// addresses: a varint network prefix, an optional 64 characters payment id,
// the public spend and view keys, followed by a 4 bytes keccak checksum, all
// encoded with block base58.
package address

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"golang.org/x/crypto/sha3"
)

const (
	// KeySize is the size in bytes of a public key.
	KeySize = 32
	// PaymentIDSize is the length of a payment id in characters.
	PaymentIDSize = 64
	// ChecksumSize is the number of bytes of the keccak hash appended to the
	// payload.
	ChecksumSize = 4
)

var (
	// ErrChecksumMismatch is returned if the address checksum does not match
	// its payload.
	ErrChecksumMismatch = errors.New("address checksum mismatch")
	// ErrWrongPrefix is returned if the address prefix differs from the
	// expected one.
	ErrWrongPrefix = errors.New("address prefix mismatch")
	// ErrMalformed is returned if the decoded address has an unexpected size.
	ErrMalformed = errors.New("malformed address")
	// ErrInvalidPaymentID is returned when encoding a payment id that is not
	// empty nor 64 characters long.
	ErrInvalidPaymentID = errors.New("payment id must be 64 characters long")
)

// Address is a decoded CryptoNote address.
type Address struct {
	Prefix    uint64
	SpendKey  [KeySize]byte
	ViewKey   [KeySize]byte
	PaymentID string
}

// IsIntegrated returns whether the address embeds a payment id.
func (a Address) IsIntegrated() bool {
	return a.PaymentID != ""
}

// Encode returns the base58 representation of the address.
func (a Address) Encode() (string, error) {
	if a.PaymentID != "" && len(a.PaymentID) != PaymentIDSize {
		return "", ErrInvalidPaymentID
	}

	var prefix [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(prefix[:], a.Prefix)

	payload := make([]byte, 0, n+len(a.PaymentID)+2*KeySize+ChecksumSize)
	payload = append(payload, prefix[:n]...)
	payload = append(payload, a.PaymentID...)
	payload = append(payload, a.SpendKey[:]...)
	payload = append(payload, a.ViewKey[:]...)
	payload = append(payload, checksum(payload)...)

	return EncodeBase58(payload), nil
}

// Parse decodes addr and checks that it belongs to the network identified
// by prefix.
func Parse(addr string, prefix uint64) (*Address, error) {
	raw, err := DecodeBase58(addr)
	if err != nil {
		return nil, err
	}
	if len(raw) <= ChecksumSize {
		return nil, ErrMalformed
	}

	payload, sum := raw[:len(raw)-ChecksumSize], raw[len(raw)-ChecksumSize:]
	if !bytes.Equal(checksum(payload), sum) {
		return nil, ErrChecksumMismatch
	}

	gotPrefix, n := binary.Uvarint(payload)
	if n <= 0 {
		return nil, ErrMalformed
	}
	if gotPrefix != prefix {
		return nil, fmt.Errorf("%w: got %d, expected %d", ErrWrongPrefix, gotPrefix, prefix)
	}
	body := payload[n:]

	a := &Address{Prefix: gotPrefix}
	switch len(body) {
	case 2 * KeySize:
	case PaymentIDSize + 2*KeySize:
		a.PaymentID = string(body[:PaymentIDSize])
		body = body[PaymentIDSize:]
	default:
		return nil, ErrMalformed
	}
	copy(a.SpendKey[:], body[:KeySize])
	copy(a.ViewKey[:], body[KeySize:])

	return a, nil
}

// Lengths returns the number of characters of a standard and of an
// integrated address for the given prefix.
func Lengths(prefix uint64) (standard, integrated int) {
	var buf [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(buf[:], prefix)

	standard = encodedLen(n + 2*KeySize + ChecksumSize)
	integrated = encodedLen(n + PaymentIDSize + 2*KeySize + ChecksumSize)
	return
}

func encodedLen(size int) int {
	return size/fullBlockSize*fullEncodedBlockSize +
		encodedBlockSizes[size%fullBlockSize]
}

func checksum(payload []byte) []byte {
	h := sha3.NewLegacyKeccak256()
	h.Write(payload)
	return h.Sum(nil)[:ChecksumSize]
}
