package address

import (
	"errors"
	"fmt"

	"github.com/kryptokrona/kryptokrona-walletd/internal/core/domain"
	"github.com/kryptokrona/kryptokrona-walletd/internal/core/ports"
	"github.com/kryptokrona/kryptokrona-walletd/pkg/address"
)

type parser struct{}

// NewParser returns a ports.AddressParser decoding CryptoNote addresses.
func NewParser() ports.AddressParser {
	return parser{}
}

func (parser) Parse(addr string, prefix uint64) (domain.Address, error) {
	parsed, err := address.Parse(addr, prefix)
	if err != nil {
		return domain.Address{}, toDomainError(err)
	}
	return domain.Address{
		Prefix:    parsed.Prefix,
		SpendKey:  domain.Key(parsed.SpendKey),
		ViewKey:   domain.Key(parsed.ViewKey),
		PaymentID: parsed.PaymentID,
	}, nil
}

func toDomainError(err error) error {
	switch {
	case errors.Is(err, address.ErrChecksumMismatch):
		return domain.ErrAddressChecksumMismatch
	case errors.Is(err, address.ErrWrongPrefix):
		return fmt.Errorf("%w: %s", domain.ErrAddressWrongPrefix, err)
	case errors.Is(err, address.ErrInvalidBase58):
		return domain.ErrAddressNotBase58
	default:
		return fmt.Errorf("%w: %s", domain.ErrAddressWrongLength, err)
	}
}
