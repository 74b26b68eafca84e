package ports

import "github.com/kryptokrona/kryptokrona-walletd/internal/core/domain"

// AddressParser decodes addresses. It returns
// domain.ErrAddressChecksumMismatch if the checksum is wrong and
// domain.ErrAddressWrongPrefix if the address belongs to another network.
type AddressParser interface {
	Parse(address string, prefix uint64) (domain.Address, error)
}
