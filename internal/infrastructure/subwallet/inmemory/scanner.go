package inmemory

import "github.com/kryptokrona/kryptokrona-walletd/internal/core/domain"

// OwnedOutput is an output of a transaction that belongs to a sub-wallet.
type OwnedOutput struct {
	Address string
	// Index is the position of the output in the transaction.
	Index    int
	Output   domain.TransactionOutput
	KeyImage string
}

// OutputScanner finds the outputs of a transaction owned by the
// sub-wallets. Deriving ownership needs the private view keys, the ledger
// leaves it to the scanner.
type OutputScanner interface {
	ScanTransaction(tx domain.Transaction) ([]OwnedOutput, error)
}

// ScannerFunc adapts a function to the OutputScanner interface.
type ScannerFunc func(tx domain.Transaction) ([]OwnedOutput, error)

func (f ScannerFunc) ScanTransaction(tx domain.Transaction) ([]OwnedOutput, error) {
	return f(tx)
}

// NoopScanner never claims an output. A ledger using it only follows the
// chain.
var NoopScanner = ScannerFunc(func(domain.Transaction) ([]OwnedOutput, error) {
	return nil, nil
})
