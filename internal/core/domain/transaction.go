package domain

import "time"

// Destination is a receiver of a transaction with the amount in atomic units
// it is sent. Amount is signed so that invalid negative input can be
// reported rather than wrapped.
type Destination struct {
	Address string
	Amount  int64
}

// TransactionRequest is a request to send funds, created by the caller for
// every send attempt and consumed by validation before any network action.
type TransactionRequest struct {
	Destinations []Destination
	Fee          FeeType
	Mixin        int64
	PaymentID    string
	// SourceSubWallets are the addresses of the sub-wallets to take funds
	// from. An empty list means all sub-wallets.
	SourceSubWallets []string
	ChangeAddress    string
}

// DestinationAddresses returns the addresses of the destinations, in order.
func (r TransactionRequest) DestinationAddresses() []string {
	addresses := make([]string, 0, len(r.Destinations))
	for _, d := range r.Destinations {
		addresses = append(addresses, d.Address)
	}
	return addresses
}

// LockedTransaction is a transaction sent by this wallet that is not yet
// buried under enough blocks. Its amounts stay reserved from the source
// sub-wallets until then.
type LockedTransaction struct {
	Hash            string
	Amounts         map[string]uint64
	Fee             uint64
	SubmittedAt     time.Time
	SubmittedHeight uint64
	// ConfirmedHeight is the height of the block including the transaction,
	// zero while it is still unconfirmed.
	ConfirmedHeight uint64
}

func (t LockedTransaction) IsConfirmed() bool {
	return t.ConfirmedHeight > 0
}

// CanUnlock returns whether the transaction is confirmed by at least depth
// blocks at the given chain height.
func (t LockedTransaction) CanUnlock(height, depth uint64) bool {
	return t.IsConfirmed() && height >= t.ConfirmedHeight+depth
}

// Total returns the sum of the reserved amounts.
func (t LockedTransaction) Total() uint64 {
	var total uint64
	for _, amount := range t.Amounts {
		total += amount
	}
	return total
}
