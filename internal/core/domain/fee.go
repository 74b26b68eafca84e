package domain

import "time"

type feeKind int

const (
	feeNone feeKind = iota
	feeFixed
	feePerByte
)

// FeeType is the fee policy of a transaction, either a fixed amount or a rate
// per byte. The zero value has no policy set and is rejected by validation.
type FeeType struct {
	kind       feeKind
	fixedFee   uint64
	feePerByte float64
}

// NewFixedFee returns a FeeType paying exactly amount atomic units.
func NewFixedFee(amount uint64) FeeType {
	return FeeType{kind: feeFixed, fixedFee: amount}
}

// NewFeePerByte returns a FeeType paying rate atomic units per byte of the
// transaction.
func NewFeePerByte(rate float64) FeeType {
	return FeeType{kind: feePerByte, feePerByte: rate}
}

func (f FeeType) IsFixedFee() bool {
	return f.kind == feeFixed
}

func (f FeeType) IsFeePerByte() bool {
	return f.kind == feePerByte
}

func (f FeeType) FixedFee() uint64 {
	return f.fixedFee
}

func (f FeeType) FeePerByte() float64 {
	return f.feePerByte
}

// FeeSchedule holds the fee parameters advertised by the daemon. The node fee
// is paid to Address on top of every transaction.
type FeeSchedule struct {
	Address       string
	Amount        uint64
	MinFeePerByte float64
	UpdatedAt     time.Time
}

// HasNodeFee returns whether the daemon requires a fee for relaying.
func (f FeeSchedule) HasNodeFee() bool {
	return f.Address != "" && f.Amount > 0
}
