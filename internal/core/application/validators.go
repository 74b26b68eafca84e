package application

import (
	"fmt"
	"math/big"
	"regexp"
	"strings"

	"github.com/kryptokrona/kryptokrona-walletd/internal/core/domain"
	"github.com/kryptokrona/kryptokrona-walletd/internal/core/ports"
	"github.com/kryptokrona/kryptokrona-walletd/pkg/address"
	"github.com/lightningnetwork/lnd/fn/v2"
	"github.com/shopspring/decimal"
)

const paymentIDLength = 64

var (
	paymentIDRegexp = regexp.MustCompile(`^[0-9a-fA-F]{64}$`)

	// TODO: confirm the ceiling against the atomic unit limit of the daemon,
	// 2^64 alone is more likely to be the intended value.
	maxTotalAmount = decimal.New(2, 0).Mul(decimal.New(2, 0).Pow(decimal.New(64, 0)))
)

// ValidationEngine checks transaction requests against the network rules and
// the latest state of the wallet. Every method fails with exactly one of the
// domain validation errors.
type ValidationEngine interface {
	ValidateAddress(addr string, integratedAllowed bool) error
	ValidateAddresses(addresses []string, integratedAllowed bool) error
	ValidateDestinations(destinations []domain.Destination) error
	// ValidateIntegratedAddresses checks that the payment ids embedded in
	// the integrated destinations all match paymentID. If paymentID is empty
	// the one of the first integrated destination is expected.
	ValidateIntegratedAddresses(
		destinations []domain.Destination, paymentID string,
	) error
	ValidateOurAddresses(addresses []string) error
	ValidateAmount(
		destinations []domain.Destination, fee domain.FeeType,
		sourceSubWallets []string,
	) error
	ValidateMixin(mixin int64, height uint64) error
	ValidatePaymentID(paymentID string, allowEmpty bool) error
	// ValidateTransaction runs all the checks on req, stopping at the first
	// failing one.
	ValidateTransaction(
		req domain.TransactionRequest,
	) fn.Result[ValidatedTransaction]
}

type validationEngine struct {
	network domain.NetworkParams
	parser  ports.AddressParser
	state   WalletState
}

func NewValidationEngine(
	network domain.NetworkParams, parser ports.AddressParser, state WalletState,
) (ValidationEngine, error) {
	if parser == nil {
		return nil, ErrMissingAddressParser
	}
	return &validationEngine{network, parser, state}, nil
}

func (v *validationEngine) ValidateAddress(
	addr string, integratedAllowed bool,
) error {
	_, err := v.parseAddress(addr, integratedAllowed)
	return err
}

func (v *validationEngine) ValidateAddresses(
	addresses []string, integratedAllowed bool,
) error {
	for _, addr := range addresses {
		if _, err := v.parseAddress(addr, integratedAllowed); err != nil {
			return err
		}
	}
	return nil
}

func (v *validationEngine) ValidateDestinations(
	destinations []domain.Destination,
) error {
	if len(destinations) == 0 {
		return domain.ErrNoDestinationGiven
	}
	for _, d := range destinations {
		if d.Amount == 0 {
			return fmt.Errorf("%w: %s", domain.ErrAmountIsZero, d.Address)
		}
		if d.Amount < 0 {
			return fmt.Errorf("%w: %d", domain.ErrNegativeValueGiven, d.Amount)
		}
	}
	return v.ValidateAddresses(destinationAddresses(destinations), true)
}

func (v *validationEngine) ValidateIntegratedAddresses(
	destinations []domain.Destination, paymentID string,
) error {
	_, err := v.integratedPaymentID(destinations, paymentID)
	return err
}

func (v *validationEngine) ValidateOurAddresses(addresses []string) error {
	return v.validateOurAddresses(v.state.Snapshot(), addresses)
}

func (v *validationEngine) ValidateAmount(
	destinations []domain.Destination, fee domain.FeeType,
	sourceSubWallets []string,
) error {
	_, err := v.validateAmount(
		v.state.Snapshot(), v.state.FeeSchedule(),
		destinations, fee, sourceSubWallets,
	)
	return err
}

func (v *validationEngine) ValidateMixin(mixin int64, height uint64) error {
	if mixin < 0 {
		return fmt.Errorf("%w: mixin %d", domain.ErrNegativeValueGiven, mixin)
	}

	limit := v.network.MixinLimits.ForHeight(height)
	if uint64(mixin) < limit.MinMixin {
		return fmt.Errorf(
			"%w: %d, min is %d at height %d",
			domain.ErrMixinTooSmall, mixin, limit.MinMixin, height,
		)
	}
	if uint64(mixin) > limit.MaxMixin {
		return fmt.Errorf(
			"%w: %d, max is %d at height %d",
			domain.ErrMixinTooBig, mixin, limit.MaxMixin, height,
		)
	}
	return nil
}

func (v *validationEngine) ValidatePaymentID(
	paymentID string, allowEmpty bool,
) error {
	if paymentID == "" && allowEmpty {
		return nil
	}
	if len(paymentID) != paymentIDLength {
		return domain.ErrPaymentIDWrongLength
	}
	if !paymentIDRegexp.MatchString(paymentID) {
		return domain.ErrPaymentIDInvalid
	}
	return nil
}

func (v *validationEngine) ValidateTransaction(
	req domain.TransactionRequest,
) fn.Result[ValidatedTransaction] {
	// All checks read the same snapshot, a concurrent sync can not make
	// them disagree.
	snapshot := v.state.Snapshot()
	fees := v.state.FeeSchedule()

	if err := v.ValidateDestinations(req.Destinations); err != nil {
		return fn.Err[ValidatedTransaction](err)
	}

	paymentID, err := v.integratedPaymentID(req.Destinations, req.PaymentID)
	if err != nil {
		return fn.Err[ValidatedTransaction](err)
	}
	if err := v.ValidatePaymentID(paymentID, true); err != nil {
		return fn.Err[ValidatedTransaction](err)
	}
	req.PaymentID = paymentID

	if err := v.ValidateMixin(req.Mixin, v.height(snapshot)); err != nil {
		return fn.Err[ValidatedTransaction](err)
	}

	ours := append([]string(nil), req.SourceSubWallets...)
	if req.ChangeAddress != "" {
		ours = append(ours, req.ChangeAddress)
	}
	if err := v.validateOurAddresses(snapshot, ours); err != nil {
		return fn.Err[ValidatedTransaction](err)
	}

	tx, err := v.validateAmount(
		snapshot, fees, req.Destinations, req.Fee, req.SourceSubWallets,
	)
	if err != nil {
		return fn.Err[ValidatedTransaction](err)
	}
	tx.Request = req
	tx.Snapshot = snapshot

	return fn.Ok(tx)
}

func (v *validationEngine) parseAddress(
	addr string, integratedAllowed bool,
) (domain.Address, error) {
	if len(addr) != v.network.StandardAddressLength &&
		len(addr) != v.network.IntegratedAddressLength {
		return domain.Address{}, fmt.Errorf(
			"%w: %d characters", domain.ErrAddressWrongLength, len(addr),
		)
	}
	if !address.IsBase58(addr) {
		return domain.Address{}, domain.ErrAddressNotBase58
	}

	parsed, err := v.parser.Parse(addr, v.network.AddressPrefix)
	if err != nil {
		return domain.Address{}, err
	}
	if parsed.IsIntegrated() && !integratedAllowed {
		return domain.Address{}, domain.ErrAddressIsIntegrated
	}
	return parsed, nil
}

// integratedPaymentID returns the payment id the transaction is going to
// carry, or an error if the integrated destinations disagree on it.
func (v *validationEngine) integratedPaymentID(
	destinations []domain.Destination, paymentID string,
) (string, error) {
	expected := paymentID
	for _, d := range destinations {
		if len(d.Address) != v.network.IntegratedAddressLength {
			continue
		}

		parsed, err := v.parseAddress(d.Address, true)
		if err != nil {
			return "", err
		}
		if expected == "" {
			expected = parsed.PaymentID
			continue
		}
		if !strings.EqualFold(parsed.PaymentID, expected) {
			return "", fmt.Errorf(
				"%w: %s embeds %s, expected %s", domain.ErrConflictingPaymentIds,
				d.Address, parsed.PaymentID, expected,
			)
		}
	}
	return expected, nil
}

func (v *validationEngine) validateOurAddresses(
	snapshot *domain.SubWalletSnapshot, addresses []string,
) error {
	for _, addr := range addresses {
		parsed, err := v.parseAddress(addr, false)
		if err != nil {
			return err
		}
		if !snapshot.HasPublicSpendKey(parsed.SpendKey) {
			return fmt.Errorf("%w: %s", domain.ErrAddressNotInWallet, addr)
		}
	}
	return nil
}

func (v *validationEngine) validateAmount(
	snapshot *domain.SubWalletSnapshot, fees domain.FeeSchedule,
	destinations []domain.Destination, fee domain.FeeType,
	sourceSubWallets []string,
) (ValidatedTransaction, error) {
	var fixedFee uint64
	switch {
	case fee.IsFixedFee():
		fixedFee = fee.FixedFee()
	case fee.IsFeePerByte():
		if fee.FeePerByte() <= 0 || fee.FeePerByte() < fees.MinFeePerByte {
			return ValidatedTransaction{}, fmt.Errorf(
				"%w: %v per byte, min is %v",
				domain.ErrFeeTooSmall, fee.FeePerByte(), fees.MinFeePerByte,
			)
		}
	default:
		return ValidatedTransaction{}, domain.ErrFeeTooSmall
	}

	amount := decimal.Zero
	for _, d := range destinations {
		if d.Amount < 0 {
			return ValidatedTransaction{}, fmt.Errorf(
				"%w: %d", domain.ErrNegativeValueGiven, d.Amount,
			)
		}
		amount = amount.Add(decimal.NewFromInt(d.Amount))
	}

	var nodeFee uint64
	if fees.HasNodeFee() {
		nodeFee = fees.Amount
	}

	total := amount.
		Add(decimal.NewFromBigInt(new(big.Int).SetUint64(fixedFee), 0)).
		Add(decimal.NewFromBigInt(new(big.Int).SetUint64(nodeFee), 0))
	if total.GreaterThanOrEqual(maxTotalAmount) {
		return ValidatedTransaction{}, fmt.Errorf(
			"%w: %s", domain.ErrWillOverflow, total,
		)
	}

	unlocked, _, err := snapshot.Balance(sourceSubWallets...)
	if err != nil {
		return ValidatedTransaction{}, err
	}
	available := decimal.NewFromBigInt(new(big.Int).SetUint64(unlocked), 0)
	if total.GreaterThan(available) {
		return ValidatedTransaction{}, fmt.Errorf(
			"%w: need %s, have %s", domain.ErrNotEnoughBalance, total, available,
		)
	}

	return ValidatedTransaction{
		Amount:  amount.BigInt().Uint64(),
		Fee:     fixedFee,
		NodeFee: nodeFee,
		Total:   total,
	}, nil
}

// height returns the height used to look up the mixin limits, the one of the
// daemon if known.
func (v *validationEngine) height(snapshot *domain.SubWalletSnapshot) uint64 {
	if info := v.state.NodeInfo(); info.Height > 0 {
		return info.Height
	}
	return snapshot.Height()
}

func destinationAddresses(destinations []domain.Destination) []string {
	return domain.TransactionRequest{Destinations: destinations}.
		DestinationAddresses()
}
