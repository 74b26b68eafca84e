package domain

import (
	"math"
	"sort"
)

// MixinLimit is the mixin policy enforced above a given block height.
type MixinLimit struct {
	Height       uint64
	MinMixin     uint64
	MaxMixin     uint64
	DefaultMixin uint64
}

// MixinLimits is the list of mixin policies of a network, ordered by
// activation height.
type MixinLimits struct {
	limits       []MixinLimit
	defaultMixin uint64
}

// NewMixinLimits returns the mixin limits of a network. defaultMixin is the
// mixin suggested below the first activation height.
func NewMixinLimits(defaultMixin uint64, limits ...MixinLimit) MixinLimits {
	sorted := append([]MixinLimit(nil), limits...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Height < sorted[j].Height
	})
	return MixinLimits{sorted, defaultMixin}
}

// ForHeight returns the limit in force at height: the last one whose
// activation height is below it. Below the first activation height the mixin
// is unbounded.
func (m MixinLimits) ForHeight(height uint64) MixinLimit {
	limit := MixinLimit{
		MinMixin:     0,
		MaxMixin:     math.MaxUint64,
		DefaultMixin: m.defaultMixin,
	}
	for _, l := range m.limits {
		if height > l.Height {
			limit = l
		}
	}
	return limit
}

// NetworkParams are the constants of the network the wallet runs on.
type NetworkParams struct {
	Name                    string
	AddressPrefix           uint64
	StandardAddressLength   int
	IntegratedAddressLength int
	MixinLimits             MixinLimits
	// ConfirmationDepth is the number of blocks a sent transaction must be
	// buried under before its reserved funds are released.
	ConfirmationDepth uint64
}

// KryptokronaMainnet are the parameters of the kryptokrona main network.
var KryptokronaMainnet = NetworkParams{
	Name:                    "mainnet",
	AddressPrefix:           2239254,
	StandardAddressLength:   99,
	IntegratedAddressLength: 187,
	MixinLimits: NewMixinLimits(
		3,
		MixinLimit{Height: 440000, MinMixin: 0, MaxMixin: 100, DefaultMixin: 3},
		MixinLimit{Height: 620000, MinMixin: 7, MaxMixin: 7, DefaultMixin: 7},
		MixinLimit{Height: 800000, MinMixin: 3, MaxMixin: 3, DefaultMixin: 3},
	),
	ConfirmationDepth: 10,
}
