package domain

import (
	"fmt"
	"sort"
)

// SubWalletEntry is the state of one sub-wallet at the snapshot height.
type SubWalletEntry struct {
	Address        string
	PublicSpendKey Key
	// Balance is the spendable balance, locked funds excluded.
	Balance uint64
	Locked  uint64
}

// SubWalletSnapshot is an immutable view of the sub-wallets at a given
// height. It is never updated in place: a new snapshot replaces the previous
// one after every successful sync.
type SubWalletSnapshot struct {
	height  uint64
	entries map[string]SubWalletEntry
	keys    map[Key]string
}

// NewSubWalletSnapshot returns a snapshot holding a copy of entries.
func NewSubWalletSnapshot(height uint64, entries []SubWalletEntry) *SubWalletSnapshot {
	s := &SubWalletSnapshot{
		height:  height,
		entries: make(map[string]SubWalletEntry, len(entries)),
		keys:    make(map[Key]string, len(entries)),
	}
	for _, e := range entries {
		s.entries[e.Address] = e
		s.keys[e.PublicSpendKey] = e.Address
	}
	return s
}

func (s *SubWalletSnapshot) Height() uint64 {
	if s == nil {
		return 0
	}
	return s.height
}

func (s *SubWalletSnapshot) Entry(address string) (SubWalletEntry, bool) {
	if s == nil {
		return SubWalletEntry{}, false
	}
	e, ok := s.entries[address]
	return e, ok
}

// Entries returns the snapshot entries sorted by address.
func (s *SubWalletSnapshot) Entries() []SubWalletEntry {
	if s == nil {
		return nil
	}
	entries := make([]SubWalletEntry, 0, len(s.entries))
	for _, e := range s.entries {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Address < entries[j].Address
	})
	return entries
}

// Addresses returns the sub-wallet addresses sorted.
func (s *SubWalletSnapshot) Addresses() []string {
	entries := s.Entries()
	addresses := make([]string, 0, len(entries))
	for _, e := range entries {
		addresses = append(addresses, e.Address)
	}
	return addresses
}

// HasPublicSpendKey returns whether key belongs to one of the sub-wallets.
func (s *SubWalletSnapshot) HasPublicSpendKey(key Key) bool {
	if s == nil {
		return false
	}
	_, ok := s.keys[key]
	return ok
}

// Balance returns the sum of spendable and locked balances of the given
// sub-wallets, or of all of them if none is given.
func (s *SubWalletSnapshot) Balance(addresses ...string) (unlocked, locked uint64, err error) {
	if s == nil {
		if len(addresses) > 0 {
			return 0, 0, fmt.Errorf("%w: %s", ErrUnknownSubWallet, addresses[0])
		}
		return 0, 0, nil
	}
	if len(addresses) == 0 {
		for _, e := range s.entries {
			unlocked += e.Balance
			locked += e.Locked
		}
		return
	}

	seen := make(map[string]struct{}, len(addresses))
	for _, addr := range addresses {
		if _, ok := seen[addr]; ok {
			continue
		}
		seen[addr] = struct{}{}

		e, ok := s.entries[addr]
		if !ok {
			return 0, 0, fmt.Errorf("%w: %s", ErrUnknownSubWallet, addr)
		}
		unlocked += e.Balance
		locked += e.Locked
	}
	return
}
