package inmemory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/kryptokrona/kryptokrona-walletd/internal/core/domain"
	"github.com/lightningnetwork/lnd/clock"
	log "github.com/sirupsen/logrus"
)

// maxBlockNumber is the boundary between unlock times expressed as block
// heights and as unix timestamps.
const maxBlockNumber = 500000000

// SubWallet identifies an account of the wallet.
type SubWallet struct {
	Address        string
	PublicSpendKey domain.Key
}

type outputKey struct {
	txHash string
	index  int
}

type output struct {
	OwnedOutput
	height     uint64
	unlockTime uint64
	spent      bool
}

// Ledger keeps the outputs received by the sub-wallets in memory.
type Ledger struct {
	lock      sync.RWMutex
	wallets   map[string]domain.Key
	scanner   OutputScanner
	clock     clock.Clock
	outputs   map[outputKey]*output
	keyImages map[string]outputKey
}

func NewLedger(
	scanner OutputScanner, clk clock.Clock, wallets ...SubWallet,
) *Ledger {
	if scanner == nil {
		scanner = NoopScanner
	}
	if clk == nil {
		clk = clock.NewDefaultClock()
	}

	keys := make(map[string]domain.Key, len(wallets))
	for _, w := range wallets {
		keys[w.Address] = w.PublicSpendKey
	}
	return &Ledger{
		wallets:   keys,
		scanner:   scanner,
		clock:     clk,
		outputs:   make(map[outputKey]*output),
		keyImages: make(map[string]outputKey),
	}
}

func (l *Ledger) PublicSpendKeys() map[string]domain.Key {
	l.lock.RLock()
	defer l.lock.RUnlock()

	keys := make(map[string]domain.Key, len(l.wallets))
	for addr, key := range l.wallets {
		keys[addr] = key
	}
	return keys
}

func (l *Ledger) Balance(
	height uint64, addresses []string,
) (map[string]uint64, error) {
	l.lock.RLock()
	defer l.lock.RUnlock()

	if len(addresses) == 0 {
		for addr := range l.wallets {
			addresses = append(addresses, addr)
		}
	}

	balances := make(map[string]uint64, len(addresses))
	for _, addr := range addresses {
		if _, ok := l.wallets[addr]; !ok {
			return nil, fmt.Errorf("%w: %s", domain.ErrUnknownSubWallet, addr)
		}
		balances[addr] = 0
	}

	now := l.clock.Now()
	for _, out := range l.outputs {
		if _, ok := balances[out.Address]; !ok {
			continue
		}
		if out.spent || out.height > height || !isUnlocked(out.unlockTime, height, now) {
			continue
		}
		balances[out.Address] += out.Output.Amount
	}
	return balances, nil
}

func (l *Ledger) ProcessBlock(ctx context.Context, block domain.Block) error {
	txs := block.Transactions
	if block.CoinbaseTransaction != nil {
		txs = append([]domain.Transaction{*block.CoinbaseTransaction}, txs...)
	}

	l.lock.Lock()
	defer l.lock.Unlock()

	for _, tx := range txs {
		for _, in := range tx.Inputs {
			key, ok := l.keyImages[in.KeyImage]
			if !ok {
				continue
			}
			if out := l.outputs[key]; out != nil && !out.spent {
				out.spent = true
				log.Debugf(
					"sub-wallet %s: output %s:%d spent in %s",
					out.Address, key.txHash, key.index, tx.Hash,
				)
			}
		}

		owned, err := l.scanner.ScanTransaction(tx)
		if err != nil {
			return fmt.Errorf("failed to scan transaction %s: %w", tx.Hash, err)
		}
		for _, o := range owned {
			if _, ok := l.wallets[o.Address]; !ok {
				continue
			}
			key := outputKey{tx.Hash, o.Index}
			if _, ok := l.outputs[key]; ok {
				continue
			}
			l.outputs[key] = &output{
				OwnedOutput: o,
				height:      block.Height,
				unlockTime:  tx.UnlockTime,
			}
			if o.KeyImage != "" {
				l.keyImages[o.KeyImage] = key
			}
		}
	}
	return nil
}

func isUnlocked(unlockTime, height uint64, now time.Time) bool {
	if unlockTime < maxBlockNumber {
		return height >= unlockTime
	}
	return uint64(now.Unix()) >= unlockTime
}
