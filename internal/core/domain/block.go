package domain

import "time"

// TransactionOutput is an output of a transaction. Key is the one-time
// output public key.
type TransactionOutput struct {
	Key         string
	Amount      uint64
	GlobalIndex uint64
}

// TransactionInput is a key input of a transaction, identified by the key
// image of the output it spends.
type TransactionInput struct {
	KeyImage string
	Amount   uint64
}

type Transaction struct {
	Hash       string
	PublicKey  string
	PaymentID  string
	UnlockTime uint64
	Inputs     []TransactionInput
	Outputs    []TransactionOutput
}

// Block is a block as returned by the daemon sync endpoint, limited to the
// data a wallet needs.
type Block struct {
	Hash                string
	Height              uint64
	Timestamp           time.Time
	CoinbaseTransaction *Transaction
	Transactions        []Transaction
}

// ContainsTransaction returns whether the block includes a transaction with
// the given hash.
func (b Block) ContainsTransaction(hash string) bool {
	if b.CoinbaseTransaction != nil && b.CoinbaseTransaction.Hash == hash {
		return true
	}
	for _, tx := range b.Transactions {
		if tx.Hash == hash {
			return true
		}
	}
	return false
}

// ChainInfo is the state of the daemon and of the network it is connected to.
type ChainInfo struct {
	Height        uint64
	NetworkHeight uint64
	PeerCount     int
	Synced        bool
	Version       string
}
