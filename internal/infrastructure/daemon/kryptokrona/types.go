package kryptokrona

type infoResponse struct {
	Height                   uint64 `json:"height"`
	NetworkHeight            uint64 `json:"network_height"`
	IncomingConnectionsCount int    `json:"incoming_connections_count"`
	OutgoingConnectionsCount int    `json:"outgoing_connections_count"`
	Synced                   bool   `json:"synced"`
	Version                  string `json:"version"`
	Status                   string `json:"status"`
}

type heightResponse struct {
	Height        uint64 `json:"height"`
	NetworkHeight uint64 `json:"network_height"`
	Status        string `json:"status"`
}

type feeResponse struct {
	Address string `json:"address"`
	Amount  uint64 `json:"amount"`
	Status  string `json:"status"`
}

type walletSyncDataRequest struct {
	BlockHashCheckpoints     []string `json:"blockHashCheckpoints"`
	StartHeight              uint64   `json:"startHeight"`
	StartTimestamp           uint64   `json:"startTimestamp"`
	BlockCount               uint64   `json:"blockCount"`
	SkipCoinbaseTransactions bool     `json:"skipCoinbaseTransactions"`
}

type walletSyncDataResponse struct {
	Items    []block   `json:"items"`
	Status   string    `json:"status"`
	Synced   bool      `json:"synced"`
	TopBlock *topBlock `json:"topBlock,omitempty"`
}

type topBlock struct {
	Hash   string `json:"hash"`
	Height uint64 `json:"height"`
}

type block struct {
	BlockHash      string        `json:"blockHash"`
	BlockHeight    uint64        `json:"blockHeight"`
	BlockTimestamp int64         `json:"blockTimestamp"`
	CoinbaseTX     *transaction  `json:"coinbaseTX,omitempty"`
	Transactions   []transaction `json:"transactions"`
}

type transaction struct {
	Hash        string   `json:"hash"`
	TxPublicKey string   `json:"txPublicKey"`
	PaymentID   string   `json:"paymentID"`
	UnlockTime  uint64   `json:"unlockTime"`
	Inputs      []input  `json:"inputs"`
	Outputs     []output `json:"outputs"`
}

type input struct {
	Amount   uint64 `json:"amount"`
	KeyImage string `json:"k_image"`
}

type output struct {
	Key         string `json:"key"`
	Amount      uint64 `json:"amount"`
	GlobalIndex uint64 `json:"globalIndex"`
}
