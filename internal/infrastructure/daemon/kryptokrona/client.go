// Package kryptokrona implements ports.Daemon with the http api of a
// kryptokrona node.
package kryptokrona

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/kryptokrona/kryptokrona-walletd/internal/core/domain"
	"github.com/kryptokrona/kryptokrona-walletd/internal/core/ports"
	"github.com/kryptokrona/kryptokrona-walletd/pkg/httputil"
)

const (
	DefaultBlockBatchSize = 100
	// DefaultMinFeePerByte is the minimum fee rate accepted by the network
	// for transactions paying a fee per byte.
	DefaultMinFeePerByte = 1.953125

	statusOK = "OK"
)

var (
	// ErrUnexpectedStatus is returned if the node answers with an error.
	ErrUnexpectedStatus = errors.New("unexpected response from daemon")
)

type Config struct {
	Addr           string
	Timeout        time.Duration
	BlockBatchSize uint64
	MinFeePerByte  float64
}

type client struct {
	baseURL       string
	client        *httputil.Client
	batchSize     uint64
	minFeePerByte float64
}

func NewClient(cfg Config) (ports.Daemon, error) {
	if cfg.Addr == "" {
		return nil, fmt.Errorf("missing daemon address")
	}
	baseURL := strings.TrimSuffix(cfg.Addr, "/")
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		baseURL = "http://" + baseURL
	}
	if cfg.BlockBatchSize == 0 {
		cfg.BlockBatchSize = DefaultBlockBatchSize
	}
	if cfg.MinFeePerByte <= 0 {
		cfg.MinFeePerByte = DefaultMinFeePerByte
	}

	return &client{
		baseURL:       baseURL,
		client:        httputil.NewClient(cfg.Timeout),
		batchSize:     cfg.BlockBatchSize,
		minFeePerByte: cfg.MinFeePerByte,
	}, nil
}

func (c *client) Init(ctx context.Context) (domain.ChainInfo, error) {
	var resp infoResponse
	if err := c.call(ctx, http.MethodGet, "/info", nil, &resp); err != nil {
		return domain.ChainInfo{}, err
	}

	return domain.ChainInfo{
		Height:        topHeight(resp.Height),
		NetworkHeight: topHeight(resp.NetworkHeight),
		PeerCount:     resp.IncomingConnectionsCount + resp.OutgoingConnectionsCount,
		Synced:        resp.Synced,
		Version:       resp.Version,
	}, nil
}

func (c *client) FetchBlocks(
	ctx context.Context, fromHeight uint64, checkpoints []string,
) ([]domain.Block, error) {
	req := walletSyncDataRequest{
		BlockHashCheckpoints: checkpoints,
		StartHeight:          fromHeight,
		BlockCount:           c.batchSize,
	}
	if req.BlockHashCheckpoints == nil {
		req.BlockHashCheckpoints = []string{}
	}

	var resp walletSyncDataResponse
	if err := c.call(ctx, http.MethodPost, "/getwalletsyncdata", req, &resp); err != nil {
		return nil, err
	}
	if resp.Status != "" && resp.Status != statusOK {
		return nil, fmt.Errorf("%w: status %s", ErrUnexpectedStatus, resp.Status)
	}

	blocks := make([]domain.Block, 0, len(resp.Items))
	for _, b := range resp.Items {
		blocks = append(blocks, b.toDomain())
	}
	return blocks, nil
}

func (c *client) FetchFeeInfo(ctx context.Context) (domain.FeeSchedule, error) {
	var resp feeResponse
	if err := c.call(ctx, http.MethodGet, "/fee", nil, &resp); err != nil {
		return domain.FeeSchedule{}, err
	}

	return domain.FeeSchedule{
		Address:       resp.Address,
		Amount:        resp.Amount,
		MinFeePerByte: c.minFeePerByte,
	}, nil
}

func (c *client) GetChainHeight(ctx context.Context) (domain.ChainInfo, error) {
	var resp heightResponse
	if err := c.call(ctx, http.MethodGet, "/height", nil, &resp); err != nil {
		return domain.ChainInfo{}, err
	}

	height, networkHeight := topHeight(resp.Height), topHeight(resp.NetworkHeight)
	return domain.ChainInfo{
		Height:        height,
		NetworkHeight: networkHeight,
		Synced:        height >= networkHeight,
	}, nil
}

func (c *client) call(
	ctx context.Context, method, path string, body, result interface{},
) error {
	var bodyString string
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return err
		}
		bodyString = string(buf)
	}

	status, resp, err := c.client.NewHTTPRequest(
		ctx, method, c.baseURL+path, bodyString,
		map[string]string{"Content-Type": "application/json"},
	)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %s", domain.ErrDaemonOffline, err)
	}
	if status != http.StatusOK {
		return fmt.Errorf("%w: %s returned %d %s", ErrUnexpectedStatus, path, status, resp)
	}

	if err := json.Unmarshal([]byte(resp), result); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	return nil
}

// topHeight converts the block count reported by the node into the height
// of the top block.
func topHeight(blockCount uint64) uint64 {
	if blockCount == 0 {
		return 0
	}
	return blockCount - 1
}

func (b block) toDomain() domain.Block {
	out := domain.Block{
		Hash:         b.BlockHash,
		Height:       b.BlockHeight,
		Timestamp:    time.Unix(b.BlockTimestamp, 0),
		Transactions: make([]domain.Transaction, 0, len(b.Transactions)),
	}
	if b.CoinbaseTX != nil {
		tx := b.CoinbaseTX.toDomain()
		out.CoinbaseTransaction = &tx
	}
	for _, tx := range b.Transactions {
		out.Transactions = append(out.Transactions, tx.toDomain())
	}
	return out
}

func (t transaction) toDomain() domain.Transaction {
	tx := domain.Transaction{
		Hash:       t.Hash,
		PublicKey:  t.TxPublicKey,
		PaymentID:  t.PaymentID,
		UnlockTime: t.UnlockTime,
		Inputs:     make([]domain.TransactionInput, 0, len(t.Inputs)),
		Outputs:    make([]domain.TransactionOutput, 0, len(t.Outputs)),
	}
	for _, in := range t.Inputs {
		tx.Inputs = append(tx.Inputs, domain.TransactionInput{
			KeyImage: in.KeyImage,
			Amount:   in.Amount,
		})
	}
	for _, out := range t.Outputs {
		tx.Outputs = append(tx.Outputs, domain.TransactionOutput{
			Key:         out.Key,
			Amount:      out.Amount,
			GlobalIndex: out.GlobalIndex,
		})
	}
	return tx
}
