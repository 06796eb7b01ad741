package chain

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"

	"marketGraph/internal/model"
)

// Client wraps go-ethereum RPC and the batch query contract.
type Client struct {
	rpcClient  *rpc.Client
	ethClient  *ethclient.Client
	batchQuery common.Address
}

// NewClient creates a chain client from the RPC URL and the deployed
// batch query contract address.
func NewClient(ctx context.Context, rpcURL string, batchQuery common.Address) (*Client, error) {
	rpcClient, err := rpc.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, err
	}

	return &Client{
		rpcClient:  rpcClient,
		ethClient:  ethclient.NewClient(rpcClient),
		batchQuery: batchQuery,
	}, nil
}

// Close closes the underlying RPC client.
func (c *Client) Close() {
	if c.rpcClient != nil {
		c.rpcClient.Close()
	}
}

// ChainID returns the chain ID.
func (c *Client) ChainID(ctx context.Context) (*big.Int, error) {
	return c.ethClient.ChainID(ctx)
}

// LatestBlockNumber returns the latest block number.
func (c *Client) LatestBlockNumber(ctx context.Context) (uint64, error) {
	return c.ethClient.BlockNumber(ctx)
}

func (c *Client) callBatchQuery(ctx context.Context, method string, args ...interface{}) ([]interface{}, error) {
	parsed, err := BatchQueryABI()
	if err != nil {
		return nil, fmt.Errorf("parse batch query abi: %w", err)
	}
	data, err := parsed.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", method, err)
	}
	msg := ethereum.CallMsg{To: &c.batchQuery, Data: data}
	resp, err := c.ethClient.CallContract(ctx, msg, nil)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", method, err)
	}
	values, err := parsed.Unpack(method, resp)
	if err != nil {
		return nil, fmt.Errorf("unpack %s: %w", method, err)
	}
	return values, nil
}

// PairsByIndexRange returns the factory's registry entries with indexes
// in [start, stop).
func (c *Client) PairsByIndexRange(ctx context.Context, factory common.Address, start, stop uint64) ([]model.RawPair, error) {
	values, err := c.callBatchQuery(ctx, "getPairsByIndexRange",
		factory, new(big.Int).SetUint64(start), new(big.Int).SetUint64(stop))
	if err != nil {
		return nil, err
	}

	rows, ok := values[0].([][3]common.Address)
	if !ok {
		return nil, fmt.Errorf("unexpected pair rows type %T", values[0])
	}

	pairs := make([]model.RawPair, 0, len(rows))
	for _, row := range rows {
		pairs = append(pairs, model.RawPair{Token0: row[0], Token1: row[1], Pair: row[2]})
	}
	return pairs, nil
}

// ReservesByPairs returns each pair's two balances, ordered identically
// to the request. The contract's trailing blockTimestampLast slot is
// dropped.
func (c *Client) ReservesByPairs(ctx context.Context, pairs []common.Address) ([][2]*big.Int, error) {
	values, err := c.callBatchQuery(ctx, "getReservesByPairs", pairs)
	if err != nil {
		return nil, err
	}

	rows, ok := values[0].([][3]*big.Int)
	if !ok {
		return nil, fmt.Errorf("unexpected reserve rows type %T", values[0])
	}
	if len(rows) != len(pairs) {
		return nil, fmt.Errorf("got %d reserve rows for %d pairs", len(rows), len(pairs))
	}

	balances := make([][2]*big.Int, len(rows))
	for i, row := range rows {
		balances[i] = [2]*big.Int{row[0], row[1]}
	}
	return balances, nil
}
