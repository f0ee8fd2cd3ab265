package blockchain

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
)

var (
	dialEVMClient    = ethclient.Dial
	getClientChainID = func(client *ethclient.Client, ctx context.Context) (*big.Int, error) {
		return client.ChainID(ctx)
	}
)

// DefaultDeploymentGasUnits is the gas budget assumed for deploying a
// document registry contract when no measured value is available.
const DefaultDeploymentGasUnits = 1_500_000

var weiPerEth = new(big.Float).SetFloat64(1e18)

// EVMClient provides chain access for gas quoting and deployment tracking
type EVMClient struct {
	client  *ethclient.Client
	chainID *big.Int
	rpcURL  string
	// testGasPrice allows deterministic unit tests without network sockets.
	testGasPrice func(ctx context.Context) (*big.Int, error)
}

// NewEVMClient creates a new EVM client
func NewEVMClient(rpcURL string) (*EVMClient, error) {
	client, err := dialEVMClient(rpcURL)
	if err != nil {
		return nil, err
	}

	chainID, err := getClientChainID(client, context.Background())
	if err != nil {
		return nil, err
	}

	return &EVMClient{
		client:  client,
		chainID: chainID,
		rpcURL:  rpcURL,
	}, nil
}

// NewEVMClientWithGasPrice creates an EVM client that uses an injected gas
// price source. This is intended for unit tests where RPC sockets are
// unavailable.
func NewEVMClientWithGasPrice(chainID *big.Int, gasPriceFn func(ctx context.Context) (*big.Int, error)) *EVMClient {
	if chainID == nil {
		chainID = big.NewInt(1)
	}
	return &EVMClient{
		chainID:      chainID,
		testGasPrice: gasPriceFn,
	}
}

// ChainID returns the chain ID
func (c *EVMClient) ChainID() *big.Int {
	return c.chainID
}

// SuggestGasPrice returns the node's current gas price in wei
func (c *EVMClient) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	if c.testGasPrice != nil {
		return c.testGasPrice(ctx)
	}
	return c.client.SuggestGasPrice(ctx)
}

// EstimateDeploymentFee quotes the native-token cost of a deployment at the
// current gas price. The result is a decimal string in whole coin units with
// 8 fractional digits, matching the precision of the stored cost columns.
func (c *EVMClient) EstimateDeploymentFee(ctx context.Context, gasUnits uint64) (string, *big.Int, error) {
	if gasUnits == 0 {
		gasUnits = DefaultDeploymentGasUnits
	}

	price, err := c.SuggestGasPrice(ctx)
	if err != nil {
		return "", nil, fmt.Errorf("failed to fetch gas price: %w", err)
	}

	wei := new(big.Int).Mul(price, new(big.Int).SetUint64(gasUnits))
	eth := new(big.Float).Quo(new(big.Float).SetInt(wei), weiPerEth)
	return fmt.Sprintf("%.8f", eth), price, nil
}

// GetBalance gets the native token balance of an address
func (c *EVMClient) GetBalance(ctx context.Context, address string) (*big.Int, error) {
	addr := common.HexToAddress(address)
	return c.client.BalanceAt(ctx, addr, nil)
}

// GetTransactionReceipt gets transaction receipt
func (c *EVMClient) GetTransactionReceipt(ctx context.Context, txHash string) (*types.Receipt, error) {
	hash := common.HexToHash(txHash)
	return c.client.TransactionReceipt(ctx, hash)
}

// GetBlockNumber gets the latest block number
func (c *EVMClient) GetBlockNumber(ctx context.Context) (uint64, error) {
	return c.client.BlockNumber(ctx)
}

// Close closes the client connection
func (c *EVMClient) Close() {
	if c.client != nil {
		c.client.Close()
	}
}
