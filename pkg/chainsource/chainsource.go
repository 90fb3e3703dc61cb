package chainsource

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/dondinetwork/go-dondi/internal/dondi"
	"github.com/dondinetwork/go-dondi/pkg/wallet"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Filter restricts an event query by indexed argument name (user, referrer, receiver, ...).
type Filter map[string]common.Address

// EventSource gives access to the contract history and its current state.
// Every read runs against the latest block, so two calls of the same request
// can observe different heads.
type EventSource interface {
	// FetchEvents returns the events of type t emitted since fromBlock, in emission order.
	FetchEvents(ctx context.Context, t dondi.EventType, filter Filter, fromBlock uint64) ([]dondi.ContractEvent, error)
	FetchTransaction(ctx context.Context, hash common.Hash) (dondi.TransactionContext, error)
	FetchReceipt(ctx context.Context, hash common.Hash) ([]*types.Log, error)
	FetchBlock(ctx context.Context, number uint64) (dondi.BlockInfo, error)
	FetchCurrentUser(ctx context.Context, addr common.Address) (dondi.UserRecord, error)
	FetchSlotState(ctx context.Context, addr common.Address, m dondi.Matrix, l dondi.Level) (dondi.SlotState, error)
	IsLevelActive(ctx context.Context, addr common.Address, m dondi.Matrix, l dondi.Level) (bool, error)
	LatestBlock(ctx context.Context) (uint64, error)
}

// ContractReader exposes the remaining view functions of the contract as they are.
type ContractReader interface {
	LastLevel(ctx context.Context) (uint8, error)
	Balances(ctx context.Context, addr common.Address) (*big.Int, error)
	FindFreeReferrer(ctx context.Context, addr common.Address, m dondi.Matrix, l dondi.Level) (common.Address, error)
	IDToAddress(ctx context.Context, id *big.Int) (common.Address, error)
	UserIDs(ctx context.Context, id *big.Int) (common.Address, error)
	IsUserExists(ctx context.Context, addr common.Address) (bool, error)
	LastUserID(ctx context.Context) (*big.Int, error)
	LevelPrice(ctx context.Context, l dondi.Level) (*big.Int, error)
	Owner(ctx context.Context) (common.Address, error)
}

// Submitter sends payable transactions to the contract and waits for them to be mined.
type Submitter interface {
	RegistrationExt(ctx context.Context, w *wallet.Wallet, referrer common.Address, value *big.Int) (*types.Receipt, error)
	BuyNewLevel(
		ctx context.Context, w *wallet.Wallet, m dondi.Matrix, l dondi.Level, value *big.Int,
	) (*types.Receipt, error)
}

// Chain groups every capability of the contract adapter.
type Chain interface {
	EventSource
	ContractReader
	Submitter
}

// Config contains configuration parameters for the chain adapter.
type Config struct {
	MaxBlocksFetchSize int64
	CallTimeout        time.Duration
	GasLimit           uint64
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		MaxBlocksFetchSize: 100_000,
		CallTimeout:        30 * time.Second,
		GasLimit:           3_000_000,
	}
}

// Option modifies a configuration attribute.
type Option func(*Config) error

// WithMaxBlocksFetchSize sets the initial block window of a FilterLogs call. The
// window shrinks if the provider rejects it as too large.
func WithMaxBlocksFetchSize(size int64) Option {
	return func(c *Config) error {
		if size < 1 {
			return fmt.Errorf("max blocks fetch size must be positive")
		}
		c.MaxBlocksFetchSize = size
		return nil
	}
}

// WithCallTimeout bounds every RPC call.
func WithCallTimeout(timeout time.Duration) Option {
	return func(c *Config) error {
		if timeout <= 0 {
			return fmt.Errorf("call timeout must be positive")
		}
		c.CallTimeout = timeout
		return nil
	}
}

// WithGasLimit sets the gas limit of submitted transactions.
func WithGasLimit(limit uint64) Option {
	return func(c *Config) error {
		if limit == 0 {
			return fmt.Errorf("gas limit can't be zero")
		}
		c.GasLimit = limit
		return nil
	}
}
