package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/dondinetwork/go-dondi/internal/dondi"
	"github.com/ethereum/go-ethereum/common"
)

// Dashboard builds the views of the dondi web app by replaying contract events.
// Views are rebuilt from scratch on every call.
type Dashboard interface {
	Profile(ctx context.Context, addr common.Address) (dondi.Profile, error)
	SlotDetail(ctx context.Context, addr common.Address, m dondi.Matrix, l dondi.Level) (dondi.SlotDetail, error)
	Statistics(ctx context.Context, addr common.Address, f dondi.StatisticsFilter) (dondi.StatisticsPage, error)
	Partners(ctx context.Context, addr common.Address, f dondi.PartnersFilter) (dondi.PartnersPage, error)
	Info(ctx context.Context) (dondi.Info, error)
	ReinvestPartners(ctx context.Context, addr common.Address, m dondi.Matrix, l dondi.Level) (dondi.ReinvestPartners, error)
}

// RegisterMethod is the selector of registrationExt(address).
const RegisterMethod = "0x797eee24"

// Config contains configuration parameters for the dashboard.
type Config struct {
	// StartBlock is the block the contract was deployed at. Event queries start there.
	StartBlock uint64
	// ContractAddress is the address whose transactions are aggregated by Info.
	ContractAddress common.Address
	// MaxConcurrentCalls bounds the chain calls in flight for a single fan-out.
	MaxConcurrentCalls int
	// Window is the lookback of the "in day" figures of Info.
	Window time.Duration
	// Clock returns the current time.
	Clock func() time.Time
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		MaxConcurrentCalls: 16,
		Window:             24 * time.Hour,
		Clock:              time.Now,
	}
}

// Option modifies a configuration attribute.
type Option func(*Config) error

// WithStartBlock sets the first block of event queries.
func WithStartBlock(block uint64) Option {
	return func(c *Config) error {
		c.StartBlock = block
		return nil
	}
}

// WithContractAddress sets the contract address used by Info.
func WithContractAddress(addr common.Address) Option {
	return func(c *Config) error {
		if addr == (common.Address{}) {
			return fmt.Errorf("contract address can't be empty")
		}
		c.ContractAddress = addr
		return nil
	}
}

// WithMaxConcurrentCalls bounds the chain calls in flight for a single fan-out.
func WithMaxConcurrentCalls(n int) Option {
	return func(c *Config) error {
		if n < 1 {
			return fmt.Errorf("max concurrent calls must be positive")
		}
		c.MaxConcurrentCalls = n
		return nil
	}
}

// WithClock replaces the clock used by Info.
func WithClock(clock func() time.Time) Option {
	return func(c *Config) error {
		if clock == nil {
			return fmt.Errorf("clock can't be nil")
		}
		c.Clock = clock
		return nil
	}
}
