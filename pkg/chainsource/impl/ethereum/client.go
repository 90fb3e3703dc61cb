package ethereum

import (
	"context"
	"fmt"
	"math/big"
	"reflect"
	"strings"
	"time"

	"github.com/dondinetwork/go-dondi/internal/dondi"
	"github.com/dondinetwork/go-dondi/pkg/chainsource"
	"github.com/dondinetwork/go-dondi/pkg/errors"
	"github.com/dondinetwork/go-dondi/pkg/logging"
	"github.com/dondinetwork/go-dondi/pkg/metrics"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric/global"
	"go.opentelemetry.io/otel/metric/instrument"
	"go.uber.org/atomic"
)

// minBlocksFetchSize is the smallest FilterLogs window before giving up on a
// provider that keeps rejecting the range.
const minBlocksFetchSize = 1_000

// Backend is the subset of *ethclient.Client used by the Client.
type Backend interface {
	bind.ContractBackend
	bind.DeployBackend
	BlockNumber(ctx context.Context) (uint64, error)
}

// Client is the go-ethereum implementation of chainsource.Chain.
type Client struct {
	log      zerolog.Logger
	backend  Backend
	contract *Contract
	address  common.Address
	chainID  int64
	config   *chainsource.Config

	maxBlocksFetchSize atomic.Int64

	// Metrics
	mEventCounter     instrument.Int64Counter
	mCallCounter      instrument.Int64Counter
	mLatencyHistogram instrument.Int64Histogram
}

var _ chainsource.Chain = (*Client)(nil)

// NewClient creates a new Client bound to the contract deployed at address.
func NewClient(
	backend Backend,
	chainID int64,
	address common.Address,
	opts ...chainsource.Option,
) (*Client, error) {
	config := chainsource.DefaultConfig()
	for _, o := range opts {
		if err := o(config); err != nil {
			return nil, fmt.Errorf("applying provided option: %s", err)
		}
	}

	contract, err := NewContract(address, backend)
	if err != nil {
		return nil, fmt.Errorf("creating contract: %s", err)
	}

	log := logging.Component("chainsource")
	log = log.With().
		Int64("chain_id", chainID).
		Str("contract", address.Hex()).
		Logger()

	c := &Client{
		log:      log,
		backend:  backend,
		contract: contract,
		address:  address,
		chainID:  chainID,
		config:   config,
	}
	c.maxBlocksFetchSize.Store(config.MaxBlocksFetchSize)
	if err := c.initMetrics(); err != nil {
		return nil, fmt.Errorf("initializing metrics instruments: %s", err)
	}

	return c, nil
}

// FetchEvents implements chainsource.EventSource. The range up to the current
// head is scanned in windows so providers with log range limits can serve it.
func (c *Client) FetchEvents(
	ctx context.Context,
	t dondi.EventType,
	filter chainsource.Filter,
	fromBlock uint64,
) (events []dondi.ContractEvent, err error) {
	defer c.record(ctx, "FetchEvents", time.Now(), &err)

	topics, err := c.topicsFor(t, filter)
	if err != nil {
		return nil, fmt.Errorf("building topics: %s", err)
	}

	head, err := c.LatestBlock(ctx)
	if err != nil {
		return nil, err
	}

	for from := fromBlock; from <= head; {
		window := c.maxBlocksFetchSize.Load()
		to := from + uint64(window) - 1
		if to > head {
			to = head
		}

		query := ethereum.FilterQuery{
			FromBlock: new(big.Int).SetUint64(from),
			ToBlock:   new(big.Int).SetUint64(to),
			Addresses: []common.Address{c.address},
			Topics:    topics,
		}
		logs, err := c.filterLogs(ctx, query)
		if err != nil {
			if isRangeTooLarge(err) && window > minBlocksFetchSize {
				c.maxBlocksFetchSize.CompareAndSwap(window, window*80/100)
				c.log.Warn().
					Err(err).
					Int64("max_blocks_fetch_size", c.maxBlocksFetchSize.Load()).
					Msg("shrinking filter logs window")
				continue
			}
			return nil, errors.NewChainQueryError(fmt.Sprintf("filter %s logs from %d to %d", t, from, to), err)
		}

		for _, l := range logs {
			e, err := c.parseEvent(ctx, l)
			if err != nil {
				return nil, errors.NewChainQueryError("parsing event", err)
			}
			events = append(events, e)
		}
		from = to + 1
	}

	c.log.Debug().
		Str("event", string(t)).
		Int("count", len(events)).
		Msg("fetched events")

	return events, nil
}

func (c *Client) filterLogs(ctx context.Context, q ethereum.FilterQuery) ([]types.Log, error) {
	ctx, cancel := context.WithTimeout(ctx, c.config.CallTimeout)
	defer cancel()
	return c.backend.FilterLogs(ctx, q)
}

// FetchTransaction implements chainsource.EventSource.
func (c *Client) FetchTransaction(ctx context.Context, hash common.Hash) (_ dondi.TransactionContext, err error) {
	defer c.record(ctx, "FetchTransaction", time.Now(), &err)

	receipt, err := c.receipt(ctx, hash)
	if err != nil {
		return dondi.TransactionContext{}, err
	}
	block, err := c.FetchBlock(ctx, receipt.BlockNumber.Uint64())
	if err != nil {
		return dondi.TransactionContext{}, err
	}

	return dondi.TransactionContext{
		TxHash:         hash,
		BlockNumber:    block.Number,
		BlockTimestamp: block.Timestamp,
		ReceiptLogs:    receipt.Logs,
	}, nil
}

// FetchReceipt implements chainsource.EventSource.
func (c *Client) FetchReceipt(ctx context.Context, hash common.Hash) ([]*types.Log, error) {
	receipt, err := c.receipt(ctx, hash)
	if err != nil {
		return nil, err
	}
	return receipt.Logs, nil
}

func (c *Client) receipt(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	ctx, cancel := context.WithTimeout(ctx, c.config.CallTimeout)
	defer cancel()

	receipt, err := c.backend.TransactionReceipt(ctx, hash)
	if err != nil {
		return nil, errors.NewChainQueryError("get receipt "+hash.Hex(), err)
	}
	return receipt, nil
}

// FetchBlock implements chainsource.EventSource.
func (c *Client) FetchBlock(ctx context.Context, number uint64) (dondi.BlockInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, c.config.CallTimeout)
	defer cancel()

	header, err := c.backend.HeaderByNumber(ctx, new(big.Int).SetUint64(number))
	if err != nil {
		return dondi.BlockInfo{}, errors.NewChainQueryError(fmt.Sprintf("get block header %d", number), err)
	}
	return dondi.BlockInfo{Number: number, Timestamp: header.Time}, nil
}

// LatestBlock implements chainsource.EventSource.
func (c *Client) LatestBlock(ctx context.Context) (uint64, error) {
	ctx, cancel := context.WithTimeout(ctx, c.config.CallTimeout)
	defer cancel()

	head, err := c.backend.BlockNumber(ctx)
	if err != nil {
		return 0, errors.NewChainQueryError("get block number", err)
	}
	return head, nil
}

// FetchCurrentUser implements chainsource.EventSource.
func (c *Client) FetchCurrentUser(ctx context.Context, addr common.Address) (_ dondi.UserRecord, err error) {
	defer c.record(ctx, "FetchCurrentUser", time.Now(), &err)

	opts, cancel := c.callOpts(ctx)
	defer cancel()

	user, err := c.contract.Users(opts, addr)
	if err != nil {
		return dondi.UserRecord{}, errors.NewChainQueryError("users "+addr.Hex(), err)
	}
	return dondi.UserRecord{
		ID:            user.Id,
		Referrer:      user.Referrer,
		PartnersCount: user.PartnersCount,
	}, nil
}

// FetchSlotState implements chainsource.EventSource.
func (c *Client) FetchSlotState(
	ctx context.Context,
	addr common.Address,
	m dondi.Matrix,
	l dondi.Level,
) (_ dondi.SlotState, err error) {
	defer c.record(ctx, "FetchSlotState", time.Now(), &err)

	opts, cancel := c.callOpts(ctx)
	defer cancel()

	switch m {
	case dondi.X3:
		slot, err := c.contract.UsersX3Matrix(opts, addr, uint8(l))
		if err != nil {
			return dondi.SlotState{}, errors.NewChainQueryError("usersX3Matrix "+addr.Hex(), err)
		}
		return dondi.SlotState{
			Matrix:          dondi.X3,
			CurrentReferrer: slot.CurrentReferrer,
			FirstLevel:      slot.Referrals,
			Blocked:         slot.Blocked,
		}, nil
	case dondi.X6:
		slot, err := c.contract.UsersX6Matrix(opts, addr, uint8(l))
		if err != nil {
			return dondi.SlotState{}, errors.NewChainQueryError("usersX6Matrix "+addr.Hex(), err)
		}
		return dondi.SlotState{
			Matrix:          dondi.X6,
			CurrentReferrer: slot.CurrentReferrer,
			FirstLevel:      slot.FirstLevelReferrals,
			SecondLevel:     slot.SecondLevelReferals,
			Blocked:         slot.Blocked,
			ClosedPart:      slot.ClosedPart,
		}, nil
	default:
		return dondi.SlotState{}, fmt.Errorf("unknown matrix %d", m)
	}
}

// IsLevelActive implements chainsource.EventSource.
func (c *Client) IsLevelActive(ctx context.Context, addr common.Address, m dondi.Matrix, l dondi.Level) (bool, error) {
	opts, cancel := c.callOpts(ctx)
	defer cancel()

	var (
		active bool
		err    error
	)
	switch m {
	case dondi.X3:
		active, err = c.contract.UsersActiveX3Levels(opts, addr, uint8(l))
	case dondi.X6:
		active, err = c.contract.UsersActiveX6Levels(opts, addr, uint8(l))
	default:
		return false, fmt.Errorf("unknown matrix %d", m)
	}
	if err != nil {
		return false, errors.NewChainQueryError(fmt.Sprintf("usersActive%sLevels %s", strings.ToUpper(m.String()), addr.Hex()), err)
	}
	return active, nil
}

func (c *Client) callOpts(ctx context.Context) (*bind.CallOpts, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(ctx, c.config.CallTimeout)
	return &bind.CallOpts{Context: ctx}, cancel
}

// parseEvent deconstructs a raw log into a dondi.ContractEvent. Non-indexed
// arguments live in the log data and indexed ones in Topics[1:].
func (c *Client) parseEvent(ctx context.Context, l types.Log) (dondi.ContractEvent, error) {
	if len(l.Topics) == 0 {
		return dondi.ContractEvent{}, fmt.Errorf("log %s:%d has no topics", l.TxHash.Hex(), l.Index)
	}
	scABI := c.contract.ABI()
	eventDescr, err := scABI.EventByID(l.Topics[0])
	if err != nil {
		return dondi.ContractEvent{}, fmt.Errorf("detecting event type: %s", err)
	}
	se, ok := SupportedEvents[dondi.EventType(eventDescr.Name)]
	if !ok {
		return dondi.ContractEvent{}, fmt.Errorf("unknown event type %s", eventDescr.Name)
	}

	i := reflect.New(se).Interface()
	if len(l.Data) > 0 {
		if err := scABI.UnpackIntoInterface(i, eventDescr.Name, l.Data); err != nil {
			return dondi.ContractEvent{}, fmt.Errorf("unpacking into interface: %s", err)
		}
	}
	var indexed abi.Arguments
	for _, arg := range eventDescr.Inputs {
		if arg.Indexed {
			indexed = append(indexed, arg)
		}
	}
	if err := abi.ParseTopics(i, indexed, l.Topics[1:]); err != nil {
		return dondi.ContractEvent{}, fmt.Errorf("unpacking indexed topics: %s", err)
	}

	e := toContractEvent(i)
	e.TxHash = l.TxHash
	e.BlockNumber = l.BlockNumber
	e.Index = l.Index

	c.mEventCounter.Add(ctx, 1, metrics.Attrs(attribute.String("name", eventDescr.Name))...)

	return e, nil
}

func toContractEvent(i interface{}) dondi.ContractEvent {
	switch ev := i.(type) {
	case *ContractMissedEthReceive:
		return dondi.ContractEvent{
			Type:     dondi.EventMissedEthReceive,
			Receiver: ev.Receiver,
			From:     ev.From,
			Matrix:   dondi.Matrix(ev.Matrix),
			Level:    dondi.Level(ev.Level),
		}
	case *ContractNewUserPlace:
		return dondi.ContractEvent{
			Type:     dondi.EventNewUserPlace,
			User:     ev.User,
			Referrer: ev.Referrer,
			Matrix:   dondi.Matrix(ev.Matrix),
			Level:    dondi.Level(ev.Level),
			Place:    ev.Place,
		}
	case *ContractRegistration:
		return dondi.ContractEvent{
			Type:       dondi.EventRegistration,
			User:       ev.User,
			Referrer:   ev.Referrer,
			UserID:     ev.UserId,
			ReferrerID: ev.ReferrerId,
		}
	case *ContractReinvest:
		return dondi.ContractEvent{
			Type:            dondi.EventReinvest,
			User:            ev.User,
			CurrentReferrer: ev.CurrentReferrer,
			Caller:          ev.Caller,
			Matrix:          dondi.Matrix(ev.Matrix),
			Level:           dondi.Level(ev.Level),
		}
	case *ContractSentExtraEthDividends:
		return dondi.ContractEvent{
			Type:     dondi.EventSentExtraEthDividends,
			From:     ev.From,
			Receiver: ev.Receiver,
			Matrix:   dondi.Matrix(ev.Matrix),
			Level:    dondi.Level(ev.Level),
		}
	case *ContractUpgrade:
		return dondi.ContractEvent{
			Type:     dondi.EventUpgrade,
			User:     ev.User,
			Referrer: ev.Referrer,
			Matrix:   dondi.Matrix(ev.Matrix),
			Level:    dondi.Level(ev.Level),
		}
	default:
		panic(fmt.Sprintf("unsupported event struct %T", i))
	}
}

// topicsFor translates a Filter into FilterLogs topics. Indexed arguments
// without a filter value are wildcards.
func (c *Client) topicsFor(t dondi.EventType, filter chainsource.Filter) ([][]common.Hash, error) {
	ev, ok := c.contract.ABI().Events[string(t)]
	if !ok {
		return nil, fmt.Errorf("event type %s wasn't found in compiled contract", t)
	}

	topics := [][]common.Hash{{ev.ID}}
	used := 0
	for _, arg := range ev.Inputs {
		if !arg.Indexed {
			continue
		}
		addr, ok := filter[arg.Name]
		if !ok {
			topics = append(topics, nil)
			continue
		}
		rule, err := abi.MakeTopics([]interface{}{addr})
		if err != nil {
			return nil, fmt.Errorf("making topic for %s: %s", arg.Name, err)
		}
		topics = append(topics, rule[0])
		used++
	}
	if used != len(filter) {
		return nil, fmt.Errorf("filter contains arguments that aren't indexed in %s", t)
	}

	for len(topics) > 1 && topics[len(topics)-1] == nil {
		topics = topics[:len(topics)-1]
	}
	return topics, nil
}

func isRangeTooLarge(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "read limit exceeded") ||
		strings.Contains(msg, "is greater than the limit") ||
		strings.Contains(msg, "query returned more than") ||
		strings.Contains(msg, "block range")
}

func (c *Client) initMetrics() error {
	meter := global.MeterProvider().Meter(metrics.MeterName)

	var err error
	c.mEventCounter, err = meter.Int64Counter("dondi.chainsource.events")
	if err != nil {
		return fmt.Errorf("registering event counter: %s", err)
	}
	c.mCallCounter, err = meter.Int64Counter("dondi.chainsource.call.count")
	if err != nil {
		return fmt.Errorf("registering call counter: %s", err)
	}
	c.mLatencyHistogram, err = meter.Int64Histogram("dondi.chainsource.call.latency")
	if err != nil {
		return fmt.Errorf("registering latency histogram: %s", err)
	}
	return nil
}

func (c *Client) record(ctx context.Context, method string, start time.Time, err *error) {
	attrs := metrics.Attrs(
		attribute.String("method", method),
		attribute.Bool("success", *err == nil),
	)
	c.mCallCounter.Add(ctx, 1, attrs...)
	c.mLatencyHistogram.Record(ctx, time.Since(start).Milliseconds(), attrs...)
}
