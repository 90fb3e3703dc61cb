// Package fixture provides an in-memory chainsource.EventSource and
// chainsource.ContractReader backed by a fixed set of events and state.
package fixture

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"github.com/dondinetwork/go-dondi/internal/dondi"
	"github.com/dondinetwork/go-dondi/pkg/chainsource"
	"github.com/dondinetwork/go-dondi/pkg/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

type slotKey struct {
	addr   common.Address
	matrix dondi.Matrix
	level  dondi.Level
}

// Source is an in-memory chain. It's safe for concurrent use.
type Source struct {
	mu sync.RWMutex

	events   []dondi.ContractEvent
	users    map[common.Address]dondi.UserRecord
	slots    map[slotKey]dondi.SlotState
	active   map[slotKey]bool
	balances map[common.Address]*big.Int
	receipts map[common.Hash][]*types.Log
	blocks   map[uint64]uint64
	failures map[string]error
	head     uint64
	owner    common.Address
}

var (
	_ chainsource.EventSource    = (*Source)(nil)
	_ chainsource.ContractReader = (*Source)(nil)
)

// New returns an empty Source.
func New() *Source {
	return &Source{
		users:    map[common.Address]dondi.UserRecord{},
		slots:    map[slotKey]dondi.SlotState{},
		active:   map[slotKey]bool{},
		balances: map[common.Address]*big.Int{},
		receipts: map[common.Hash][]*types.Log{},
		blocks:   map[uint64]uint64{},
		failures: map[string]error{},
	}
}

// AddEvent appends an event. Events are returned in the order they were added.
// The log index is assigned from the insertion position when it's zero.
func (s *Source) AddEvent(e dondi.ContractEvent) *Source {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e.Index == 0 {
		e.Index = uint(len(s.events))
	}
	if e.BlockNumber > s.head {
		s.head = e.BlockNumber
	}
	if _, ok := s.receipts[e.TxHash]; !ok {
		s.receipts[e.TxHash] = []*types.Log{}
	}
	s.events = append(s.events, e)
	return s
}

// AddUser sets the current record of a user.
func (s *Source) AddUser(addr common.Address, id int64, referrer common.Address, partners int64) *Source {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.users[addr] = dondi.UserRecord{
		ID:            big.NewInt(id),
		Referrer:      referrer,
		PartnersCount: big.NewInt(partners),
	}
	return s
}

// SetSlot sets the state of a matrix level and marks it active.
func (s *Source) SetSlot(addr common.Address, l dondi.Level, state dondi.SlotState) *Source {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := slotKey{addr, state.Matrix, l}
	s.slots[k] = state
	s.active[k] = true
	return s
}

// SetActive sets the active flag of a matrix level.
func (s *Source) SetActive(addr common.Address, m dondi.Matrix, l dondi.Level, active bool) *Source {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.active[slotKey{addr, m, l}] = active
	return s
}

// SetBlock sets the timestamp of a block.
func (s *Source) SetBlock(number, timestamp uint64) *Source {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.blocks[number] = timestamp
	if number > s.head {
		s.head = number
	}
	return s
}

// SetReceipt sets the logs of a transaction receipt.
func (s *Source) SetReceipt(hash common.Hash, logs ...*types.Log) *Source {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.receipts[hash] = logs
	return s
}

// SetBalance sets the contract balance of an address.
func (s *Source) SetBalance(addr common.Address, wei *big.Int) *Source {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.balances[addr] = wei
	return s
}

// SetOwner sets the contract owner.
func (s *Source) SetOwner(addr common.Address) *Source {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.owner = addr
	return s
}

// FailOn makes the named operation (e.g. "FetchEvents") fail with err.
func (s *Source) FailOn(op string, err error) *Source {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.failures[op] = err
	return s
}

func (s *Source) fail(op string) error {
	if err, ok := s.failures[op]; ok {
		return errors.NewChainQueryError(op, err)
	}
	return nil
}

// FetchEvents implements chainsource.EventSource.
func (s *Source) FetchEvents(
	ctx context.Context,
	t dondi.EventType,
	filter chainsource.Filter,
	fromBlock uint64,
) ([]dondi.ContractEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.fail("FetchEvents"); err != nil {
		return nil, err
	}

	var out []dondi.ContractEvent
	for _, e := range s.events {
		if e.Type != t || e.BlockNumber < fromBlock {
			continue
		}
		ok, err := matches(e, filter)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, e)
		}
	}
	return out, nil
}

func matches(e dondi.ContractEvent, filter chainsource.Filter) (bool, error) {
	for field, want := range filter {
		var have common.Address
		switch field {
		case "user":
			have = e.User
		case "referrer":
			have = e.Referrer
		case "receiver":
			have = e.Receiver
		case "from":
			have = e.From
		case "caller":
			have = e.Caller
		case "currentReferrer":
			have = e.CurrentReferrer
		default:
			return false, fmt.Errorf("unknown filter field %s", field)
		}
		if have != want {
			return false, nil
		}
	}
	return true, nil
}

// FetchTransaction implements chainsource.EventSource.
func (s *Source) FetchTransaction(ctx context.Context, hash common.Hash) (dondi.TransactionContext, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.fail("FetchTransaction"); err != nil {
		return dondi.TransactionContext{}, err
	}
	logs, ok := s.receipts[hash]
	if !ok {
		return dondi.TransactionContext{}, errors.NewChainQueryError("get receipt", fmt.Errorf("not found: %s", hash))
	}
	var number uint64
	for _, e := range s.events {
		if e.TxHash == hash {
			number = e.BlockNumber
			break
		}
	}
	return dondi.TransactionContext{
		TxHash:         hash,
		BlockNumber:    number,
		BlockTimestamp: s.blocks[number],
		ReceiptLogs:    logs,
	}, nil
}

// FetchReceipt implements chainsource.EventSource.
func (s *Source) FetchReceipt(ctx context.Context, hash common.Hash) ([]*types.Log, error) {
	tc, err := s.FetchTransaction(ctx, hash)
	if err != nil {
		return nil, err
	}
	return tc.ReceiptLogs, nil
}

// FetchBlock implements chainsource.EventSource.
func (s *Source) FetchBlock(ctx context.Context, number uint64) (dondi.BlockInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.fail("FetchBlock"); err != nil {
		return dondi.BlockInfo{}, err
	}
	return dondi.BlockInfo{Number: number, Timestamp: s.blocks[number]}, nil
}

// FetchCurrentUser implements chainsource.EventSource. Unknown addresses get
// the zero record, as the contract does.
func (s *Source) FetchCurrentUser(ctx context.Context, addr common.Address) (dondi.UserRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.fail("FetchCurrentUser"); err != nil {
		return dondi.UserRecord{}, err
	}
	u, ok := s.users[addr]
	if !ok {
		return dondi.UserRecord{ID: big.NewInt(0), PartnersCount: big.NewInt(0)}, nil
	}
	return u, nil
}

// FetchSlotState implements chainsource.EventSource.
func (s *Source) FetchSlotState(
	ctx context.Context,
	addr common.Address,
	m dondi.Matrix,
	l dondi.Level,
) (dondi.SlotState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.fail("FetchSlotState"); err != nil {
		return dondi.SlotState{}, err
	}
	st, ok := s.slots[slotKey{addr, m, l}]
	if !ok {
		return dondi.SlotState{Matrix: m}, nil
	}
	return st, nil
}

// IsLevelActive implements chainsource.EventSource.
func (s *Source) IsLevelActive(ctx context.Context, addr common.Address, m dondi.Matrix, l dondi.Level) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.fail("IsLevelActive"); err != nil {
		return false, err
	}
	return s.active[slotKey{addr, m, l}], nil
}

// LatestBlock implements chainsource.EventSource.
func (s *Source) LatestBlock(ctx context.Context) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.head, nil
}

// LastLevel implements chainsource.ContractReader.
func (s *Source) LastLevel(ctx context.Context) (uint8, error) {
	return uint8(dondi.LastLevel), nil
}

// Balances implements chainsource.ContractReader.
func (s *Source) Balances(ctx context.Context, addr common.Address) (*big.Int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if b, ok := s.balances[addr]; ok {
		return b, nil
	}
	return big.NewInt(0), nil
}

// FindFreeReferrer implements chainsource.ContractReader. It walks up the
// referrer chain until it finds a user with the level active.
func (s *Source) FindFreeReferrer(
	ctx context.Context,
	addr common.Address,
	m dondi.Matrix,
	l dondi.Level,
) (common.Address, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cur := addr
	for i := 0; i < len(s.users)+1; i++ {
		u, ok := s.users[cur]
		if !ok || u.Referrer == (common.Address{}) {
			return s.owner, nil
		}
		if s.active[slotKey{u.Referrer, m, l}] {
			return u.Referrer, nil
		}
		cur = u.Referrer
	}
	return s.owner, nil
}

// IDToAddress implements chainsource.ContractReader.
func (s *Source) IDToAddress(ctx context.Context, id *big.Int) (common.Address, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for addr, u := range s.users {
		if u.ID.Cmp(id) == 0 {
			return addr, nil
		}
	}
	return common.Address{}, nil
}

// UserIDs implements chainsource.ContractReader.
func (s *Source) UserIDs(ctx context.Context, id *big.Int) (common.Address, error) {
	return s.IDToAddress(ctx, id)
}

// IsUserExists implements chainsource.ContractReader.
func (s *Source) IsUserExists(ctx context.Context, addr common.Address) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.users[addr]
	return ok, nil
}

// LastUserID implements chainsource.ContractReader.
func (s *Source) LastUserID(ctx context.Context) (*big.Int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	last := big.NewInt(0)
	for _, u := range s.users {
		if u.ID.Cmp(last) > 0 {
			last = u.ID
		}
	}
	return new(big.Int).Add(last, big.NewInt(1)), nil
}

// LevelPrice implements chainsource.ContractReader.
func (s *Source) LevelPrice(ctx context.Context, l dondi.Level) (*big.Int, error) {
	// 0.025 ether = 25e15 wei
	price := new(big.Int).Mul(big.NewInt(25), big.NewInt(1e15))
	return price.Lsh(price, uint(l)-1), nil
}

// Owner implements chainsource.ContractReader.
func (s *Source) Owner(ctx context.Context) (common.Address, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.owner, nil
}
