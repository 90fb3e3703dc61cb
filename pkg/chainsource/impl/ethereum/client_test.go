package ethereum

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/dondinetwork/go-dondi/internal/dondi"
	"github.com/dondinetwork/go-dondi/pkg/chainsource"
	dondierrors "github.com/dondinetwork/go-dondi/pkg/errors"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/require"
)

var (
	contractAddr = common.HexToAddress("0x017A7b7E44b5A99De7e56c0c0faB53F6421fAd93")
	alice        = common.HexToAddress("0x00000000000000000000000000000000000000a1")
	bob          = common.HexToAddress("0x00000000000000000000000000000000000000b2")
)

func TestABI(t *testing.T) {
	t.Parallel()

	c, err := NewContract(contractAddr, &fakeBackend{})
	require.NoError(t, err)

	for et := range SupportedEvents {
		_, ok := c.ABI().Events[string(et)]
		require.True(t, ok, "event %s", et)
	}
	for _, m := range []string{
		"LAST_LEVEL", "balances", "findFreeX3Referrer", "findFreeX6Referrer", "idToAddress",
		"isUserExists", "lastUserId", "levelPrice", "owner", "userIds", "users",
		"usersActiveX3Levels", "usersActiveX6Levels", "usersX3Matrix", "usersX6Matrix",
		"registrationExt", "buyNewLevel",
	} {
		_, ok := c.ABI().Methods[m]
		require.True(t, ok, "method %s", m)
	}

	require.Equal(t, dondi.MissedEthReceiveTopic, c.ABI().Events[string(dondi.EventMissedEthReceive)].ID)
}

func TestParseEvent(t *testing.T) {
	t.Parallel()

	c := newClient(t, &fakeBackend{})

	t.Run("new user place", func(t *testing.T) {
		t.Parallel()

		l := makeLog(t, c, dondi.EventNewUserPlace, 10, 3, []interface{}{bob, alice}, uint8(2), uint8(4), uint8(5))
		e, err := c.parseEvent(context.Background(), l)
		require.NoError(t, err)
		require.Equal(t, dondi.EventNewUserPlace, e.Type)
		require.Equal(t, bob, e.User)
		require.Equal(t, alice, e.Referrer)
		require.Equal(t, dondi.X6, e.Matrix)
		require.Equal(t, dondi.Level(4), e.Level)
		require.Equal(t, uint8(5), e.Place)
		require.Equal(t, uint64(10), e.BlockNumber)
		require.Equal(t, uint(3), e.Index)
	})

	t.Run("registration", func(t *testing.T) {
		t.Parallel()

		l := makeLog(t, c, dondi.EventRegistration, 1, 0, []interface{}{bob, alice, big.NewInt(7)}, big.NewInt(1))
		e, err := c.parseEvent(context.Background(), l)
		require.NoError(t, err)
		require.Equal(t, dondi.EventRegistration, e.Type)
		require.Equal(t, bob, e.User)
		require.Equal(t, alice, e.Referrer)
		require.Equal(t, int64(7), e.UserID.Int64())
		require.Equal(t, int64(1), e.ReferrerID.Int64())
	})

	t.Run("missed eth", func(t *testing.T) {
		t.Parallel()

		l := makeLog(t, c, dondi.EventMissedEthReceive, 1, 0, []interface{}{alice, bob}, uint8(1), uint8(2))
		e, err := c.parseEvent(context.Background(), l)
		require.NoError(t, err)
		require.Equal(t, alice, e.Receiver)
		require.Equal(t, bob, e.From)
		require.Equal(t, dondi.X3, e.Matrix)
		require.Equal(t, dondi.Level(2), e.Level)
	})

	t.Run("unknown topic", func(t *testing.T) {
		t.Parallel()

		_, err := c.parseEvent(context.Background(), types.Log{Topics: []common.Hash{common.HexToHash("0x01")}})
		require.Error(t, err)
	})
}

func TestTopicsFor(t *testing.T) {
	t.Parallel()

	c := newClient(t, &fakeBackend{})

	topics, err := c.topicsFor(dondi.EventNewUserPlace, chainsource.Filter{"referrer": alice})
	require.NoError(t, err)
	require.Len(t, topics, 3)
	require.Nil(t, topics[1])
	require.Equal(t, common.BytesToHash(alice.Bytes()), topics[2][0])

	topics, err = c.topicsFor(dondi.EventReinvest, chainsource.Filter{"user": alice})
	require.NoError(t, err)
	require.Len(t, topics, 2)

	_, err = c.topicsFor(dondi.EventNewUserPlace, chainsource.Filter{"place": alice})
	require.Error(t, err)
}

func TestFetchEvents(t *testing.T) {
	t.Parallel()

	t.Run("windows shrink on provider limits", func(t *testing.T) {
		t.Parallel()

		backend := &fakeBackend{head: 9_999, rangeLimit: 2_000}
		c := newClient(t, backend, chainsource.WithMaxBlocksFetchSize(5_000))
		backend.logs = []types.Log{
			makeLog(t, c, dondi.EventNewUserPlace, 100, 0, []interface{}{bob, alice}, uint8(1), uint8(1), uint8(1)),
			makeLog(t, c, dondi.EventNewUserPlace, 100, 4, []interface{}{bob, alice}, uint8(1), uint8(1), uint8(2)),
			makeLog(t, c, dondi.EventNewUserPlace, 7_500, 1, []interface{}{bob, alice}, uint8(2), uint8(3), uint8(3)),
		}

		events, err := c.FetchEvents(context.Background(), dondi.EventNewUserPlace, chainsource.Filter{"referrer": alice}, 0)
		require.NoError(t, err)
		require.Len(t, events, 3)
		require.Equal(t, uint8(1), events[0].Place)
		require.Equal(t, uint8(2), events[1].Place)
		require.Equal(t, uint8(3), events[2].Place)
		require.LessOrEqual(t, c.maxBlocksFetchSize.Load(), int64(2_000))
	})

	t.Run("rpc errors are surfaced", func(t *testing.T) {
		t.Parallel()

		backend := &fakeBackend{head: 10, err: errors.New("connection refused")}
		c := newClient(t, backend)

		_, err := c.FetchEvents(context.Background(), dondi.EventReinvest, chainsource.Filter{"user": alice}, 0)
		require.Error(t, err)
		require.True(t, dondierrors.IsChainQuery(err))
	})
}

func newClient(t *testing.T, backend Backend, opts ...chainsource.Option) *Client {
	t.Helper()

	c, err := NewClient(backend, 1, contractAddr, opts...)
	require.NoError(t, err)
	return c
}

func makeLog(
	t *testing.T,
	c *Client,
	et dondi.EventType,
	block uint64,
	index uint,
	indexed []interface{},
	data ...interface{},
) types.Log {
	t.Helper()

	ev := c.contract.ABI().Events[string(et)]
	topics := []common.Hash{ev.ID}
	for _, v := range indexed {
		rule, err := abi.MakeTopics([]interface{}{v})
		require.NoError(t, err)
		topics = append(topics, rule[0][0])
	}
	packed, err := ev.Inputs.NonIndexed().Pack(data...)
	require.NoError(t, err)

	return types.Log{
		Address:     contractAddr,
		Topics:      topics,
		Data:        packed,
		BlockNumber: block,
		Index:       index,
	}
}

// fakeBackend serves logs from memory and rejects ranges wider than rangeLimit.
type fakeBackend struct {
	Backend

	head       uint64
	rangeLimit uint64
	logs       []types.Log
	err        error
}

func (b *fakeBackend) BlockNumber(context.Context) (uint64, error) {
	return b.head, nil
}

func (b *fakeBackend) FilterLogs(_ context.Context, q ethereum.FilterQuery) ([]types.Log, error) {
	if b.err != nil {
		return nil, b.err
	}
	from, to := q.FromBlock.Uint64(), q.ToBlock.Uint64()
	if b.rangeLimit > 0 && to-from+1 > b.rangeLimit {
		return nil, errors.New("read limit exceeded")
	}

	var out []types.Log
	for _, l := range b.logs {
		if l.BlockNumber < from || l.BlockNumber > to || l.Topics[0] != q.Topics[0][0] {
			continue
		}
		if !matchTopics(l.Topics[1:], q.Topics[1:]) {
			continue
		}
		out = append(out, l)
	}
	return out, nil
}

func matchTopics(have []common.Hash, want [][]common.Hash) bool {
	for i, rule := range want {
		if len(rule) == 0 {
			continue
		}
		if i >= len(have) || have[i] != rule[0] {
			return false
		}
	}
	return true
}
