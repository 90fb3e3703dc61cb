package controllers

import (
	stderrors "errors"
	"math/big"
	"net/http"
	"testing"

	"github.com/dondinetwork/go-dondi/internal/dondi"
	"github.com/dondinetwork/go-dondi/pkg/chainsource/impl/fixture"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

var (
	bob   = common.HexToAddress("0x00000000000000000000000000000000000000b2")
	owner = common.HexToAddress("0x00000000000000000000000000000000000000ee")
)

func newContractController(t *testing.T) *ContractController {
	t.Helper()

	src := fixture.New().
		SetOwner(owner).
		AddUser(owner, 1, common.Address{}, 1).
		AddUser(alice, 2, owner, 1).
		AddUser(bob, 3, alice, 0).
		SetActive(owner, dondi.X3, 1, true).
		SetActive(alice, dondi.X6, 2, true).
		SetBalance(alice, big.NewInt(123456789)).
		SetSlot(alice, 1, dondi.SlotState{
			Matrix:          dondi.X3,
			CurrentReferrer: owner,
			FirstLevel:      []common.Address{bob},
		}).
		SetSlot(alice, 2, dondi.SlotState{
			Matrix:          dondi.X6,
			CurrentReferrer: owner,
			FirstLevel:      []common.Address{bob},
			SecondLevel:     []common.Address{},
			Blocked:         true,
		})
	return NewContractController(src, NewResponder(false))
}

func TestContractController(t *testing.T) {
	t.Parallel()

	c := newContractController(t)

	t.Run("users", func(t *testing.T) {
		t.Parallel()

		status, env := get(t, c.Users, "/api/users?address="+alice.Hex())
		require.Equal(t, http.StatusOK, status)
		require.Equal(t, "Get the user information successfully", env.Text)

		var u User
		value(t, env, &u)
		require.Equal(t, User{ID: "2", Referrer: owner.Hex(), PartnersCount: "1"}, u)
	})

	t.Run("unknown user", func(t *testing.T) {
		t.Parallel()

		unknown := common.HexToAddress("0x0000000000000000000000000000000000000123")
		_, env := get(t, c.Users, "/api/users?address="+unknown.Hex())

		var u User
		value(t, env, &u)
		require.Equal(t, "0", u.ID)
		require.Equal(t, "0", u.PartnersCount)

		var exists bool
		_, env = get(t, c.IsUserExists, "/api/isuserexists?address="+unknown.Hex())
		value(t, env, &exists)
		require.False(t, exists)
	})

	t.Run("x3 matrix", func(t *testing.T) {
		t.Parallel()

		_, env := get(t, c.GetX3Matrix, "/api/getx3matrix?address="+alice.Hex()+"&level=1")
		require.Equal(t, "Get the X3 matrix successfully", env.Text)

		var m X3Matrix
		value(t, env, &m)
		require.Equal(t, owner.Hex(), m.CurrentReferrer)
		require.Equal(t, []string{bob.Hex()}, m.Referrals)
		require.False(t, m.Blocked)
	})

	t.Run("x6 matrix", func(t *testing.T) {
		t.Parallel()

		_, env := get(t, c.GetX6Matrix, "/api/getx6matrix?address="+alice.Hex()+"&level=2")

		var m X6Matrix
		value(t, env, &m)
		require.Equal(t, []string{bob.Hex()}, m.FirstLevelReferrals)
		require.Empty(t, m.SecondLevelReferrals)
		require.True(t, m.Blocked)
		require.Equal(t, common.Address{}.Hex(), m.ClosedPart)
	})

	t.Run("level price", func(t *testing.T) {
		t.Parallel()

		_, env := get(t, c.LevelPrice, "/api/levelprice?level=2")
		var wei string
		value(t, env, &wei)
		require.Equal(t, "50000000000000000", wei)

		status, env := get(t, c.LevelPrice, "/api/levelprice")
		require.Equal(t, http.StatusBadRequest, status)
		require.Equal(t, "level required", env.Text)
	})

	t.Run("balances", func(t *testing.T) {
		t.Parallel()

		_, env := get(t, c.GetBalances, "/api/getbalances?address="+alice.Hex())
		var wei string
		value(t, env, &wei)
		require.Equal(t, "123456789", wei)
	})

	t.Run("ids", func(t *testing.T) {
		t.Parallel()

		var addr string
		_, env := get(t, c.IDToAddress, "/api/idtoaddress?id=3")
		value(t, env, &addr)
		require.Equal(t, bob.Hex(), addr)

		_, env = get(t, c.UserIDs, "/api/userids?id=2")
		value(t, env, &addr)
		require.Equal(t, alice.Hex(), addr)

		_, env = get(t, c.IDToAddress, "/api/idtoaddress?id=-1")
		require.Equal(t, "400", env.Code)

		var last string
		_, env = get(t, c.LastUserID, "/api/lastuserid")
		value(t, env, &last)
		require.Equal(t, "4", last)
	})

	t.Run("owner and last level", func(t *testing.T) {
		t.Parallel()

		var addr string
		_, env := get(t, c.OwnerAddress, "/api/owneraddress")
		value(t, env, &addr)
		require.Equal(t, owner.Hex(), addr)

		var last uint8
		_, env = get(t, c.GetLastLevel, "/api/getlastlevel")
		value(t, env, &last)
		require.Equal(t, uint8(dondi.LastLevel), last)
	})

	t.Run("active levels", func(t *testing.T) {
		t.Parallel()

		var active bool
		_, env := get(t, c.UserActiveX6Levels, "/api/useractivex6levels?address="+alice.Hex()+"&level=2")
		value(t, env, &active)
		require.True(t, active)

		_, env = get(t, c.UserActiveX3Levels, "/api/useractivex3levels?address="+alice.Hex()+"&level=2")
		value(t, env, &active)
		require.False(t, active)
	})

	t.Run("free referrer", func(t *testing.T) {
		t.Parallel()

		var addr string
		_, env := get(t, c.FindFreeX3Referrer, "/api/findfreex3referrer?address="+bob.Hex()+"&level=3")
		require.Equal(t, "Find the free X3 referrer address successfully", env.Text)
		value(t, env, &addr)
		require.Equal(t, owner.Hex(), addr)

		_, env = get(t, c.FindFreeX6Referrer, "/api/findfreex6referrer?address="+bob.Hex()+"&level=2")
		value(t, env, &addr)
		require.Equal(t, alice.Hex(), addr)
	})
}

func TestContractControllerFailure(t *testing.T) {
	t.Parallel()

	src := fixture.New().FailOn("FetchSlotState", stderrors.New("rpc timeout"))
	c := NewContractController(src, NewResponder(false))

	status, env := get(t, c.GetX3Matrix, "/api/getx3matrix?address="+alice.Hex()+"&level=1")
	require.Equal(t, http.StatusServiceUnavailable, status)
	require.Equal(t, "503", env.Code)
}
