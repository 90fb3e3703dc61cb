package matrix

import (
	"math/big"
	"testing"

	"github.com/dondinetwork/go-dondi/internal/dondi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/require"
)

var (
	owner    = common.HexToAddress("0x00000000000000000000000000000000000000a1")
	upline   = common.HexToAddress("0x00000000000000000000000000000000000000b2")
	stranger = common.HexToAddress("0x00000000000000000000000000000000000000c3")
)

func TestCountsTowardBalance(t *testing.T) {
	t.Parallel()

	tests := []struct {
		matrix dondi.Matrix
		place  uint8
		exp    bool
	}{
		{dondi.X3, 1, true},
		{dondi.X3, 2, true},
		{dondi.X3, 3, false},
		{dondi.X6, 1, false},
		{dondi.X6, 2, false},
		{dondi.X6, 3, true},
		{dondi.X6, 4, true},
		{dondi.X6, 5, true},
		{dondi.X6, 6, false},
	}
	for _, tc := range tests {
		require.Equal(t, tc.exp, CountsTowardBalance(tc.matrix, tc.place), "%s place %d", tc.matrix, tc.place)
	}
}

func TestClassify(t *testing.T) {
	t.Parallel()

	t.Run("placements", func(t *testing.T) {
		t.Parallel()

		e := dondi.ContractEvent{Type: dondi.EventNewUserPlace, Matrix: dondi.X6, Level: 2, Place: 1, User: stranger}
		entry, ok := Classify(e)
		require.True(t, ok)
		require.Equal(t, CategoryTransit, entry.Category)
		require.Equal(t, Income, entry.Direction)
		require.InDelta(t, 0.05, entry.ETH, 1e-12)
		require.Equal(t, stranger, entry.Subject)

		e.Place = 4
		entry, ok = Classify(e)
		require.True(t, ok)
		require.Equal(t, CategoryPart, entry.Category)

		e.Place = 6
		_, ok = Classify(e)
		require.False(t, ok)

		e = dondi.ContractEvent{Type: dondi.EventNewUserPlace, Matrix: dondi.X3, Level: 1, Place: 2}
		entry, ok = Classify(e)
		require.True(t, ok)
		require.Equal(t, CategoryPart, entry.Category)

		e.Place = 3
		_, ok = Classify(e)
		require.False(t, ok)
	})

	t.Run("outcomes", func(t *testing.T) {
		t.Parallel()

		for _, typ := range []dondi.EventType{dondi.EventUpgrade, dondi.EventReinvest} {
			entry, ok := Classify(dondi.ContractEvent{Type: typ, Matrix: dondi.X3, Level: 3, User: owner})
			require.True(t, ok)
			require.Equal(t, Outcome, entry.Direction)
			require.InDelta(t, -0.1, entry.ETH, 1e-12)
			require.Equal(t, owner, entry.Subject)
		}
	})

	t.Run("dividends", func(t *testing.T) {
		t.Parallel()

		entry, ok := Classify(dondi.ContractEvent{
			Type: dondi.EventSentExtraEthDividends, Matrix: dondi.X6, Level: 1, Receiver: owner, From: stranger,
		})
		require.True(t, ok)
		require.Equal(t, CategoryGifts, entry.Category)
		require.Equal(t, Income, entry.Direction)
		require.Equal(t, owner, entry.Subject)

		entry, ok = Classify(dondi.ContractEvent{
			Type: dondi.EventMissedEthReceive, Matrix: dondi.X6, Level: 1, Receiver: owner, From: stranger,
		})
		require.True(t, ok)
		require.Equal(t, CategoryLostProfits, entry.Category)
		require.Equal(t, Missed, entry.Direction)
		require.Equal(t, stranger, entry.Subject)
	})

	t.Run("registration", func(t *testing.T) {
		t.Parallel()

		_, ok := Classify(dondi.ContractEvent{Type: dondi.EventRegistration})
		require.False(t, ok)
	})
}

func TestClassifyTransaction(t *testing.T) {
	t.Parallel()

	missed := common.HexToHash("0xfc0cb63f8dbd6b20ceb84a3c5358a41576a1479e6ecd040b4b985525dc09a709")
	other := common.HexToHash("0x01")

	plain := dondi.TransactionContext{ReceiptLogs: []*types.Log{{Topics: []common.Hash{other}}}}
	lost := dondi.TransactionContext{ReceiptLogs: []*types.Log{{Topics: []common.Hash{other}}, {Topics: []common.Hash{missed}}}}

	e := dondi.ContractEvent{Matrix: dondi.X3, Place: 3}
	require.Equal(t, TxReinvest, ClassifyTransaction(e, plain, missed))
	require.Equal(t, TxLost, ClassifyTransaction(e, lost, missed))

	e.Place = 1
	require.Equal(t, TxPartner, ClassifyTransaction(e, plain, missed))

	e = dondi.ContractEvent{Matrix: dondi.X6, Place: 6}
	require.Equal(t, TxReinvest, ClassifyTransaction(e, plain, missed))
	e.Place = 3
	require.Equal(t, TxPartner, ClassifyTransaction(e, plain, missed))
}

func TestFilters(t *testing.T) {
	t.Parallel()

	require.Equal(t, []Category{CategoryTransit, CategoryPart}, CategoriesForType("newUserPlaceEvent"))
	require.Equal(t, []Category{CategoryOutbound}, CategoriesForType("upgrageEvent"))
	require.Nil(t, CategoriesForType("bogus"))

	d, ok := DirectionForFilter("0")
	require.True(t, ok)
	require.Equal(t, Income, d)
	d, ok = DirectionForFilter("1")
	require.True(t, ok)
	require.Equal(t, Outcome, d)
	_, ok = DirectionForFilter("2")
	require.False(t, ok)
}

func TestWalkX3(t *testing.T) {
	t.Parallel()

	a, b := common.HexToAddress("0x10"), common.HexToAddress("0x11")
	slot := dondi.SlotState{Matrix: dondi.X3, CurrentReferrer: upline, FirstLevel: []common.Address{a, b}}
	users := Users{
		a: {ID: big.NewInt(5), Referrer: owner},
		b: {ID: big.NewInt(6), Referrer: stranger},
	}

	items, err := WalkX3(owner, slot, users)
	require.NoError(t, err)
	require.Equal(t, []dondi.ChildItem{
		{ID: "5", Address: a.Hex(), Status: string(StatusPartner)},
		{ID: "6", Address: b.Hex(), Status: string(StatusAhead)},
		{},
	}, items)

	_, err = WalkX3(owner, slot, Users{a: users[a]})
	require.Error(t, err)
}

func TestWalkX6(t *testing.T) {
	t.Parallel()

	f0, f1 := common.HexToAddress("0x20"), common.HexToAddress("0x21")
	s0, s1, s2 := common.HexToAddress("0x30"), common.HexToAddress("0x31"), common.HexToAddress("0x32")
	slot := dondi.SlotState{
		Matrix:      dondi.X6,
		FirstLevel:  []common.Address{f0, f1},
		SecondLevel: []common.Address{s0, s1, s2},
	}
	users := Users{
		f0: {ID: big.NewInt(1), Referrer: owner},
		f1: {ID: big.NewInt(2), Referrer: upline},
		s0: {ID: big.NewInt(3), Referrer: owner},
		s1: {ID: big.NewInt(4), Referrer: stranger},
		s2: {ID: big.NewInt(5), Referrer: upline},
	}

	items, err := WalkX6(owner, upline, slot, users)
	require.NoError(t, err)
	require.Equal(t, []dondi.ChildItem{
		{ID: "1", Address: f0.Hex(), Status: string(StatusPartner)},
		{ID: "3", Address: s0.Hex(), Status: string(StatusPartner)},
		{ID: "5", Address: s2.Hex(), Status: string(StatusBottom)},
	}, items.Left)
	require.Equal(t, []dondi.ChildItem{
		{ID: "2", Address: f1.Hex(), Status: string(StatusOverflowUp)},
		{ID: "4", Address: s1.Hex(), Status: string(StatusBottom)},
		{},
	}, items.Right)

	users[f1] = dondi.UserRecord{ID: big.NewInt(2), Referrer: stranger}
	items, err = WalkX6(owner, upline, slot, users)
	require.NoError(t, err)
	require.Equal(t, string(StatusAhead), items.Right[0].Status)
}

func TestSlotStatus(t *testing.T) {
	t.Parallel()

	require.Equal(t, dondi.SlotStatus{}, SlotStatus(3, false))
	require.Equal(t, dondi.SlotStatus{Status: true, Text: "You need to buy the 4 slot."}, SlotStatus(3, true))
}

func TestPartnerSet(t *testing.T) {
	t.Parallel()

	ps := NewPartnerSet()
	require.True(t, ps.Add(common.HexToAddress("0xAbCd000000000000000000000000000000000001")))
	require.False(t, ps.Add(common.HexToAddress("0xabcd000000000000000000000000000000000001")))
	require.Equal(t, 1, ps.Len())
	require.Equal(t, []string{"0xabcd000000000000000000000000000000000001"}, ps.Items())
}
