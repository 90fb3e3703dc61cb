package dondi

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLevelWrap(t *testing.T) {
	t.Parallel()

	require.Equal(t, LastLevel, FirstLevel.Prev())
	require.Equal(t, FirstLevel, LastLevel.Next())
	require.Equal(t, Level(4), Level(5).Prev())
	require.Equal(t, Level(6), Level(5).Next())
	require.Len(t, Levels(), 12)
	require.Equal(t, "lv7", Level(7).Key())
}

func TestLevelPrice(t *testing.T) {
	t.Parallel()

	exp := 0.025
	for _, l := range Levels() {
		require.InDelta(t, exp, LevelPrice(l), 1e-12, "level %d", l)
		exp *= 2
	}
}

func TestParse(t *testing.T) {
	t.Parallel()

	m, err := ParseMatrix("2")
	require.NoError(t, err)
	require.Equal(t, X6, m)
	require.Equal(t, 6, m.Places())

	_, err = ParseMatrix("3")
	require.Error(t, err)
	_, err = ParseMatrix("x")
	require.Error(t, err)

	l, err := ParseLevel("12")
	require.NoError(t, err)
	require.Equal(t, LastLevel, l)

	_, err = ParseLevel("0")
	require.Error(t, err)
	_, err = ParseLevel("13")
	require.Error(t, err)
}

func TestHistoryEntryJSON(t *testing.T) {
	t.Parallel()

	h := NewHistoryEntry(0, X3.Places())
	require.False(t, h.Full())
	h.Positions[0].Address = "0xabc"

	b, err := json.Marshal(h)
	require.NoError(t, err)
	require.JSONEq(t, `{"reinvestCount":0,"pos1":{"address":"0xabc"},"pos2":{},"pos3":{}}`, string(b))

	h.Positions[1].Address = "0xdef"
	h.Positions[2].Address = "0x123"
	require.True(t, h.Full())
}
