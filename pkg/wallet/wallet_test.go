package wallet

import (
	"testing"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"
)

func TestNewWallet(t *testing.T) {
	t.Parallel()

	sk, err := crypto.GenerateKey()
	require.NoError(t, err)
	hexKey := hexutil.Encode(crypto.FromECDSA(sk))

	t.Run("with prefix", func(t *testing.T) {
		t.Parallel()
		w, err := NewWallet(hexKey)
		require.NoError(t, err)
		require.Equal(t, crypto.PubkeyToAddress(sk.PublicKey), w.Address())
	})

	t.Run("without prefix", func(t *testing.T) {
		t.Parallel()
		w, err := NewWallet(hexKey[2:])
		require.NoError(t, err)
		require.Equal(t, crypto.PubkeyToAddress(sk.PublicKey), w.Address())

		opts, err := w.Transactor(1)
		require.NoError(t, err)
		require.Equal(t, w.Address(), opts.From)
	})

	t.Run("invalid", func(t *testing.T) {
		t.Parallel()
		_, err := NewWallet("not-a-key")
		require.Error(t, err)
	})
}
