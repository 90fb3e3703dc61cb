package wallet

import (
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Wallet holds a signing key used to submit transactions to the contract.
type Wallet struct {
	sk *ecdsa.PrivateKey
	pk *ecdsa.PublicKey
}

// NewWallet creates a new wallet from a hex encoded secret key. The 0x prefix is optional.
func NewWallet(sk string) (*Wallet, error) {
	privateKey, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(sk), "0x"))
	if err != nil {
		return nil, fmt.Errorf("converting private key to ECDSA: %s", err)
	}

	publicKeyECDSA, ok := privateKey.Public().(*ecdsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("casting public key to ECDSA")
	}

	return &Wallet{
		sk: privateKey,
		pk: publicKeyECDSA,
	}, nil
}

// PrivateKey gets the private key.
func (w *Wallet) PrivateKey() *ecdsa.PrivateKey {
	return w.sk
}

// Address returns the wallet address.
func (w *Wallet) Address() common.Address {
	return crypto.PubkeyToAddress(*w.pk)
}

// Transactor returns signing options bound to chainID.
func (w *Wallet) Transactor(chainID int64) (*bind.TransactOpts, error) {
	opts, err := bind.NewKeyedTransactorWithChainID(w.sk, big.NewInt(chainID))
	if err != nil {
		return nil, fmt.Errorf("creating keyed transactor: %s", err)
	}
	return opts, nil
}
