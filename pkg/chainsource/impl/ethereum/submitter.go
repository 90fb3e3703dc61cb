package ethereum

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/dondinetwork/go-dondi/internal/dondi"
	"github.com/dondinetwork/go-dondi/pkg/wallet"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// RegistrationExt implements chainsource.Submitter.
func (c *Client) RegistrationExt(
	ctx context.Context,
	w *wallet.Wallet,
	referrer common.Address,
	value *big.Int,
) (_ *types.Receipt, err error) {
	defer c.record(ctx, "RegistrationExt", time.Now(), &err)

	tx, err := c.callWithRetry(ctx, func() (*types.Transaction, error) {
		opts, err := c.transactOpts(ctx, w, value)
		if err != nil {
			return nil, err
		}
		return c.contract.RegistrationExt(opts, referrer)
	})
	if err != nil {
		return nil, fmt.Errorf("retryable RegistrationExt call: %s", err)
	}
	return c.waitMined(ctx, tx)
}

// BuyNewLevel implements chainsource.Submitter.
func (c *Client) BuyNewLevel(
	ctx context.Context,
	w *wallet.Wallet,
	m dondi.Matrix,
	l dondi.Level,
	value *big.Int,
) (_ *types.Receipt, err error) {
	defer c.record(ctx, "BuyNewLevel", time.Now(), &err)

	tx, err := c.callWithRetry(ctx, func() (*types.Transaction, error) {
		opts, err := c.transactOpts(ctx, w, value)
		if err != nil {
			return nil, err
		}
		return c.contract.BuyNewLevel(opts, uint8(m), uint8(l))
	})
	if err != nil {
		return nil, fmt.Errorf("retryable BuyNewLevel call: %s", err)
	}
	return c.waitMined(ctx, tx)
}

func (c *Client) transactOpts(ctx context.Context, w *wallet.Wallet, value *big.Int) (*bind.TransactOpts, error) {
	opts, err := w.Transactor(c.chainID)
	if err != nil {
		return nil, err
	}
	opts.Context = ctx
	opts.Value = value
	opts.GasLimit = c.config.GasLimit
	return opts, nil
}

func (c *Client) waitMined(ctx context.Context, tx *types.Transaction) (*types.Receipt, error) {
	c.log.Info().Str("tx_hash", tx.Hash().Hex()).Msg("waiting for transaction to be mined")

	receipt, err := bind.WaitMined(ctx, c.backend, tx)
	if err != nil {
		return nil, fmt.Errorf("waiting for %s to be mined: %s", tx.Hash().Hex(), err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		c.log.Warn().Str("tx_hash", tx.Hash().Hex()).Msg("transaction reverted")
	}
	return receipt, nil
}

// callWithRetry sends the transaction again once when the node rejects its nonce.
func (c *Client) callWithRetry(ctx context.Context, f func() (*types.Transaction, error)) (*types.Transaction, error) {
	tx, err := f()

	possibleErrMgs := []string{"nonce too low", "invalid transaction nonce"}
	if err != nil {
		for _, errMsg := range possibleErrMgs {
			if strings.Contains(err.Error(), errMsg) {
				c.log.Warn().Err(err).Msg("retrying smart contract call")
				tx, err = f()
				if err != nil {
					return nil, fmt.Errorf("retry contract call: %s", err)
				}

				return tx, nil
			}
		}

		return nil, fmt.Errorf("contract call: %s", err)
	}

	return tx, nil
}
