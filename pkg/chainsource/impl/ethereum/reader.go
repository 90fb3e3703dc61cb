package ethereum

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/dondinetwork/go-dondi/internal/dondi"
	"github.com/dondinetwork/go-dondi/pkg/errors"
	"github.com/ethereum/go-ethereum/common"
)

// LastLevel implements chainsource.ContractReader.
func (c *Client) LastLevel(ctx context.Context) (_ uint8, err error) {
	defer c.record(ctx, "LastLevel", time.Now(), &err)

	opts, cancel := c.callOpts(ctx)
	defer cancel()

	l, err := c.contract.LASTLEVEL(opts)
	if err != nil {
		return 0, errors.NewChainQueryError("LAST_LEVEL", err)
	}
	return l, nil
}

// Balances implements chainsource.ContractReader.
func (c *Client) Balances(ctx context.Context, addr common.Address) (_ *big.Int, err error) {
	defer c.record(ctx, "Balances", time.Now(), &err)

	opts, cancel := c.callOpts(ctx)
	defer cancel()

	b, err := c.contract.Balances(opts, addr)
	if err != nil {
		return nil, errors.NewChainQueryError("balances "+addr.Hex(), err)
	}
	return b, nil
}

// FindFreeReferrer implements chainsource.ContractReader.
func (c *Client) FindFreeReferrer(
	ctx context.Context,
	addr common.Address,
	m dondi.Matrix,
	l dondi.Level,
) (_ common.Address, err error) {
	defer c.record(ctx, "FindFreeReferrer", time.Now(), &err)

	opts, cancel := c.callOpts(ctx)
	defer cancel()

	var referrer common.Address
	switch m {
	case dondi.X3:
		referrer, err = c.contract.FindFreeX3Referrer(opts, addr, uint8(l))
	case dondi.X6:
		referrer, err = c.contract.FindFreeX6Referrer(opts, addr, uint8(l))
	default:
		return common.Address{}, fmt.Errorf("unknown matrix %d", m)
	}
	if err != nil {
		return common.Address{}, errors.NewChainQueryError(fmt.Sprintf("findFree%sReferrer %s", m, addr.Hex()), err)
	}
	return referrer, nil
}

// IDToAddress implements chainsource.ContractReader.
func (c *Client) IDToAddress(ctx context.Context, id *big.Int) (_ common.Address, err error) {
	defer c.record(ctx, "IDToAddress", time.Now(), &err)

	opts, cancel := c.callOpts(ctx)
	defer cancel()

	addr, err := c.contract.IdToAddress(opts, id)
	if err != nil {
		return common.Address{}, errors.NewChainQueryError("idToAddress "+id.String(), err)
	}
	return addr, nil
}

// UserIDs implements chainsource.ContractReader.
func (c *Client) UserIDs(ctx context.Context, id *big.Int) (_ common.Address, err error) {
	defer c.record(ctx, "UserIDs", time.Now(), &err)

	opts, cancel := c.callOpts(ctx)
	defer cancel()

	addr, err := c.contract.UserIds(opts, id)
	if err != nil {
		return common.Address{}, errors.NewChainQueryError("userIds "+id.String(), err)
	}
	return addr, nil
}

// IsUserExists implements chainsource.ContractReader.
func (c *Client) IsUserExists(ctx context.Context, addr common.Address) (_ bool, err error) {
	defer c.record(ctx, "IsUserExists", time.Now(), &err)

	opts, cancel := c.callOpts(ctx)
	defer cancel()

	exists, err := c.contract.IsUserExists(opts, addr)
	if err != nil {
		return false, errors.NewChainQueryError("isUserExists "+addr.Hex(), err)
	}
	return exists, nil
}

// LastUserID implements chainsource.ContractReader.
func (c *Client) LastUserID(ctx context.Context) (_ *big.Int, err error) {
	defer c.record(ctx, "LastUserID", time.Now(), &err)

	opts, cancel := c.callOpts(ctx)
	defer cancel()

	id, err := c.contract.LastUserId(opts)
	if err != nil {
		return nil, errors.NewChainQueryError("lastUserId", err)
	}
	return id, nil
}

// LevelPrice implements chainsource.ContractReader.
func (c *Client) LevelPrice(ctx context.Context, l dondi.Level) (_ *big.Int, err error) {
	defer c.record(ctx, "LevelPrice", time.Now(), &err)

	opts, cancel := c.callOpts(ctx)
	defer cancel()

	price, err := c.contract.LevelPrice(opts, uint8(l))
	if err != nil {
		return nil, errors.NewChainQueryError(fmt.Sprintf("levelPrice %d", l), err)
	}
	return price, nil
}

// Owner implements chainsource.ContractReader.
func (c *Client) Owner(ctx context.Context) (_ common.Address, err error) {
	defer c.record(ctx, "Owner", time.Now(), &err)

	opts, cancel := c.callOpts(ctx)
	defer cancel()

	owner, err := c.contract.Owner(opts)
	if err != nil {
		return common.Address{}, errors.NewChainQueryError("owner", err)
	}
	return owner, nil
}
