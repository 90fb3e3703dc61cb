package explorer

import (
	"context"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// Transaction is a normal transaction sent to an address, as listed by a block explorer.
type Transaction struct {
	Hash      string
	IsError   bool
	Value     decimal.Decimal // ether
	Input     string
	Timestamp uint64 // unix seconds
}

// CallsMethod reports whether the transaction input starts with the given 4-byte selector.
func (t Transaction) CallsMethod(selector string) bool {
	return strings.HasPrefix(strings.ToLower(t.Input), strings.ToLower(selector))
}

// Explorer lists the transactions received by an address.
type Explorer interface {
	// TxList returns the transactions received by address between startBlock
	// and endBlock, newest first.
	TxList(ctx context.Context, address common.Address, startBlock, endBlock uint64) ([]Transaction, error)
}
