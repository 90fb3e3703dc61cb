package impl

import (
	"context"
	"fmt"

	"github.com/dondinetwork/go-dondi/internal/dashboard"
	"github.com/dondinetwork/go-dondi/internal/dondi"
	"github.com/dondinetwork/go-dondi/internal/formatter"
	"github.com/shopspring/decimal"
)

// Info implements dashboard.Dashboard.
func (s *DashboardService) Info(ctx context.Context) (dondi.Info, error) {
	head, err := s.source.LatestBlock(ctx)
	if err != nil {
		return dondi.Info{}, fmt.Errorf("fetching latest block: %w", err)
	}
	txs, err := s.explorer.TxList(ctx, s.config.ContractAddress, s.config.StartBlock, head)
	if err != nil {
		return dondi.Info{}, fmt.Errorf("listing contract transactions: %w", err)
	}

	since := s.config.Clock().Add(-s.config.Window).Unix()

	var (
		info        dondi.Info
		earned      = decimal.Zero
		earnedToday = decimal.Zero
	)
	for _, tx := range txs {
		if tx.IsError || !tx.Value.IsPositive() {
			continue
		}
		earned = earned.Add(tx.Value)
		if !tx.CallsMethod(dashboard.RegisterMethod) {
			continue
		}
		info.TotalParticipants++
		if int64(tx.Timestamp) > since {
			info.JoinedInDay++
			earnedToday = earnedToday.Add(tx.Value)
		}
	}
	info.EarnedAmount = formatter.Fixed3Decimal(earned)
	info.EarnedAmountInToday = formatter.Fixed3Decimal(earnedToday)

	s.log.Debug().
		Uint64("head", head).
		Int("transactions", len(txs)).
		Int("participants", info.TotalParticipants).
		Msg("aggregated contract activity")

	return info, nil
}
