package impl

import (
	"context"
	"fmt"

	"github.com/dondinetwork/go-dondi/internal/dondi"
	"github.com/dondinetwork/go-dondi/internal/formatter"
	"github.com/dondinetwork/go-dondi/pkg/matrix"
	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/sync/errgroup"
)

// SlotDetail implements dashboard.Dashboard.
func (s *DashboardService) SlotDetail(
	ctx context.Context,
	addr common.Address,
	m dondi.Matrix,
	l dondi.Level,
) (dondi.SlotDetail, error) {
	var (
		owner dondi.UserRecord
		state dondi.SlotState
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		if owner, err = s.source.FetchCurrentUser(gctx, addr); err != nil {
			return fmt.Errorf("fetching user: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		if state, err = s.source.FetchSlotState(gctx, addr, m, l); err != nil {
			return fmt.Errorf("fetching %s level %d: %w", m, l, err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return dondi.SlotDetail{}, err
	}

	var (
		referrer   dondi.UserRecord
		reinvests  []dondi.ContractEvent
		placements []dondi.ContractEvent
	)
	g, gctx = errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		if referrer, err = s.source.FetchCurrentUser(gctx, state.CurrentReferrer); err != nil {
			return fmt.Errorf("fetching referrer: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		reinvests, err = s.events(gctx, dondi.EventReinvest, "user", addr)
		return err
	})
	g.Go(func() (err error) {
		placements, err = s.events(gctx, dondi.EventNewUserPlace, "referrer", addr)
		return err
	})
	if err := g.Wait(); err != nil {
		return dondi.SlotDetail{}, err
	}

	detail := dondi.SlotDetail{
		RootInfo: dondi.RootInfo{
			ID: owner.IDString(),
			Referrer: dondi.RootReferrer{
				ID:      referrer.IDString(),
				Address: state.CurrentReferrer.Hex(),
			},
		},
		History: []dondi.HistoryEntry{dondi.NewHistoryEntry(0, m.Places())},
		Transactions: dondi.Transactions{
			Data: []dondi.Transaction{},
		},
	}
	for _, e := range reinvests {
		if e.Matches(m, l) {
			detail.ReinvestCount++
			detail.History = append(detail.History, dondi.NewHistoryEntry(detail.ReinvestCount, m.Places()))
		}
	}

	var (
		matching []dondi.ContractEvent
		placed   []common.Address
	)
	for _, e := range placements {
		if e.Matches(m, l) {
			matching = append(matching, e)
			placed = append(placed, e.User)
		}
	}

	// Metadata is fetched concurrently but the replay below walks the
	// placements in emission order.
	txs, users, err := s.metadata(ctx, matching, placed)
	if err != nil {
		return dondi.SlotDetail{}, err
	}

	var (
		current  int
		balance  float64
		partners = matrix.NewPartnerSet()
		price    = dondi.LevelPrice(l)
	)
	for _, e := range matching {
		tc := txs[e.TxHash]
		user := users[e.User]

		detail.Transactions.Data = append(detail.Transactions.Data, dondi.Transaction{
			Type:            string(matrix.ClassifyTransaction(e, tc, dondi.MissedEthReceiveTopic)),
			Date:            tc.BlockTimestamp,
			ID:              user.IDString(),
			Address:         e.User.Hex(),
			TransactionHash: e.TxHash.Hex(),
			ETH:             price,
		})

		if place := int(e.Place); current < len(detail.History) && place >= 1 && place <= m.Places() {
			detail.History[current].Positions[place-1].Address = e.User.Hex()
			if detail.History[current].Full() {
				current++
			}
		} else if current >= len(detail.History) {
			s.log.Debug().
				Str("address", addr.Hex()).
				Str("tx_hash", e.TxHash.Hex()).
				Msg("placement beyond the last cycle")
		}

		if matrix.CountsTowardBalance(m, e.Place) {
			balance += price
		}
		if user.Referrer == addr {
			partners.Add(e.User)
		}
	}

	detail.Balance = formatter.Fixed3(balance)
	detail.Partners = partners.Items()
	detail.PartnersCount = partners.Len()
	detail.Transactions.TotalCount = len(detail.Transactions.Data)

	return detail, nil
}
