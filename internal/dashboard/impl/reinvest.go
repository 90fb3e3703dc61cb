package impl

import (
	"context"

	"github.com/dondinetwork/go-dondi/internal/dondi"
	"github.com/dondinetwork/go-dondi/pkg/matrix"
	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/sync/errgroup"
)

// ReinvestPartners implements dashboard.Dashboard.
func (s *DashboardService) ReinvestPartners(
	ctx context.Context,
	addr common.Address,
	m dondi.Matrix,
	l dondi.Level,
) (dondi.ReinvestPartners, error) {
	var reinvests, placements []dondi.ContractEvent
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		reinvests, err = s.events(gctx, dondi.EventReinvest, "user", addr)
		return err
	})
	g.Go(func() (err error) {
		placements, err = s.events(gctx, dondi.EventNewUserPlace, "referrer", addr)
		return err
	})
	if err := g.Wait(); err != nil {
		return dondi.ReinvestPartners{}, err
	}

	var out dondi.ReinvestPartners
	for _, e := range reinvests {
		if e.Matches(m, l) {
			out.ReinvestCount++
		}
	}

	var placed []common.Address
	for _, e := range placements {
		if e.Matches(m, l) {
			placed = append(placed, e.User)
		}
	}
	users, err := s.users(ctx, placed)
	if err != nil {
		return dondi.ReinvestPartners{}, err
	}

	partners := matrix.NewPartnerSet()
	for _, p := range placed {
		if users[p].Referrer == addr {
			partners.Add(p)
		}
	}
	out.Partners = partners.Items()
	out.PartnersCount = partners.Len()

	return out, nil
}
