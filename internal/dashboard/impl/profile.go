package impl

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/dondinetwork/go-dondi/internal/dondi"
	"github.com/dondinetwork/go-dondi/internal/formatter"
	"github.com/dondinetwork/go-dondi/pkg/errors"
	"github.com/dondinetwork/go-dondi/pkg/matrix"
	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/sync/errgroup"
)

// slotKey addresses one level of one matrix.
type slotKey struct {
	matrix dondi.Matrix
	level  dondi.Level
}

// slotKeys lists every level of both matrices, X3 first.
func slotKeys() []slotKey {
	keys := make([]slotKey, 0, 2*int(dondi.LastLevel))
	for _, m := range []dondi.Matrix{dondi.X3, dondi.X6} {
		for _, l := range dondi.Levels() {
			keys = append(keys, slotKey{m, l})
		}
	}
	return keys
}

// levelAccumulator holds the amounts of a level until they are rendered.
type levelAccumulator struct {
	slot     *dondi.Slot
	partners *matrix.PartnerSet
	missed   float64
	profit   float64
}

// Profile implements dashboard.Dashboard.
func (s *DashboardService) Profile(ctx context.Context, addr common.Address) (dondi.Profile, error) {
	user, err := s.source.FetchCurrentUser(ctx, addr)
	if err != nil {
		return dondi.Profile{}, fmt.Errorf("fetching user: %w", err)
	}
	profile := dondi.Profile{
		ID:              user.IDString(),
		Address:         addr.Hex(),
		ReferrerAddress: user.Referrer.Hex(),
		X3Matrix:        make(map[string]*dondi.X3Slot, dondi.LastLevel),
		X6Matrix:        make(map[string]*dondi.X6Slot, dondi.LastLevel),
		ActiveX3Levels:  make(map[string]bool, dondi.LastLevel),
		ActiveX6Levels:  make(map[string]bool, dondi.LastLevel),
	}
	if user.PartnersCount != nil {
		profile.PartnersCount = user.PartnersCount.Uint64()
	}
	profile.AffiliateLink = s.affiliateLink(ctx, profile.ID)

	keys := slotKeys()

	// Active flags decide the referrer shown by every level.
	active := make([]bool, len(keys))
	if err := s.forEach(ctx, len(keys), func(ctx context.Context, i int) error {
		ok, err := s.source.IsLevelActive(ctx, addr, keys[i].matrix, keys[i].level)
		if err != nil {
			return fmt.Errorf("fetching active %s level %d: %w", keys[i].matrix, keys[i].level, err)
		}
		active[i] = ok
		return nil
	}); err != nil {
		return dondi.Profile{}, err
	}

	// Slot states and the records of their occupants.
	states := make([]dondi.SlotState, len(keys))
	if err := s.forEach(ctx, len(keys), func(ctx context.Context, i int) error {
		st, err := s.source.FetchSlotState(ctx, addr, keys[i].matrix, keys[i].level)
		if err != nil {
			return fmt.Errorf("fetching %s level %d: %w", keys[i].matrix, keys[i].level, err)
		}
		states[i] = st
		return nil
	}); err != nil {
		return dondi.Profile{}, err
	}
	var occupants []common.Address
	for _, st := range states {
		occupants = append(occupants, matrix.Occupants(st)...)
	}
	occupantUsers, err := s.users(ctx, occupants)
	if err != nil {
		return dondi.Profile{}, err
	}

	acc := make(map[slotKey]*levelAccumulator, len(keys))
	for i, k := range keys {
		st := states[i]
		referrer := user.Referrer
		if active[i] {
			referrer = st.CurrentReferrer
		}
		slot := dondi.Slot{
			SlotNumber:      k.level,
			CurrentReferrer: st.CurrentReferrer.Hex(),
			Blocked:         st.Blocked,
			SlotStatus:      matrix.SlotStatus(k.level, st.Blocked),
			SlotBuyPrice:    dondi.LevelPrice(k.level),
			ReferrerAddress: referrer.Hex(),
			IsActive:        active[i],
			PrevSlot:        k.level.Prev().Key(),
			NextSlot:        k.level.Next().Key(),
		}
		if k.level == dondi.FirstLevel {
			slot.PartnersCount = profile.PartnersCount
		}

		switch k.matrix {
		case dondi.X3:
			items, err := matrix.WalkX3(addr, st, occupantUsers)
			if err != nil {
				return dondi.Profile{}, fmt.Errorf("walking x3 level %d: %s", k.level, err)
			}
			x3 := &dondi.X3Slot{Slot: slot, ChildItems: items}
			profile.X3Matrix[k.level.Key()] = x3
			profile.ActiveX3Levels[k.level.Key()] = active[i]
			acc[k] = &levelAccumulator{slot: &x3.Slot, partners: matrix.NewPartnerSet()}
		case dondi.X6:
			items, err := matrix.WalkX6(addr, referrer, st, occupantUsers)
			if err != nil {
				return dondi.Profile{}, fmt.Errorf("walking x6 level %d: %s", k.level, err)
			}
			x6 := &dondi.X6Slot{Slot: slot, ClosedPart: st.ClosedPart.Hex(), ChildItems: items}
			profile.X6Matrix[k.level.Key()] = x6
			profile.ActiveX6Levels[k.level.Key()] = active[i]
			acc[k] = &levelAccumulator{slot: &x6.Slot, partners: matrix.NewPartnerSet()}
		}
	}

	balances, err := s.foldProfileEvents(ctx, addr, acc)
	if err != nil {
		return dondi.Profile{}, err
	}

	for _, a := range acc {
		a.slot.Partners = a.partners.Items()
		a.slot.MissedAmount = formatter.Fixed3(a.missed)
		a.slot.ProfitAmount = formatter.Fixed3(a.profit)
	}
	profile.X3Balance = formatter.Fixed3(balances[dondi.X3])
	profile.X6Balance = formatter.Fixed3(balances[dondi.X6])

	return profile, nil
}

// foldProfileEvents replays the events of addr into the level accumulators and
// returns the balance of each matrix.
func (s *DashboardService) foldProfileEvents(
	ctx context.Context,
	addr common.Address,
	acc map[slotKey]*levelAccumulator,
) (map[dondi.Matrix]float64, error) {
	var reinvests, placements, dividends, missed []dondi.ContractEvent
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		reinvests, err = s.events(gctx, dondi.EventReinvest, "user", addr)
		return err
	})
	g.Go(func() (err error) {
		placements, err = s.events(gctx, dondi.EventNewUserPlace, "referrer", addr)
		return err
	})
	g.Go(func() (err error) {
		dividends, err = s.events(gctx, dondi.EventSentExtraEthDividends, "receiver", addr)
		return err
	})
	g.Go(func() (err error) {
		missed, err = s.events(gctx, dondi.EventMissedEthReceive, "receiver", addr)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	placed := make([]common.Address, len(placements))
	for i, e := range placements {
		placed[i] = e.User
	}
	users, err := s.users(ctx, placed)
	if err != nil {
		return nil, err
	}

	balances := map[dondi.Matrix]float64{}
	lookup := func(e dondi.ContractEvent) (*levelAccumulator, bool) {
		a, ok := acc[slotKey{e.Matrix, e.Level}]
		if !ok {
			s.log.Warn().
				Str("tx_hash", e.TxHash.Hex()).
				Uint8("matrix", uint8(e.Matrix)).
				Uint8("level", uint8(e.Level)).
				Msg("event for unknown matrix level")
		}
		return a, ok
	}

	for _, e := range reinvests {
		if a, ok := lookup(e); ok {
			a.slot.ReinvestCount++
		}
	}
	for _, e := range placements {
		a, ok := lookup(e)
		if !ok {
			continue
		}
		if users[e.User].Referrer == addr && a.partners.Add(e.User) && e.Level > dondi.FirstLevel {
			a.slot.PartnersCount++
		}
		if matrix.CountsTowardBalance(e.Matrix, e.Place) {
			balances[e.Matrix] += dondi.LevelPrice(e.Level)
		}
	}
	for _, e := range dividends {
		if a, ok := lookup(e); ok {
			price := dondi.LevelPrice(e.Level)
			balances[e.Matrix] += price
			a.profit += price
		}
	}
	for _, e := range missed {
		if a, ok := lookup(e); ok {
			a.missed += dondi.LevelPrice(e.Level)
		}
	}

	return balances, nil
}

// affiliateLink returns the personal link of the user id, or an empty string.
// Link store failures don't fail the profile.
func (s *DashboardService) affiliateLink(ctx context.Context, uid string) string {
	if s.links == nil || uid == "" {
		return ""
	}
	link, err := s.links.Get(ctx, uid)
	if err != nil {
		if !stderrors.Is(err, errors.ErrNotFound) {
			s.log.Warn().Err(err).Str("uid", uid).Msg("fetching affiliate link")
		}
		return ""
	}
	return link.PersonalLink
}
