package impl

import (
	"context"
	"fmt"
	"strings"

	"github.com/dondinetwork/go-dondi/internal/dondi"
	"github.com/dondinetwork/go-dondi/internal/formatter"
	"github.com/ethereum/go-ethereum/common"
)

// Partners implements dashboard.Dashboard.
func (s *DashboardService) Partners(
	ctx context.Context,
	addr common.Address,
	f dondi.PartnersFilter,
) (dondi.PartnersPage, error) {
	registrations, err := s.events(ctx, dondi.EventRegistration, "referrer", addr)
	if err != nil {
		return dondi.PartnersPage{}, err
	}

	var (
		partners []dondi.ContractEvent
		wallets  []common.Address
		seen     = map[string]struct{}{}
	)
	for _, e := range registrations {
		key := dondi.Lower(e.User)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		if !matchesSearch(e, f.Search) {
			continue
		}
		partners = append(partners, e)
		wallets = append(wallets, e.User)
	}

	txs, users, err := s.metadata(ctx, partners, wallets)
	if err != nil {
		return dondi.PartnersPage{}, err
	}
	levels, err := s.highestLevels(ctx, wallets)
	if err != nil {
		return dondi.PartnersPage{}, err
	}

	entries := make([]dondi.PartnerEntry, 0, len(partners))
	for i, e := range partners {
		entry := dondi.PartnerEntry{
			ID:        partnerID(e, users[e.User]),
			Timestamp: txs[e.TxHash].BlockTimestamp,
			Wallet:    e.User.Hex(),
			X3:        levels[i][0],
			X6:        levels[i][1],
			Profit:    formatter.Fixed3(0),
		}
		if pc := users[e.User].PartnersCount; pc != nil {
			entry.Partners = pc.Uint64()
		}
		if !matchesLevel(entry, f.Matrix, f.Level) {
			continue
		}
		entries = append(entries, entry)
	}
	formatter.SortByTimestampDesc(entries, func(e dondi.PartnerEntry) uint64 { return e.Timestamp })

	page := f.Page
	if page < 1 {
		page = 1
	}
	data, p := formatter.PaginateSlice(entries, page, formatter.PartnersPageSize)

	return dondi.PartnersPage{
		TotalPage: p.TotalPages,
		Total:     len(entries),
		Data:      data,
	}, nil
}

// highestLevels returns the highest active X3 and X6 level of every wallet.
// Wallets without an active level report level 1.
func (s *DashboardService) highestLevels(ctx context.Context, wallets []common.Address) ([][2]dondi.Level, error) {
	keys := slotKeys()
	active := make([]bool, len(wallets)*len(keys))
	if err := s.forEach(ctx, len(active), func(ctx context.Context, i int) error {
		w, k := wallets[i/len(keys)], keys[i%len(keys)]
		ok, err := s.source.IsLevelActive(ctx, w, k.matrix, k.level)
		if err != nil {
			return fmt.Errorf("fetching active %s level %d of %s: %w", k.matrix, k.level, w.Hex(), err)
		}
		active[i] = ok
		return nil
	}); err != nil {
		return nil, err
	}

	out := make([][2]dondi.Level, len(wallets))
	for i := range wallets {
		out[i] = [2]dondi.Level{dondi.FirstLevel, dondi.FirstLevel}
		for j, k := range keys {
			if active[i*len(keys)+j] {
				out[i][k.matrix-1] = k.level
			}
		}
	}
	return out, nil
}

func partnerID(e dondi.ContractEvent, u dondi.UserRecord) string {
	if e.UserID != nil {
		return e.UserID.String()
	}
	return u.IDString()
}

// matchesSearch keeps a registration whose user id or wallet equals search.
func matchesSearch(e dondi.ContractEvent, search string) bool {
	if search == "" {
		return true
	}
	if e.UserID != nil && e.UserID.String() == search {
		return true
	}
	return strings.EqualFold(e.User.Hex(), search)
}

// matchesLevel keeps partners whose highest level in m is at least l.
func matchesLevel(e dondi.PartnerEntry, m dondi.Matrix, l dondi.Level) bool {
	if m == 0 || l == 0 {
		return true
	}
	switch m {
	case dondi.X3:
		return e.X3 >= l
	case dondi.X6:
		return e.X6 >= l
	default:
		return false
	}
}
