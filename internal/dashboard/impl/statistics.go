package impl

import (
	"context"
	"strings"

	"github.com/dondinetwork/go-dondi/internal/dondi"
	"github.com/dondinetwork/go-dondi/internal/formatter"
	"github.com/dondinetwork/go-dondi/pkg/matrix"
	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/sync/errgroup"
)

// statisticsSources are the event queries that feed the statistics ledger.
var statisticsSources = []struct {
	t     dondi.EventType
	field string
}{
	{dondi.EventNewUserPlace, "referrer"},
	{dondi.EventUpgrade, "user"},
	{dondi.EventReinvest, "user"},
	{dondi.EventSentExtraEthDividends, "receiver"},
	{dondi.EventMissedEthReceive, "receiver"},
}

type classifiedEvent struct {
	event dondi.ContractEvent
	entry matrix.Entry
}

// Statistics implements dashboard.Dashboard.
func (s *DashboardService) Statistics(
	ctx context.Context,
	addr common.Address,
	f dondi.StatisticsFilter,
) (dondi.StatisticsPage, error) {
	lists := make([][]dondi.ContractEvent, len(statisticsSources))
	g, gctx := errgroup.WithContext(ctx)
	for i, src := range statisticsSources {
		i, src := i, src
		g.Go(func() (err error) {
			lists[i], err = s.events(gctx, src.t, src.field, addr)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return dondi.StatisticsPage{}, err
	}

	keep := statisticsPredicate(f)
	var (
		kept     []classifiedEvent
		events   []dondi.ContractEvent
		subjects []common.Address
	)
	for _, list := range lists {
		for _, e := range list {
			entry, ok := matrix.Classify(e)
			if !ok || !keep(e, entry) {
				continue
			}
			kept = append(kept, classifiedEvent{event: e, entry: entry})
			events = append(events, e)
			subjects = append(subjects, entry.Subject)
		}
	}

	txs, users, err := s.metadata(ctx, events, subjects)
	if err != nil {
		return dondi.StatisticsPage{}, err
	}

	entries := make([]dondi.StatisticsEntry, 0, len(kept))
	for _, c := range kept {
		entries = append(entries, dondi.StatisticsEntry{
			Type:            string(c.entry.Category),
			Method:          string(c.entry.Direction),
			ID:              users[c.entry.Subject].IDString(),
			Timestamp:       txs[c.event.TxHash].BlockTimestamp,
			Matrix:          c.event.Matrix,
			Level:           c.event.Level,
			ETH:             c.entry.ETH,
			TransactionHash: c.event.TxHash.Hex(),
		})
	}
	formatter.SortByTimestampDesc(entries, func(e dondi.StatisticsEntry) uint64 { return e.Timestamp })

	page := f.Page
	if page < 1 {
		page = 1
	}
	data, p := formatter.PaginateSlice(entries, page, formatter.StatisticsPageSize)

	return dondi.StatisticsPage{
		TotalPage: p.TotalPages,
		Total:     len(entries),
		Data:      data,
	}, nil
}

// statisticsPredicate builds the filter of a statistics request. Zero values of
// f don't filter.
func statisticsPredicate(f dondi.StatisticsFilter) func(dondi.ContractEvent, matrix.Entry) bool {
	var (
		direction  matrix.Direction
		categories []matrix.Category
		known      = true
	)
	if f.Direction != "" {
		direction, known = matrix.DirectionForFilter(f.Direction)
	}
	if f.Type != "" {
		categories = matrix.CategoriesForType(f.Type)
		if len(categories) == 0 {
			known = false
		}
	}

	return func(e dondi.ContractEvent, entry matrix.Entry) bool {
		if !known {
			return false
		}
		if f.Matrix != 0 && e.Matrix != f.Matrix {
			return false
		}
		if f.Level != 0 && e.Level != f.Level {
			return false
		}
		if direction != "" && entry.Direction != direction {
			return false
		}
		if f.Type != "" && !containsCategory(categories, entry.Category) {
			return false
		}
		if f.Tx != "" && !strings.EqualFold(e.TxHash.Hex(), f.Tx) {
			return false
		}
		return true
	}
}

func containsCategory(categories []matrix.Category, c matrix.Category) bool {
	for _, cat := range categories {
		if cat == c {
			return true
		}
	}
	return false
}
