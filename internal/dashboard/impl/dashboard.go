package impl

import (
	"context"
	"fmt"

	"github.com/dondinetwork/go-dondi/internal/dashboard"
	"github.com/dondinetwork/go-dondi/internal/dondi"
	"github.com/dondinetwork/go-dondi/pkg/chainsource"
	"github.com/dondinetwork/go-dondi/pkg/explorer"
	"github.com/dondinetwork/go-dondi/pkg/links"
	"github.com/dondinetwork/go-dondi/pkg/logging"
	"github.com/dondinetwork/go-dondi/pkg/matrix"
	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// DashboardService implements dashboard.Dashboard on top of an event source.
type DashboardService struct {
	log      zerolog.Logger
	source   chainsource.EventSource
	explorer explorer.Explorer
	links    links.Store
	config   *dashboard.Config
}

var _ dashboard.Dashboard = (*DashboardService)(nil)

// NewDashboard creates a new DashboardService.
func NewDashboard(
	source chainsource.EventSource,
	explorer explorer.Explorer,
	links links.Store,
	opts ...dashboard.Option,
) (*DashboardService, error) {
	config := dashboard.DefaultConfig()
	for _, o := range opts {
		if err := o(config); err != nil {
			return nil, fmt.Errorf("applying provided option: %s", err)
		}
	}

	return &DashboardService{
		log:      logging.Component("dashboard"),
		source:   source,
		explorer: explorer,
		links:    links,
		config:   config,
	}, nil
}

// forEach runs f for every index in [0, n) with at most MaxConcurrentCalls in
// flight. The first error cancels the remaining calls.
func (s *DashboardService) forEach(ctx context.Context, n int, f func(ctx context.Context, i int) error) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.MaxConcurrentCalls)
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			return f(ctx, i)
		})
	}
	return g.Wait()
}

// events returns the events of type t matching filter since the start block,
// in emission order.
func (s *DashboardService) events(
	ctx context.Context,
	t dondi.EventType,
	field string,
	addr common.Address,
) ([]dondi.ContractEvent, error) {
	events, err := s.source.FetchEvents(ctx, t, chainsource.Filter{field: addr}, s.config.StartBlock)
	if err != nil {
		return nil, fmt.Errorf("fetching %s events: %w", t, err)
	}
	return events, nil
}

// users fetches the current record of every distinct address.
func (s *DashboardService) users(ctx context.Context, addrs []common.Address) (matrix.Users, error) {
	unique := make([]common.Address, 0, len(addrs))
	seen := make(map[common.Address]struct{}, len(addrs))
	for _, a := range addrs {
		if _, ok := seen[a]; ok {
			continue
		}
		seen[a] = struct{}{}
		unique = append(unique, a)
	}

	records := make([]dondi.UserRecord, len(unique))
	if err := s.forEach(ctx, len(unique), func(ctx context.Context, i int) error {
		rec, err := s.source.FetchCurrentUser(ctx, unique[i])
		if err != nil {
			return fmt.Errorf("fetching user %s: %w", unique[i].Hex(), err)
		}
		records[i] = rec
		return nil
	}); err != nil {
		return nil, err
	}

	users := make(matrix.Users, len(unique))
	for i, a := range unique {
		users[a] = records[i]
	}
	return users, nil
}

// transactions fetches the context of every distinct transaction of events.
func (s *DashboardService) transactions(
	ctx context.Context,
	events []dondi.ContractEvent,
) (map[common.Hash]dondi.TransactionContext, error) {
	hashes := make([]common.Hash, 0, len(events))
	seen := make(map[common.Hash]struct{}, len(events))
	for _, e := range events {
		if _, ok := seen[e.TxHash]; ok {
			continue
		}
		seen[e.TxHash] = struct{}{}
		hashes = append(hashes, e.TxHash)
	}

	txs := make([]dondi.TransactionContext, len(hashes))
	if err := s.forEach(ctx, len(hashes), func(ctx context.Context, i int) error {
		tc, err := s.source.FetchTransaction(ctx, hashes[i])
		if err != nil {
			return fmt.Errorf("fetching transaction %s: %w", hashes[i].Hex(), err)
		}
		txs[i] = tc
		return nil
	}); err != nil {
		return nil, err
	}

	out := make(map[common.Hash]dondi.TransactionContext, len(hashes))
	for i, h := range hashes {
		out[h] = txs[i]
	}
	return out, nil
}

// metadata fetches the transactions of events and the records of subjects,
// concurrently.
func (s *DashboardService) metadata(
	ctx context.Context,
	events []dondi.ContractEvent,
	subjects []common.Address,
) (map[common.Hash]dondi.TransactionContext, matrix.Users, error) {
	var (
		txs   map[common.Hash]dondi.TransactionContext
		users matrix.Users
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		txs, err = s.transactions(gctx, events)
		return err
	})
	g.Go(func() (err error) {
		users, err = s.users(gctx, subjects)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return txs, users, nil
}
