package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/dondinetwork/go-dondi/internal/dondi"
	"github.com/dondinetwork/go-dondi/pkg/metrics"
	"github.com/ethereum/go-ethereum/common"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/global"
	"go.opentelemetry.io/otel/metric/instrument"
	"go.uber.org/atomic"
)

// InstrumentedDashboard implements an instrumented Dashboard.
type InstrumentedDashboard struct {
	dashboard        Dashboard
	callCount        instrument.Int64Counter
	latencyHistogram instrument.Int64Histogram
	inFlight         atomic.Int64
}

var _ (Dashboard) = (*InstrumentedDashboard)(nil)

// NewInstrumentedDashboard creates a new InstrumentedDashboard.
func NewInstrumentedDashboard(dashboard Dashboard) (Dashboard, error) {
	meter := global.MeterProvider().Meter(metrics.MeterName)
	callCount, err := meter.Int64Counter("dondi.dashboard.call.count")
	if err != nil {
		return &InstrumentedDashboard{}, fmt.Errorf("registering call counter: %s", err)
	}
	latencyHistogram, err := meter.Int64Histogram("dondi.dashboard.call.latency")
	if err != nil {
		return &InstrumentedDashboard{}, fmt.Errorf("registering latency histogram: %s", err)
	}

	d := &InstrumentedDashboard{
		dashboard:        dashboard,
		callCount:        callCount,
		latencyHistogram: latencyHistogram,
	}

	inFlight, err := meter.Int64ObservableGauge("dondi.dashboard.inflight")
	if err != nil {
		return &InstrumentedDashboard{}, fmt.Errorf("registering in flight gauge: %s", err)
	}
	if _, err := meter.RegisterCallback(func(ctx context.Context, o metric.Observer) error {
		o.ObserveInt64(inFlight, d.inFlight.Load(), metrics.BaseAttrs...)
		return nil
	}, inFlight); err != nil {
		return &InstrumentedDashboard{}, fmt.Errorf("registering callback: %s", err)
	}

	return d, nil
}

// Profile implements Dashboard.
func (d *InstrumentedDashboard) Profile(ctx context.Context, addr common.Address) (dondi.Profile, error) {
	done := d.track(ctx, "Profile")
	p, err := d.dashboard.Profile(ctx, addr)
	done(err)
	return p, err
}

// SlotDetail implements Dashboard.
func (d *InstrumentedDashboard) SlotDetail(
	ctx context.Context, addr common.Address, m dondi.Matrix, l dondi.Level,
) (dondi.SlotDetail, error) {
	done := d.track(ctx, "SlotDetail", attribute.Int("matrix", int(m)))
	sd, err := d.dashboard.SlotDetail(ctx, addr, m, l)
	done(err)
	return sd, err
}

// Statistics implements Dashboard.
func (d *InstrumentedDashboard) Statistics(
	ctx context.Context, addr common.Address, f dondi.StatisticsFilter,
) (dondi.StatisticsPage, error) {
	done := d.track(ctx, "Statistics")
	page, err := d.dashboard.Statistics(ctx, addr, f)
	done(err)
	return page, err
}

// Partners implements Dashboard.
func (d *InstrumentedDashboard) Partners(
	ctx context.Context, addr common.Address, f dondi.PartnersFilter,
) (dondi.PartnersPage, error) {
	done := d.track(ctx, "Partners")
	page, err := d.dashboard.Partners(ctx, addr, f)
	done(err)
	return page, err
}

// Info implements Dashboard.
func (d *InstrumentedDashboard) Info(ctx context.Context) (dondi.Info, error) {
	done := d.track(ctx, "Info")
	info, err := d.dashboard.Info(ctx)
	done(err)
	return info, err
}

// ReinvestPartners implements Dashboard.
func (d *InstrumentedDashboard) ReinvestPartners(
	ctx context.Context, addr common.Address, m dondi.Matrix, l dondi.Level,
) (dondi.ReinvestPartners, error) {
	done := d.track(ctx, "ReinvestPartners", attribute.Int("matrix", int(m)))
	rp, err := d.dashboard.ReinvestPartners(ctx, addr, m, l)
	done(err)
	return rp, err
}

func (d *InstrumentedDashboard) track(ctx context.Context, method string, attrs ...attribute.KeyValue) func(error) {
	start := time.Now()
	d.inFlight.Inc()
	return func(err error) {
		d.inFlight.Dec()
		latency := time.Since(start).Milliseconds()

		attributes := append([]attribute.KeyValue{
			{Key: "method", Value: attribute.StringValue(method)},
			{Key: "success", Value: attribute.BoolValue(err == nil)},
		}, attrs...)
		attributes = append(attributes, metrics.BaseAttrs...)

		d.callCount.Add(ctx, 1, attributes...)
		d.latencyHistogram.Record(ctx, latency, attributes...)
	}
}
