package availability

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/wolfman30/scheduling-assistant/internal/observability/metrics"
	"github.com/wolfman30/scheduling-assistant/pkg/logging"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var availabilityTracer = otel.Tracer("scheduling.internal.availability")

// Store persists grid slots. Commit is the serialization point for reservations:
// it must re-read every key, require each to be available, and transition the
// first to booked and the rest to booked-secondary, or change nothing and
// return ErrSlotUnavailable.
type Store interface {
	ListProvider(ctx context.Context, provider string) ([]Slot, error)
	Commit(ctx context.Context, keys []SlotKey) ([]Slot, error)
	Seed(ctx context.Context, slots []Slot) (int, error)
	Backend() string
}

// Grid answers availability queries and commits reservations against a Store.
type Grid struct {
	store   Store
	logger  *logging.Logger
	metrics *metrics.BookingMetrics
}

// NewGrid wires a grid over the given store.
func NewGrid(store Store, logger *logging.Logger, m *metrics.BookingMetrics) *Grid {
	if store == nil {
		panic("availability: store required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Grid{store: store, logger: logger.Component("availability"), metrics: m}
}

// ListAvailable returns up to five bookable starts for the provider, earliest
// first. Block sizes other than one or two units produce an empty result.
func (g *Grid) ListAvailable(ctx context.Context, provider string, units int) ([]Slot, error) {
	if !ValidUnits(units) {
		return []Slot{}, nil
	}
	slots, err := g.store.ListProvider(ctx, provider)
	if err != nil {
		return nil, fmt.Errorf("availability: list: %w", err)
	}
	starts := FindStarts(slots, provider, units, DefaultListLimit)
	if starts == nil {
		starts = []Slot{}
	}
	return starts, nil
}

// Reserve consumes the units of a block starting at date/time for the provider.
// Either every unit transitions or none does.
func (g *Grid) Reserve(ctx context.Context, provider, date, clock string, units int) (Reservation, error) {
	ctx, span := availabilityTracer.Start(ctx, "availability.reserve", trace.WithAttributes(
		attribute.String("scheduling.provider", provider),
		attribute.Int("scheduling.units", units),
	))
	defer span.End()

	if !ValidUnits(units) {
		return Reservation{}, ErrInvalidUnits
	}
	provider = strings.TrimSpace(provider)
	start, err := ParseStart(date, clock)
	if err != nil {
		return Reservation{}, err
	}

	keys := RequiredKeys(provider, start, units)
	began := time.Now()
	slots, err := g.store.Commit(ctx, keys)
	elapsed := time.Since(began).Seconds()

	switch {
	case errors.Is(err, ErrSlotUnavailable):
		g.metrics.ObserveReserveLatency(g.store.Backend(), "conflict", elapsed)
		g.metrics.ObserveReserveConflict(provider)
		g.logger.Info("slot unavailable", "provider", provider, "start", start.Format(DateLayout+" "+TimeLayout), "units", units)
		span.SetAttributes(attribute.Bool("scheduling.conflict", true))
		return Reservation{}, err
	case err != nil:
		g.metrics.ObserveReserveLatency(g.store.Backend(), "error", elapsed)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Reservation{}, fmt.Errorf("availability: reserve: %w", err)
	}
	g.metrics.ObserveReserveLatency(g.store.Backend(), "ok", elapsed)

	res := Reservation{Provider: provider, Start: start, Units: units}
	for _, s := range slots {
		res.Slots = append(res.Slots, s.Key())
	}
	if len(slots) > 0 {
		res.Provider = slots[0].Provider
	}
	g.logger.Info("slot reserved", "provider", res.Provider, "start", start.Format(DateLayout+" "+TimeLayout), "units", units)
	return res, nil
}

// Seed inserts slots that do not exist yet. Existing slots keep their status.
func (g *Grid) Seed(ctx context.Context, slots []Slot) (int, error) {
	inserted, err := g.store.Seed(ctx, slots)
	if err != nil {
		return 0, fmt.Errorf("availability: seed: %w", err)
	}
	g.logger.Info("schedule seeded", "offered", len(slots), "inserted", inserted, "backend", g.store.Backend())
	return inserted, nil
}
