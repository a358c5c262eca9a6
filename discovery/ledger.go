package discovery

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/zero-day-ai/failspec/spec"
)

// ErrNotFound indicates the referenced discovery does not exist.
var ErrNotFound = errors.New("discovery not found")

// Clock supplies the current time. Injected so tests can pin timestamps.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Ledger records post-freeze findings with sequential D### identifiers.
// Nothing in the ledger ever flows back into a frozen document; disposing a
// discovery as add_to_next means a human authors a brand-new entry in the
// next revision and validates it independently.
type Ledger struct {
	store  Store
	clock  Clock
	logger *slog.Logger
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithClock sets the time source. Defaults to the system clock.
func WithClock(clock Clock) Option {
	return func(l *Ledger) {
		if clock != nil {
			l.clock = clock
		}
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(l *Ledger) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// NewLedger creates a ledger on the given store. A nil store gets an
// in-memory one.
func NewLedger(store Store, opts ...Option) *Ledger {
	l := &Ledger{
		store:  store,
		clock:  systemClock{},
		logger: slog.Default(),
	}
	if l.store == nil {
		l.store = NewMemoryStore()
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Discover records a new finding with the next sequential id and a pending
// disposition.
func (l *Ledger) Discover(ctx context.Context, description, discoveredBy string) (*spec.Discovery, error) {
	if strings.TrimSpace(description) == "" {
		return nil, fmt.Errorf("discovery requires a description")
	}
	if strings.TrimSpace(discoveredBy) == "" {
		return nil, fmt.Errorf("discovery requires discovered_by")
	}

	seq, err := l.store.NextSequence(ctx)
	if err != nil {
		return nil, fmt.Errorf("reserve discovery id: %w", err)
	}

	d := &spec.Discovery{
		ID:           spec.FormatDiscoveryID(seq),
		Description:  description,
		DiscoveredBy: discoveredBy,
		DiscoveredAt: l.clock.Now(),
		Disposition:  spec.DispositionPending,
	}
	if err := l.store.Save(ctx, d); err != nil {
		return nil, fmt.Errorf("record discovery %s: %w", d.ID, err)
	}

	l.logger.Info("discovery recorded",
		"discovery_id", d.ID,
		"discovered_by", discoveredBy)
	return d, nil
}

// SetDisposition records the human decision about a discovery.
func (l *Ledger) SetDisposition(ctx context.Context, id string, disposition spec.Disposition) (*spec.Discovery, error) {
	if !disposition.IsValid() {
		return nil, fmt.Errorf("invalid disposition: %s", disposition)
	}

	d, err := l.store.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load discovery %s: %w", id, err)
	}
	if d == nil {
		return nil, fmt.Errorf("%s: %w", id, ErrNotFound)
	}

	d.Disposition = disposition
	if err := l.store.Save(ctx, d); err != nil {
		return nil, fmt.Errorf("update discovery %s: %w", id, err)
	}

	l.logger.Info("discovery disposed",
		"discovery_id", id,
		"disposition", disposition)
	return d, nil
}

// Get returns the discovery with the given id.
func (l *Ledger) Get(ctx context.Context, id string) (*spec.Discovery, error) {
	d, err := l.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	return d, nil
}

// List returns all discoveries in id order.
func (l *Ledger) List(ctx context.Context) ([]*spec.Discovery, error) {
	return l.store.List(ctx)
}

// Pending returns the discoveries still awaiting a decision.
func (l *Ledger) Pending(ctx context.Context) ([]*spec.Discovery, error) {
	all, err := l.store.List(ctx)
	if err != nil {
		return nil, err
	}

	var pending []*spec.Discovery
	for _, d := range all {
		if d.Disposition == spec.DispositionPending {
			pending = append(pending, d)
		}
	}
	return pending, nil
}

// Close releases the underlying store.
func (l *Ledger) Close() error {
	return l.store.Close()
}
