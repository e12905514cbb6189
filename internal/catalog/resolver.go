package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"fbrportal/internal/logger"
	"fbrportal/pkg/models"
)

// Date layouts expected by the lookup endpoints.
const (
	RateDateLayout    = "02-Jan-2006"
	SROItemDateLayout = "2006-01-02"
)

// UOMAnnexureID is the annexure the unit-of-measure lookup is made against.
const UOMAnnexureID = 3

// Lookup is the reference-data source. *api.Client satisfies it.
type Lookup interface {
	Rates(ctx context.Context, date string, transTypeID models.ID) ([]Record, error)
	SROs(ctx context.Context, date string, rateID models.ID) ([]Record, error)
	SROItems(ctx context.Context, date string, sroID models.ID) ([]Record, error)
	HSCode(ctx context.Context, code string) (*models.HSCode, error)
	HSUOM(ctx context.Context, hsCode string, annexureID int) ([]Record, error)
}

// Chooser picks one option when a lookup returns several. Returning false
// leaves the field unset.
type Chooser interface {
	ChooseRate(ctx context.Context, options []Rate) (Rate, bool)
	ChooseSRO(ctx context.Context, options []SRO) (SRO, bool)
	ChooseSROItem(ctx context.Context, options []SROItem) (SROItem, bool)
}

// FirstChooser always takes the first option.
type FirstChooser struct{}

func (FirstChooser) ChooseRate(_ context.Context, o []Rate) (Rate, bool)          { return o[0], true }
func (FirstChooser) ChooseSRO(_ context.Context, o []SRO) (SRO, bool)             { return o[0], true }
func (FirstChooser) ChooseSROItem(_ context.Context, o []SROItem) (SROItem, bool) { return o[0], true }

// Resolver fills the classification fields of a product form by walking the
// lookup chain. Lookup failures are logged and leave the state as it was
// after the triggering change.
type Resolver struct {
	lookup  Lookup
	chooser Chooser
	now     func() time.Time
	log     zerolog.Logger
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithClock overrides the clock used to date lookups.
func WithClock(now func() time.Time) ResolverOption {
	return func(r *Resolver) { r.now = now }
}

// NewResolver creates a resolver. A nil chooser picks the first option.
func NewResolver(lookup Lookup, chooser Chooser, opts ...ResolverOption) *Resolver {
	if chooser == nil {
		chooser = FirstChooser{}
	}
	r := &Resolver{
		lookup:  lookup,
		chooser: chooser,
		now:     time.Now,
		log:     logger.WithComponent("catalog"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// resolve reduces a lookup result to a single option: none leaves it unset,
// one is taken as is, several go to choose.
func resolve[T any](options []T, choose func([]T) (T, bool)) (T, bool) {
	var zero T
	switch len(options) {
	case 0:
		return zero, false
	case 1:
		return options[0], true
	default:
		return choose(options)
	}
}

// SelectTransactionType sets the transaction type and looks up its rate.
func (r *Resolver) SelectTransactionType(ctx context.Context, s ProductState, t models.TransactionType) ProductState {
	s = Reduce(s, TransactionTypeSelected{ID: t.ID, Description: t.Description})
	if t.ID.IsZero() {
		return s
	}

	rows, err := r.lookup.Rates(ctx, r.now().Format(RateDateLayout), t.ID)
	if err != nil {
		r.log.Warn().Err(err).Str("transaction_type", t.ID.String()).Msg("Rate lookup failed")
		return s
	}
	rate, ok := resolve(normalizeAll(rows, NormalizeRate), func(o []Rate) (Rate, bool) {
		return r.chooser.ChooseRate(ctx, o)
	})
	if ok {
		s = Reduce(s, RateSelected{Rate: rate})
	}
	return s
}

// SearchSRO looks up the SROs of the selected rate. A single SRO also pulls
// its item.
func (r *Resolver) SearchSRO(ctx context.Context, s ProductState) ProductState {
	if s.Rate.ID.IsZero() {
		return s
	}

	rows, err := r.lookup.SROs(ctx, r.now().Format(RateDateLayout), s.Rate.ID)
	if err != nil {
		r.log.Warn().Err(err).Str("rate_id", s.Rate.ID.String()).Msg("SRO lookup failed")
		return s
	}
	sro, ok := resolve(normalizeAll(rows, NormalizeSRO), func(o []SRO) (SRO, bool) {
		return r.chooser.ChooseSRO(ctx, o)
	})
	if !ok {
		return s
	}
	return r.SelectSRO(ctx, s, sro)
}

// SelectSRO sets the SRO and looks up its item.
func (r *Resolver) SelectSRO(ctx context.Context, s ProductState, sro SRO) ProductState {
	s = Reduce(s, SROSelected{SRO: sro})
	if sro.ID.IsZero() {
		return s
	}
	return r.fetchSROItem(ctx, s)
}

func (r *Resolver) fetchSROItem(ctx context.Context, s ProductState) ProductState {
	rows, err := r.lookup.SROItems(ctx, r.now().Format(SROItemDateLayout), s.SRO.ID)
	if err != nil {
		r.log.Warn().Err(err).Str("sro_id", s.SRO.ID.String()).Msg("SRO item lookup failed")
		return s
	}
	item, ok := resolve(normalizeAll(rows, NormalizeSROItem), func(o []SROItem) (SROItem, bool) {
		return r.chooser.ChooseSROItem(ctx, o)
	})
	if ok {
		s = Reduce(s, SROItemSelected{Item: item})
	}
	return s
}

// SelectHSCode sets the HS code, then loads its description and the first
// applicable unit of measure.
func (r *Resolver) SelectHSCode(ctx context.Context, s ProductState, code string) ProductState {
	s = Reduce(s, HSCodeSelected{Code: code})
	if code == "" {
		return s
	}

	hs, err := r.lookup.HSCode(ctx, code)
	if err != nil {
		r.log.Warn().Err(err).Str("hs_code", code).Msg("HS code lookup failed")
		return s
	}
	if hs != nil && hs.Description != "" {
		s = Reduce(s, HSDescriptionLoaded{Description: hs.Description})
	}

	rows, err := r.lookup.HSUOM(ctx, code, UOMAnnexureID)
	if err != nil {
		r.log.Warn().Err(err).Str("hs_code", code).Msg("UOM lookup failed")
		return s
	}
	if len(rows) > 0 {
		s = Reduce(s, UOMLoaded{UOM: NormalizeUOM(rows[0])})
	}
	return s
}

// Complete fills gaps left by a prefilled form: an SRO without an item
// description gets its item looked up.
func (r *Resolver) Complete(ctx context.Context, s ProductState) ProductState {
	if !s.SRO.ID.IsZero() && s.SROItemDescription == "" {
		return r.fetchSROItem(ctx, s)
	}
	return s
}

// Classify runs the whole chain for a transaction type and HS code.
func (r *Resolver) Classify(ctx context.Context, s ProductState, t models.TransactionType, hsCode string) (ProductState, error) {
	if err := ctx.Err(); err != nil {
		return s, fmt.Errorf("catalog: classify: %w", err)
	}
	s = r.SelectTransactionType(ctx, s, t)
	s = r.SearchSRO(ctx, s)
	s = r.SelectHSCode(ctx, s, hsCode)
	return s, nil
}
