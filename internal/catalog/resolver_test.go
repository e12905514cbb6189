package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fbrportal/pkg/models"
)

type fakeLookup struct {
	rates    []Record
	sros     []Record
	sroItems []Record
	hs       *models.HSCode
	uoms     []Record
	err      error

	dates     []string
	annexures []int
	calls     []string
}

func (f *fakeLookup) Rates(_ context.Context, date string, id models.ID) ([]Record, error) {
	f.dates = append(f.dates, date)
	f.calls = append(f.calls, "rates:"+id.String())
	return f.rates, f.err
}

func (f *fakeLookup) SROs(_ context.Context, date string, id models.ID) ([]Record, error) {
	f.dates = append(f.dates, date)
	f.calls = append(f.calls, "sros:"+id.String())
	return f.sros, f.err
}

func (f *fakeLookup) SROItems(_ context.Context, date string, id models.ID) ([]Record, error) {
	f.dates = append(f.dates, date)
	f.calls = append(f.calls, "sro_items:"+id.String())
	return f.sroItems, f.err
}

func (f *fakeLookup) HSCode(_ context.Context, code string) (*models.HSCode, error) {
	f.calls = append(f.calls, "hs:"+code)
	return f.hs, f.err
}

func (f *fakeLookup) HSUOM(_ context.Context, code string, annexure int) ([]Record, error) {
	f.annexures = append(f.annexures, annexure)
	f.calls = append(f.calls, "uom:"+code)
	return f.uoms, f.err
}

type lastChooser struct{ asked int }

func (c *lastChooser) ChooseRate(_ context.Context, o []Rate) (Rate, bool) {
	c.asked++
	return o[len(o)-1], true
}

func (c *lastChooser) ChooseSRO(_ context.Context, o []SRO) (SRO, bool) {
	c.asked++
	return o[len(o)-1], true
}

func (c *lastChooser) ChooseSROItem(_ context.Context, o []SROItem) (SROItem, bool) {
	c.asked++
	return SROItem{}, false
}

var fixedNow = func() time.Time { return time.Date(2025, time.March, 7, 10, 0, 0, 0, time.UTC) }

func TestSelectTransactionTypeSingleRate(t *testing.T) {
	lookup := &fakeLookup{rates: []Record{{"RATE_ID": float64(413), "RATE_DESC": "18%", "RATE_VALUE": float64(18)}}}
	r := NewResolver(lookup, nil, WithClock(fixedNow))

	s := r.SelectTransactionType(context.Background(), filledState(), models.TransactionType{ID: "75", Description: "Goods"})

	assert.Equal(t, "413", s.Rate.ID.String())
	assert.Equal(t, "18", s.Rate.Value.String())
	assert.Equal(t, SRO{}, s.SRO)
	assert.Equal(t, []string{"07-Mar-2025"}, lookup.dates)
}

func TestSelectTransactionTypeManyRates(t *testing.T) {
	lookup := &fakeLookup{rates: []Record{{"rate_id": "1"}, {"rate_id": "2"}}}
	chooser := &lastChooser{}
	r := NewResolver(lookup, chooser, WithClock(fixedNow))

	s := r.SelectTransactionType(context.Background(), NewProductState(), models.TransactionType{ID: "75"})

	assert.Equal(t, 1, chooser.asked)
	assert.Equal(t, "2", s.Rate.ID.String())
}

func TestSelectTransactionTypeNoRates(t *testing.T) {
	lookup := &fakeLookup{}
	r := NewResolver(lookup, nil, WithClock(fixedNow))

	s := r.SelectTransactionType(context.Background(), filledState(), models.TransactionType{ID: "75"})
	assert.True(t, s.Rate.ID.IsZero())
	assert.Equal(t, models.ID("75"), s.TransactionTypeID)
}

func TestSelectTransactionTypeLookupFailure(t *testing.T) {
	lookup := &fakeLookup{err: errors.New("upstream timeout")}
	r := NewResolver(lookup, nil, WithClock(fixedNow))

	s := r.SelectTransactionType(context.Background(), filledState(), models.TransactionType{ID: "18"})
	assert.Equal(t, models.ID("18"), s.TransactionTypeID)
	assert.True(t, s.Rate.ID.IsZero())
}

func TestSearchSROSingleFetchesItem(t *testing.T) {
	lookup := &fakeLookup{
		sros:     []Record{{"sro_id": float64(389), "serno": float64(5), "sro_description": "Sixth Schedule"}},
		sroItems: []Record{{"sro_item_id": float64(1), "sro_item_desc": "81"}},
	}
	r := NewResolver(lookup, nil, WithClock(fixedNow))

	start := filledState()
	start.SRO = SRO{}
	start.SROItemDescription = ""
	s := r.SearchSRO(context.Background(), start)

	assert.Equal(t, "389", s.SRO.ID.String())
	assert.Equal(t, "81", s.SROItemDescription)
	assert.Equal(t, []string{"sros:413", "sro_items:389"}, lookup.calls)
	assert.Equal(t, []string{"07-Mar-2025", "2025-03-07"}, lookup.dates)
}

func TestSearchSROWithoutRate(t *testing.T) {
	lookup := &fakeLookup{}
	r := NewResolver(lookup, nil)

	s := r.SearchSRO(context.Background(), NewProductState())
	assert.Equal(t, NewProductState(), s)
	assert.Empty(t, lookup.calls)
}

func TestSROItemChooserDecline(t *testing.T) {
	lookup := &fakeLookup{sroItems: []Record{{"item_id": "1"}, {"item_id": "2"}}}
	chooser := &lastChooser{}
	r := NewResolver(lookup, chooser, WithClock(fixedNow))

	s := r.SelectSRO(context.Background(), filledState(), SRO{ID: "9"})
	assert.Equal(t, "9", s.SRO.ID.String())
	assert.Empty(t, s.SROItemDescription)
	assert.Equal(t, 1, chooser.asked)
}

func TestSelectHSCode(t *testing.T) {
	lookup := &fakeLookup{
		hs:   &models.HSCode{Code: "2523.2900", Description: "Portland cement"},
		uoms: []Record{{"uoM_ID": float64(13), "description": "KG"}, {"uom_id": float64(1), "description": "MT"}},
	}
	r := NewResolver(lookup, nil)

	s := r.SelectHSCode(context.Background(), NewProductState(), "2523.2900")
	assert.Equal(t, "Portland cement", s.HSDescription)
	assert.Equal(t, "13", s.UOM.ID.String())
	assert.Equal(t, "KG", s.UOM.Description)
	assert.Equal(t, []int{UOMAnnexureID}, lookup.annexures)
}

func TestSelectHSCodeEmpty(t *testing.T) {
	lookup := &fakeLookup{}
	r := NewResolver(lookup, nil)

	s := r.SelectHSCode(context.Background(), filledState(), "")
	assert.Empty(t, s.HSDescription)
	assert.Equal(t, UOM{}, s.UOM)
	assert.Empty(t, lookup.calls)
}

func TestCompleteFetchesMissingSROItem(t *testing.T) {
	lookup := &fakeLookup{sroItems: []Record{{"sro_item_desc": "12(ii)"}}}
	r := NewResolver(lookup, nil, WithClock(fixedNow))

	s := filledState()
	s.SROItemDescription = ""
	s = r.Complete(context.Background(), s)
	assert.Equal(t, "12(ii)", s.SROItemDescription)

	lookup.calls = nil
	r.Complete(context.Background(), filledState())
	assert.Empty(t, lookup.calls)
}

func TestClassifyCancelled(t *testing.T) {
	r := NewResolver(&fakeLookup{}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Classify(ctx, NewProductState(), models.TransactionType{ID: "1"}, "0101")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
