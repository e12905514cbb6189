package invoice

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fbrportal/pkg/models"
)

func dashboardFeed() []models.Invoice {
	at := func(day int) *time.Time {
		t := time.Date(2025, 1, day, 9, 0, 0, 0, time.UTC)
		return &t
	}
	return []models.Invoice{
		{ID: "1", Status: models.StatusPosted, InvoiceDate: "2025-01-05", InvoiceAmount: d("600"), Buyer: &models.BuyerRef{BusinessName: "Acme"}, CreatedAt: at(5)},
		{ID: "2", Status: models.StatusPosted, InvoiceDate: "2025-01-06", InvoiceAmount: d("200"), DescriptionBuyer: "Globex", CreatedAt: at(6)},
		{ID: "3", Status: models.StatusCreated, InvoiceDate: "2025-02-10", InvoiceAmount: d("150"), Buyer: &models.BuyerRef{BusinessName: "Acme"}, CreatedAt: at(10)},
		{ID: "4", InvoiceDate: "2025-04-01", InvoiceAmount: d("50"), CreatedAt: at(1)},
	}
}

func TestSummarizeTotals(t *testing.T) {
	s := Summarize(dashboardFeed(), Monthly)

	assert.Equal(t, 4, s.Count)
	assertDecimal(t, "1000", s.TotalSales)
	assertDecimal(t, "250", s.Average)
	assert.Equal(t, 2, s.StatusTotal(models.StatusPosted))
	assert.Equal(t, 1, s.StatusTotal(models.StatusCreated))
	assert.Equal(t, 1, s.StatusTotal("UNKNOWN"))
	assert.Zero(t, s.StatusTotal(models.StatusPostingFailed))
}

func TestSummarizeEmptyFeed(t *testing.T) {
	s := Summarize(nil, Daily)
	assert.Zero(t, s.Count)
	assert.True(t, s.Average.IsZero())
	assert.Empty(t, s.Trend)
	assert.Empty(t, s.TopBuyers)
}

func TestSummarizeTrendBuckets(t *testing.T) {
	keys := func(p Period) []string {
		var out []string
		for _, pt := range Summarize(dashboardFeed(), p).Trend {
			out = append(out, pt.Key)
		}
		return out
	}

	assert.Equal(t, []string{"2025-01", "2025-02", "2025-04"}, keys(Monthly))
	assert.Equal(t, []string{"2025-Q1", "2025-Q2"}, keys(Quarterly))
	assert.Equal(t, []string{"2025"}, keys(Yearly))
	// 2025-01-05 is a Sunday, 2025-01-06 a Monday of the same week.
	assert.Equal(t, []string{"2025-01-05", "2025-02-09", "2025-03-30"}, keys(Weekly))
	assert.Len(t, keys(Daily), 4)

	monthly := Summarize(dashboardFeed(), Monthly).Trend
	assertDecimal(t, "800", monthly[0].Total)
}

func TestSummarizeTopBuyers(t *testing.T) {
	top := Summarize(dashboardFeed(), Monthly).TopBuyers
	require.Len(t, top, 3)

	assert.Equal(t, "Acme", top[0].Name)
	assertDecimal(t, "750", top[0].Total)
	assert.EqualValues(t, 75, top[0].Share)
	assert.Equal(t, "Globex", top[1].Name)
	assert.EqualValues(t, 20, top[1].Share)
	assert.Equal(t, "Unknown", top[2].Name)
}

func TestSummarizeRecentNewestFirst(t *testing.T) {
	recent := Summarize(dashboardFeed(), Monthly).Recent
	require.Len(t, recent, 4)
	assert.Equal(t, models.ID("3"), recent[0].ID)
	assert.Equal(t, models.ID("4"), recent[3].ID)
}
