package invoice

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"fbrportal/pkg/models"
)

// Period groups the sales trend.
type Period string

const (
	Daily     Period = "daily"
	Weekly    Period = "weekly"
	Monthly   Period = "monthly"
	Quarterly Period = "quarterly"
	Yearly    Period = "yearly"
)

const (
	recentLimit    = 5
	topBuyerLimit  = 3
	unknownBuyer   = "Unknown"
	unknownStatus  = "UNKNOWN"
	isoDateLength  = len("2006-01-02")
	isoMonthLength = len("2006-01")
	isoYearLength  = len("2006")
)

// TrendPoint is the sales total of one bucket.
type TrendPoint struct {
	Key   string          `json:"key"`
	Total decimal.Decimal `json:"total"`
}

// StatusCount is the number of invoices in one status.
type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// BuyerShare is a buyer's sales and their share of all sales in percent.
type BuyerShare struct {
	Name  string          `json:"name"`
	Total decimal.Decimal `json:"total"`
	Share int64           `json:"share"`
}

// Summary is the dashboard view of the expanded invoice feed.
type Summary struct {
	TotalSales decimal.Decimal  `json:"total_sales"`
	Count      int              `json:"count"`
	Average    decimal.Decimal  `json:"average"`
	Statuses   []StatusCount    `json:"statuses"`
	Trend      []TrendPoint     `json:"trend"`
	Recent     []models.Invoice `json:"recent"`
	TopBuyers  []BuyerShare     `json:"top_buyers"`
}

// StatusTotal returns the count for status, or 0.
func (s Summary) StatusTotal(status models.InvoiceStatus) int {
	for _, c := range s.Statuses {
		if c.Status == string(status) {
			return c.Count
		}
	}
	return 0
}

// Summarize aggregates the dashboard feed.
func Summarize(invoices []models.Invoice, period Period) Summary {
	s := Summary{Count: len(invoices)}

	statusIdx := map[string]int{}
	for _, inv := range invoices {
		s.TotalSales = s.TotalSales.Add(inv.InvoiceAmount)

		status := string(inv.Status)
		if status == "" {
			status = unknownStatus
		}
		if i, ok := statusIdx[status]; ok {
			s.Statuses[i].Count++
		} else {
			statusIdx[status] = len(s.Statuses)
			s.Statuses = append(s.Statuses, StatusCount{Status: status, Count: 1})
		}
	}
	if s.Count > 0 {
		s.Average = s.TotalSales.Div(decimal.NewFromInt(int64(s.Count)))
	}

	s.Trend = trend(invoices, period)
	s.Recent = recent(invoices, recentLimit)
	s.TopBuyers = topBuyers(invoices, topBuyerLimit)
	return s
}

func trend(invoices []models.Invoice, period Period) []TrendPoint {
	buckets := map[string]decimal.Decimal{}
	for _, inv := range invoices {
		date := inv.InvoiceDate
		if date == "" && inv.CreatedAt != nil {
			date = inv.CreatedAt.Format(time.RFC3339)
		}
		key, ok := bucketKey(date, period)
		if !ok {
			continue
		}
		buckets[key] = buckets[key].Add(inv.InvoiceAmount)
	}

	points := make([]TrendPoint, 0, len(buckets))
	for k, v := range buckets {
		points = append(points, TrendPoint{Key: k, Total: v})
	}
	// Every key format sorts chronologically as text.
	sort.Slice(points, func(i, j int) bool { return points[i].Key < points[j].Key })
	return points
}

func bucketKey(date string, period Period) (string, bool) {
	if len(date) < isoDateLength {
		return "", false
	}
	day := date[:isoDateLength]
	switch period {
	case Weekly:
		t, err := time.Parse("2006-01-02", day)
		if err != nil {
			return "", false
		}
		// Weeks start on Sunday.
		return t.AddDate(0, 0, -int(t.Weekday())).Format("2006-01-02"), true
	case Monthly:
		return date[:isoMonthLength], true
	case Quarterly:
		t, err := time.Parse("2006-01-02", day)
		if err != nil {
			return "", false
		}
		return fmt.Sprintf("%d-Q%d", t.Year(), (int(t.Month())-1)/3+1), true
	case Yearly:
		return date[:isoYearLength], true
	default:
		return day, true
	}
}

func recent(invoices []models.Invoice, limit int) []models.Invoice {
	sorted := append([]models.Invoice(nil), invoices...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].CreatedAt, sorted[j].CreatedAt
		if a == nil || b == nil {
			return a != nil
		}
		return a.After(*b)
	})
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}

func topBuyers(invoices []models.Invoice, limit int) []BuyerShare {
	var order []string
	totals := map[string]decimal.Decimal{}
	for i := range invoices {
		name := unknownBuyer
		if inv := &invoices[i]; inv.Buyer != nil && inv.Buyer.BusinessName != "" {
			name = inv.Buyer.BusinessName
		} else if inv.DescriptionBuyer != "" {
			name = inv.DescriptionBuyer
		}
		if _, seen := totals[name]; !seen {
			order = append(order, name)
		}
		totals[name] = totals[name].Add(invoices[i].InvoiceAmount)
	}
	if len(order) == 0 {
		return nil
	}

	grand := decimal.Zero
	shares := make([]BuyerShare, 0, len(order))
	for _, name := range order {
		grand = grand.Add(totals[name])
		shares = append(shares, BuyerShare{Name: name, Total: totals[name]})
	}
	sort.SliceStable(shares, func(i, j int) bool { return shares[i].Total.GreaterThan(shares[j].Total) })
	if len(shares) > limit {
		shares = shares[:limit]
	}
	if !grand.IsZero() {
		for i := range shares {
			shares[i].Share = shares[i].Total.Div(grand).Mul(hundred).Round(0).IntPart()
		}
	}
	return shares
}
