// Package catalog resolves the tax classification of a product.
//
// A product's classification is built from a chain of dependent lookups:
// transaction type -> rate -> SRO -> SRO item, plus an independent HS code ->
// description/UOM branch. The upstream reference-data source is inconsistent
// about key names and casing, so every lookup row is normalized once at the
// boundary against a declared alias set per logical field.
package catalog

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"fbrportal/pkg/models"
)

// Record is a raw reference-data row.
type Record = map[string]interface{}

// Rate is a sales-tax rate applicable to a transaction type.
type Rate struct {
	ID          models.ID       `json:"rate_id"`
	Description string          `json:"rate_desc"`
	Value       decimal.Decimal `json:"rate_value"`
}

// SRO is a statutory regulatory order applicable to a rate.
type SRO struct {
	ID          models.ID `json:"sro_id"`
	SerNo       string    `json:"sro_ser_no"`
	Description string    `json:"sro_description"`
}

// SROItem is an entry of an SRO schedule.
type SROItem struct {
	ID          models.ID `json:"sro_item_id"`
	Description string    `json:"sro_item_desc"`
}

// UOM is a unit of measure.
type UOM struct {
	ID          models.ID `json:"uom_id"`
	Description string    `json:"description"`
}

// Accepted aliases per logical field, matched after lower-casing keys.
var (
	rateIDKeys    = []string{"rate_id", "rateid"}
	rateDescKeys  = []string{"rate_desc", "ratedesc"}
	rateValueKeys = []string{"rate_value", "ratevalue"}

	sroIDKeys    = []string{"sro_id", "sroid"}
	sroSerNoKeys = []string{"sro_ser_no", "serno", "serial_no", "ser_no"}
	sroDescKeys  = []string{"sro_description", "sro_desc", "description"}

	sroItemIDKeys   = []string{"sro_item_id", "sroitemid", "item_id"}
	sroItemDescKeys = []string{"sro_item_desc", "sroitemdesc", "item_desc", "description"}

	uomIDKeys   = []string{"uom_id", "uomid"}
	uomDescKeys = []string{"description", "desc"}
)

// NormalizeRate reads a rate row.
func NormalizeRate(rec Record) Rate {
	lower := lowerKeys(rec)
	return Rate{
		ID:          models.ID(text(pick(lower, rateIDKeys))),
		Description: text(pick(lower, rateDescKeys)),
		Value:       leadingNumber(text(pick(lower, rateValueKeys))),
	}
}

// NormalizeSRO reads an SRO row.
func NormalizeSRO(rec Record) SRO {
	lower := lowerKeys(rec)
	return SRO{
		ID:          models.ID(text(pick(lower, sroIDKeys))),
		SerNo:       text(pick(lower, sroSerNoKeys)),
		Description: text(pick(lower, sroDescKeys)),
	}
}

// NormalizeSROItem reads an SRO item row.
func NormalizeSROItem(rec Record) SROItem {
	lower := lowerKeys(rec)
	return SROItem{
		ID:          models.ID(text(pick(lower, sroItemIDKeys))),
		Description: text(pick(lower, sroItemDescKeys)),
	}
}

// NormalizeUOM reads a unit-of-measure row.
func NormalizeUOM(rec Record) UOM {
	lower := lowerKeys(rec)
	return UOM{
		ID:          models.ID(text(pick(lower, uomIDKeys))),
		Description: text(pick(lower, uomDescKeys)),
	}
}

func normalizeAll[T any](rows []Record, fn func(Record) T) []T {
	out := make([]T, 0, len(rows))
	for _, r := range rows {
		out = append(out, fn(r))
	}
	return out
}

func lowerKeys(rec Record) Record {
	out := make(Record, len(rec))
	for k, v := range rec {
		out[strings.ToLower(k)] = v
	}
	return out
}

// pick returns the first alias holding a non-null value.
func pick(rec Record, aliases []string) interface{} {
	for _, k := range aliases {
		if v, ok := rec[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

func text(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

var leadingNumberPattern = regexp.MustCompile(`^\s*[-+]?(\d+(\.\d*)?|\.\d+)([eE][-+]?\d+)?`)

// leadingNumber parses the numeric prefix of s ("18%" -> 18). Anything
// without one is zero.
func leadingNumber(s string) decimal.Decimal {
	m := leadingNumberPattern.FindString(s)
	if m == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(strings.TrimSpace(m))
	if err != nil {
		return decimal.Zero
	}
	return d
}

// leadingInt parses the integer prefix of s, zero when there is none.
func leadingInt(s string) int64 {
	return leadingNumber(s).IntPart()
}
