package catalog

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeRate(t *testing.T) {
	t.Run("mixed case keys", func(t *testing.T) {
		r := NormalizeRate(Record{"ratE_ID": float64(734), "RATE_DESC": "18%", "ratE_VALUE": float64(18)})
		assert.Equal(t, "734", r.ID.String())
		assert.Equal(t, "18%", r.Description)
		assert.Equal(t, "18", r.Value.String())
	})

	t.Run("alternate aliases", func(t *testing.T) {
		r := NormalizeRate(Record{"rateid": "12", "ratedesc": "Exempt", "ratevalue": "17.5%"})
		assert.Equal(t, "12", r.ID.String())
		assert.Equal(t, "17.5", r.Value.String())
	})

	t.Run("value without leading number", func(t *testing.T) {
		r := NormalizeRate(Record{"rate_value": "Exempt"})
		assert.True(t, r.Value.IsZero())
		assert.True(t, r.ID.IsZero())
	})
}

func TestNormalizeSRO(t *testing.T) {
	s := NormalizeSRO(Record{"SRO_ID": json.Number("389"), "SerNo": 5, "Description": "Sixth Schedule"})
	assert.Equal(t, "389", s.ID.String())
	assert.Equal(t, "5", s.SerNo)
	assert.Equal(t, "Sixth Schedule", s.Description)

	// the first non-null alias wins
	s = NormalizeSRO(Record{"sro_description": nil, "sro_desc": "Eighth Schedule"})
	assert.Equal(t, "Eighth Schedule", s.Description)
}

func TestNormalizeSROItem(t *testing.T) {
	i := NormalizeSROItem(Record{"SRO_ITEM_ID": float64(17), "sro_item_desc": "Item 81"})
	assert.Equal(t, "17", i.ID.String())
	assert.Equal(t, "Item 81", i.Description)

	i = NormalizeSROItem(Record{"item_id": "3", "description": "fallback"})
	assert.Equal(t, "3", i.ID.String())
	assert.Equal(t, "fallback", i.Description)
}

func TestNormalizeUOM(t *testing.T) {
	u := NormalizeUOM(Record{"UOM_ID": float64(13), "Description": "KG"})
	assert.Equal(t, "13", u.ID.String())
	assert.Equal(t, "KG", u.Description)

	u = NormalizeUOM(Record{"uomid": "77", "desc": "Numbers, pieces, units"})
	assert.Equal(t, "Numbers, pieces, units", u.Description)
}

func TestLeadingInt(t *testing.T) {
	assert.Equal(t, int64(12), leadingInt("12"))
	assert.Equal(t, int64(12), leadingInt("12.9"))
	assert.Equal(t, int64(0), leadingInt(""))
	assert.Equal(t, int64(0), leadingInt("abc"))
	assert.Equal(t, int64(42), leadingInt(" 42abc"))
}
