package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fbrportal/pkg/models"
)

func filledState() ProductState {
	return ProductState{
		ProductName:        "Cement",
		TransactionTypeID:  "75",
		TransactionType:    "Goods at standard rate",
		Rate:               Rate{ID: "413", Description: "18%", Value: decimal.NewFromInt(18)},
		SRO:                SRO{ID: "389", SerNo: "5", Description: "Sixth Schedule"},
		SROItemDescription: "Item 81",
		HSCode:             "2523.2900",
		HSDescription:      "Portland cement",
		UOM:                UOM{ID: "13", Description: "KG"},
		IsActive:           true,
	}
}

func TestReduceClearsDependents(t *testing.T) {
	t.Run("transaction type", func(t *testing.T) {
		s := Reduce(filledState(), TransactionTypeSelected{ID: "18", Description: "Services"})
		assert.Equal(t, models.ID("18"), s.TransactionTypeID)
		assert.Equal(t, Rate{}, s.Rate)
		assert.Equal(t, SRO{}, s.SRO)
		assert.Empty(t, s.SROItemDescription)
		assert.Equal(t, "2523.2900", s.HSCode, "HS branch is independent")
		assert.Equal(t, "13", s.UOM.ID.String())
	})

	t.Run("rate", func(t *testing.T) {
		s := Reduce(filledState(), RateSelected{Rate: Rate{ID: "1"}})
		assert.Equal(t, "1", s.Rate.ID.String())
		assert.Equal(t, SRO{}, s.SRO)
		assert.Empty(t, s.SROItemDescription)
		assert.Equal(t, models.ID("75"), s.TransactionTypeID)
	})

	t.Run("sro", func(t *testing.T) {
		s := Reduce(filledState(), SROSelected{SRO: SRO{ID: "2"}})
		assert.Empty(t, s.SROItemDescription)
		assert.Equal(t, "413", s.Rate.ID.String())
	})

	t.Run("hs code", func(t *testing.T) {
		s := Reduce(filledState(), HSCodeSelected{Code: "0101.2100"})
		assert.Equal(t, "0101.2100", s.HSCode)
		assert.Empty(t, s.HSDescription)
		assert.Equal(t, UOM{}, s.UOM)
		assert.Equal(t, "389", s.SRO.ID.String())
	})

	t.Run("leaf fields clear nothing", func(t *testing.T) {
		s := Reduce(filledState(), UOMLoaded{UOM: UOM{ID: "1", Description: "MT"}})
		assert.Equal(t, "MT", s.UOM.Description)
		assert.Equal(t, "Portland cement", s.HSDescription)
	})
}

func TestReduceDoesNotMutateInput(t *testing.T) {
	in := filledState()
	_ = Reduce(in, TransactionTypeSelected{ID: "1"})
	assert.Equal(t, filledState(), in)
}

func TestDependents(t *testing.T) {
	assert.Equal(t, []Field{FieldRate, FieldSRO, FieldSROItem}, Dependents(FieldTransactionType))
	assert.Empty(t, Dependents(FieldUOM))
}

func TestProductStateValidate(t *testing.T) {
	errs := NewProductState().Validate()
	require.NotNil(t, errs)
	assert.Equal(t, "Product name is required", errs["productName"])
	assert.Equal(t, "Transaction type is required", errs["transactionTypeId"])
	assert.Equal(t, "Rate is required (select a transaction type)", errs["rateId"])
	assert.Equal(t, "HS Code is required", errs["hsCode"])
	assert.Equal(t, "UOM is required (select an HS Code)", errs["uomId"])

	assert.Nil(t, filledState().Validate())

	blank := filledState()
	blank.ProductName = "   "
	assert.Equal(t, []string{"productName"}, blank.Validate().Fields())
}

func TestProductStatePayload(t *testing.T) {
	p := filledState().Payload()
	assert.Equal(t, int64(75), p.TransactionTypeID)
	assert.Equal(t, int64(413), p.RateID)
	assert.Equal(t, 18.0, p.RateValue)
	assert.Equal(t, int64(389), p.SROID)
	assert.Equal(t, int64(5), p.SROSerNo)
	assert.Equal(t, int64(13), p.UOMID)
	assert.Equal(t, "Item 81", p.SROItemDescription)
	assert.True(t, p.IsActive)

	empty := NewProductState().Payload()
	assert.Zero(t, empty.SROID)
	assert.Zero(t, empty.SROSerNo)
}

func TestStateFromProduct(t *testing.T) {
	s := StateFromProduct(models.Product{
		ProductName:       "Cement",
		TransactionTypeID: "75",
		RateID:            "413",
		RateValue:         decimal.NewFromInt(18),
		SROID:             "389",
		SROSerNo:          "5",
		HSCode:            "2523.2900",
		UOMID:             "13",
		IsActive:          true,
	})
	assert.Equal(t, "389", s.SRO.ID.String())
	assert.Equal(t, "5", s.SRO.SerNo)
	assert.Nil(t, s.Validate())
}
