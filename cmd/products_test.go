package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"fbrportal/pkg/models"
)

func TestFindTransactionType(t *testing.T) {
	types := []models.TransactionType{
		{ID: "18", Description: "Goods at standard rate (default)"},
		{ID: "75", Description: "Goods at Reduced Rate"},
	}

	got, ok := findTransactionType(types, " 75 ")
	assert.True(t, ok)
	assert.Equal(t, "Goods at Reduced Rate", got.Description)

	got, ok = findTransactionType(types, "goods at standard rate (default)")
	assert.True(t, ok)
	assert.Equal(t, models.ID("18"), got.ID)

	_, ok = findTransactionType(types, "Services")
	assert.False(t, ok)
}
