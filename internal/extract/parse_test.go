package extract

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseItems_ObjectKeepsOrder(t *testing.T) {
	items, err := ParseItems(`{"Bounty Paper Towels": "$19.99", "Bananas": 1.29, "Coupon (-A)": "-$3.00"}`)
	require.NoError(t, err)
	require.Len(t, items, 3)

	assert.Equal(t, 1, items[0].ID)
	assert.Equal(t, "Bounty Paper Towels", items[0].Name)
	assert.InDelta(t, 19.99, items[0].Price, 1e-9)
	assert.Equal(t, 2, items[1].ID)
	assert.Equal(t, "Bananas", items[1].Name)
	assert.InDelta(t, -3.00, items[2].Price, 1e-9)
}

func TestParseItems_ArrayOfSingleKeyObjects(t *testing.T) {
	items, err := ParseItems(`[{"Milk": "$3.49"}, {"Eggs": "4.99"}, "stray", {}]`)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Milk", items[0].Name)
	assert.Equal(t, "Eggs", items[1].Name)
	assert.Equal(t, 2, items[1].ID)
}

func TestParseItems_DropsTotalAndEverythingAfter(t *testing.T) {
	items, err := ParseItems(`{"Soup": "$6", "Bread": "$3", " SubTotal ": "$9", "Tax": "$0.80", "Total": "$9.80", "Visa": "$9.80"}`)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Bread", items[1].Name)
}

func TestParseItems_RejectsScalars(t *testing.T) {
	_, err := ParseItems(`42`)
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
	}{
		{`4.5`, 4.5},
		{`"$4.99"`, 4.99},
		{`"-$1.00"`, -1.00},
		{`"5.00-A"`, -5.00},
		{`"(-A) 2.50"`, -2.50},
		{`"$1,299.00"`, 1299.00},
		{`"N/A"`, 0},
		{`null`, 0},
		{`{"nested": 1}`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.InDelta(t, tt.want, parsePrice(json.RawMessage(tt.raw)), 1e-9)
		})
	}
}

func TestRepair(t *testing.T) {
	repaired, err := Repair(`{"Coffee": "$3.50", "Muffin": "$2.25",}`)
	require.NoError(t, err)
	assert.Equal(t, `{"Coffee":"$3.50","Muffin":"$2.25"}`, repaired)

	_, err = Repair("   ")
	assert.ErrorIs(t, err, ErrEmptyResponse)
}
