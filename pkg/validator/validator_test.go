package validator

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type line struct {
	SKUID    int64           `json:"sku_id" validate:"gt=0"`
	Quantity decimal.Decimal `json:"quantity" validate:"decimal_gte=1"`
}

type order struct {
	CounterpartyID int64  `json:"counterparty_id" validate:"required,gt=0"`
	Date           string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Items          []line `json:"items" validate:"required,min=1,dive"`
}

func TestValidateStruct_Valid(t *testing.T) {
	o := order{CounterpartyID: 1, Date: "2024-05-01", Items: []line{{SKUID: 3, Quantity: decimal.NewFromInt(2)}}}
	assert.Empty(t, ValidateStruct(o))
	assert.NoError(t, Validate(o))
}

func TestValidateStruct_ReportsJSONPaths(t *testing.T) {
	o := order{
		CounterpartyID: 0,
		Date:           "01/05/2024",
		Items:          []line{{SKUID: 1, Quantity: decimal.NewFromInt(1)}, {SKUID: 0, Quantity: decimal.RequireFromString("0.5")}},
	}
	fields := ValidateStruct(o)
	require.Len(t, fields, 4)

	byField := map[string]string{}
	for _, f := range fields {
		byField[f.Field] = f.Rule
	}
	assert.Equal(t, "required", byField["counterparty_id"])
	assert.Equal(t, "datetime", byField["date"])
	assert.Equal(t, "gt", byField["items.1.sku_id"])
	assert.Equal(t, "gte", byField["items.1.quantity"])
}

func TestValidateStruct_EmptyItems(t *testing.T) {
	fields := ValidateStruct(order{CounterpartyID: 1, Items: []line{}})
	require.Len(t, fields, 1)
	assert.Equal(t, "items", fields[0].Field)
	assert.Equal(t, "min", fields[0].Rule)
}

type priced struct {
	Quantity decimal.Decimal `json:"quantity" validate:"decimal_gte=1"`
	Price    decimal.Decimal `json:"price" validate:"decimal_gte=0.01"`
	Amount   decimal.Decimal `json:"amount" validate:"decimal_gt=0"`
}

func TestValidateStruct_DecimalBoundsAreExact(t *testing.T) {
	under := priced{
		Quantity: decimal.RequireFromString("0.99999999999999999"),
		Price:    decimal.RequireFromString("0.00999999999999999999"),
		Amount:   decimal.Zero,
	}
	fields := ValidateStruct(under)
	require.Len(t, fields, 3)
	byField := map[string]string{}
	for _, f := range fields {
		byField[f.Field] = f.Rule
	}
	assert.Equal(t, "gte", byField["quantity"])
	assert.Equal(t, "gte", byField["price"])
	assert.Equal(t, "gt", byField["amount"])

	atBound := priced{
		Quantity: decimal.NewFromInt(1),
		Price:    decimal.RequireFromString("0.01"),
		Amount:   decimal.RequireFromString("0.000000000000000001"),
	}
	assert.Empty(t, ValidateStruct(atBound))
}
