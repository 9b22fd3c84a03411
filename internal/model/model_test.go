package model_test

import (
	"encoding/json"
	"testing"
	"time"

	"storefront-service/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInventoryUnmarshalTolerant(t *testing.T) {
	t.Parallel()

	var inv model.Inventory
	err := json.Unmarshal([]byte(`{"Black": 5, "White": "3", "Red": "lots", "Blue": 2.0, "Green": null}`), &inv)
	require.NoError(t, err)

	assert.Equal(t, 5, inv["Black"])
	assert.Equal(t, 3, inv["White"])
	assert.Equal(t, 0, inv["Red"])
	assert.Equal(t, 2, inv["Blue"])
	assert.Equal(t, 0, inv["Green"])
}

func TestNewOrderID(t *testing.T) {
	t.Parallel()

	ts := time.UnixMilli(1700000000000)
	assert.Equal(t, "ord-1700000000000", model.NewOrderID(ts))
}

func TestDateUnixMilli(t *testing.T) {
	t.Parallel()

	o := model.Order{Date: "2025-01-15T10:30:00.000Z"}
	assert.Equal(t, time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC).UnixMilli(), o.DateUnixMilli())

	assert.Zero(t, (&model.Order{Date: "yesterday"}).DateUnixMilli())
	assert.Zero(t, (&model.Order{}).DateUnixMilli())
}

func TestCartItemID(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "classic-fit-Deep Black-xl", model.CartItemID("classic-fit", "Deep Black", "xl"))
	assert.Equal(t, "classic-fit-Deep Black", model.CartItemID("classic-fit", "Deep Black", ""))
}

func TestHasDiscount(t *testing.T) {
	t.Parallel()

	discount := 116
	p := model.Product{RegularPrice: 200, DiscountPrice: &discount}
	assert.True(t, p.HasDiscount())

	same := 200
	p = model.Product{RegularPrice: 200, DiscountPrice: &same}
	assert.False(t, p.HasDiscount())

	p = model.Product{RegularPrice: 200}
	assert.False(t, p.HasDiscount())
}

func TestTotalStock(t *testing.T) {
	t.Parallel()

	p := model.Product{Inventory: model.Inventory{"Black|s": 3, "Black|m": 2, "White": 1}}
	assert.Equal(t, 6, p.TotalStock())

	empty := model.Product{}
	assert.Zero(t, empty.TotalStock())
}
