package models_test

import (
	"testing"
	"time"

	"github.com/shopmono/shopmono/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestCart_AddItem(t *testing.T) {
	now := time.Now()

	t.Run("Appends a new line", func(t *testing.T) {
		cart := &models.Cart{}

		cart.AddItem("p1", "", 2, 9.99, now)

		assert.Len(t, cart.Items, 1)
		assert.Equal(t, 2, cart.Items[0].Quantity)
		assert.Equal(t, 9.99, cart.Items[0].UnitPrice)
	})

	t.Run("Merges repeated adds into one line", func(t *testing.T) {
		cart := &models.Cart{}

		for range 5 {
			cart.AddItem("p1", "", 1, 9.99, now)
		}

		assert.Len(t, cart.Items, 1)
		assert.Equal(t, 5, cart.Items[0].Quantity)
	})

	t.Run("Different variants get separate lines", func(t *testing.T) {
		cart := &models.Cart{}

		cart.AddItem("p1", "v1", 1, 10, now)
		cart.AddItem("p1", "v2", 1, 12, now)
		cart.AddItem("p1", "", 1, 9, now)

		assert.Len(t, cart.Items, 3)
	})
}

func TestCart_ItemQuantity(t *testing.T) {
	now := time.Now()

	cart := &models.Cart{}
	cart.AddItem("p1", "", 2, 10, now)
	cart.AddItem("p1", "v1", 3, 12, now)

	assert.Equal(t, 2, cart.ItemQuantity("p1", ""))
	assert.Equal(t, 3, cart.ItemQuantity("p1", "v1"))
	assert.Zero(t, cart.ItemQuantity("p2", ""))
}

func TestCart_UpdateItemQuantity(t *testing.T) {
	now := time.Now()

	t.Run("Sets the quantity", func(t *testing.T) {
		cart := &models.Cart{}
		cart.AddItem("p1", "", 2, 10, now)

		cart.UpdateItemQuantity("p1", "", 7)

		assert.Equal(t, 7, cart.Items[0].Quantity)
	})

	t.Run("Zero removes the line", func(t *testing.T) {
		cart := &models.Cart{}
		cart.AddItem("p1", "", 2, 10, now)

		cart.UpdateItemQuantity("p1", "", 0)

		assert.Empty(t, cart.Items)
	})

	t.Run("Negative removes the line", func(t *testing.T) {
		cart := &models.Cart{}
		cart.AddItem("p1", "", 2, 10, now)

		cart.UpdateItemQuantity("p1", "", -3)

		assert.Empty(t, cart.Items)
	})

	t.Run("Missing line is a no-op", func(t *testing.T) {
		cart := &models.Cart{}
		cart.AddItem("p1", "", 2, 10, now)

		cart.UpdateItemQuantity("p9", "", 4)

		assert.Len(t, cart.Items, 1)
		assert.Equal(t, 2, cart.Items[0].Quantity)
	})
}

func TestCart_RemoveItem(t *testing.T) {
	now := time.Now()

	t.Run("Removes the matching line", func(t *testing.T) {
		cart := &models.Cart{}
		cart.AddItem("p1", "", 1, 10, now)
		cart.AddItem("p2", "", 1, 20, now)

		cart.RemoveItem("p1", "")

		assert.Len(t, cart.Items, 1)
		assert.Equal(t, "p2", cart.Items[0].ProductID)
	})

	t.Run("Absent line is a no-op", func(t *testing.T) {
		cart := &models.Cart{}
		cart.AddItem("p1", "", 1, 10, now)

		cart.RemoveItem("p9", "")

		assert.Len(t, cart.Items, 1)
	})

	t.Run("Variant must match", func(t *testing.T) {
		cart := &models.Cart{}
		cart.AddItem("p1", "v1", 1, 10, now)

		cart.RemoveItem("p1", "")

		assert.Len(t, cart.Items, 1)
	})
}

func TestCart_Totals(t *testing.T) {
	now := time.Now()

	cart := &models.Cart{}
	cart.AddItem("p1", "", 2, 9.50, now)
	cart.AddItem("p2", "", 3, 4.00, now)

	assert.Equal(t, 5, cart.TotalItems())
	assert.InDelta(t, 31.00, cart.Subtotal(), 0.0001)

	cart.Clear()

	assert.Equal(t, 0, cart.TotalItems())
	assert.Zero(t, cart.Subtotal())
}
