package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrder_SetOverwritesWithoutSumming(t *testing.T) {
	o := NewOrder()
	o.Set("fries", 2)
	o.Set("fries", 5)

	q, ok := o.Quantity("fries")
	assert.True(t, ok)
	assert.Equal(t, 5, q)
	assert.Equal(t, 1, o.Len())
}

func TestOrder_KeepsInsertionOrder(t *testing.T) {
	var o Order
	o.Set("Pav Bhaji", 2)
	o.Set("Mango Lassi", 1)
	o.Set("Pav Bhaji", 3)

	assert.Equal(t, "Pav Bhaji: 3, Mango Lassi: 1", o.String())
	assert.Equal(t, []LineItem{{Name: "Pav Bhaji", Quantity: 3}, {Name: "Mango Lassi", Quantity: 1}}, o.Items())
}

func TestOrder_Remove(t *testing.T) {
	o := NewOrder()
	o.Set("samosa", 1)
	o.Set("vada pav", 2)

	assert.True(t, o.Remove("samosa"))
	assert.False(t, o.Remove("samosa"))
	assert.False(t, o.Remove("Vada Pav"))
	assert.Equal(t, "vada pav: 2", o.String())

	assert.True(t, o.Remove("vada pav"))
	assert.Zero(t, o.Len())
	assert.Empty(t, o.String())
}
