package domain

import (
	"fmt"
	"strings"
)

// Order is an in-progress order: food item name to quantity. Names are
// case-sensitive and kept in first-insertion order; setting an existing
// name overwrites its quantity in place.
type Order struct {
	names []string
	qty   map[string]int
}

func NewOrder() *Order { return &Order{qty: make(map[string]int)} }

func (o *Order) Set(name string, quantity int) {
	if o.qty == nil {
		o.qty = make(map[string]int)
	}
	if _, ok := o.qty[name]; !ok {
		o.names = append(o.names, name)
	}
	o.qty[name] = quantity
}

// Remove deletes name and reports whether it was present.
func (o *Order) Remove(name string) bool {
	if _, ok := o.qty[name]; !ok {
		return false
	}
	delete(o.qty, name)
	for i, n := range o.names {
		if n == name {
			o.names = append(o.names[:i], o.names[i+1:]...)
			break
		}
	}
	return true
}

func (o *Order) Quantity(name string) (int, bool) {
	q, ok := o.qty[name]
	return q, ok
}

func (o *Order) Len() int { return len(o.names) }

func (o *Order) Items() []LineItem {
	items := make([]LineItem, 0, len(o.names))
	for _, n := range o.names {
		items = append(items, LineItem{Name: n, Quantity: o.qty[n]})
	}
	return items
}

// String renders the order as "name: qty" pairs joined with commas.
func (o *Order) String() string {
	parts := make([]string, 0, len(o.names))
	for _, n := range o.names {
		parts = append(parts, fmt.Sprintf("%s: %d", n, o.qty[n]))
	}
	return strings.Join(parts, ", ")
}
