package domain

import "time"

// InventoryItem is the stock record for one product.
type InventoryItem struct {
	ProductID   string
	Name        string
	Quantity    int
	NextRestock *time.Time
}

// InStock is derived from the quantity and never stored.
func (i InventoryItem) InStock() bool {
	return i.Quantity > 0
}
