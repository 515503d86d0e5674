package service

import (
	"encoding/json"

	"github.com/spec-kit/support-agent/internal/domain"
)

const (
	// MsgOrderNotFound is the not-found payload for order lookups.
	MsgOrderNotFound = "Order not found"
	// MsgProductNotFound is the not-found payload for inventory lookups.
	MsgProductNotFound = "Product not found"

	dateLayout = "2006-01-02"
)

type notFoundView struct {
	Error string `json:"error"`
}

// OrderLookup is either a fully populated order or a not-found marker.
type OrderLookup struct {
	Order *domain.Order
}

// Found reports whether the order exists.
func (l OrderLookup) Found() bool { return l.Order != nil }

type orderView struct {
	OrderID     string             `json:"order_id"`
	Status      domain.OrderStatus `json:"status"`
	OrderDate   string             `json:"order_date"`
	TotalAmount float64            `json:"total_amount"`
}

// MarshalJSON renders {order_id,status,order_date,total_amount} or {error}.
func (l OrderLookup) MarshalJSON() ([]byte, error) {
	if l.Order == nil {
		return json.Marshal(notFoundView{Error: MsgOrderNotFound})
	}
	return json.Marshal(orderView{
		OrderID:     l.Order.ID,
		Status:      l.Order.Status,
		OrderDate:   l.Order.OrderDate.Format(dateLayout),
		TotalAmount: l.Order.TotalAmount,
	})
}

// InventoryLookup is either a fully populated stock record or a not-found marker.
type InventoryLookup struct {
	Item *domain.InventoryItem
}

// Found reports whether the product exists.
func (l InventoryLookup) Found() bool { return l.Item != nil }

type inventoryView struct {
	ProductID   string  `json:"product_id"`
	Name        string  `json:"name"`
	InStock     bool    `json:"in_stock"`
	Quantity    int     `json:"quantity"`
	NextRestock *string `json:"next_restock"`
}

// MarshalJSON renders {product_id,name,in_stock,quantity,next_restock} or {error}.
func (l InventoryLookup) MarshalJSON() ([]byte, error) {
	if l.Item == nil {
		return json.Marshal(notFoundView{Error: MsgProductNotFound})
	}
	view := inventoryView{
		ProductID: l.Item.ProductID,
		Name:      l.Item.Name,
		InStock:   l.Item.InStock(),
		Quantity:  l.Item.Quantity,
	}
	if l.Item.NextRestock != nil {
		restock := l.Item.NextRestock.Format(dateLayout)
		view.NextRestock = &restock
	}
	return json.Marshal(view)
}

// TicketConfirmation describes a freshly stored ticket.
type TicketConfirmation struct {
	TicketID string
	Message  string
}
