package domain

import "time"

// OrderStatus enumerates fulfilment states reported by order management.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// Order is a read-only view of a customer order.
type Order struct {
	ID          string
	Status      OrderStatus
	OrderDate   time.Time
	TotalAmount float64
}
