package domain

import "time"

const (
	EventOrderPlaced       = "order.placed"
	EventOrderPaid         = "order.paid"
	EventItemStatusChanged = "item.status_changed"
)

type OrderItemMsg struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// OrderEvent is published to the notifications exchange after an order
// mutation has been committed.
type OrderEvent struct {
	Type      string         `json:"type"`
	OrderID   int64          `json:"order_id"`
	Login     string         `json:"login,omitempty"`
	ChangedBy string         `json:"changed_by"`
	Items     []OrderItemMsg `json:"items,omitempty"`
	ItemName  string         `json:"item_name,omitempty"`
	Status    string         `json:"status,omitempty"`
	Total     float64        `json:"total,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}
