package order

// Event bus topics published by the order service.
const (
	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.status_changed"
	EventOrderAssigned      = "order.assigned"
	EventOrderPayment       = "order.payment"
)

// Event is the payload published on every order topic.
type Event struct {
	OrderID  int64   `json:"order_id"`
	OrderUID string  `json:"order_uid"`
	Status   string  `json:"status,omitempty"`
	Title    string  `json:"title"`
	Message  string  `json:"message"`
	Amount   float64 `json:"amount,omitempty"`
}
