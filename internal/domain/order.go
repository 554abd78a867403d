package domain

import (
	"time"

	jsoniter "github.com/json-iterator/go"
)

// Order status values. Transitions run forward along this chain; cancelled
// is reachable from any non-terminal status.
const (
	OrderStatusPending    = "pending"
	OrderStatusConfirmed  = "confirmed"
	OrderStatusOnTheWay   = "on-the-way"
	OrderStatusArrived    = "arrived"
	OrderStatusInProgress = "in-progress"
	OrderStatusCompleted  = "completed"
	OrderStatusCancelled  = "cancelled"
)

const (
	PaymentStatusUnpaid        = "unpaid"
	PaymentStatusPartiallyPaid = "partially_paid"
	PaymentStatusPaid          = "paid"
	PaymentStatusRefunded      = "refunded"
)

// OrderItem is one snapshotted service line inside an order.
type OrderItem struct {
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
	Category    string  `json:"category,omitempty"`
	Description string  `json:"description,omitempty"`
}

// Payment is one payment record attached to an order.
type Payment struct {
	ID          string  `json:"id"`
	Amount      float64 `json:"amount"`
	Method      string  `json:"method"`
	Status      string  `json:"status"`
	CreatedAt   int64   `json:"created_at"`
	ConfirmedAt int64   `json:"confirmed_at,omitempty"`
	Description string  `json:"description,omitempty"`
}

type Order struct {
	ID            int64  `json:"id,string" gorm:"primaryKey"`
	UID           string `gorm:"uniqueIndex;size:64" json:"uid"`
	CustomerName  string `gorm:"size:200" json:"customer_name"`
	CustomerPhone string `gorm:"size:32" json:"customer_phone"`
	CustomerEmail string `gorm:"size:200" json:"customer_email"`
	Address       string `gorm:"size:500" json:"address"`
	ScheduledDate string `gorm:"size:32" json:"scheduled_date"`
	ScheduledTime string `gorm:"size:32" json:"scheduled_time"`
	Notes         string `gorm:"type:text" json:"notes"`

	ItemsJSON    string `gorm:"type:text;column:items" json:"-"`
	PaymentsJSON string `gorm:"type:text;column:payments" json:"-"`

	Status         string `gorm:"size:20;index" json:"status"`
	AssignedTo     string `gorm:"size:64;index" json:"assigned_to"`
	AssignedToName string `gorm:"size:200" json:"assigned_to_name"`

	TotalSwitches   int     `json:"total_switches"`
	TotalOutlets    int     `json:"total_outlets"`
	TotalPoints     int     `json:"total_points"`
	EstimatedCable  int     `json:"estimated_cable"`
	EstimatedFrames int     `json:"estimated_frames"`
	TotalAmount     float64 `json:"total_amount"`
	PaidAmount      float64 `json:"paid_amount"`
	PaymentStatus   string  `gorm:"size:20" json:"payment_status"`

	DepartureConfirmedAt *time.Time `json:"departure_confirmed_at"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

func (Order) TableName() string {
	return "orders"
}

var ojson = jsoniter.ConfigCompatibleWithStandardLibrary

// Items decodes the snapshotted line items. Corrupt JSON yields an empty list.
func (o *Order) Items() []OrderItem {
	var items []OrderItem
	if o.ItemsJSON == "" {
		return items
	}
	if err := ojson.UnmarshalFromString(o.ItemsJSON, &items); err != nil {
		return nil
	}
	return items
}

func (o *Order) SetItems(items []OrderItem) {
	data, err := ojson.MarshalToString(items)
	if err != nil {
		return
	}
	o.ItemsJSON = data
}

// Payments decodes the payment records. Corrupt JSON yields an empty list.
func (o *Order) Payments() []Payment {
	var pays []Payment
	if o.PaymentsJSON == "" {
		return pays
	}
	if err := ojson.UnmarshalFromString(o.PaymentsJSON, &pays); err != nil {
		return nil
	}
	return pays
}

func (o *Order) SetPayments(pays []Payment) {
	data, err := ojson.MarshalToString(pays)
	if err != nil {
		return
	}
	o.PaymentsJSON = data
}

// OrderStatusHistory records every status change for audit.
type OrderStatusHistory struct {
	ID        int64     `json:"id,string" gorm:"primaryKey"`
	OrderID   int64     `gorm:"index" json:"order_id,string"`
	Status    string    `gorm:"size:20" json:"status"`
	ChangedBy string    `gorm:"size:200" json:"changed_by"`
	Remark    string    `gorm:"size:500" json:"remark"`
	CreatedAt time.Time `json:"created_at"`
}

func (OrderStatusHistory) TableName() string {
	return "order_status_history"
}
