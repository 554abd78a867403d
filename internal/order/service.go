package order

import (
	"context"
	"fmt"
	"time"

	"github.com/araddon/dateparse"
	"github.com/asaskevich/EventBus"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/talkincode/voltdesk/internal/cart"
	"github.com/talkincode/voltdesk/internal/domain"
	"github.com/talkincode/voltdesk/internal/pricing"
	"github.com/talkincode/voltdesk/pkg/common"
)

var (
	ErrEmptyCart          = errors.New("order: cart is empty")
	ErrInvalidCheckout    = errors.New("order: missing required checkout fields")
	ErrInvalidTransition  = errors.New("order: invalid status transition")
	ErrPaymentNotFound    = errors.New("order: payment not found")
	ErrPhoneNotRevealable = errors.New("order: phone not yet available")
)

// CheckoutInfo is the customer contact block submitted at checkout.
type CheckoutInfo struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
	// Date accepts any common layout and is normalized to YYYY-MM-DD.
	Date    string `json:"date"`
	Time    string `json:"time"`
	Address string `json:"address"`
	Notes   string `json:"notes"`
}

// CRMSyncer pushes created orders to the external CRM.
type CRMSyncer interface {
	SyncOrder(o *domain.Order)
}

// ExecutorUpdater applies earnings and rank progression after completion.
type ExecutorUpdater interface {
	UpdateAfterOrder(ctx context.Context, executorID string, o *domain.Order) error
}

// Service owns the order lifecycle: checkout, status machine, assignment
// and payments.
type Service struct {
	repo        Repository
	history     HistoryRepository
	carts       *cart.Service
	bus         EventBus.Bus
	crm         CRMSyncer
	executor    ExecutorUpdater
	revealDelay func() time.Duration
}

func NewService(repo Repository, history HistoryRepository, carts *cart.Service, bus EventBus.Bus) *Service {
	return &Service{repo: repo, history: history, carts: carts, bus: bus}
}

// SetCRMSyncer attaches the outbound CRM sync.
func (s *Service) SetCRMSyncer(crm CRMSyncer) { s.crm = crm }

// SetExecutorUpdater attaches the executor progression hook.
func (s *Service) SetExecutorUpdater(u ExecutorUpdater) { s.executor = u }

// SetRevealDelayFunc overrides the phone reveal delay. The function runs
// on every check so setting changes apply without a restart.
func (s *Service) SetRevealDelayFunc(f func() time.Duration) { s.revealDelay = f }

// Create snapshots the session cart into a new order, clears the cart and
// announces the order.
func (s *Service) Create(ctx context.Context, sessionID string, info CheckoutInfo) (*domain.Order, error) {
	if info.Phone == "" || info.Address == "" {
		return nil, ErrInvalidCheckout
	}
	if info.Date != "" {
		t, err := dateparse.ParseAny(info.Date)
		if err != nil {
			return nil, errors.Wrap(ErrInvalidCheckout, "bad date")
		}
		info.Date = t.Format("2006-01-02")
	}

	quote, err := s.carts.GetQuote(ctx, sessionID)
	if err != nil {
		return nil, errors.Wrap(err, "load cart")
	}
	if len(quote.Items) == 0 {
		return nil, ErrEmptyCart
	}

	now := time.Now()
	o := &domain.Order{
		ID:            common.UUIDint64(),
		UID:           common.OrderUID(now),
		CustomerName:  info.Name,
		CustomerPhone: info.Phone,
		CustomerEmail: info.Email,
		Address:       info.Address,
		ScheduledDate: info.Date,
		ScheduledTime: info.Time,
		Notes:         info.Notes,
		Status:        domain.OrderStatusPending,
		PaymentStatus: domain.PaymentStatusUnpaid,

		TotalSwitches:   quote.Totals.TotalSwitches,
		TotalOutlets:    quote.Totals.TotalOutlets,
		TotalPoints:     quote.Totals.TotalPoints,
		EstimatedCable:  quote.Totals.EstimatedCable,
		EstimatedFrames: quote.Totals.EstimatedFrames,
		TotalAmount:     quote.Amount,
	}

	items := make([]domain.OrderItem, 0, len(quote.Items))
	for _, it := range quote.Items {
		items = append(items, domain.OrderItem{
			Name:        it.Product.Name,
			Price:       pricing.ItemPrice(it) / float64(it.Quantity),
			Quantity:    it.Quantity,
			Category:    it.Product.Category,
			Description: it.Product.Description,
		})
	}
	o.SetItems(items)
	o.SetPayments([]domain.Payment{})

	if err := s.repo.Create(ctx, o); err != nil {
		return nil, errors.Wrap(err, "create order")
	}
	if err := s.carts.Clear(ctx, sessionID); err != nil {
		zap.L().Warn("failed to clear cart after checkout",
			zap.String("session_id", sessionID), zap.Error(err))
	}
	s.record(ctx, o.ID, domain.OrderStatusPending, info.Name, "order created")

	s.publish(EventOrderCreated, Event{
		OrderID:  o.ID,
		OrderUID: o.UID,
		Status:   o.Status,
		Title:    "Заявка создана",
		Message:  fmt.Sprintf("Заявка #%s успешно создана и отправлена на обработку", shortUID(o.UID)),
		Amount:   o.TotalAmount,
	})
	if s.crm != nil {
		s.crm.SyncOrder(o)
	}

	zap.L().Info("order created",
		zap.String("uid", o.UID),
		zap.Float64("amount", o.TotalAmount),
		zap.Int("items", len(items)),
	)
	return o, nil
}

// UpdateStatus moves one order along the status machine, records history
// and announces the change. Moving to on-the-way stamps the departure time.
func (s *Service) UpdateStatus(ctx context.Context, orderID int64, status, changedBy string) (*domain.Order, error) {
	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !CanTransition(o.Status, status) {
		return nil, errors.Wrapf(ErrInvalidTransition, "%s -> %s", o.Status, status)
	}

	o.Status = status
	if status == domain.OrderStatusOnTheWay && o.DepartureConfirmedAt == nil {
		now := time.Now()
		o.DepartureConfirmedAt = &now
	}
	if err := s.repo.Update(ctx, o); err != nil {
		return nil, errors.Wrap(err, "update order")
	}
	s.record(ctx, o.ID, status, changedBy, "")

	s.publish(EventOrderStatusChanged, Event{
		OrderID:  o.ID,
		OrderUID: o.UID,
		Status:   status,
		Title:    "Статус заявки изменен",
		Message:  StatusMessage(o.UID, status),
	})

	if status == domain.OrderStatusCompleted && s.executor != nil && o.AssignedTo != "" {
		if err := s.executor.UpdateAfterOrder(ctx, o.AssignedTo, o); err != nil {
			zap.L().Error("executor progression update failed",
				zap.String("executor_id", o.AssignedTo),
				zap.String("order_uid", o.UID),
				zap.Error(err),
			)
		}
	}
	return o, nil
}

// AssignExecutor sets the order assignee and announces it.
func (s *Service) AssignExecutor(ctx context.Context, orderID int64, executorID, executorName string) (*domain.Order, error) {
	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	o.AssignedTo = executorID
	o.AssignedToName = executorName
	if err := s.repo.Update(ctx, o); err != nil {
		return nil, errors.Wrap(err, "assign executor")
	}

	if executorID != "" {
		s.publish(EventOrderAssigned, Event{
			OrderID:  o.ID,
			OrderUID: o.UID,
			Status:   o.Status,
			Title:    "Исполнитель назначен",
			Message:  fmt.Sprintf("На заявку #%s назначен мастер: %s", shortUID(o.UID), executorName),
		})
	}
	return o, nil
}

// AddPayment attaches a payment record and rederives the payment status.
func (s *Service) AddPayment(ctx context.Context, orderID int64, amount float64, method, description string) (*domain.Order, error) {
	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	pays := o.Payments()
	pays = append(pays, domain.Payment{
		ID:          uuid.NewString(),
		Amount:      amount,
		Method:      method,
		Status:      domain.PaymentStatusUnpaid,
		CreatedAt:   time.Now().UnixMilli(),
		Description: description,
	})
	o.SetPayments(pays)
	derivePaymentStatus(o)

	if err := s.repo.Update(ctx, o); err != nil {
		return nil, errors.Wrap(err, "add payment")
	}
	s.publish(EventOrderPayment, Event{
		OrderID:  o.ID,
		OrderUID: o.UID,
		Title:    "Платеж добавлен",
		Message:  fmt.Sprintf("Платеж на сумму %.0f ₽ добавлен к заявке #%s", amount, shortUID(o.UID)),
		Amount:   amount,
	})
	return o, nil
}

// UpdatePaymentStatus changes one payment's status and rederives the
// order-level payment status.
func (s *Service) UpdatePaymentStatus(ctx context.Context, orderID int64, paymentID, status string) (*domain.Order, error) {
	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	pays := o.Payments()
	found := false
	for i := range pays {
		if pays[i].ID == paymentID {
			pays[i].Status = status
			if status == domain.PaymentStatusPaid {
				pays[i].ConfirmedAt = time.Now().UnixMilli()
			}
			found = true
		}
	}
	if !found {
		return nil, ErrPaymentNotFound
	}
	o.SetPayments(pays)
	derivePaymentStatus(o)

	if err := s.repo.Update(ctx, o); err != nil {
		return nil, errors.Wrap(err, "update payment")
	}
	return o, nil
}

// derivePaymentStatus recomputes paid amount and the order payment status
// from the payment records.
func derivePaymentStatus(o *domain.Order) {
	var paid float64
	for _, p := range o.Payments() {
		if p.Status == domain.PaymentStatusPaid {
			paid += p.Amount
		}
	}
	o.PaidAmount = paid
	switch {
	case paid <= 0:
		o.PaymentStatus = domain.PaymentStatusUnpaid
	case paid < o.TotalAmount:
		o.PaymentStatus = domain.PaymentStatusPartiallyPaid
	default:
		o.PaymentStatus = domain.PaymentStatusPaid
	}
}

// CustomerPhone returns the customer phone for executor views, gated by
// the departure timer.
func (s *Service) CustomerPhone(ctx context.Context, orderID int64) (string, error) {
	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return "", err
	}
	delay := PhoneRevealDelay
	if s.revealDelay != nil {
		delay = s.revealDelay()
	}
	if !CanRevealPhoneAfter(o, time.Now(), delay) {
		return "", ErrPhoneNotRevealable
	}
	return o.CustomerPhone, nil
}

// Get returns one order by id.
func (s *Service) Get(ctx context.Context, orderID int64) (*domain.Order, error) {
	return s.repo.GetByID(ctx, orderID)
}

// GetByUID returns one order by its public uid.
func (s *Service) GetByUID(ctx context.Context, uid string) (*domain.Order, error) {
	return s.repo.GetByUID(ctx, uid)
}

// List returns a filtered page of orders with the total count.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]*domain.Order, int64, error) {
	return s.repo.List(ctx, filter)
}

// History returns the status audit trail of one order.
func (s *Service) History(ctx context.Context, orderID int64) ([]*domain.OrderStatusHistory, error) {
	return s.history.GetByOrderID(ctx, orderID)
}

func (s *Service) record(ctx context.Context, orderID int64, status, changedBy, remark string) {
	err := s.history.Create(ctx, &domain.OrderStatusHistory{
		ID:        common.UUIDint64(),
		OrderID:   orderID,
		Status:    status,
		ChangedBy: changedBy,
		Remark:    remark,
	})
	if err != nil {
		zap.L().Warn("failed to record status history",
			zap.Int64("order_id", orderID), zap.Error(err))
	}
}

func (s *Service) publish(topic string, ev Event) {
	if s.bus != nil {
		s.bus.Publish(topic, ev)
	}
}
