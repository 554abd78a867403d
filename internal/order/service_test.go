package order

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/talkincode/voltdesk/internal/cart"
	"github.com/talkincode/voltdesk/internal/catalog"
	"github.com/talkincode/voltdesk/internal/domain"
)

const sid = "sess-1"

type memoryRepo struct {
	mu     sync.Mutex
	orders map[int64]*domain.Order
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{orders: make(map[int64]*domain.Order)}
}

func (r *memoryRepo) Create(_ context.Context, o *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *o
	r.orders[o.ID] = &cp
	return nil
}

func (r *memoryRepo) Update(_ context.Context, o *domain.Order) error {
	return r.Create(context.Background(), o)
}

func (r *memoryRepo) GetByID(_ context.Context, id int64) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *o
	return &cp, nil
}

func (r *memoryRepo) GetByUID(_ context.Context, uid string) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.orders {
		if o.UID == uid {
			cp := *o
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memoryRepo) List(_ context.Context, _ ListFilter) ([]*domain.Order, int64, error) {
	all, _ := r.ListAll(context.Background())
	return all, int64(len(all)), nil
}

func (r *memoryRepo) ListAll(_ context.Context) ([]*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.Order, 0, len(r.orders))
	for _, o := range r.orders {
		cp := *o
		out = append(out, &cp)
	}
	return out, nil
}

type memoryHistory struct {
	mu   sync.Mutex
	rows []*domain.OrderStatusHistory
}

func (r *memoryHistory) Create(_ context.Context, h *domain.OrderStatusHistory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows = append(r.rows, h)
	return nil
}

func (r *memoryHistory) GetByOrderID(_ context.Context, orderID int64) ([]*domain.OrderStatusHistory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.OrderStatusHistory
	for _, h := range r.rows {
		if h.OrderID == orderID {
			out = append(out, h)
		}
	}
	return out, nil
}

type testEnv struct {
	svc    *Service
	repo   *memoryRepo
	carts  *cart.Service
	events []Event
	mu     sync.Mutex
}

func newTestEnv(t *testing.T) *testEnv {
	env := &testEnv{
		repo:  newMemoryRepo(),
		carts: cart.NewService(cart.NewMemoryStore()),
	}
	bus := EventBus.New()
	for _, topic := range []string{EventOrderCreated, EventOrderStatusChanged, EventOrderAssigned, EventOrderPayment} {
		require.NoError(t, bus.Subscribe(topic, func(ev Event) {
			env.mu.Lock()
			env.events = append(env.events, ev)
			env.mu.Unlock()
		}))
	}
	env.svc = NewService(env.repo, &memoryHistory{}, env.carts, bus)
	return env
}

func (e *testEnv) eventCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.events)
}

func (e *testEnv) fillCart(t *testing.T) {
	t.Helper()
	require.NoError(t, e.carts.Add(context.Background(), sid,
		catalog.MustFind("out-1"), 2, domain.ServiceFullWiring, nil))
}

var checkout = CheckoutInfo{
	Name:    "Иван",
	Phone:   "+79990001122",
	Address: "ул. Ленина, 1",
	Date:    "2026-09-15",
	Time:    "10:00",
}

func TestCreateOrder(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.fillCart(t)

	o, err := env.svc.Create(ctx, sid, checkout)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(o.UID, "ORD-"))
	assert.Equal(t, domain.OrderStatusPending, o.Status)
	assert.Equal(t, domain.PaymentStatusUnpaid, o.PaymentStatus)
	// 2 outlets full-wiring plus the injected master visit
	assert.Equal(t, 850.0*2+500.0, o.TotalAmount)
	assert.Len(t, o.Items(), 2)
	assert.Equal(t, 2, o.TotalOutlets)

	// cart is cleared by checkout
	items, err := env.carts.Get(ctx, sid)
	require.NoError(t, err)
	assert.Empty(t, items)

	// exactly one order and one created event
	all, _ := env.repo.ListAll(ctx)
	assert.Len(t, all, 1)
	assert.Equal(t, 1, env.eventCount())
}

func TestCreateOrderEmptyCart(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.svc.Create(context.Background(), sid, checkout)
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestCreateOrderValidation(t *testing.T) {
	env := newTestEnv(t)
	env.fillCart(t)

	info := checkout
	info.Phone = ""
	_, err := env.svc.Create(context.Background(), sid, info)
	assert.ErrorIs(t, err, ErrInvalidCheckout)

	info = checkout
	info.Date = "not a date"
	_, err = env.svc.Create(context.Background(), sid, info)
	assert.ErrorIs(t, err, ErrInvalidCheckout)
}

func TestUpdateStatusChain(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.fillCart(t)
	o, err := env.svc.Create(ctx, sid, checkout)
	require.NoError(t, err)

	before := env.eventCount()
	o, err = env.svc.UpdateStatus(ctx, o.ID, domain.OrderStatusConfirmed, "admin")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusConfirmed, o.Status)
	assert.Nil(t, o.DepartureConfirmedAt)
	assert.Equal(t, before+1, env.eventCount())

	o, err = env.svc.UpdateStatus(ctx, o.ID, domain.OrderStatusOnTheWay, "executor")
	require.NoError(t, err)
	require.NotNil(t, o.DepartureConfirmedAt)

	// status updates never create or remove orders
	all, _ := env.repo.ListAll(ctx)
	assert.Len(t, all, 1)
}

func TestUpdateStatusRejectsBackward(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.fillCart(t)
	o, _ := env.svc.Create(ctx, sid, checkout)

	_, err := env.svc.UpdateStatus(ctx, o.ID, domain.OrderStatusConfirmed, "admin")
	require.NoError(t, err)
	_, err = env.svc.UpdateStatus(ctx, o.ID, domain.OrderStatusPending, "admin")
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestCanTransition(t *testing.T) {
	assert.True(t, CanTransition(domain.OrderStatusPending, domain.OrderStatusConfirmed))
	assert.True(t, CanTransition(domain.OrderStatusConfirmed, domain.OrderStatusCompleted))
	assert.True(t, CanTransition(domain.OrderStatusInProgress, domain.OrderStatusCancelled))
	assert.False(t, CanTransition(domain.OrderStatusCompleted, domain.OrderStatusCancelled))
	assert.False(t, CanTransition(domain.OrderStatusCancelled, domain.OrderStatusPending))
	assert.False(t, CanTransition(domain.OrderStatusArrived, domain.OrderStatusConfirmed))
}

func TestAssignExecutor(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.fillCart(t)
	o, _ := env.svc.Create(ctx, sid, checkout)

	o, err := env.svc.AssignExecutor(ctx, o.ID, "ex-1", "Пётр")
	require.NoError(t, err)
	assert.Equal(t, "ex-1", o.AssignedTo)
	assert.Equal(t, "Пётр", o.AssignedToName)
}

func TestPayments(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.fillCart(t)
	o, _ := env.svc.Create(ctx, sid, checkout)

	o, err := env.svc.AddPayment(ctx, o.ID, 1000, "cash", "")
	require.NoError(t, err)
	require.Len(t, o.Payments(), 1)
	assert.Equal(t, domain.PaymentStatusUnpaid, o.PaymentStatus)

	payID := o.Payments()[0].ID
	o, err = env.svc.UpdatePaymentStatus(ctx, o.ID, payID, domain.PaymentStatusPaid)
	require.NoError(t, err)
	assert.Equal(t, 1000.0, o.PaidAmount)
	assert.Equal(t, domain.PaymentStatusPartiallyPaid, o.PaymentStatus)

	o, err = env.svc.AddPayment(ctx, o.ID, o.TotalAmount-1000, "card", "")
	require.NoError(t, err)
	payID = o.Payments()[1].ID
	o, err = env.svc.UpdatePaymentStatus(ctx, o.ID, payID, domain.PaymentStatusPaid)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusPaid, o.PaymentStatus)

	_, err = env.svc.UpdatePaymentStatus(ctx, o.ID, "missing", domain.PaymentStatusPaid)
	assert.ErrorIs(t, err, ErrPaymentNotFound)
}

func TestPhoneRevealGate(t *testing.T) {
	now := time.Now()
	o := &domain.Order{CustomerPhone: "+79990001122"}
	assert.False(t, CanRevealPhone(o, now))

	recent := now.Add(-10 * time.Minute)
	o.DepartureConfirmedAt = &recent
	assert.False(t, CanRevealPhone(o, now))

	old := now.Add(-PhoneRevealDelay)
	o.DepartureConfirmedAt = &old
	assert.True(t, CanRevealPhone(o, now))
}

func TestPhoneRevealDelaySetting(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.fillCart(t)
	o, err := env.svc.Create(ctx, sid, checkout)
	require.NoError(t, err)

	// a 5 minute window instead of the 20 minute default
	env.svc.SetRevealDelayFunc(func() time.Duration { return 5 * time.Minute })

	_, err = env.svc.CustomerPhone(ctx, o.ID)
	assert.ErrorIs(t, err, ErrPhoneNotRevealable)

	departed := time.Now().Add(-10 * time.Minute)
	o.DepartureConfirmedAt = &departed
	require.NoError(t, env.repo.Update(ctx, o))

	phone, err := env.svc.CustomerPhone(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, checkout.Phone, phone)
}

func TestStatusMessage(t *testing.T) {
	msg := StatusMessage("ORD-1756600000000", domain.OrderStatusCompleted)
	assert.Equal(t, "Заявка #000000 завершена", msg)
	assert.Contains(t, StatusMessage("ORD-1", "weird"), "обновлена")
}
