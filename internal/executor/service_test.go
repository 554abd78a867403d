package executor

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/talkincode/voltdesk/internal/domain"
)

type memoryRepo struct {
	mu       sync.Mutex
	profiles map[string]*domain.ExecutorProfile
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{profiles: make(map[string]*domain.ExecutorProfile)}
}

func (r *memoryRepo) Create(_ context.Context, p *domain.ExecutorProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *p
	r.profiles[p.UserID] = &cp
	return nil
}

func (r *memoryRepo) Update(_ context.Context, p *domain.ExecutorProfile) error {
	return r.Create(context.Background(), p)
}

func (r *memoryRepo) GetByUserID(_ context.Context, userID string) (*domain.ExecutorProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *memoryRepo) List(_ context.Context, activeOnly bool) ([]*domain.ExecutorProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.ExecutorProfile
	for _, p := range r.profiles {
		if activeOnly && !p.IsActive {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func TestCheckRankUpgrade(t *testing.T) {
	p := &domain.ExecutorProfile{Rank: domain.RankSpecialist}
	assert.Empty(t, CheckRankUpgrade(p))

	p.CompletedOrders = 10
	p.TotalRevenue = 50000
	assert.Equal(t, domain.RankMaster, CheckRankUpgrade(p))

	// jumps straight to the highest qualified rank
	p.CompletedOrders = 60
	p.TotalRevenue = 400000
	assert.Equal(t, domain.RankExpert, CheckRankUpgrade(p))

	// revenue alone is not enough
	p.CompletedOrders = 60
	p.TotalRevenue = 1000000
	assert.Equal(t, domain.RankExpert, CheckRankUpgrade(p))

	// no downgrade below the current rank
	p.Rank = domain.RankLegend
	p.CompletedOrders = 0
	p.TotalRevenue = 0
	assert.Empty(t, CheckRankUpgrade(p))
}

func TestElectricalCommission(t *testing.T) {
	now := time.Now()

	fresh := &domain.ExecutorProfile{RegisteredAt: now.Add(-30 * 24 * time.Hour)}
	assert.Equal(t, 0.3, ElectricalCommission(fresh, now))

	pro := &domain.ExecutorProfile{IsPro: true, RegisteredAt: now}
	assert.Equal(t, 0.5, ElectricalCommission(pro, now))

	veteran := &domain.ExecutorProfile{RegisteredAt: now.Add(-91 * 24 * time.Hour)}
	assert.Equal(t, 0.5, ElectricalCommission(veteran, now))
}

func TestCheckProStatus(t *testing.T) {
	p := &domain.ExecutorProfile{
		HasDiploma: true, DiplomaVerified: true,
		HasCar: true, CarVerified: true,
		HasTools: true,
	}
	assert.False(t, CheckProStatus(p))
	p.ToolsVerified = true
	assert.True(t, CheckProStatus(p))
}

func TestOrderEarningsSplit(t *testing.T) {
	now := time.Now()
	p := &domain.ExecutorProfile{RegisteredAt: now.Add(-10 * 24 * time.Hour)}

	o := &domain.Order{UID: "ORD-1"}
	o.SetItems([]domain.OrderItem{
		{Name: "Установить розетку", Price: 850, Quantity: 2}, // electrical
		{Name: "Выезд мастера", Price: 500, Quantity: 1},      // product
	})

	e := OrderEarnings(p, o, now)
	assert.Equal(t, 1700.0, e.ElectricalAmount)
	assert.Equal(t, 500.0, e.ProductAmount)
	assert.Equal(t, 0.3, e.ElectricalRate)
	assert.Equal(t, 1700.0*0.3, e.ElectricalEarnings)
	assert.Equal(t, 500.0*0.5, e.ProductEarnings)
	assert.Equal(t, 1700.0*0.3+250.0, e.ExecutorEarnings)
}

func TestAutoRankUpgradeDisabled(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryRepo()
	svc := NewService(repo)
	svc.SetAutoRankUpgradeFunc(func() bool { return false })

	_, err := svc.Register(ctx, "ex-2", "Олег", "+79990000001")
	require.NoError(t, err)

	big := &domain.Order{UID: "ORD-3"}
	big.SetItems([]domain.OrderItem{{Name: "Выезд мастера", Price: 11000, Quantity: 10}})
	for i := 0; i < 10; i++ {
		require.NoError(t, svc.UpdateAfterOrder(ctx, "ex-2", big))
	}

	// earnings still accrue, only the rank stays put
	p, err := svc.Get(ctx, "ex-2")
	require.NoError(t, err)
	assert.Equal(t, 10, p.CompletedOrders)
	assert.Equal(t, domain.RankSpecialist, p.Rank)
	assert.Nil(t, p.LastRankUpdate)
}

func TestUpdateAfterOrder(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryRepo()
	svc := NewService(repo)

	p, err := svc.Register(ctx, "ex-1", "Пётр", "+79990000000")
	require.NoError(t, err)
	assert.Equal(t, domain.RankSpecialist, p.Rank)

	o := &domain.Order{UID: "ORD-1"}
	o.SetItems([]domain.OrderItem{{Name: "Выезд мастера", Price: 500, Quantity: 1}})

	require.NoError(t, svc.UpdateAfterOrder(ctx, "ex-1", o))
	p, err = svc.Get(ctx, "ex-1")
	require.NoError(t, err)
	assert.Equal(t, 1, p.CompletedOrders)
	assert.Equal(t, 250.0, p.TotalRevenue)

	// push over the master threshold
	big := &domain.Order{UID: "ORD-2"}
	big.SetItems([]domain.OrderItem{{Name: "Выезд мастера", Price: 11000, Quantity: 10}})
	for i := 0; i < 9; i++ {
		require.NoError(t, svc.UpdateAfterOrder(ctx, "ex-1", big))
	}
	p, _ = svc.Get(ctx, "ex-1")
	assert.Equal(t, 10, p.CompletedOrders)
	assert.Equal(t, domain.RankMaster, p.Rank)
	require.NotNil(t, p.LastRankUpdate)
}
