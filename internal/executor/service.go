package executor

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/talkincode/voltdesk/internal/catalog"
	"github.com/talkincode/voltdesk/internal/domain"
	"github.com/talkincode/voltdesk/pkg/common"
)

// Earnings is the per-order payout breakdown for an executor.
type Earnings struct {
	OrderUID           string  `json:"order_uid"`
	TotalAmount        float64 `json:"total_amount"`
	ElectricalAmount   float64 `json:"electrical_amount"`
	ProductAmount      float64 `json:"product_amount"`
	ElectricalEarnings float64 `json:"electrical_earnings"`
	ProductEarnings    float64 `json:"product_earnings"`
	ExecutorEarnings   float64 `json:"executor_earnings"`
	ElectricalRate     float64 `json:"electrical_rate"`
}

// Repository handles executor profile persistence.
type Repository interface {
	Create(ctx context.Context, p *domain.ExecutorProfile) error
	Update(ctx context.Context, p *domain.ExecutorProfile) error
	GetByUserID(ctx context.Context, userID string) (*domain.ExecutorProfile, error)
	List(ctx context.Context, activeOnly bool) ([]*domain.ExecutorProfile, error)
}

// GormRepository is the GORM implementation of Repository.
type GormRepository struct {
	db *gorm.DB
}

func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

func (r *GormRepository) Create(ctx context.Context, p *domain.ExecutorProfile) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *GormRepository) Update(ctx context.Context, p *domain.ExecutorProfile) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *GormRepository) GetByUserID(ctx context.Context, userID string) (*domain.ExecutorProfile, error) {
	var p domain.ExecutorProfile
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *GormRepository) List(ctx context.Context, activeOnly bool) ([]*domain.ExecutorProfile, error) {
	var profiles []*domain.ExecutorProfile
	query := r.db.WithContext(ctx)
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	err := query.Order("completed_orders DESC").Find(&profiles).Error
	return profiles, err
}

// Service manages executor profiles and progression.
type Service struct {
	repo     Repository
	autoRank func() bool
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// SetAutoRankUpgradeFunc gates automatic rank progression. The function
// runs on every completed order; a nil gate means always on.
func (s *Service) SetAutoRankUpgradeFunc(f func() bool) { s.autoRank = f }

// Register creates a new profile at the starting rank.
func (s *Service) Register(ctx context.Context, userID, name, phone string) (*domain.ExecutorProfile, error) {
	p := &domain.ExecutorProfile{
		ID:           common.UUIDint64(),
		UserID:       userID,
		Name:         name,
		Phone:        phone,
		Rank:         domain.RankSpecialist,
		RegisteredAt: time.Now(),
		IsActive:     true,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, errors.Wrap(err, "register executor")
	}
	return p, nil
}

// Get returns one profile by user id.
func (s *Service) Get(ctx context.Context, userID string) (*domain.ExecutorProfile, error) {
	return s.repo.GetByUserID(ctx, userID)
}

// List returns executor profiles, optionally only active ones.
func (s *Service) List(ctx context.Context, activeOnly bool) ([]*domain.ExecutorProfile, error) {
	return s.repo.List(ctx, activeOnly)
}

// UpdateFlags saves equipment and verification flags and recomputes pro
// status.
func (s *Service) UpdateFlags(ctx context.Context, p *domain.ExecutorProfile) error {
	if CheckProStatus(p) && !p.IsPro {
		p.IsPro = true
		now := time.Now()
		p.ProUnlockedAt = &now
	}
	return s.repo.Update(ctx, p)
}

// OrderEarnings splits an order's line items into electrical work and
// product services and applies the respective commission rates.
func OrderEarnings(p *domain.ExecutorProfile, o *domain.Order, now time.Time) Earnings {
	e := Earnings{OrderUID: o.UID, ElectricalRate: ElectricalCommission(p, now)}
	for _, it := range o.Items() {
		total := it.Price * float64(it.Quantity)
		if catalog.IsElectricalWork(it.Name) {
			e.ElectricalAmount += total
		} else {
			e.ProductAmount += total
		}
	}
	e.TotalAmount = e.ElectricalAmount + e.ProductAmount
	e.ElectricalEarnings = e.ElectricalAmount * e.ElectricalRate
	e.ProductEarnings = e.ProductAmount * ProductCommission
	e.ExecutorEarnings = e.ElectricalEarnings + e.ProductEarnings
	return e
}

// UpdateAfterOrder applies a completed order to the executor profile:
// counters, earnings, rank upgrade and pro unlock.
func (s *Service) UpdateAfterOrder(ctx context.Context, executorID string, o *domain.Order) error {
	p, err := s.repo.GetByUserID(ctx, executorID)
	if err != nil {
		return errors.Wrap(err, "load executor profile")
	}

	now := time.Now()
	earnings := OrderEarnings(p, o, now)
	p.CompletedOrders++
	p.TotalRevenue += earnings.ExecutorEarnings

	if s.autoRank == nil || s.autoRank() {
		if newRank := CheckRankUpgrade(p); newRank != "" && newRank != p.Rank {
			zap.L().Info("executor rank upgraded",
				zap.String("user_id", p.UserID),
				zap.String("from", p.Rank),
				zap.String("to", newRank),
			)
			p.Rank = newRank
			p.LastRankUpdate = &now
		}
	}
	if CheckProStatus(p) && !p.IsPro {
		p.IsPro = true
		p.ProUnlockedAt = &now
	}
	return s.repo.Update(ctx, p)
}
