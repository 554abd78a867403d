package order

import (
	"context"

	"gorm.io/gorm"

	"github.com/talkincode/voltdesk/internal/domain"
)

// ListFilter narrows order listings.
type ListFilter struct {
	Status     string
	AssignedTo string
	Keyword    string
	Page       int
	PageSize   int
}

// Repository handles order persistence.
type Repository interface {
	Create(ctx context.Context, o *domain.Order) error
	Update(ctx context.Context, o *domain.Order) error
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	GetByUID(ctx context.Context, uid string) (*domain.Order, error)
	List(ctx context.Context, filter ListFilter) ([]*domain.Order, int64, error)
	ListAll(ctx context.Context) ([]*domain.Order, error)
}

// HistoryRepository handles the status audit trail.
type HistoryRepository interface {
	Create(ctx context.Context, h *domain.OrderStatusHistory) error
	GetByOrderID(ctx context.Context, orderID int64) ([]*domain.OrderStatusHistory, error)
}

// GormRepository is the GORM implementation of Repository.
type GormRepository struct {
	db *gorm.DB
}

func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

func (r *GormRepository) Create(ctx context.Context, o *domain.Order) error {
	return r.db.WithContext(ctx).Create(o).Error
}

func (r *GormRepository) Update(ctx context.Context, o *domain.Order) error {
	return r.db.WithContext(ctx).Save(o).Error
}

func (r *GormRepository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	var o domain.Order
	err := r.db.WithContext(ctx).First(&o, id).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *GormRepository) GetByUID(ctx context.Context, uid string) (*domain.Order, error) {
	var o domain.Order
	err := r.db.WithContext(ctx).Where("uid = ?", uid).First(&o).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *GormRepository) List(ctx context.Context, filter ListFilter) ([]*domain.Order, int64, error) {
	var orders []*domain.Order
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Order{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.AssignedTo != "" {
		query = query.Where("assigned_to = ?", filter.AssignedTo)
	}
	if filter.Keyword != "" {
		kw := "%" + filter.Keyword + "%"
		query = query.Where("uid like ? or customer_name like ? or customer_phone like ? or address like ?",
			kw, kw, kw, kw)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = 20
	}
	err := query.
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&orders).Error
	return orders, total, err
}

func (r *GormRepository) ListAll(ctx context.Context) ([]*domain.Order, error) {
	var orders []*domain.Order
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&orders).Error
	return orders, err
}

// GormHistoryRepository is the GORM implementation of HistoryRepository.
type GormHistoryRepository struct {
	db *gorm.DB
}

func NewGormHistoryRepository(db *gorm.DB) *GormHistoryRepository {
	return &GormHistoryRepository{db: db}
}

func (r *GormHistoryRepository) Create(ctx context.Context, h *domain.OrderStatusHistory) error {
	return r.db.WithContext(ctx).Create(h).Error
}

func (r *GormHistoryRepository) GetByOrderID(ctx context.Context, orderID int64) ([]*domain.OrderStatusHistory, error) {
	var rows []*domain.OrderStatusHistory
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}
