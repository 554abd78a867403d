// Package webhook pushes created orders to the external CRM. Delivery is
// fire-and-forget: failures are logged and never retried.
package webhook

import (
	"time"

	"github.com/guonaihong/gout"
	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/talkincode/voltdesk/config"
	"github.com/talkincode/voltdesk/internal/domain"
)

// crmOrder is the CRM-side order payload.
type crmOrder struct {
	UID           string             `json:"uid"`
	CustomerName  string             `json:"customer_name"`
	CustomerPhone string             `json:"customer_phone"`
	Address       string             `json:"address"`
	ScheduledDate string             `json:"scheduled_date"`
	ScheduledTime string             `json:"scheduled_time"`
	Status        string             `json:"status"`
	TotalAmount   float64            `json:"total_amount"`
	Items         []domain.OrderItem `json:"items"`
	CreatedAt     time.Time          `json:"created_at"`
}

// CRMSync posts order snapshots to the configured CRM endpoint through a
// bounded worker pool.
type CRMSync struct {
	cfg  config.WebhookConfig
	pool *ants.Pool
}

func NewCRMSync(cfg config.WebhookConfig) (*CRMSync, error) {
	workers := cfg.Workers
	if workers < 1 {
		workers = 4
	}
	pool, err := ants.NewPool(workers, ants.WithNonblocking(true))
	if err != nil {
		return nil, err
	}
	return &CRMSync{cfg: cfg, pool: pool}, nil
}

// SyncOrder queues one order for delivery. Drops the task when the pool is
// saturated rather than blocking checkout.
func (s *CRMSync) SyncOrder(o *domain.Order) {
	if !s.cfg.Enabled || s.cfg.CrmURL == "" {
		return
	}

	payload := crmOrder{
		UID:           o.UID,
		CustomerName:  o.CustomerName,
		CustomerPhone: o.CustomerPhone,
		Address:       o.Address,
		ScheduledDate: o.ScheduledDate,
		ScheduledTime: o.ScheduledTime,
		Status:        o.Status,
		TotalAmount:   o.TotalAmount,
		Items:         o.Items(),
		CreatedAt:     o.CreatedAt,
	}

	err := s.pool.Submit(func() {
		var result string
		err := gout.POST(s.cfg.CrmURL).
			SetJSON(payload).
			SetTimeout(10 * time.Second).
			BindBody(&result).
			Do()
		if err != nil {
			zap.L().Warn("crm sync failed",
				zap.String("order_uid", payload.UID),
				zap.Error(err),
			)
			return
		}
		zap.L().Info("crm sync ok", zap.String("order_uid", payload.UID))
	})
	if err != nil {
		zap.L().Warn("crm sync queue full, order dropped",
			zap.String("order_uid", o.UID),
			zap.Error(err),
		)
	}
}

// Close releases the worker pool.
func (s *CRMSync) Close() {
	if s.pool != nil {
		s.pool.Release()
	}
}
