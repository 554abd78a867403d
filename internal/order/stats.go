package order

import (
	"context"

	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"

	"github.com/talkincode/voltdesk/internal/domain"
)

// Stats aggregates the order book for the admin dashboard.
type Stats struct {
	Total        int64            `json:"total"`
	ByStatus     map[string]int64 `json:"by_status"`
	Revenue      float64          `json:"revenue"`
	PaidRevenue  float64          `json:"paid_revenue"`
	MeanAmount   float64          `json:"mean_amount"`
	MedianAmount float64          `json:"median_amount"`
	TotalPoints  int              `json:"total_points"`
}

// ComputeStats aggregates over all orders. Cancelled orders count toward
// totals by status but not toward revenue.
func (s *Service) ComputeStats(ctx context.Context) (*Stats, error) {
	orders, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "load orders")
	}

	out := &Stats{ByStatus: make(map[string]int64)}
	amounts := make([]float64, 0, len(orders))
	for _, o := range orders {
		out.Total++
		out.ByStatus[o.Status]++
		if o.Status == domain.OrderStatusCancelled {
			continue
		}
		out.Revenue += o.TotalAmount
		out.PaidRevenue += o.PaidAmount
		out.TotalPoints += o.TotalPoints
		amounts = append(amounts, o.TotalAmount)
	}

	if len(amounts) > 0 {
		if mean, err := stats.Mean(amounts); err == nil {
			out.MeanAmount = mean
		}
		if median, err := stats.Median(amounts); err == nil {
			out.MedianAmount = median
		}
	}
	return out, nil
}
