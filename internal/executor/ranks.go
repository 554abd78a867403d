// Package executor tracks executor profiles: rank progression, pro status
// and commission-based earnings.
package executor

import (
	"time"

	"github.com/talkincode/voltdesk/internal/domain"
)

// RankInfo is one rung of the progression ladder.
type RankInfo struct {
	ID                 string  `json:"id"`
	Name               string  `json:"name"`
	MinCompletedOrders int     `json:"min_completed_orders"`
	MinRevenue         float64 `json:"min_revenue"`
	Badge              string  `json:"badge"`
}

// rankLadder is ordered lowest to highest.
var rankLadder = []RankInfo{
	{ID: domain.RankSpecialist, Name: "Специалист", MinCompletedOrders: 0, MinRevenue: 0, Badge: "🔧"},
	{ID: domain.RankMaster, Name: "Мастер", MinCompletedOrders: 10, MinRevenue: 50000, Badge: "⚡"},
	{ID: domain.RankSenior, Name: "Старший мастер", MinCompletedOrders: 30, MinRevenue: 150000, Badge: "⭐"},
	{ID: domain.RankExpert, Name: "Эксперт", MinCompletedOrders: 50, MinRevenue: 300000, Badge: "💎"},
	{ID: domain.RankLegend, Name: "Легенда", MinCompletedOrders: 100, MinRevenue: 1000000, Badge: "👑"},
}

// Ranks returns the full ladder.
func Ranks() []RankInfo {
	out := make([]RankInfo, len(rankLadder))
	copy(out, rankLadder)
	return out
}

func rankIndex(id string) int {
	for i, r := range rankLadder {
		if r.ID == id {
			return i
		}
	}
	return 0
}

// CheckRankUpgrade returns the highest rank the profile now qualifies for,
// or empty when no upgrade applies. Ranks are never downgraded.
func CheckRankUpgrade(p *domain.ExecutorProfile) string {
	current := rankIndex(p.Rank)
	for i := len(rankLadder) - 1; i > current; i-- {
		r := rankLadder[i]
		if p.CompletedOrders >= r.MinCompletedOrders && p.TotalRevenue >= r.MinRevenue {
			return r.ID
		}
	}
	return ""
}

// CheckProStatus reports whether all pro requirements are met and verified.
func CheckProStatus(p *domain.ExecutorProfile) bool {
	return p.HasDiploma && p.DiplomaVerified &&
		p.HasCar && p.CarVerified &&
		p.HasTools && p.ToolsVerified
}

// seniorAccountAge is the registration age granting full electrical
// commission without pro status.
const seniorAccountAge = 90 * 24 * time.Hour

// ElectricalCommission returns the commission rate on electrical
// installation work: 0.5 for pro or long-registered executors, 0.3 otherwise.
func ElectricalCommission(p *domain.ExecutorProfile, now time.Time) float64 {
	if p.IsPro {
		return 0.5
	}
	if now.Sub(p.RegisteredAt) > seniorAccountAge {
		return 0.5
	}
	return 0.3
}

// ProductCommission is the flat rate on non-electrical services.
const ProductCommission = 0.5
