package domain

import "time"

// Executor ranks, lowest to highest.
const (
	RankSpecialist = "specialist"
	RankMaster     = "master"
	RankSenior     = "senior"
	RankExpert     = "expert"
	RankLegend     = "legend"
)

// ExecutorProfile tracks an executor's progression and commission state.
type ExecutorProfile struct {
	ID              int64     `json:"id,string" gorm:"primaryKey"`
	UserID          string    `gorm:"uniqueIndex;size:64" json:"user_id"`
	Name            string    `gorm:"size:200" json:"name"`
	Phone           string    `gorm:"size:32" json:"phone"`
	Rank            string    `gorm:"size:20" json:"rank"`
	CompletedOrders int       `json:"completed_orders"`
	TotalRevenue    float64   `json:"total_revenue"`
	RegisteredAt    time.Time `json:"registered_at"`
	LastRankUpdate  *time.Time `json:"last_rank_update"`

	HasCar          bool `json:"has_car"`
	HasTools        bool `json:"has_tools"`
	IsActive        bool `json:"is_active"`
	IsPro           bool `json:"is_pro"`
	HasDiploma      bool `json:"has_diploma"`
	DiplomaVerified bool `json:"diploma_verified"`
	CarVerified     bool `json:"car_verified"`
	ToolsVerified   bool `json:"tools_verified"`
	ProUnlockedAt   *time.Time `json:"pro_unlocked_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (ExecutorProfile) TableName() string {
	return "executor_profile"
}
