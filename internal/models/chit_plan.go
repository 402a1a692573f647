package models

import "time"

// ChitPlanStatus is the lifecycle state of a savings subscription.
type ChitPlanStatus string

const (
	ChitPlanActive    ChitPlanStatus = "active"
	ChitPlanPaused    ChitPlanStatus = "paused"
	ChitPlanCompleted ChitPlanStatus = "completed"
	ChitPlanCancelled ChitPlanStatus = "cancelled"
)

// ChitPlan is a user's savings ("chit") subscription.
type ChitPlan struct {
	ID        int            `db:"id" json:"id"`
	UserID    int            `db:"user_id" json:"userId"`
	PlanName  string         `db:"plan_name" json:"planName"`
	Status    ChitPlanStatus `db:"status" json:"status"`
	StartedAt time.Time      `db:"started_at" json:"startedAt"`
	UpdatedAt time.Time      `db:"updated_at" json:"updatedAt"`
}

// IsActive reports whether the plan entitles the holder to member pricing.
func (p *ChitPlan) IsActive() bool {
	return p != nil && p.Status == ChitPlanActive
}
