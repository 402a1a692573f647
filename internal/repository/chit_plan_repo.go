package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/GTDGit/gtd_jewel/internal/models"
)

// ChitPlanRepository reads savings plan subscriptions.
type ChitPlanRepository struct {
	db *sqlx.DB
}

// NewChitPlanRepository creates a new ChitPlanRepository.
func NewChitPlanRepository(db *sqlx.DB) *ChitPlanRepository {
	return &ChitPlanRepository{db: db}
}

// GetCurrentByUserID returns the user's current plan, preferring an active
// one, or nil when the user has never subscribed.
func (r *ChitPlanRepository) GetCurrentByUserID(ctx context.Context, userID int) (*models.ChitPlan, error) {
	q := r.db.Rebind(`
		SELECT id, user_id, plan_name, status, started_at, updated_at
		FROM chit_plans
		WHERE user_id = ?
		ORDER BY (status = 'active') DESC, updated_at DESC
		LIMIT 1`)

	var p models.ChitPlan
	if err := r.db.GetContext(ctx, &p, q, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}
