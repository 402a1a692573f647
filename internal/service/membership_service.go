package service

import (
	"context"
	"fmt"

	"github.com/GTDGit/gtd_jewel/internal/models"
)

// ChitPlanReader loads a user's current savings plan.
type ChitPlanReader interface {
	GetCurrentByUserID(ctx context.Context, userID int) (*models.ChitPlan, error)
}

// MembershipService decides whether a caller gets member pricing: the user
// has a chit plan and its status is active.
type MembershipService struct {
	plans ChitPlanReader
}

// NewMembershipService creates a MembershipService.
func NewMembershipService(plans ChitPlanReader) *MembershipService {
	return &MembershipService{plans: plans}
}

// IsMember reports member status. Anonymous callers (userID <= 0) are never
// members.
func (s *MembershipService) IsMember(ctx context.Context, userID int) (bool, error) {
	if userID <= 0 {
		return false, nil
	}
	plan, err := s.plans.GetCurrentByUserID(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("failed to load chit plan: %w", err)
	}
	return plan.IsActive(), nil
}
