package service

import (
	"context"
	"errors"
	"testing"

	"github.com/GTDGit/gtd_jewel/internal/models"
)

type planByUser struct {
	plans map[int]*models.ChitPlan
	err   error
	calls int
}

func (p *planByUser) GetCurrentByUserID(_ context.Context, userID int) (*models.ChitPlan, error) {
	p.calls++
	return p.plans[userID], p.err
}

func TestIsMember(t *testing.T) {
	plans := &planByUser{plans: map[int]*models.ChitPlan{
		1: {UserID: 1, Status: models.ChitPlanActive},
		2: {UserID: 2, Status: models.ChitPlanPaused},
		3: {UserID: 3, Status: models.ChitPlanCompleted},
	}}
	svc := NewMembershipService(plans)

	cases := map[int]bool{1: true, 2: false, 3: false, 4: false}
	for userID, want := range cases {
		got, err := svc.IsMember(context.Background(), userID)
		if err != nil {
			t.Fatalf("user %d: %v", userID, err)
		}
		if got != want {
			t.Fatalf("user %d: got %v, want %v", userID, got, want)
		}
	}
}

func TestIsMemberAnonymousSkipsLookup(t *testing.T) {
	plans := &planByUser{}
	svc := NewMembershipService(plans)
	if ok, _ := svc.IsMember(context.Background(), 0); ok {
		t.Fatalf("anonymous caller must not be a member")
	}
	if plans.calls != 0 {
		t.Fatalf("expected no plan lookup, got %d", plans.calls)
	}
}

func TestIsMemberLookupError(t *testing.T) {
	svc := NewMembershipService(&planByUser{err: errors.New("timeout")})
	if _, err := svc.IsMember(context.Background(), 9); err == nil {
		t.Fatalf("expected lookup error")
	}
}
