package services

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/draytht/nocarry/internal/models"
	"github.com/draytht/nocarry/pkg/response"
	"gorm.io/gorm"
)

func TestCheckInviteUsable(t *testing.T) {
	now := time.Now()
	used := now.Add(-time.Hour)

	tests := []struct {
		name     string
		invite   models.ProjectInvite
		wantCode int
	}{
		{"live invite", models.ProjectInvite{ExpiresAt: now.Add(time.Hour)}, 0},
		{"already used", models.ProjectInvite{ExpiresAt: now.Add(time.Hour), UsedAt: &used}, http.StatusGone},
		{"expired", models.ProjectInvite{ExpiresAt: now.Add(-time.Minute)}, http.StatusGone},
		// A used invite reports used, not expired, even once stale.
		{"used and expired", models.ProjectInvite{ExpiresAt: now.Add(-time.Minute), UsedAt: &used}, http.StatusGone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkInviteUsable(&tt.invite, now)
			if tt.wantCode == 0 {
				if err != nil {
					t.Errorf("expected usable, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if err.Code != tt.wantCode {
				t.Errorf("code = %d, want %d", err.Code, tt.wantCode)
			}
		})
	}
}

func TestInviteExpiryIsStrict(t *testing.T) {
	now := time.Now()

	// An invite expiring exactly now is still accepted; only strictly
	// past deadlines reject.
	boundary := models.ProjectInvite{ExpiresAt: now}
	if boundary.Expired(now) {
		t.Error("invite expiring exactly now should not count as expired")
	}
	if !boundary.Usable(now) {
		t.Error("invite expiring exactly now should still be usable")
	}

	past := models.ProjectInvite{ExpiresAt: now.Add(-time.Nanosecond)}
	if !past.Expired(now) {
		t.Error("invite past its deadline should be expired")
	}
}

func TestInviteUsedState(t *testing.T) {
	now := time.Now()
	invite := models.ProjectInvite{ExpiresAt: now.Add(time.Hour)}
	if invite.Used() {
		t.Error("fresh invite should not be used")
	}

	invite.UsedAt = &now
	if !invite.Used() {
		t.Error("invite with used_at should report used")
	}
	if invite.Usable(now) {
		t.Error("used invite should not be usable")
	}
}

func TestInviteTTL(t *testing.T) {
	if InviteTTL != 7*24*time.Hour {
		t.Errorf("invite TTL = %v, want 7 days", InviteTTL)
	}
}

func TestAcceptLink(t *testing.T) {
	s := NewInviteService(nil, nil, "https://nocarry.example.com")
	link := s.AcceptLink("abc-123")
	if link != "https://nocarry.example.com/invite/abc-123" {
		t.Errorf("unexpected accept link: %s", link)
	}
}

func TestInviteEmailMatches(t *testing.T) {
	tests := []struct {
		caller string
		invite string
		want   bool
	}{
		{"alice@school.edu", "alice@school.edu", true},
		{"Alice@School.EDU", "alice@school.edu", true},
		{"alice@school.edu", " alice@school.edu ", true},
		{"bob@school.edu", "alice@school.edu", false},
		{"alice@school.edu", "", false},
	}

	for _, tt := range tests {
		if got := inviteEmailMatches(tt.caller, tt.invite); got != tt.want {
			t.Errorf("inviteEmailMatches(%q, %q) = %v, want %v", tt.caller, tt.invite, got, tt.want)
		}
	}
}

func newInviteTestService(db *gorm.DB) *InviteService {
	return NewInviteService(db, NewSyncMailQueue(), "https://nocarry.example.com")
}

func TestAcceptInviteEmailCaseInsensitive(t *testing.T) {
	db := newTestDB(t)
	svc := newInviteTestService(db)

	inviter := createTestUser(t, db, "leader@school.edu", models.GlobalRoleStudent)
	project := createTestProject(t, db, inviter, "Compilers", nil)
	addTestMember(t, db, project.ID, inviter.ID, models.ProjectRoleTeamLeader)

	// The invite carries a mixed-case address; the account signed up
	// lowercase.
	invite := models.ProjectInvite{
		ProjectID:   project.ID,
		Email:       "Alice@School.EDU",
		Role:        models.ProjectRoleStudent,
		Token:       "tok-case",
		InvitedByID: inviter.ID,
		ExpiresAt:   time.Now().Add(InviteTTL),
	}
	if err := db.Create(&invite).Error; err != nil {
		t.Fatalf("create invite: %v", err)
	}

	alice := createTestUser(t, db, "alice@school.edu", models.GlobalRoleStudent)

	projectID, err := svc.AcceptInvite("tok-case", alice.ID)
	if err != nil {
		t.Fatalf("AcceptInvite: %v", err)
	}
	if projectID != project.ID {
		t.Errorf("project id = %d, want %d", projectID, project.ID)
	}

	var member models.ProjectMember
	if err := db.Where("project_id = ? AND user_id = ?", project.ID, alice.ID).First(&member).Error; err != nil {
		t.Fatalf("membership not created: %v", err)
	}
	if member.Role != models.ProjectRoleStudent {
		t.Errorf("role = %s, want STUDENT", member.Role)
	}
}

func TestAcceptInviteWrongAccountRejected(t *testing.T) {
	db := newTestDB(t)
	svc := newInviteTestService(db)

	inviter := createTestUser(t, db, "leader@school.edu", models.GlobalRoleStudent)
	project := createTestProject(t, db, inviter, "Compilers", nil)

	invite := models.ProjectInvite{
		ProjectID:   project.ID,
		Email:       "alice@school.edu",
		Role:        models.ProjectRoleStudent,
		Token:       "tok-wrong",
		InvitedByID: inviter.ID,
		ExpiresAt:   time.Now().Add(InviteTTL),
	}
	if err := db.Create(&invite).Error; err != nil {
		t.Fatalf("create invite: %v", err)
	}

	bob := createTestUser(t, db, "bob@school.edu", models.GlobalRoleStudent)

	_, err := svc.AcceptInvite("tok-wrong", bob.ID)
	var appErr *response.AppError
	if !errors.As(err, &appErr) || appErr.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for mismatched account, got %v", err)
	}

	// The invite must stay live for its addressee.
	var reloaded models.ProjectInvite
	db.First(&reloaded, invite.ID)
	if reloaded.Used() {
		t.Error("rejected accept must not consume the invite")
	}
}

func TestReinviteExistingMember(t *testing.T) {
	db := newTestDB(t)
	svc := newInviteTestService(db)

	inviter := createTestUser(t, db, "leader@school.edu", models.GlobalRoleStudent)
	project := createTestProject(t, db, inviter, "Compilers", nil)
	addTestMember(t, db, project.ID, inviter.ID, models.ProjectRoleTeamLeader)

	charlie := createTestUser(t, db, "charlie@school.edu", models.GlobalRoleStudent)
	addTestMember(t, db, project.ID, charlie.ID, models.ProjectRoleStudent)

	// Same role again is a no-op the inviter should hear about.
	_, err := svc.CreateOrUpdateMembership(project.ID, charlie.Email, models.ProjectRoleStudent, inviter.ID)
	var appErr *response.AppError
	if !errors.As(err, &appErr) || appErr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for same-role re-invite, got %v", err)
	}

	// A different role updates the membership in place.
	result, err := svc.CreateOrUpdateMembership(project.ID, charlie.Email, models.ProjectRoleTeamLeader, inviter.ID)
	if err != nil {
		t.Fatalf("CreateOrUpdateMembership: %v", err)
	}
	if !result.Updated {
		t.Error("role change should report updated")
	}

	var member models.ProjectMember
	db.Where("project_id = ? AND user_id = ?", project.ID, charlie.ID).First(&member)
	if member.Role != models.ProjectRoleTeamLeader {
		t.Errorf("role = %s, want TEAM_LEADER", member.Role)
	}
}

func TestConsumePendingInvitesOnSignupIdempotent(t *testing.T) {
	db := newTestDB(t)
	svc := newInviteTestService(db)

	inviter := createTestUser(t, db, "leader@school.edu", models.GlobalRoleStudent)
	project := createTestProject(t, db, inviter, "Compilers", nil)

	invite := models.ProjectInvite{
		ProjectID:   project.ID,
		Email:       "new@school.edu",
		Role:        models.ProjectRoleStudent,
		Token:       "tok-signup",
		InvitedByID: inviter.ID,
		ExpiresAt:   time.Now().Add(InviteTTL),
	}
	if err := db.Create(&invite).Error; err != nil {
		t.Fatalf("create invite: %v", err)
	}

	user := createTestUser(t, db, "new@school.edu", models.GlobalRoleStudent)

	// A retried signup runs consumption twice; the second pass must find
	// nothing live and leave exactly one membership.
	for i := 0; i < 2; i++ {
		if err := svc.ConsumePendingInvitesOnSignup(user.ID, user.Email); err != nil {
			t.Fatalf("pass %d: %v", i+1, err)
		}
	}

	var memberCount int64
	db.Model(&models.ProjectMember{}).
		Where("project_id = ? AND user_id = ?", project.ID, user.ID).
		Count(&memberCount)
	if memberCount != 1 {
		t.Errorf("memberships = %d, want 1", memberCount)
	}

	var reloaded models.ProjectInvite
	db.First(&reloaded, invite.ID)
	if !reloaded.Used() {
		t.Error("consumed invite should be marked used")
	}
}
