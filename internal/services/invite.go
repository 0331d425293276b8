package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/draytht/nocarry/internal/models"
	"github.com/draytht/nocarry/pkg/logger"
	"github.com/draytht/nocarry/pkg/response"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InviteTTL is how long a pending invite stays acceptable.
const InviteTTL = 7 * 24 * time.Hour

// InviteService reconciles pending email invites, account creation, and
// project membership. All mutation paths funnel through here so the
// consume-once guarantee lives in one place.
type InviteService struct {
	db      *gorm.DB
	queue   MailQueue
	baseURL string
}

func NewInviteService(db *gorm.DB, queue MailQueue, baseURL string) *InviteService {
	return &InviteService{db: db, queue: queue, baseURL: strings.TrimSuffix(baseURL, "/")}
}

// LookupResult answers "which project roles may this email be assigned?" for
// the invite form.
type LookupResult struct {
	Name                *string              `json:"name"`
	GlobalRole          *models.GlobalRole   `json:"global_role"`
	AllowedProjectRoles []models.ProjectRole `json:"allowed_project_roles"`
	NewUser             bool                 `json:"new_user"`
}

// LookupInvitee determines the assignable roles for an email address. A
// wholly new account may take any role pending signup.
func (s *InviteService) LookupInvitee(email string) (*LookupResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var user models.User
	err := s.db.Where("LOWER(email) = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &LookupResult{
			AllowedProjectRoles: AllRolesAssignable(),
			NewUser:             true,
		}, nil
	}
	if err != nil {
		return nil, err
	}

	return &LookupResult{
		Name:                &user.Name,
		GlobalRole:          &user.GlobalRole,
		AllowedProjectRoles: AllowedProjectRoles(user.GlobalRole),
		NewUser:             false,
	}, nil
}

// InviteResult is the outcome of CreateOrUpdateMembership.
type InviteResult struct {
	Name    string `json:"name,omitempty"`
	Updated bool   `json:"updated,omitempty"`
	Invited bool   `json:"invited,omitempty"`
	Email   string `json:"email,omitempty"`
	Link    string `json:"link,omitempty"`
}

// CreateOrUpdateMembership handles an invite request for an email address.
// Existing accounts are added (or have their role updated) immediately;
// unknown addresses get a pending invite with a fresh token, reusing a live
// one when present.
func (s *InviteService) CreateOrUpdateMembership(projectID uint, email string, requestedRole models.ProjectRole, inviterID uint) (*InviteResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !requestedRole.Valid() {
		requestedRole = models.ProjectRoleStudent
	}

	var project models.Project
	if err := s.db.First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("project not found")
		}
		return nil, err
	}

	var inviter models.User
	if err := s.db.First(&inviter, inviterID).Error; err != nil {
		return nil, err
	}

	var invitee models.User
	err := s.db.Where("LOWER(email) = ?", email).First(&invitee).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if err == nil {
		return s.addExistingUser(projectID, &invitee, requestedRole, inviterID)
	}
	return s.createPendingInvite(&project, email, requestedRole, &inviter)
}

func (s *InviteService) addExistingUser(projectID uint, invitee *models.User, role models.ProjectRole, inviterID uint) (*InviteResult, error) {
	if !RoleAssignable(invitee.GlobalRole, role) {
		return nil, response.NewBadRequest(fmt.Sprintf(
			"a %s cannot be assigned the %q project role",
			strings.ToLower(string(invitee.GlobalRole)), role))
	}

	var existing models.ProjectMember
	err := s.db.Where("project_id = ? AND user_id = ?", projectID, invitee.ID).First(&existing).Error
	if err == nil {
		if existing.Role == role {
			return nil, response.NewBadRequest("already a member with that role")
		}
		existing.Role = role
		if err := s.db.Save(&existing).Error; err != nil {
			return nil, err
		}
		return &InviteResult{Name: invitee.Name, Updated: true}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		member := models.ProjectMember{ProjectID: projectID, UserID: invitee.ID, Role: role}
		if err := tx.Create(&member).Error; err != nil {
			return err
		}
		return RecordActivity(tx, inviterID, projectID, nil, models.ActionMemberInvited,
			map[string]interface{}{"invitee_email": invitee.Email})
	})
	if err != nil {
		return nil, err
	}

	return &InviteResult{Name: invitee.Name}, nil
}

func (s *InviteService) createPendingInvite(project *models.Project, email string, role models.ProjectRole, inviter *models.User) (*InviteResult, error) {
	now := time.Now()

	// Reuse a live pending invite for this (project, email) before minting
	// a new token.
	var invite models.ProjectInvite
	err := s.db.Where("project_id = ? AND email = ? AND used_at IS NULL AND expires_at > ?",
		project.ID, email, now).First(&invite).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		invite = models.ProjectInvite{
			ProjectID:   project.ID,
			Email:       email,
			Role:        role,
			Token:       uuid.NewString(),
			InvitedByID: inviter.ID,
			ExpiresAt:   now.Add(InviteTTL),
		}
		if err := s.db.Create(&invite).Error; err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	link := s.AcceptLink(invite.Token)

	// Delivery is best-effort: the link is always returned so the inviter
	// can share it when no email channel is configured.
	if err := s.queue.Enqueue(&InviteMail{
		To:          email,
		ProjectName: project.Name,
		InviterName: inviter.DisplayName(),
		RoleLabel:   invite.Role.Label(),
		AcceptURL:   link,
	}); err != nil {
		logger.Warn().Err(err).Str("email", email).Msg("invite mail dispatch failed")
	}

	return &InviteResult{Invited: true, Email: email, Link: link}, nil
}

// AcceptLink builds the public accept URL for a token.
func (s *InviteService) AcceptLink(token string) string {
	return s.baseURL + "/invite/" + token
}

// InvitePreview is the public (unauthenticated) view of an invite.
type InvitePreview struct {
	ProjectID   uint               `json:"project_id"`
	ProjectName string             `json:"project_name"`
	CourseCode  *string            `json:"course_code"`
	Role        models.ProjectRole `json:"role"`
	InviterName string             `json:"inviter_name"`
	Email       string             `json:"email"`
	ExpiresAt   time.Time          `json:"expires_at"`
}

// PreviewInvite returns invite details for the accept page. Consumed and
// expired invites answer 410 so the page can say why the link is dead.
func (s *InviteService) PreviewInvite(token string) (*InvitePreview, error) {
	invite, err := s.findByToken(s.db, token)
	if err != nil {
		return nil, err
	}
	if appErr := checkInviteUsable(invite, time.Now()); appErr != nil {
		return nil, appErr
	}

	preview := &InvitePreview{
		ProjectID: invite.ProjectID,
		Role:      invite.Role,
		Email:     invite.Email,
		ExpiresAt: invite.ExpiresAt,
	}
	if invite.Project != nil {
		preview.ProjectName = invite.Project.Name
		preview.CourseCode = invite.Project.CourseCode
	}
	if invite.InvitedBy != nil {
		preview.InviterName = invite.InvitedBy.DisplayName()
	}
	return preview, nil
}

// AcceptInvite consumes a token for the authenticated caller. Membership
// creation and the used_at flip happen in one transaction, and the flip is a
// conditional update so two concurrent accepts resolve to exactly one
// membership; the loser observes AlreadyUsed.
func (s *InviteService) AcceptInvite(token string, callerID uint) (uint, error) {
	var caller models.User
	if err := s.db.First(&caller, callerID).Error; err != nil {
		return 0, err
	}

	var projectID uint
	err := s.db.Transaction(func(tx *gorm.DB) error {
		invite, err := s.findByToken(tx, token)
		if err != nil {
			return err
		}
		if appErr := checkInviteUsable(invite, time.Now()); appErr != nil {
			return appErr
		}

		if !inviteEmailMatches(caller.Email, invite.Email) {
			return response.NewForbidden(fmt.Sprintf(
				"this invite was sent to %s; please sign in with that email", invite.Email))
		}

		if err := consumeInvite(tx, invite, caller.ID); err != nil {
			return err
		}

		projectID = invite.ProjectID
		return nil
	})
	if err != nil {
		return 0, err
	}
	return projectID, nil
}

// ConsumePendingInvitesOnSignup claims every live invite matching a freshly
// registered email. Mirrors AcceptInvite but is triggered by account
// creation; idempotent when signup is retried.
func (s *InviteService) ConsumePendingInvitesOnSignup(userID uint, email string) error {
	now := time.Now()

	var invites []models.ProjectInvite
	if err := s.db.Where("LOWER(email) = ? AND used_at IS NULL AND expires_at > ?", strings.ToLower(email), now).
		Find(&invites).Error; err != nil {
		return err
	}

	for i := range invites {
		invite := &invites[i]
		err := s.db.Transaction(func(tx *gorm.DB) error {
			return consumeInvite(tx, invite, userID)
		})
		if err != nil {
			// One bad invite should not block the rest of signup.
			logger.Error().Err(err).Uint("invite_id", invite.ID).Msg("failed to consume pending invite")
		}
	}
	return nil
}

func (s *InviteService) findByToken(tx *gorm.DB, token string) (*models.ProjectInvite, error) {
	var invite models.ProjectInvite
	err := tx.Where("token = ?", token).
		Preload("Project").
		Preload("InvitedBy").
		First(&invite).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, response.NewNotFound("invite not found")
	}
	if err != nil {
		return nil, err
	}
	return &invite, nil
}

// inviteEmailMatches compares the caller's email against the invite's
// address. Mailbox addresses are matched case-insensitively so a mixed-case
// login still claims its invite.
func inviteEmailMatches(callerEmail, inviteEmail string) bool {
	return strings.EqualFold(strings.TrimSpace(callerEmail), strings.TrimSpace(inviteEmail))
}

// checkInviteUsable maps invite state to the error taxonomy. Expiry is
// evaluated strictly against now; nothing is persisted for it.
func checkInviteUsable(invite *models.ProjectInvite, now time.Time) *response.AppError {
	if invite.Used() {
		return response.NewGone("this invite has already been used")
	}
	if invite.Expired(now) {
		return response.NewGone("this invite has expired")
	}
	return nil
}

// consumeInvite creates the membership (when absent) and flips used_at as a
// single logical unit inside the caller's transaction. The conditional
// UPDATE ... WHERE used_at IS NULL makes the database authoritative for the
// consume-once rule.
func consumeInvite(tx *gorm.DB, invite *models.ProjectInvite, userID uint) error {
	var existing models.ProjectMember
	err := tx.Where("project_id = ? AND user_id = ?", invite.ProjectID, userID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		member := models.ProjectMember{
			ProjectID: invite.ProjectID,
			UserID:    userID,
			Role:      invite.Role,
		}
		if err := tx.Create(&member).Error; err != nil {
			return err
		}
		if err := RecordActivity(tx, userID, invite.ProjectID, nil, models.ActionMemberInvited,
			map[string]interface{}{"invitee_email": invite.Email}); err != nil {
			return err
		}
	} else if err != nil {
		return err
	}

	res := tx.Model(&models.ProjectInvite{}).
		Where("id = ? AND used_at IS NULL", invite.ID).
		Update("used_at", time.Now())
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// Another request consumed it between our read and this update.
		return response.NewGone("this invite has already been used")
	}
	return nil
}
