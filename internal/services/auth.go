package services

import (
	"errors"
	"strings"
	"time"

	"github.com/draytht/nocarry/internal/config"
	"github.com/draytht/nocarry/internal/models"
	"github.com/draytht/nocarry/internal/utils"
	"github.com/draytht/nocarry/pkg/logger"
	"github.com/draytht/nocarry/pkg/response"
	"gorm.io/gorm"
)

type AuthService struct {
	db        *gorm.DB
	jwtConfig *config.JWTConfig
	invites   *InviteService
}

func NewAuthService(db *gorm.DB, jwtCfg *config.JWTConfig, invites *InviteService) *AuthService {
	return &AuthService{
		db:        db,
		jwtConfig: jwtCfg,
		invites:   invites,
	}
}

type RegisterRequest struct {
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required,min=8"`
	Name       string `json:"name" binding:"required"`
	GlobalRole string `json:"global_role"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResult struct {
	Token    string       `json:"token"`
	User     *models.User `json:"user"`
	ExpireAt time.Time    `json:"expire_at"`
}

// Register creates an account and immediately consumes any pending project
// invites addressed to the new account's email.
func (s *AuthService) Register(req *RegisterRequest) (*LoginResult, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	role := models.GlobalRoleStudent
	if req.GlobalRole != "" {
		role = models.GlobalRole(req.GlobalRole)
		if !role.Valid() {
			return nil, response.NewBadRequest("invalid role")
		}
	}

	var count int64
	if err := s.db.Model(&models.User{}).Where("LOWER(email) = ?", email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, response.NewBadRequest("an account with this email already exists")
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Email:      email,
		Password:   hashed,
		Name:       req.Name,
		GlobalRole: role,
	}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, err
	}

	// Invite consumption failures are logged, never surfaced: the account
	// exists either way and the invite link still works.
	if s.invites != nil {
		if err := s.invites.ConsumePendingInvitesOnSignup(user.ID, user.Email); err != nil {
			logger.Warn().Err(err).Str("email", user.Email).Msg("pending invite lookup failed during signup")
		}
	}

	return s.issueToken(&user)
}

// Login authenticates by email and password and returns a JWT.
func (s *AuthService) Login(req *LoginRequest) (*LoginResult, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	var user models.User
	err := s.db.Where("LOWER(email) = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, response.NewUnauthorized("invalid email or password")
	}
	if err != nil {
		return nil, err
	}

	if !utils.CheckPassword(req.Password, user.Password) {
		return nil, response.NewUnauthorized("invalid email or password")
	}

	return s.issueToken(&user)
}

func (s *AuthService) issueToken(user *models.User) (*LoginResult, error) {
	token, err := utils.GenerateToken(user.ID, user.Email, string(user.GlobalRole), s.jwtConfig.ExpireHour)
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		Token:    token,
		User:     user,
		ExpireAt: time.Now().Add(time.Duration(s.jwtConfig.ExpireHour) * time.Hour),
	}, nil
}

// GetUserByID retrieves a user by ID
func (s *AuthService) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("user not found")
		}
		return nil, err
	}
	return &user, nil
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

func (s *AuthService) ChangePassword(userID uint, req *ChangePasswordRequest) error {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return response.NewNotFound("user not found")
	}

	if !utils.CheckPassword(req.OldPassword, user.Password) {
		return response.NewBadRequest("incorrect old password")
	}

	hashed, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}

	user.Password = hashed
	return s.db.Save(&user).Error
}
