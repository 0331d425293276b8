package services

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/draytht/nocarry/internal/models"
	"github.com/draytht/nocarry/internal/types"
	"github.com/draytht/nocarry/pkg/response"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// UserService manages profile data outside the credential path.
type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// UpdateProfileRequest carries partial profile updates. Absent fields stay
// unchanged; explicit nulls clear nullable fields.
type UpdateProfileRequest struct {
	Name          types.Optional[string]    `json:"name"`
	PreferredName types.Optional[string]    `json:"preferred_name"`
	Bio           types.Optional[string]    `json:"bio"`
	School        types.Optional[string]    `json:"school"`
	Major         types.Optional[string]    `json:"major"`
	AvatarURL     types.Optional[string]    `json:"avatar_url"`
	GithubURL     types.Optional[string]    `json:"github_url"`
	LinkedinURL   types.Optional[string]    `json:"linkedin_url"`
	PersonalLinks types.Optional[[]string]  `json:"personal_links"`
	Status        types.Optional[string]    `json:"status"`
	StatusExpires types.Optional[time.Time] `json:"status_expires_at"`
}

// UpdateProfile applies a PATCH to the caller's own profile.
func (s *UserService) UpdateProfile(userID uint, req *UpdateProfileRequest) (*models.User, error) {
	var user models.User
	err := s.db.First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, response.NewNotFound("user not found")
	}
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}

	if req.Name.Set {
		if req.Name.Value == nil || *req.Name.Value == "" {
			return nil, response.NewBadRequest("name cannot be empty")
		}
		updates["name"] = *req.Name.Value
	}
	if req.PreferredName.Set {
		updates["preferred_name"] = req.PreferredName.Value
	}
	if req.Bio.Set {
		updates["bio"] = stringOrEmpty(req.Bio.Value)
	}
	if req.School.Set {
		updates["school"] = stringOrEmpty(req.School.Value)
	}
	if req.Major.Set {
		updates["major"] = stringOrEmpty(req.Major.Value)
	}
	if req.AvatarURL.Set {
		updates["avatar_url"] = stringOrEmpty(req.AvatarURL.Value)
	}
	if req.GithubURL.Set {
		updates["github_url"] = stringOrEmpty(req.GithubURL.Value)
	}
	if req.LinkedinURL.Set {
		updates["linkedin_url"] = stringOrEmpty(req.LinkedinURL.Value)
	}
	if req.PersonalLinks.Set {
		if req.PersonalLinks.Value == nil {
			updates["personal_links"] = nil
		} else {
			raw, err := json.Marshal(*req.PersonalLinks.Value)
			if err != nil {
				return nil, response.NewBadRequest("invalid personal links")
			}
			updates["personal_links"] = datatypes.JSON(raw)
		}
	}
	if req.Status.Set {
		updates["status"] = req.Status.Value
	}
	if req.StatusExpires.Set {
		updates["status_expires_at"] = req.StatusExpires.Value
	}

	if len(updates) == 0 {
		return nil, response.NewBadRequest("no fields to update")
	}

	if err := s.db.Model(&user).Updates(updates).Error; err != nil {
		return nil, err
	}

	s.db.First(&user, userID)
	return &user, nil
}

func stringOrEmpty(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
