package profile

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/mood-space/core/internal/models"
)

const maxNameRunes = 64

var defaultEmoji = map[string]string{
	models.ProfileTypeHuman: "😎",
	models.ProfileTypePet:   "🐶",
}

type CreateProfileDTO struct {
	Name        string `json:"name"         binding:"required"`
	Type        string `json:"type"`
	AvatarEmoji string `json:"avatar_emoji"`
}

type profileResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Type        string    `json:"type"`
	AvatarEmoji string    `json:"avatar_emoji"`
	IsPrimary   bool      `json:"is_primary"`
	Created     time.Time `json:"created"`
}

func toResponse(p *models.SubProfileModel, primaryID string) profileResponse {
	return profileResponse{
		ID:          p.ID,
		Name:        p.Name,
		Type:        p.Type,
		AvatarEmoji: p.AvatarEmoji,
		IsPrimary:   p.ID == primaryID,
		Created:     p.CreatedAt,
	}
}

// buildProfile validates a create request and fills in the type and emoji defaults.
func buildProfile(accountID string, dto *CreateProfileDTO) (*models.SubProfileModel, error) {
	name := strings.TrimSpace(dto.Name)
	if name == "" || utf8.RuneCountInString(name) > maxNameRunes {
		return nil, ErrInvalidName
	}

	kind := strings.ToLower(strings.TrimSpace(dto.Type))
	if kind == "" {
		kind = models.ProfileTypeHuman
	}
	if _, ok := defaultEmoji[kind]; !ok {
		return nil, ErrInvalidType
	}

	emoji := strings.TrimSpace(dto.AvatarEmoji)
	if emoji == "" {
		emoji = defaultEmoji[kind]
	}

	return &models.SubProfileModel{
		AccountID:   accountID,
		Name:        name,
		Type:        kind,
		AvatarEmoji: emoji,
	}, nil
}

func defaultProfile(accountID string) *models.SubProfileModel {
	return &models.SubProfileModel{
		AccountID:   accountID,
		Name:        DefaultProfileName,
		Type:        models.ProfileTypeHuman,
		AvatarEmoji: defaultEmoji[models.ProfileTypeHuman],
	}
}

// pickPrimary prefers the first human profile, then the first profile of any kind.
func pickPrimary(profiles []models.SubProfileModel) *models.SubProfileModel {
	for i := range profiles {
		if profiles[i].IsHuman() {
			return &profiles[i]
		}
	}
	if len(profiles) > 0 {
		return &profiles[0]
	}
	return nil
}
