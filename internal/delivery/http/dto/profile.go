package dto

import (
	"time"

	"helperhub/internal/domain/profile"

	"github.com/google/uuid"
)

type ProfileResponse struct {
	UserID             uuid.UUID `json:"userId"`
	FirstName          string    `json:"firstName"`
	LastName           string    `json:"lastName"`
	Email              string    `json:"email"`
	Phone              string    `json:"phone"`
	Address            string    `json:"address"`
	City               string    `json:"city"`
	State              string    `json:"state"`
	Zip                string    `json:"zip"`
	Bio                string    `json:"bio"`
	Role               string    `json:"role"`
	ProfileImage       string    `json:"profileImage"`
	SelectedCategories []string  `json:"selectedCategories"`
	ExperienceLevel    string    `json:"experienceLevel,omitempty"`
	Complete           bool      `json:"complete"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// SaveProfileRequest is a partial update; omitted fields keep their value.
type SaveProfileRequest struct {
	FirstName          *string  `json:"firstName"`
	LastName           *string  `json:"lastName"`
	Phone              *string  `json:"phone"`
	Address            *string  `json:"address"`
	City               *string  `json:"city"`
	State              *string  `json:"state"`
	Zip                *string  `json:"zip"`
	Bio                *string  `json:"bio"`
	SelectedCategories []string `json:"selectedCategories"`
	ExperienceLevel    *string  `json:"experienceLevel"`
}

// Patch drops email and role; both are owned by the session.
func (r SaveProfileRequest) Patch() profile.Patch {
	return profile.Patch{
		FirstName:          r.FirstName,
		LastName:           r.LastName,
		Phone:              r.Phone,
		Address:            r.Address,
		City:               r.City,
		State:              r.State,
		Zip:                r.Zip,
		Bio:                r.Bio,
		SelectedCategories: r.SelectedCategories,
		ExperienceLevel:    r.ExperienceLevel,
	}
}

func NewProfileResponse(p profile.Profile) ProfileResponse {
	cats := p.SelectedCategories
	if cats == nil {
		cats = []string{}
	}
	return ProfileResponse{
		UserID:             p.UserID,
		FirstName:          p.FirstName,
		LastName:           p.LastName,
		Email:              p.Email,
		Phone:              p.Phone,
		Address:            p.Address,
		City:               p.City,
		State:              p.State,
		Zip:                p.Zip,
		Bio:                p.Bio,
		Role:               string(p.Role),
		ProfileImage:       p.ProfileImage,
		SelectedCategories: cats,
		ExperienceLevel:    p.ExperienceLevel,
		Complete:           p.IsComplete(),
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
	}
}
