package dto

import (
	"helperhub/internal/domain/catalog"
	"helperhub/internal/domain/matching"

	"github.com/google/uuid"
)

// ProviderResponse is the public provider card. Contact details other than
// the name stay private until a request is made.
type ProviderResponse struct {
	UserID          uuid.UUID        `json:"userId"`
	FirstName       string           `json:"firstName"`
	LastName        string           `json:"lastName"`
	City            string           `json:"city"`
	State           string           `json:"state"`
	Bio             string           `json:"bio"`
	ProfileImage    string           `json:"profileImage"`
	ExperienceLevel string           `json:"experienceLevel,omitempty"`
	Categories      []catalog.Entry  `json:"categories"`
	Reviews         []ReviewResponse `json:"reviews"`
	ReviewCount     int              `json:"reviewCount"`
	AverageRating   float64          `json:"averageRating"`
}

// NewProviderResponse keeps at most maxReviews reviews; zero keeps all.
func NewProviderResponse(p matching.Provider, maxReviews int) ProviderResponse {
	reviews := p.Reviews
	if maxReviews > 0 && len(reviews) > maxReviews {
		reviews = reviews[:maxReviews]
	}

	cats := make([]catalog.Entry, 0, len(p.Profile.SelectedCategories))
	for _, id := range p.Profile.SelectedCategories {
		cats = append(cats, catalog.Entry{ID: id, Name: catalog.CategoryName(id)})
	}

	return ProviderResponse{
		UserID:          p.Profile.UserID,
		FirstName:       p.Profile.FirstName,
		LastName:        p.Profile.LastName,
		City:            p.Profile.City,
		State:           p.Profile.State,
		Bio:             p.Profile.Bio,
		ProfileImage:    p.Profile.ProfileImage,
		ExperienceLevel: p.Profile.ExperienceLevel,
		Categories:      cats,
		Reviews:         NewReviewResponses(reviews),
		ReviewCount:     p.ReviewCount,
		AverageRating:   p.AverageRating,
	}
}

func NewProviderResponses(ps []matching.Provider, maxReviews int) []ProviderResponse {
	out := make([]ProviderResponse, 0, len(ps))
	for _, p := range ps {
		out = append(out, NewProviderResponse(p, maxReviews))
	}
	return out
}
