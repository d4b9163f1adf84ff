package matching

import (
	"slices"

	"helperhub/internal/domain/catalog"
	"helperhub/internal/domain/profile"
	"helperhub/internal/domain/review"

	"github.com/google/uuid"
)

type Query struct {
	ServiceType catalog.ServiceType
	Category    string
}

type Provider struct {
	Profile       profile.Profile
	Reviews       []review.Review
	ReviewCount   int
	AverageRating float64
}

// Eligible reports whether p can be offered for the service type. Every
// service type currently shares the house predicate.
func Eligible(p profile.Profile, _ catalog.ServiceType) bool {
	return p.IsJobSeeker() && len(p.SelectedCategories) > 0
}

func MatchesCategory(p profile.Profile, category string) bool {
	if category == "" || category == catalog.All {
		return true
	}
	return slices.Contains(p.SelectedCategories, category)
}

// FindProviders filters profiles for q and attaches ratings. The input order
// is kept; results are not ranked.
func FindProviders(profiles []profile.Profile, reviews map[uuid.UUID][]review.Review, q Query) []Provider {
	out := make([]Provider, 0, len(profiles))
	for _, p := range profiles {
		if !Eligible(p, q.ServiceType) {
			continue
		}
		if !MatchesCategory(p, q.Category) {
			continue
		}
		out = append(out, NewProvider(p, reviews[p.UserID]))
	}
	return out
}

func NewProvider(p profile.Profile, reviews []review.Review) Provider {
	if reviews == nil {
		reviews = []review.Review{}
	}
	return Provider{
		Profile:       p,
		Reviews:       reviews,
		ReviewCount:   len(reviews),
		AverageRating: review.AverageRating(reviews),
	}
}
