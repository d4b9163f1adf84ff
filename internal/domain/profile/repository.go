package profile

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (Profile, error)
	// Merge creates the record if needed and writes only the fields present
	// in patch. It returns the stored record after the write.
	Merge(ctx context.Context, userID uuid.UUID, patch Patch, at time.Time) (Profile, error)
	// ListJobSeekers returns job seeker profiles in creation order. A category
	// of catalog.All returns every job seeker.
	ListJobSeekers(ctx context.Context, category string) ([]Profile, error)
}
