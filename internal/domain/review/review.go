package review

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	MinRating = 1
	MaxRating = 5
)

var (
	ErrRatingOutOfRange = errors.New("rating must be between 1 and 5")
	ErrSelfReview       = errors.New("cannot review yourself")
	ErrNotFound         = errors.New("reviewed job seeker not found")
)

type Review struct {
	ID           uuid.UUID
	JobSeekerID  uuid.UUID
	ReviewerID   uuid.UUID
	ReviewerName string
	Rating       int
	Comment      string
	CreatedAt    time.Time
}

func (r Review) Validate() error {
	if r.Rating < MinRating || r.Rating > MaxRating {
		return ErrRatingOutOfRange
	}
	if r.ReviewerID == r.JobSeekerID {
		return ErrSelfReview
	}
	return nil
}

func (r Review) Normalize() Review {
	r.ReviewerName = strings.TrimSpace(r.ReviewerName)
	r.Comment = strings.TrimSpace(r.Comment)
	return r
}

// AverageRating is the mean rating rounded to one decimal; 0 for none.
func AverageRating(reviews []Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	sum := 0
	for _, r := range reviews {
		sum += r.Rating
	}
	mean := float64(sum) / float64(len(reviews))
	return math.Round(mean*10) / 10
}

type Repository interface {
	Append(ctx context.Context, r Review) error
	ListByJobSeeker(ctx context.Context, jobSeekerID uuid.UUID) ([]Review, error)
	// ListByJobSeekers groups reviews by job seeker, newest first.
	ListByJobSeekers(ctx context.Context, jobSeekerIDs []uuid.UUID) (map[uuid.UUID][]Review, error)
}
