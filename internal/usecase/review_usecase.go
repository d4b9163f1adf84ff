package usecase

import (
	"context"
	"errors"
	"log"
	"time"

	"helperhub/internal/domain/profile"
	"helperhub/internal/domain/review"
	"helperhub/internal/domain/user"

	"github.com/google/uuid"
)

type ReviewInput struct {
	JobSeekerID uuid.UUID
	Rating      int
	Comment     string
}

type ReviewUsecase struct {
	reviews  review.Repository
	profiles ProfileReader
	sessions *SessionResolver
	cache    ProviderCache
	now      func() time.Time
	logger   *log.Logger
}

func NewReviewUsecase(reviews review.Repository, profiles ProfileReader, sessions *SessionResolver, cache ProviderCache, logger *log.Logger) *ReviewUsecase {
	return &ReviewUsecase{reviews: reviews, profiles: profiles, sessions: sessions, cache: cache, now: time.Now, logger: logger}
}

// Add appends a review written by an employer about a job seeker.
func (u *ReviewUsecase) Add(ctx context.Context, id user.Identity, in ReviewInput) (review.Review, error) {
	if _, err := u.sessions.Require(ctx, id, user.RoleEmployer); err != nil {
		return review.Review{}, err
	}

	target, err := u.profiles.GetByUserID(ctx, in.JobSeekerID)
	if err != nil {
		if errors.Is(err, profile.ErrNotFound) {
			return review.Review{}, ErrNotFound
		}
		return review.Review{}, unavailable("load provider", err)
	}
	if !target.IsJobSeeker() {
		return review.Review{}, ErrNotFound
	}

	r := review.Review{
		ID:           uuid.New(),
		JobSeekerID:  in.JobSeekerID,
		ReviewerID:   id.ID,
		ReviewerName: u.reviewerName(ctx, id),
		Rating:       in.Rating,
		Comment:      in.Comment,
		CreatedAt:    u.now().UTC(),
	}.Normalize()
	if err := r.Validate(); err != nil {
		return review.Review{}, invalid(err)
	}

	if err := u.reviews.Append(ctx, r); err != nil {
		if errors.Is(err, review.ErrNotFound) {
			return review.Review{}, ErrNotFound
		}
		return review.Review{}, unavailable("save review", err)
	}

	if u.cache != nil {
		if err := invalidateProviders(ctx, u.cache); err != nil && u.logger != nil {
			u.logger.Printf("[Review] cache invalidation failed job_seeker_id=%s err=%v", in.JobSeekerID, err)
		}
	}
	return r, nil
}

func (u *ReviewUsecase) List(ctx context.Context, jobSeekerID uuid.UUID) ([]review.Review, error) {
	out, err := u.reviews.ListByJobSeeker(ctx, jobSeekerID)
	if err != nil {
		return nil, unavailable("load reviews", err)
	}
	return out, nil
}

func (u *ReviewUsecase) reviewerName(ctx context.Context, id user.Identity) string {
	if p, err := u.profiles.GetByUserID(ctx, id.ID); err == nil && p.FullName() != "" {
		return p.FullName()
	}
	if id.DisplayName != "" {
		return id.DisplayName
	}
	return "Employer"
}
