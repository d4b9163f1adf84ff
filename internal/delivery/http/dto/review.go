package dto

import (
	"time"

	"helperhub/internal/domain/review"

	"github.com/google/uuid"
)

type AddReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

type ReviewResponse struct {
	ID           uuid.UUID `json:"id"`
	JobSeekerID  uuid.UUID `json:"jobSeekerId"`
	ReviewerID   uuid.UUID `json:"reviewerId"`
	ReviewerName string    `json:"reviewerName"`
	Rating       int       `json:"rating"`
	Comment      string    `json:"comment"`
	CreatedAt    time.Time `json:"createdAt"`
}

func NewReviewResponse(r review.Review) ReviewResponse {
	return ReviewResponse{
		ID:           r.ID,
		JobSeekerID:  r.JobSeekerID,
		ReviewerID:   r.ReviewerID,
		ReviewerName: r.ReviewerName,
		Rating:       r.Rating,
		Comment:      r.Comment,
		CreatedAt:    r.CreatedAt,
	}
}

func NewReviewResponses(rs []review.Review) []ReviewResponse {
	out := make([]ReviewResponse, 0, len(rs))
	for _, r := range rs {
		out = append(out, NewReviewResponse(r))
	}
	return out
}
