package repository

import (
	"context"

	"helperhub/internal/database"
	"helperhub/internal/database/postgres"
	"helperhub/internal/domain/review"

	"github.com/google/uuid"
)

const reviewColumns = `id, job_seeker_id, reviewer_id, reviewer_name, rating, comment, created_at`

type PostgresReviewRepository struct {
	db database.DB
}

func NewPostgresReviewRepository(db database.DB) *PostgresReviewRepository {
	return &PostgresReviewRepository{db: db}
}

func (r *PostgresReviewRepository) Append(ctx context.Context, rv review.Review) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO reviews (`+reviewColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		rv.ID, rv.JobSeekerID, rv.ReviewerID, rv.ReviewerName, rv.Rating, rv.Comment, rv.CreatedAt.UTC(),
	)
	if postgres.IsForeignKeyViolation(err) {
		return review.ErrNotFound
	}
	return err
}

func (r *PostgresReviewRepository) ListByJobSeeker(ctx context.Context, jobSeekerID uuid.UUID) ([]review.Review, error) {
	byID, err := r.ListByJobSeekers(ctx, []uuid.UUID{jobSeekerID})
	if err != nil {
		return nil, err
	}
	out := byID[jobSeekerID]
	if out == nil {
		out = []review.Review{}
	}
	return out, nil
}

func (r *PostgresReviewRepository) ListByJobSeekers(ctx context.Context, jobSeekerIDs []uuid.UUID) (map[uuid.UUID][]review.Review, error) {
	out := make(map[uuid.UUID][]review.Review, len(jobSeekerIDs))
	if len(jobSeekerIDs) == 0 {
		return out, nil
	}

	ids := make([]string, 0, len(jobSeekerIDs))
	for _, id := range jobSeekerIDs {
		ids = append(ids, id.String())
	}

	rows, err := r.db.Query(ctx,
		`SELECT `+reviewColumns+`
		 FROM reviews
		 WHERE job_seeker_id = ANY($1::uuid[])
		 ORDER BY job_seeker_id, created_at DESC, id ASC`,
		ids,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var rv review.Review
		var rating int16
		if err := rows.Scan(&rv.ID, &rv.JobSeekerID, &rv.ReviewerID, &rv.ReviewerName, &rating, &rv.Comment, &rv.CreatedAt); err != nil {
			return nil, err
		}
		rv.Rating = int(rating)
		out[rv.JobSeekerID] = append(out[rv.JobSeekerID], rv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
