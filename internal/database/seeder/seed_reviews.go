package seeder

import (
	"context"

	"helperhub/internal/database"

	"github.com/google/uuid"
)

var demoReviews = []struct {
	JobSeekerEmail string
	ReviewerEmail  string
	Rating         int
	Comment        string
}{
	{JobSeekerEmail: "ana@helperhub.dev", ReviewerEmail: "employer@helperhub.dev", Rating: 5, Comment: "Excellent service, very professional!"},
	{JobSeekerEmail: "ana@helperhub.dev", ReviewerEmail: "family@helperhub.dev", Rating: 4, Comment: "Reliable and punctual."},
	{JobSeekerEmail: "li@helperhub.dev", ReviewerEmail: "employer@helperhub.dev", Rating: 5, Comment: "The kids loved her."},
	{JobSeekerEmail: "sam@helperhub.dev", ReviewerEmail: "family@helperhub.dev", Rating: 3, Comment: "Good work, a bit slow."},
}

// ReviewsSeeder adds demo reviews once; it is a no-op when any review exists.
type ReviewsSeeder struct{}

func (ReviewsSeeder) Name() string { return "reviews" }

func (ReviewsSeeder) Run(ctx context.Context, db database.DB) error {
	if err := requireColumns(ctx, db, columnSet{
		"reviews": {"id", "job_seeker_id", "reviewer_id", "reviewer_name", "rating", "comment"},
	}); err != nil {
		return err
	}

	var existing int
	if err := db.QueryRow(ctx, `SELECT COUNT(*) FROM reviews`).Scan(&existing); err != nil {
		return err
	}
	if existing > 0 {
		return nil
	}

	return database.WithTx(ctx, db, func(tx database.Tx) error {
		for _, r := range demoReviews {
			_, err := tx.Exec(
				ctx,
				`INSERT INTO reviews (id, job_seeker_id, reviewer_id, reviewer_name, rating, comment)
				 SELECT $1, js.id, rv.id, rv.display_name, $2, $3
				 FROM users js, users rv
				 WHERE js.email = $4 AND rv.email = $5`,
				uuid.New(), r.Rating, r.Comment, r.JobSeekerEmail, r.ReviewerEmail,
			)
			if err != nil {
				return err
			}
		}
		return nil
	})
}
