package repository

import (
	"context"
	"time"

	"helperhub/internal/database"
	"helperhub/internal/database/postgres"
	"helperhub/internal/domain/catalog"
	"helperhub/internal/domain/profile"
	"helperhub/internal/domain/user"

	"github.com/google/uuid"
)

const profileColumns = `user_id, first_name, last_name, email, phone, address, city, state, zip, bio,
	role, profile_image, selected_categories, experience_level, created_at, updated_at`

type PostgresProfileRepository struct {
	db database.DB
}

func NewPostgresProfileRepository(db database.DB) *PostgresProfileRepository {
	return &PostgresProfileRepository{db: db}
}

func (r *PostgresProfileRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (profile.Profile, error) {
	row := r.db.QueryRow(ctx, `SELECT `+profileColumns+` FROM profiles WHERE user_id = $1`, userID)
	p, err := scanProfile(row)
	if err != nil {
		if postgres.IsNoRows(err) {
			return profile.Profile{}, profile.ErrNotFound
		}
		return profile.Profile{}, err
	}
	return p, nil
}

// Merge upserts the profile. NULL parameters keep the stored column value.
func (r *PostgresProfileRepository) Merge(ctx context.Context, userID uuid.UUID, pt profile.Patch, at time.Time) (profile.Profile, error) {
	var role *string
	if pt.Role != nil {
		v := string(*pt.Role)
		role = &v
	}

	row := r.db.QueryRow(ctx,
		`INSERT INTO profiles (user_id, first_name, last_name, email, phone, address, city, state, zip, bio,
			role, profile_image, selected_categories, experience_level, created_at, updated_at)
		 VALUES ($1, COALESCE($2::text, ''), COALESCE($3::text, ''), COALESCE($4::text, ''), COALESCE($5::text, ''),
			COALESCE($6::text, ''), COALESCE($7::text, ''), COALESCE($8::text, ''), COALESCE($9::text, ''), COALESCE($10::text, ''),
			$11::text, COALESCE($12::text, ''), COALESCE($13::text[], '{}'), COALESCE($14::text, ''), $15, $15)
		 ON CONFLICT (user_id) DO UPDATE SET
			first_name = COALESCE($2::text, profiles.first_name),
			last_name = COALESCE($3::text, profiles.last_name),
			email = COALESCE($4::text, profiles.email),
			phone = COALESCE($5::text, profiles.phone),
			address = COALESCE($6::text, profiles.address),
			city = COALESCE($7::text, profiles.city),
			state = COALESCE($8::text, profiles.state),
			zip = COALESCE($9::text, profiles.zip),
			bio = COALESCE($10::text, profiles.bio),
			role = COALESCE($11::text, profiles.role),
			profile_image = COALESCE($12::text, profiles.profile_image),
			selected_categories = COALESCE($13::text[], profiles.selected_categories),
			experience_level = COALESCE($14::text, profiles.experience_level),
			updated_at = $15
		 RETURNING `+profileColumns,
		userID,
		pt.FirstName, pt.LastName, pt.Email, pt.Phone,
		pt.Address, pt.City, pt.State, pt.Zip, pt.Bio,
		role, pt.ProfileImage, pt.SelectedCategories, pt.ExperienceLevel,
		at.UTC(),
	)
	return scanProfile(row)
}

func (r *PostgresProfileRepository) ListJobSeekers(ctx context.Context, category string) ([]profile.Profile, error) {
	query := `SELECT ` + profileColumns + `
		 FROM profiles
		 WHERE role = 'jobSeeker' AND cardinality(selected_categories) > 0`
	args := []any{}
	if category != "" && category != catalog.All {
		query += ` AND selected_categories @> ARRAY[$1]::text[]`
		args = append(args, category)
	}
	query += ` ORDER BY created_at ASC, user_id ASC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]profile.Profile, 0)
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanProfile(row database.Row) (profile.Profile, error) {
	var p profile.Profile
	var role string
	if err := row.Scan(
		&p.UserID, &p.FirstName, &p.LastName, &p.Email, &p.Phone,
		&p.Address, &p.City, &p.State, &p.Zip, &p.Bio,
		&role, &p.ProfileImage, &p.SelectedCategories, &p.ExperienceLevel,
		&p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return profile.Profile{}, err
	}
	p.Role = user.Role(role)
	if p.SelectedCategories == nil {
		p.SelectedCategories = []string{}
	}
	return p, nil
}
