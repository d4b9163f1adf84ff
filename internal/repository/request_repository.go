package repository

import (
	"context"
	"time"

	"helperhub/internal/database"
	"helperhub/internal/database/postgres"
	"helperhub/internal/domain/catalog"
	"helperhub/internal/domain/request"

	"github.com/google/uuid"
)

const requestColumns = `id, employer_id, job_seeker_id, service_type,
	employer_name, employer_email, employer_phone, job_seeker_name, job_seeker_categories,
	status, created_at, responded_at`

type PostgresRequestRepository struct {
	db database.DB
}

func NewPostgresRequestRepository(db database.DB) *PostgresRequestRepository {
	return &PostgresRequestRepository{db: db}
}

func (r *PostgresRequestRepository) Create(ctx context.Context, sr request.ServiceRequest) error {
	cats := sr.JobSeeker.Categories
	if cats == nil {
		cats = []string{}
	}
	_, err := r.db.Exec(ctx,
		`INSERT INTO service_requests (`+requestColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		sr.ID, sr.EmployerID, sr.JobSeekerID, string(sr.ServiceType),
		sr.Employer.Name, sr.Employer.Email, sr.Employer.Phone,
		sr.JobSeeker.Name, cats,
		string(sr.Status), sr.CreatedAt.UTC(), sr.RespondedAt,
	)
	return err
}

func (r *PostgresRequestRepository) GetByID(ctx context.Context, id uuid.UUID) (request.ServiceRequest, error) {
	row := r.db.QueryRow(ctx, `SELECT `+requestColumns+` FROM service_requests WHERE id = $1`, id)
	sr, err := scanRequest(row)
	if err != nil {
		if postgres.IsNoRows(err) {
			return request.ServiceRequest{}, request.ErrNotFound
		}
		return request.ServiceRequest{}, err
	}
	return sr, nil
}

func (r *PostgresRequestRepository) ListByEmployer(ctx context.Context, employerID uuid.UUID) ([]request.ServiceRequest, error) {
	return r.list(ctx, `employer_id`, employerID)
}

func (r *PostgresRequestRepository) ListByJobSeeker(ctx context.Context, jobSeekerID uuid.UUID) ([]request.ServiceRequest, error) {
	return r.list(ctx, `job_seeker_id`, jobSeekerID)
}

func (r *PostgresRequestRepository) list(ctx context.Context, column string, id uuid.UUID) ([]request.ServiceRequest, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+requestColumns+`
		 FROM service_requests
		 WHERE `+column+` = $1
		 ORDER BY created_at DESC, id ASC`,
		id,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]request.ServiceRequest, 0)
	for rows.Next() {
		sr, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sr)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresRequestRepository) UpdateStatusIfPending(ctx context.Context, id uuid.UUID, to request.Status, at time.Time) (bool, error) {
	affected, err := r.db.Exec(ctx,
		`UPDATE service_requests
		 SET status = $2, responded_at = $3
		 WHERE id = $1 AND status = 'pending'`,
		id, string(to), at.UTC(),
	)
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

func scanRequest(row database.Row) (request.ServiceRequest, error) {
	var sr request.ServiceRequest
	var st, status string
	if err := row.Scan(
		&sr.ID, &sr.EmployerID, &sr.JobSeekerID, &st,
		&sr.Employer.Name, &sr.Employer.Email, &sr.Employer.Phone,
		&sr.JobSeeker.Name, &sr.JobSeeker.Categories,
		&status, &sr.CreatedAt, &sr.RespondedAt,
	); err != nil {
		return request.ServiceRequest{}, err
	}
	sr.ServiceType = catalog.ServiceType(st)
	sr.Status = request.Status(status)
	if sr.JobSeeker.Categories == nil {
		sr.JobSeeker.Categories = []string{}
	}
	return sr, nil
}
