package repository

import (
	"context"

	"helperhub/internal/database"
	"helperhub/internal/database/postgres"
	"helperhub/internal/domain/business"
	"helperhub/internal/domain/catalog"

	"github.com/google/uuid"
)

const businessColumns = `user_id, company_name, business_type, location, description, created_at, updated_at`

type PostgresBusinessInfoRepository struct {
	db database.DB
}

func NewPostgresBusinessInfoRepository(db database.DB) *PostgresBusinessInfoRepository {
	return &PostgresBusinessInfoRepository{db: db}
}

func (r *PostgresBusinessInfoRepository) Get(ctx context.Context, userID uuid.UUID) (business.Info, error) {
	row := r.db.QueryRow(ctx, `SELECT `+businessColumns+` FROM business_info WHERE user_id = $1`, userID)
	info, err := scanBusinessInfo(row)
	if err != nil {
		if postgres.IsNoRows(err) {
			return business.Info{}, business.ErrNotFound
		}
		return business.Info{}, err
	}
	return info, nil
}

// Replace overwrites every column except created_at.
func (r *PostgresBusinessInfoRepository) Replace(ctx context.Context, info business.Info) (business.Info, error) {
	row := r.db.QueryRow(ctx,
		`INSERT INTO business_info (user_id, company_name, business_type, location, description, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (user_id) DO UPDATE SET
			company_name = EXCLUDED.company_name,
			business_type = EXCLUDED.business_type,
			location = EXCLUDED.location,
			description = EXCLUDED.description,
			updated_at = EXCLUDED.updated_at
		 RETURNING `+businessColumns,
		info.UserID, info.CompanyName, string(info.BusinessType), info.Location, info.Description,
		info.CreatedAt.UTC(), info.UpdatedAt.UTC(),
	)
	return scanBusinessInfo(row)
}

func scanBusinessInfo(row database.Row) (business.Info, error) {
	var info business.Info
	var bt string
	if err := row.Scan(&info.UserID, &info.CompanyName, &bt, &info.Location, &info.Description, &info.CreatedAt, &info.UpdatedAt); err != nil {
		return business.Info{}, err
	}
	info.BusinessType = catalog.BusinessType(bt)
	return info, nil
}
