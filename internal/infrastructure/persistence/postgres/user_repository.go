package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	pgdb "helperhub/internal/database/postgres"
	"helperhub/internal/domain/user"

	"github.com/google/uuid"
)

// UserRepository keeps accounts and role buckets behind prepared statements
// on the database/sql bridge of the pool.
type UserRepository struct {
	db *sql.DB

	stmtGetByID       *sql.Stmt
	stmtGetByEmail    *sql.Stmt
	stmtFindEmployer  *sql.Stmt
	stmtFindJobSeeker *sql.Stmt
}

func NewUserRepository(ctx context.Context, db *sql.DB) (*UserRepository, error) {
	if db == nil {
		return nil, errors.New("nil db")
	}
	r := &UserRepository{db: db}

	prepare := func(dst **sql.Stmt, query string) error {
		s, err := db.PrepareContext(ctx, query)
		if err != nil {
			return err
		}
		*dst = s
		return nil
	}

	const userCols = `id, email, password_hash, display_name, phone, created_at, updated_at`
	const bucketCols = `user_id, name, email, phone, created_at`

	for _, p := range []struct {
		dst   **sql.Stmt
		query string
	}{
		{&r.stmtGetByID, `SELECT ` + userCols + ` FROM users WHERE id = $1`},
		{&r.stmtGetByEmail, `SELECT ` + userCols + ` FROM users WHERE email = $1`},
		{&r.stmtFindEmployer, `SELECT ` + bucketCols + ` FROM employers WHERE user_id = $1`},
		{&r.stmtFindJobSeeker, `SELECT ` + bucketCols + ` FROM job_seekers WHERE user_id = $1`},
	} {
		if err := prepare(p.dst, p.query); err != nil {
			_ = r.Close()
			return nil, err
		}
	}

	return r, nil
}

func (r *UserRepository) Close() error {
	var firstErr error
	for _, s := range []*sql.Stmt{r.stmtGetByID, r.stmtGetByEmail, r.stmtFindEmployer, r.stmtFindJobSeeker} {
		if s == nil {
			continue
		}
		if err := s.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (r *UserRepository) CreateWithRegistration(ctx context.Context, u user.User, reg user.Registration) error {
	bucket, err := bucketTable(reg.Role)
	if err != nil {
		return err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO users (id, email, password_hash, display_name, phone, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $6)`,
		u.ID, u.Email, u.PasswordHash, u.DisplayName, u.Phone, u.CreatedAt,
	)
	if err != nil {
		if pgdb.IsUniqueViolation(err) {
			return user.ErrEmailTaken
		}
		return err
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO `+bucket+` (user_id, name, email, phone, created_at) VALUES ($1, $2, $3, $4, $5)`,
		u.ID, reg.Name, reg.Email, reg.Phone, reg.CreatedAt,
	)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (user.User, error) {
	return scanUser(r.stmtGetByID.QueryRowContext(ctx, id))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (user.User, error) {
	return scanUser(r.stmtGetByEmail.QueryRowContext(ctx, email))
}

func (r *UserRepository) FindRegistration(ctx context.Context, role user.Role, userID uuid.UUID) (user.Registration, error) {
	var stmt *sql.Stmt
	switch role {
	case user.RoleEmployer:
		stmt = r.stmtFindEmployer
	case user.RoleJobSeeker:
		stmt = r.stmtFindJobSeeker
	default:
		return user.Registration{}, fmt.Errorf("unknown role %q", role)
	}

	reg := user.Registration{Role: role}
	err := stmt.QueryRowContext(ctx, userID).Scan(&reg.UserID, &reg.Name, &reg.Email, &reg.Phone, &reg.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return user.Registration{}, user.ErrNotFound
		}
		return user.Registration{}, err
	}
	return reg, nil
}

func bucketTable(role user.Role) (string, error) {
	switch role {
	case user.RoleEmployer:
		return "employers", nil
	case user.RoleJobSeeker:
		return "job_seekers", nil
	}
	return "", fmt.Errorf("unknown role %q", role)
}

func scanUser(row *sql.Row) (user.User, error) {
	var u user.User
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.DisplayName, &u.Phone, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, err
	}
	return u, nil
}
