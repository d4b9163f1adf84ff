package business

import (
	"context"
	"errors"
	"strings"
	"time"

	"helperhub/internal/domain/catalog"

	"github.com/google/uuid"
)

var (
	ErrCompanyNameRequired = errors.New("company name is required")
	ErrUnknownBusinessType = errors.New("unknown business type")
	ErrNotFound            = errors.New("business info not found")
)

// Info is the employer's business description. Saves replace it whole.
type Info struct {
	UserID       uuid.UUID
	CompanyName  string
	BusinessType catalog.BusinessType
	Location     string
	Description  string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (i Info) Normalize() Info {
	i.CompanyName = strings.TrimSpace(i.CompanyName)
	i.BusinessType = catalog.BusinessType(strings.TrimSpace(string(i.BusinessType)))
	i.Location = strings.TrimSpace(i.Location)
	i.Description = strings.TrimSpace(i.Description)
	return i
}

func (i Info) Validate() error {
	if i.CompanyName == "" {
		return ErrCompanyNameRequired
	}
	if i.BusinessType != "" && !catalog.IsBusinessType(string(i.BusinessType)) {
		return ErrUnknownBusinessType
	}
	return nil
}

type Repository interface {
	Get(ctx context.Context, userID uuid.UUID) (Info, error)
	// Replace overwrites every field of the stored record.
	Replace(ctx context.Context, info Info) (Info, error)
}
