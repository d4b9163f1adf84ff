package usecase

import (
	"context"
	"errors"
	"time"

	"helperhub/internal/domain/business"
	"helperhub/internal/domain/user"

	"github.com/google/uuid"
)

type BusinessUsecase struct {
	infos    business.Repository
	sessions *SessionResolver
	now      func() time.Time
}

func NewBusinessUsecase(infos business.Repository, sessions *SessionResolver) *BusinessUsecase {
	return &BusinessUsecase{infos: infos, sessions: sessions, now: time.Now}
}

func (u *BusinessUsecase) Get(ctx context.Context, userID uuid.UUID) (business.Info, error) {
	info, err := u.infos.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, business.ErrNotFound) {
			return business.Info{}, ErrNotFound
		}
		return business.Info{}, unavailable("load business info", err)
	}
	return info, nil
}

// Save replaces the employer's business info. The first save's createdAt
// is kept across replacements.
func (u *BusinessUsecase) Save(ctx context.Context, id user.Identity, info business.Info) (business.Info, error) {
	if _, err := u.sessions.Require(ctx, id, user.RoleEmployer); err != nil {
		return business.Info{}, err
	}

	info = info.Normalize()
	info.UserID = id.ID
	if err := info.Validate(); err != nil {
		return business.Info{}, invalid(err)
	}

	now := u.now().UTC()
	existing, err := u.infos.Get(ctx, id.ID)
	switch {
	case err == nil:
		info.CreatedAt = existing.CreatedAt
	case errors.Is(err, business.ErrNotFound):
		info.CreatedAt = now
	default:
		return business.Info{}, unavailable("load business info", err)
	}
	info.UpdatedAt = now

	stored, err := u.infos.Replace(ctx, info)
	if err != nil {
		return business.Info{}, unavailable("save business info", err)
	}
	return stored, nil
}
