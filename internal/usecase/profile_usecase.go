package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"helperhub/internal/domain/profile"
	"helperhub/internal/domain/user"

	"github.com/google/uuid"
)

// BlobStore is where uploaded images are written.
type BlobStore interface {
	Upload(ctx context.Context, key string, contentType string, data io.Reader) (string, error)
}

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

var (
	errImageType = errors.New("profile image must be a jpeg, png, gif or webp file")
	errImageSize = errors.New("profile image is too large")
)

type ImageUpload struct {
	ContentType string
	Size        int64
	Data        io.Reader
}

type ProfileUsecase struct {
	profiles profile.Repository
	sessions *SessionResolver
	blobs    BlobStore
	cache    ProviderCache
	maxImage int64
	now      func() time.Time
	logger   *log.Logger
}

func NewProfileUsecase(profiles profile.Repository, sessions *SessionResolver, blobs BlobStore, cache ProviderCache, maxImageBytes int64, logger *log.Logger) *ProfileUsecase {
	if maxImageBytes <= 0 {
		maxImageBytes = 5 << 20
	}
	return &ProfileUsecase{
		profiles: profiles,
		sessions: sessions,
		blobs:    blobs,
		cache:    cache,
		maxImage: maxImageBytes,
		now:      time.Now,
		logger:   logger,
	}
}

func (u *ProfileUsecase) Get(ctx context.Context, userID uuid.UUID) (profile.Profile, error) {
	p, err := u.profiles.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, profile.ErrNotFound) {
			return profile.Profile{}, ErrNotFound
		}
		return profile.Profile{}, unavailable("load profile", err)
	}
	return p, nil
}

// Save merges patch over the stored profile. Email always follows the
// identity and role follows the resolved session.
func (u *ProfileUsecase) Save(ctx context.Context, id user.Identity, patch profile.Patch) (profile.Profile, error) {
	s, err := u.resolve(ctx, id)
	if err != nil {
		return profile.Profile{}, err
	}

	current, err := u.current(ctx, s)
	if err != nil {
		return profile.Profile{}, err
	}

	email := id.Email
	role := s.Role
	patch.Email = &email
	patch.Role = &role

	merged := current.Apply(patch)
	if err := merged.Validate(); err != nil {
		return profile.Profile{}, invalid(err)
	}

	stored, err := u.profiles.Merge(ctx, id.ID, patch.Effective(merged), u.now())
	if err != nil {
		return profile.Profile{}, unavailable("save profile", err)
	}

	u.invalidateProviders(ctx, stored)
	return stored, nil
}

// UploadImage stores the image at the user's fixed key and records its URL.
// The rest of the profile is left as is, complete or not.
func (u *ProfileUsecase) UploadImage(ctx context.Context, id user.Identity, img ImageUpload) (profile.Profile, error) {
	if !allowedImageTypes[img.ContentType] {
		return profile.Profile{}, invalid(errImageType)
	}
	if img.Size > u.maxImage {
		return profile.Profile{}, invalid(errImageSize)
	}
	if u.blobs == nil {
		return profile.Profile{}, unavailable("upload image", errors.New("no blob store configured"))
	}

	s, err := u.resolve(ctx, id)
	if err != nil {
		return profile.Profile{}, err
	}

	body := &limitedReader{r: io.LimitReader(img.Data, u.maxImage+1), max: u.maxImage}
	url, err := u.blobs.Upload(ctx, profileImageKey(id.ID), img.ContentType, body)
	if err != nil {
		if body.exceeded {
			return profile.Profile{}, invalid(errImageSize)
		}
		return profile.Profile{}, unavailable("upload image", err)
	}

	email := id.Email
	role := s.Role
	stored, err := u.profiles.Merge(ctx, id.ID, profile.Patch{ProfileImage: &url, Email: &email, Role: &role}, u.now())
	if err != nil {
		return profile.Profile{}, unavailable("save profile", err)
	}

	u.invalidateProviders(ctx, stored)
	u.logf("[Profile] image uploaded user_id=%s bytes=%d", id.ID, body.n)
	return stored, nil
}

func (u *ProfileUsecase) resolve(ctx context.Context, id user.Identity) (Session, error) {
	s, err := u.sessions.Resolve(ctx, id)
	if err != nil {
		if !errors.Is(err, ErrRoleUnresolved) {
			return s, err
		}
		u.logf("[Profile] role unresolved user_id=%s default=%s", id.ID, s.Role)
	}
	return s, nil
}

func (u *ProfileUsecase) current(ctx context.Context, s Session) (profile.Profile, error) {
	p, err := u.profiles.GetByUserID(ctx, s.Identity.ID)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, profile.ErrNotFound) {
		return profile.Profile{}, unavailable("load profile", err)
	}
	return profile.Profile{UserID: s.Identity.ID, Role: s.Role}, nil
}

func (u *ProfileUsecase) invalidateProviders(ctx context.Context, p profile.Profile) {
	if u.cache == nil || !p.IsJobSeeker() {
		return
	}
	if err := invalidateProviders(ctx, u.cache); err != nil {
		u.logf("[Profile] cache invalidation failed user_id=%s err=%v", p.UserID, err)
	}
}

func (u *ProfileUsecase) logf(format string, args ...any) {
	if u.logger != nil {
		u.logger.Printf(format, args...)
	}
}

// ProfileImagePrefix is the storage key prefix, and the local URL path, of
// profile images.
const ProfileImagePrefix = "profileImages"

func profileImageKey(userID uuid.UUID) string {
	return fmt.Sprintf("%s/%s", ProfileImagePrefix, userID)
}

type limitedReader struct {
	r        io.Reader
	max      int64
	n        int64
	exceeded bool
}

func (l *limitedReader) Read(p []byte) (int, error) {
	n, err := l.r.Read(p)
	l.n += int64(n)
	if l.n > l.max {
		l.exceeded = true
		return n, errImageSize
	}
	return n, err
}
