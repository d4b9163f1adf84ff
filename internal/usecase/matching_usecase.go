package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"helperhub/internal/domain/catalog"
	"helperhub/internal/domain/matching"
	"helperhub/internal/domain/profile"
	"helperhub/internal/domain/review"

	"github.com/google/uuid"
)

type ProviderSource interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (profile.Profile, error)
	ListJobSeekers(ctx context.Context, category string) ([]profile.Profile, error)
}

type ReviewSource interface {
	ListByJobSeekers(ctx context.Context, jobSeekerIDs []uuid.UUID) (map[uuid.UUID][]review.Review, error)
}

var (
	errUnknownServiceType = errors.New("unknown service type")
	errUnknownCategory    = errors.New("unknown category")
)

const (
	lockWait    = 150 * time.Millisecond
	fillLockTTL = 10 * time.Second
)

type MatchingUsecase struct {
	profiles ProviderSource
	reviews  ReviewSource
	cache    ProviderCache
	logger   *log.Logger
}

func NewMatchingUsecase(profiles ProviderSource, reviews ReviewSource, cache ProviderCache, logger *log.Logger) *MatchingUsecase {
	return &MatchingUsecase{profiles: profiles, reviews: reviews, cache: cache, logger: logger}
}

// FindProviders lists eligible providers for a service type, optionally
// narrowed to one category. No match is an empty slice.
func (u *MatchingUsecase) FindProviders(ctx context.Context, serviceType, category string) ([]matching.Provider, error) {
	st, ok := catalog.ParseServiceType(serviceType)
	if !ok {
		return nil, invalid(fmt.Errorf("%w: %q", errUnknownServiceType, serviceType))
	}
	cat, ok := catalog.ParseCategoryFilter(category)
	if !ok {
		return nil, invalid(fmt.Errorf("%w: %q", errUnknownCategory, category))
	}

	gen, useCache := u.generation(ctx)
	key := providersListKey(gen, string(st), cat)
	if useCache {
		if cached, hit := u.cached(ctx, key); hit {
			return cached, nil
		}

		unlock, ok, err := u.cache.TryLock(ctx, providersLockKey(key), fillLockTTL)
		defer unlock(context.WithoutCancel(ctx))
		if err == nil && !ok {
			// Another request is filling the same key.
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(lockWait):
			}
			if cached, hit := u.cached(ctx, key); hit {
				return cached, nil
			}
		}
	}

	candidates, err := u.profiles.ListJobSeekers(ctx, cat)
	if err != nil {
		return nil, unavailable("failed to load providers", err)
	}

	ids := make([]uuid.UUID, 0, len(candidates))
	for _, p := range candidates {
		ids = append(ids, p.UserID)
	}
	reviews, err := u.reviews.ListByJobSeekers(ctx, ids)
	if err != nil {
		return nil, unavailable("failed to load providers", err)
	}

	out := matching.FindProviders(candidates, reviews, matching.Query{ServiceType: st, Category: cat})

	if useCache {
		if err := u.cache.SetJSON(ctx, key, out, 0); err != nil {
			u.logf("[Providers] cache set failed key=%s err=%v", key, err)
		}
	}
	return out, nil
}

func (u *MatchingUsecase) GetProvider(ctx context.Context, id uuid.UUID) (matching.Provider, error) {
	gen, useCache := u.generation(ctx)
	key := providerKey(gen, id.String())
	if useCache {
		var cached matching.Provider
		if hit, err := u.cache.GetJSON(ctx, key, &cached); err == nil && hit {
			return cached, nil
		}
	}

	p, err := u.profiles.GetByUserID(ctx, id)
	if err != nil {
		if errors.Is(err, profile.ErrNotFound) {
			return matching.Provider{}, ErrNotFound
		}
		return matching.Provider{}, unavailable("failed to load provider", err)
	}
	if !matching.Eligible(p, catalog.House) {
		return matching.Provider{}, ErrNotFound
	}

	reviews, err := u.reviews.ListByJobSeekers(ctx, []uuid.UUID{id})
	if err != nil {
		return matching.Provider{}, unavailable("failed to load provider", err)
	}

	out := matching.NewProvider(p, reviews[id])
	if useCache {
		_ = u.cache.SetJSON(ctx, key, out, 0)
	}
	return out, nil
}

// generation returns the current provider cache generation. false means
// the cache is skipped for this call.
func (u *MatchingUsecase) generation(ctx context.Context) (int64, bool) {
	if u.cache == nil {
		return 0, false
	}
	gen, err := u.cache.Counter(ctx, providersGenKey)
	if err != nil {
		u.logf("[Providers] cache generation read failed err=%v", err)
		return 0, false
	}
	return gen, true
}

func (u *MatchingUsecase) cached(ctx context.Context, key string) ([]matching.Provider, bool) {
	var cached []matching.Provider
	hit, err := u.cache.GetJSON(ctx, key, &cached)
	if err == nil && hit {
		u.logf("[Providers] Cache HIT: %s", key)
		return cached, true
	}
	u.logf("[Providers] Cache MISS: %s", key)
	return nil, false
}

func (u *MatchingUsecase) logf(format string, args ...any) {
	if u.logger != nil {
		u.logger.Printf(format, args...)
	}
}
