package usecase

import (
	"context"
	"strconv"
	"time"
)

type ProviderCache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
	Counter(ctx context.Context, key string) (int64, error)
	Incr(ctx context.Context, key string) (int64, error)
	// TryLock guards a cache fill. unlock must be safe to call even when ok
	// is false.
	TryLock(ctx context.Context, key string, ttl time.Duration) (unlock func(context.Context), ok bool, err error)
}

const (
	providersKeyPrefix = "providers:"
	// Lives outside providersKeyPrefix so pattern deletes keep it.
	providersGenKey = "providers-gen"
)

func providersListKey(gen int64, serviceType, category string) string {
	return providersKeyPrefix + "list:" + strconv.FormatInt(gen, 10) + ":" + serviceType + ":" + category
}

func providersLockKey(listKey string) string {
	return providersKeyPrefix + "lock:" + listKey[len(providersKeyPrefix):]
}

func providerKey(gen int64, id string) string {
	return providersKeyPrefix + "one:" + strconv.FormatInt(gen, 10) + ":" + id
}

// invalidateProviders bumps the generation before deleting, so a fill that
// loaded before the bump writes under a key no reader asks for.
func invalidateProviders(ctx context.Context, c ProviderCache) error {
	if _, err := c.Incr(ctx, providersGenKey); err != nil {
		return err
	}
	return c.DeleteByPattern(ctx, providersKeyPrefix+"*")
}
