package cache

import (
	"context"
	"encoding/json"
	"time"

	"newsletter-sendy-layer/internal/domain"
	"newsletter-sendy-layer/internal/ports"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const settingsKey = "newsletter:settings"

// CachedSettingsRepository is a read-through Redis cache in front of the
// settings store. Settings are read on every bridge call but written only
// from the admin form, so cache-then-invalidate is enough; Redis failures
// fall through to the inner repository.
type CachedSettingsRepository struct {
	inner  ports.SettingsRepository
	client *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

// NewCachedSettingsRepository wraps inner with a Redis cache.
func NewCachedSettingsRepository(
	inner ports.SettingsRepository,
	client *redis.Client,
	ttl time.Duration,
	logger zerolog.Logger,
) ports.SettingsRepository {
	return &CachedSettingsRepository{
		inner:  inner,
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

func (r *CachedSettingsRepository) Get(ctx context.Context) (*domain.Settings, error) {
	cached, err := r.client.Get(ctx, settingsKey).Bytes()
	if err == nil {
		var settings domain.Settings
		if err := json.Unmarshal(cached, &settings); err == nil {
			return &settings, nil
		}
		r.logger.Warn().Msg("Dropping undecodable cached settings")
		r.client.Del(ctx, settingsKey)
	} else if err != redis.Nil {
		r.logger.Warn().Err(err).Msg("Settings cache read failed, falling through")
	}

	settings, err := r.inner.Get(ctx)
	if err != nil {
		return nil, err
	}
	if settings == nil {
		return nil, nil
	}

	if data, err := json.Marshal(settings); err == nil {
		if err := r.client.Set(ctx, settingsKey, data, r.ttl).Err(); err != nil {
			r.logger.Warn().Err(err).Msg("Settings cache write failed")
		}
	}

	return settings, nil
}

func (r *CachedSettingsRepository) Save(ctx context.Context, settings *domain.Settings) error {
	if err := r.inner.Save(ctx, settings); err != nil {
		return err
	}

	if err := r.client.Del(ctx, settingsKey).Err(); err != nil {
		r.logger.Warn().Err(err).Msg("Settings cache invalidation failed")
	}

	return nil
}
