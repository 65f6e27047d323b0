// Package store holds the optional persistence around predictions: a Redis
// response cache and a Postgres audit log. Neither is authoritative.
package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	apperrors "placement-advisor/internal/common/errors"
	"placement-advisor/internal/models"

	"github.com/redis/go-redis/v9"
)

const cacheKeyPrefix = "placement:prediction:"

// PredictionCache stores prediction responses keyed by model version and profile.
type PredictionCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewPredictionCache(client *redis.Client, ttl time.Duration) *PredictionCache {
	return &PredictionCache{client: client, ttl: ttl}
}

// CacheKey builds the key for a profile. Skills are trimmed, deduplicated and
// sorted first so that equivalent profiles share an entry.
func CacheKey(modelVersion string, p *models.Profile) (string, error) {
	canonical := *p
	skills := make([]string, 0, len(p.Skills))
	for s := range p.SkillSet() {
		skills = append(skills, s)
	}
	sort.Strings(skills)
	canonical.Skills = skills

	raw, err := json.Marshal(canonical)
	if err != nil {
		return "", fmt.Errorf("marshal profile: %w", err)
	}
	sum := sha256.Sum256(raw)
	return cacheKeyPrefix + modelVersion + ":" + hex.EncodeToString(sum[:]), nil
}

// Get returns the cached response. A miss is (nil, false, nil).
func (c *PredictionCache) Get(ctx context.Context, modelVersion string, p *models.Profile) (*models.PredictionResponse, bool, error) {
	key, err := CacheKey(modelVersion, p)
	if err != nil {
		return nil, false, err
	}

	val, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, apperrors.NewCacheFailedError("get", err)
	}

	var resp models.PredictionResponse
	if err := json.Unmarshal(val, &resp); err != nil {
		return nil, false, fmt.Errorf("cache decode: %w", err)
	}
	return &resp, true, nil
}

// Set stores the response without its request id.
func (c *PredictionCache) Set(ctx context.Context, modelVersion string, p *models.Profile, resp *models.PredictionResponse) error {
	key, err := CacheKey(modelVersion, p)
	if err != nil {
		return err
	}

	stored := *resp
	stored.RequestID = ""
	data, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("cache encode: %w", err)
	}

	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return apperrors.NewCacheFailedError("set", err)
	}
	return nil
}
