// Package cache guarda incidentes canónicos en Redis con TTL para no
// repetir listados completos contra el backend en lecturas individuales.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/alerta-utec/incident_dashboard/internal/models"
	"github.com/redis/go-redis/v9"
)

type IncidentCache struct {
	redisClient *redis.Client
	ttl         time.Duration
}

func NewIncidentCache(client *redis.Client, ttl time.Duration) *IncidentCache {
	return &IncidentCache{
		redisClient: client,
		ttl:         ttl,
	}
}

// GetIncident intenta recuperar un incidente de Redis; nil sin error es un
// fallo de caché.
func (c *IncidentCache) GetIncident(ctx context.Context, id string) (*models.Incident, error) {
	key := fmt.Sprintf("incident:%s", id)
	val, err := c.redisClient.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get incident from cache: %w", err)
	}

	incident := &models.Incident{}
	if err := json.Unmarshal(val, incident); err != nil {
		return nil, fmt.Errorf("failed to unmarshal incident from cache: %w", err)
	}
	return incident, nil
}

// SetIncident guarda el incidente con el TTL configurado.
func (c *IncidentCache) SetIncident(ctx context.Context, incident *models.Incident) error {
	key := fmt.Sprintf("incident:%s", incident.ID)
	val, err := json.Marshal(incident)
	if err != nil {
		return fmt.Errorf("failed to marshal incident for cache: %w", err)
	}
	if err := c.redisClient.Set(ctx, key, val, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set incident in cache: %w", err)
	}
	return nil
}

// InvalidateIncident elimina la entrada tras una escritura confirmada.
func (c *IncidentCache) InvalidateIncident(ctx context.Context, id string) error {
	key := fmt.Sprintf("incident:%s", id)
	if err := c.redisClient.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to invalidate incident cache: %w", err)
	}
	return nil
}
