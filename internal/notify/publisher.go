// Package notify publica y entrega los eventos de incidentes
// (incidentAssigned, incidentResolved) que coordinan los paneles abiertos.
// Los eventos viajan por una cola en Redis con entrega al-menos-una-vez y
// sin garantía de orden respecto a la consistencia del propio backend.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/alerta-utec/incident_dashboard/internal/models"
	"github.com/redis/go-redis/v9"
)

const eventQueueKey = "incident_events"

type EventType string

const (
	EventIncidentAssigned EventType = "incidentAssigned"
	EventIncidentResolved EventType = "incidentResolved"
)

// Event es la notificación tipada que reciben los suscriptores; el payload
// ya no hay que adivinarlo.
type Event struct {
	ID         string       `json:"id"`
	Tipo       EventType    `json:"tipo"`
	IncidentID string       `json:"incidentId"`
	User       *models.User `json:"user,omitempty"`
	Timestamp  time.Time    `json:"timestamp"`
}

// EventPublisher publica eventos de incidentes para los paneles suscritos.
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
}

// RedisEventPublisher encola los eventos en una lista de Redis.
type RedisEventPublisher struct {
	redisClient *redis.Client
}

func NewRedisEventPublisher(client *redis.Client) *RedisEventPublisher {
	return &RedisEventPublisher{
		redisClient: client,
	}
}

// Publish encola el evento para que el worker lo entregue.
func (p *RedisEventPublisher) Publish(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal incident event: %w", err)
	}

	if err := p.redisClient.LPush(ctx, eventQueueKey, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish incident event to Redis: %w", err)
	}
	return nil
}
