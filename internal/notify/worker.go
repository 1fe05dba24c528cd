package notify

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/alerta-utec/incident_dashboard/internal/config"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Broadcaster reenvía un evento ya serializado a los paneles conectados.
type Broadcaster interface {
	Broadcast(payload []byte)
}

// EventWorker consume la cola de eventos y los entrega: siempre a los
// paneles conectados por WebSocket y, si hay un webhook configurado,
// también a ese destino externo con firma HMAC y reintentos.
type EventWorker struct {
	redisClient *redis.Client
	broadcaster Broadcaster
	logger      *logrus.Logger
	cfg         *config.Config
	httpClient  *http.Client
}

func NewEventWorker(redisClient *redis.Client, broadcaster Broadcaster, log *logrus.Logger, cfg *config.Config) *EventWorker {
	return &EventWorker{
		redisClient: redisClient,
		broadcaster: broadcaster,
		logger:      log,
		cfg:         cfg,
		httpClient: &http.Client{
			Timeout: cfg.WebhookTimeout,
		},
	}
}

// Start lanza la goroutine que procesa la cola de eventos.
func (w *EventWorker) Start(ctx context.Context) {
	w.logger.Info("Starting incident event worker...")
	go func() {
		for {
			select {
			case <-ctx.Done():
				w.logger.Info("Stopping incident event worker.")
				return
			default:
				// BRPOP bloqueante; 0 significa espera indefinida
				result, err := w.redisClient.BRPop(ctx, 0, eventQueueKey).Result()
				if err != nil {
					if errors.Is(err, context.Canceled) {
						continue
					}
					w.logger.WithError(err).Error("Failed to pop incident event from Redis")
					time.Sleep(w.cfg.WebhookTimeout)
					continue
				}

				// result[0] es la clave, result[1] el valor
				payload := result[1]
				var event Event
				if err := json.Unmarshal([]byte(payload), &event); err != nil {
					w.logger.WithError(err).Error("Failed to unmarshal incident event from Redis")
					continue
				}

				w.deliver(ctx, event, payload)
			}
		}
	}()
}

func (w *EventWorker) deliver(ctx context.Context, event Event, rawPayload string) {
	log := w.logger.WithFields(logrus.Fields{
		"event_tipo":  event.Tipo,
		"incident_id": event.IncidentID,
	})
	log.Debug("Delivering incident event...")

	// Espera corta antes de avisar a los paneles: heurística para que el
	// backend haya reflejado la escritura cuando vuelvan a pedir la lista.
	if w.cfg.RefreshDebounce > 0 {
		time.Sleep(w.cfg.RefreshDebounce)
	}

	w.broadcaster.Broadcast([]byte(rawPayload))

	if w.cfg.WebhookURL == "" {
		return
	}
	w.forwardWebhook(ctx, log, rawPayload)
}

// forwardWebhook reenvía el evento al webhook externo con reintentos y
// retardo exponencial.
func (w *EventWorker) forwardWebhook(ctx context.Context, log *logrus.Entry, rawPayload string) {
	maxRetries := w.cfg.WebhookMaxRetries
	baseDelay := w.cfg.WebhookBaseDelay

	for i := 0; i < maxRetries; i++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.cfg.WebhookURL, bytes.NewBufferString(rawPayload))
		if err != nil {
			log.WithError(err).Errorf("Failed to create webhook request. Retries left: %d", maxRetries-1-i)
			continue
		}

		req.Header.Set("Content-Type", "application/json")
		if w.cfg.WebhookSecret != "" {
			req.Header.Set("X-Webhook-Signature", SignPayload(rawPayload, w.cfg.WebhookSecret))
		}

		resp, err := w.httpClient.Do(req)
		if err != nil {
			log.WithError(err).Warnf("Failed to forward incident event. Retrying in %v. Retries left: %d", baseDelay, maxRetries-1-i)
			time.Sleep(baseDelay)
			baseDelay *= 2
			continue
		}
		resp.Body.Close()

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			log.Info("Incident event webhook delivered successfully.")
			return
		}
		log.Warnf("Webhook delivery failed with status code %d. Retrying in %v. Retries left: %d", resp.StatusCode, baseDelay, maxRetries-1-i)
		time.Sleep(baseDelay)
		baseDelay *= 2
	}

	log.Errorf("Failed to deliver incident event webhook after %d retries.", maxRetries)
}

// SignPayload genera la firma HMAC-SHA256 del payload.
func SignPayload(data, secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(data))
	return hex.EncodeToString(h.Sum(nil))
}
