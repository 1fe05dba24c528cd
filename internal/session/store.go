// Package session guarda la sesión del usuario autenticado en Redis.
// Sustituye al estado global mutable de "usuario actual": la sesión se crea
// al iniciar sesión, se resuelve explícitamente en cada petición y se borra
// al cerrar sesión, y el usuario siempre viaja como parámetro explícito.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/alerta-utec/incident_dashboard/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const keyPrefix = "session:"

// Session es la sesión activa: el token que emitió el backend y la
// identidad canónica del usuario.
type Session struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

type Store struct {
	redisClient *redis.Client
	defaultTTL  time.Duration
	logger      *logrus.Logger
}

func NewStore(redisClient *redis.Client, defaultTTL time.Duration, log *logrus.Logger) *Store {
	return &Store{
		redisClient: redisClient,
		defaultTTL:  defaultTTL,
		logger:      log,
	}
}

// Create registra una sesión nueva y devuelve su identificador. El TTL se
// toma del claim exp del token del backend cuando es legible; si no, del
// valor configurado.
func (s *Store) Create(ctx context.Context, token string, user models.User) (string, error) {
	id := uuid.New().String()
	payload, err := json.Marshal(Session{Token: token, User: user})
	if err != nil {
		return "", fmt.Errorf("failed to marshal session: %w", err)
	}

	ttl := s.ttlFor(token)
	if err := s.redisClient.Set(ctx, keyPrefix+id, payload, ttl).Err(); err != nil {
		return "", fmt.Errorf("failed to store session: %w", err)
	}
	return id, nil
}

// Get recupera una sesión; devuelve nil sin error si no existe o caducó.
func (s *Store) Get(ctx context.Context, id string) (*Session, error) {
	val, err := s.redisClient.Get(ctx, keyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	sess := &Session{}
	if err := json.Unmarshal(val, sess); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return sess, nil
}

// Delete invalida la sesión (cierre de sesión o sesión caducada upstream).
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.redisClient.Del(ctx, keyPrefix+id).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// ttlFor lee el claim exp del token sin verificar la firma; la validez real
// del token la decide el backend en cada petición.
func (s *Store) ttlFor(token string) time.Duration {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return s.defaultTTL
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return s.defaultTTL
	}
	ttl := time.Until(exp.Time)
	if ttl <= 0 || ttl > s.defaultTTL {
		return s.defaultTTL
	}
	return ttl
}
