package session

import (
	"bytes"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(defaultTTL time.Duration) *Store {
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})
	return NewStore(nil, defaultTTL, logger)
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "u-42",
		"exp": exp.Unix(),
	})
	signed, err := token.SignedString([]byte("clave-de-prueba"))
	require.NoError(t, err)
	return signed
}

func TestTTLFor_UsesTokenExpiry(t *testing.T) {
	store := newTestStore(8 * time.Hour)

	ttl := store.ttlFor(signedToken(t, time.Now().Add(30*time.Minute)))

	// el TTL sigue al claim exp del token, no al valor por defecto
	assert.Greater(t, ttl, 29*time.Minute)
	assert.LessOrEqual(t, ttl, 30*time.Minute)
}

func TestTTLFor_ClampsToDefault(t *testing.T) {
	store := newTestStore(8 * time.Hour)

	// un exp más lejano que el máximo configurado no lo alarga
	ttl := store.ttlFor(signedToken(t, time.Now().Add(72*time.Hour)))

	assert.Equal(t, 8*time.Hour, ttl)
}

func TestTTLFor_ExpiredTokenFallsBack(t *testing.T) {
	store := newTestStore(8 * time.Hour)

	ttl := store.ttlFor(signedToken(t, time.Now().Add(-time.Hour)))

	assert.Equal(t, 8*time.Hour, ttl)
}

func TestTTLFor_UnreadableTokenFallsBack(t *testing.T) {
	store := newTestStore(8 * time.Hour)

	for _, token := range []string{"", "no-es-un-jwt", "a.b.c"} {
		assert.Equal(t, 8*time.Hour, store.ttlFor(token), "token %q", token)
	}
}

func TestTTLFor_TokenWithoutExpFallsBack(t *testing.T) {
	store := newTestStore(8 * time.Hour)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "u-42"})
	signed, err := token.SignedString([]byte("clave-de-prueba"))
	require.NoError(t, err)

	assert.Equal(t, 8*time.Hour, store.ttlFor(signed))
}
