package jwks_test

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jacpae/portal-api/internal/domain"
	"github.com/jacpae/portal-api/internal/infrastructure/jwks"
)

// jwksDoc construye el documento JWKS para una clave RSA de test.
func jwksDoc(t *testing.T, kid string, pub *rsa.PublicKey) []byte {
	t.Helper()
	doc := map[string]any{
		"keys": []map[string]string{{
			"kid": kid,
			"kty": "RSA",
			"alg": "RS256",
			"n":   base64.RawURLEncoding.EncodeToString(pub.N.Bytes()),
			"e":   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(pub.E)).Bytes()),
		}},
	}
	b, err := json.Marshal(doc)
	require.NoError(t, err)
	return b
}

func newRSAKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return key
}

// La caché debe devolver la clave RSA publicada por el endpoint.
func TestKey_DevuelveClaveRSA(t *testing.T) {
	priv := newRSAKey(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(jwksDoc(t, "kid-1", &priv.PublicKey))
	}))
	defer srv.Close()

	cache := jwks.New(srv.URL, time.Hour, time.Second, zerolog.Nop())
	key, err := cache.Key(context.Background(), "kid-1")
	require.NoError(t, err)

	rsaKey, ok := key.(*rsa.PublicKey)
	require.True(t, ok, "la clave debe ser RSA")
	assert.True(t, rsaKey.Equal(&priv.PublicKey))
}

// Un kid desconocido tras un refresco correcto es clave-no-disponible.
func TestKey_KidDesconocido(t *testing.T) {
	priv := newRSAKey(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(jwksDoc(t, "kid-1", &priv.PublicKey))
	}))
	defer srv.Close()

	cache := jwks.New(srv.URL, time.Hour, time.Second, zerolog.Nop())
	_, err := cache.Key(context.Background(), "kid-que-no-existe")
	assert.ErrorIs(t, err, domain.ErrKeyUnavailable)
}

// Llamadas concurrentes durante un refresco deben compartir un único fetch.
func TestKey_Singleflight(t *testing.T) {
	priv := newRSAKey(t)
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		time.Sleep(100 * time.Millisecond)
		_, _ = w.Write(jwksDoc(t, "kid-1", &priv.PublicKey))
	}))
	defer srv.Close()

	cache := jwks.New(srv.URL, time.Hour, time.Second, zerolog.Nop())

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := cache.Key(context.Background(), "kid-1")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&hits), "debe haber un único fetch en vuelo")
}

// Si el refresco falla pero hay un set anterior, se sirve el set antiguo.
func TestKey_SirveSetAntiguoSiFallaRefresco(t *testing.T) {
	priv := newRSAKey(t)
	var fail atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write(jwksDoc(t, "kid-1", &priv.PublicKey))
	}))
	defer srv.Close()

	// TTL mínimo: cada lookup intenta refrescar.
	cache := jwks.New(srv.URL, time.Nanosecond, time.Second, zerolog.Nop())

	_, err := cache.Key(context.Background(), "kid-1")
	require.NoError(t, err)

	fail.Store(true)
	key, err := cache.Key(context.Background(), "kid-1")
	require.NoError(t, err, "con set anterior el fallo de refresco no es fatal")
	assert.NotNil(t, key)
}

// Sin set utilizable y con el endpoint caído, el error es clave-no-disponible.
func TestKey_SinCacheNiEndpoint(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // endpoint inalcanzable desde el primer fetch

	cache := jwks.New(srv.URL, time.Hour, time.Second, zerolog.Nop())
	_, err := cache.Key(context.Background(), "kid-1")
	assert.ErrorIs(t, err, domain.ErrKeyUnavailable)
}

// Invalidate fuerza un nuevo fetch en el siguiente lookup.
func TestInvalidate(t *testing.T) {
	priv := newRSAKey(t)
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		_, _ = w.Write(jwksDoc(t, "kid-1", &priv.PublicKey))
	}))
	defer srv.Close()

	cache := jwks.New(srv.URL, time.Hour, time.Second, zerolog.Nop())
	_, err := cache.Key(context.Background(), "kid-1")
	require.NoError(t, err)

	cache.Invalidate()
	_, err = cache.Key(context.Background(), "kid-1")
	require.NoError(t, err)

	assert.Equal(t, int32(2), atomic.LoadInt32(&hits))
}

// Ready responde según la alcanzabilidad del endpoint.
func TestReady(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	cache := jwks.New(srv.URL, time.Hour, time.Second, zerolog.Nop())
	assert.NoError(t, cache.Ready(context.Background()))

	srv.Close()
	assert.Error(t, cache.Ready(context.Background()))
}
