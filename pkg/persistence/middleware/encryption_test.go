package middleware_test

import (
	"bytes"
	"context"
	"crypto/rand"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/statespace/pkg/adapters/memory"
	"github.com/aretw0/statespace/pkg/persistence/middleware"
	"github.com/aretw0/statespace/pkg/ports"
)

func generateKey(t *testing.T) []byte {
	k := make([]byte, middleware.KeySize)
	if _, err := io.ReadFull(rand.Reader, k); err != nil {
		t.Fatal(err)
	}
	return k
}

func TestEncryptionMiddleware_Roundtrip(t *testing.T) {
	underlying := memory.NewCache()
	key := generateKey(t)
	secure := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key})(underlying)

	ctx := context.Background()
	payload := []byte(`[{"userLoggedIn":"true","theme":"light"}]`)

	require.NoError(t, secure.Set(ctx, "k", payload))

	stored, err := underlying.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, bytes.Contains(stored, []byte("userLoggedIn")), "entry must be sealed at rest")

	loaded, err := secure.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, payload, loaded)

	_, err = secure.Get(ctx, "absent")
	assert.ErrorIs(t, err, ports.ErrCacheMiss)

	require.NoError(t, secure.Delete(ctx, "k"))
	assert.Zero(t, underlying.Len())
}

func TestEncryptionMiddleware_Contract(t *testing.T) {
	cache := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})(memory.NewCache())
	ports.RunExportCacheContract(t, cache)
}

func TestEncryptionMiddleware_KeyRotation(t *testing.T) {
	underlying := memory.NewCache()
	oldKey := generateKey(t)
	newKey := generateKey(t)
	ctx := context.Background()

	secureOld := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: oldKey})(underlying)
	require.NoError(t, secureOld.Set(ctx, "k", []byte("old")))

	secureNew := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey:    newKey,
		FallbackKeys: [][]byte{oldKey},
	})(underlying)

	loaded, err := secureNew.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("old"), loaded)

	require.NoError(t, secureNew.Set(ctx, "k", []byte("new")))
	_, err = secureOld.Get(ctx, "k")
	assert.Error(t, err, "old key alone cannot read entries sealed with the new key")
}

func TestEncryptionMiddleware_Tampered(t *testing.T) {
	underlying := memory.NewCache()
	secure := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})(underlying)
	ctx := context.Background()

	require.NoError(t, underlying.Set(ctx, "short", []byte("x")))
	_, err := secure.Get(ctx, "short")
	assert.Error(t, err)

	require.NoError(t, secure.Set(ctx, "k", []byte("payload")))
	stored, _ := underlying.Get(ctx, "k")
	stored[len(stored)-1] ^= 0xff
	require.NoError(t, underlying.Set(ctx, "k", stored))
	_, err = secure.Get(ctx, "k")
	assert.Error(t, err)
}

func TestEncryptionMiddleware_InvalidKey(t *testing.T) {
	assert.Panics(t, func() {
		middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: []byte("short-key")})
	})

	cfg := middleware.EncryptionConfig{ActiveKey: generateKey(t), FallbackKeys: [][]byte{[]byte("short")}}
	assert.ErrorIs(t, cfg.Validate(), middleware.ErrInvalidKey)
}

type recordingCache struct {
	ports.ExportCache
	name  string
	calls *[]string
}

func (r recordingCache) Set(ctx context.Context, key string, value []byte) error {
	*r.calls = append(*r.calls, r.name)
	return r.ExportCache.Set(ctx, key, value)
}

func TestChain_Order(t *testing.T) {
	var calls []string
	record := func(name string) middleware.Middleware {
		return func(next ports.ExportCache) ports.ExportCache {
			return recordingCache{ExportCache: next, name: name, calls: &calls}
		}
	}

	cache := middleware.Chain(memory.NewCache(), record("outer"), record("inner"))
	require.NoError(t, cache.Set(context.Background(), "k", []byte("v")))
	assert.Equal(t, []string{"outer", "inner"}, calls)
}
