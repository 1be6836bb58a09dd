package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/statespace"
	"github.com/aretw0/statespace/internal/config"
	"github.com/aretw0/statespace/internal/logging"
	"github.com/aretw0/statespace/internal/testutils"
	"github.com/aretw0/statespace/pkg/adapters/file"
	"github.com/aretw0/statespace/pkg/adapters/memory"
	"github.com/aretw0/statespace/pkg/adapters/redis"
	"github.com/aretw0/statespace/pkg/export"
	"github.com/aretw0/statespace/pkg/gate"
	"github.com/aretw0/statespace/pkg/sanitize"
)

func defaultConfig(t *testing.T) *config.Config {
	t.Helper()
	t.Chdir(t.TempDir())
	cfg, _, err := config.Load("", nil)
	require.NoError(t, err)
	return cfg
}

func TestOpenLoader(t *testing.T) {
	cfg := defaultConfig(t)

	l, err := OpenLoader(cfg)
	require.NoError(t, err)
	assert.Nil(t, l)

	cfg.Sets.File = testutils.WriteFile(t, "login.yaml", testutils.LoginSetYAML)
	l, err = OpenLoader(cfg)
	require.NoError(t, err)
	assert.IsType(t, &file.Loader{}, l)

	cfg.Sets.File = filepath.Join(t.TempDir(), "missing.yaml")
	_, err = OpenLoader(cfg)
	assert.Error(t, err)
}

func TestOpenCache(t *testing.T) {
	ctx := context.Background()
	cfg := defaultConfig(t)

	c, closeFn, err := OpenCache(ctx, cfg)
	require.NoError(t, err)
	assert.Nil(t, c)
	assert.NoError(t, closeFn())

	cfg.Cache.Backend = config.CacheMemory
	c, _, err = OpenCache(ctx, cfg)
	require.NoError(t, err)
	assert.IsType(t, &memory.Cache{}, c)

	mr := miniredis.RunT(t)
	cfg.Cache.Backend = config.CacheRedis
	cfg.Cache.RedisAddr = mr.Addr()
	c, closeFn, err = OpenCache(ctx, cfg)
	require.NoError(t, err)
	assert.IsType(t, &redis.Cache{}, c)
	assert.NoError(t, closeFn())

	mr.Close()
	_, _, err = OpenCache(ctx, cfg)
	assert.ErrorContains(t, err, "redis cache unavailable")
}

func TestOpenCache_Encrypted(t *testing.T) {
	ctx := context.Background()
	cfg := defaultConfig(t)
	cfg.Cache.Backend = config.CacheMemory
	cfg.Cache.EncryptionKey = "MDEyMzQ1Njc4OWFiY2RlZjAxMjM0NTY3ODlhYmNkZWY="

	c, _, err := OpenCache(ctx, cfg)
	require.NoError(t, err)
	assert.NotNil(t, c)
	_, isPlain := c.(*memory.Cache)
	assert.False(t, isPlain)

	require.NoError(t, c.Set(ctx, "k", []byte("v")))
	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)

	cfg.Cache.FallbackKeys = []string{"bad"}
	_, _, err = OpenCache(ctx, cfg)
	assert.ErrorContains(t, err, "cache.fallback_keys[0]")
}

func TestNewEngine(t *testing.T) {
	ctx := context.Background()
	cfg := defaultConfig(t)
	cfg.Sets.File = testutils.WriteFile(t, "login.yaml", testutils.LoginSetYAML)
	cfg.Policy = "lenient"
	cfg.RFC4180 = true
	cfg.Cache.Backend = config.CacheMemory

	eng, closeFn, err := NewEngine(ctx, cfg, logging.NewNop())
	require.NoError(t, err)
	defer closeFn()

	assert.Equal(t, gate.PolicyLenient, eng.GateOptions().Policy)
	assert.True(t, eng.CSVOptions().RFC4180)

	name, set, err := ResolveSet(ctx, eng, "")
	require.NoError(t, err)
	assert.Equal(t, "login", name)
	assert.Equal(t, []string{"userLoggedIn", "theme"}, set.Names())

	out, err := eng.Export(ctx, set, export.FormatCSV)
	require.NoError(t, err)
	assert.Contains(t, string(out.Data), "\r\n")
}

func TestRemoteLimits(t *testing.T) {
	cfg := defaultConfig(t)
	assert.Equal(t, sanitize.DefaultMaxStates, RemoteLimits(cfg).MaxStates, "remote hosts are never unbounded")

	cfg.MaxStates = 10
	assert.Equal(t, 10, RemoteLimits(cfg).MaxStates)

	cfg.MaxStates = 5 << 20
	assert.Equal(t, 5<<20, RemoteLimits(cfg).MaxStates)
}

func TestResolveSet_NoLoader(t *testing.T) {
	_, _, err := ResolveSet(context.Background(), statespace.New(), "")
	assert.ErrorContains(t, err, "no variable set given")
}

func TestWriteOutput(t *testing.T) {
	stdout, err := os.CreateTemp(t.TempDir(), "stdout")
	require.NoError(t, err)
	defer stdout.Close()
	var stderr bytes.Buffer

	out := &statespace.Output{Format: export.FormatCSV, Data: []byte(`"a"` + "\n" + `"true"`), OK: true}
	require.NoError(t, WriteOutput(out, "", stdout, &stderr))
	got, err := os.ReadFile(stdout.Name())
	require.NoError(t, err)
	assert.Equal(t, "\"a\"\n\"true\"\n", string(got))

	path := filepath.Join(t.TempDir(), "state-space.csv")
	require.NoError(t, WriteOutput(out, path, stdout, &stderr))
	got, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, out.Data, got)
	assert.Contains(t, stderr.String(), "Wrote 10 bytes")

	stderr.Reset()
	require.NoError(t, WriteOutput(&statespace.Output{Format: export.FormatCSV}, "", stdout, &stderr))
	assert.Contains(t, stderr.String(), "No states to write.")
}
