package memory_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/statespace/pkg/adapters/memory"
	"github.com/aretw0/statespace/pkg/domain"
	"github.com/aretw0/statespace/pkg/ports"
	contract "github.com/aretw0/statespace/pkg/ports/tests"
)

func TestMemoryCache_Contract(t *testing.T) {
	cache := memory.NewCache()
	ports.RunExportCacheContract(t, cache)
}

func TestMemoryCache_Concurrent(t *testing.T) {
	cache := memory.NewCache()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("key-%d", i)
			_ = cache.Set(ctx, key, []byte(key))
			_, _ = cache.Get(ctx, key)
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 16, cache.Len())
}

func TestInMemoryLoader_Contract(t *testing.T) {
	loader := memory.NewLoader(map[string]domain.VariableSet{
		"login": domain.NewVariableSet(domain.Bool("userLoggedIn"), domain.Enum("theme", "light", "dark")),
		"flags": domain.NewVariableSet(domain.Bool("beta")),
	})

	contract.SetLoaderContractTest(t, loader, map[string][]string{
		"login": {"userLoggedIn", "theme"},
		"flags": {"beta"},
	})
}

func TestInMemoryLoader_Register(t *testing.T) {
	loader := memory.NewLoader(nil)
	require.Error(t, loader.Register("", nil))

	set := domain.NewVariableSet(domain.Enum("theme", "light"))
	require.NoError(t, loader.Register("ui", set))
	set[0].Domain[0] = "changed"

	got, err := loader.LoadSet(context.Background(), "ui")
	require.NoError(t, err)
	assert.Equal(t, "light", got[0].Domain[0])

	_, err = loader.LoadSet(context.Background(), "other")
	assert.ErrorIs(t, err, domain.ErrSetNotFound)
}
