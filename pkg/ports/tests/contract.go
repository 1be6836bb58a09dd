package tests

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/statespace/pkg/domain"
	"github.com/aretw0/statespace/pkg/ports"
)

// SetLoaderContractTest is a reusable test suite that verifies if an adapter complies with ports.SetLoader.
// expected maps every set the loader must expose to its variable names in declaration order.
func SetLoaderContractTest(t *testing.T, loader ports.SetLoader, expected map[string][]string) {
	t.Helper()
	ctx := context.Background()

	// 1. Test LoadSet (Success)
	t.Run("LoadSet_Success", func(t *testing.T) {
		for name, wantNames := range expected {
			set, err := loader.LoadSet(ctx, name)
			if err != nil {
				t.Fatalf("unexpected error loading set %s: %v", name, err)
			}
			got := set.Names()
			if len(got) != len(wantNames) {
				t.Fatalf("set %s: got %d variables %v, want %v", name, len(got), got, wantNames)
			}
			for i := range got {
				if got[i] != wantNames[i] {
					t.Errorf("set %s: variable %d is %q, want %q", name, i, got[i], wantNames[i])
				}
			}
			for i, v := range set {
				if !v.Kind.Valid() {
					t.Errorf("set %s: variable %d has invalid kind %q", name, i, v.Kind)
				}
			}
		}
	})

	// 2. Test LoadSet (NotFound)
	t.Run("LoadSet_NotFound", func(t *testing.T) {
		_, err := loader.LoadSet(ctx, "non-existent-set")
		if !errors.Is(err, domain.ErrSetNotFound) {
			t.Errorf("expected ErrSetNotFound, got %v", err)
		}
	})

	// 3. Test ListSets
	t.Run("ListSets", func(t *testing.T) {
		names, err := loader.ListSets(ctx)
		if err != nil {
			t.Fatalf("unexpected error listing sets: %v", err)
		}

		if len(names) != len(expected) {
			t.Errorf("expected %d sets, got %d (%v)", len(expected), len(names), names)
		}

		for i := 1; i < len(names); i++ {
			if names[i-1] > names[i] {
				t.Errorf("sets are not sorted: %v", names)
				break
			}
		}

		lookup := make(map[string]bool)
		for _, name := range names {
			lookup[name] = true
		}
		for name := range expected {
			if !lookup[name] {
				t.Errorf("set %s missing from list", name)
			}
		}
	})

	// 4. Loaded sets are independent copies
	t.Run("LoadSet_Isolated", func(t *testing.T) {
		for name := range expected {
			first, err := loader.LoadSet(ctx, name)
			if err != nil || len(first) == 0 {
				continue
			}
			first[0].Name = "mutated"
			second, err := loader.LoadSet(ctx, name)
			if err != nil {
				t.Fatalf("unexpected error reloading set %s: %v", name, err)
			}
			if second[0].Name == "mutated" {
				t.Errorf("set %s: loader returned shared state", name)
			}
			return
		}
	})
}
