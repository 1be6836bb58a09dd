package testutils

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/loam"
	"github.com/aretw0/loam/pkg/core"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/statespace/pkg/domain"
)

// LoginSet is the two-variable set used across tests:
// userLoggedIn (boolean) and theme (enum light, dark).
func LoginSet() domain.VariableSet {
	return domain.NewVariableSet(
		domain.Bool("userLoggedIn"),
		domain.Enum("theme", "light", "dark"),
	)
}

// LoginSetYAML is LoginSet as a single-set YAML document.
const LoginSetYAML = `name: login
variables:
  - name: userLoggedIn
    kind: boolean
  - name: theme
    kind: enum
    domain: [light, dark]
`

// SetupTestRepo creates a temporary directory and initializes a Loam repository in it.
// It returns the absolute path to the temp dir and the initialized repository.
// It fails the test immediately on error.
func SetupTestRepo(t *testing.T, opts ...loam.Option) (string, core.Repository) {
	t.Helper()

	absPath, err := filepath.Abs(t.TempDir())
	require.NoError(t, err, "Failed to get absolute path for temp dir")

	repo, err := loam.Init(absPath, opts...)
	require.NoError(t, err, "Failed to init loam repo")

	return absPath, repo
}

// SaveDocuments stores raw documents (ID to content) in repo.
func SaveDocuments(t *testing.T, repo core.Repository, docs map[string]string) {
	t.Helper()
	ctx := context.Background()
	for id, content := range docs {
		require.NoError(t, repo.Save(ctx, core.Document{ID: id, Content: content}), "Failed to save %s", id)
	}
}

// WriteFile writes content to name inside a fresh temp dir and returns its path.
func WriteFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}
