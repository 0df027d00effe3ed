package persistence

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrations(t *testing.T) {
	entries, err := fs.ReadDir(migrationsFS, migrationsDir)
	require.NoError(t, err)

	var names []string
	for _, entry := range entries {
		names = append(names, entry.Name())
		body, err := fs.ReadFile(migrationsFS, migrationsDir+"/"+entry.Name())
		require.NoError(t, err)
		assert.Contains(t, string(body), "-- +goose Up", entry.Name())
		assert.Contains(t, string(body), "-- +goose Down", entry.Name())
	}
	assert.Equal(t, []string{"00001_create_users.sql", "00002_create_tasks.sql"}, names)

	tasks, err := fs.ReadFile(migrationsFS, migrationsDir+"/00002_create_tasks.sql")
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(tasks), "BETWEEN 2 AND 200"))
}
