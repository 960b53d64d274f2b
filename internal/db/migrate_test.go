package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPendingMigrations_OnlyUpFilesInOrder(t *testing.T) {
	names, err := PendingMigrations()
	require.NoError(t, err)
	require.NotEmpty(t, names)

	assert.Equal(t, "0001_init.up.sql", names[0])
	for _, n := range names {
		assert.Contains(t, n, ".up.sql")
	}
}

func TestInitMigration_DeclaresReviewUniqueness(t *testing.T) {
	b, err := migrationsFS.ReadFile("migrations/0001_init.up.sql")
	require.NoError(t, err)
	assert.Contains(t, string(b), "UNIQUE (film_id, user_id)")
	assert.Contains(t, string(b), "ON DELETE CASCADE")
}
