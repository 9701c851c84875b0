package shared

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRunMigrations(t *testing.T) {
	t.Run("creates the matches table", func(t *testing.T) {
		db := openTestDB(t)
		require.NoError(t, RunMigrations(db))

		_, err := db.Exec(`INSERT INTO matches (video_id, track_key, spotify_id, spotify_uri, spotify_title, spotify_artist, confidence)
			VALUES ('vid1', 'shape of you|ed sheeran', 'sp1', 'spotify:track:sp1', 'Shape of You', 'Ed Sheeran', 92)`)
		assert.NoError(t, err)
	})

	t.Run("is idempotent", func(t *testing.T) {
		db := openTestDB(t)
		require.NoError(t, RunMigrations(db))
		require.NoError(t, RunMigrations(db))

		var version int
		require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM schema_migrations`).Scan(&version))
		assert.Equal(t, 1, version)
	})

	t.Run("enforces unique video id", func(t *testing.T) {
		db := openTestDB(t)
		require.NoError(t, RunMigrations(db))

		insert := `INSERT INTO matches (video_id, track_key, spotify_id, spotify_uri, spotify_title, spotify_artist, confidence)
			VALUES ('vid1', 'k', 's', 'u', 't', 'a', 90)`
		_, err := db.Exec(insert)
		require.NoError(t, err)

		_, err = db.Exec(insert)
		assert.Error(t, err)
	})
}

func TestRollbackMigration(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, RunMigrations(db))
	require.NoError(t, RollbackMigration(db))

	_, err := db.Exec(`SELECT COUNT(*) FROM matches`)
	assert.Error(t, err)
}

func TestNewDatabase(t *testing.T) {
	path := t.TempDir() + "/test.db"

	db, err := NewDatabase(path)
	require.NoError(t, err)
	defer db.Close()

	ConfigureDatabase(db, 5, 2)
	assert.NoError(t, db.Ping())
}
