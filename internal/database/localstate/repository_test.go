package localstate

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/littyapp/litty/internal/entities"
)

func setupTestDB(t *testing.T) (*Repository, func()) {
	dbPath := "./test_localstate_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.Entry{})
	require.NoError(t, err)

	repo := NewRepository(db)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return repo, cleanup
}

func TestRepository_Set_New(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	err := repo.Set(entities.KeyUsername, "reader")
	require.NoError(t, err)

	entry, err := repo.Get(entities.KeyUsername)
	require.NoError(t, err)
	assert.Equal(t, entities.KeyUsername, entry.Key)
	assert.Equal(t, "reader", entry.Value)
}

func TestRepository_Set_Replace(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	err := repo.Set(entities.KeyToken, "old-token")
	require.NoError(t, err)

	err = repo.Set(entities.KeyToken, "new-token")
	require.NoError(t, err)

	entry, err := repo.Get(entities.KeyToken)
	require.NoError(t, err)
	assert.Equal(t, "new-token", entry.Value)
}

func TestRepository_Get_NotFound(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.Get("nonexistent")

	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepository_Delete(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	err := repo.Set(entities.KeyEmail, "reader@example.com")
	require.NoError(t, err)

	err = repo.Delete(entities.KeyEmail)
	require.NoError(t, err)

	_, err = repo.Get(entities.KeyEmail)
	assert.Error(t, err)
}

func TestRepository_Delete_NonExistent(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	// Should not error even if key doesn't exist
	err := repo.Delete("nonexistent")
	assert.NoError(t, err)
}
