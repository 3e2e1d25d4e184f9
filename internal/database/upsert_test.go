package database

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"pricefeed/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *Database {
	t.Helper()
	db, err := New("sqlite://" + filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestUpsertInsertsAndOverwrites(t *testing.T) {
	db := newTestDB(t)
	now := time.Now().UTC()

	rows := []models.Price{
		{ProductID: 1, ValidFrom: "2025-12-13", Price: 100, Active: true, UpdatedAt: now},
		{ProductID: 1, ValidFrom: "2025-12-14", Price: 100, Active: true, UpdatedAt: now},
	}
	require.NoError(t, db.Upsert(rows, []string{"product_id", "valid_from"}, DefaultChunkSize))

	var count int64
	db.DB.Model(&models.Price{}).Count(&count)
	assert.Equal(t, int64(2), count)

	// same keys, new price: overwritten, not duplicated
	rows[0].Price = 250
	require.NoError(t, db.Upsert(rows, []string{"product_id", "valid_from"}, DefaultChunkSize))

	db.DB.Model(&models.Price{}).Count(&count)
	assert.Equal(t, int64(2), count)

	var got models.Price
	require.NoError(t, db.DB.First(&got, "product_id = ? AND valid_from = ?", 1, "2025-12-13").Error)
	assert.Equal(t, int64(250), got.Price)
}

func TestUpsertIdempotentRerun(t *testing.T) {
	db := newTestDB(t)
	now := time.Now().UTC()

	products := []models.Product{
		{ProductID: 1, Category: "skitickets", Age: "adult", Duration: "1d", UpdatedAt: now},
		{ProductID: 2, Category: "skitickets", Age: "child", Duration: "2d", UpdatedAt: now},
	}

	require.NoError(t, db.Upsert(products, []string{"product_id"}, DefaultChunkSize))
	require.NoError(t, db.Upsert(products, []string{"product_id"}, DefaultChunkSize))

	var count int64
	db.DB.Model(&models.Product{}).Count(&count)
	assert.Equal(t, int64(2), count)
}

func TestUpsertChunksLargeBatches(t *testing.T) {
	db := newTestDB(t)
	now := time.Now().UTC()

	rows := make([]models.Price, 25)
	for i := range rows {
		rows[i] = models.Price{
			ProductID: int64(i + 1),
			ValidFrom: "2025-12-13",
			Price:     100,
			UpdatedAt: now,
		}
	}

	require.NoError(t, db.Upsert(rows, []string{"product_id", "valid_from"}, 10))

	var count int64
	db.DB.Model(&models.Price{}).Count(&count)
	assert.Equal(t, int64(25), count)
}

func TestUpsertEmptyIsNoop(t *testing.T) {
	db := newTestDB(t)
	assert.NoError(t, db.Upsert([]models.Price{}, []string{"product_id", "valid_from"}, DefaultChunkSize))
}

func TestUpsertRejectsNonSlice(t *testing.T) {
	db := newTestDB(t)
	err := db.Upsert(models.Price{ProductID: 1}, []string{"product_id"}, DefaultChunkSize)
	assert.Error(t, err)
	assert.Equal(t, fmt.Sprintf("upsert expects a slice, got %T", models.Price{}), err.Error())
}
