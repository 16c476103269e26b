package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/acadboard/timetable-api/internal/models"
)

// CatalogRepository reads the room and batch catalogs used for capacity
// conflict checks and display labels.
type CatalogRepository struct {
	db *sqlx.DB
}

// NewCatalogRepository creates a new catalog repository.
func NewCatalogRepository(db *sqlx.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// ListRooms returns all rooms.
func (r *CatalogRepository) ListRooms(ctx context.Context) ([]models.Room, error) {
	var rooms []models.Room
	err := r.db.SelectContext(ctx, &rooms,
		"SELECT id, name, capacity, created_at FROM rooms ORDER BY name ASC")
	if err != nil {
		return nil, err
	}
	return rooms, nil
}

// ListBatches returns all batches.
func (r *CatalogRepository) ListBatches(ctx context.Context) ([]models.Batch, error) {
	var batches []models.Batch
	err := r.db.SelectContext(ctx, &batches,
		"SELECT id, name, strength, created_at FROM batches ORDER BY name ASC")
	if err != nil {
		return nil, err
	}
	return batches, nil
}
