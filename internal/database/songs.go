package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Conceptual-Machines/magda-patterns/internal/models"
	"github.com/Conceptual-Machines/magda-patterns/internal/song"
)

var ErrSongNotFound = errors.New("song not found")

const defaultListLimit = 50

// SongRepository stores song documents in Postgres
type SongRepository struct {
	db *gorm.DB
}

func NewSongRepository(db *gorm.DB) *SongRepository {
	return &SongRepository{db: db}
}

// Create stores s and returns the new record
func (r *SongRepository) Create(ctx context.Context, s *song.Song, ownerID string) (*models.SongRecord, error) {
	record, err := NewSongRecord(s, ownerID)
	if err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return nil, fmt.Errorf("failed to store song: %w", err)
	}
	return record, nil
}

// Get loads a stored song by id
func (r *SongRepository) Get(ctx context.Context, id uuid.UUID) (*song.Song, *models.SongRecord, error) {
	var record models.SongRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrSongNotFound
		}
		return nil, nil, fmt.Errorf("failed to load song: %w", err)
	}

	s, err := DecodeSong(&record)
	if err != nil {
		return nil, nil, err
	}
	return s, &record, nil
}

// List returns the newest records of an owner, without documents decoded
func (r *SongRepository) List(ctx context.Context, ownerID string, limit int) ([]models.SongRecord, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	var records []models.SongRecord
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list songs: %w", err)
	}
	return records, nil
}

// Delete soft-deletes a stored song
func (r *SongRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.SongRecord{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete song: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrSongNotFound
	}
	return nil
}

// NewSongRecord encodes s into a record ready to be created
func NewSongRecord(s *song.Song, ownerID string) (*models.SongRecord, error) {
	doc, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to encode song: %w", err)
	}
	return &models.SongRecord{
		Name:     s.Name,
		OwnerID:  ownerID,
		Channels: len(s.Channels),
		Document: string(doc),
	}, nil
}

// DecodeSong decodes the document of a record
func DecodeSong(record *models.SongRecord) (*song.Song, error) {
	var s song.Song
	if err := json.Unmarshal([]byte(record.Document), &s); err != nil {
		return nil, fmt.Errorf("failed to decode song %s: %w", record.ID, err)
	}
	return &s, nil
}
