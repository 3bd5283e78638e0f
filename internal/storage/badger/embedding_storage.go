package badger

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/discere/internal/interfaces"
	"github.com/ternarybob/discere/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// EmbeddingStorage implements the EmbeddingStorage interface for Badger.
// The cache is insert-if-absent: concurrent misses for the same videoId may
// race to compute and insert independently, but an existing entry is never
// overwritten.
type EmbeddingStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewEmbeddingStorage creates a new EmbeddingStorage instance
func NewEmbeddingStorage(db *BadgerDB, logger arbor.ILogger) interfaces.EmbeddingStorage {
	return &EmbeddingStorage{
		db:     db,
		logger: logger,
	}
}

// GetEmbedding retrieves a cached embedding by video ID
func (s *EmbeddingStorage) GetEmbedding(ctx context.Context, videoID string) (*models.VideoEmbedding, error) {
	if videoID == "" {
		return nil, fmt.Errorf("video ID is required")
	}

	var embedding models.VideoEmbedding
	err := s.db.Store().Get(videoID, &embedding)
	if err == badgerhold.ErrNotFound {
		return nil, interfaces.ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get embedding: %w", err)
	}
	return &embedding, nil
}

// InsertIfAbsent stores the embedding only when no entry exists for its
// VideoID. Returns true when a new entry was written. badgerhold.Insert
// returns ErrKeyExists for duplicates, which keeps the operation atomic
// without a read-then-write race.
func (s *EmbeddingStorage) InsertIfAbsent(ctx context.Context, embedding *models.VideoEmbedding) (bool, error) {
	if embedding == nil || embedding.VideoID == "" {
		return false, fmt.Errorf("video ID is required")
	}

	embedding.UpdatedAt = time.Now().UTC()

	err := s.db.Store().Insert(embedding.VideoID, embedding)
	if err == badgerhold.ErrKeyExists {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to insert embedding: %w", err)
	}

	s.logger.Debug().
		Str("video_id", embedding.VideoID).
		Int("dimension", len(embedding.Embedding)).
		Msg("Embedding cached")

	return true, nil
}

// CountEmbeddings returns the total number of cached embeddings
func (s *EmbeddingStorage) CountEmbeddings(ctx context.Context) (int, error) {
	count, err := s.db.Store().Count(&models.VideoEmbedding{}, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to count embeddings: %w", err)
	}
	return int(count), nil
}
