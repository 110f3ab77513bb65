package badger

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ternarybob/arbor"
	"github.com/timshannon/badgerhold/v4"

	"github.com/atlascap/maradar/internal/interfaces"
	"github.com/atlascap/maradar/internal/models"
)

// SignalStorage implements the SignalStorage interface for Badger. Signals
// are append-only: one record per scored signal per run, the daily history
// of the radar.
type SignalStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewSignalStorage creates a new SignalStorage instance
func NewSignalStorage(db *BadgerDB, logger arbor.ILogger) interfaces.SignalStorage {
	return &SignalStorage{
		db:     db,
		logger: logger,
	}
}

func (s *SignalStorage) SaveSignal(signal *models.Signal) error {
	if signal.ID == "" {
		signal.ID = uuid.New().String()
	}
	if signal.CreatedAt.IsZero() {
		signal.CreatedAt = time.Now()
	}

	if err := s.db.Store().Insert(signal.ID, signal); err != nil {
		return fmt.Errorf("failed to save signal: %w", err)
	}
	return nil
}

func (s *SignalStorage) ListSignals(limit int) ([]*models.Signal, error) {
	var signals []models.Signal
	query := badgerhold.Where("ID").Ne("").SortBy("CreatedAt").Reverse()
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := s.db.Store().Find(&signals, query); err != nil {
		return nil, fmt.Errorf("failed to list signals: %w", err)
	}

	result := make([]*models.Signal, len(signals))
	for i := range signals {
		result[i] = &signals[i]
	}
	return result, nil
}
