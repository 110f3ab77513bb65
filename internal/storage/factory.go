package storage

import (
	"github.com/ternarybob/arbor"

	"github.com/atlascap/maradar/internal/common"
	"github.com/atlascap/maradar/internal/interfaces"
	"github.com/atlascap/maradar/internal/storage/badger"
)

// NewStorageManager creates the storage manager for the configured backend.
// A nil manager is returned when no path is configured: callers treat that
// as persistence disabled.
func NewStorageManager(logger arbor.ILogger, config *common.Config) (interfaces.StorageManager, error) {
	if config.Storage.Badger.Path == "" {
		logger.Warn().Msg("No storage path configured, persistence disabled")
		return nil, nil
	}
	return badger.NewManager(logger, &config.Storage.Badger)
}
