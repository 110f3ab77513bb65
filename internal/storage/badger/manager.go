package badger

import (
	"github.com/ternarybob/arbor"

	"github.com/atlascap/maradar/internal/common"
	"github.com/atlascap/maradar/internal/interfaces"
)

// Manager implements the StorageManager interface for Badger
type Manager struct {
	db          *BadgerDB
	signal      interfaces.SignalStorage
	opportunity interfaces.OpportunityStorage
	logger      arbor.ILogger
}

// NewManager creates a new Badger storage manager
func NewManager(logger arbor.ILogger, config *common.BadgerConfig) (interfaces.StorageManager, error) {
	db, err := NewBadgerDB(logger, config)
	if err != nil {
		return nil, err
	}

	manager := &Manager{
		db:          db,
		signal:      NewSignalStorage(db, logger),
		opportunity: NewOpportunityStorage(db, logger),
		logger:      logger,
	}

	logger.Info().Msg("Badger storage manager initialized")

	return manager, nil
}

// SignalStorage returns the Signal storage interface
func (m *Manager) SignalStorage() interfaces.SignalStorage {
	return m.signal
}

// OpportunityStorage returns the Opportunity storage interface
func (m *Manager) OpportunityStorage() interfaces.OpportunityStorage {
	return m.opportunity
}

// Close closes the database connection
func (m *Manager) Close() error {
	if m.db != nil {
		return m.db.Close()
	}
	return nil
}
