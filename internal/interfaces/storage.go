package interfaces

import "github.com/atlascap/maradar/internal/models"

// SignalStorage is the append-only sink for scored signals.
type SignalStorage interface {
	// SaveSignal inserts one scored signal. Every call creates a new record.
	SaveSignal(signal *models.Signal) error

	// ListSignals returns the most recent signals, newest first.
	ListSignals(limit int) ([]*models.Signal, error)
}

// OpportunityStorage holds the ranked opportunity per company.
type OpportunityStorage interface {
	// SaveOpportunity upserts the record keyed by company identity,
	// overwriting any prior record for the same company.
	SaveOpportunity(opp *models.Opportunity) error

	// GetOpportunity fetches one record by company name.
	GetOpportunity(company string) (*models.Opportunity, error)

	// ListOpportunities returns opportunities ordered by final score descending.
	ListOpportunities(limit int) ([]*models.Opportunity, error)
}

// StorageManager bundles the persistence stores behind one lifecycle.
type StorageManager interface {
	SignalStorage() SignalStorage
	OpportunityStorage() OpportunityStorage
	Close() error
}
