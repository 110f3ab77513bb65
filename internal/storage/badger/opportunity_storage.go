package badger

import (
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/timshannon/badgerhold/v4"

	"github.com/atlascap/maradar/internal/interfaces"
	"github.com/atlascap/maradar/internal/models"
)

// OpportunityStorage implements the OpportunityStorage interface for Badger.
// One record per company, upserted so repeat signals refresh the score
// instead of duplicating the lead.
type OpportunityStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewOpportunityStorage creates a new OpportunityStorage instance
func NewOpportunityStorage(db *BadgerDB, logger arbor.ILogger) interfaces.OpportunityStorage {
	return &OpportunityStorage{
		db:     db,
		logger: logger,
	}
}

func (s *OpportunityStorage) SaveOpportunity(opp *models.Opportunity) error {
	if opp.Company == "" {
		return fmt.Errorf("opportunity company is required")
	}

	now := time.Now()
	if existing, err := s.GetOpportunity(opp.Company); err == nil && existing != nil {
		opp.CreatedAt = existing.CreatedAt
		// A pipeline refresh carries the default status; an analyst's manual
		// follow-up status survives it.
		if opp.Status == "nouveau" && existing.Status != "" {
			opp.Status = existing.Status
		}
	}
	if opp.CreatedAt.IsZero() {
		opp.CreatedAt = now
	}
	opp.UpdatedAt = now

	if err := s.db.Store().Upsert(opp.Company, opp); err != nil {
		return fmt.Errorf("failed to save opportunity: %w", err)
	}
	return nil
}

func (s *OpportunityStorage) GetOpportunity(company string) (*models.Opportunity, error) {
	var opp models.Opportunity
	if err := s.db.Store().Get(company, &opp); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("opportunity not found: %s", company)
		}
		return nil, fmt.Errorf("failed to get opportunity: %w", err)
	}
	return &opp, nil
}

func (s *OpportunityStorage) ListOpportunities(limit int) ([]*models.Opportunity, error) {
	var opps []models.Opportunity
	query := badgerhold.Where("Company").Ne("").SortBy("FinalScore").Reverse()
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := s.db.Store().Find(&opps, query); err != nil {
		return nil, fmt.Errorf("failed to list opportunities: %w", err)
	}

	result := make([]*models.Opportunity, len(opps))
	for i := range opps {
		result[i] = &opps[i]
	}
	return result, nil
}
