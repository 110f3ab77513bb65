package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlascap/maradar/internal/common"
	"github.com/atlascap/maradar/internal/interfaces"
	"github.com/atlascap/maradar/internal/models"
	"github.com/atlascap/maradar/internal/services/scoring"
)

type stubCollector struct {
	name    string
	signals []*models.Signal
	err     error
}

func (c *stubCollector) Name() string { return c.name }

func (c *stubCollector) Collect(ctx context.Context) ([]*models.Signal, error) {
	return c.signals, c.err
}

// stubOracle answers analysis prompts with a canned score and memo prompts
// with a fixed memo, tracking memo invocations for the gating tests.
type stubOracle struct {
	score     int
	urgency   string
	memoCalls int
}

func (o *stubOracle) Complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	if strings.Contains(prompt, "mémo") {
		o.memoCalls++
		return "Mémo d'opportunité généré.", nil
	}
	return fmt.Sprintf(`{"entreprise": "Cible Test", "secteur": "distribution",
		"type_deal_probable": "acquisition", "signaux_identifies": ["transmission_succession"],
		"score_ma": %d, "urgence": "%s", "fenetre_action": "3 mois",
		"recommandation": "Contacter la cible", "pertinent": true}`, o.score, o.urgency), nil
}

func (o *stubOracle) Close() error { return nil }

type memStorage struct {
	signals       []*models.Signal
	opportunities map[string]*models.Opportunity
	failSignals   bool
}

func newMemStorage() *memStorage {
	return &memStorage{opportunities: make(map[string]*models.Opportunity)}
}

func (m *memStorage) SignalStorage() interfaces.SignalStorage           { return m }
func (m *memStorage) OpportunityStorage() interfaces.OpportunityStorage { return m }
func (m *memStorage) Close() error                                      { return nil }

func (m *memStorage) SaveSignal(signal *models.Signal) error {
	if m.failSignals {
		return errors.New("disk full")
	}
	m.signals = append(m.signals, signal)
	return nil
}

func (m *memStorage) ListSignals(limit int) ([]*models.Signal, error) {
	return m.signals, nil
}

func (m *memStorage) SaveOpportunity(opp *models.Opportunity) error {
	m.opportunities[opp.Company] = opp
	return nil
}

func (m *memStorage) GetOpportunity(company string) (*models.Opportunity, error) {
	return m.opportunities[company], nil
}

func (m *memStorage) ListOpportunities(limit int) ([]*models.Opportunity, error) {
	opps := make([]*models.Opportunity, 0, len(m.opportunities))
	for _, opp := range m.opportunities {
		opps = append(opps, opp)
	}
	sort.Slice(opps, func(i, j int) bool { return opps[i].FinalScore > opps[j].FinalScore })
	return opps, nil
}

func newTestService(oracle *stubOracle, storage interfaces.StorageManager, collectors ...interfaces.Collector) *Service {
	engine := scoring.NewEngine(oracle, common.NewDefaultConfig(), common.GetLogger())
	return NewService(collectors, engine, storage, common.GetLogger())
}

func TestRunPersistsCritiqueWithMemo(t *testing.T) {
	oracle := &stubOracle{score: 95, urgency: "critique"}
	storage := newMemStorage()
	collector := &stubCollector{name: "test", signals: []*models.Signal{
		sig("Presse Économique", "Succession chez Atlas Distrib", "Atlas Distrib"),
	}}

	report, err := newTestService(oracle, storage, collector).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, report.Collected)
	assert.Equal(t, 1, report.Critique)
	assert.Equal(t, 1, report.Opportunities)
	assert.Equal(t, 1, oracle.memoCalls)

	require.Len(t, storage.signals, 1)
	assert.Equal(t, models.TierCritique, storage.signals[0].AlertTier)
	assert.Equal(t, "Mémo d'opportunité généré.", storage.signals[0].Memo)

	opp := storage.opportunities["Atlas Distrib"]
	require.NotNil(t, opp)
	assert.Equal(t, "Mémo d'opportunité généré.", opp.Memo)
	assert.Equal(t, "nouveau", opp.Status)
}

func TestRunNoMemoBelowCritique(t *testing.T) {
	// Score 85 with a fort urgency blends to 72: VIGILANCE. The opportunity
	// is persisted without a memo.
	oracle := &stubOracle{score: 85, urgency: "fort"}
	storage := newMemStorage()
	collector := &stubCollector{name: "test", signals: []*models.Signal{
		sig("Presse Économique", "Cession partielle annoncée", "Cible Test"),
	}}

	report, err := newTestService(oracle, storage, collector).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, report.Vigilance)
	assert.Equal(t, 0, report.Critique)
	assert.Equal(t, 0, oracle.memoCalls)
	assert.Equal(t, 1, report.Opportunities)
	assert.Empty(t, storage.opportunities["Cible Test"].Memo)
}

func TestRunFaibleTierNotPersistedAsOpportunity(t *testing.T) {
	oracle := &stubOracle{score: 20, urgency: "faible"}
	storage := newMemStorage()
	collector := &stubCollector{name: "test", signals: []*models.Signal{
		sig("Presse Économique", "Signal faible", "Petite Cible"),
	}}

	report, err := newTestService(oracle, storage, collector).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, report.Faible)
	assert.Equal(t, 0, report.Opportunities)
	// The scored signal is archived regardless of tier.
	assert.Len(t, storage.signals, 1)
	assert.Empty(t, storage.opportunities)
}

func TestRunIsolatesCollectorFailure(t *testing.T) {
	oracle := &stubOracle{score: 50, urgency: "faible"}
	broken := &stubCollector{name: "broken", err: errors.New("timeout")}
	healthy := &stubCollector{name: "healthy", signals: []*models.Signal{
		sig("Presse Économique", "Acquisition en cours", "Cible Saine"),
	}}

	report, err := newTestService(oracle, newMemStorage(), broken, healthy).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Collected)
}

func TestRunQuietDay(t *testing.T) {
	oracle := &stubOracle{score: 50, urgency: "faible"}
	empty := &stubCollector{name: "empty"}

	report, err := newTestService(oracle, newMemStorage(), empty).Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, report.Collected)
	assert.Zero(t, report.Opportunities)
}

func TestRunDeduplicatesAcrossCollectors(t *testing.T) {
	oracle := &stubOracle{score: 50, urgency: "faible"}
	a := &stubCollector{name: "a", signals: []*models.Signal{
		sig("Presse Économique", "t1", "Atlas Distrib"),
	}}
	b := &stubCollector{name: "b", signals: []*models.Signal{
		sig("Bulletin Officiel", "t2", "atlas distrib"),
	}}

	report, err := newTestService(oracle, newMemStorage(), a, b).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, report.Collected)
	assert.Equal(t, 1, report.Unique)
}

func TestRunSurvivesStorageFailure(t *testing.T) {
	oracle := &stubOracle{score: 95, urgency: "critique"}
	storage := newMemStorage()
	storage.failSignals = true
	collector := &stubCollector{name: "test", signals: []*models.Signal{
		sig("Presse Économique", "t1", "Atlas Distrib"),
	}}

	report, err := newTestService(oracle, storage, collector).Run(context.Background())
	require.NoError(t, err)
	// Signal save failed but the opportunity path still ran.
	assert.Equal(t, 1, report.Opportunities)
}

func TestRunNilStorageIsNoOp(t *testing.T) {
	oracle := &stubOracle{score: 95, urgency: "critique"}
	collector := &stubCollector{name: "test", signals: []*models.Signal{
		sig("Presse Économique", "t1", "Atlas Distrib"),
	}}

	report, err := newTestService(oracle, nil, collector).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Critique)
	assert.Equal(t, 0, report.Opportunities)
	// Memo generation is tier-driven, not storage-driven.
	assert.Equal(t, 1, oracle.memoCalls)
}
