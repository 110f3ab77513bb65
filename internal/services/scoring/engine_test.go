package scoring

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/atlascap/maradar/internal/common"
	"github.com/atlascap/maradar/internal/models"
)

// stubOracle responds per prompt. When respond is nil it always returns
// response/err; otherwise respond picks the reply from the prompt text.
type stubOracle struct {
	response string
	err      error
	respond  func(prompt string) (string, error)
	calls    int
	prompts  []string
}

func (s *stubOracle) Complete(_ context.Context, prompt string, _ int) (string, error) {
	s.calls++
	s.prompts = append(s.prompts, prompt)
	if s.respond != nil {
		return s.respond(prompt)
	}
	return s.response, s.err
}

func (s *stubOracle) Close() error { return nil }

func newTestEngine(oracle *stubOracle) *Engine {
	return NewEngine(oracle, common.NewDefaultConfig(), arbor.NewLogger())
}

func TestAnalyzeEndToEnd(t *testing.T) {
	oracle := &stubOracle{response: sampleAnalysisJSON}
	engine := newTestEngine(oracle)

	signal := models.NewSignal("press", "Founder of Atlas Distrib. seeks successor", "", "", models.CategoryTransmission)
	enriched := engine.Analyze(context.Background(), signal)

	assert.Equal(t, 85, enriched.OracleScore)
	assert.Equal(t, 77, enriched.FinalScore)
	assert.Equal(t, models.TierVigilance, enriched.AlertTier)
	assert.Equal(t, "Atlas Distrib", enriched.Company)
	assert.True(t, enriched.Relevant)

	// Original collector fields survive enrichment.
	assert.Equal(t, "press", enriched.Source)
	assert.Equal(t, models.CategoryTransmission, enriched.Category)
}

func TestAnalyzeOracleFailure(t *testing.T) {
	oracle := &stubOracle{err: errors.New("api: rate limited")}
	engine := newTestEngine(oracle)

	signal := models.NewSignal("press", "Label'Vie succession", "", "", models.CategoryTransmission)
	enriched := engine.Analyze(context.Background(), signal)

	assert.Equal(t, 0, enriched.FinalScore)
	assert.Equal(t, models.TierErreur, enriched.AlertTier)
	assert.False(t, enriched.Relevant)
	assert.Contains(t, enriched.Error, "rate limited")
}

func TestAnalyzeParseFailure(t *testing.T) {
	oracle := &stubOracle{response: "Désolé, je ne peux pas répondre en JSON aujourd'hui."}
	engine := newTestEngine(oracle)

	signal := models.NewSignal("press", "Akdital lève 500 MDH", "", "", models.CategoryBesoinCash)
	enriched := engine.Analyze(context.Background(), signal)

	assert.Equal(t, 0, enriched.OracleScore)
	assert.Equal(t, 0, enriched.FinalScore)
	assert.Equal(t, models.TierFaible, enriched.AlertTier)
	assert.False(t, enriched.Relevant)
	assert.Equal(t, parseFailureRecommendation, enriched.Recommendation)
	assert.Contains(t, enriched.RawOracleResponse, "Désolé")
}

func TestAnalyzeDoesNotOverwriteCompany(t *testing.T) {
	oracle := &stubOracle{response: sampleAnalysisJSON}
	engine := newTestEngine(oracle)

	signal := models.NewSignal("registry", "Modification de capital", "", "", models.CategoryBesoinCash)
	signal.Company = "Dislog Group"

	enriched := engine.Analyze(context.Background(), signal)
	assert.Equal(t, "Dislog Group", enriched.Company)
}

func TestAnalyzeBatchResilience(t *testing.T) {
	oracle := &stubOracle{err: errors.New("connection refused")}
	engine := newTestEngine(oracle)

	signals := make([]*models.Signal, 5)
	for i := range signals {
		signals[i] = models.NewSignal("press", fmt.Sprintf("signal %d", i), "", "", models.CategoryGenerique)
	}

	results := engine.AnalyzeBatch(context.Background(), signals)

	require.Len(t, results, 5)
	for _, r := range results {
		assert.Equal(t, models.TierErreur, r.AlertTier)
		assert.Equal(t, 0, r.FinalScore)
	}
}

func TestAnalyzeBatchStableOrdering(t *testing.T) {
	// Score by title embedded in the prompt; b and c tie so their input
	// order must survive the sort.
	scores := map[string]int{"alpha": 50, "bravo": 90, "charlie": 90, "delta": 20}
	oracle := &stubOracle{
		respond: func(prompt string) (string, error) {
			for title, score := range scores {
				if strings.Contains(prompt, title) {
					return fmt.Sprintf(`{"score_ma": %d, "urgence": "faible", "pertinent": true}`, score), nil
				}
			}
			return "", errors.New("unknown signal")
		},
	}
	engine := newTestEngine(oracle)

	signals := []*models.Signal{
		models.NewSignal("press", "alpha", "", "", models.CategoryGenerique),
		models.NewSignal("press", "bravo", "", "", models.CategoryGenerique),
		models.NewSignal("press", "charlie", "", "", models.CategoryGenerique),
		models.NewSignal("press", "delta", "", "", models.CategoryGenerique),
	}

	results := engine.AnalyzeBatch(context.Background(), signals)
	require.Len(t, results, 4)

	titles := make([]string, len(results))
	for i, r := range results {
		titles[i] = r.Title
	}
	assert.Equal(t, []string{"bravo", "charlie", "alpha", "delta"}, titles)

	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i-1].FinalScore, results[i].FinalScore)
	}
}

func TestGenerateMemo(t *testing.T) {
	oracle := &stubOracle{response: "1. Situation actuelle : ..."}
	engine := newTestEngine(oracle)

	signal := models.NewSignal("press", "Marjane acquisition", "", "", models.CategoryAcquereuActif)
	signal.Company = "Marjane Holding"
	signal.FinalScore = 88
	signal.AlertTier = models.TierCritique

	memo := engine.GenerateMemo(context.Background(), signal)
	assert.Contains(t, memo, "Situation actuelle")
	require.Len(t, oracle.prompts, 1)
	assert.Contains(t, oracle.prompts[0], "Marjane Holding")
}

func TestGenerateMemoOracleFailure(t *testing.T) {
	oracle := &stubOracle{err: errors.New("timeout")}
	engine := newTestEngine(oracle)

	signal := models.NewSignal("press", "Marjane acquisition", "", "", models.CategoryAcquereuActif)
	memo := engine.GenerateMemo(context.Background(), signal)

	assert.Contains(t, memo, "Erreur génération mémo")
	assert.Contains(t, memo, "timeout")
}
