package scoring

import (
	"context"
	"sort"

	"github.com/ternarybob/arbor"

	"github.com/atlascap/maradar/internal/common"
	"github.com/atlascap/maradar/internal/interfaces"
	"github.com/atlascap/maradar/internal/models"
)

// Engine drives one oracle analysis per signal and blends the result with the
// rule-weight grid into the final score and alert tier.
//
// The engine never returns an error for a single signal: transport failures
// and malformed responses both degrade to sentinel low-confidence results so
// a batch always completes.
type Engine struct {
	oracle  interfaces.CompletionService
	scoring common.ScoringConfig
	sectors []string
	logger  arbor.ILogger

	analysisTokens int
	memoTokens     int
}

// NewEngine creates the scoring engine.
func NewEngine(oracle interfaces.CompletionService, config *common.Config, logger arbor.ILogger) *Engine {
	analysisTokens := config.Claude.MaxTokens
	if analysisTokens <= 0 {
		analysisTokens = 1000
	}
	memoTokens := config.Claude.MemoMaxTokens
	if memoTokens <= 0 {
		memoTokens = 800
	}

	return &Engine{
		oracle:         oracle,
		scoring:        config.Scoring,
		sectors:        config.Sources.PrioritySectors,
		logger:         logger,
		analysisTokens: analysisTokens,
		memoTokens:     memoTokens,
	}
}

// Analyze submits one signal to the oracle and returns the enriched signal.
// Enrichment is additive: collector-provided fields survive, and the company
// name is only filled in when the collector left it empty.
func (e *Engine) Analyze(ctx context.Context, signal *models.Signal) *models.Signal {
	e.logger.Info().
		Str("source", signal.Source).
		Str("title", models.TruncateRunes(signal.Title, 50)).
		Msg("Analyzing signal")

	prompt := buildAnalysisPrompt(signal, e.scoring, e.sectors)

	response, err := e.oracle.Complete(ctx, prompt, e.analysisTokens)
	if err != nil {
		// Transport/API failure: keep the batch moving with an ERREUR signal.
		e.logger.Error().Err(err).Str("source", signal.Source).Msg("Oracle call failed")
		enriched := *signal
		enriched.Relevant = false
		enriched.FinalScore = 0
		enriched.AlertTier = models.TierErreur
		enriched.Error = err.Error()
		return &enriched
	}

	analysis, parseErr := parseAnalysis(response)
	if parseErr != nil {
		e.logger.Warn().Err(parseErr).Str("source", signal.Source).Msg("Oracle response parse failed")
		analysis = degradedAnalysis(response)
	}

	enriched := merge(signal, analysis)
	enriched.FinalScore = FinalScore(e.scoring, enriched.OracleScore, enriched.IdentifiedSignals, enriched.Urgency)
	enriched.AlertTier = TierFor(e.scoring, enriched.FinalScore)

	e.logger.Info().
		Int("score", enriched.FinalScore).
		Str("tier", string(enriched.AlertTier)).
		Str("company", enriched.Company).
		Msg("Signal scored")

	return enriched
}

// AnalyzeBatch scores a list of signals sequentially and returns the full
// list sorted by final score descending. The sort is stable: equal scores
// keep their relative input order. Every input signal appears exactly once in
// the output, enriched or degraded.
func (e *Engine) AnalyzeBatch(ctx context.Context, signals []*models.Signal) []*models.Signal {
	e.logger.Info().Int("count", len(signals)).Msg("Scoring batch started")

	results := make([]*models.Signal, 0, len(signals))
	for _, signal := range signals {
		results = append(results, e.Analyze(ctx, signal))
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].FinalScore > results[j].FinalScore
	})

	counts := map[models.AlertTier]int{}
	for _, r := range results {
		counts[r.AlertTier]++
	}
	e.logger.Info().
		Int("critiques", counts[models.TierCritique]).
		Int("vigilances", counts[models.TierVigilance]).
		Int("radar", counts[models.TierRadar]).
		Int("erreurs", counts[models.TierErreur]).
		Msg("Scoring batch completed")

	return results
}

// merge copies the oracle analysis onto a fresh signal value. Only defined
// enrichment fields are written; the original collector fields are preserved.
func merge(signal *models.Signal, analysis *models.Analysis) *models.Signal {
	enriched := *signal

	if enriched.Company == "" && analysis.Company != "" {
		enriched.Company = analysis.Company
	}
	enriched.Sector = analysis.Sector
	enriched.DealType = analysis.DealType
	enriched.IdentifiedSignals = analysis.IdentifiedSignals
	enriched.OracleScore = analysis.Score
	enriched.Urgency = analysis.Urgency
	enriched.ActionWindow = analysis.ActionWindow
	enriched.Recommendation = analysis.Recommendation
	enriched.Relevant = analysis.Relevant
	enriched.IrrelevanceReason = analysis.IrrelevanceReason
	enriched.RawOracleResponse = analysis.RawResponse

	return &enriched
}
