package scoring

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/atlascap/maradar/internal/models"
)

// parseFailureRecommendation is recorded on signals whose oracle response
// could not be decoded; the raw excerpt alongside it is kept for manual audit.
const parseFailureRecommendation = "Erreur de parsing — analyse manuelle requise"

// rawExcerptLen bounds the stored excerpt of an unparseable response.
const rawExcerptLen = 200

var fencePattern = regexp.MustCompile("(?s)^\\s*```(?:json|JSON)?\\s*\\n?(.*?)\\n?\\s*```\\s*$")

// stripCodeFence removes an optional fenced-code-block wrapper (optionally
// tagged "json") from a response body. Unfenced input passes through
// untouched.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)

	if matches := fencePattern.FindStringSubmatch(s); len(matches) > 1 {
		s = matches[1]
	}

	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```JSON")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")

	return strings.TrimSpace(s)
}

// analysisWire is the strict JSON contract the oracle is instructed to answer
// with. Field names are the French wire vocabulary shared with the prompt.
type analysisWire struct {
	Entreprise         string   `json:"entreprise"`
	Secteur            string   `json:"secteur"`
	TypeDealProbable   string   `json:"type_deal_probable"`
	SignauxIdentifies  []string `json:"signaux_identifies"`
	ScoreMA            float64  `json:"score_ma"`
	Urgence            string   `json:"urgence"`
	FenetreAction      string   `json:"fenetre_action"`
	Recommandation     string   `json:"recommandation"`
	Pertinent          *bool    `json:"pertinent"`
	RaisonNonPertinent string   `json:"raison_non_pertinent"`
}

// parseAnalysis decodes one oracle response into an Analysis. Missing fields
// default conservatively (deal type inconnu, urgency faible, relevant true,
// score 0). A malformed response returns an error; degrading it to the
// parse-failure sentinel is the caller's job.
func parseAnalysis(text string) (*models.Analysis, error) {
	clean := stripCodeFence(text)

	var wire analysisWire
	if err := json.Unmarshal([]byte(clean), &wire); err != nil {
		return nil, fmt.Errorf("oracle response is not valid JSON: %w", err)
	}

	dealType := models.DealType(wire.TypeDealProbable)
	if dealType == "" {
		dealType = models.DealInconnu
	}
	urgency := models.Urgency(wire.Urgence)
	if urgency == "" {
		urgency = models.UrgencyFaible
	}
	relevant := true
	if wire.Pertinent != nil {
		relevant = *wire.Pertinent
	}

	return &models.Analysis{
		Company:           strings.TrimSpace(wire.Entreprise),
		Sector:            wire.Secteur,
		DealType:          dealType,
		IdentifiedSignals: wire.SignauxIdentifies,
		Score:             int(wire.ScoreMA),
		Urgency:           urgency,
		ActionWindow:      wire.FenetreAction,
		Recommendation:    wire.Recommandation,
		Relevant:          relevant,
		IrrelevanceReason: wire.RaisonNonPertinent,
	}, nil
}

// degradedAnalysis builds the sentinel result for an unparseable response:
// zero relevance, flagged for manual review, raw excerpt preserved.
func degradedAnalysis(raw string) *models.Analysis {
	return &models.Analysis{
		DealType:       models.DealInconnu,
		Urgency:        models.UrgencyFaible,
		Recommendation: parseFailureRecommendation,
		Relevant:       false,
		RawResponse:    models.TruncateRunes(raw, rawExcerptLen),
	}
}
