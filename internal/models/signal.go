package models

import (
	"strings"
	"time"
)

// Storage bounds for collector-provided text fields.
const (
	MaxTitleLen   = 200
	MaxRawTextLen = 500
)

// AlertTier is the discrete alert bucket derived from the final score.
// Values match the wire vocabulary used in persisted records.
type AlertTier string

const (
	TierCritique  AlertTier = "CRITIQUE"
	TierVigilance AlertTier = "VIGILANCE"
	TierRadar     AlertTier = "RADAR"
	TierFaible    AlertTier = "FAIBLE"
	TierErreur    AlertTier = "ERREUR"
)

// DealType classifies the probable transaction suggested by a signal.
type DealType string

const (
	DealAcquisition   DealType = "acquisition"
	DealCession       DealType = "cession"
	DealLeveeFonds    DealType = "levee_fonds"
	DealPreIPO        DealType = "pre_ipo"
	DealRestructuring DealType = "restructuring"
	DealTransmission  DealType = "transmission"
	DealInconnu       DealType = "inconnu"
)

// Urgency is the oracle's assessment of how fast the opportunity window closes.
type Urgency string

const (
	UrgencyCritique Urgency = "critique"
	UrgencyFort     Urgency = "fort"
	UrgencyModere   Urgency = "modere"
	UrgencyFaible   Urgency = "faible"
)

// Signal category keys. These are the rule-weight vocabulary shared by the
// collectors (keyword classification) and the scoring grid.
const (
	CategoryTransmission  = "transmission_succession"
	CategoryAcquereuActif = "acquereur_actif_secteur"
	CategoryDesinvest     = "desinvestissement_activite"
	CategoryBesoinCash    = "besoin_cash_bfr"
	CategoryGearing       = "gearing_eleve"
	CategoryCapexRecent   = "investissements_recents"
	CategoryDirection     = "changement_direction"
	CategoryRecrutementMA = "recrutement_profil_ma"
	CategoryExpansionGeo  = "expansion_geographique"
	CategoryConsolidation = "consolidation_sectorielle"
	CategoryGenerique     = "signal_generique"
)

// Signal is the unit of work flowing through the pipeline: produced by a
// collector, deduplicated, enriched by the scoring engine, and handed to
// persistence. Collector-provided fields are never overwritten by the scoring
// stage except Company, which may be filled in when previously empty.
type Signal struct {
	ID         string    `json:"id"`
	Source     string    `json:"source"`
	CapturedAt time.Time `json:"captured_at"`
	Title      string    `json:"title"`
	RawText    string    `json:"raw_text"`
	URL        string    `json:"url"`
	Company    string    `json:"company,omitempty"`
	Category   string    `json:"category"`

	// Enrichment fields, set by the scoring stage.
	Sector            string    `json:"sector,omitempty"`
	DealType          DealType  `json:"deal_type,omitempty"`
	IdentifiedSignals []string  `json:"identified_signals,omitempty"`
	OracleScore       int       `json:"oracle_score"`
	Urgency           Urgency   `json:"urgency,omitempty"`
	ActionWindow      string    `json:"action_window,omitempty"`
	Recommendation    string    `json:"recommendation,omitempty"`
	Relevant          bool      `json:"relevant"`
	IrrelevanceReason string    `json:"irrelevance_reason,omitempty"`
	RawOracleResponse string    `json:"raw_oracle_response,omitempty"`
	Error             string    `json:"error,omitempty"`
	FinalScore        int       `json:"final_score"`
	AlertTier         AlertTier `json:"alert_tier,omitempty"`
	Memo              string    `json:"memo,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// NewSignal builds a collector signal, applying the storage bounds to title
// and raw text. CapturedAt defaults to now.
func NewSignal(source, title, rawText, url, category string) *Signal {
	return &Signal{
		Source:     source,
		CapturedAt: time.Now(),
		Title:      TruncateRunes(title, MaxTitleLen),
		RawText:    TruncateRunes(rawText, MaxRawTextLen),
		URL:        url,
		Category:   category,
	}
}

// DedupKey returns the signal's identity for deduplication: the company name
// when present, otherwise the first 50 runes of the title, case-folded and
// trimmed. An empty key means the signal cannot be deduplicated and must be
// dropped rather than merged.
func (s *Signal) DedupKey() string {
	key := s.Company
	if strings.TrimSpace(key) == "" {
		key = TruncateRunes(s.Title, 50)
	}
	return strings.TrimSpace(strings.ToLower(key))
}

// TruncateRunes shortens s to at most n runes.
func TruncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// Analysis is the structured result extracted from one oracle completion for
// one signal. Degraded sentinels (score 0, not relevant) are produced for
// transport failures and malformed responses so batch processing continues.
type Analysis struct {
	Company           string
	Sector            string
	DealType          DealType
	IdentifiedSignals []string
	Score             int
	Urgency           Urgency
	ActionWindow      string
	Recommendation    string
	Relevant          bool
	IrrelevanceReason string
	RawResponse       string
	Err               string
}

// Opportunity is the company-keyed record upserted for every signal that
// reaches at least RADAR tier.
type Opportunity struct {
	Company        string    `json:"company" badgerhold:"key"`
	Sector         string    `json:"sector"`
	FinalScore     int       `json:"final_score"`
	AlertTier      AlertTier `json:"alert_tier"`
	DealType       DealType  `json:"deal_type"`
	Source         string    `json:"source"`
	Signals        []string  `json:"signals"`
	Recommendation string    `json:"recommendation"`
	Memo           string    `json:"memo,omitempty"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewOpportunity projects a scored signal into its opportunity record. When
// the oracle never resolved a company name, the truncated title stands in so
// the upsert key is stable across runs.
func NewOpportunity(s *Signal) *Opportunity {
	company := s.Company
	if strings.TrimSpace(company) == "" {
		company = TruncateRunes(s.Title, 50)
	}
	return &Opportunity{
		Company:        company,
		Sector:         s.Sector,
		FinalScore:     s.FinalScore,
		AlertTier:      s.AlertTier,
		DealType:       s.DealType,
		Source:         s.Source,
		Signals:        s.IdentifiedSignals,
		Recommendation: s.Recommendation,
		Memo:           s.Memo,
		Status:         "nouveau",
	}
}
