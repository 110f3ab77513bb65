package collectors

import (
	"strings"

	"github.com/atlascap/maradar/internal/models"
)

// maKeywords is the broad trigger list: any hit marks a text as worth an
// oracle analysis. Broader than the grid vocabulary on purpose, to capture
// articles before the deal language gets explicit.
var maKeywords = []string{
	// Deals & operations
	"acquisition", "fusion", "rachat", "cession", "vente", "apport",
	"partenariat stratégique", "prise de participation", "alliance",
	// Capital
	"augmentation de capital", "levée de fonds", "investissement",
	"financement", "crédit", "endettement", "refinancement",
	// Leadership
	"directeur général", "pdg", "président", "nouveau dg", "départ",
	"nomination", "succession", "transmission", "retraite",
	// Growth
	"expansion", "ouverture", "croissance externe", "développement",
	"consolidation", "concentration", "restructuration",
	// Markets & finance
	"bourse", "ipo", "introduction", "cotation", "dividende",
	"résultats", "chiffre d'affaires", "bénéfice", "perte",
	// Priority sectors
	"distribution", "retail", "industrie", "btp", "logistique",
	"santé", "fintech", "agroalimentaire", "immobilier",
}

// gazetteKeywords is the legal-notice vocabulary of the official gazette;
// every significant deal must be published there.
var gazetteKeywords = []string{
	"fusion", "absorption", "apport partiel", "cession de fonds",
	"augmentation de capital", "réduction de capital", "dissolution",
	"liquidation", "transformation", "scission", "apport en nature",
	"prise de participation", "cession d'actions", "cession de parts",
	"approbation de fusion", "traité de fusion", "projet de fusion",
	"concentration", "acquisition", "rachat", "offre publique",
}

// ContainsMASignal reports whether text mentions any broad M&A trigger.
func ContainsMASignal(text string) bool {
	if len(text) < 10 {
		return false
	}
	lower := strings.ToLower(text)
	for _, kw := range maKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// ContainsGazetteSignal reports whether text mentions a legal-notice trigger.
func ContainsGazetteSignal(text string) bool {
	if len(text) < 10 {
		return false
	}
	lower := strings.ToLower(text)
	for _, kw := range gazetteKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// Classify maps free text to a grid category by substring lookup, first
// match wins. Unmatched text gets the generic sentinel; the oracle refines
// the classification later.
func Classify(text string) string {
	lower := strings.ToLower(text)

	rules := []struct {
		keywords []string
		category string
	}{
		{[]string{"succession", "transmission", "retraite", "fondateur"}, models.CategoryTransmission},
		{[]string{"acquisition", "rachat", "croissance externe", "fusion"}, models.CategoryAcquereuActif},
		{[]string{"cession", "vente", "désengagement", "cède"}, models.CategoryDesinvest},
		{[]string{"capital", "levée", "financement", "investissement", "endettement"}, models.CategoryBesoinCash},
		{[]string{"directeur", "pdg", "dg", "nomination", "départ"}, models.CategoryDirection},
		{[]string{"bourse", "ipo", "introduction", "cotation"}, models.CategoryBesoinCash},
		{[]string{"expansion", "ouverture", "développement"}, models.CategoryExpansionGeo},
	}

	for _, rule := range rules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.category
			}
		}
	}
	return models.CategoryGenerique
}
