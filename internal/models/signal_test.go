package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewSignalTruncates(t *testing.T) {
	longTitle := strings.Repeat("a", 300)
	longText := strings.Repeat("é", 600)

	s := NewSignal("test", longTitle, longText, "https://example.ma", CategoryGenerique)
	assert.Len(t, []rune(s.Title), MaxTitleLen)
	assert.Len(t, []rune(s.RawText), MaxRawTextLen)
	assert.False(t, s.CapturedAt.IsZero())
}

func TestDedupKey(t *testing.T) {
	tests := []struct {
		name     string
		company  string
		title    string
		expected string
	}{
		{"company wins over title", "Atlas Distrib", "Un autre titre", "atlas distrib"},
		{"company case folded and trimmed", "  MARJANE Holding ", "t", "marjane holding"},
		{"whitespace company falls back to title", "   ", "Cession de Parts", "cession de parts"},
		{"title truncated to fifty runes", "", strings.Repeat("x", 80), strings.Repeat("x", 50)},
		{"empty signal yields empty key", "", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Signal{Company: tt.company, Title: tt.title}
			assert.Equal(t, tt.expected, s.DedupKey())
		})
	}
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "abc", TruncateRunes("abc", 5))
	assert.Equal(t, "ab", TruncateRunes("abc", 2))
	// Rune-safe on accented text.
	assert.Equal(t, "éé", TruncateRunes("ééé", 2))
	assert.Equal(t, "", TruncateRunes("", 3))
}

func TestNewOpportunity(t *testing.T) {
	s := NewSignal("Presse Économique", "Succession chez Atlas", "texte", "https://example.ma", CategoryTransmission)
	s.Company = "Atlas Distrib"
	s.Sector = "distribution"
	s.DealType = DealTransmission
	s.IdentifiedSignals = []string{"transmission_succession"}
	s.FinalScore = 84
	s.AlertTier = TierCritique
	s.Recommendation = "Contacter la famille fondatrice"
	s.Memo = "Mémo"

	opp := NewOpportunity(s)
	assert.Equal(t, "Atlas Distrib", opp.Company)
	assert.Equal(t, 84, opp.FinalScore)
	assert.Equal(t, TierCritique, opp.AlertTier)
	assert.Equal(t, DealTransmission, opp.DealType)
	assert.Equal(t, "nouveau", opp.Status)
	assert.Equal(t, "Mémo", opp.Memo)
}

func TestNewOpportunityCompanyFallback(t *testing.T) {
	s := NewSignal("test", strings.Repeat("t", 80), "texte", "", CategoryGenerique)
	opp := NewOpportunity(s)
	assert.Equal(t, strings.Repeat("t", 50), opp.Company)
}
