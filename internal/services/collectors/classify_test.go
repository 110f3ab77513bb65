package collectors

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/atlascap/maradar/internal/models"
)

func TestContainsMASignal(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected bool
	}{
		{"acquisition keyword", "Le groupe annonce l'acquisition d'un concurrent", true},
		{"uppercase keyword", "FUSION entre deux acteurs de la distribution", true},
		{"succession keyword", "Le fondateur prépare sa succession à la tête du groupe", true},
		{"sector keyword", "Nouvelle plateforme logistique près de Casablanca", true},
		{"no keyword", "La météo reste clémente ce week-end", false},
		{"too short", "fusion", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ContainsMASignal(tt.text))
		})
	}
}

func TestContainsGazetteSignal(t *testing.T) {
	assert.True(t, ContainsGazetteSignal("Avis de fusion-absorption de la société X par la société Y"))
	assert.True(t, ContainsGazetteSignal("Cession de fonds de commerce sis à Rabat"))
	assert.False(t, ContainsGazetteSignal("Avis de perte de titre foncier"))
	assert.False(t, ContainsGazetteSignal("fusion"))
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected string
	}{
		{"succession", "Le fondateur part à la retraite sans repreneur", models.CategoryTransmission},
		{"acquisition", "Acquisition d'un réseau de magasins au Maroc", models.CategoryAcquereuActif},
		{"cession", "Le groupe cède sa filiale marocaine", models.CategoryDesinvest},
		{"capital", "Augmentation de capital de 200 MDH", models.CategoryBesoinCash},
		{"leadership", "Nomination d'un nouveau directeur général", models.CategoryDirection},
		{"ipo", "Introduction en bourse prévue au premier semestre", models.CategoryBesoinCash},
		{"expansion", "Ouverture de trois sites en Afrique de l'Ouest", models.CategoryExpansionGeo},
		{"generic fallthrough", "Résultats annuels en ligne avec les attentes", models.CategoryGenerique},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Classify(tt.text))
		})
	}
}

func TestClassifySuccessionBeatsAcquisition(t *testing.T) {
	// Succession rules come first: a transmission story that also mentions
	// a rachat stays a transmission signal.
	got := Classify("Transmission familiale ou rachat par un fonds, le dirigeant hésite")
	assert.Equal(t, models.CategoryTransmission, got)
}
