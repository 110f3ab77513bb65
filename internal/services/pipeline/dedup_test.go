package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlascap/maradar/internal/models"
)

func sig(source, title, company string) *models.Signal {
	s := models.NewSignal(source, title, title, "https://example.ma", models.CategoryGenerique)
	s.Company = company
	return s
}

func TestDeduplicateFirstWins(t *testing.T) {
	press := sig("Presse Économique", "Atlas Distrib rachète un concurrent", "Atlas Distrib")
	gazette := sig("Bulletin Officiel", "Avis de fusion Atlas Distrib", "Atlas Distrib")
	other := sig("Presse Économique", "Levée de fonds chez Akdital", "Akdital")

	unique := Deduplicate([]*models.Signal{press, gazette, other})
	require.Len(t, unique, 2)
	assert.Same(t, press, unique[0])
	assert.Same(t, other, unique[1])
}

func TestDeduplicateCaseFolded(t *testing.T) {
	a := sig("A", "t1", "MARJANE HOLDING")
	b := sig("B", "t2", "  marjane holding ")

	unique := Deduplicate([]*models.Signal{a, b})
	require.Len(t, unique, 1)
	assert.Same(t, a, unique[0])
}

func TestDeduplicateTitleFallback(t *testing.T) {
	// Without a company name the first 50 runes of the title identify the
	// signal, so a long title differing only past that point still merges.
	long := "Un groupe industriel de Casablanca prépare une cession majeure cette année"
	a := sig("A", long+" selon la presse", "")
	b := sig("B", long+" d'après le bulletin", "")

	unique := Deduplicate([]*models.Signal{a, b})
	require.Len(t, unique, 1)
}

func TestDeduplicateDropsEmptyKeys(t *testing.T) {
	empty := sig("A", "   ", "")
	kept := sig("B", "Cession de parts sociales", "")

	unique := Deduplicate([]*models.Signal{empty, kept})
	require.Len(t, unique, 1)
	assert.Same(t, kept, unique[0])
}

func TestDeduplicateIdempotent(t *testing.T) {
	signals := []*models.Signal{
		sig("A", "t1", "Alpha"),
		sig("B", "t2", "Beta"),
		sig("C", "t3", "Alpha"),
	}
	once := Deduplicate(signals)
	twice := Deduplicate(once)
	assert.Equal(t, once, twice)
}
