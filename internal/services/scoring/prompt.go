package scoring

import (
	"fmt"
	"strings"

	"github.com/atlascap/maradar/internal/common"
	"github.com/atlascap/maradar/internal/models"
)

// buildAnalysisPrompt renders the origination thesis and one signal into the
// analysis prompt. The response contract is a bare JSON object; parse.go
// tolerates fenced wrapping anyway.
func buildAnalysisPrompt(signal *models.Signal, cfg common.ScoringConfig, sectors []string) string {
	var grid strings.Builder
	for _, w := range cfg.Weights {
		fmt.Fprintf(&grid, "  - %s : %d points\n", w.Key, w.Points)
	}

	company := signal.Company
	if company == "" {
		company = "Non identifiée"
	}
	title := signal.Title
	if title == "" {
		title = signal.RawText
	}

	sectorList := "Distribution, Industrie, BTP"
	if len(sectors) > 0 {
		sectorList = strings.Join(sectors, ", ")
	}

	return fmt.Sprintf(`Tu es un expert en M&A et origination de deals pour le marché marocain,
spécialisé dans les PME et family businesses. Tu travailles pour une boutique M&A marocaine.

Ta mission : analyser ce signal de marché et évaluer son potentiel M&A.

=== SIGNAL DÉTECTÉ ===
Source : %s
Date : %s
Entreprise : %s
Titre/Description : %s
Type de signal détecté : %s

=== GRILLE DE SCORING (ta thèse d'origination) ===
%s
=== PROFIL DE LA CIBLE IDÉALE ===
- Société en pleine croissance, rentable
- Besoin de financement BFR ou vision stratégique à consolider
- PME ou family business
- Opérations cibles : Pre-IPO, ouverture de capital, partenaire stratégique, acquisition majoritaire
- Secteurs prioritaires : %s (opportuniste sur tous secteurs)
- Couverture : tout le Maroc

=== SIGNAUX D'URGENCE (action immédiate) ===
1. Problème de transmission/succession familiale
2. Concurrent avec stratégie de croissance externe active dans le secteur
3. Désengagement d'activité non-core

=== TA MISSION ===
Analyse ce signal et réponds UNIQUEMENT avec un JSON valide (sans markdown, sans explication) :

{
  "entreprise": "Nom exact de l'entreprise concernée ou null",
  "secteur": "Secteur d'activité estimé",
  "type_deal_probable": "acquisition | cession | levee_fonds | pre_ipo | restructuring | transmission | inconnu",
  "signaux_identifies": ["liste", "des", "signaux", "présents"],
  "score_ma": <nombre entre 0 et 100>,
  "urgence": "critique | fort | modere | faible",
  "fenetre_action": "Description de la fenêtre d'opportunité temporelle",
  "recommandation": "Action concrète recommandée en 1-2 phrases",
  "pertinent": true | false,
  "raison_non_pertinent": "Si pertinent=false, expliquer pourquoi"
}`,
		signal.Source,
		signal.CapturedAt.Format("2006-01-02"),
		company,
		title,
		signal.Category,
		grid.String(),
		sectorList,
	)
}

// buildMemoPrompt renders a CRITIQUE signal into the origination memo prompt.
func buildMemoPrompt(signal *models.Signal) string {
	company := signal.Company
	if company == "" {
		company = "N/A"
	}
	description := signal.Title
	if description == "" {
		description = signal.RawText
	}

	return fmt.Sprintf(`Tu es un banquier d'affaires M&A senior au Maroc.
Génère un mémo d'origination professionnel et concis pour cette opportunité.

Signal détecté :
- Entreprise : %s
- Secteur : %s
- Type de deal : %s
- Score M&A : %d/100
- Signaux : %s
- Source : %s
- Description : %s

Rédige un mémo d'origination structuré avec :
1. Situation actuelle (2-3 phrases)
2. Thèse de deal (2-3 scénarios possibles)
3. Acquéreurs/investisseurs potentiels (3-4 noms)
4. Recommandation d'action (1 action concrète, délai précis)

Ton style : direct, factuel, orienté action. C'est pour usage interne d'un banquier d'affaires.`,
		company,
		signal.Sector,
		signal.DealType,
		signal.FinalScore,
		strings.Join(signal.IdentifiedSignals, ", "),
		signal.Source,
		models.TruncateRunes(description, 300),
	)
}
