package scoring

import (
	"context"
	"fmt"

	"github.com/atlascap/maradar/internal/models"
)

// GenerateMemo produces the origination memo for a CRITIQUE-tier signal via
// a second oracle call. The memo step is gated by tier upstream; this is the
// expensive narrative call and is never issued for lower tiers.
//
// On oracle failure the returned text states the failure instead of raising,
// so the save loop keeps going.
func (e *Engine) GenerateMemo(ctx context.Context, signal *models.Signal) string {
	e.logger.Info().Str("company", signal.Company).Msg("Generating origination memo")

	prompt := buildMemoPrompt(signal)

	memo, err := e.oracle.Complete(ctx, prompt, e.memoTokens)
	if err != nil {
		e.logger.Error().Err(err).Str("company", signal.Company).Msg("Memo generation failed")
		return fmt.Sprintf("Erreur génération mémo : %v", err)
	}

	return memo
}
