package pipeline

import "github.com/atlascap/maradar/internal/models"

// Deduplicate collapses signals sharing a dedup key, keeping the first
// occurrence in input order. Cross-source duplicates are common: a deal hits
// the press, the gazette and the competition authority within days, and the
// earliest collector in the run wins. Signals with an empty key are dropped
// outright, a merge on "" would collapse unrelated items.
func Deduplicate(signals []*models.Signal) []*models.Signal {
	seen := make(map[string]bool, len(signals))
	unique := make([]*models.Signal, 0, len(signals))
	for _, signal := range signals {
		key := signal.DedupKey()
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, signal)
	}
	return unique
}
