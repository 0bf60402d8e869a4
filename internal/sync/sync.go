package sync

import (
	"fmt"
	"log/slog"

	"github.com/example/hskstudio/internal/curriculum"
	"github.com/example/hskstudio/internal/gitsource"
)

// RunSync pulls the curriculum repository into dataDir and reloads the
// data files from it. A sync failure leaves whatever is already on disk in
// place; a load failure after a successful pull is surfaced so the caller
// can keep serving the previously loaded curriculum.
func RunSync(repoURL, dataDir string) (*curriculum.Set, error) {
	slog.Info("Syncing curriculum", "url", repoURL, "dir", dataDir)

	if err := gitsource.Sync(repoURL, dataDir); err != nil {
		return nil, fmt.Errorf("curriculum sync failed: %w", err)
	}

	set, err := curriculum.LoadDir(dataDir)
	if err != nil {
		return nil, fmt.Errorf("synced curriculum failed to load: %w", err)
	}

	slog.Info("Curriculum sync complete",
		"radicals", len(set.Radicals),
		"grammar_points", len(set.Grammar),
		"word_levels", len(set.WordsByLevel),
	)
	return set, nil
}
