package net

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/peterkuimelis/nucleon/internal/chem"
	"github.com/peterkuimelis/nucleon/internal/economy"
)

// LoadSessionConfig reads the element table, molecule catalog and balance
// file shared by every session. A missing balance file means the stock
// balance; a missing catalog means draws have nothing to offer.
func LoadSessionConfig(elementsFile, moleculesFile, economyFile string) (SessionConfig, error) {
	sc := SessionConfig{Index: chem.LoadIndex(elementsFile)}

	cfg, err := economy.LoadConfig(economyFile)
	switch {
	case errors.Is(err, os.ErrNotExist):
		slog.Warn("economy config not found, using defaults", "path", economyFile)
		cfg = economy.DefaultConfig()
	case err != nil:
		return SessionConfig{}, fmt.Errorf("economy config: %w", err)
	}
	sc.Config = &cfg

	recipes, err := chem.LoadRecipes(moleculesFile)
	switch {
	case errors.Is(err, os.ErrNotExist):
		slog.Warn("molecule catalog not found", "path", moleculesFile)
	case err != nil:
		return SessionConfig{}, fmt.Errorf("molecule catalog: %w", err)
	}
	sc.Recipes = recipes

	slog.Info("session config loaded",
		"elements", sc.Index.Len(),
		"molecules", len(sc.Recipes),
		"threshold", cfg.Compression.Threshold,
	)
	return sc, nil
}
