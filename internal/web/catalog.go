package web

import (
	"github.com/peterkuimelis/nucleon/internal/economy"
	nucleonnet "github.com/peterkuimelis/nucleon/internal/net"
)

// economyBaseCost prices a fusion toward z for a fresh economy under the
// session's balance config.
func economyBaseCost(z int, sc nucleonnet.SessionConfig) (int, error) {
	cfg := economy.DefaultConfig()
	if sc.Config != nil {
		cfg = *sc.Config
	}
	return economy.EnergyCost(z, economy.CostInputs{SupernovaIgnition: cfg.SupernovaIgnition})
}

func requiredCount(z int) (int, error) {
	return economy.RequiredMaterialCount(z)
}
