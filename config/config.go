package config

import (
	"lendledger/core"
	"lendledger/internal/compound"

	configUtil "github.com/fox-one/pkg/config"
	"github.com/shopspring/decimal"
)

// DefaultMinimumCollateralRatio collateral ratio used when none is configured
var DefaultMinimumCollateralRatio = decimal.RequireFromString("1.5")

// Load load config file, LENDLEDGER_* environment variables override it
func Load(configFile string, config *core.Config) error {
	configUtil.AutomaticLoadEnv("LENDLEDGER")
	if err := configUtil.LoadYaml(configFile, config); err != nil {
		return err
	}

	defaults(config)
	return nil
}

func defaults(cfg *core.Config) {
	if cfg.App.ProtocolID == "" {
		cfg.App.ProtocolID = cfg.Wallet.ClientID
	}

	if cfg.App.SecondsPerBlock <= 0 {
		cfg.App.SecondsPerBlock = compound.SecondsPerBlock
	}

	if cfg.App.Location == "" {
		cfg.App.Location = "Local"
	}

	if cfg.Interest.BlockUnitsPerGroup <= 0 {
		cfg.Interest.BlockUnitsPerGroup = compound.BlocksPerGroup
	}

	if cfg.Interest.BlockUnitsPerYear <= 0 {
		cfg.Interest.BlockUnitsPerYear = compound.BlocksPerYear
	}

	if cfg.PriceOracle.Allowed == "" {
		cfg.PriceOracle.Allowed = cfg.App.ProtocolID
	}

	if !cfg.Borrow.MinimumCollateralRatio.IsPositive() {
		cfg.Borrow.MinimumCollateralRatio = DefaultMinimumCollateralRatio
	}

	if cfg.Redis.EntriesKey == "" {
		cfg.Redis.EntriesKey = "lendledger:entries"
	}

	if cfg.Session.Capacity <= 0 {
		cfg.Session.Capacity = 1024
	}

	if cfg.Session.TTL <= 0 {
		cfg.Session.TTL = 3600
	}

	if cfg.Worker.RateSnapshotSpec == "" {
		cfg.Worker.RateSnapshotSpec = "@every 1m"
	}
}
