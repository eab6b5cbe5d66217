package core

import (
	"github.com/fox-one/mixin-sdk-go"
	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
)

// Config lendledger config
type Config struct {
	App         App               `json:"app"`
	Interest    Interest          `json:"interest"`
	DB          db.Config         `json:"db"`
	Redis       Redis             `json:"redis"`
	Wallet      MainWallet        `json:"wallet"`
	PriceOracle PriceOracleConfig `json:"price_oracle"`
	Borrow      Borrow            `json:"borrow"`
	Session     SessionConfig     `json:"session"`
	Worker      Worker            `json:"worker"`
	Assets      []*Asset          `json:"assets"`
	Admins      []string          `json:"admins"`
}

// IsAdmin check if the user is admin
func (c *Config) IsAdmin(userID string) bool {
	if len(c.Admins) <= 0 {
		return false
	}

	for _, a := range c.Admins {
		if a == userID {
			return true
		}
	}

	return false
}

// App app config
type App struct {
	// ProtocolID identity the price oracle must allow
	ProtocolID      string `json:"protocol_id"`
	Genesis         int64  `json:"genesis"`
	SecondsPerBlock int64  `json:"seconds_per_block"`
	Location        string `json:"location"`
}

// Interest interest engine config
type Interest struct {
	BlockUnitsPerGroup int64 `json:"block_units_per_group"`
	BlockUnitsPerYear  int64 `json:"block_units_per_year"`
}

// Redis redis config
type Redis struct {
	Addr string `json:"addr"`
	DB   int    `json:"db"`
	// EntriesKey list the publisher pushes entries to
	EntriesKey string `json:"entries_key"`
}

// MainWallet mixin dapp config
type MainWallet struct {
	mixin.Keystore
	ClientSecret string `json:"client_secret"`
	Pin          string `json:"pin"`
}

// PriceOracleConfig price oracle config
type PriceOracleConfig struct {
	EndPoint string `json:"end_point"`
	// Allowed identity the oracle serves, must equal App.ProtocolID
	Allowed string `json:"allowed"`
}

// Borrow borrow policy config
type Borrow struct {
	MinimumCollateralRatio decimal.Decimal `json:"minimum_collateral_ratio"`
}

// SessionConfig session cache config
type SessionConfig struct {
	Capacity int `json:"capacity"`
	// TTL seconds a login stays cached
	TTL int64 `json:"ttl"`
	// Issuers oauth clients whose tokens are accepted
	Issuers []string `json:"issuers"`
}

// Worker background worker config
type Worker struct {
	RateSnapshotSpec string `json:"rate_snapshot_spec"`
}
