package market

import (
	"context"
	"strings"

	"lendledger/core"

	"github.com/shopspring/decimal"
)

// Service config backed asset registry, borrow policy and access control
type Service struct {
	assets   map[string]*core.Asset
	ordered  []*core.Asset
	minRatio decimal.Decimal
	admins   map[string]bool
}

// New new market service from config
func New(cfg *core.Config) *Service {
	s := &Service{
		assets:   make(map[string]*core.Asset, len(cfg.Assets)),
		minRatio: cfg.Borrow.MinimumCollateralRatio,
		admins:   make(map[string]bool, len(cfg.Admins)),
	}

	for _, asset := range cfg.Assets {
		id := strings.ToLower(asset.ID)
		if _, ok := s.assets[id]; ok {
			continue
		}
		s.assets[id] = asset
		s.ordered = append(s.ordered, asset)
	}

	for _, admin := range cfg.Admins {
		s.admins[admin] = true
	}

	return s
}

// Find implements core.AssetService
func (s *Service) Find(ctx context.Context, id string) (*core.Asset, error) {
	asset, ok := s.assets[strings.ToLower(id)]
	if !ok {
		return nil, core.NewError(core.ErrAssetNotFound, core.Params{"asset": id})
	}

	return asset, nil
}

// All implements core.AssetService
func (s *Service) All(ctx context.Context) ([]*core.Asset, error) {
	return s.ordered, nil
}

// BorrowableAsset implements core.BorrowStorage
func (s *Service) BorrowableAsset(ctx context.Context, asset string) (bool, error) {
	a, err := s.Find(ctx, asset)
	if err != nil {
		return false, err
	}

	return a.Borrowable, nil
}

// MinimumCollateralRatio implements core.BorrowStorage
func (s *Service) MinimumCollateralRatio(ctx context.Context) (decimal.Decimal, error) {
	if !s.minRatio.IsPositive() {
		return decimal.Zero, core.NewError(core.ErrBorrowStorageNotConfigured, core.Params{"minimum_collateral_ratio": s.minRatio})
	}

	return s.minRatio, nil
}

// CheckOwner implements core.AccessControl
func (s *Service) CheckOwner(ctx context.Context, userID string) bool {
	return userID != "" && s.admins[userID]
}
