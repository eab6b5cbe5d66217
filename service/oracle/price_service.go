package oracle

import (
	"context"
	"fmt"
	"time"

	"lendledger/core"
	"lendledger/pkg/resthttp"

	"github.com/fox-one/pkg/logger"
)

type tickerService struct {
	endpoint string
}

// NewTickerService pulls price tickers from the upstream price endpoint
func NewTickerService(cfg core.PriceOracleConfig) core.PriceTickerService {
	return &tickerService{endpoint: cfg.EndPoint}
}

// PullPriceTicker pull price ticker of assetID at t
func (s *tickerService) PullPriceTicker(ctx context.Context, assetID string, t time.Time) (*core.PriceTicker, error) {
	if s.endpoint == "" {
		return nil, core.NewError(core.ErrOracleNotConfigured, core.Params{"end_point": s.endpoint})
	}

	url := fmt.Sprintf("%s/api/v2/tickers/%s?ts=%d", s.endpoint, assetID, t.UTC().Unix())
	logger.FromContext(ctx).Debugln("pull price:", url)

	var ticker core.PriceTicker
	if _, err := resthttp.Execute(resthttp.Request(ctx), "GET", url, nil, &ticker); err != nil {
		return nil, core.WrapError(core.ErrPriceUnavailable, err, core.Params{"asset": assetID})
	}

	if !ticker.Price.IsPositive() {
		return nil, core.NewError(core.ErrInvalidPrice, core.Params{"asset": assetID, "price": ticker.Price})
	}

	return &ticker, nil
}
