package priceoracle

import (
	"context"
	"time"

	"lendledger/core"
	"lendledger/pkg/concurrency"
	"lendledger/worker"

	"github.com/fox-one/pkg/logger"
)

// Retention prices older than this are pruned
const Retention = 7 * 24 * time.Hour

// Worker pulls a ticker per asset and records it as the asset's price at the current block
type Worker struct {
	worker.TickWorker
	Assets        core.AssetService
	PriceStore    core.PriceStore
	BlockService  core.BlockService
	TickerService core.PriceTickerService
	limit         *concurrency.GoLimit
	now           func() time.Time
}

// New new price oracle worker
func New(assets core.AssetService, priceStr core.PriceStore, blockSrv core.BlockService, tickerSrv core.PriceTickerService) *Worker {
	job := Worker{
		TickWorker: worker.TickWorker{
			Delay:    10 * time.Second,
			ErrDelay: time.Second,
		},
		Assets:        assets,
		PriceStore:    priceStr,
		BlockService:  blockSrv,
		TickerService: tickerSrv,
		limit:         concurrency.NewGoLimit(8),
		now:           time.Now,
	}

	return &job
}

// Run run worker
func (w *Worker) Run(ctx context.Context) error {
	return w.StartTick(ctx, func(ctx context.Context) error {
		return w.onWork(ctx)
	})
}

func (w *Worker) onWork(ctx context.Context) error {
	log := logger.FromContext(ctx).WithField("worker", "priceoracle")

	assets, err := w.Assets.All(ctx)
	if err != nil {
		log.WithError(err).Errorln("assets.All")
		return err
	}

	if len(assets) == 0 {
		log.Infoln("no asset found")
		return nil
	}

	now := w.now()
	blockNum, err := w.BlockService.GetBlock(ctx, now)
	if err != nil {
		log.WithError(err).Errorln("GetBlock")
		return err
	}

	tasks := make([]func(ctx context.Context) error, 0, len(assets))
	for _, asset := range assets {
		asset := asset
		tasks = append(tasks, func(ctx context.Context) error {
			ticker, err := w.TickerService.PullPriceTicker(ctx, asset.ID, now)
			if err != nil {
				log.WithError(err).Errorln("pull price ticker", asset.ID)
				return err
			}

			if !ticker.Price.IsPositive() {
				log.Errorln("invalid ticker price:", ticker.Symbol, ":", ticker.Price)
				return core.NewError(core.ErrInvalidPrice, core.Params{"asset": asset.ID, "price": ticker.Price})
			}

			price := core.Price{
				AssetID:  asset.ID,
				Block:    blockNum,
				Price:    ticker.Price,
				Provider: ticker.Provider,
			}

			if err := w.PriceStore.Create(ctx, &price); err != nil {
				log.WithError(err).Errorln("PriceStore.Create", asset.ID)
				return err
			}

			return nil
		})
	}

	if err := concurrency.Await(ctx, w.limit, tasks...); err != nil {
		return err
	}

	if err := w.PriceStore.DeleteByTime(ctx, now.Add(-Retention)); err != nil {
		log.WithError(err).Errorln("PriceStore.DeleteByTime")
		return err
	}

	return nil
}
