package cmd

import (
	"sync"

	"lendledger/service/oracle"
	"lendledger/worker"
	"lendledger/worker/priceoracle"
	"lendledger/worker/publisher"
	"lendledger/worker/ratesnapshot"

	"github.com/fox-one/pkg/logger"
	"github.com/spf13/cobra"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "run lendledger background workers",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		log := logger.FromContext(ctx)
		ctx = logger.WithContext(ctx, log)

		database := provideDatabase()
		defer database.Close()

		n := provideNode(database)
		workers := []worker.Worker{
			ratesnapshot.New(n.config.App.Location, n.config.Worker.RateSnapshotSpec, n.market, n.interest),
			priceoracle.New(n.market, n.prices, n.blocks, oracle.NewTickerService(n.config.PriceOracle)),
		}

		if skip, _ := cmd.Flags().GetBool("no-publish"); !skip {
			rdb := provideRedis()
			defer rdb.Close()

			cursor := publisher.PropertyCursor(providePropertyStore(database))
			workers = append(workers, publisher.New(n.entries, publisher.NewRedis(rdb, n.config.Redis.EntriesKey), cursor))
		}

		wg := sync.WaitGroup{}
		for _, w := range workers {
			wg.Add(1)

			go func(worker worker.Worker) {
				defer wg.Done()
				if err := worker.Run(ctx); err != nil && ctx.Err() == nil {
					log.WithError(err).Errorln("worker stopped")
				}
			}(w)
		}

		wg.Wait()
	},
}

func init() {
	rootCmd.AddCommand(workerCmd)
	workerCmd.Flags().Bool("no-publish", false, "do not publish ledger entries to redis")
}
