// Package runner runs product operations as one unit of work.
//
// An operation holds the locks of its customer, of every asset whose
// aggregate rows it posts to and of its trace id. It commits all of its
// postings or none, and a trace id that already has postings is refused.
package runner

import (
	"context"
	"errors"

	"lendledger/core"
	"lendledger/pkg/lockmap"

	"github.com/fox-one/pkg/logger"
)

// DefaultRetries times an operation is run again after a concurrent checkpoint update
const DefaultRetries = 3

// Runner runs operations over one ledger
type Runner struct {
	ledger     core.Ledger
	transactor core.Transactor
	locks      *lockmap.Lockmap
	retries    int
}

// New new runner, locks should be shared by every product of the ledger
func New(ledger core.Ledger, transactor core.Transactor, locks *lockmap.Lockmap) *Runner {
	return &Runner{
		ledger:     ledger,
		transactor: transactor,
		locks:      locks,
		retries:    DefaultRetries,
	}
}

// Keys lock keys of an operation by customer under traceID posting to assets
func Keys(customer, traceID string, assets ...string) []string {
	keys := make([]string, 0, len(assets)+2)
	keys = append(keys, "customer:"+customer, "trace:"+traceID)
	for _, asset := range assets {
		keys = append(keys, "asset:"+asset)
	}

	return keys
}

// Run fn in a transaction under the trace id carried by ctx
func (r *Runner) Run(ctx context.Context, customer string, assets []string, fn func(ctx context.Context) error) error {
	traceID := core.TraceIDFrom(ctx)
	if traceID == "" {
		return core.NewError(core.ErrInvalidArgument, core.Params{"trace_id": traceID})
	}

	unlock := r.locks.LockAll(Keys(customer, traceID, assets...)...)
	defer unlock()

	for attempt := 0; ; attempt++ {
		err := r.transactor.Tx(ctx, func(ctx context.Context) error {
			used, err := r.ledger.TraceUsed(ctx, traceID)
			if err != nil {
				return err
			}

			if used {
				return core.NewError(core.ErrTraceUsed, core.Params{"trace_id": traceID})
			}

			return fn(ctx)
		})

		if err == nil || attempt >= r.retries || !errors.Is(err, core.ErrConcurrentUpdate) {
			return err
		}

		logger.FromContext(ctx).WithError(err).Debugf("runner: %s conflicted, attempt %d", traceID, attempt+1)
	}
}
