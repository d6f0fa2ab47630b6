package transaction

import (
	"github.com/sourcegraph/conc/pool"
	"github.com/starkcore/txexec/core"
	"github.com/starkcore/txexec/state"
)

// BlockExecutor runs a batch of transactions concurrently by cloning the
// parent CachedState per transaction and merging each clone's StateCache
// diff back into the parent in strict submission order once every
// transaction has finished. Per-transaction execution is concurrent; the
// merge step is sequential and therefore deterministic regardless of
// goroutine scheduling.
type BlockExecutor struct {
	Base        *state.CachedState
	Block       *core.BlockContext
	Opts        ExecuteOptions
	Concurrency int
}

func NewBlockExecutor(base *state.CachedState, block *core.BlockContext, opts ExecuteOptions, concurrency int) *BlockExecutor {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &BlockExecutor{Base: base, Block: block, Opts: opts, Concurrency: concurrency}
}

// BlockResult is the outcome of executing one transaction within a block.
type BlockResult struct {
	Info *TransactionExecutionInfo
	Err  error
}

// ExecuteBlock runs every transaction against its own clone of Base and
// merges clones back into Base in the order txs were submitted, never in
// goroutine-completion order.
func (be *BlockExecutor) ExecuteBlock(txs []Transaction) ([]BlockResult, error) {
	results := make([]BlockResult, len(txs))
	clones := make([]*state.CachedState, len(txs))

	p := pool.New().WithMaxGoroutines(be.Concurrency)
	for i, tx := range txs {
		i, tx := i, tx
		p.Go(func() {
			clone, err := be.Base.CloneForTesting()
			if err != nil {
				results[i] = BlockResult{Err: err}
				return
			}
			info, execErr := tx.Execute(clone, be.Block, be.Opts)
			results[i] = BlockResult{Info: info, Err: execErr}
			clones[i] = clone
		})
	}
	p.Wait()

	for _, clone := range clones {
		if clone == nil {
			continue
		}
		be.Base.Cache().Merge(clone.Cache())
	}
	return results, nil
}
