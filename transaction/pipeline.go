package transaction

import (
	"errors"
	"fmt"

	"github.com/starkcore/txexec/core"
	"github.com/starkcore/txexec/execution"
	"github.com/starkcore/txexec/fee"
	"github.com/starkcore/txexec/felt"
	"github.com/starkcore/txexec/state"
	"github.com/starkcore/txexec/syscall"
)

// phaseFunc runs one phase (validate or execute) of a transaction and
// returns the CallInfo it produced.
type phaseFunc func(st *state.CachedState, txctx *syscall.TxContext, ep *execution.EntryPoint) (*core.CallInfo, error)

// pipelineInput collects everything runPipeline needs that is common
// across tx kinds; each variant's Execute method builds one of these and
// supplies its own validate/execute phaseFuncs.
type pipelineInput struct {
	TxType    TxType
	Hash      *felt.Felt
	Version   *felt.Felt
	MaxFee    *felt.Felt
	Nonce     *felt.Felt
	Sender    core.Address
	Signature []*felt.Felt
	Validate  phaseFunc // nil if the kind has no validate phase
	Execute   phaseFunc
}

// runPipeline implements the common pre-flight / validate / execute / fee
// sequence shared by InvokeFunction, Declare and DeclareV2.
// DeployAccountTransaction runs its own variant (deploy and constructor
// before validate); DeployTransaction and L1HandlerTransaction do not use
// it either -- they have no validate phase and never charge a fee.
func runPipeline(st *state.CachedState, block *core.BlockContext, opts ExecuteOptions, in pipelineInput) (*TransactionExecutionInfo, error) {
	log := opts.logger()

	if !opts.SkipNonceCheck {
		current, err := st.GetNonceAt(in.Sender)
		if err != nil {
			return nil, wrapState(err)
		}
		if !current.Equal(in.Nonce) {
			return nil, NewTransactionError(ErrInvalidNonce, fmt.Sprintf(
				"nonce mismatch: state has %s, tx has %s", current.String(), in.Nonce.String()))
		}
	}

	ep := execution.New(opts.VM)
	orders := &syscall.OrderCounters{}

	var validateInfo *core.CallInfo
	if !opts.SkipValidate && in.Validate != nil {
		txctx := txContext(block, opts.HashEngine, in.Hash, in.Version, in.MaxFee, in.Nonce, in.Sender, in.Signature, true, orders)
		info, err := in.Validate(st, txctx, ep)
		if err != nil {
			return nil, NewTransactionError(ErrEntryPointNotFound, err.Error())
		}
		if info.FailureFlag {
			return nil, NewTransactionError(ErrEntryPointNotFound, "validate failed")
		}
		validateInfo = info
	}

	if err := st.IncrementNonce(in.Sender); err != nil {
		return nil, wrapState(err)
	}

	checkpoint := st.Checkpoint()

	executeTxCtx := txContext(block, opts.HashEngine, in.Hash, in.Version, in.MaxFee, in.Nonce, in.Sender, in.Signature, false, orders)
	executeInfo, execErr := in.Execute(st, executeTxCtx, ep)

	if execErr != nil && errors.Is(execErr, core.ErrEntryPointNotFound) {
		st.Rollback(checkpoint)
		return nil, NewTransactionError(ErrEntryPointNotFound, execErr.Error())
	}

	runtimeFailed := execErr != nil || (executeInfo != nil && executeInfo.FailureFlag)

	resources := aggregateResources(validateInfo, executeInfo)
	l1Gas := fee.ComputeL1GasUsage(distinctContractsTouched(validateInfo, executeInfo), aggregateMessages(validateInfo, executeInfo))
	actualFee := fee.CalculateFee(opts.Weights, resources, l1Gas, block.GasPriceWei)
	feeExceeds := actualFee.Cmp(in.MaxFee) > 0
	reverted := runtimeFailed || feeExceeds

	if reverted {
		st.Rollback(checkpoint)

		feeToCharge := actualFee
		if feeExceeds {
			feeToCharge = in.MaxFee
		}

		var msg string
		switch {
		case feeExceeds:
			msg = fmt.Sprintf("Calculated fee (%s) exceeds max fee (%s)", actualFee.Text(felt.Base10), in.MaxFee.Text(felt.Base10))
		case execErr != nil:
			msg = execErr.Error()
		default:
			msg = "execution reverted"
		}
		log.Warnw("transaction reverted", "tx_hash", in.Hash.String(), "reason", msg)

		var feeInfo *core.CallInfo
		if !opts.SkipFeeTransfer {
			var ferr error
			feeInfo, ferr = synthesizeFeeTransfer(st, block, opts, in.Sender, feeToCharge)
			if ferr != nil {
				return nil, wrapState(ferr)
			}
		}
		info := (&TransactionExecutionInfo{TxType: in.TxType}).ToRevertError(msg)
		info.SetFeeInfo(feeToCharge, feeInfo)
		return info, nil
	}

	var feeInfo *core.CallInfo
	if !opts.SkipFeeTransfer {
		var ferr error
		feeInfo, ferr = synthesizeFeeTransfer(st, block, opts, in.Sender, actualFee)
		if ferr != nil {
			return nil, wrapState(ferr)
		}
	}

	info := &TransactionExecutionInfo{
		ValidateCallInfo: validateInfo,
		ExecuteCallInfo:  executeInfo,
		TxType:           in.TxType,
		Resources:        resources,
	}
	info.SetFeeInfo(actualFee, feeInfo)
	log.Infow("transaction executed", "tx_hash", in.Hash.String(), "actual_fee", actualFee.String())
	return info, nil
}

// synthesizeFeeTransfer invokes the fee token contract's
// transfer(sequencer, fee_to_charge, 0) entry point. It runs in its own
// call tree (a fresh OrderCounters) since fee transfer is reported
// separately from validate/execute.
func synthesizeFeeTransfer(st *state.CachedState, block *core.BlockContext, opts ExecuteOptions, sender core.Address, feeToCharge *felt.Felt) (*core.CallInfo, error) {
	ep := execution.New(opts.VM)
	txctx := txContext(block, opts.HashEngine, &felt.Zero, &felt.Zero, feeToCharge, &felt.Zero, sender, nil, false, &syscall.OrderCounters{})
	calldata := []*felt.Felt{block.SequencerAddress.Felt.Clone(), feeToCharge, &zeroFelt}
	return ep.Execute(st, txctx, sender, block.FeeTokenAddress, nil, nil, selector("transfer"), calldata,
		core.EntryPointExternal, core.CallTypeCall, 0)
}

func aggregateResources(infos ...*core.CallInfo) *core.ExecutionResources {
	total := core.NewExecutionResources()
	for _, info := range infos {
		if info == nil {
			continue
		}
		total.Add(info.AggregatedResources())
	}
	return total
}

func aggregateMessages(infos ...*core.CallInfo) []core.OrderedL2ToL1Message {
	var out []core.OrderedL2ToL1Message
	for _, info := range infos {
		if info == nil {
			continue
		}
		out = append(out, info.AggregatedL2ToL1Messages()...)
	}
	return out
}

// distinctContractsTouched counts contracts that recorded at least one
// storage access anywhere in the given call trees, the proxy this engine
// uses for "distinct contract touched for storage" in the l1_gas_usage
// formula.
func distinctContractsTouched(infos ...*core.CallInfo) int {
	seen := make(map[felt.Felt]struct{})
	var walk func(ci *core.CallInfo)
	walk = func(ci *core.CallInfo) {
		if ci == nil {
			return
		}
		if len(ci.AccessedStorageKeys) > 0 {
			seen[ci.ContractAddress.Felt] = struct{}{}
		}
		for _, inner := range ci.InternalCalls {
			walk(inner)
		}
	}
	for _, info := range infos {
		walk(info)
	}
	return len(seen)
}
