package transaction

import (
	"fmt"

	"github.com/starkcore/txexec/core"
	"github.com/starkcore/txexec/execution"
	"github.com/starkcore/txexec/fee"
	"github.com/starkcore/txexec/felt"
	"github.com/starkcore/txexec/state"
	"github.com/starkcore/txexec/syscall"
)

// DeployAccountTransaction deploys the sender address itself, at a
// deterministic address derived from (zero deployer, salt, class_hash,
// constructor_calldata). Unlike every other variant, deploy and constructor
// run BEFORE validate -- the account's own __validate_deploy__ can only run
// once the account's code exists at that address.
type DeployAccountTransaction struct {
	BaseTx
	ClassHash           core.ClassHash
	ContractAddressSalt *felt.Felt
	ConstructorCalldata []*felt.Felt
}

func (tx *DeployAccountTransaction) TxType() TxType { return TxDeployAccount }

func (tx *DeployAccountTransaction) Execute(st *state.CachedState, block *core.BlockContext, opts ExecuteOptions) (*TransactionExecutionInfo, error) {
	log := opts.logger()
	addr := core.ComputeContractAddress(opts.HashEngine, core.Address{}, tx.ContractAddressSalt, tx.ClassHash, tx.ConstructorCalldata)
	tx.SenderAddr = addr

	ep := execution.New(opts.VM)
	orders := &syscall.OrderCounters{}
	checkpoint := st.Checkpoint()

	st.SetClassHashAt(addr, tx.ClassHash)

	executeTxCtx := txContext(block, opts.HashEngine, tx.Hash, tx.Version, tx.MaxFee, tx.NonceVal, addr, tx.SignatureVals, false, orders)
	ctorInfo, execErr := ep.Execute(st, executeTxCtx, core.Address{}, addr, nil, nil, selector("constructor"),
		tx.ConstructorCalldata, core.EntryPointConstructor, core.CallTypeCall, 0)

	var validateInfo *core.CallInfo
	if execErr == nil && !ctorInfo.FailureFlag && !opts.SkipValidate {
		validateCalldata := append([]*felt.Felt{&tx.ClassHash.Felt, tx.ContractAddressSalt}, tx.ConstructorCalldata...)
		validateTxCtx := txContext(block, opts.HashEngine, tx.Hash, tx.Version, tx.MaxFee, tx.NonceVal, addr, tx.SignatureVals, true, orders)
		validateInfo, execErr = ep.Execute(st, validateTxCtx, addr, addr, nil, nil, selector("__validate_deploy__"),
			validateCalldata, core.EntryPointExternal, core.CallTypeCall, 0)
	}

	runtimeFailed := execErr != nil || (ctorInfo != nil && ctorInfo.FailureFlag) || (validateInfo != nil && validateInfo.FailureFlag)

	resources := aggregateResources(ctorInfo, validateInfo)
	l1Gas := fee.ComputeL1GasUsage(distinctContractsTouched(ctorInfo, validateInfo), aggregateMessages(ctorInfo, validateInfo))
	actualFee := fee.CalculateFee(opts.Weights, resources, l1Gas, block.GasPriceWei)
	feeExceeds := actualFee.Cmp(tx.MaxFee) > 0
	reverted := runtimeFailed || feeExceeds

	if reverted {
		st.Rollback(checkpoint)
		// The nonce bump (and fee transfer, below) are re-applied on top of
		// the rolled-back state: class_hash_at(addr) goes back to zero, but
		// the account is considered to have consumed this nonce.
		st.SetNonceAt(addr, felt.New(1))

		feeToCharge := actualFee
		if feeExceeds {
			feeToCharge = tx.MaxFee
		}
		var msg string
		switch {
		case feeExceeds:
			msg = fmt.Sprintf("Calculated fee (%s) exceeds max fee (%s)", actualFee.Text(felt.Base10), tx.MaxFee.Text(felt.Base10))
		case execErr != nil:
			msg = execErr.Error()
		default:
			msg = "execution reverted"
		}
		log.Warnw("deploy_account reverted", "address", addr.String(), "reason", msg)

		var feeInfo *core.CallInfo
		if !opts.SkipFeeTransfer {
			var ferr error
			feeInfo, ferr = synthesizeFeeTransfer(st, block, opts, addr, feeToCharge)
			if ferr != nil {
				return nil, wrapState(ferr)
			}
		}
		info := (&TransactionExecutionInfo{TxType: TxDeployAccount}).ToRevertError(msg)
		info.SetFeeInfo(feeToCharge, feeInfo)
		return info, nil
	}

	st.SetNonceAt(addr, felt.New(1))

	var feeInfo *core.CallInfo
	if !opts.SkipFeeTransfer {
		var ferr error
		feeInfo, ferr = synthesizeFeeTransfer(st, block, opts, addr, actualFee)
		if ferr != nil {
			return nil, wrapState(ferr)
		}
	}
	info := &TransactionExecutionInfo{
		ValidateCallInfo: validateInfo,
		ExecuteCallInfo:  ctorInfo,
		TxType:           TxDeployAccount,
		Resources:        resources,
	}
	info.SetFeeInfo(actualFee, feeInfo)
	return info, nil
}
