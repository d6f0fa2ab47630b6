// Package transaction implements the per-kind orchestration of
// validate -> execute -> charge fee against a CachedState: nonce
// discipline, revert semantics, and fee accounting sit here, on top of
// the execution and syscall packages.
package transaction

import (
	"github.com/starkcore/txexec/core"
	"github.com/starkcore/txexec/fee"
	"github.com/starkcore/txexec/felt"
	"github.com/starkcore/txexec/state"
	"github.com/starkcore/txexec/syscall"
	"github.com/starkcore/txexec/utils"
	"github.com/starkcore/txexec/vm"
)

// TxType identifies a transaction variant; used for dispatch-free
// reporting on TransactionExecutionInfo.
type TxType string

const (
	TxInvoke        TxType = "INVOKE_FUNCTION"
	TxDeclare       TxType = "DECLARE"
	TxDeclareV2     TxType = "DECLARE_V2"
	TxDeploy        TxType = "DEPLOY"
	TxDeployAccount TxType = "DEPLOY_ACCOUNT"
	TxL1Handler     TxType = "L1_HANDLER"
)

// ExecuteOptions configures one Execute call: the VM and hash collaborators
// every variant needs, the fee weights, and the testing escape hatches
// (skip_validate, skip_nonce_check, skip_fee_transfer).
type ExecuteOptions struct {
	VM              vm.VM
	HashEngine      core.HashEngine
	Weights         fee.ResourceWeights
	Logger          utils.Logger
	SkipValidate    bool
	SkipNonceCheck  bool
	SkipFeeTransfer bool
}

func (o ExecuteOptions) logger() utils.Logger {
	if o.Logger == nil {
		return utils.NewNopLogger()
	}
	return o.Logger
}

// Transaction is the shared interface every tagged tx-kind variant
// implements -- a tagged variant with per-kind payload rather than a class
// hierarchy.
type Transaction interface {
	Execute(st *state.CachedState, block *core.BlockContext, opts ExecuteOptions) (*TransactionExecutionInfo, error)
	TxType() TxType
	Nonce() *felt.Felt
	SenderAddress() core.Address
	TxHash() *felt.Felt
}

// BaseTx carries the fields common to every fee-charging transaction kind.
// L1HandlerTransaction does not embed it -- it has no max_fee, signature or
// nonce-charging semantics of its own kind.
type BaseTx struct {
	Hash          *felt.Felt
	Version       *felt.Felt
	MaxFee        *felt.Felt
	NonceVal      *felt.Felt
	SenderAddr    core.Address
	SignatureVals []*felt.Felt
}

func (b BaseTx) Nonce() *felt.Felt         { return b.NonceVal }
func (b BaseTx) SenderAddress() core.Address { return b.SenderAddr }
func (b BaseTx) TxHash() *felt.Felt        { return b.Hash }

// selector derives a dispatch selector from an entry-point name. Matching
// the rest of the engine's existing simplification, this is Keccak256Felt
// rather than the real Starknet selector derivation (keccak250 truncation
// over the ASCII name) -- see core.Keccak256Felt's doc comment.
func selector(name string) *felt.Felt {
	return core.Keccak256Felt([]byte(name))
}

var zeroFelt = felt.Zero

// txContext builds the per-transaction syscall context shared by the
// validate and execute phases; only ValidateMode differs between them.
func txContext(block *core.BlockContext, hashEngine core.HashEngine, hash, version, maxFee, nonce *felt.Felt, sender core.Address, sig []*felt.Felt, validateMode bool, orders *syscall.OrderCounters) *syscall.TxContext {
	return &syscall.TxContext{
		Block:         block,
		TxHash:        hash,
		Version:       version,
		MaxFee:        maxFee,
		Nonce:         nonce,
		SenderAddress: sender,
		Signature:     sig,
		ValidateMode:  validateMode,
		HashEngine:    hashEngine,
		Orders:        orders,
	}
}
