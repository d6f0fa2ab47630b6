package core

import "github.com/starkcore/txexec/felt"

// Network identifies the chain a transaction hash is bound to.
type Network struct {
	Name    string
	ChainID *felt.Felt
}

func (n Network) L2ChainIDFelt() *felt.Felt { return n.ChainID }

// ResourceName is a key into the weighted resource map used for fee
// calculation.
type ResourceName string

const (
	ResourceSteps          ResourceName = "n_steps"
	ResourceRangeCheck     ResourceName = "range_check_builtin"
	ResourcePedersen       ResourceName = "pedersen_builtin"
	ResourceEcOp           ResourceName = "ec_op_builtin"
	ResourceEcdsa          ResourceName = "ecdsa_builtin"
	ResourceBitwise        ResourceName = "bitwise_builtin"
	ResourceOutput         ResourceName = "output_builtin"
	ResourcePoseidon       ResourceName = "poseidon_builtin"
	ResourceSegmentArena   ResourceName = "segment_arena_builtin"
	ResourceL1GasUsage     ResourceName = "l1_gas_usage"
)

// BlockContext carries the per-block parameters contracts and the fee model
// observe during execution.
type BlockContext struct {
	ChainID          Network
	FeeTokenAddress  Address
	GasPriceWei      *felt.Felt
	GasPriceFri      *felt.Felt
	SequencerAddress Address
	BlockNumber      uint64
	BlockTimestamp   uint64
	FeeWeights       map[ResourceName]float64
	InvokeTxMaxSteps uint64
}

// DefaultCairoResourceFeeWeights mirrors DEFAULT_CAIRO_RESOURCE_FEE_WEIGHTS:
// each VM resource has a weight, and the fee is the ceil of the dominant
// (max) weighted resource.
func DefaultCairoResourceFeeWeights() map[ResourceName]float64 {
	return map[ResourceName]float64{
		ResourceSteps:        0.01,
		ResourceRangeCheck:   0.04,
		ResourcePedersen:     0.032,
		ResourceEcOp:         0.64,
		ResourceEcdsa:        0.64,
		ResourceBitwise:      0.04864,
		ResourceOutput:       0,
		ResourcePoseidon:     0.032,
		ResourceSegmentArena: 0.1,
		ResourceL1GasUsage:   1,
	}
}
