// Package fee implements the weighted resource -> actual_fee model: a
// per-resource ceil(weight * count), with the transaction fee dominated by
// the single largest weighted resource rather than their sum.
package fee

import (
	"math"

	"github.com/mitchellh/mapstructure"
	"github.com/starkcore/txexec/core"
	"github.com/starkcore/txexec/felt"
)

// ResourceWeights is the typed form of DEFAULT_CAIRO_RESOURCE_FEE_WEIGHTS,
// decoded from a generic config map with mitchellh/mapstructure so it can
// be sourced from YAML/JSON/flags without engine code caring which.
type ResourceWeights struct {
	Steps          float64 `mapstructure:"n_steps"`
	RangeCheck     float64 `mapstructure:"range_check_builtin"`
	Pedersen       float64 `mapstructure:"pedersen_builtin"`
	EcOp           float64 `mapstructure:"ec_op_builtin"`
	Ecdsa          float64 `mapstructure:"ecdsa_builtin"`
	Bitwise        float64 `mapstructure:"bitwise_builtin"`
	Output         float64 `mapstructure:"output_builtin"`
	Poseidon       float64 `mapstructure:"poseidon_builtin"`
	SegmentArena   float64 `mapstructure:"segment_arena_builtin"`
	L1GasUsage     float64 `mapstructure:"l1_gas_usage"`
}

// DecodeResourceWeights decodes a generic map (as loaded by viper from a
// config file or flag set) into a ResourceWeights struct.
func DecodeResourceWeights(raw map[string]any) (ResourceWeights, error) {
	var out ResourceWeights
	err := mapstructure.Decode(raw, &out)
	return out, err
}

func DefaultResourceWeights() ResourceWeights {
	w := core.DefaultCairoResourceFeeWeights()
	return ResourceWeights{
		Steps:        w[core.ResourceSteps],
		RangeCheck:   w[core.ResourceRangeCheck],
		Pedersen:     w[core.ResourcePedersen],
		EcOp:         w[core.ResourceEcOp],
		Ecdsa:        w[core.ResourceEcdsa],
		Bitwise:      w[core.ResourceBitwise],
		Output:       w[core.ResourceOutput],
		Poseidon:     w[core.ResourcePoseidon],
		SegmentArena: w[core.ResourceSegmentArena],
		L1GasUsage:   w[core.ResourceL1GasUsage],
	}
}

// weightedResource is one (name, weight, count) triple, kept in a fixed
// slice (rather than ranged from a map) so fee computation is deterministic
// regardless of Go's randomized map iteration order.
type weightedResource struct {
	weight float64
	count  uint64
}

func (w ResourceWeights) ordered(resources *core.ExecutionResources, l1GasUsage uint64) []weightedResource {
	return []weightedResource{
		{w.Steps, resources.Steps},
		{w.RangeCheck, resources.BuiltinCount[core.BuiltinRangeCheck]},
		{w.Pedersen, resources.BuiltinCount[core.BuiltinPedersen]},
		{w.EcOp, resources.BuiltinCount[core.BuiltinEcOp]},
		{w.Ecdsa, resources.BuiltinCount[core.BuiltinEcdsa]},
		{w.Bitwise, resources.BuiltinCount[core.BuiltinBitwise]},
		{w.Output, resources.BuiltinCount[core.BuiltinOutput]},
		{w.Poseidon, resources.BuiltinCount[core.BuiltinPoseidon]},
		{w.SegmentArena, resources.BuiltinCount[core.BuiltinSegmentArena]},
		{w.L1GasUsage, l1GasUsage},
	}
}

const (
	// L1GasPerContract is the per-distinct-contract storage-write overhead.
	L1GasPerContract uint64 = 1224
	// L1GasPerMessage is the fixed overhead of one L2->L1 message.
	L1GasPerMessage uint64 = 1024
	// L1GasPerPayloadWord is the marginal cost of one felt of message
	// payload.
	L1GasPerPayloadWord uint64 = 128
)

// ComputeL1GasUsage implements the l1_gas_usage formula.
func ComputeL1GasUsage(distinctContractsWithStorageWrites int, messages []core.OrderedL2ToL1Message) uint64 {
	total := uint64(distinctContractsWithStorageWrites) * L1GasPerContract
	for _, m := range messages {
		total += L1GasPerMessage + uint64(len(m.Payload))*L1GasPerPayloadWord
	}
	return total
}

// CalculateFee computes per-resource ceil(w_r * n_r), then the transaction
// fee is gasPrice times the MAXIMUM of those (single-resource dominance),
// ceiled to an integer.
func CalculateFee(weights ResourceWeights, resources *core.ExecutionResources, l1GasUsage uint64, gasPrice *felt.Felt) *felt.Felt {
	var maxComponent float64
	for _, wr := range weights.ordered(resources, l1GasUsage) {
		component := math.Ceil(wr.weight * float64(wr.count))
		if component > maxComponent {
			maxComponent = component
		}
	}
	feeUnits := new(felt.Felt).SetUint64(uint64(math.Ceil(maxComponent)))
	return new(felt.Felt).Mul(feeUnits, gasPrice)
}
