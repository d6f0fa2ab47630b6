package fee

import (
	"testing"

	"github.com/starkcore/txexec/core"
	"github.com/starkcore/txexec/felt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateFeeDominantResourceWins(t *testing.T) {
	weights := DefaultResourceWeights()
	resources := core.NewExecutionResources()
	resources.Steps = 1000
	resources.AddBuiltin(core.BuiltinPedersen, 10)

	gasPrice := felt.New(1)
	got := CalculateFee(weights, resources, 0, gasPrice)

	stepsComponent := weights.Steps * float64(resources.Steps)
	pedersenComponent := weights.Pedersen * float64(resources.BuiltinCount[core.BuiltinPedersen])
	require.Greater(t, stepsComponent, pedersenComponent)

	want := felt.New(10) // ceil(0.01 * 1000) = 10
	assert.True(t, got.Equal(want), "expected dominant steps component, got %s want %s", got.String(), want.String())
}

func TestCalculateFeeScalesWithGasPrice(t *testing.T) {
	weights := DefaultResourceWeights()
	resources := core.NewExecutionResources()
	resources.Steps = 100

	cheap := CalculateFee(weights, resources, 0, felt.New(1))
	expensive := CalculateFee(weights, resources, 0, felt.New(5))

	assert.Equal(t, 0, new(felt.Felt).Mul(cheap, felt.New(5)).Cmp(expensive))
}

func TestComputeL1GasUsagePerContractAndMessage(t *testing.T) {
	noTouch := ComputeL1GasUsage(0, nil)
	assert.Equal(t, uint64(0), noTouch)

	oneContract := ComputeL1GasUsage(1, nil)
	assert.Equal(t, L1GasPerContract, oneContract)

	withMessage := ComputeL1GasUsage(0, []core.OrderedL2ToL1Message{
		{Payload: []*felt.Felt{felt.New(1), felt.New(2)}},
	})
	assert.Equal(t, L1GasPerMessage+2*L1GasPerPayloadWord, withMessage)
}

func TestCalculateFeeIsMonotonicInEachResource(t *testing.T) {
	weights := DefaultResourceWeights()
	base := core.NewExecutionResources()
	base.Steps = 500
	base.AddBuiltin(core.BuiltinRangeCheck, 100)
	baseline := CalculateFee(weights, base, 1000, felt.New(1))

	bumpSteps := core.NewExecutionResources()
	bumpSteps.Steps = base.Steps * 10
	bumpSteps.AddBuiltin(core.BuiltinRangeCheck, 100)
	assert.True(t, CalculateFee(weights, bumpSteps, 1000, felt.New(1)).Cmp(baseline) >= 0)

	bumpBuiltin := core.NewExecutionResources()
	bumpBuiltin.Steps = base.Steps
	bumpBuiltin.AddBuiltin(core.BuiltinRangeCheck, 100_000)
	assert.True(t, CalculateFee(weights, bumpBuiltin, 1000, felt.New(1)).Cmp(baseline) >= 0)

	assert.True(t, CalculateFee(weights, base, 100_000, felt.New(1)).Cmp(baseline) >= 0)
}

func TestDecodeResourceWeightsFromConfigMap(t *testing.T) {
	raw := map[string]any{
		"n_steps":            0.02,
		"range_check_builtin": 0.08,
	}
	weights, err := DecodeResourceWeights(raw)
	require.NoError(t, err)
	assert.Equal(t, 0.02, weights.Steps)
	assert.Equal(t, 0.08, weights.RangeCheck)
}
