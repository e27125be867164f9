package policy

import (
	"encoding/json"
	"fmt"
	"os"
)

// NumLayers is the fixed depth of the policy network: two hidden layers and
// one linear action head.
const NumLayers = 3

// DefaultScale is the Q-scale used when no weights artifact is loaded
// (classical policies still consume the scaled state vector layout).
const DefaultScale = 1024

// WeightBoundFactor bounds the magnitude of every quantized weight and bias
// relative to the scale. Together with state values bounded by the scale,
// it keeps per-term products within int32 before the saturating accumulate
// takes over. The training-side exporter has never produced weights outside
// a factor of 8.
const WeightBoundFactor = 8

// Layer is one dense layer of the quantized network. Weights are stored in
// [output][input] order, matching the exporter and giving row-contiguous
// iteration during inference.
type Layer struct {
	Weights [][]int32
	Biases  []int32
}

// Outputs returns the layer's output neuron count.
func (l *Layer) Outputs() int { return len(l.Weights) }

// Inputs returns the layer's input width.
func (l *Layer) Inputs() int {
	if len(l.Weights) == 0 {
		return 0
	}
	return len(l.Weights[0])
}

// Network is the immutable quantized policy network. Every value represents
// real_value * Scale. It is loaded once at startup and never mutated.
type Network struct {
	Scale  int32
	Layers [NumLayers]Layer
}

// layerRecord mirrors one layer entry of the exporter JSON. The float copies
// of the weights exist for debugging the exporter and are ignored here.
type layerRecord struct {
	WeightShape []int     `json:"weight_shape"`
	WeightsQ    [][]int32 `json:"weights_q10"`
	BiasesQ     []int32   `json:"biases_q10"`
}

type artifact struct {
	Scale  int32         `json:"q10_scale"`
	Layers []layerRecord `json:"layers"`
}

// LoadNetwork reads and validates a weights artifact file. Any structural
// problem is fatal at initialization: running inference against a
// misinterpreted weight layout produces undefined scheduling behavior.
func LoadNetwork(path string) (*Network, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read weights artifact: %w", err)
	}
	net, err := ParseNetwork(data)
	if err != nil {
		return nil, fmt.Errorf("invalid weights artifact %s: %w", path, err)
	}
	return net, nil
}

// ParseNetwork decodes the exporter JSON and checks every dimension the
// inference loops rely on, so the hot path needs no bounds checks of its own.
func ParseNetwork(data []byte) (*Network, error) {
	var art artifact
	if err := json.Unmarshal(data, &art); err != nil {
		return nil, fmt.Errorf("failed to decode JSON: %w", err)
	}

	if art.Scale <= 0 {
		return nil, fmt.Errorf("q10_scale must be positive, got %d", art.Scale)
	}
	if len(art.Layers) != NumLayers {
		return nil, fmt.Errorf("expected exactly %d layers, got %d", NumLayers, len(art.Layers))
	}

	net := &Network{Scale: art.Scale}
	bound := art.Scale * WeightBoundFactor

	for li, rec := range art.Layers {
		if len(rec.WeightShape) != 2 {
			return nil, fmt.Errorf("layer %d: weight_shape must have 2 entries, got %d", li, len(rec.WeightShape))
		}
		outs, ins := rec.WeightShape[0], rec.WeightShape[1]
		if outs <= 0 || ins <= 0 {
			return nil, fmt.Errorf("layer %d: weight_shape %v is not positive", li, rec.WeightShape)
		}
		if len(rec.WeightsQ) != outs {
			return nil, fmt.Errorf("layer %d: %d weight rows, shape says %d", li, len(rec.WeightsQ), outs)
		}
		for ri, row := range rec.WeightsQ {
			if len(row) != ins {
				return nil, fmt.Errorf("layer %d row %d: %d weights, shape says %d", li, ri, len(row), ins)
			}
			for _, w := range row {
				if w > bound || w < -bound {
					return nil, fmt.Errorf("layer %d row %d: weight %d exceeds bound %d", li, ri, w, bound)
				}
			}
		}
		if len(rec.BiasesQ) != outs {
			return nil, fmt.Errorf("layer %d: %d biases, shape says %d", li, len(rec.BiasesQ), outs)
		}
		for bi, b := range rec.BiasesQ {
			if b > bound || b < -bound {
				return nil, fmt.Errorf("layer %d: bias %d value %d exceeds bound %d", li, bi, b, bound)
			}
		}
		if li > 0 && ins != net.Layers[li-1].Outputs() {
			return nil, fmt.Errorf("layer %d: input width %d does not match layer %d output width %d",
				li, ins, li-1, net.Layers[li-1].Outputs())
		}
		net.Layers[li] = Layer{Weights: rec.WeightsQ, Biases: rec.BiasesQ}
	}

	return net, nil
}

// Validate checks that the network's outer dimensions fit a taskset of the
// given size: 4 features per task in, one action per task plus idle out.
func (n *Network) Validate(numTasks int) error {
	wantIn := numTasks * 4
	wantOut := numTasks + 1
	if got := n.Layers[0].Inputs(); got != wantIn {
		return fmt.Errorf("network expects %d inputs, taskset of %d tasks produces %d", got, numTasks, wantIn)
	}
	if got := n.Layers[NumLayers-1].Outputs(); got != wantOut {
		return fmt.Errorf("network produces %d actions, taskset of %d tasks needs %d", got, numTasks, wantOut)
	}
	return nil
}
