package policy

// Neural evaluates the quantized feedforward policy entirely in scaled
// integers. Per layer, each output neuron accumulates weight*input products
// with saturating arithmetic, rescales the sum back down by the Q-scale
// (truncating division), then adds the bias. The two hidden layers apply
// ReLU; the action head is linear and the chosen action is the argmax of its
// outputs, lowest index winning ties.
//
// The activation buffers are allocated once at construction; Decide performs
// no allocation and has no branch that depends on runtime errors.
type Neural struct {
	net *Network
	h1  []int32
	h2  []int32
	out []int32
}

// NewNeural creates the inference engine for a validated network.
func NewNeural(net *Network) *Neural {
	return &Neural{
		net: net,
		h1:  make([]int32, net.Layers[0].Outputs()),
		h2:  make([]int32, net.Layers[1].Outputs()),
		out: make([]int32, net.Layers[2].Outputs()),
	}
}

// Name returns the policy name
func (p *Neural) Name() string { return "neural" }

// Decide runs a forward pass over the state vector and returns the argmax
// action. Deterministic: identical weights and state always produce the
// identical action.
func (p *Neural) Decide(req Request) int {
	denseForward(&p.net.Layers[0], p.net.Scale, req.State, p.h1, true)
	denseForward(&p.net.Layers[1], p.net.Scale, p.h1, p.h2, true)
	denseForward(&p.net.Layers[2], p.net.Scale, p.h2, p.out, false)
	return argmax32(p.out)
}

// denseForward computes out[j] = act(sum_i(W[j][i]*in[i]) / scale + B[j])
// with saturating multiply-accumulate. The bias is added after the rescale;
// both it and the rescaled sum are in Q-scale units.
func denseForward(l *Layer, scale int32, in, out []int32, activate bool) {
	for j, row := range l.Weights {
		var acc int32
		for i, w := range row {
			acc = satAdd32(acc, satMul32(w, in[i]))
		}
		v := satAdd32(acc/scale, l.Biases[j])
		if activate {
			v = relu32(v)
		}
		out[j] = v
	}
}

// argmax32 returns the index of the maximum value, lowest index on ties.
func argmax32(vals []int32) int {
	best := 0
	for i := 1; i < len(vals); i++ {
		if vals[i] > vals[best] {
			best = i
		}
	}
	return best
}
