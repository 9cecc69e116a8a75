package state

// Descriptor is the contract every fixed-function state family fulfils.
// Descriptors are plain values: two descriptors describe the same
// configuration iff Equal reports true, never by identity.
type Descriptor[D any] interface {
	// Stage names the pipeline stage the descriptor configures.
	Stage() Stage
	// Equal is a full structural comparison. Float fields use Epsilon.
	Equal(other D) bool
	// Hash must agree with Equal.
	Hash() uint64
	// Validate reports an *InvalidDescriptorWarning for descriptors that were
	// most likely never configured. Diagnostic only.
	Validate() error
}

// Families that fix up their values before use (the sampler swaps an
// inverted LOD range) implement Normalize.
type normalizer[D any] interface {
	Normalize() D
}

func normalize[D any](desc D) D {
	if n, ok := any(desc).(normalizer[D]); ok {
		return n.Normalize()
	}
	return desc
}
