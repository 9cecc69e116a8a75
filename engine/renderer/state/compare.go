package state

import (
	"math"

	"golang.org/x/exp/constraints"
)

// Epsilon is the tolerance used when comparing floating point descriptor
// fields. Drivers do not round trip values like the depth bias clamp bit
// exactly.
const Epsilon float32 = 1e-6

func nearlyEqual[T constraints.Float](a, b, epsilon T) bool {
	if a == b {
		return true
	}
	// NaN only matches NaN, otherwise a descriptor would not equal itself
	if a != a || b != b {
		return a != a && b != b
	}
	d := a - b
	if d < 0 {
		d = -d
	}
	return d < epsilon
}

func floatEqual(a, b float32) bool {
	return nearlyEqual(a, b, Epsilon)
}

func isFinite(f float32) bool {
	return !math.IsNaN(float64(f)) && !math.IsInf(float64(f), 0)
}

// Color4 is an RGBA colour with float channels, used for border colours.
type Color4 struct {
	R, G, B, A float32
}

func (c Color4) Equal(o Color4) bool {
	return floatEqual(c.R, o.R) && floatEqual(c.G, o.G) && floatEqual(c.B, o.B) && floatEqual(c.A, o.A)
}

// Hashes only cover fields compared exactly. Float fields are compared with
// a tolerance, any hashing of them would break Equal(a, b) => Hash(a) == Hash(b).

const hashSeed uint64 = 0xcbf29ce484222325

func hashCombine(h, v uint64) uint64 {
	return h ^ (v + 0x9e3779b97f4a7c15 + (h << 6) + (h >> 2))
}

func hashBool(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}
