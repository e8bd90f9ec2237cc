// Package traits holds the six-slot numeric trait model and the base rarity
// score (BRS) rule every other package scores against.
package traits

import "strings"

// Trait indexes a slot of a Vector.
type Trait int

const (
	Energy Trait = iota
	Aggression
	Spookiness
	BrainSize
	// Cosmetic traits. Never modified by sets or respec.
	EyeShape
	EyeColor
)

const (
	// NumTraits is the length of a full trait vector.
	NumTraits = 6
	// NumEditable is the number of leading slots wearables, sets and respec may move.
	NumEditable = 4

	MinValue = 0
	MaxValue = 100
)

// Vector is a full trait vector: four editable slots then eye shape and eye color.
type Vector [NumTraits]int

// Editable is the per-slot delta or allocation over the four editable traits.
type Editable [NumEditable]int

var traitCodes = [NumTraits]string{"NRG", "AGG", "SPK", "BRN", "EYS", "EYC"}

func (t Trait) String() string {
	if t < 0 || int(t) >= NumTraits {
		return "UNKNOWN"
	}
	return traitCodes[t]
}

// Editable reports whether wearables, sets and respec may change the trait.
func (t Trait) Editable() bool {
	return t >= Energy && t <= BrainSize
}

// ParseTrait maps a short code ("NRG", "brn", ...) back to its slot.
func ParseTrait(s string) (Trait, bool) {
	for i, code := range traitCodes {
		if strings.EqualFold(code, s) {
			return Trait(i), true
		}
	}
	return 0, false
}

// FromSlice copies up to six values into a Vector; missing slots stay 0.
func FromSlice(v []int) Vector {
	var out Vector
	copy(out[:], v)
	return out
}

// Clamp bounds v to [MinValue, MaxValue].
func Clamp(v int) int {
	if v < MinValue {
		return MinValue
	}
	if v > MaxValue {
		return MaxValue
	}
	return v
}

// Add returns the element-wise sum of two editable vectors.
func (e Editable) Add(o Editable) Editable {
	for i := range e {
		e[i] += o[i]
	}
	return e
}

// AbsSum is the total movement across the four editable slots.
func (e Editable) AbsSum() int {
	n := 0
	for _, v := range e {
		if v < 0 {
			v = -v
		}
		n += v
	}
	return n
}
