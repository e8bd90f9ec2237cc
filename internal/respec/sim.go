package respec

import "github.com/robertatkinson3570/gotchi-closet-sub001/internal/traits"

// WearableDelta isolates the effect of equipped wearables (and any set bonus
// already folded into the canonical modified traits) per editable slot.
// Missing slots read as 0.
func WearableDelta(base, canonicalModified []int) traits.Editable {
	var d traits.Editable
	for i := 0; i < traits.NumEditable; i++ {
		d[i] = at(canonicalModified, i) - at(base, i)
	}
	return d
}

func at(v []int, i int) int {
	if i < len(v) {
		return v[i]
	}
	return 0
}

// SimInput feeds SimTraits. RespecBaseTraits is nil when the pre-wearable
// traits could not be fetched.
type SimInput struct {
	BaseTraits       []int
	RespecBaseTraits []int
	Allocated        traits.Editable
	WearableDelta    traits.Editable
	SetDelta         traits.Editable
}

// SimResult holds the simulated editable traits.
type SimResult struct {
	SimBase     traits.Editable `json:"simBase"`
	SimModified traits.Editable `json:"simModified"`
	// UsingFallback is set when BaseTraits stood in for the respec base. Those
	// may already include wearable effects, so the result can double count.
	UsingFallback bool `json:"usingFallback"`
	BaseBRS       int  `json:"baseBrs"`
	ModifiedBRS   int  `json:"modifiedBrs"`
}

// SimTraits applies the allocation to the respec base, then wearable and set
// deltas. Values are not clamped, so over-allocation stays visible.
func SimTraits(in SimInput) SimResult {
	base := in.RespecBaseTraits
	res := SimResult{UsingFallback: base == nil}
	if base == nil {
		base = in.BaseTraits
	}
	for i := 0; i < traits.NumEditable; i++ {
		res.SimBase[i] = at(base, i) + in.Allocated[i]
		res.SimModified[i] = res.SimBase[i] + in.WearableDelta[i] + in.SetDelta[i]
	}
	res.BaseBRS = scoreWithEyes(res.SimBase, base)
	res.ModifiedBRS = scoreWithEyes(res.SimModified, base)
	return res
}

// scoreWithEyes scores four simulated traits plus the eye traits of base when
// base carries them.
func scoreWithEyes(e traits.Editable, base []int) int {
	v := make([]int, 0, traits.NumTraits)
	v = append(v, e[:]...)
	if len(base) >= traits.NumTraits {
		v = append(v, base[traits.EyeShape], base[traits.EyeColor])
	}
	return traits.TraitsToBRS(v)
}
