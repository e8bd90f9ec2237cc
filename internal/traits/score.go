package traits

// ── BRS ─────────────────────────────────────────────────────────────

// TraitToBRS scores one trait value by its distance from the midpoint.
// 49 and 50 both score 51.
func TraitToBRS(v int) int {
	if v < 50 {
		return 100 - v
	}
	return v + 1
}

// TraitsToBRS sums TraitToBRS over the first six present slots, cosmetic
// slots included.
func TraitsToBRS(v []int) int {
	if len(v) > NumTraits {
		v = v[:NumTraits]
	}
	total := 0
	for _, t := range v {
		total += TraitToBRS(t)
	}
	return total
}

// BRS scores the full vector.
func (v Vector) BRS() int {
	return TraitsToBRS(v[:])
}

// WithEditable returns a copy of v with its editable slots shifted by d.
// Values are not clamped.
func (v Vector) WithEditable(d Editable) Vector {
	for i := 0; i < NumEditable; i++ {
		v[i] += d[i]
	}
	return v
}

// Clamped returns a copy of v with the editable slots clamped to [0,100].
func (v Vector) Clamped() Vector {
	for i := 0; i < NumEditable; i++ {
		v[i] = Clamp(v[i])
	}
	return v
}
