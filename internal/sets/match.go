package sets

import "github.com/robertatkinson3570/gotchi-closet-sub001/internal/traits"

// Complete returns every set whose required wearables are all in equipped,
// in catalog order. Sets with no required wearables never match.
func (c *Catalog) Complete(equipped []int) []Definition {
	if len(equipped) == 0 {
		return nil
	}
	have := make(map[int]bool, len(equipped))
	for _, id := range equipped {
		if id > 0 {
			have[id] = true
		}
	}
	var out []Definition
	for i := range c.sets {
		def := &c.sets[i]
		if def.ItemCount() == 0 {
			continue
		}
		ok := true
		for _, w := range def.RequiredWearableIDs {
			if !have[w] {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, def.clone())
		}
	}
	return out
}

// Active picks the one complete set whose bonus applies: the highest
// SetBonusBRS, earliest in the catalog on ties.
func (c *Catalog) Active(equipped []int) (Definition, bool) {
	var best Definition
	found := false
	for _, def := range c.Complete(equipped) {
		if !found || def.SetBonusBRS > best.SetBonusBRS {
			best = def
			found = true
		}
	}
	return best, found
}

// SetDelta is the editable-trait shift of the active set, zero when none applies.
func (c *Catalog) SetDelta(equipped []int) traits.Editable {
	def, ok := c.Active(equipped)
	if !ok {
		return traits.Editable{}
	}
	return def.Modifiers.Array()
}
