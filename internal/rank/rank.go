// Package rank scores every catalog set against a gotchi's base traits and
// returns the best ones first.
package rank

import (
	"cmp"
	"slices"

	"github.com/robertatkinson3570/gotchi-closet-sub001/internal/sets"
	"github.com/robertatkinson3570/gotchi-closet-sub001/internal/traits"
)

// RankedSet is one set scored against a base trait vector.
type RankedSet struct {
	Set        sets.Definition `json:"set"`
	ScoreAfter int             `json:"scoreAfter"`
	Delta      int             `json:"delta"`
	BonusLabel string          `json:"bonusLabel"`
	ItemCount  int             `json:"itemCount"`
}

// Ranker ranks the sets of one catalog. It holds no mutable state and is safe
// for concurrent use.
type Ranker struct {
	catalog *sets.Catalog
}

// NewRanker creates a ranker over c.
func NewRanker(c *sets.Catalog) *Ranker {
	return &Ranker{catalog: c}
}

// BestSets returns at most limit sets, best first. Fewer than four base
// traits, or a limit below one, yields an empty result.
func (r *Ranker) BestSets(base []int, limit int) []RankedSet {
	return r.BestSetsWhere(base, limit, nil)
}

// BestSetsWhere is BestSets over the sets for which keep returns true.
// A nil keep considers every set.
func (r *Ranker) BestSetsWhere(base []int, limit int, keep func(sets.Definition) bool) []RankedSet {
	if len(base) < traits.NumEditable || limit <= 0 {
		return []RankedSet{}
	}
	if len(base) > traits.NumTraits {
		base = base[:traits.NumTraits]
	}
	baseScore := traits.TraitsToBRS(base)

	results := make([]RankedSet, 0, r.catalog.Len())
	work := make([]int, len(base))
	for i := 0; i < r.catalog.Len(); i++ {
		def := r.catalog.At(i)
		if keep != nil && !keep(def) {
			continue
		}
		copy(work, base)
		mods := def.Modifiers.Array()
		for t := 0; t < traits.NumEditable; t++ {
			work[t] = traits.Clamp(work[t] + mods[t])
		}
		scoreAfter := traits.TraitsToBRS(work) + def.SetBonusBRS
		results = append(results, RankedSet{
			Set:        def,
			ScoreAfter: scoreAfter,
			Delta:      scoreAfter - baseScore,
			BonusLabel: BonusLabel(def),
			ItemCount:  def.ItemCount(),
		})
	}

	slices.SortStableFunc(results, compareRanked)
	if len(results) > limit {
		results = results[:limit]
	}
	for i := range results {
		results[i].Set.RequiredWearableIDs = append([]int(nil), results[i].Set.RequiredWearableIDs...)
	}
	return results
}

// compareRanked orders best first: delta, then flat bonus, then total stat
// movement, all descending. Remaining ties keep catalog order.
func compareRanked(a, b RankedSet) int {
	if c := cmp.Compare(b.Delta, a.Delta); c != 0 {
		return c
	}
	if c := cmp.Compare(b.Set.SetBonusBRS, a.Set.SetBonusBRS); c != 0 {
		return c
	}
	return cmp.Compare(b.Set.Modifiers.AbsSum(), a.Set.Modifiers.AbsSum())
}

// OwnedOnly keeps sets whose every required wearable is in owned.
func OwnedOnly(owned []int) func(sets.Definition) bool {
	have := make(map[int]bool, len(owned))
	for _, id := range owned {
		have[id] = true
	}
	return func(def sets.Definition) bool {
		for _, w := range def.RequiredWearableIDs {
			if !have[w] {
				return false
			}
		}
		return true
	}
}
