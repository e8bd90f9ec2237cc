package sets

import (
	"math"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/robertatkinson3570/gotchi-closet-sub001/internal/traits"
)

// Raw entry shape:
//
//	{"id": 3, "name": "General", "wearableIds": [10, 11, 12],
//	 "traitBonuses": [0, 2, 0, -1, 0, 0], "setBonusBRS": 4}

// ParseDefinition validates one raw catalog entry. The returned Definition has
// no ID; the catalog derives it from the name.
func ParseDefinition(raw gjson.Result) (Definition, error) {
	name := strings.TrimSpace(raw.Get("name").String())
	if name == "" {
		name = rawIDString(raw.Get("id"))
	}
	if name == "" {
		return Definition{}, invalid("name", "name and id are both empty")
	}

	tb := raw.Get("traitBonuses")
	if !tb.IsArray() {
		return Definition{}, invalid("traitBonuses", "missing or not an array")
	}
	bonuses := tb.Array()
	if len(bonuses) != traits.NumTraits {
		return Definition{}, invalid("traitBonuses", "want "+strconv.Itoa(traits.NumTraits)+" entries, got "+strconv.Itoa(len(bonuses)))
	}
	var vals [traits.NumTraits]int
	for i, b := range bonuses {
		if !traits.IsFiniteNumber(b) {
			return Definition{}, invalid("traitBonuses", "entry "+strconv.Itoa(i)+" is not a finite number")
		}
		if !isWhole(b) {
			return Definition{}, invalid("traitBonuses", "entry "+strconv.Itoa(i)+" is not an integer: "+b.Raw)
		}
		vals[i] = int(b.Num)
	}
	if bonuses[traits.EyeShape].Num != 0 || bonuses[traits.EyeColor].Num != 0 {
		return Definition{}, invalid("traitBonuses", "eye shape and eye color bonuses must be 0")
	}

	brs := raw.Get("setBonusBRS")
	if !traits.IsFiniteNumber(brs) {
		return Definition{}, invalid("setBonusBRS", "missing or not a finite number")
	}
	if !isWhole(brs) {
		return Definition{}, invalid("setBonusBRS", "not an integer: "+brs.Raw)
	}

	ids, err := readWearableIDs(raw.Get("wearableIds"))
	if err != nil {
		return Definition{}, err
	}

	return Definition{
		Name:                name,
		RequiredWearableIDs: ids,
		SetBonusBRS:         int(brs.Num),
		Modifiers: Modifiers{
			NRG: vals[traits.Energy],
			AGG: vals[traits.Aggression],
			SPK: vals[traits.Spookiness],
			BRN: vals[traits.BrainSize],
		},
	}, nil
}

func rawIDString(v gjson.Result) string {
	switch v.Type {
	case gjson.Number:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case gjson.String:
		return strings.TrimSpace(v.Str)
	default:
		return ""
	}
}

// isWhole reports whether a finite JSON number is an integer that fits the
// range bonuses are expected in.
func isWhole(v gjson.Result) bool {
	return v.Num == math.Trunc(v.Num) && math.Abs(v.Num) <= maxBonus
}

const maxBonus = 1 << 31

// readWearableIDs keeps first occurrences; a missing list is an empty set.
func readWearableIDs(v gjson.Result) ([]int, error) {
	if !v.Exists() || v.Type == gjson.Null {
		return []int{}, nil
	}
	if !v.IsArray() {
		return nil, invalid("wearableIds", "not an array")
	}
	ids := []int{}
	seen := make(map[int]bool)
	var err error
	v.ForEach(func(_, item gjson.Result) bool {
		if !traits.IsFiniteNumber(item) {
			err = invalid("wearableIds", "non-numeric wearable id "+item.Raw)
			return false
		}
		id := int(item.Int())
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}
