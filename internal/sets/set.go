// Package sets loads and validates the wearable-set catalog.
//
// A set grants a flat BRS bonus and up to four editable-trait modifiers once
// every required wearable is equipped. Sets never touch eye traits. The
// catalog is built once and is read-only afterwards.
package sets

import (
	"strconv"
	"strings"

	"github.com/robertatkinson3570/gotchi-closet-sub001/internal/traits"
)

// Modifiers are the per-trait shifts a complete set applies.
type Modifiers struct {
	NRG int `json:"nrg"`
	AGG int `json:"agg"`
	SPK int `json:"spk"`
	BRN int `json:"brn"`
}

// Array returns the modifiers in trait-slot order.
func (m Modifiers) Array() traits.Editable {
	return traits.Editable{m.NRG, m.AGG, m.SPK, m.BRN}
}

// AbsSum is the total stat movement of the set.
func (m Modifiers) AbsSum() int {
	return m.Array().AbsSum()
}

// Definition is one validated catalog entry.
type Definition struct {
	ID                  string    `json:"id"`
	Name                string    `json:"name"`
	RequiredWearableIDs []int     `json:"requiredWearableIds"`
	SetBonusBRS         int       `json:"setBonusBRS"`
	Modifiers           Modifiers `json:"traitModifiers"`
}

// ItemCount is the number of distinct wearables the set requires.
func (d Definition) ItemCount() int {
	return len(d.RequiredWearableIDs)
}

// Requires reports whether id is one of the set's wearables.
func (d Definition) Requires(id int) bool {
	for _, w := range d.RequiredWearableIDs {
		if w == id {
			return true
		}
	}
	return false
}

func (d Definition) clone() Definition {
	d.RequiredWearableIDs = append([]int(nil), d.RequiredWearableIDs...)
	return d
}

// Slug derives a URL-safe id: lowercase ASCII letters and digits, every other
// run collapsed to a single '-'.
func Slug(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			dash = false
			b.WriteRune(r)
		default:
			dash = true
		}
	}
	return b.String()
}

// ── Errors ──────────────────────────────────────────────────────────

// ValidationError reports a malformed raw catalog entry.
type ValidationError struct {
	Index  int // entry position in the catalog, -1 when parsed standalone
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	prefix := "set"
	if e.Index >= 0 {
		prefix = "set #" + strconv.Itoa(e.Index)
	}
	return prefix + ": " + e.Field + ": " + e.Reason
}

func invalid(field, reason string) *ValidationError {
	return &ValidationError{Index: -1, Field: field, Reason: reason}
}

// DuplicateIDError reports two or more entries that slug to the same id.
type DuplicateIDError struct {
	ID      string
	Indexes []int
}

func (e *DuplicateIDError) Error() string {
	idx := make([]string, len(e.Indexes))
	for i, n := range e.Indexes {
		idx[i] = "#" + strconv.Itoa(n)
	}
	return "duplicate set id " + strconv.Quote(e.ID) + " at entries " + strings.Join(idx, ", ")
}
