package rank

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/robertatkinson3570/gotchi-closet-sub001/internal/sets"
)

func signed(v int) string {
	if v >= 0 {
		return "+" + strconv.Itoa(v)
	}
	return strconv.Itoa(v)
}

// BonusLabel renders a set's bonuses, e.g. "+4 BRS, +0 NRG, +2 AGG, +0 SPK, -1 BRN".
func BonusLabel(def sets.Definition) string {
	m := def.Modifiers
	return signed(def.SetBonusBRS) + " BRS, " +
		signed(m.NRG) + " NRG, " +
		signed(m.AGG) + " AGG, " +
		signed(m.SPK) + " SPK, " +
		signed(m.BRN) + " BRN"
}

// FormatTable writes ranked sets as a fixed-width text table.
func FormatTable(w io.Writer, ranked []RankedSet) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%-4s %-24s %6s %6s %5s  %s\n", "#", "Set", "Score", "Delta", "Items", "Bonus")
	fmt.Fprintf(&b, "%-4s %-24s %6s %6s %5s  %s\n", "----", "------------------------", "------", "------", "-----", "-----")
	for i, r := range ranked {
		fmt.Fprintf(&b, "%-4d %-24s %6d %6s %5d  %s\n",
			i+1, truncate(r.Set.Name, 24), r.ScoreAfter, signed(r.Delta), r.ItemCount, r.BonusLabel)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "~"
}
