package respec

import (
	"math"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/robertatkinson3570/gotchi-closet-sub001/internal/traits"
)

func TestTotalSpiritPoints(t *testing.T) {
	cases := []struct {
		in   float64
		want int
	}{
		{0, 0},
		{3, 3},
		{3.9, 3},
		{-5, 0},
		{-0.5, 0},
		{math.NaN(), 0},
		{math.Inf(1), 0},
		{math.Inf(-1), 0},
	}
	for _, c := range cases {
		if got := TotalSpiritPoints(c.in); got != c.want {
			t.Errorf("TotalSpiritPoints(%v) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestWearableDelta(t *testing.T) {
	got := WearableDelta([]int{10, 20, 30, 40, 50, 60}, []int{12, 18, 35, 37, 50, 60})
	if diff := cmp.Diff(traits.Editable{2, -2, 5, -3}, got); diff != "" {
		t.Errorf("WearableDelta mismatch (-want +got):\n%s", diff)
	}
	got = WearableDelta([]int{10, 20}, []int{11, 22, 33})
	if diff := cmp.Diff(traits.Editable{1, 2, 33, 0}, got); diff != "" {
		t.Errorf("short input mismatch (-want +got):\n%s", diff)
	}
}

func TestSimTraitsFallback(t *testing.T) {
	res := SimTraits(SimInput{
		BaseTraits: []int{10, 10, 10, 10, 0, 0},
		Allocated:  traits.Editable{1, 2, 0, 1},
	})
	if diff := cmp.Diff(traits.Editable{11, 12, 10, 11}, res.SimBase); diff != "" {
		t.Errorf("SimBase mismatch (-want +got):\n%s", diff)
	}
	if res.SimModified != res.SimBase {
		t.Errorf("SimModified = %v, want SimBase %v with no deltas", res.SimModified, res.SimBase)
	}
	if !res.UsingFallback {
		t.Error("UsingFallback = false without respec base traits")
	}
	// 89+88+90+89 plus eyes 100+100
	if res.BaseBRS != 556 {
		t.Errorf("BaseBRS = %d, want 556", res.BaseBRS)
	}
}

func TestSimTraitsRespecBase(t *testing.T) {
	res := SimTraits(SimInput{
		BaseTraits:       []int{20, 20, 20, 20, 50, 50},
		RespecBaseTraits: []int{15, 25, 20, 20, 50, 50},
		Allocated:        traits.Editable{-1, 0, 3, 0},
		WearableDelta:    traits.Editable{2, 0, 0, -1},
		SetDelta:         traits.Editable{0, 1, 0, 0},
	})
	if res.UsingFallback {
		t.Error("UsingFallback = true with respec base traits")
	}
	if diff := cmp.Diff(traits.Editable{14, 25, 23, 20}, res.SimBase); diff != "" {
		t.Errorf("SimBase mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(traits.Editable{16, 26, 23, 19}, res.SimModified); diff != "" {
		t.Errorf("SimModified mismatch (-want +got):\n%s", diff)
	}
}

func TestSimTraitsDoesNotClamp(t *testing.T) {
	res := SimTraits(SimInput{
		RespecBaseTraits: []int{99, 1, 50, 50, 50, 50},
		Allocated:        traits.Editable{3, -4, 0, 0},
		WearableDelta:    traits.Editable{5, 0, 0, 0},
	})
	if res.SimBase[0] != 102 || res.SimBase[1] != -3 || res.SimModified[0] != 107 {
		t.Errorf("values were clamped: base %v modified %v", res.SimBase, res.SimModified)
	}
}

func TestToggleCommitsAllocation(t *testing.T) {
	s := NewSession("gotchi-1", 5)
	if s.Mode() != Idle {
		t.Fatalf("new session mode = %v, want idle", s.Mode())
	}
	if s.Toggle() != Editing {
		t.Fatal("toggle from idle did not enter edit mode")
	}
	s.Increment(0)
	s.Increment(0)
	s.Decrement(2)
	want := traits.Editable{2, 0, -1, 0}
	if s.Allocated() != want {
		t.Fatalf("Allocated = %v, want %v", s.Allocated(), want)
	}

	if s.Toggle() != Idle {
		t.Fatal("toggle from editing did not return to idle")
	}
	got, ok := s.Committed()
	if !ok || got != want {
		t.Errorf("Committed = %v, %v, want %v", got, ok, want)
	}
	if s.Effective() != want {
		t.Errorf("Effective while idle = %v, want committed %v", s.Effective(), want)
	}

	s.Toggle()
	if s.Allocated() != (traits.Editable{}) {
		t.Errorf("Allocated after re-entering edit mode = %v, want zero", s.Allocated())
	}
	if got, _ := s.Committed(); got != want {
		t.Errorf("Committed changed on re-entry: %v", got)
	}
}

func TestIdleSessionIgnoresEdits(t *testing.T) {
	s := NewSession("g", 3)
	if s.Increment(0) || s.Decrement(1) {
		t.Fatal("edits applied outside edit mode")
	}
	if s.Allocated() != (traits.Editable{}) {
		t.Fatalf("Allocated = %v", s.Allocated())
	}
}

func TestGuards(t *testing.T) {
	s := NewSession("g", 2)
	s.Toggle()
	if !s.Increment(1) || !s.Increment(1) {
		t.Fatal("could not spend the pool")
	}
	if s.SpiritPointsLeft() != 0 {
		t.Fatalf("SpiritPointsLeft = %d, want 0", s.SpiritPointsLeft())
	}
	if s.CanIncrement(0) || s.Increment(0) {
		t.Error("increment allowed with an empty pool")
	}
	if s.CanDecrement(3) {
		t.Error("decrement of an unallocated slot allowed with an empty pool")
	}
	if !s.CanDecrement(1) || !s.Decrement(1) {
		t.Error("moving a positive slot back toward zero must be allowed")
	}
	if !s.Decrement(2) {
		t.Error("freed point should allow a decrement elsewhere")
	}
	if !s.CanIncrement(2) {
		t.Error("moving a negative slot back toward zero must be allowed")
	}
	for _, i := range []int{-1, 4} {
		if s.CanIncrement(i) || s.CanDecrement(i) || s.Increment(i) || s.Decrement(i) {
			t.Errorf("index %d accepted", i)
		}
	}
}

func TestAllocationNeverExceedsPool(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for _, used := range []float64{0, 1, 3, 7.5, 20, -2, math.NaN()} {
		s := NewSession("g", used)
		s.Toggle()
		total := TotalSpiritPoints(used)
		for step := 0; step < 2000; step++ {
			i := rng.Intn(traits.NumEditable)
			if rng.Intn(2) == 0 {
				s.Increment(i)
			} else {
				s.Decrement(i)
			}
			if s.Used() > total {
				t.Fatalf("used=%v step %d: allocation %v uses %d of %d", used, step, s.Allocated(), s.Used(), total)
			}
		}
	}
}

func TestShrinkingPoolDropsOversizedAllocation(t *testing.T) {
	s := NewSession("g", 3)
	s.Toggle()
	for i := 0; i < 3; i++ {
		s.Increment(0)
	}
	s.SetUsedSkillPoints(5)
	if s.Allocated() != (traits.Editable{3, 0, 0, 0}) || s.SpiritPointsLeft() != 2 {
		t.Fatalf("growing the pool changed the allocation: %v, left %d", s.Allocated(), s.SpiritPointsLeft())
	}

	s.SetUsedSkillPoints(1)
	if s.Used() > s.TotalSpiritPoints() {
		t.Fatalf("used %d exceeds pool %d", s.Used(), s.TotalSpiritPoints())
	}
	if s.Allocated() != (traits.Editable{}) {
		t.Errorf("Allocated = %v, want zero", s.Allocated())
	}
	if s.Mode() != Editing {
		t.Errorf("mode = %v, want editing", s.Mode())
	}

	s.Increment(1)
	s.Toggle()
	s.SetUsedSkillPoints(1)
	if c, ok := s.Committed(); !ok || c != (traits.Editable{0, 1, 0, 0}) {
		t.Errorf("fitting commit dropped: %v, %v", c, ok)
	}
	s.SetUsedSkillPoints(0)
	if _, ok := s.Committed(); ok {
		t.Error("oversized commit kept after the pool shrank")
	}
	if s.Effective() != (traits.Editable{}) {
		t.Errorf("Effective = %v, want zero", s.Effective())
	}
}

func TestResetOnNewKey(t *testing.T) {
	s := NewSession("a", 4)
	s.Toggle()
	s.Increment(0)
	s.Toggle()
	s.Toggle()
	s.Increment(1)

	if s.Reset("a") {
		t.Fatal("Reset with the same key reported a reset")
	}
	if s.Mode() != Editing || s.Allocated() != (traits.Editable{0, 1, 0, 0}) {
		t.Fatal("same-key Reset changed state")
	}

	if !s.Reset("b") {
		t.Fatal("Reset with a new key did not reset")
	}
	if s.Key() != "b" || s.Mode() != Idle {
		t.Errorf("key=%q mode=%v after reset", s.Key(), s.Mode())
	}
	if s.Allocated() != (traits.Editable{}) {
		t.Errorf("Allocated = %v after reset", s.Allocated())
	}
	if _, ok := s.Committed(); ok {
		t.Error("Committed survived reset")
	}
}
