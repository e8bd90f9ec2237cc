// Package respec simulates reallocating spirit points across the four
// editable traits while wearable and set modifiers still apply on top.
package respec

import (
	"math"

	"github.com/robertatkinson3570/gotchi-closet-sub001/internal/traits"
)

// TotalSpiritPoints is the refundable pool for a gotchi that has already spent
// usedSkillPoints. NaN and infinities count as 0.
func TotalSpiritPoints(usedSkillPoints float64) int {
	if math.IsNaN(usedSkillPoints) || math.IsInf(usedSkillPoints, 0) {
		return 0
	}
	n := math.Floor(usedSkillPoints)
	if n <= 0 {
		return 0
	}
	return int(n)
}

// Mode is the respec state of a session.
type Mode int

const (
	Idle Mode = iota
	Editing
)

func (m Mode) String() string {
	if m == Editing {
		return "editing"
	}
	return "idle"
}

// Session holds one gotchi's respec simulation for one UI slot. It is owned
// by a single caller and is not safe for concurrent use.
type Session struct {
	key       string
	totalSP   int
	mode      Mode
	allocated traits.Editable
	committed *traits.Editable
}

// NewSession starts an idle session for the gotchi identified by key.
func NewSession(key string, usedSkillPoints float64) *Session {
	return &Session{key: key, totalSP: TotalSpiritPoints(usedSkillPoints)}
}

// Key is the identity the session currently simulates.
func (s *Session) Key() string { return s.key }

// Mode reports whether the session is editing.
func (s *Session) Mode() Mode { return s.mode }

// TotalSpiritPoints is the size of the pool.
func (s *Session) TotalSpiritPoints() int { return s.totalSP }

// SetUsedSkillPoints resizes the pool. An allocation, live or committed, that
// no longer fits the smaller pool is dropped.
func (s *Session) SetUsedSkillPoints(used float64) {
	s.totalSP = TotalSpiritPoints(used)
	if s.allocated.AbsSum() > s.totalSP {
		s.allocated = traits.Editable{}
	}
	if s.committed != nil && s.committed.AbsSum() > s.totalSP {
		s.committed = nil
	}
}

// Reset drops all simulation state when key names a different gotchi and
// reports whether it did.
func (s *Session) Reset(key string) bool {
	if key == s.key {
		return false
	}
	s.key = key
	s.mode = Idle
	s.allocated = traits.Editable{}
	s.committed = nil
	return true
}

// Toggle leaves edit mode by committing the current allocation, or enters it
// with a fresh zero allocation.
func (s *Session) Toggle() Mode {
	if s.mode == Editing {
		c := s.allocated
		s.committed = &c
		s.allocated = traits.Editable{}
		s.mode = Idle
		return s.mode
	}
	s.allocated = traits.Editable{}
	s.mode = Editing
	return s.mode
}

// Used is the number of points currently moved in either direction.
func (s *Session) Used() int {
	return s.allocated.AbsSum()
}

// SpiritPointsLeft is the unallocated remainder of the pool.
func (s *Session) SpiritPointsLeft() int {
	return max(0, s.totalSP-s.Used())
}

func validIndex(i int) bool {
	return i >= 0 && i < traits.NumEditable
}

// CanIncrement reports whether slot i may move up: back toward zero from a
// negative allocation is always allowed, otherwise a free point is needed.
func (s *Session) CanIncrement(i int) bool {
	if !validIndex(i) {
		return false
	}
	return s.allocated[i] < 0 || s.SpiritPointsLeft() > 0
}

// CanDecrement mirrors CanIncrement.
func (s *Session) CanDecrement(i int) bool {
	if !validIndex(i) {
		return false
	}
	return s.allocated[i] > 0 || s.SpiritPointsLeft() > 0
}

// Increment raises slot i by one point. It is a no-op outside edit mode or
// when the guard fails.
func (s *Session) Increment(i int) bool {
	if s.mode != Editing || !s.CanIncrement(i) {
		return false
	}
	s.allocated[i]++
	return true
}

// Decrement lowers slot i by one point under the same rules as Increment.
func (s *Session) Decrement(i int) bool {
	if s.mode != Editing || !s.CanDecrement(i) {
		return false
	}
	s.allocated[i]--
	return true
}

// Allocated is the in-progress allocation.
func (s *Session) Allocated() traits.Editable { return s.allocated }

// Committed is the allocation saved by the last Toggle out of edit mode.
func (s *Session) Committed() (traits.Editable, bool) {
	if s.committed == nil {
		return traits.Editable{}, false
	}
	return *s.committed, true
}

// Effective is the allocation to simulate: the live one while editing,
// otherwise the committed one (zero if none).
func (s *Session) Effective() traits.Editable {
	if s.mode == Editing {
		return s.allocated
	}
	c, _ := s.Committed()
	return c
}
