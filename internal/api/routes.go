package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/robertatkinson3570/gotchi-closet-sub001/internal/basetraits"
	"github.com/robertatkinson3570/gotchi-closet-sub001/internal/rank"
	"github.com/robertatkinson3570/gotchi-closet-sub001/internal/respec"
	"github.com/robertatkinson3570/gotchi-closet-sub001/internal/sets"
	"github.com/robertatkinson3570/gotchi-closet-sub001/internal/traits"
)

// ── GET /sets ───────────────────────────────────────────────────────

type setsResult struct {
	Count int               `json:"count"`
	Sets  []sets.Definition `json:"sets"`
}

func (s *Service) listSets(_ context.Context, _ []byte) (int, any) {
	all := s.catalog.Sets()
	return http.StatusOK, setsResult{Count: len(all), Sets: all}
}

// ── POST /best-sets ─────────────────────────────────────────────────

// {"baseTraits": [..6], "limit": 10, "ownedWearableIds": [..]}
type bestSetsResult struct {
	BaseScore int              `json:"baseScore"`
	Results   []rank.RankedSet `json:"results"`
}

func (s *Service) bestSets(_ context.Context, body []byte) (int, any) {
	if !gjson.ValidBytes(body) {
		return errResp(http.StatusBadRequest, "invalid JSON body")
	}
	req := gjson.ParseBytes(body)
	base := traits.ParseList(req.Get("baseTraits"))
	if len(base) < traits.NumEditable {
		return errResp(http.StatusBadRequest, "baseTraits needs at least 4 values")
	}
	limit := s.defaultLimit
	if l := req.Get("limit"); l.Exists() {
		limit = traits.ParseInt(l)
		if limit < 1 {
			return errResp(http.StatusBadRequest, "limit must be positive")
		}
	}

	var keep func(sets.Definition) bool
	if owned := req.Get("ownedWearableIds"); owned.IsArray() {
		keep = rank.OwnedOnly(traits.ParseList(owned))
	}
	return http.StatusOK, bestSetsResult{
		BaseScore: traits.TraitsToBRS(base),
		Results:   s.ranker.BestSetsWhere(base, limit, keep),
	}
}

// ── POST /respec/simulate ───────────────────────────────────────────

// Request fields: baseTraits, allocated, usedSkillPoints, then either
// respecBaseTraits or tokenId, either canonicalModifiedTraits or
// wearableDelta, and either equippedWearableIds or setDelta.
type simulateResult struct {
	respec.SimResult
	WearableDelta   traits.Editable `json:"wearableDelta"`
	SetDelta        traits.Editable `json:"setDelta"`
	ActiveSet       string          `json:"activeSet,omitempty"`
	SpiritPoints    int             `json:"spiritPoints"`
	SpiritPointsUse int             `json:"spiritPointsUsed"`
	UpstreamError   string          `json:"upstreamError,omitempty"`
}

func (s *Service) simulate(ctx context.Context, body []byte) (int, any) {
	if !gjson.ValidBytes(body) {
		return errResp(http.StatusBadRequest, "invalid JSON body")
	}
	req := gjson.ParseBytes(body)

	base := traits.ParseList(req.Get("baseTraits"))
	if len(base) < traits.NumEditable {
		return errResp(http.StatusBadRequest, "baseTraits needs at least 4 values")
	}
	allocated := traits.ParseEditable(req.Get("allocated"))

	var res simulateResult
	res.SpiritPointsUse = allocated.AbsSum()
	if u := req.Get("usedSkillPoints"); u.Exists() {
		res.SpiritPoints = respec.TotalSpiritPoints(traits.ParseNumber(u))
		if res.SpiritPointsUse > res.SpiritPoints {
			return errResp(http.StatusBadRequest,
				"allocation uses "+strconv.Itoa(res.SpiritPointsUse)+" of "+strconv.Itoa(res.SpiritPoints)+" spirit points")
		}
	}

	in := respec.SimInput{BaseTraits: base, Allocated: allocated}
	if rb := traits.ParseList(req.Get("respecBaseTraits")); len(rb) >= traits.NumEditable {
		in.RespecBaseTraits = rb
	} else if tok := req.Get("tokenId").String(); tok != "" && s.baseTraits != nil {
		rb, err := s.baseTraits.RespecBaseTraits(ctx, tok)
		if err != nil {
			// Degrade to the post-modifier traits the caller sent.
			s.log.Warn("respec base traits unavailable, using fallback",
				zap.String("token_id", tok), zap.Error(err))
			res.UpstreamError = err.Error()
		} else {
			in.RespecBaseTraits = rb
		}
	}

	if cm := traits.ParseList(req.Get("canonicalModifiedTraits")); len(cm) >= traits.NumEditable {
		in.WearableDelta = respec.WearableDelta(base, cm)
	} else {
		in.WearableDelta = traits.ParseEditable(req.Get("wearableDelta"))
	}

	if sd := req.Get("setDelta"); sd.IsArray() {
		in.SetDelta = traits.ParseEditable(sd)
	} else if eq := req.Get("equippedWearableIds"); eq.IsArray() {
		if def, ok := s.catalog.Active(traits.ParseList(eq)); ok {
			in.SetDelta = def.Modifiers.Array()
			res.ActiveSet = def.ID
		}
	}

	res.SimResult = respec.SimTraits(in)
	res.WearableDelta = in.WearableDelta
	res.SetDelta = in.SetDelta
	return http.StatusOK, res
}

// ── POST /respec/base-traits ────────────────────────────────────────

type baseTraitsResult struct {
	TokenID    string `json:"tokenId"`
	BaseTraits []int  `json:"baseTraits"`
}

func (s *Service) lookupBaseTraits(ctx context.Context, body []byte) (int, any) {
	if !gjson.ValidBytes(body) {
		return errResp(http.StatusBadRequest, "invalid JSON body")
	}
	tok := gjson.GetBytes(body, "tokenId").String()
	if tok == "" {
		return errResp(http.StatusBadRequest, "missing tokenId")
	}
	if s.baseTraits == nil {
		return errResp(http.StatusServiceUnavailable, "respec base-trait lookups are disabled")
	}
	bt, err := s.baseTraits.RespecBaseTraits(ctx, tok)
	if err != nil {
		if errors.Is(err, basetraits.ErrDisabled) {
			return errResp(http.StatusServiceUnavailable, err.Error())
		}
		return errResp(http.StatusBadGateway, err.Error())
	}
	return http.StatusOK, baseTraitsResult{TokenID: tok, BaseTraits: bt}
}
