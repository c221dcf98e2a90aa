package narrative

import (
	"kaamos/internal/domain/content"
	"kaamos/internal/domain/rng"
	"kaamos/internal/domain/survival"
)

// FlavorChance is the probability of drawing from the flavor pool when it is
// non-empty.
const FlavorChance = 0.2

type Reason string

const (
	ReasonNone                   Reason = ""
	ReasonNoEventsForPhase       Reason = "no_events_for_phase"
	ReasonAllRequirementsBlocked Reason = "all_requirements_blocked"
)

// Selection is the outcome of drawing an event for a phase.
type Selection struct {
	Event         *content.Event
	Reason        Reason
	EligibleCount int
	UsedFallback  bool
}

// MeetsRequirements reports whether the event's gates all pass for s.
func MeetsRequirements(e content.Event, s survival.GameState) bool {
	r := e.Requirements
	if r.MinAnomaly != nil && s.Resources.Anomaly < *r.MinAnomaly {
		return false
	}
	if r.MaxSanity != nil && s.Resources.Sanity > *r.MaxSanity {
		return false
	}
	if r.RequiredFlag != "" && !s.Flag(r.RequiredFlag) {
		return false
	}
	if r.RequiredPath != nil && s.Paths.Level(r.RequiredPath.Path) < r.RequiredPath.MinLevel {
		return false
	}
	if r.RequiredItem != "" && !s.HasItem(r.RequiredItem) {
		return false
	}
	return r.Weather.Contains(s.Time.Weather)
}

// SelectEvent draws an eligible event for phase. Flavor events win a
// FlavorChance roll; otherwise main-pool events are preferred, then flavor,
// then fallback.
func SelectEvent(c *content.Catalog, s survival.GameState, phase survival.Phase, src rng.Source) Selection {
	candidates := c.EventsForPhase(phase)
	if len(candidates) == 0 {
		return Selection{Reason: ReasonNoEventsForPhase}
	}

	var flavor, fallback, main []content.Event
	for _, e := range candidates {
		if !MeetsRequirements(e, s) {
			continue
		}
		switch {
		case e.IsFallback():
			fallback = append(fallback, e)
		case e.Family == survival.FamilyFlavor:
			flavor = append(flavor, e)
		default:
			main = append(main, e)
		}
	}
	eligible := len(flavor) + len(fallback) + len(main)
	if eligible == 0 {
		return Selection{Reason: ReasonAllRequirementsBlocked}
	}

	sel := Selection{EligibleCount: eligible}
	var pool []content.Event
	switch {
	case len(flavor) > 0 && src.Float64() < FlavorChance:
		pool = flavor
	case len(main) > 0:
		pool = main
	case len(flavor) > 0:
		pool = flavor
	default:
		pool = fallback
		sel.UsedFallback = true
	}
	picked, _ := rng.PickOne(src, pool)
	sel.Event = &picked
	return sel
}
