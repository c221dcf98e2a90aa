package content

import (
	"fmt"

	"kaamos/internal/domain/survival"
)

// ValidationError describes one authoring mistake.
type ValidationError struct {
	Source  string
	ID      string
	Message string
}

func (e ValidationError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s: %s", e.Source, e.Message)
	}
	return fmt.Sprintf("%s %q: %s", e.Source, e.ID, e.Message)
}

type validator struct {
	c    *Catalog
	errs []ValidationError
}

func (v *validator) add(source, id, format string, args ...any) {
	v.errs = append(v.errs, ValidationError{Source: source, ID: id, Message: fmt.Sprintf(format, args...)})
}

// Validate checks the catalog for authoring mistakes. An empty result means
// the catalog is safe to play.
func Validate(c *Catalog) []ValidationError {
	v := &validator{c: c}
	v.items()
	v.events()
	v.fallbackCoverage()
	return v.errs
}

func (v *validator) items() {
	seen := map[string]bool{}
	for i, it := range v.c.items {
		if it.ID == "" {
			v.add(ItemsFile, "", "item at index %d has no id", i)
			continue
		}
		if seen[it.ID] {
			v.add(ItemsFile, it.ID, "duplicate id at index %d", i)
		}
		seen[it.ID] = true
		if it.Name == "" {
			v.add(ItemsFile, it.ID, "missing name")
		}
		if it.Price < 0 {
			v.add(ItemsFile, it.ID, "negative price %v", it.Price)
		}
		if it.Type != ItemConsumable && it.Type != ItemTool {
			v.add(ItemsFile, it.ID, "invalid type %q, allowed: consumable, tool", it.Type)
		}
		if it.OnUse != nil {
			v.delta(ItemsFile, it.ID, "on_use", it.OnUse.Effects)
			v.flags(ItemsFile, it.ID, "on_use", it.OnUse.Flags)
		}
	}
}

func (v *validator) events() {
	seen := map[string]bool{}
	for i, e := range v.c.events {
		if e.ID == "" {
			v.add(EventsFile, "", "event at index %d has no id", i)
			continue
		}
		if seen[e.ID] {
			v.add(EventsFile, e.ID, "duplicate id at index %d", i)
		}
		seen[e.ID] = true
		if !e.Phase.Valid() {
			v.add(EventsFile, e.ID, "invalid phase %q, allowed: DAY, NIGHT, SLEEP", e.Phase)
		}
		if !e.Family.Valid() {
			v.add(EventsFile, e.ID, "unknown family %q", e.Family)
		}
		if len(e.Choices) == 0 {
			v.add(EventsFile, e.ID, "must include at least one choice")
		}
		v.requirements(e)
		for ci, ch := range e.Choices {
			where := fmt.Sprintf("choice %d", ci)
			v.delta(EventsFile, e.ID, where, ch.Effects)
			v.flags(EventsFile, e.ID, where, ch.Flags)
			for p := range ch.XP {
				if !p.Valid() {
					v.add(EventsFile, e.ID, "%s: unknown path %q", where, p)
				}
			}
			if ch.Loot != "" {
				if _, ok := v.c.Item(ch.Loot); !ok {
					v.add(EventsFile, e.ID, "%s: loot references unknown item %q", where, ch.Loot)
				}
			}
		}
	}
}

func (v *validator) requirements(e Event) {
	r := e.Requirements
	if r.RequiredFlag != "" && !v.c.FlagAllowed(r.RequiredFlag) {
		v.add(EventsFile, e.ID, "requirements: flag %q is neither known nor declared", r.RequiredFlag)
	}
	if r.RequiredPath != nil && !r.RequiredPath.Path.Valid() {
		v.add(EventsFile, e.ID, "requirements: unknown path %q", r.RequiredPath.Path)
	}
	if r.RequiredItem != "" {
		if _, ok := v.c.Item(r.RequiredItem); !ok {
			v.add(EventsFile, e.ID, "requirements: unknown item %q", r.RequiredItem)
		}
	}
	for _, w := range r.Weather {
		if !w.Valid() {
			v.add(EventsFile, e.ID, "requirements: unknown weather %q", w)
		}
	}
}

func (v *validator) delta(source, id, where string, d survival.Delta) {
	for k := range d {
		if !k.Valid() {
			v.add(source, id, "%s: invalid resource key %q, allowed: money, sanity, energy, heat, anomaly", where, k)
		}
	}
}

func (v *validator) flags(source, id, where string, flags survival.Flags) {
	for f := range flags {
		if !v.c.FlagAllowed(f) {
			v.add(source, id, "%s: flag %q is neither known nor declared", where, f)
		}
	}
}

func (v *validator) fallbackCoverage() {
	covered := map[survival.Phase]bool{}
	for _, e := range v.c.events {
		if e.IsFallback() && len(e.Choices) > 0 && e.Requirements.empty() {
			covered[e.Phase] = true
		}
	}
	for _, p := range []survival.Phase{survival.PhaseDay, survival.PhaseNight, survival.PhaseSleep} {
		if !covered[p] {
			v.add(EventsFile, "", "phase %s has no unconditional fallback event", p)
		}
	}
}

func (r Requirements) empty() bool {
	return r.MinAnomaly == nil && r.MaxSanity == nil && r.RequiredFlag == "" &&
		r.RequiredPath == nil && r.RequiredItem == "" && len(r.Weather) == 0
}
