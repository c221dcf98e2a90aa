package content

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"kaamos/internal/domain/survival"
)

// Catalog is the read-only index over authored events and items.
type Catalog struct {
	events   []Event
	eventIdx map[string]int
	items    []Item
	itemIdx  map[string]int
	flags    map[survival.Flag]bool
}

// NewCatalog indexes the given content. Later duplicates of an id are kept in
// the lists (so Validate can report them) but lookups resolve to the first.
func NewCatalog(events []Event, items []Item, declaredFlags []survival.Flag) *Catalog {
	c := &Catalog{
		events:   append([]Event(nil), events...),
		eventIdx: make(map[string]int, len(events)),
		items:    append([]Item(nil), items...),
		itemIdx:  make(map[string]int, len(items)),
		flags:    make(map[survival.Flag]bool, len(declaredFlags)),
	}
	for i, e := range c.events {
		if _, ok := c.eventIdx[e.ID]; !ok {
			c.eventIdx[e.ID] = i
		}
	}
	for i, it := range c.items {
		if _, ok := c.itemIdx[it.ID]; !ok {
			c.itemIdx[it.ID] = i
		}
	}
	for _, f := range declaredFlags {
		c.flags[f] = true
	}
	return c
}

func (c *Catalog) Events() []Event {
	return append([]Event(nil), c.events...)
}

func (c *Catalog) Items() []Item {
	return append([]Item(nil), c.items...)
}

// EventsForPhase returns the events authored for phase in catalog order.
func (c *Catalog) EventsForPhase(phase survival.Phase) []Event {
	var out []Event
	for _, e := range c.events {
		if e.Phase == phase {
			out = append(out, e)
		}
	}
	return out
}

func (c *Catalog) Event(id string) (Event, bool) {
	i, ok := c.eventIdx[id]
	if !ok {
		return Event{}, false
	}
	return c.events[i], true
}

func (c *Catalog) Item(id string) (Item, bool) {
	i, ok := c.itemIdx[id]
	if !ok {
		return Item{}, false
	}
	return c.items[i], true
}

// FlagAllowed reports whether a flag is either engine-known or declared by content.
func (c *Catalog) FlagAllowed(f survival.Flag) bool {
	return survival.KnownFlag(f) || c.flags[f]
}

// DeclaredFlags lists content-declared flags in sorted order.
func (c *Catalog) DeclaredFlags() []survival.Flag {
	out := make([]survival.Flag, 0, len(c.flags))
	for f := range c.flags {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// SuggestItems returns item ids close to input, best match first.
func (c *Catalog) SuggestItems(input string) []string {
	ids := make([]string, 0, len(c.items))
	for _, it := range c.items {
		ids = append(ids, it.ID)
	}
	return suggest(input, ids)
}

// SuggestEvents returns event ids close to input, best match first.
func (c *Catalog) SuggestEvents(input string) []string {
	ids := make([]string, 0, len(c.events))
	for _, e := range c.events {
		ids = append(ids, e.ID)
	}
	return suggest(input, ids)
}

type scored struct {
	id   string
	dist int
}

func suggest(input string, candidates []string) []string {
	token := strings.ToLower(strings.TrimSpace(input))
	if token == "" {
		return nil
	}
	seen := make(map[string]bool, len(candidates))
	var results []scored
	for _, cand := range candidates {
		if seen[cand] {
			continue
		}
		seen[cand] = true
		lower := strings.ToLower(cand)
		switch {
		case lower == token:
			results = append(results, scored{id: cand, dist: -2})
		case len(token) >= 2 && strings.HasPrefix(lower, token):
			results = append(results, scored{id: cand, dist: -1})
		default:
			dist := levenshtein.ComputeDistance(token, lower)
			if dist > distanceLimit(len(lower)) {
				continue
			}
			results = append(results, scored{id: cand, dist: dist})
		}
	}
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].dist == results[j].dist {
			return results[i].id < results[j].id
		}
		return results[i].dist < results[j].dist
	})
	out := make([]string, 0, len(results))
	for _, r := range results {
		out = append(out, r.id)
	}
	return out
}

func distanceLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}
