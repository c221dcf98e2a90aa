package narrative

import (
	"kaamos/internal/domain/content"
	"kaamos/internal/domain/rng"
	"kaamos/internal/domain/survival"
)

// ApplyChoice resolves one choice of e against s. An out-of-range or nil index
// picks a random choice. The returned choice is nil when the event has none;
// the event is still recorded in history.
func ApplyChoice(s survival.GameState, e content.Event, index *int, src rng.Source) (survival.GameState, *content.Choice) {
	next := s.Clone()
	next.History = append(next.History, e.ID)
	if len(e.Choices) == 0 {
		return next, nil
	}

	var choice content.Choice
	if index != nil && *index >= 0 && *index < len(e.Choices) {
		choice = e.Choices[*index]
	} else {
		choice, _ = rng.PickOne(src, e.Choices)
	}

	next.Resources.Apply(choice.Effects)
	for path, amount := range choice.XP {
		next.Paths.Gain(path, amount)
	}
	for f, v := range choice.Flags {
		next.SetFlag(f, v)
	}
	if choice.Loot != "" {
		next.AddItem(choice.Loot)
	}
	next.ClampResources()
	return next, &choice
}
