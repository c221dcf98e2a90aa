package game

import (
	"errors"
	"fmt"
	"log/slog"

	"kaamos/internal/app/ports"
	"kaamos/internal/domain/content"
	"kaamos/internal/domain/narrative"
	"kaamos/internal/domain/rng"
	"kaamos/internal/domain/survival"
)

// MaxPhaseSkips bounds how many phases ResolveNextEventOrEnding may advance
// while looking for an event.
const MaxPhaseSkips = 4

var (
	ErrUnknownFlag  = errors.New("unknown flag")
	ErrInvalidDelta = errors.New("invalid resource delta")
)

// Engine composes the domain rules into the operations a frontend calls. Every
// method takes a state value and returns a new one; inputs are never mutated.
type Engine struct {
	Catalog *content.Catalog
	RNG     rng.Source
	Sound   ports.SoundPlayer
	Logger  *slog.Logger
}

// New builds an Engine; a nil src gets an unseeded source.
func New(catalog *content.Catalog, src rng.Source, sound ports.SoundPlayer, logger *slog.Logger) *Engine {
	if src == nil {
		src = rng.NewRandom()
	}
	return &Engine{Catalog: catalog, RNG: src, Sound: sound, Logger: logger}
}

// fallbackSource serves Engines built without New. It is shared, so it is locked.
var fallbackSource = rng.Locked(rng.NewRandom())

func (e *Engine) logger() *slog.Logger {
	if e.Logger == nil {
		return slog.Default()
	}
	return e.Logger
}

func (e *Engine) source() rng.Source {
	if e.RNG == nil {
		return fallbackSource
	}
	return e.RNG
}

func (e *Engine) play(s survival.GameState, sound ports.Sound) {
	if e.Sound == nil || s.Flag(survival.FlagSoundMuted) {
		return
	}
	e.Sound.Play(sound)
}

// CreateInitialState starts a fresh run.
func (e *Engine) CreateInitialState(difficulty survival.Difficulty, opts ...survival.StateOption) survival.GameState {
	return survival.NewGameState(difficulty, opts...)
}

// Start creates a fresh run and resolves its first event.
func (e *Engine) Start(difficulty survival.Difficulty, opts ...survival.StateOption) Turn {
	res := e.ResolveNextEventOrEnding(e.CreateInitialState(difficulty, opts...))
	return Turn{Resolution: res, Message: msgStartNewGame}
}

// Continue resumes a loaded snapshot, filling fields an older save may lack.
func (e *Engine) Continue(snapshot survival.GameState) Resolution {
	return e.ResolveNextEventOrEnding(survival.Hydrate(snapshot))
}

// ResolveNextEventOrEnding checks for an ending and otherwise draws an event
// for the current phase. Phases with nothing eligible are skipped, at most
// MaxPhaseSkips times, before the run ends as data exhausted.
func (e *Engine) ResolveNextEventOrEnding(s survival.GameState) Resolution {
	current := s
	var reason narrative.Reason
	for skipped := 0; ; skipped++ {
		if ending := survival.CheckEnding(current); ending != nil {
			return Resolution{State: current, Ending: ending, Skipped: skipped, Reason: reason}
		}
		sel := narrative.SelectEvent(e.Catalog, current, current.Time.Phase, e.source())
		if sel.Event != nil {
			return Resolution{State: current, Event: sel.Event, Skipped: skipped, Reason: reason}
		}
		reason = sel.Reason
		if skipped >= MaxPhaseSkips {
			e.logger().Warn("no event could be resolved",
				"day", current.Time.Day,
				"phase", current.Time.Phase,
				"skipped", skipped,
				"reason", reason,
			)
			return Resolution{State: current, Ending: survival.DataExhausted(), Skipped: skipped, Reason: reason}
		}
		e.logger().Debug("skipping phase without events", "day", current.Time.Day, "phase", current.Time.Phase, "reason", reason)
		current = e.AdvancePhase(current)
	}
}

// ChooseOption resolves a choice of the current event and moves the run on to
// the next event or ending. A nil or out-of-range index picks at random.
func (e *Engine) ChooseOption(s survival.GameState, event content.Event, index *int) Turn {
	e.play(s, ports.SoundClick)

	next, choice := narrative.ApplyChoice(s, event, index, e.source())
	next, completed := survival.EvaluateTasks(s, next, survival.TaskContext{LastEventFamily: event.Family})
	outcome := ""
	if choice != nil {
		outcome = choice.Text
	}
	next.AppendLog(event.Title, outcome)
	next = logCompleted(next, completed)
	next = survival.StepReprieve(next, true)

	turn := Turn{Choice: choice, Message: describeChoice(event, choice), Completed: completed}
	if ending := survival.CheckEnding(next); ending != nil {
		turn.Resolution = Resolution{State: next, Ending: ending}
		return turn
	}

	advanced, more := e.advance(next)
	turn.Completed = append(turn.Completed, more...)
	turn.Resolution = e.ResolveNextEventOrEnding(advanced)
	return turn
}

func describeChoice(event content.Event, choice *content.Choice) string {
	if choice == nil {
		return event.Title
	}
	return fmt.Sprintf("%s: %s", event.Title, choice.Text)
}

// AdvancePhase runs the clock one phase forward with the reprieve step and
// the phase and day task checks.
func (e *Engine) AdvancePhase(s survival.GameState) survival.GameState {
	next, _ := e.advance(s)
	return next
}

func (e *Engine) advance(s survival.GameState) (survival.GameState, []survival.CompletedTask) {
	next := survival.AdvancePhase(s, e.source())
	next = survival.StepReprieve(next, false)
	next, completed := survival.EvaluateTasks(s, next, survival.TaskContext{Phase: next.Time.Phase})
	next = logCompleted(next, completed)
	e.play(next, ports.SoundWind)
	return next, completed
}

func logCompleted(s survival.GameState, completed []survival.CompletedTask) survival.GameState {
	if len(completed) == 0 {
		return s
	}
	next := s.Clone()
	for _, t := range completed {
		next.AppendLog(msgTaskCompleted, t.Description)
	}
	return next
}

// Forecast reports the resource drift the next phase change would apply.
func (e *Engine) Forecast(s survival.GameState) survival.Upkeep {
	return survival.Forecast(s)
}

// BuyItem purchases an item from the kiosk. The kiosk only trades during the
// day, but an unaffordable item is refused for lack of money in any phase.
func (e *Engine) BuyItem(s survival.GameState, itemID string) Result {
	item, ok := e.Catalog.Item(itemID)
	if !ok {
		return e.fail(s, msgUnknownShopItem)
	}
	if s.Resources.Money < item.Price {
		return e.fail(s, msgInsufficientFunds)
	}
	if s.Time.Phase != survival.PhaseDay {
		return e.fail(s, msgShopClosed)
	}
	if len(s.Inventory) >= survival.InventoryCapacity {
		return e.fail(s, msgInventoryFull)
	}

	next := s.Clone()
	next.Resources.Money -= item.Price
	next.AddItem(item.ID)
	next.ClampResources()
	next, completed := survival.EvaluateTasks(s, next, survival.TaskContext{
		PurchasedItemID:   item.ID,
		PurchasedHeatItem: item.HeatItem(),
	})
	next = logCompleted(next, completed)

	e.play(next, ports.SoundCash)
	return Result{State: next, Success: true, Message: fmt.Sprintf(msgBought, item.Name)}
}

func (e *Engine) fail(s survival.GameState, message string) Result {
	e.play(s, ports.SoundError)
	return Result{State: s, Success: false, Message: message}
}

var saturationMessages = map[survival.Resource]string{
	survival.ResourceEnergy: msgEnergySaturated,
	survival.ResourceHeat:   msgHeatSaturated,
	survival.ResourceSanity: msgSanitySaturated,
}

// UseItem applies a carried item's effects and flags, consuming it when the
// item says so. Items whose every restorative target is already saturated are
// refused.
func (e *Engine) UseItem(s survival.GameState, itemID string) Result {
	item, ok := e.Catalog.Item(itemID)
	if !ok {
		return e.fail(s, msgUnknownItem)
	}
	if !s.HasItem(itemID) {
		return e.fail(s, fmt.Sprintf(msgNotCarried, item.Name))
	}
	if item.OnUse == nil {
		return e.fail(s, fmt.Sprintf(msgNoEffect, item.Name))
	}
	if blocked, ok := saturated(s, item.OnUse.Effects); ok {
		return e.fail(s, saturationMessages[blocked])
	}

	next := s.Clone()
	next.Resources.Apply(item.OnUse.Effects)
	for f, v := range item.OnUse.Flags {
		next.SetFlag(f, v)
	}
	next.ClampResources()
	if item.OnUse.Consume {
		next.RemoveItem(itemID)
	}

	message := item.OnUse.Message
	if message == "" {
		message = fmt.Sprintf(msgUsed, item.Name)
	}
	return Result{State: next, Success: true, Message: message}
}

// saturated returns the first restorative resource of effects when all of
// them are above survival.SaturationLevel.
func saturated(s survival.GameState, effects survival.Delta) (survival.Resource, bool) {
	var positive []survival.Resource
	for _, r := range []survival.Resource{survival.ResourceEnergy, survival.ResourceHeat, survival.ResourceSanity} {
		if effects[r] > 0 {
			positive = append(positive, r)
		}
	}
	if len(positive) == 0 {
		return "", false
	}
	for _, r := range positive {
		if s.Resources.Get(r) <= survival.SaturationLevel {
			return "", false
		}
	}
	return positive[0], true
}

// SetFlag writes a flag. Writing the value already held returns s itself.
func (e *Engine) SetFlag(s survival.GameState, flag survival.Flag, value bool) (survival.GameState, error) {
	if !e.Catalog.FlagAllowed(flag) {
		return s, fmt.Errorf("%w: %s", ErrUnknownFlag, flag)
	}
	if current, ok := s.Flags[flag]; ok && current == value {
		return s, nil
	}
	next := s.Clone()
	next.SetFlag(flag, value)
	return next, nil
}

// AdjustResources applies a delta bundle from a minigame or debug panel and
// records note in the log when given.
func (e *Engine) AdjustResources(s survival.GameState, delta survival.Delta, note string) (survival.GameState, error) {
	for k := range delta {
		if !k.Valid() {
			return s, fmt.Errorf("%w: unknown resource %q", ErrInvalidDelta, k)
		}
	}
	next := s.Clone()
	next.Resources.Apply(delta)
	if note != "" {
		next.AppendLog(note, formatDelta(delta))
	}
	return next, nil
}

// UpdateMoney adds delta to money, flooring at zero.
func (e *Engine) UpdateMoney(s survival.GameState, delta float64) survival.GameState {
	next := s.Clone()
	next.Resources.Money += delta
	next.ClampResources()
	return next
}

// SpendEnergy pays amount of energy for an optional activity. When energy is
// short the state is unchanged and exhaustedNote (or a default) is returned.
func (e *Engine) SpendEnergy(s survival.GameState, amount float64, note, exhaustedNote string) Result {
	if amount < 0 {
		amount = 0
	}
	if s.Resources.Energy < amount {
		if exhaustedNote == "" {
			exhaustedNote = msgInsufficientEnergy
		}
		return e.fail(s, exhaustedNote)
	}
	next := s.Clone()
	next.Resources.Energy -= amount
	next.ClampResources()
	if note != "" {
		next.AppendLog(note, fmt.Sprintf("energy -%g", amount))
	}
	return Result{State: next, Success: true, Message: note}
}

func formatDelta(d survival.Delta) string {
	out := ""
	for _, r := range survival.AllResources {
		v, ok := d[r]
		if !ok {
			continue
		}
		if out != "" {
			out += ", "
		}
		out += fmt.Sprintf("%s %+g", r, v)
	}
	return out
}
