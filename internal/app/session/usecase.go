package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"kaamos/internal/app/game"
	"kaamos/internal/app/ports"
	"kaamos/internal/domain/content"
	"kaamos/internal/domain/survival"
)

var (
	ErrInvalidRequest = errors.New("invalid session request")
	ErrNoSave         = fmt.Errorf("no saved game: %w", ports.ErrNotFound)
	ErrGameOver       = fmt.Errorf("game already ended: %w", ports.ErrConflict)
)

const (
	OpStart    = "start"
	OpContinue = "continue"
	OpChoose   = "choose"
	OpAdvance  = "advance"
	OpBuy      = "buy"
	OpUse      = "use"
	OpSetFlag  = "set_flag"
	OpAdjust   = "adjust"
	OpSpend    = "spend"
	OpStatus   = "status"
	OpReset    = "reset"
)

// UseCase runs engine operations against a persisted save slot. Each call
// loads the slot, applies one operation and writes the result back.
type UseCase struct {
	Engine    *game.Engine
	Saves     ports.SaveRepository
	TxManager ports.TxManager
	Metrics   ports.GameMetrics
	Logger    *slog.Logger
	Now       func() time.Time
}

type current struct {
	state  survival.GameState
	event  *content.Event
	ending *survival.Ending
}

func (u UseCase) logger() *slog.Logger {
	if u.Logger == nil {
		return slog.Default()
	}
	return u.Logger
}

func (u UseCase) now() time.Time {
	if u.Now == nil {
		return time.Now().UTC()
	}
	return u.Now().UTC()
}

func slotOf(id string) string {
	id = strings.TrimSpace(id)
	if id == "" {
		return ports.DefaultSlotID
	}
	return id
}

func (u UseCase) inTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if u.Engine == nil || u.Saves == nil {
		return ErrInvalidRequest
	}
	if u.TxManager == nil {
		return fn(ctx)
	}
	return u.TxManager.RunInTx(ctx, fn)
}

// load returns the slot's game, or false when there is none. Storage errors
// are logged and treated as an empty slot.
func (u UseCase) load(ctx context.Context, slotID string) (current, bool) {
	snap, err := u.Saves.Load(ctx, slotID)
	if err != nil {
		if !errors.Is(err, ports.ErrNotFound) {
			u.logger().Warn("load save failed, starting without one", "slot", slotID, "err", err)
		}
		return current{}, false
	}

	if snap.EndingID != "" {
		if ending, ok := survival.Endings[snap.EndingID]; ok {
			return current{state: survival.Hydrate(snap.State), ending: &ending}, true
		}
	}
	if snap.CurrentEventID != "" {
		if ev, ok := u.Engine.Catalog.Event(snap.CurrentEventID); ok {
			return current{state: survival.Hydrate(snap.State), event: &ev}, true
		}
		u.logger().Warn("saved event no longer in catalog, resolving anew", "slot", slotID, "event", snap.CurrentEventID)
	}
	res := u.Engine.Continue(snap.State)
	return current{state: res.State, event: res.Event, ending: res.Ending}, true
}

func (u UseCase) save(ctx context.Context, slotID string, c current) {
	snap := ports.SaveSnapshot{
		SlotID:  slotID,
		State:   c.state,
		SavedAt: u.now(),
	}
	if c.event != nil {
		snap.CurrentEventID = c.event.ID
	}
	if c.ending != nil {
		snap.EndingID = c.ending.ID
	}
	if err := u.Saves.Save(ctx, snap); err != nil {
		u.logger().Warn("save failed", "slot", slotID, "err", err)
	}
}

func (u UseCase) respond(slotID string, c current) Response {
	return Response{
		SlotID:   slotID,
		State:    c.state,
		Event:    c.event,
		Ending:   c.ending,
		Success:  true,
		Forecast: u.Engine.Forecast(c.state),
	}
}

func (u UseCase) record(op string, err error, resp Response, endedBefore bool) {
	if u.Metrics == nil {
		return
	}
	if err != nil || !resp.Success {
		u.Metrics.RecordFailure(op)
		return
	}
	u.Metrics.RecordOperation(op)
	if resp.Ending != nil && !endedBefore {
		u.Metrics.RecordEnding(resp.Ending.ID)
	}
}

// mutate loads an active game, applies fn and persists the outcome.
func (u UseCase) mutate(ctx context.Context, op, slotID string, fn func(c current) (current, Response, error)) (Response, error) {
	slotID = slotOf(slotID)
	var resp Response
	endedBefore := false
	err := u.inTx(ctx, func(txCtx context.Context) error {
		c, ok := u.load(txCtx, slotID)
		if !ok {
			return ErrNoSave
		}
		if c.ending != nil {
			endedBefore = true
			return ErrGameOver
		}
		next, r, err := fn(c)
		if err != nil {
			return err
		}
		u.save(txCtx, slotID, next)
		resp = r
		resp.SlotID = slotID
		resp.Forecast = u.Engine.Forecast(next.state)
		return nil
	})
	u.record(op, err, resp, endedBefore)
	if err != nil {
		return Response{}, err
	}
	return resp, nil
}

func (u UseCase) Start(ctx context.Context, req StartRequest) (Response, error) {
	if req.Difficulty == "" {
		req.Difficulty = survival.DifficultyNormal
	}
	if !req.Difficulty.Valid() {
		return Response{}, ErrInvalidRequest
	}
	slotID := slotOf(req.SlotID)
	var opts []survival.StateOption
	if req.TrialRun {
		opts = append(opts, survival.WithTrialRun())
	}

	var resp Response
	err := u.inTx(ctx, func(txCtx context.Context) error {
		turn := u.Engine.Start(req.Difficulty, opts...)
		c := current{state: turn.State, event: turn.Event, ending: turn.Ending}
		u.save(txCtx, slotID, c)
		resp = u.respond(slotID, c)
		resp.Message = turn.Message
		return nil
	})
	u.record(OpStart, err, resp, false)
	if err != nil {
		return Response{}, err
	}
	u.logger().Info("game started", "slot", slotID, "difficulty", req.Difficulty, "trial", req.TrialRun)
	return resp, nil
}

// Continue resumes the slot's saved game.
func (u UseCase) Continue(ctx context.Context, req SlotRequest) (Response, error) {
	return u.read(ctx, OpContinue, req.SlotID)
}

// Status reports the slot's game without changing it.
func (u UseCase) Status(ctx context.Context, req SlotRequest) (Response, error) {
	return u.read(ctx, OpStatus, req.SlotID)
}

func (u UseCase) read(ctx context.Context, op, slotID string) (Response, error) {
	slotID = slotOf(slotID)
	var resp Response
	err := u.inTx(ctx, func(txCtx context.Context) error {
		c, ok := u.load(txCtx, slotID)
		if !ok {
			return ErrNoSave
		}
		resp = u.respond(slotID, c)
		return nil
	})
	u.record(op, err, resp, true)
	if err != nil {
		return Response{}, err
	}
	return resp, nil
}

func (u UseCase) Choose(ctx context.Context, req ChooseRequest) (Response, error) {
	return u.mutate(ctx, OpChoose, req.SlotID, func(c current) (current, Response, error) {
		if c.event == nil {
			return c, Response{}, ErrInvalidRequest
		}
		turn := u.Engine.ChooseOption(c.state, *c.event, req.ChoiceIndex)
		next := current{state: turn.State, event: turn.Event, ending: turn.Ending}
		resp := u.respond("", next)
		resp.Message = turn.Message
		resp.Choice = turn.Choice
		resp.Completed = turn.Completed
		if turn.Ending != nil {
			u.logger().Info("game ended", "ending", turn.Ending.ID, "day", turn.State.Time.Day)
		}
		return next, resp, nil
	})
}

func (u UseCase) Advance(ctx context.Context, req SlotRequest) (Response, error) {
	return u.mutate(ctx, OpAdvance, req.SlotID, func(c current) (current, Response, error) {
		res := u.Engine.ResolveNextEventOrEnding(u.Engine.AdvancePhase(c.state))
		next := current{state: res.State, event: res.Event, ending: res.Ending}
		return next, u.respond("", next), nil
	})
}

func (u UseCase) Buy(ctx context.Context, req ItemRequest) (Response, error) {
	if strings.TrimSpace(req.ItemID) == "" {
		return Response{}, ErrInvalidRequest
	}
	return u.mutate(ctx, OpBuy, req.SlotID, func(c current) (current, Response, error) {
		return u.result(c, u.Engine.BuyItem(c.state, req.ItemID))
	})
}

func (u UseCase) Use(ctx context.Context, req ItemRequest) (Response, error) {
	if strings.TrimSpace(req.ItemID) == "" {
		return Response{}, ErrInvalidRequest
	}
	return u.mutate(ctx, OpUse, req.SlotID, func(c current) (current, Response, error) {
		return u.result(c, u.Engine.UseItem(c.state, req.ItemID))
	})
}

func (u UseCase) Spend(ctx context.Context, req SpendRequest) (Response, error) {
	if req.Amount < 0 {
		return Response{}, ErrInvalidRequest
	}
	return u.mutate(ctx, OpSpend, req.SlotID, func(c current) (current, Response, error) {
		return u.result(c, u.Engine.SpendEnergy(c.state, req.Amount, req.Note, req.ExhaustedNote))
	})
}

func (u UseCase) result(c current, r game.Result) (current, Response, error) {
	next := c
	next.state = r.State
	resp := u.respond("", next)
	resp.Success = r.Success
	resp.Message = r.Message
	return next, resp, nil
}

func (u UseCase) SetFlag(ctx context.Context, req FlagRequest) (Response, error) {
	if strings.TrimSpace(string(req.Flag)) == "" {
		return Response{}, ErrInvalidRequest
	}
	return u.mutate(ctx, OpSetFlag, req.SlotID, func(c current) (current, Response, error) {
		state, err := u.Engine.SetFlag(c.state, req.Flag, req.Value)
		if err != nil {
			return c, Response{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
		}
		next := c
		next.state = state
		return next, u.respond("", next), nil
	})
}

// Adjust applies a resource bundle, then re-checks for an ending since the
// bundle may have emptied a resource.
func (u UseCase) Adjust(ctx context.Context, req AdjustRequest) (Response, error) {
	if len(req.Delta) == 0 {
		return Response{}, ErrInvalidRequest
	}
	return u.mutate(ctx, OpAdjust, req.SlotID, func(c current) (current, Response, error) {
		state, err := u.Engine.AdjustResources(c.state, req.Delta, req.Note)
		if err != nil {
			return c, Response{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
		}
		state = survival.StepReprieve(state, false)
		next := c
		next.state = state
		if ending := survival.CheckEnding(state); ending != nil {
			next.event = nil
			next.ending = ending
		}
		return next, u.respond("", next), nil
	})
}

func (u UseCase) Reset(ctx context.Context, req SlotRequest) error {
	slotID := slotOf(req.SlotID)
	err := u.inTx(ctx, func(txCtx context.Context) error {
		return u.Saves.Clear(txCtx, slotID)
	})
	u.record(OpReset, err, Response{Success: true}, true)
	return err
}
