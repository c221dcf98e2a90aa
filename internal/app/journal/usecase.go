// Package journal reads back what happened in a saved run: the outcome log,
// the ids of events already seen and the side quests finished so far.
package journal

import (
	"context"
	"errors"
	"strings"

	"kaamos/internal/app/ports"
	"kaamos/internal/domain/survival"
)

var ErrInvalidRequest = errors.New("invalid journal request")

type UseCase struct {
	Saves     ports.SaveRepository
	TxManager ports.TxManager
}

func (u UseCase) Execute(ctx context.Context, req Request) (Response, error) {
	slotID := strings.TrimSpace(req.SlotID)
	if slotID == "" || u.Saves == nil || req.Limit < 0 {
		return Response{}, ErrInvalidRequest
	}
	var snap ports.SaveSnapshot
	load := func(ctx context.Context) error {
		var err error
		snap, err = u.Saves.Load(ctx, slotID)
		return err
	}
	var err error
	if u.TxManager != nil {
		err = u.TxManager.RunInTx(ctx, load)
	} else {
		err = load(ctx)
	}
	if err != nil {
		return Response{}, err
	}
	state := survival.Hydrate(snap.State)

	entries := filterByDayWindow(state.Log, req.FromDay, req.ToDay)
	if req.Limit > 0 && len(entries) > req.Limit {
		entries = entries[len(entries)-req.Limit:]
	}
	return Response{
		SlotID:    slotID,
		Entries:   entries,
		History:   append([]string(nil), state.History...),
		Completed: append([]survival.CompletedTask(nil), state.Meta.CompletedTasks...),
		Paths:     state.Paths,
	}, nil
}

func filterByDayWindow(entries []survival.LogEntry, from, to int) []survival.LogEntry {
	out := make([]survival.LogEntry, 0, len(entries))
	for _, e := range entries {
		if from > 0 && e.Day < from {
			continue
		}
		if to > 0 && e.Day > to {
			continue
		}
		out = append(out, e)
	}
	return out
}
