package game

import (
	"io"
	"log/slog"
	"testing"

	"kaamos/internal/app/ports"
	"kaamos/internal/domain/content"
	"kaamos/internal/domain/rng"
	"kaamos/internal/domain/rng/rngtest"
	"kaamos/internal/domain/survival"
)

type recordingSound struct {
	played []ports.Sound
}

func (r *recordingSound) Play(sound ports.Sound) {
	r.played = append(r.played, sound)
}

func (r *recordingSound) last() ports.Sound {
	if len(r.played) == 0 {
		return ""
	}
	return r.played[len(r.played)-1]
}

var _ ports.SoundPlayer = (*recordingSound)(nil)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func defaultEngine(t *testing.T, src rng.Source) (*Engine, *recordingSound) {
	t.Helper()
	catalog, err := content.LoadDefault()
	if err != nil {
		t.Fatalf("load default catalog: %v", err)
	}
	sound := &recordingSound{}
	return New(catalog, src, sound, quietLogger()), sound
}

func catalogEngine(events []content.Event, items []content.Item) (*Engine, *recordingSound) {
	sound := &recordingSound{}
	return New(content.NewCatalog(events, items, nil), &rngtest.Fixed{Floats: []float64{0.5}}, sound, quietLogger()), sound
}

func event(id string, phase survival.Phase, family survival.Family, choices ...content.Choice) content.Event {
	return content.Event{ID: id, Phase: phase, Family: family, Title: id, Choices: choices}
}

func intPtr(v int) *int { return &v }

func assertBounded(t *testing.T, r survival.Resources) {
	t.Helper()
	if r.Money < 0 {
		t.Fatalf("money below zero: %v", r.Money)
	}
	for _, v := range []float64{r.Sanity, r.Energy, r.Heat, r.Anomaly} {
		if v < 0 || v > survival.ResourceCeiling {
			t.Fatalf("resource out of bounds: %+v", r)
		}
	}
}
