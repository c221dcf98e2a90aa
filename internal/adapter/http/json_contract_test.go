package httpadapter

import (
	"encoding/json"
	"testing"

	"kaamos/internal/app/auth"
	"kaamos/internal/app/journal"
	"kaamos/internal/app/session"
	"kaamos/internal/domain/content"
	"kaamos/internal/domain/survival"
)

func TestResponseJSONUsesSnakeCase(t *testing.T) {
	state := survival.NewGameState(survival.DifficultyNormal)
	state.Log = []survival.LogEntry{{Day: 1, Phase: survival.PhaseDay, Title: "Kela", Outcome: "jono"}}
	ending := survival.Endings[survival.EndingSpring]
	event := content.Event{ID: "day_fallback", Phase: survival.PhaseDay, Family: survival.FamilyFallback, Title: "t"}

	cases := []struct {
		name    string
		payload any
		want    []string
		notWant []string
	}{
		{
			name:    "session",
			payload: session.Response{SlotID: "s1", State: state, Event: &event, Ending: &ending, Success: true},
			want:    []string{"slot_id", "state", "event", "ending", "success", "forecast"},
			notWant: []string{"SlotID", "State", "Event"},
		},
		{
			name:    "register",
			payload: auth.RegisterResponse{SlotID: "s1", SlotKey: "k", IssuedAt: "now"},
			want:    []string{"slot_id", "slot_key", "issued_at"},
			notWant: []string{"SlotID", "SlotKey"},
		},
		{
			name:    "journal",
			payload: journal.Response{SlotID: "s1", Entries: state.Log},
			want:    []string{"slot_id", "entries", "history", "completed", "paths"},
			notWant: []string{"Entries", "History"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b, err := json.Marshal(tc.payload)
			if err != nil {
				t.Fatalf("marshal failed: %v", err)
			}
			var got map[string]any
			if err := json.Unmarshal(b, &got); err != nil {
				t.Fatalf("unmarshal failed: %v", err)
			}
			for _, key := range tc.want {
				if _, ok := got[key]; !ok {
					t.Fatalf("expected key %q in %s", key, string(b))
				}
			}
			for _, key := range tc.notWant {
				if _, ok := got[key]; ok {
					t.Fatalf("unexpected key %q in %s", key, string(b))
				}
			}
			if tc.name == "session" {
				stateMap := asMap(got["state"])
				meta := asMap(stateMap["meta"])
				if _, ok := meta["high_anomaly_days"]; !ok {
					t.Fatalf("expected nested snake_case key state.meta.high_anomaly_days in %s", string(b))
				}
				if _, ok := asMap(stateMap["resources"])["Money"]; ok {
					t.Fatalf("unexpected nested key state.resources.Money in %s", string(b))
				}
			}
		})
	}
}

func asMap(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}
