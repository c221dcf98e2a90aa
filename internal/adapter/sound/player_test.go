package sound

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"kaamos/internal/app/ports"
)

func TestLogPlayerCountsAndLogs(t *testing.T) {
	var buf bytes.Buffer
	p := NewLogPlayer(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	p.Play(ports.SoundCash)
	p.Play(ports.SoundCash)
	p.Play(ports.SoundWind)

	if p.Count(ports.SoundCash) != 2 || p.Count(ports.SoundWind) != 1 || p.Count(ports.SoundError) != 0 {
		t.Fatalf("unexpected counts cash=%d wind=%d", p.Count(ports.SoundCash), p.Count(ports.SoundWind))
	}
	if !strings.Contains(buf.String(), "sound=cash") {
		t.Fatalf("expected cue in log, got %q", buf.String())
	}
}

func TestNoopSatisfiesPlayer(t *testing.T) {
	var p ports.SoundPlayer = Noop{}
	p.Play(ports.SoundClick)
}
