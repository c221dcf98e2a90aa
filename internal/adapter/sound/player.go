// Package sound provides the audio cue sinks for headless runs. A real
// frontend plays the cue; the server only records it.
package sound

import (
	"log/slog"
	"sync"

	"kaamos/internal/app/ports"
)

type Noop struct{}

func (Noop) Play(ports.Sound) {}

// LogPlayer writes each cue to a debug log and keeps a count per cue.
type LogPlayer struct {
	Logger *slog.Logger

	mu     sync.Mutex
	counts map[ports.Sound]int
}

func NewLogPlayer(logger *slog.Logger) *LogPlayer {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogPlayer{Logger: logger, counts: map[ports.Sound]int{}}
}

func (p *LogPlayer) Play(s ports.Sound) {
	p.mu.Lock()
	p.counts[s]++
	p.mu.Unlock()
	p.Logger.Debug("sound cue", "sound", string(s))
}

func (p *LogPlayer) Count(s ports.Sound) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.counts[s]
}
