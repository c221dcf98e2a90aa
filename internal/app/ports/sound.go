package ports

type Sound string

const (
	SoundClick Sound = "click"
	SoundCash  Sound = "cash"
	SoundError Sound = "error"
	SoundWind  Sound = "wind"
)

// SoundPlayer receives fire-and-forget audio cues.
type SoundPlayer interface {
	Play(sound Sound)
}
