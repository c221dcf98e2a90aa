package survival

type Resource string

const (
	ResourceMoney   Resource = "money"
	ResourceSanity  Resource = "sanity"
	ResourceEnergy  Resource = "energy"
	ResourceHeat    Resource = "heat"
	ResourceAnomaly Resource = "anomaly"
)

// AllResources lists the resource keys in display order.
var AllResources = []Resource{ResourceMoney, ResourceSanity, ResourceEnergy, ResourceHeat, ResourceAnomaly}

func (r Resource) Valid() bool {
	switch r {
	case ResourceMoney, ResourceSanity, ResourceEnergy, ResourceHeat, ResourceAnomaly:
		return true
	default:
		return false
	}
}

type Resources struct {
	Money   float64 `json:"money"`
	Sanity  float64 `json:"sanity"`
	Energy  float64 `json:"energy"`
	Heat    float64 `json:"heat"`
	Anomaly float64 `json:"anomaly"`
}

// Delta is a partial resource change. Values are added, never assigned.
type Delta map[Resource]float64

type Phase string

const (
	PhaseDay   Phase = "DAY"
	PhaseNight Phase = "NIGHT"
	PhaseSleep Phase = "SLEEP"
)

func (p Phase) Valid() bool {
	return p == PhaseDay || p == PhaseNight || p == PhaseSleep
}

type Weather string

const (
	WeatherClear     Weather = "CLEAR"
	WeatherSnowstorm Weather = "SNOWSTORM"
	WeatherFog       Weather = "FOG"
	WeatherMild      Weather = "MILD"
)

func (w Weather) Valid() bool {
	switch w {
	case WeatherClear, WeatherSnowstorm, WeatherFog, WeatherMild:
		return true
	default:
		return false
	}
}

type Difficulty string

const (
	DifficultyEasy   Difficulty = "EASY"
	DifficultyNormal Difficulty = "NORMAL"
	DifficultyHard   Difficulty = "HARD"
)

func (d Difficulty) Valid() bool {
	return d == DifficultyEasy || d == DifficultyNormal || d == DifficultyHard
}

type TimeState struct {
	Day     int     `json:"day"`
	Phase   Phase   `json:"phase"`
	Weather Weather `json:"weather"`
}

type Family string

const (
	FamilyPaperwar  Family = "paperwar"
	FamilyNightlife Family = "nightlife"
	FamilySurvival  Family = "survival"
	FamilyFlavor    Family = "flavor"
	FamilyAnomaly   Family = "anomaly"
	FamilyFallback  Family = "fallback"
)

func (f Family) Valid() bool {
	switch f {
	case FamilyPaperwar, FamilyNightlife, FamilySurvival, FamilyFlavor, FamilyAnomaly, FamilyFallback:
		return true
	default:
		return false
	}
}

type Path string

const (
	PathBureaucrat Path = "bureaucrat"
	PathHustler    Path = "hustler"
	PathShaman     Path = "shaman"
	PathTech       Path = "tech"
	PathDrifter    Path = "drifter"
)

func (p Path) Valid() bool {
	switch p {
	case PathBureaucrat, PathHustler, PathShaman, PathTech, PathDrifter:
		return true
	default:
		return false
	}
}

type Paths struct {
	Bureaucrat int `json:"bureaucrat"`
	Hustler    int `json:"hustler"`
	Shaman     int `json:"shaman"`
	Tech       int `json:"tech"`
	Drifter    int `json:"drifter"`
}

// Level returns the experience tally of a path; unknown paths report 0.
func (p Paths) Level(path Path) int {
	switch path {
	case PathBureaucrat:
		return p.Bureaucrat
	case PathHustler:
		return p.Hustler
	case PathShaman:
		return p.Shaman
	case PathTech:
		return p.Tech
	case PathDrifter:
		return p.Drifter
	default:
		return 0
	}
}

// Gain adds experience to a path. Tallies only grow: non-positive amounts and
// unknown paths are ignored.
func (p *Paths) Gain(path Path, amount int) {
	if amount <= 0 {
		return
	}
	switch path {
	case PathBureaucrat:
		p.Bureaucrat += amount
	case PathHustler:
		p.Hustler += amount
	case PathShaman:
		p.Shaman += amount
	case PathTech:
		p.Tech += amount
	case PathDrifter:
		p.Drifter += amount
	}
}

type Flag string

const (
	FlagForecastRead     Flag = "forecast_read"
	FlagAnomalyAwakening Flag = "anomaly_awakening"
	FlagPaperwarSurvivor Flag = "paperwar_survivor"
	FlagKelaNinja        Flag = "kela_ninja"
	FlagJobMarketChecked Flag = "job_market_checked"
	FlagPaperwarRumor    Flag = "paperwar_rumor"
	FlagSoundMuted       Flag = "sound_muted"
)

var knownFlags = map[Flag]bool{
	FlagForecastRead:     true,
	FlagAnomalyAwakening: true,
	FlagPaperwarSurvivor: true,
	FlagKelaNinja:        true,
	FlagJobMarketChecked: true,
	FlagPaperwarRumor:    true,
	FlagSoundMuted:       true,
}

// volatileFlags are cleared on every SLEEP -> DAY transition.
var volatileFlags = []Flag{FlagForecastRead}

// KnownFlag reports whether the engine itself reads or writes the flag.
// Content may declare further flags; see content.Catalog.
func KnownFlag(f Flag) bool {
	return knownFlags[f]
}

type Flags map[Flag]bool

type LogEntry struct {
	Day     int    `json:"day"`
	Phase   Phase  `json:"phase"`
	Title   string `json:"title"`
	Outcome string `json:"outcome"`
}

type TaskConditionType string

const (
	TaskEventFamily      TaskConditionType = "event_family"
	TaskPurchaseHeatItem TaskConditionType = "purchase_heat_item"
	TaskReachPhase       TaskConditionType = "reach_phase"
	TaskReachDay         TaskConditionType = "reach_day"
)

type TaskCondition struct {
	Type   TaskConditionType `json:"type"`
	Family Family            `json:"family,omitempty"`
	Phase  Phase             `json:"phase,omitempty"`
	Day    int               `json:"day,omitempty"`
}

type Task struct {
	ID          string        `json:"id"`
	Description string        `json:"description"`
	Condition   TaskCondition `json:"condition"`
	Reward      Delta         `json:"reward"`
}

type CompletedTask struct {
	Task
	CompletedOnDay int `json:"completed_on_day"`
}

type SisuReason string

const (
	SisuReasonHeat   SisuReason = "heat"
	SisuReasonSanity SisuReason = "sanity"
)

// Sisu is the reprieve granted the first time a vital resource hits zero.
type Sisu struct {
	Active    bool       `json:"active"`
	TurnsLeft int        `json:"turns_left"`
	Reason    SisuReason `json:"reason,omitempty"`
	Recovered bool       `json:"recovered"`
}

type Meta struct {
	Difficulty      Difficulty      `json:"difficulty"`
	HighAnomalyDays int             `json:"high_anomaly_days"`
	ActiveTasks     []Task          `json:"active_tasks"`
	CompletedTasks  []CompletedTask `json:"completed_tasks"`
	Sisu            Sisu            `json:"sisu"`
	TrialRun        bool            `json:"trial_run,omitempty"`
}

// GameState is the aggregate root. Transitions take it by value and return a
// new value built from Clone; nothing mutates a state another caller holds.
type GameState struct {
	Resources Resources  `json:"resources"`
	Time      TimeState  `json:"time"`
	Flags     Flags      `json:"flags"`
	History   []string   `json:"history"`
	Inventory []string   `json:"inventory"`
	Paths     Paths      `json:"paths"`
	Log       []LogEntry `json:"log"`
	Meta      Meta       `json:"meta"`
}
