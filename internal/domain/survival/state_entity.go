package survival

// Clone deep-copies every map and slice so the result shares nothing with s.
func (s GameState) Clone() GameState {
	next := s
	next.Flags = make(Flags, len(s.Flags))
	for k, v := range s.Flags {
		next.Flags[k] = v
	}
	next.History = append([]string(nil), s.History...)
	next.Inventory = append([]string(nil), s.Inventory...)
	next.Log = append([]LogEntry(nil), s.Log...)
	next.Meta.ActiveTasks = cloneTasks(s.Meta.ActiveTasks)
	if s.Meta.CompletedTasks != nil {
		next.Meta.CompletedTasks = make([]CompletedTask, len(s.Meta.CompletedTasks))
		for i, t := range s.Meta.CompletedTasks {
			t.Reward = t.Reward.Clone()
			next.Meta.CompletedTasks[i] = t
		}
	}
	return next
}

func cloneTasks(tasks []Task) []Task {
	if tasks == nil {
		return nil
	}
	out := make([]Task, len(tasks))
	for i, t := range tasks {
		t.Reward = t.Reward.Clone()
		out[i] = t
	}
	return out
}

// ClampResources applies Clamp to the state's resources in place. Call it only
// on a working copy.
func (s *GameState) ClampResources() {
	s.Resources.Clamp()
}

// AddItem appends an item when capacity allows and reports whether it was added.
func (s *GameState) AddItem(itemID string) bool {
	if itemID == "" || len(s.Inventory) >= InventoryCapacity {
		return false
	}
	s.Inventory = append(s.Inventory, itemID)
	return true
}

// RemoveItem drops the first matching item.
func (s *GameState) RemoveItem(itemID string) bool {
	for i, id := range s.Inventory {
		if id == itemID {
			s.Inventory = append(s.Inventory[:i:i], s.Inventory[i+1:]...)
			return true
		}
	}
	return false
}

func (s GameState) HasItem(itemID string) bool {
	for _, id := range s.Inventory {
		if id == itemID {
			return true
		}
	}
	return false
}

func (s GameState) Flag(f Flag) bool {
	return s.Flags[f]
}

// SetFlag writes a flag on a working copy.
func (s *GameState) SetFlag(f Flag, v bool) {
	if s.Flags == nil {
		s.Flags = Flags{}
	}
	s.Flags[f] = v
}

// AppendLog adds an entry stamped with the current time, keeping only the most
// recent MaxLogEntries.
func (s *GameState) AppendLog(title, outcome string) {
	s.Log = append(s.Log, LogEntry{
		Day:     s.Time.Day,
		Phase:   s.Time.Phase,
		Title:   title,
		Outcome: outcome,
	})
	if over := len(s.Log) - MaxLogEntries; over > 0 {
		s.Log = append([]LogEntry(nil), s.Log[over:]...)
	}
}

type StateOption func(*GameState)

// WithTrialRun enables the short trial-victory ending.
func WithTrialRun() StateOption {
	return func(s *GameState) {
		s.Meta.TrialRun = true
	}
}

// NewGameState seeds a fresh run for the difficulty.
func NewGameState(difficulty Difficulty, opts ...StateOption) GameState {
	if !difficulty.Valid() {
		difficulty = DifficultyNormal
	}
	s := GameState{
		Resources: StartingResources(difficulty),
		Time: TimeState{
			Day:     1,
			Phase:   PhaseDay,
			Weather: WeatherClear,
		},
		Flags:     Flags{FlagSoundMuted: false},
		History:   []string{},
		Inventory: []string{},
		Log:       []LogEntry{},
		Meta: Meta{
			Difficulty:     difficulty,
			ActiveTasks:    DefaultTasks(),
			CompletedTasks: []CompletedTask{},
		},
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// Hydrate fills fields an older snapshot may lack. It only defaults what is
// missing and never rewrites present values beyond clamping.
func Hydrate(s GameState) GameState {
	next := s.Clone()
	if next.Flags == nil {
		next.Flags = Flags{}
	}
	if _, ok := next.Flags[FlagSoundMuted]; !ok {
		next.Flags[FlagSoundMuted] = false
	}
	if next.History == nil {
		next.History = []string{}
	}
	if next.Inventory == nil {
		next.Inventory = []string{}
	}
	if len(next.Inventory) > InventoryCapacity {
		next.Inventory = next.Inventory[:InventoryCapacity]
	}
	if next.Log == nil {
		next.Log = []LogEntry{}
	}
	if next.Time.Day < 1 {
		next.Time.Day = 1
	}
	if !next.Time.Phase.Valid() {
		next.Time.Phase = PhaseDay
	}
	if !next.Time.Weather.Valid() {
		next.Time.Weather = WeatherClear
	}
	if !next.Meta.Difficulty.Valid() {
		next.Meta.Difficulty = DifficultyNormal
	}
	if next.Meta.ActiveTasks == nil && next.Meta.CompletedTasks == nil {
		next.Meta.ActiveTasks = DefaultTasks()
	}
	if next.Meta.ActiveTasks == nil {
		next.Meta.ActiveTasks = []Task{}
	}
	if next.Meta.CompletedTasks == nil {
		next.Meta.CompletedTasks = []CompletedTask{}
	}
	if next.Meta.Sisu.TurnsLeft < 0 {
		next.Meta.Sisu.TurnsLeft = 0
	}
	next.ClampResources()
	return next
}
