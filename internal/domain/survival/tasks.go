package survival

// DefaultTasks is the quest set every new run starts with.
func DefaultTasks() []Task {
	return []Task{
		{
			ID:          "task_job_1",
			Description: "Selviä ensimmäisestä paperisodasta.",
			Condition:   TaskCondition{Type: TaskEventFamily, Family: FamilyPaperwar},
			Reward:      Delta{ResourceMoney: 35, ResourceHeat: 5},
		},
		{
			ID:          "task_heat_purchase",
			Description: "Hanki jotain lämmintä kioskilta.",
			Condition:   TaskCondition{Type: TaskPurchaseHeatItem},
			Reward:      Delta{ResourceHeat: 10, ResourceSanity: 5},
		},
		{
			ID:          "task_first_night",
			Description: "Selviä ensimmäiseen yöhön.",
			Condition:   TaskCondition{Type: TaskReachPhase, Phase: PhaseNight},
			Reward:      Delta{ResourceSanity: 5, ResourceMoney: 15},
		},
		{
			ID:          "task_survive_week",
			Description: "Kestä kaamosta viikon verran.",
			Condition:   TaskCondition{Type: TaskReachDay, Day: 7},
			Reward:      Delta{ResourceMoney: 20, ResourceSanity: 5},
		},
	}
}

// TaskContext describes what just happened. Zero fields mean "not this kind of step".
type TaskContext struct {
	LastEventFamily   Family
	PurchasedItemID   string
	PurchasedHeatItem bool
	Phase             Phase
}

func taskMet(t Task, next GameState, ctx TaskContext) bool {
	switch t.Condition.Type {
	case TaskEventFamily:
		return ctx.LastEventFamily != "" && ctx.LastEventFamily == t.Condition.Family
	case TaskPurchaseHeatItem:
		return ctx.PurchasedItemID != "" && ctx.PurchasedHeatItem
	case TaskReachPhase:
		phase := ctx.Phase
		if phase == "" {
			phase = next.Time.Phase
		}
		return phase == t.Condition.Phase
	case TaskReachDay:
		return t.Condition.Day > 0 && next.Time.Day >= t.Condition.Day
	default:
		return false
	}
}

// EvaluateTasks completes every active task whose condition holds for next and
// applies the summed rewards. With nothing completed, next is returned as is.
func EvaluateTasks(_, next GameState, ctx TaskContext) (GameState, []CompletedTask) {
	var done []CompletedTask
	for _, t := range next.Meta.ActiveTasks {
		if taskMet(t, next, ctx) {
			done = append(done, CompletedTask{Task: t, CompletedOnDay: next.Time.Day})
		}
	}
	if len(done) == 0 {
		return next, nil
	}

	out := next.Clone()
	reward := Delta{}
	remaining := make([]Task, 0, len(out.Meta.ActiveTasks)-len(done))
	for _, t := range out.Meta.ActiveTasks {
		if taskMet(t, next, ctx) {
			continue
		}
		remaining = append(remaining, t)
	}
	for _, c := range done {
		reward = reward.Merge(c.Reward)
		c.Reward = c.Reward.Clone()
		out.Meta.CompletedTasks = append(out.Meta.CompletedTasks, c)
	}
	out.Meta.ActiveTasks = remaining
	out.Resources.Apply(reward)
	return out, done
}
