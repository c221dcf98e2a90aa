package survival

import "testing"

func TestGameplayTuning_Defaults(t *testing.T) {
	if MaxDays != 30 || SpringGraceDays != 2 {
		t.Fatalf("day bounds = (%d,%d), want (30,2)", MaxDays, SpringGraceDays)
	}
	if MaxLogEntries != 20 {
		t.Fatalf("MaxLogEntries = %d, want 20", MaxLogEntries)
	}
	if BaseHeatLoss != -2 || BaseEnergyLoss != -1 {
		t.Fatalf("base upkeep = (%v,%v), want (-2,-1)", BaseHeatLoss, BaseEnergyLoss)
	}
	if BaseSleepRecovery.Energy != 10 || BaseSleepRecovery.Heat != 3 || BaseSleepRecovery.Sanity != 1 {
		t.Fatalf("sleep recovery = %+v, want energy 10 heat 3 sanity 1", BaseSleepRecovery)
	}
	if AnomalyThreshold != 80 || AnomalyStreakDays != 3 {
		t.Fatalf("anomaly thresholds = (%d,%d), want (80,3)", AnomalyThreshold, AnomalyStreakDays)
	}
	if SisuTurns != 3 || SaturationLevel != 95 {
		t.Fatalf("sisu/saturation = (%d,%d), want (3,95)", SisuTurns, SaturationLevel)
	}
}

func TestGameplayTuning_DifficultyTable(t *testing.T) {
	hard := TuningFor(DifficultyHard)
	if hard.HeatLossMultiplier != 1.2 || hard.EnergyLossMultiplier != 1.15 || hard.SleepRecoveryBoost != 0.95 {
		t.Fatalf("hard tuning = %+v", hard)
	}
	easy := TuningFor(DifficultyEasy)
	if easy.HeatLossMultiplier != 0.8 || easy.SleepRecoveryBoost != 1.15 {
		t.Fatalf("easy tuning = %+v", easy)
	}
	if got := TuningFor(Difficulty("NIGHTMARE")); got != TuningFor(DifficultyNormal) {
		t.Fatalf("unknown difficulty should play as NORMAL, got %+v", got)
	}
}

func TestGameplayTuning_WeatherTableCumulative(t *testing.T) {
	prev := 0.0
	for _, row := range weatherTable {
		if row.Threshold <= prev {
			t.Fatalf("weather thresholds must increase: %v after %v", row.Threshold, prev)
		}
		prev = row.Threshold
	}
	if prev != 1 {
		t.Fatalf("last weather threshold = %v, want 1", prev)
	}
}

func TestScenarioSpringAfterFullSeason(t *testing.T) {
	s := NewGameState(DifficultyNormal)
	s.Time.Day = MaxDays + SpringGraceDays + 1
	s.Resources = Resources{Money: 50, Sanity: 40, Energy: 30, Heat: 30, Anomaly: 10}
	e := CheckEnding(s)
	if e == nil || e.ID != EndingSpring {
		t.Fatalf("expected spring, got %+v", e)
	}
}
