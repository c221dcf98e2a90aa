package survival

import "kaamos/internal/domain/rng"

// Upkeep is the per-tick resource drift applied by the phase clock.
type Upkeep struct {
	Heat   float64 `json:"heat"`
	Energy float64 `json:"energy"`
	Sanity float64 `json:"sanity"`
}

// UpkeepFor returns the DAY-baseline drain for the current weather,
// difficulty and forecast flag.
func UpkeepFor(s GameState) Upkeep {
	tuning := TuningFor(s.Meta.Difficulty)
	heat := BaseHeatLoss * tuning.HeatLossMultiplier
	energy := BaseEnergyLoss * tuning.EnergyLossMultiplier

	// Reading the forecast softens the cold regardless of difficulty.
	if s.Flag(FlagForecastRead) {
		heat += ForecastHeatBuffer
	}

	switch s.Time.Weather {
	case WeatherSnowstorm:
		return Upkeep{Heat: heat * 2, Energy: energy * 2}
	case WeatherMild:
		return Upkeep{Heat: heat / 2, Energy: energy / 2}
	case WeatherFog:
		return Upkeep{Heat: heat, Energy: energy, Sanity: FogSanityLoss}
	default:
		return Upkeep{Heat: heat, Energy: energy}
	}
}

// SleepRecovery returns the SLEEP -> DAY recovery scaled by difficulty.
func SleepRecovery(d Difficulty) Upkeep {
	boost := TuningFor(d).SleepRecoveryBoost
	return Upkeep{
		Heat:   BaseSleepRecovery.Heat * boost,
		Energy: BaseSleepRecovery.Energy * boost,
		Sanity: BaseSleepRecovery.Sanity * boost,
	}
}

// Forecast returns the resource drift the next AdvancePhase would apply.
func Forecast(s GameState) Upkeep {
	switch s.Time.Phase {
	case PhaseNight:
		u := UpkeepFor(s)
		u.Heat *= 2
		return u
	case PhaseSleep:
		return SleepRecovery(s.Meta.Difficulty)
	default:
		return UpkeepFor(s)
	}
}

// RollWeather draws the next day's weather from the cumulative table.
func RollWeather(src rng.Source) Weather {
	roll := src.Float64()
	for _, row := range weatherTable {
		if roll < row.Threshold {
			return row.Weather
		}
	}
	return WeatherClear
}

// AdvancePhase moves the clock one phase forward and applies that edge's
// upkeep. The input state is left untouched.
func AdvancePhase(s GameState, src rng.Source) GameState {
	next := s.Clone()

	switch next.Time.Phase {
	case PhaseDay:
		applyUpkeep(&next, UpkeepFor(next), 1)
		next.Time.Phase = PhaseNight
	case PhaseNight:
		applyUpkeep(&next, UpkeepFor(next), 2)
		next.Time.Phase = PhaseSleep
	case PhaseSleep:
		recovery := SleepRecovery(next.Meta.Difficulty)
		next.Resources.Energy += recovery.Energy
		next.Resources.Heat += recovery.Heat
		next.Resources.Sanity += recovery.Sanity
		for _, f := range volatileFlags {
			next.Flags[f] = false
		}
		next.ClampResources()
		next.Time.Day++
		next.Time.Phase = PhaseDay
		next.Time.Weather = RollWeather(src)
		if next.Resources.Anomaly >= AnomalyThreshold {
			next.Meta.HighAnomalyDays++
		} else {
			next.Meta.HighAnomalyDays = 0
		}
	default:
		next.Time.Phase = PhaseDay
	}

	return next
}

func applyUpkeep(s *GameState, u Upkeep, heatFactor float64) {
	s.Resources.Heat += u.Heat * heatFactor
	s.Resources.Energy += u.Energy
	s.Resources.Sanity += u.Sanity
	s.ClampResources()
}
